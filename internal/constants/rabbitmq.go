package constants

// Обменник событий каталога
const (
	DefaultListingEventsExchange = "catalog_events_exchange"
)

// Контракт события жизненного цикла объявления
const (
	ListingEventSchemaType    = "ListingLifecycleEvent"
	ListingEventSchemaVersion = "1.0.0"
)
