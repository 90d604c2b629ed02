package domain

import "time"

// Типы событий жизненного цикла объявления
const (
	EventListingCreated  = "listing.created"
	EventListingUpdated  = "listing.updated"
	EventListingArchived = "listing.archived"
	EventListingRestored = "listing.restored"
	EventListingDeleted  = "listing.deleted"
)

// ListingEvent - событие для внешних потребителей (индексация, уведомления).
// Публикация best-effort: сбой публикации логируется и не влияет на операцию.
type ListingEvent struct {
	Type       string
	ListingID  int64
	Slug       string
	Status     string
	OccurredAt time.Time
}
