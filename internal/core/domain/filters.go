package domain

// Параметры пагинации и сортировки по умолчанию
const (
	DefaultPageSize = 10
	MaxPageSize     = 50

	DefaultSortField = "createdAt"
	DefaultSortOrder = "desc"
)

// Специальные значения фильтра по количеству комнат
const (
	RoomsStudio   = "studio" // студия хранится как 0 комнат
	RoomsFivePlus = "5+"
)

// ListingFilters - нормализованный набор фильтров каталога.
// Каждое поле независимо опционально: отсутствие значения означает
// "без ограничения", а не ограничение значением по умолчанию.
type ListingFilters struct {
	OperationID    *int64
	PropertyTypeID *int64
	HousingTypeID  *int64

	MinPrice *float64
	MaxPrice *float64
	MinArea  *float64
	MaxArea  *float64

	YearMin *int
	YearMax *int

	// Rooms: конкретное число, "studio" или "5+"
	Rooms string

	Floor       *int
	HasElevator *bool

	// Подстрочный поиск по адресу и описаниям
	Search string

	// Только для привилегированных вызовов
	Status          string
	IncludeArchived bool

	SortBy string
	Order  string
}

// PaginatedListings - страница выдачи каталога вместе с общим количеством.
type PaginatedListings struct {
	Listings     []ListingCard
	TotalCount   int64
	CurrentPage  int
	ItemsPerPage int
}
