package domain

import "time"

// Статусы объявления
const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

// IsValidStatus проверяет принадлежность статуса к справочнику статусов
func IsValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusActive, StatusArchived:
		return true
	}
	return false
}

// Listing - объявление о продаже/аренде объекта недвижимости.
// Slug уникален среди всех объявлений независимо от статуса и
// используется как публичный ключ поиска.
type Listing struct {
	ID         int64
	Slug       string
	Status     string
	ArchivedAt *time.Time

	// Ссылки на справочники
	OperationID    int64
	PropertyTypeID int64
	HousingTypeID  *int64

	Price       float64
	Area        *float64
	TotalArea   *float64
	LivingArea  *float64
	KitchenArea *float64

	Rooms          *int
	Floor          *int
	TotalFloors    *int
	YearBuilt      *int
	RenovationYear *int

	// Координаты либо заданы парой, либо отсутствуют обе
	Latitude  *float64
	Longitude *float64
	Geohash   *string

	Address          *string
	ShortDescription *string
	FullDescription  *string

	Condition  *string
	Parking    *string
	Renovation *string
	Balcony    *string
	Bathroom   *string
	Windows    *string
	View       *string
	Ownership  *string

	HasElevator      *bool
	Encumbrance      bool
	MortgagePossible bool
	ReadyToMove      bool
	Bargaining       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListingDraft - провалидированные типизированные данные для создания объявления.
type ListingDraft struct {
	Status string

	OperationID    int64
	PropertyTypeID int64
	HousingTypeID  *int64

	Price       float64
	Area        *float64
	TotalArea   *float64
	LivingArea  *float64
	KitchenArea *float64

	Rooms          *int
	Floor          *int
	TotalFloors    *int
	YearBuilt      *int
	RenovationYear *int

	Latitude  *float64
	Longitude *float64
	Geohash   *string

	Address          *string
	ShortDescription *string
	FullDescription  *string

	Condition  *string
	Parking    *string
	Renovation *string
	Balcony    *string
	Bathroom   *string
	Windows    *string
	View       *string
	Ownership  *string

	HasElevator      *bool
	Encumbrance      bool
	MortgagePossible bool
	ReadyToMove      bool
	Bargaining       bool
}

// ListingPatch - частичное обновление. nil означает "поле не менять",
// для строковых полей пустая строка означает очистку значения.
type ListingPatch struct {
	Status *string

	OperationID    *int64
	PropertyTypeID *int64
	HousingTypeID  *int64

	Price       *float64
	Area        *float64
	TotalArea   *float64
	LivingArea  *float64
	KitchenArea *float64

	Rooms          *int
	Floor          *int
	TotalFloors    *int
	YearBuilt      *int
	RenovationYear *int

	Latitude  *float64
	Longitude *float64
	Geohash   *string

	// ClearCoordinates сбрасывает пару координат и geohash в NULL:
	// адрес сменился, а геокодирование не дало результата.
	ClearCoordinates bool

	Address          *string
	ShortDescription *string
	FullDescription  *string

	Condition  *string
	Parking    *string
	Renovation *string
	Balcony    *string
	Bathroom   *string
	Windows    *string
	View       *string
	Ownership  *string

	HasElevator      *bool
	Encumbrance      *bool
	MortgagePossible *bool
	ReadyToMove      *bool
	Bargaining       *bool
}

// ListingCard - объявление в списке выдачи вместе с главным фото.
type ListingCard struct {
	Listing
	MainImageURL *string
}

// ListingDetails - полная карточка объявления для детальной страницы.
type ListingDetails struct {
	Listing
	OperationName    string
	PropertyTypeName string
	HousingTypeName  *string
	Photos           []Photo
}
