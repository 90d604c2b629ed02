package domain

// ReferenceItem - элемент справочника (операции, типы недвижимости).
type ReferenceItem struct {
	ID   int64
	Name string
}

// HousingType - тип жилья, привязан к типу недвижимости.
type HousingType struct {
	ID             int64
	Name           string
	PropertyTypeID int64
}
