package rest

import (
	"strconv"
	"time"

	"catalog-service/internal/core/domain"
)

// listingRequest - тело запроса на создание или обновление объявления.
// Все поля опциональны на уровне разбора; обязательность проверяется
// при сборке draft/patch. Тот же DTO заполняется из multipart-формы,
// где все значения приходят строками.
type listingRequest struct {
	Status *string `json:"status"`

	OperationID    *int64 `json:"operationId"`
	PropertyTypeID *int64 `json:"propertyTypeId"`
	HousingTypeID  *int64 `json:"housingTypeId"`

	Price       *float64 `json:"price"`
	Area        *float64 `json:"area"`
	TotalArea   *float64 `json:"totalArea"`
	LivingArea  *float64 `json:"livingArea"`
	KitchenArea *float64 `json:"kitchenArea"`

	Rooms          *int `json:"rooms"`
	Floor          *int `json:"floor"`
	TotalFloors    *int `json:"totalFloors"`
	YearBuilt      *int `json:"yearBuilt"`
	RenovationYear *int `json:"renovationYear"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Address          *string `json:"address"`
	ShortDescription *string `json:"shortDescription"`
	FullDescription  *string `json:"fullDescription"`

	Condition  *string `json:"condition"`
	Parking    *string `json:"parking"`
	Renovation *string `json:"renovation"`
	Balcony    *string `json:"balcony"`
	Bathroom   *string `json:"bathroom"`
	Windows    *string `json:"windows"`
	View       *string `json:"view"`
	Ownership  *string `json:"ownership"`

	HasElevator      *bool `json:"hasElevator"`
	Encumbrance      *bool `json:"encumbrance"`
	MortgagePossible *bool `json:"mortgagePossible"`
	ReadyToMove      *bool `json:"readyToMove"`
	Bargaining       *bool `json:"bargaining"`
}

// formValues - плоские значения multipart-формы (первое значение поля).
type formValues map[string][]string

func (f formValues) get(key string) (string, bool) {
	values, ok := f[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (f formValues) str(key string, _ *[]domain.FieldError) *string {
	raw, ok := f.get(key)
	if !ok {
		return nil
	}
	return &raw
}

func (f formValues) int64Field(key string, fieldErrs *[]domain.FieldError) *int64 {
	raw, ok := f.get(key)
	if !ok || raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		*fieldErrs = append(*fieldErrs, domain.FieldError{Field: key, Message: "must be an integer"})
		return nil
	}
	return &value
}

func (f formValues) intField(key string, fieldErrs *[]domain.FieldError) *int {
	raw, ok := f.get(key)
	if !ok || raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		*fieldErrs = append(*fieldErrs, domain.FieldError{Field: key, Message: "must be an integer"})
		return nil
	}
	return &value
}

func (f formValues) floatField(key string, fieldErrs *[]domain.FieldError) *float64 {
	raw, ok := f.get(key)
	if !ok || raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*fieldErrs = append(*fieldErrs, domain.FieldError{Field: key, Message: "must be a number"})
		return nil
	}
	return &value
}

func (f formValues) boolField(key string, fieldErrs *[]domain.FieldError) *bool {
	raw, ok := f.get(key)
	if !ok || raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		*fieldErrs = append(*fieldErrs, domain.FieldError{Field: key, Message: "must be a boolean"})
		return nil
	}
	return &value
}

// listingRequestFromForm собирает listingRequest из multipart-формы,
// приводя строковые значения к типам полей.
func listingRequestFromForm(form formValues) (*listingRequest, error) {
	var fieldErrs []domain.FieldError

	req := &listingRequest{
		Status: form.str("status", &fieldErrs),

		OperationID:    form.int64Field("operationId", &fieldErrs),
		PropertyTypeID: form.int64Field("propertyTypeId", &fieldErrs),
		HousingTypeID:  form.int64Field("housingTypeId", &fieldErrs),

		Price:       form.floatField("price", &fieldErrs),
		Area:        form.floatField("area", &fieldErrs),
		TotalArea:   form.floatField("totalArea", &fieldErrs),
		LivingArea:  form.floatField("livingArea", &fieldErrs),
		KitchenArea: form.floatField("kitchenArea", &fieldErrs),

		Rooms:          form.intField("rooms", &fieldErrs),
		Floor:          form.intField("floor", &fieldErrs),
		TotalFloors:    form.intField("totalFloors", &fieldErrs),
		YearBuilt:      form.intField("yearBuilt", &fieldErrs),
		RenovationYear: form.intField("renovationYear", &fieldErrs),

		Latitude:  form.floatField("latitude", &fieldErrs),
		Longitude: form.floatField("longitude", &fieldErrs),

		Address:          form.str("address", &fieldErrs),
		ShortDescription: form.str("shortDescription", &fieldErrs),
		FullDescription:  form.str("fullDescription", &fieldErrs),

		Condition:  form.str("condition", &fieldErrs),
		Parking:    form.str("parking", &fieldErrs),
		Renovation: form.str("renovation", &fieldErrs),
		Balcony:    form.str("balcony", &fieldErrs),
		Bathroom:   form.str("bathroom", &fieldErrs),
		Windows:    form.str("windows", &fieldErrs),
		View:       form.str("view", &fieldErrs),
		Ownership:  form.str("ownership", &fieldErrs),

		HasElevator:      form.boolField("hasElevator", &fieldErrs),
		Encumbrance:      form.boolField("encumbrance", &fieldErrs),
		MortgagePossible: form.boolField("mortgagePossible", &fieldErrs),
		ReadyToMove:      form.boolField("readyToMove", &fieldErrs),
		Bargaining:       form.boolField("bargaining", &fieldErrs),
	}

	if len(fieldErrs) > 0 {
		return nil, &domain.ValidationError{Fields: fieldErrs}
	}
	return req, nil
}

// toDraft проверяет обязательные поля и собирает ListingDraft.
func (req *listingRequest) toDraft() (*domain.ListingDraft, error) {
	var fieldErrs []domain.FieldError

	if req.OperationID == nil {
		fieldErrs = append(fieldErrs, domain.FieldError{Field: "operationId", Message: "is required"})
	}
	if req.PropertyTypeID == nil {
		fieldErrs = append(fieldErrs, domain.FieldError{Field: "propertyTypeId", Message: "is required"})
	}
	if req.Price == nil {
		fieldErrs = append(fieldErrs, domain.FieldError{Field: "price", Message: "is required"})
	} else if *req.Price <= 0 {
		fieldErrs = append(fieldErrs, domain.FieldError{Field: "price", Message: "must be positive"})
	}

	status := domain.StatusActive
	if req.Status != nil {
		if !domain.IsValidStatus(*req.Status) {
			fieldErrs = append(fieldErrs, domain.FieldError{Field: "status", Message: "unknown status"})
		} else {
			status = *req.Status
		}
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		fieldErrs = append(fieldErrs, domain.FieldError{Field: "latitude", Message: "latitude and longitude must be provided together"})
	}

	if len(fieldErrs) > 0 {
		return nil, &domain.ValidationError{Fields: fieldErrs}
	}

	return &domain.ListingDraft{
		Status: status,

		OperationID:    *req.OperationID,
		PropertyTypeID: *req.PropertyTypeID,
		HousingTypeID:  req.HousingTypeID,

		Price:       *req.Price,
		Area:        req.Area,
		TotalArea:   req.TotalArea,
		LivingArea:  req.LivingArea,
		KitchenArea: req.KitchenArea,

		Rooms:          req.Rooms,
		Floor:          req.Floor,
		TotalFloors:    req.TotalFloors,
		YearBuilt:      req.YearBuilt,
		RenovationYear: req.RenovationYear,

		Latitude:  req.Latitude,
		Longitude: req.Longitude,

		Address:          req.Address,
		ShortDescription: req.ShortDescription,
		FullDescription:  req.FullDescription,

		Condition:  req.Condition,
		Parking:    req.Parking,
		Renovation: req.Renovation,
		Balcony:    req.Balcony,
		Bathroom:   req.Bathroom,
		Windows:    req.Windows,
		View:       req.View,
		Ownership:  req.Ownership,

		HasElevator:      req.HasElevator,
		Encumbrance:      boolOrFalse(req.Encumbrance),
		MortgagePossible: boolOrFalse(req.MortgagePossible),
		ReadyToMove:      boolOrFalse(req.ReadyToMove),
		// Торг по умолчанию уместен, пока продавец явно не запретил
		Bargaining: boolOrTrue(req.Bargaining),
	}, nil
}

// toPatch собирает частичное обновление. Поля, отсутствующие в
// запросе, остаются nil и не меняются.
func (req *listingRequest) toPatch() (*domain.ListingPatch, error) {
	var fieldErrs []domain.FieldError

	if req.Price != nil && *req.Price <= 0 {
		fieldErrs = append(fieldErrs, domain.FieldError{Field: "price", Message: "must be positive"})
	}
	if req.Status != nil && !domain.IsValidStatus(*req.Status) {
		fieldErrs = append(fieldErrs, domain.FieldError{Field: "status", Message: "unknown status"})
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		fieldErrs = append(fieldErrs, domain.FieldError{Field: "latitude", Message: "latitude and longitude must be provided together"})
	}

	if len(fieldErrs) > 0 {
		return nil, &domain.ValidationError{Fields: fieldErrs}
	}

	return &domain.ListingPatch{
		Status: req.Status,

		OperationID:    req.OperationID,
		PropertyTypeID: req.PropertyTypeID,
		HousingTypeID:  req.HousingTypeID,

		Price:       req.Price,
		Area:        req.Area,
		TotalArea:   req.TotalArea,
		LivingArea:  req.LivingArea,
		KitchenArea: req.KitchenArea,

		Rooms:          req.Rooms,
		Floor:          req.Floor,
		TotalFloors:    req.TotalFloors,
		YearBuilt:      req.YearBuilt,
		RenovationYear: req.RenovationYear,

		Latitude:  req.Latitude,
		Longitude: req.Longitude,

		Address:          req.Address,
		ShortDescription: req.ShortDescription,
		FullDescription:  req.FullDescription,

		Condition:  req.Condition,
		Parking:    req.Parking,
		Renovation: req.Renovation,
		Balcony:    req.Balcony,
		Bathroom:   req.Bathroom,
		Windows:    req.Windows,
		View:       req.View,
		Ownership:  req.Ownership,

		HasElevator:      req.HasElevator,
		Encumbrance:      req.Encumbrance,
		MortgagePossible: req.MortgagePossible,
		ReadyToMove:      req.ReadyToMove,
		Bargaining:       req.Bargaining,
	}, nil
}

func boolOrFalse(value *bool) bool {
	return value != nil && *value
}

func boolOrTrue(value *bool) bool {
	return value == nil || *value
}

// --- DTO ответов ---

type ListingResponse struct {
	ID         int64      `json:"id"`
	Slug       string     `json:"slug"`
	Status     string     `json:"status"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`

	OperationID    int64  `json:"operationId"`
	PropertyTypeID int64  `json:"propertyTypeId"`
	HousingTypeID  *int64 `json:"housingTypeId,omitempty"`

	Price       float64  `json:"price"`
	Area        *float64 `json:"area,omitempty"`
	TotalArea   *float64 `json:"totalArea,omitempty"`
	LivingArea  *float64 `json:"livingArea,omitempty"`
	KitchenArea *float64 `json:"kitchenArea,omitempty"`

	Rooms          *int `json:"rooms,omitempty"`
	Floor          *int `json:"floor,omitempty"`
	TotalFloors    *int `json:"totalFloors,omitempty"`
	YearBuilt      *int `json:"yearBuilt,omitempty"`
	RenovationYear *int `json:"renovationYear,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Geohash   *string  `json:"geohash,omitempty"`

	Address          *string `json:"address,omitempty"`
	ShortDescription *string `json:"shortDescription,omitempty"`
	FullDescription  *string `json:"fullDescription,omitempty"`

	Condition  *string `json:"condition,omitempty"`
	Parking    *string `json:"parking,omitempty"`
	Renovation *string `json:"renovation,omitempty"`
	Balcony    *string `json:"balcony,omitempty"`
	Bathroom   *string `json:"bathroom,omitempty"`
	Windows    *string `json:"windows,omitempty"`
	View       *string `json:"view,omitempty"`
	Ownership  *string `json:"ownership,omitempty"`

	HasElevator      *bool `json:"hasElevator,omitempty"`
	Encumbrance      bool  `json:"encumbrance"`
	MortgagePossible bool  `json:"mortgagePossible"`
	ReadyToMove      bool  `json:"readyToMove"`
	Bargaining       bool  `json:"bargaining"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toListingResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ID:         l.ID,
		Slug:       l.Slug,
		Status:     l.Status,
		ArchivedAt: l.ArchivedAt,

		OperationID:    l.OperationID,
		PropertyTypeID: l.PropertyTypeID,
		HousingTypeID:  l.HousingTypeID,

		Price:       l.Price,
		Area:        l.Area,
		TotalArea:   l.TotalArea,
		LivingArea:  l.LivingArea,
		KitchenArea: l.KitchenArea,

		Rooms:          l.Rooms,
		Floor:          l.Floor,
		TotalFloors:    l.TotalFloors,
		YearBuilt:      l.YearBuilt,
		RenovationYear: l.RenovationYear,

		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Geohash:   l.Geohash,

		Address:          l.Address,
		ShortDescription: l.ShortDescription,
		FullDescription:  l.FullDescription,

		Condition:  l.Condition,
		Parking:    l.Parking,
		Renovation: l.Renovation,
		Balcony:    l.Balcony,
		Bathroom:   l.Bathroom,
		Windows:    l.Windows,
		View:       l.View,
		Ownership:  l.Ownership,

		HasElevator:      l.HasElevator,
		Encumbrance:      l.Encumbrance,
		MortgagePossible: l.MortgagePossible,
		ReadyToMove:      l.ReadyToMove,
		Bargaining:       l.Bargaining,

		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

type PhotoResponse struct {
	ID        int64     `json:"id"`
	ListingID int64     `json:"listingId"`
	URL       string    `json:"url"`
	IsMain    bool      `json:"isMain"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPhotoResponses(photos []domain.Photo) []PhotoResponse {
	result := make([]PhotoResponse, len(photos))
	for i, p := range photos {
		result[i] = PhotoResponse{
			ID:        p.ID,
			ListingID: p.ListingID,
			URL:       p.URL,
			IsMain:    p.IsMain,
			CreatedAt: p.CreatedAt,
		}
	}
	return result
}

// ListingCardResponse - карточка для списочной выдачи.
type ListingCardResponse struct {
	ListingResponse
	MainImageURL *string `json:"mainImageUrl,omitempty"`
}

// ListingDetailsResponse - полная карточка с именами справочников и фотографиями.
type ListingDetailsResponse struct {
	ListingResponse
	OperationName    string          `json:"operationName"`
	PropertyTypeName string          `json:"propertyTypeName"`
	HousingTypeName  *string         `json:"housingTypeName,omitempty"`
	Photos           []PhotoResponse `json:"photos"`
}

func toListingDetailsResponse(details *domain.ListingDetails) ListingDetailsResponse {
	return ListingDetailsResponse{
		ListingResponse:  toListingResponse(&details.Listing),
		OperationName:    details.OperationName,
		PropertyTypeName: details.PropertyTypeName,
		HousingTypeName:  details.HousingTypeName,
		Photos:           toPhotoResponses(details.Photos),
	}
}

// PaginatedListingsResponse - страница каталога с метаданными пагинации.
type PaginatedListingsResponse struct {
	Data       []ListingCardResponse `json:"data"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"perPage"`
	TotalPages int                   `json:"totalPages"`
	HasNext    bool                  `json:"hasNext"`
	HasPrev    bool                  `json:"hasPrev"`
}

func toPaginatedResponse(result *domain.PaginatedListings) PaginatedListingsResponse {
	data := make([]ListingCardResponse, len(result.Listings))
	for i, card := range result.Listings {
		data[i] = ListingCardResponse{
			ListingResponse: toListingResponse(&card.Listing),
			MainImageURL:    card.MainImageURL,
		}
	}

	totalPages := TotalPages(result.TotalCount, result.ItemsPerPage)
	return PaginatedListingsResponse{
		Data:       data,
		Total:      result.TotalCount,
		Page:       result.CurrentPage,
		PerPage:    result.ItemsPerPage,
		TotalPages: totalPages,
		HasNext:    result.CurrentPage < totalPages,
		HasPrev:    result.CurrentPage > 1,
	}
}

// TotalPages считает количество страниц с округлением вверх.
func TotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

type ReferenceItemResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type HousingTypeResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	PropertyTypeID int64  `json:"propertyTypeId"`
}
