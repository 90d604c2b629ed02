package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// Лимиты multipart-загрузки
const (
	maxUploadFiles    = 10
	maxUploadFileSize = 10 << 20 // 10 MB на файл
	maxUploadMemory   = 32 << 20
)

type ListingHandler struct {
	createListingUC  usecases_port.CreateListingUseCase
	updateListingUC  usecases_port.UpdateListingUseCase
	findListingsUC   usecases_port.FindListingsUseCase
	getListingUC     usecases_port.GetListingUseCase
	archiveListingUC usecases_port.ArchiveListingUseCase
	restoreListingUC usecases_port.RestoreListingUseCase
	deleteListingUC  usecases_port.DeleteListingUseCase
}

func NewListingHandler(
	createListingUC usecases_port.CreateListingUseCase,
	updateListingUC usecases_port.UpdateListingUseCase,
	findListingsUC usecases_port.FindListingsUseCase,
	getListingUC usecases_port.GetListingUseCase,
	archiveListingUC usecases_port.ArchiveListingUseCase,
	restoreListingUC usecases_port.RestoreListingUseCase,
	deleteListingUC usecases_port.DeleteListingUseCase,
) *ListingHandler {
	return &ListingHandler{
		createListingUC:  createListingUC,
		updateListingUC:  updateListingUC,
		findListingsUC:   findListingsUC,
		getListingUC:     getListingUC,
		archiveListingUC: archiveListingUC,
		restoreListingUC: restoreListingUC,
		deleteListingUC:  deleteListingUC,
	}
}

// FindListings обрабатывает GET /api/v1/listings
func (h *ListingHandler) FindListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	query := r.URL.Query()
	page, limit := GetPagination(query)
	offset := (page - 1) * limit
	privileged := IsAdminFromContext(r.Context())

	sortBy := parseString(query, "sortBy")
	if sortBy != "" && !isAllowedSortField(sortBy) {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Unknown sort field %q", sortBy))
		return
	}
	order := parseString(query, "order")
	if order != "" && order != "asc" && order != "desc" {
		WriteJSONError(w, http.StatusBadRequest, "Sort order must be asc or desc")
		return
	}
	rooms := parseString(query, "rooms")
	if rooms != "" && !isValidRoomsToken(rooms) {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid rooms filter %q", rooms))
		return
	}
	status := parseString(query, "status")
	if status != "" && !domain.IsValidStatus(status) {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Unknown status %q", status))
		return
	}

	filters := domain.ListingFilters{
		OperationID:    parseInt64(query, "operationId"),
		PropertyTypeID: parseInt64(query, "propertyTypeId"),
		HousingTypeID:  parseInt64(query, "housingTypeId"),

		MinPrice: parseFloat(query, "minPrice"),
		MaxPrice: parseFloat(query, "maxPrice"),
		MinArea:  parseFloat(query, "minArea"),
		MaxArea:  parseFloat(query, "maxArea"),

		YearMin: parseInt(query, "yearMin"),
		YearMax: parseInt(query, "yearMax"),

		Rooms:       rooms,
		Floor:       parseInt(query, "floor"),
		HasElevator: parseBool(query, "hasElevator"),

		Search: parseString(query, "search"),

		Status:          status,
		IncludeArchived: boolOrFalse(parseBool(query, "includeArchived")),

		SortBy: sortBy,
		Order:  order,
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "FindListings",
		"page":       page,
		"limit":      limit,
		"privileged": privileged,
	})
	handlerLogger.Debug("Processing catalog search request", nil)

	result, err := h.findListingsUC.Execute(r.Context(), filters, privileged, limit, offset)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteDomainError(w, err)
		return
	}

	handlerLogger.Info("Catalog page served", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Listings),
	})
	RespondWithJSON(w, http.StatusOK, toPaginatedResponse(result))
}

func isAllowedSortField(sortBy string) bool {
	switch sortBy {
	case "price", "area", "yearBuilt", "createdAt":
		return true
	}
	return false
}

func isValidRoomsToken(rooms string) bool {
	if rooms == domain.RoomsStudio || rooms == domain.RoomsFivePlus {
		return true
	}
	_, err := strconv.Atoi(rooms)
	return err == nil
}

// GetListing обрабатывает GET /api/v1/listings/{key}.
// Числовой ключ трактуется как id, любой другой - как slug.
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	key := chi.URLParam(r, "key")
	handlerLogger := logger.WithFields(port.Fields{
		"handler": "GetListing",
		"key":     key,
	})

	var details *domain.ListingDetails
	var err error
	if id, parseErr := strconv.ParseInt(key, 10, 64); parseErr == nil {
		details, err = h.getListingUC.ByID(r.Context(), id)
	} else {
		details, err = h.getListingUC.BySlug(r.Context(), key)
	}
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteDomainError(w, err)
		return
	}

	// Неактивные объявления видны только администраторам
	if details.Status != domain.StatusActive && !IsAdminFromContext(r.Context()) {
		handlerLogger.Warn("Anonymous access to non-active listing denied", nil)
		WriteJSONError(w, http.StatusNotFound, "Listing not found")
		return
	}

	handlerLogger.Info("Listing details served", port.Fields{"listing_id": details.ID})
	RespondWithJSON(w, http.StatusOK, toListingDetailsResponse(details))
}

// CreateListing обрабатывает POST /api/v1/listings.
// Принимает либо JSON, либо multipart-форму с полями и файлами фотографий.
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	handlerLogger := logger.WithFields(port.Fields{"handler": "CreateListing"})

	req, files, err := parseListingBody(r)
	if err != nil {
		handlerLogger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteDomainError(w, err)
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		handlerLogger.Warn("Request failed validation", port.Fields{"error": err.Error()})
		WriteDomainError(w, err)
		return
	}

	listing, photos, err := h.createListingUC.Execute(r.Context(), *draft, files)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteDomainError(w, err)
		return
	}

	handlerLogger.Info("Listing created", port.Fields{
		"listing_id": listing.ID,
		"slug":       listing.Slug,
	})

	response := struct {
		ListingResponse
		Photos []PhotoResponse `json:"photos"`
	}{
		ListingResponse: toListingResponse(listing),
		Photos:          toPhotoResponses(photos),
	}
	RespondWithJSON(w, http.StatusCreated, response)
}

// UpdateListing обрабатывает PUT /api/v1/listings/{listingID}
func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	id, err := listingIDFromURL(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID")
		return
	}
	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "UpdateListing",
		"listing_id": id,
	})

	req, _, err := parseListingBody(r)
	if err != nil {
		handlerLogger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteDomainError(w, err)
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		handlerLogger.Warn("Request failed validation", port.Fields{"error": err.Error()})
		WriteDomainError(w, err)
		return
	}

	listing, err := h.updateListingUC.Execute(r.Context(), id, *patch)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteDomainError(w, err)
		return
	}

	handlerLogger.Info("Listing updated", nil)
	RespondWithJSON(w, http.StatusOK, toListingResponse(listing))
}

// ArchiveListing обрабатывает POST /api/v1/listings/{listingID}/archive.
// В теле можно передать {"status": "draft"}, по умолчанию archived.
func (h *ListingHandler) ArchiveListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	id, err := listingIDFromURL(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID")
		return
	}
	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "ArchiveListing",
		"listing_id": id,
	})

	status := domain.StatusArchived
	if r.ContentLength > 0 {
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if body.Status != "" {
			status = body.Status
		}
	}

	listing, err := h.archiveListingUC.Execute(r.Context(), id, status)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteDomainError(w, err)
		return
	}

	handlerLogger.Info("Listing taken off the catalog", port.Fields{"status": listing.Status})
	RespondWithJSON(w, http.StatusOK, toListingResponse(listing))
}

// RestoreListing обрабатывает POST /api/v1/listings/{listingID}/restore
func (h *ListingHandler) RestoreListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	id, err := listingIDFromURL(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID")
		return
	}
	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "RestoreListing",
		"listing_id": id,
	})

	listing, err := h.restoreListingUC.Execute(r.Context(), id)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteDomainError(w, err)
		return
	}

	handlerLogger.Info("Listing restored to the catalog", nil)
	RespondWithJSON(w, http.StatusOK, toListingResponse(listing))
}

// DeleteListing обрабатывает DELETE /api/v1/listings/{listingID}
func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	id, err := listingIDFromURL(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing ID")
		return
	}
	handlerLogger := logger.WithFields(port.Fields{
		"handler":    "DeleteListing",
		"listing_id": id,
	})

	if err := h.deleteListingUC.Execute(r.Context(), id); err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteDomainError(w, err)
		return
	}

	handlerLogger.Info("Listing deleted", nil)
	w.WriteHeader(http.StatusNoContent)
}

func listingIDFromURL(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "listingID"), 10, 64)
}

// parseListingBody разбирает тело запроса объявления: JSON или
// multipart-форма. Из multipart дополнительно извлекаются файлы
// фотографий из поля images.
func parseListingBody(r *http.Request) (*listingRequest, []domain.UploadFile, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, nil, domain.NewValidationError("body", "missing or malformed Content-Type")
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return nil, nil, domain.NewValidationError("body", "malformed multipart form")
		}
		req, err := listingRequestFromForm(formValues(r.MultipartForm.Value))
		if err != nil {
			return nil, nil, err
		}
		files, err := readUploadFiles(r)
		if err != nil {
			return nil, nil, err
		}
		return req, files, nil
	}

	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, nil, domain.NewValidationError("body", "invalid JSON")
	}
	return &req, nil, nil
}

// readUploadFiles читает файлы из поля images multipart-формы.
func readUploadFiles(r *http.Request) ([]domain.UploadFile, error) {
	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		return nil, nil
	}
	if len(headers) > maxUploadFiles {
		return nil, domain.NewValidationError("images", fmt.Sprintf("at most %d files per request", maxUploadFiles))
	}

	files := make([]domain.UploadFile, 0, len(headers))
	for _, header := range headers {
		if header.Size > maxUploadFileSize {
			return nil, domain.NewValidationError("images", fmt.Sprintf("file %q exceeds the 10MB limit", header.Filename))
		}

		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}
		content, err := io.ReadAll(io.LimitReader(file, maxUploadFileSize+1))
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file: %w", err)
		}
		if len(content) > maxUploadFileSize {
			return nil, domain.NewValidationError("images", fmt.Sprintf("file %q exceeds the 10MB limit", header.Filename))
		}

		files = append(files, domain.UploadFile{
			Name:    header.Filename,
			Content: content,
		})
	}
	return files, nil
}
