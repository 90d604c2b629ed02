package rest

import (
	"net/http"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port/usecases_port"
)

type ReferenceHandler struct {
	getReferencesUC usecases_port.GetReferencesUseCase
}

func NewReferenceHandler(getReferencesUC usecases_port.GetReferencesUseCase) *ReferenceHandler {
	return &ReferenceHandler{getReferencesUC: getReferencesUC}
}

// GetOperations обрабатывает GET /api/v1/references/operations
func (h *ReferenceHandler) GetOperations(w http.ResponseWriter, r *http.Request) {
	items, err := h.getReferencesUC.Operations(r.Context())
	if err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to load operations")
		return
	}

	response := make([]ReferenceItemResponse, len(items))
	for i, item := range items {
		response[i] = ReferenceItemResponse{ID: item.ID, Name: item.Name}
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// GetPropertyTypes обрабатывает GET /api/v1/references/property-types
func (h *ReferenceHandler) GetPropertyTypes(w http.ResponseWriter, r *http.Request) {
	items, err := h.getReferencesUC.PropertyTypes(r.Context())
	if err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to load property types")
		return
	}

	response := make([]ReferenceItemResponse, len(items))
	for i, item := range items {
		response[i] = ReferenceItemResponse{ID: item.ID, Name: item.Name}
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// GetHousingTypes обрабатывает GET /api/v1/references/housing-types
func (h *ReferenceHandler) GetHousingTypes(w http.ResponseWriter, r *http.Request) {
	items, err := h.getReferencesUC.HousingTypes(r.Context())
	if err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to load housing types")
		return
	}

	response := make([]HousingTypeResponse, len(items))
	for i, item := range items {
		response[i] = HousingTypeResponse{
			ID:             item.ID,
			Name:           item.Name,
			PropertyTypeID: item.PropertyTypeID,
		}
	}
	RespondWithJSON(w, http.StatusOK, response)
}
