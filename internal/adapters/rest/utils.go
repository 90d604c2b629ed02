package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"catalog-service/internal/core/domain"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// WriteValidationError отправляет 400 с пофайловой разбивкой ошибок валидации
func WriteValidationError(w http.ResponseWriter, vErr *domain.ValidationError) {
	fields := make([]map[string]string, len(vErr.Fields))
	for i, f := range vErr.Fields {
		fields[i] = map[string]string{
			"field":   f.Field,
			"message": f.Message,
		}
	}
	RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "Validation failed",
		"fields": fields,
	})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// WriteDomainError переводит доменную ошибку в HTTP-ответ.
func WriteDomainError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		WriteValidationError(w, vErr)
	case errors.Is(err, domain.ErrListingNotFound):
		WriteJSONError(w, http.StatusNotFound, "Listing not found")
	case errors.Is(err, domain.ErrPhotoNotFound):
		WriteJSONError(w, http.StatusNotFound, "Photo not found")
	case errors.Is(err, domain.ErrInvalidReference):
		WriteJSONError(w, http.StatusBadRequest, "Unknown dictionary reference")
	case errors.Is(err, domain.ErrSlugTaken):
		WriteJSONError(w, http.StatusConflict, "Listing slug already taken")
	case errors.Is(err, domain.ErrPhotoConflict):
		WriteJSONError(w, http.StatusConflict, "Photos were modified concurrently, retry the upload")
	default:
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// --- Разбор query-параметров ---

func parseString(query url.Values, key string) string {
	return query.Get(key)
}

func parseInt(query url.Values, key string) *int {
	raw := query.Get(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

func parseInt64(query url.Values, key string) *int64 {
	raw := query.Get(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &value
}

func parseFloat(query url.Values, key string) *float64 {
	raw := query.Get(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func parseBool(query url.Values, key string) *bool {
	raw := query.Get(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

// GetPagination разбирает page и limit. limit ограничен сверху, чтобы
// один запрос не вычитывал весь каталог.
func GetPagination(query url.Values) (page, limit int) {
	page = 1
	if p := parseInt(query, "page"); p != nil && *p > 0 {
		page = *p
	}

	limit = domain.DefaultPageSize
	if l := parseInt(query, "limit"); l != nil && *l > 0 {
		limit = *l
	}
	if limit > domain.MaxPageSize {
		limit = domain.MaxPageSize
	}
	return page, limit
}
