package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Ошибки, которые могут быть возвращены из Use Cases.
var (
	ErrListingNotFound = errors.New("listing not found")
	ErrPhotoNotFound   = errors.New("photo not found")

	// ErrInvalidReference - нарушение ссылки на справочник
	// (operationId, propertyTypeId, housingTypeId).
	ErrInvalidReference = errors.New("invalid reference to dictionary")

	// ErrSlugTaken - проигранная гонка за slug: уникальный индекс в БД
	// является финальной защитой от check-then-write окна.
	ErrSlugTaken = errors.New("slug already taken")

	// ErrPhotoConflict - проигранная гонка за флаг главного фото:
	// частичный индекс photos_one_main_per_listing отклонил вставку.
	ErrPhotoConflict = errors.New("concurrent photo modification")
)

// FieldError - ошибка валидации одного поля запроса.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError агрегирует ошибки валидации входных данных.
// Операция при такой ошибке не начинается и не имеет побочных эффектов.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError создает ошибку валидации для одного поля.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
