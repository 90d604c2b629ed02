package port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// ReferenceStoragePort - доступ к справочникам классификации.
type ReferenceStoragePort interface {
	ListOperations(ctx context.Context) ([]domain.ReferenceItem, error)
	ListPropertyTypes(ctx context.Context) ([]domain.ReferenceItem, error)
	ListHousingTypes(ctx context.Context) ([]domain.HousingType, error)
}
