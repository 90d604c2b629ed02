package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type GetReferencesUseCase interface {
	Operations(ctx context.Context) ([]domain.ReferenceItem, error)
	PropertyTypes(ctx context.Context) ([]domain.ReferenceItem, error)
	HousingTypes(ctx context.Context) ([]domain.HousingType, error)
}
