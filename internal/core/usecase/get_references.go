package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type GetReferencesUseCase struct {
	references port.ReferenceStoragePort
}

func NewGetReferencesUseCase(references port.ReferenceStoragePort) *GetReferencesUseCase {
	return &GetReferencesUseCase{references: references}
}

func (uc *GetReferencesUseCase) Operations(ctx context.Context) ([]domain.ReferenceItem, error) {
	return uc.list(ctx, "operations", uc.references.ListOperations)
}

func (uc *GetReferencesUseCase) PropertyTypes(ctx context.Context) ([]domain.ReferenceItem, error) {
	return uc.list(ctx, "property_types", uc.references.ListPropertyTypes)
}

func (uc *GetReferencesUseCase) HousingTypes(ctx context.Context) ([]domain.HousingType, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	items, err := uc.references.ListHousingTypes(ctx)
	if err != nil {
		logger.Error("Failed to load housing types dictionary", err, port.Fields{"use_case": "GetReferences"})
		return nil, err
	}
	return items, nil
}

func (uc *GetReferencesUseCase) list(ctx context.Context, name string, load func(context.Context) ([]domain.ReferenceItem, error)) ([]domain.ReferenceItem, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	items, err := load(ctx)
	if err != nil {
		logger.Error("Failed to load dictionary", err, port.Fields{
			"use_case":   "GetReferences",
			"dictionary": name,
		})
		return nil, err
	}
	return items, nil
}
