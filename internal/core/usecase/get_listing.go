package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

// GetListingUseCase - одна карточка по числовому id или по slug.
// Оба ключа ведут к одному и тому же агрегату.
type GetListingUseCase struct {
	storage port.ListingStoragePort
}

func NewGetListingUseCase(storage port.ListingStoragePort) *GetListingUseCase {
	return &GetListingUseCase{storage: storage}
}

func (uc *GetListingUseCase) ByID(ctx context.Context, id int64) (*domain.ListingDetails, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "GetListing",
		"listing_id": id,
	})
	ucLogger.Debug("Fetching listing details by id", nil)

	details, err := uc.storage.GetDetailsByID(ctx, id)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	return details, nil
}

func (uc *GetListingUseCase) BySlug(ctx context.Context, slug string) (*domain.ListingDetails, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetListing",
		"slug":     slug,
	})
	ucLogger.Debug("Fetching listing details by slug", nil)

	details, err := uc.storage.GetDetailsBySlug(ctx, slug)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	return details, nil
}
