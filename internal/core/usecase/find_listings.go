package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type FindListingsUseCase struct {
	storage port.ListingStoragePort
}

func NewFindListingsUseCase(storage port.ListingStoragePort) *FindListingsUseCase {
	return &FindListingsUseCase{storage: storage}
}

func (uc *FindListingsUseCase) Execute(ctx context.Context, filters domain.ListingFilters, privileged bool, limit, offset int) (*domain.PaginatedListings, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "FindListings",
		"privileged": privileged,
		"limit":      limit,
		"offset":     offset,
	})

	ucLogger.Info("Use case started", nil)

	result, err := uc.storage.FindWithFilters(ctx, filters, privileged, limit, offset)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Listings),
	})

	return result, nil
}
