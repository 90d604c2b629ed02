package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type FindListingsUseCase interface {
	Execute(ctx context.Context, filters domain.ListingFilters, privileged bool, limit, offset int) (*domain.PaginatedListings, error)
}
