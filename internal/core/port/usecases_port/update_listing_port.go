package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type UpdateListingUseCase interface {
	Execute(ctx context.Context, id int64, patch domain.ListingPatch) (*domain.Listing, error)
}
