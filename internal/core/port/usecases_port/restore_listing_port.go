package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type RestoreListingUseCase interface {
	Execute(ctx context.Context, id int64) (*domain.Listing, error)
}
