package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// GetListingUseCase отдает одну и ту же карточку по двум ключам:
// числовому id (административные пути) и slug (публичные пути).
type GetListingUseCase interface {
	ByID(ctx context.Context, id int64) (*domain.ListingDetails, error)
	BySlug(ctx context.Context, slug string) (*domain.ListingDetails, error)
}
