package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type SetMainPhotoUseCase interface {
	Execute(ctx context.Context, listingID, photoID int64) (*domain.Photo, error)
}
