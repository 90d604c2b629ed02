package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type UploadPhotosUseCase interface {
	Execute(ctx context.Context, listingID int64, files []domain.UploadFile) ([]domain.Photo, error)
}
