package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type CreateListingUseCase interface {
	// Execute создает объявление; files опциональны и сохраняются
	// с соблюдением правила первого главного фото.
	Execute(ctx context.Context, draft domain.ListingDraft, files []domain.UploadFile) (*domain.Listing, []domain.Photo, error)
}
