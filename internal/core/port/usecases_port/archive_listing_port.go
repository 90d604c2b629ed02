package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type ArchiveListingUseCase interface {
	// Execute переводит объявление в archived или draft.
	Execute(ctx context.Context, id int64, status string) (*domain.Listing, error)
}
