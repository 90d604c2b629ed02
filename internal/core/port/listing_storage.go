package port

import (
	"context"
	"time"

	"catalog-service/internal/core/domain"
)

// ListingStoragePort - контракт хранилища объявлений.
type ListingStoragePort interface {
	Create(ctx context.Context, draft domain.ListingDraft, slug string) (*domain.Listing, error)

	// Update применяет частичное обновление. newSlug передается только
	// когда изменился адрес или короткое описание.
	Update(ctx context.Context, id int64, patch domain.ListingPatch, newSlug *string) (*domain.Listing, error)

	GetByID(ctx context.Context, id int64) (*domain.Listing, error)

	GetDetailsByID(ctx context.Context, id int64) (*domain.ListingDetails, error)
	GetDetailsBySlug(ctx context.Context, slug string) (*domain.ListingDetails, error)

	// IDBySlug возвращает domain.ErrListingNotFound, если slug свободен.
	// Используется циклом подбора уникального slug.
	IDBySlug(ctx context.Context, slug string) (int64, error)

	SetStatus(ctx context.Context, id int64, status string, archivedAt *time.Time) (*domain.Listing, error)

	Delete(ctx context.Context, id int64) error

	FindWithFilters(ctx context.Context, filters domain.ListingFilters, privileged bool, limit, offset int) (*domain.PaginatedListings, error)
}
