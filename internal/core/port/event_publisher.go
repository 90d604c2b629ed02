package port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// EventPublisherPort - публикация событий жизненного цикла объявлений.
type EventPublisherPort interface {
	PublishListingEvent(ctx context.Context, event domain.ListingEvent) error
	Close() error
}
