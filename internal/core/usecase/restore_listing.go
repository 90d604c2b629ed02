package usecase

import (
	"context"
	"time"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

// RestoreListingUseCase возвращает архивное объявление в active.
// archived_at намеренно остается от прошлой архивации как история.
type RestoreListingUseCase struct {
	storage   port.ListingStoragePort
	publisher port.EventPublisherPort
}

func NewRestoreListingUseCase(storage port.ListingStoragePort, publisher port.EventPublisherPort) *RestoreListingUseCase {
	return &RestoreListingUseCase{storage: storage, publisher: publisher}
}

func (uc *RestoreListingUseCase) Execute(ctx context.Context, id int64) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "RestoreListing",
		"listing_id": id,
	})
	ucLogger.Info("Use case started", nil)

	listing, err := uc.storage.SetStatus(ctx, id, domain.StatusActive, nil)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	if uc.publisher != nil {
		event := domain.ListingEvent{
			Type:       domain.EventListingRestored,
			ListingID:  listing.ID,
			Slug:       listing.Slug,
			Status:     listing.Status,
			OccurredAt: time.Now().UTC(),
		}
		if err := uc.publisher.PublishListingEvent(ctx, event); err != nil {
			ucLogger.Error("Failed to publish listing event", err, port.Fields{"event_type": event.Type})
		}
	}

	ucLogger.Info("Use case finished successfully", nil)
	return listing, nil
}
