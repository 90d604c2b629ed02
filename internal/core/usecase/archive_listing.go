package usecase

import (
	"context"
	"time"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

// ArchiveListingUseCase переводит объявление в archived или draft.
// При архивации ставится archived_at.
type ArchiveListingUseCase struct {
	storage   port.ListingStoragePort
	publisher port.EventPublisherPort
}

func NewArchiveListingUseCase(storage port.ListingStoragePort, publisher port.EventPublisherPort) *ArchiveListingUseCase {
	return &ArchiveListingUseCase{storage: storage, publisher: publisher}
}

func (uc *ArchiveListingUseCase) Execute(ctx context.Context, id int64, status string) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "ArchiveListing",
		"listing_id": id,
		"status":     status,
	})
	ucLogger.Info("Use case started", nil)

	if status != domain.StatusArchived && status != domain.StatusDraft {
		return nil, domain.NewValidationError("status", "must be 'archived' or 'draft'")
	}

	var archivedAt *time.Time
	if status == domain.StatusArchived {
		now := time.Now().UTC()
		archivedAt = &now
	}

	listing, err := uc.storage.SetStatus(ctx, id, status, archivedAt)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	if uc.publisher != nil && status == domain.StatusArchived {
		event := domain.ListingEvent{
			Type:       domain.EventListingArchived,
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
