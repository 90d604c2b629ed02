package usecase

import (
	"context"
	"time"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

// DeleteListingUseCase удаляет объявление каскадно: файлы фотографий
// удаляются best-effort, строки фотографий - каскадом в БД.
type DeleteListingUseCase struct {
	storage   port.ListingStoragePort
	photos    port.PhotoStoragePort
	files     port.FileStoragePort
	publisher port.EventPublisherPort
}

func NewDeleteListingUseCase(
	storage port.ListingStoragePort,
	photos port.PhotoStoragePort,
	files port.FileStoragePort,
	publisher port.EventPublisherPort,
) *DeleteListingUseCase {
	return &DeleteListingUseCase{
		storage:   storage,
		photos:    photos,
		files:     files,
		publisher: publisher,
	}
}

func (uc *DeleteListingUseCase) Execute(ctx context.Context, id int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "DeleteListing",
		"listing_id": id,
	})
	ucLogger.Info("Use case started", nil)

	listing, err := uc.storage.GetByID(ctx, id)
	if err != nil {
		ucLogger.Error("Failed to load listing for deletion", err, nil)
		return err
	}

	photos, err := uc.photos.ListByListing(ctx, id)
	if err != nil {
		ucLogger.Error("Failed to list photos for deletion", err, nil)
		return err
	}

	// Файлы удаляем до строки объявления: после каскада в БД их url
	// уже негде будет узнать. Сбой удаления файла не прерывает операцию.
	for _, photo := range photos {
		if err := uc.files.Remove(ctx, photo.URL); err != nil {
			ucLogger.Warn("Failed to remove photo file, continuing", port.Fields{
				"photo_id": photo.ID,
				"url":      photo.URL,
				"error":    err.Error(),
			})
		}
	}

	if err := uc.storage.Delete(ctx, id); err != nil {
		ucLogger.Error("Storage returned an error during delete", err, nil)
		return err
	}

	if uc.publisher != nil {
		event := domain.ListingEvent{
			Type:       domain.EventListingDeleted,
			ListingID:  listing.ID,
			Slug:       listing.Slug,
			Status:     listing.Status,
			OccurredAt: time.Now().UTC(),
		}
		if err := uc.publisher.PublishListingEvent(ctx, event); err != nil {
			ucLogger.Error("Failed to publish listing event", err, port.Fields{"event_type": event.Type})
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"photos_removed": len(photos)})
	return nil
}
