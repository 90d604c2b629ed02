package usecase

import (
	"context"
	"fmt"
	"time"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/slugger"

	"github.com/mmcloughlin/geohash"
)

// UpdateListingUseCase - частичное обновление объявления.
// Повторное геокодирование выполняется только при смене адреса без
// явно переданных координат; slug перегенерируется только при смене
// адреса или короткого описания.
type UpdateListingUseCase struct {
	storage   port.ListingStoragePort
	geocoder  port.GeocoderPort
	slugs     *slugger.Generator
	publisher port.EventPublisherPort
}

func NewUpdateListingUseCase(
	storage port.ListingStoragePort,
	geocoder port.GeocoderPort,
	slugs *slugger.Generator,
	publisher port.EventPublisherPort,
) *UpdateListingUseCase {
	return &UpdateListingUseCase{
		storage:   storage,
		geocoder:  geocoder,
		slugs:     slugs,
		publisher: publisher,
	}
}

func (uc *UpdateListingUseCase) Execute(ctx context.Context, id int64, patch domain.ListingPatch) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "UpdateListing",
		"listing_id": id,
	})
	ucLogger.Info("Use case started", nil)

	current, err := uc.storage.GetByID(ctx, id)
	if err != nil {
		ucLogger.Error("Failed to load listing for update", err, nil)
		return nil, err
	}

	addressChanged := patch.Address != nil && *patch.Address != deref(current.Address)
	shortDescChanged := patch.ShortDescription != nil && *patch.ShortDescription != deref(current.ShortDescription)

	// Координаты, переданные явно и парой, имеют приоритет над геокодером
	explicitCoords := patch.Latitude != nil && patch.Longitude != nil
	if addressChanged && !explicitCoords {
		geo := uc.geocoder.Resolve(ctx, *patch.Address)
		if geo.Resolved() {
			patch.Latitude = geo.Latitude
			patch.Longitude = geo.Longitude
			gh := geohash.Encode(*geo.Latitude, *geo.Longitude)
			patch.Geohash = &gh
			ucLogger.Info("Address re-geocoded", port.Fields{"precision": geo.Precision})
		} else {
			// Адрес сменился, а координаты получить не удалось -
			// старая пара больше не описывает объявление
			patch.Latitude = nil
			patch.Longitude = nil
			patch.Geohash = nil
			patch.ClearCoordinates = true
			ucLogger.Warn("Failed to re-geocode changed address", port.Fields{"reason": geo.Precision})
		}
	}
	if explicitCoords {
		gh := geohash.Encode(*patch.Latitude, *patch.Longitude)
		patch.Geohash = &gh
	}

	var newSlug *string
	if addressChanged || shortDescChanged {
		address := deref(current.Address)
		if patch.Address != nil {
			address = *patch.Address
		}
		shortDesc := deref(current.ShortDescription)
		if patch.ShortDescription != nil {
			shortDesc = *patch.ShortDescription
		}
		slug, err := uc.slugs.Generate(ctx, address, shortDesc, id)
		if err != nil {
			ucLogger.Error("Failed to regenerate slug", err, nil)
			return nil, fmt.Errorf("failed to regenerate slug: %w", err)
		}
		newSlug = &slug
	}

	updated, err := uc.storage.Update(ctx, id, patch, newSlug)
	if err != nil {
		ucLogger.Error("Storage returned an error during update", err, nil)
		return nil, err
	}

	if uc.publisher != nil {
		event := domain.ListingEvent{
			Type:       domain.EventListingUpdated,
			ListingID:  updated.ID,
			Slug:       updated.Slug,
			Status:     updated.Status,
			OccurredAt: time.Now().UTC(),
		}
		if err := uc.publisher.PublishListingEvent(ctx, event); err != nil {
			ucLogger.Error("Failed to publish listing event", err, port.Fields{"event_type": event.Type})
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"slug": updated.Slug})
	return updated, nil
}
