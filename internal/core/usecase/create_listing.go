package usecase

import (
	"context"
	"fmt"
	"time"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"
	"catalog-service/internal/core/slugger"

	"github.com/mmcloughlin/geohash"
)

// CreateListingUseCase - создание объявления: геокодирование адреса,
// подбор slug, сохранение и загрузка приложенных фотографий.
type CreateListingUseCase struct {
	storage   port.ListingStoragePort
	geocoder  port.GeocoderPort
	slugs     *slugger.Generator
	photos    usecases_port.UploadPhotosUseCase
	publisher port.EventPublisherPort
}

func NewCreateListingUseCase(
	storage port.ListingStoragePort,
	geocoder port.GeocoderPort,
	slugs *slugger.Generator,
	photos usecases_port.UploadPhotosUseCase,
	publisher port.EventPublisherPort,
) *CreateListingUseCase {
	return &CreateListingUseCase{
		storage:   storage,
		geocoder:  geocoder,
		slugs:     slugs,
		photos:    photos,
		publisher: publisher,
	}
}

func (uc *CreateListingUseCase) Execute(ctx context.Context, draft domain.ListingDraft, files []domain.UploadFile) (*domain.Listing, []domain.Photo, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "CreateListing",
		"files_count": len(files),
	})
	ucLogger.Info("Use case started", nil)

	// Геокодируем всегда, если адрес задан. Сбой геокодирования не
	// блокирует создание - объявление сохраняется без координат.
	if draft.Address != nil {
		geo := uc.geocoder.Resolve(ctx, *draft.Address)
		if geo.Resolved() {
			draft.Latitude = geo.Latitude
			draft.Longitude = geo.Longitude
			gh := geohash.Encode(*geo.Latitude, *geo.Longitude)
			draft.Geohash = &gh
			ucLogger.Info("Address geocoded", port.Fields{
				"precision": geo.Precision,
			})
		} else {
			draft.Latitude = nil
			draft.Longitude = nil
			draft.Geohash = nil
			ucLogger.Warn("Failed to geocode address", port.Fields{
				"reason": geo.Precision,
			})
		}
	} else if draft.Latitude != nil && draft.Longitude != nil {
		// Координаты без адреса: geohash выводим из явной пары,
		// как и при обновлении
		gh := geohash.Encode(*draft.Latitude, *draft.Longitude)
		draft.Geohash = &gh
	}

	slug, err := uc.slugs.Generate(ctx, deref(draft.Address), deref(draft.ShortDescription), 0)
	if err != nil {
		ucLogger.Error("Failed to generate slug", err, nil)
		return nil, nil, fmt.Errorf("failed to generate slug: %w", err)
	}

	listing, err := uc.storage.Create(ctx, draft, slug)
	if err != nil {
		ucLogger.Error("Storage returned an error during create", err, nil)
		return nil, nil, err
	}

	var photos []domain.Photo
	if len(files) > 0 {
		photos, err = uc.photos.Execute(ctx, listing.ID, files)
		if err != nil {
			// Объявление уже создано; ошибку фотографий отдаем наверх
			ucLogger.Error("Failed to attach photos to new listing", err, port.Fields{"listing_id": listing.ID})
			return listing, nil, err
		}
	}

	uc.publish(ctx, ucLogger, domain.ListingEvent{
		Type:       domain.EventListingCreated,
		ListingID:  listing.ID,
		Slug:       listing.Slug,
		Status:     listing.Status,
		OccurredAt: time.Now().UTC(),
	})

	ucLogger.Info("Use case finished successfully", port.Fields{
		"listing_id": listing.ID,
		"slug":       listing.Slug,
	})
	return listing, photos, nil
}

func (uc *CreateListingUseCase) publish(ctx context.Context, logger port.LoggerPort, event domain.ListingEvent) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishListingEvent(ctx, event); err != nil {
		// Публикация best-effort: операция уже завершена успешно
		logger.Error("Failed to publish listing event", err, port.Fields{"event_type": event.Type})
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
