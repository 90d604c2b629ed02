package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type SetMainPhotoUseCase struct {
	photos port.PhotoStoragePort
}

func NewSetMainPhotoUseCase(photos port.PhotoStoragePort) *SetMainPhotoUseCase {
	return &SetMainPhotoUseCase{photos: photos}
}

func (uc *SetMainPhotoUseCase) Execute(ctx context.Context, listingID, photoID int64) (*domain.Photo, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "SetMainPhoto",
		"listing_id": listingID,
		"photo_id":   photoID,
	})
	ucLogger.Info("Use case started", nil)

	photo, err := uc.photos.SetMain(ctx, listingID, photoID)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return photo, nil
}
