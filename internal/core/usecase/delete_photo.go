package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"
)

// DeletePhotoUseCase удаляет фотографию. Строка в БД - источник истины:
// сбой удаления файла логируется и не откатывает удаление строки.
type DeletePhotoUseCase struct {
	photos port.PhotoStoragePort
	files  port.FileStoragePort
}

func NewDeletePhotoUseCase(photos port.PhotoStoragePort, files port.FileStoragePort) *DeletePhotoUseCase {
	return &DeletePhotoUseCase{photos: photos, files: files}
}

func (uc *DeletePhotoUseCase) Execute(ctx context.Context, listingID, photoID int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "DeletePhoto",
		"listing_id": listingID,
		"photo_id":   photoID,
	})
	ucLogger.Info("Use case started", nil)

	url, err := uc.photos.Delete(ctx, listingID, photoID)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}

	if err := uc.files.Remove(ctx, url); err != nil {
		ucLogger.Warn("Failed to remove photo file, database stays authoritative", port.Fields{
			"url":   url,
			"error": err.Error(),
		})
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
