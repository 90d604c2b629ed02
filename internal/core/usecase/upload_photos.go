package usecase

import (
	"context"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

// UploadPhotosUseCase - загрузка пакета фотографий. Правило главного
// фото единое для создания и дозагрузки: первая фотография пакета
// становится главной, только если главного фото еще нет.
type UploadPhotosUseCase struct {
	listings port.ListingStoragePort
	photos   port.PhotoStoragePort
	files    port.FileStoragePort
	hasher   port.PhotoHasherPort
}

func NewUploadPhotosUseCase(
	listings port.ListingStoragePort,
	photos port.PhotoStoragePort,
	files port.FileStoragePort,
	hasher port.PhotoHasherPort,
) *UploadPhotosUseCase {
	return &UploadPhotosUseCase{
		listings: listings,
		photos:   photos,
		files:    files,
		hasher:   hasher,
	}
}

func (uc *UploadPhotosUseCase) Execute(ctx context.Context, listingID int64, files []domain.UploadFile) ([]domain.Photo, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "UploadPhotos",
		"listing_id":  listingID,
		"files_count": len(files),
	})
	ucLogger.Info("Use case started", nil)

	if len(files) == 0 {
		return nil, domain.NewValidationError("images", "at least one file is required")
	}

	// Проверяем существование объявления до записи файлов на диск
	if _, err := uc.listings.GetByID(ctx, listingID); err != nil {
		ucLogger.Error("Listing lookup failed", err, nil)
		return nil, err
	}

	newPhotos := make([]domain.NewPhoto, 0, len(files))
	for _, file := range files {
		url, err := uc.files.Save(ctx, file)
		if err != nil {
			ucLogger.Error("Failed to store uploaded file", err, port.Fields{"file_name": file.Name})
			return nil, fmt.Errorf("failed to store uploaded file %q: %w", file.Name, err)
		}

		photo := domain.NewPhoto{URL: url}
		if uc.hasher != nil {
			// Хэш best-effort: не каждое изображение декодируемо
			if hash, err := uc.hasher.Hash(file.Content); err == nil {
				photo.PHash = &hash
			} else {
				ucLogger.Debug("Failed to hash photo content", port.Fields{
					"file_name": file.Name,
					"error":     err.Error(),
				})
			}
		}
		newPhotos = append(newPhotos, photo)
	}

	saved, err := uc.photos.InsertBatch(ctx, listingID, newPhotos)
	if err != nil {
		ucLogger.Error("Storage returned an error during photo insert", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"photos_saved": len(saved)})
	return saved, nil
}
