package port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// FileStoragePort - хранилище файлов фотографий. БД остается
// источником истины: осиротевший файл - допустимый режим отказа.
type FileStoragePort interface {
	// Save сохраняет файл и возвращает url относительно корня хранилища.
	Save(ctx context.Context, file domain.UploadFile) (string, error)

	// Remove удаляет файл по url. Вызывается best-effort.
	Remove(ctx context.Context, url string) error
}
