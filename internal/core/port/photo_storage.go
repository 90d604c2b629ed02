package port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// PhotoStoragePort - контракт хранилища фотографий. Все мутации
// сохраняют инвариант единственного главного фото и выполняются в
// одной транзакции на объявление.
type PhotoStoragePort interface {
	// InsertBatch вставляет пакет фотографий в порядке загрузки.
	// Первая становится главной, только если главного фото у объявления
	// еще нет; проверка и вставка выполняются в одной транзакции.
	InsertBatch(ctx context.Context, listingID int64, photos []domain.NewPhoto) ([]domain.Photo, error)

	ListByListing(ctx context.Context, listingID int64) ([]domain.Photo, error)

	// SetMain атомарно снимает флаг со всех фотографий объявления и
	// ставит его на указанную. Фото чужого объявления - ErrPhotoNotFound.
	SetMain(ctx context.Context, listingID, photoID int64) (*domain.Photo, error)

	// Delete удаляет строку фотографии; если она была главной,
	// в той же транзакции главной становится самая ранняя из оставшихся.
	// Возвращает url удаленной фотографии для очистки файла.
	Delete(ctx context.Context, listingID, photoID int64) (string, error)
}
