package postgres

import (
	"context"
	"errors"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// mapPhotoWriteError переводит ошибки драйвера в доменные для таблицы
// фотографий. 23505 здесь возможен только по частичному индексу
// главного фото (параллельная загрузка), 23503 - объявление удалено
// между проверкой и вставкой.
func mapPhotoWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.ErrPhotoConflict
		case pgForeignKeyViolation:
			return domain.ErrListingNotFound
		}
	}
	return err
}

// PhotoStorageAdapter реализует PhotoStoragePort для PostgreSQL.
// Инвариант единственного главного фото поддерживается транзакциями:
// проверка и мутация никогда не разделяются.
type PhotoStorageAdapter struct {
	pool *pgxpool.Pool
}

// NewPhotoStorageAdapter создает новый экземпляр адаптера.
func NewPhotoStorageAdapter(pool *pgxpool.Pool) (*PhotoStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PhotoStorageAdapter{pool: pool}, nil
}

// InsertBatch вставляет пакет фотографий в порядке загрузки. Наличие
// главного фото проверяется в той же транзакции, что и вставка:
// параллельная загрузка не породит двух главных.
func (a *PhotoStorageAdapter) InsertBatch(ctx context.Context, listingID int64, photos []domain.NewPhoto) ([]domain.Photo, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "PhotoStorageAdapter",
		"method":     "InsertBatch",
		"listing_id": listingID,
		"count":      len(photos),
	})

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var hasMain bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM photos WHERE listing_id = $1 AND is_main)",
		listingID,
	).Scan(&hasMain)
	if err != nil {
		repoLogger.Error("Failed to check existing main photo", err, nil)
		return nil, fmt.Errorf("failed to check existing main photo: %w", err)
	}

	mainFlags := domain.AssignMainFlags(hasMain, len(photos))

	sql := `
		INSERT INTO photos (listing_id, url, is_main, phash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, listing_id, url, is_main, phash, created_at`

	saved := make([]domain.Photo, 0, len(photos))
	for i, photo := range photos {
		var p domain.Photo
		err := tx.QueryRow(ctx, sql, listingID, photo.URL, mainFlags[i], photo.PHash).Scan(
			&p.ID, &p.ListingID, &p.URL, &p.IsMain, &p.PHash, &p.CreatedAt,
		)
		if err != nil {
			mapped := mapPhotoWriteError(err)
			repoLogger.Error("Failed to insert photo", mapped, port.Fields{"url": photo.URL})
			if mapped != err {
				return nil, mapped
			}
			return nil, fmt.Errorf("failed to insert photo: %w", err)
		}
		saved = append(saved, p)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Info("Photos inserted", port.Fields{"saved": len(saved)})
	return saved, nil
}

func (a *PhotoStorageAdapter) ListByListing(ctx context.Context, listingID int64) ([]domain.Photo, error) {
	sql := `
		SELECT id, listing_id, url, is_main, phash, created_at
		FROM photos
		WHERE listing_id = $1
		ORDER BY is_main DESC, created_at ASC, id ASC`

	rows, err := a.pool.Query(ctx, sql, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer rows.Close()

	photos := make([]domain.Photo, 0)
	for rows.Next() {
		var p domain.Photo
		if err := rows.Scan(&p.ID, &p.ListingID, &p.URL, &p.IsMain, &p.PHash, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return photos, nil
}

// SetMain атомарно переносит флаг главного фото. Фильтр по listing_id
// в финальном UPDATE - проверка принадлежности: фото чужого
// объявления не затрагивается и дает ErrPhotoNotFound.
func (a *PhotoStorageAdapter) SetMain(ctx context.Context, listingID, photoID int64) (*domain.Photo, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "PhotoStorageAdapter",
		"method":     "SetMain",
		"listing_id": listingID,
		"photo_id":   photoID,
	})

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Сначала проверяем принадлежность: сброс флагов до проверки
	// оставил бы объявление без главного фото при чужом photoID
	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM photos WHERE id = $1 AND listing_id = $2)",
		photoID, listingID,
	).Scan(&exists)
	if err != nil {
		repoLogger.Error("Failed to check photo ownership", err, nil)
		return nil, fmt.Errorf("failed to check photo ownership: %w", err)
	}
	if !exists {
		repoLogger.Warn("Photo does not belong to listing", nil)
		return nil, domain.ErrPhotoNotFound
	}

	if _, err := tx.Exec(ctx,
		"UPDATE photos SET is_main = false WHERE listing_id = $1 AND is_main",
		listingID,
	); err != nil {
		repoLogger.Error("Failed to clear main photo flag", err, nil)
		return nil, fmt.Errorf("failed to clear main photo flag: %w", err)
	}

	var p domain.Photo
	err = tx.QueryRow(ctx, `
		UPDATE photos SET is_main = true
		WHERE id = $1 AND listing_id = $2
		RETURNING id, listing_id, url, is_main, phash, created_at`,
		photoID, listingID,
	).Scan(&p.ID, &p.ListingID, &p.URL, &p.IsMain, &p.PHash, &p.CreatedAt)
	if err != nil {
		repoLogger.Error("Failed to set main photo flag", err, nil)
		return nil, fmt.Errorf("failed to set main photo flag: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Info("Main photo changed", nil)
	return &p, nil
}

// Delete удаляет фотографию и в той же транзакции продвигает в главные
// самую раннюю из оставшихся, если удалили главную.
func (a *PhotoStorageAdapter) Delete(ctx context.Context, listingID, photoID int64) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "PhotoStorageAdapter",
		"method":     "Delete",
		"listing_id": listingID,
		"photo_id":   photoID,
	})

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var url string
	var wasMain bool
	err = tx.QueryRow(ctx,
		"DELETE FROM photos WHERE id = $1 AND listing_id = $2 RETURNING url, is_main",
		photoID, listingID,
	).Scan(&url, &wasMain)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Photo does not belong to listing", nil)
			return "", domain.ErrPhotoNotFound
		}
		repoLogger.Error("Failed to delete photo", err, nil)
		return "", fmt.Errorf("failed to delete photo: %w", err)
	}

	if wasMain {
		if _, err := tx.Exec(ctx, `
			UPDATE photos SET is_main = true
			WHERE id = (
				SELECT id FROM photos
				WHERE listing_id = $1
				ORDER BY created_at ASC, id ASC
				LIMIT 1
			)`,
			listingID,
		); err != nil {
			repoLogger.Error("Failed to promote replacement main photo", err, nil)
			return "", fmt.Errorf("failed to promote replacement main photo: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Info("Photo deleted", port.Fields{"was_main": wasMain})
	return url, nil
}
