package postgres

import (
	"context"
	"errors"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"github.com/jackc/pgx/v5"
)

// GetDetailsByID возвращает полную карточку объявления вместе с
// именами справочников и фотографиями.
func (a *ListingStorageAdapter) GetDetailsByID(ctx context.Context, id int64) (*domain.ListingDetails, error) {
	return a.getDetails(ctx, "l.id = $1", id)
}

// GetDetailsBySlug - то же самое по публичному ключу.
func (a *ListingStorageAdapter) GetDetailsBySlug(ctx context.Context, slug string) (*domain.ListingDetails, error) {
	return a.getDetails(ctx, "l.slug = $1", slug)
}

func (a *ListingStorageAdapter) getDetails(ctx context.Context, predicate string, key interface{}) (*domain.ListingDetails, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ListingStorageAdapter",
		"method":    "GetDetails",
		"key":       key,
	})

	sql := fmt.Sprintf(`
		SELECT %s, o.name, pt.name, ht.name
		FROM listings l
		JOIN operations o ON o.id = l.operation_id
		JOIN property_types pt ON pt.id = l.property_type_id
		LEFT JOIN housing_types ht ON ht.id = l.housing_type_id
		WHERE %s`, listingColumns, predicate)

	row := a.pool.QueryRow(ctx, sql, key)

	var details domain.ListingDetails
	l := &details.Listing
	err := row.Scan(
		&l.ID, &l.Slug, &l.Status, &l.ArchivedAt,
		&l.OperationID, &l.PropertyTypeID, &l.HousingTypeID,
		&l.Price, &l.Area, &l.TotalArea, &l.LivingArea, &l.KitchenArea,
		&l.Rooms, &l.Floor, &l.TotalFloors, &l.YearBuilt, &l.RenovationYear,
		&l.Latitude, &l.Longitude, &l.Geohash,
		&l.Address, &l.ShortDescription, &l.FullDescription,
		&l.Condition, &l.Parking, &l.Renovation, &l.Balcony, &l.Bathroom,
		&l.Windows, &l.View, &l.Ownership,
		&l.HasElevator, &l.Encumbrance, &l.MortgagePossible, &l.ReadyToMove, &l.Bargaining,
		&l.CreatedAt, &l.UpdatedAt,
		&details.OperationName, &details.PropertyTypeName, &details.HousingTypeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Listing not found", nil)
			return nil, domain.ErrListingNotFound
		}
		repoLogger.Error("Failed to get listing details", err, nil)
		return nil, fmt.Errorf("failed to get listing details: %w", err)
	}

	photos, err := a.listPhotos(ctx, l.ID)
	if err != nil {
		repoLogger.Error("Failed to get listing photos", err, nil)
		return nil, err
	}
	details.Photos = photos

	repoLogger.Debug("Listing details loaded", port.Fields{
		"listing_id":   l.ID,
		"photos_count": len(photos),
	})
	return &details, nil
}

// Главное фото первым, остальные в порядке загрузки.
func (a *ListingStorageAdapter) listPhotos(ctx context.Context, listingID int64) ([]domain.Photo, error) {
	sql := `
		SELECT id, listing_id, url, is_main, phash, created_at
		FROM photos
		WHERE listing_id = $1
		ORDER BY is_main DESC, created_at ASC, id ASC`

	rows, err := a.pool.Query(ctx, sql, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query listing photos: %w", err)
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
