package postgres

import (
	"context"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"golang.org/x/sync/errgroup"
)

// FindWithFilters ищет объявления по набору фильтров с пагинацией.
// Запрос данных и запрос COUNT строятся на одном WHERE и выполняются
// параллельно.
func (a *ListingStorageAdapter) FindWithFilters(ctx context.Context, filters domain.ListingFilters, privileged bool, limit, offset int) (*domain.PaginatedListings, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ListingStorageAdapter",
		"method":    "FindWithFilters",
		"limit":     limit,
		"offset":    offset,
	})

	whereClause, orderClause, args, err := buildFindQuery(filters, privileged)
	if err != nil {
		repoLogger.Error("Failed to build find query", err, nil)
		return nil, err
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM listings l %s", whereClause)

	// Главное фото подтягивается скалярным подзапросом: LEFT JOIN по
	// photos умножил бы строки выдачи.
	dataQuery := fmt.Sprintf(`
		SELECT %s,
			(SELECT p.url FROM photos p WHERE p.listing_id = l.id AND p.is_main LIMIT 1) AS main_image_url
		FROM listings l
		%s
		%s
		LIMIT $%d OFFSET $%d`,
		listingColumns, whereClause, orderClause, len(args)+1, len(args)+2)
	dataArgs := append(append([]interface{}{}, args...), limit, offset)

	var totalCount int64
	cards := make([]domain.ListingCard, 0, limit)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.pool.QueryRow(gctx, countQuery, args...).Scan(&totalCount); err != nil {
			return fmt.Errorf("failed to count listings: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		rows, err := a.pool.Query(gctx, dataQuery, dataArgs...)
		if err != nil {
			return fmt.Errorf("failed to find listings: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var card domain.ListingCard
			l := &card.Listing
			if err := rows.Scan(
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
				&card.MainImageURL,
			); err != nil {
				return fmt.Errorf("failed to scan listing card: %w", err)
			}
			cards = append(cards, card)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		repoLogger.Error("Failed to find listings with filters", err, nil)
		return nil, err
	}

	repoLogger.Info("Listings page loaded", port.Fields{
		"total_count": totalCount,
		"page_count":  len(cards),
	})

	return &domain.PaginatedListings{
		Listings:     cards,
		TotalCount:   totalCount,
		CurrentPage:  offset/limit + 1,
		ItemsPerPage: limit,
	}, nil
}
