package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Коды ошибок PostgreSQL
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Единый список колонок объявления. Порядок колонок и порядок
// аргументов scanListing обязаны совпадать.
const listingColumns = `l.id, l.slug, l.status, l.archived_at,
	l.operation_id, l.property_type_id, l.housing_type_id,
	l.price, l.area, l.total_area, l.living_area, l.kitchen_area,
	l.rooms, l.floor, l.total_floors, l.year_built, l.renovation_year,
	l.latitude, l.longitude, l.geohash,
	l.address, l.short_description, l.full_description,
	l.condition, l.parking, l.renovation, l.balcony, l.bathroom,
	l.windows, l.view, l.ownership,
	l.has_elevator, l.encumbrance, l.mortgage_possible, l.ready_to_move, l.bargaining,
	l.created_at, l.updated_at`

// ListingStorageAdapter реализует ListingStoragePort для PostgreSQL.
type ListingStorageAdapter struct {
	pool *pgxpool.Pool
}

// NewListingStorageAdapter создает новый экземпляр адаптера.
func NewListingStorageAdapter(pool *pgxpool.Pool) (*ListingStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ListingStorageAdapter{pool: pool}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var l domain.Listing
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
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// mapWriteError переводит ошибки драйвера в доменные.
// 23505 по slug возможен только при гонке параллельных создателей:
// цикл подбора slug уже проверил свободность имени.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.ErrSlugTaken
		case pgForeignKeyViolation:
			return domain.ErrInvalidReference
		}
	}
	return err
}

// Create вставляет новое объявление и возвращает сохраненную строку.
func (a *ListingStorageAdapter) Create(ctx context.Context, draft domain.ListingDraft, slug string) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ListingStorageAdapter",
		"method":    "Create",
		"slug":      slug,
	})

	sql := `
		INSERT INTO listings (
			slug, status,
			operation_id, property_type_id, housing_type_id,
			price, area, total_area, living_area, kitchen_area,
			rooms, floor, total_floors, year_built, renovation_year,
			latitude, longitude, geohash,
			address, short_description, full_description,
			condition, parking, renovation, balcony, bathroom,
			windows, view, ownership,
			has_elevator, encumbrance, mortgage_possible, ready_to_move, bargaining
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34
		)
		RETURNING ` + strings.ReplaceAll(listingColumns, "l.", "")

	row := a.pool.QueryRow(ctx, sql,
		slug, draft.Status,
		draft.OperationID, draft.PropertyTypeID, draft.HousingTypeID,
		draft.Price, draft.Area, draft.TotalArea, draft.LivingArea, draft.KitchenArea,
		draft.Rooms, draft.Floor, draft.TotalFloors, draft.YearBuilt, draft.RenovationYear,
		draft.Latitude, draft.Longitude, draft.Geohash,
		draft.Address, draft.ShortDescription, draft.FullDescription,
		draft.Condition, draft.Parking, draft.Renovation, draft.Balcony, draft.Bathroom,
		draft.Windows, draft.View, draft.Ownership,
		draft.HasElevator, draft.Encumbrance, draft.MortgagePossible, draft.ReadyToMove, draft.Bargaining,
	)

	listing, err := scanListing(row)
	if err != nil {
		mapped := mapWriteError(err)
		repoLogger.Error("Failed to insert listing", mapped, nil)
		if mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to insert listing: %w", err)
	}

	repoLogger.Info("Listing inserted", port.Fields{"listing_id": listing.ID})
	return listing, nil
}

// updateBuilder собирает динамический SET из непустых полей патча.
type updateBuilder struct {
	assignments []string
	args        []interface{}
	argID       int
}

func newUpdateBuilder() *updateBuilder {
	return &updateBuilder{argID: 1}
}

func (ub *updateBuilder) set(column string, value interface{}) {
	ub.assignments = append(ub.assignments, fmt.Sprintf("%s = $%d", column, ub.argID))
	ub.args = append(ub.args, value)
	ub.argID++
}

func (ub *updateBuilder) setRaw(assignment string) {
	ub.assignments = append(ub.assignments, assignment)
}

// setString применяет семантику строковых полей патча:
// пустая строка очищает значение в NULL.
func (ub *updateBuilder) setString(column string, value *string) {
	if value == nil {
		return
	}
	if *value == "" {
		ub.setRaw(column + " = NULL")
		return
	}
	ub.set(column, *value)
}

// Update применяет частичное обновление и возвращает обновленную строку.
func (a *ListingStorageAdapter) Update(ctx context.Context, id int64, patch domain.ListingPatch, newSlug *string) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "ListingStorageAdapter",
		"method":     "Update",
		"listing_id": id,
	})

	ub := newUpdateBuilder()

	if newSlug != nil {
		ub.set("slug", *newSlug)
	}
	if patch.Status != nil {
		ub.set("status", *patch.Status)
	}

	if patch.OperationID != nil {
		ub.set("operation_id", *patch.OperationID)
	}
	if patch.PropertyTypeID != nil {
		ub.set("property_type_id", *patch.PropertyTypeID)
	}
	if patch.HousingTypeID != nil {
		ub.set("housing_type_id", *patch.HousingTypeID)
	}

	if patch.Price != nil {
		ub.set("price", *patch.Price)
	}
	if patch.Area != nil {
		ub.set("area", *patch.Area)
	}
	if patch.TotalArea != nil {
		ub.set("total_area", *patch.TotalArea)
	}
	if patch.LivingArea != nil {
		ub.set("living_area", *patch.LivingArea)
	}
	if patch.KitchenArea != nil {
		ub.set("kitchen_area", *patch.KitchenArea)
	}

	if patch.Rooms != nil {
		ub.set("rooms", *patch.Rooms)
	}
	if patch.Floor != nil {
		ub.set("floor", *patch.Floor)
	}
	if patch.TotalFloors != nil {
		ub.set("total_floors", *patch.TotalFloors)
	}
	if patch.YearBuilt != nil {
		ub.set("year_built", *patch.YearBuilt)
	}
	if patch.RenovationYear != nil {
		ub.set("renovation_year", *patch.RenovationYear)
	}

	// Координаты: либо записываем новую пару, либо сбрасываем всю тройку
	switch {
	case patch.ClearCoordinates:
		ub.setRaw("latitude = NULL")
		ub.setRaw("longitude = NULL")
		ub.setRaw("geohash = NULL")
	case patch.Latitude != nil && patch.Longitude != nil:
		ub.set("latitude", *patch.Latitude)
		ub.set("longitude", *patch.Longitude)
		if patch.Geohash != nil {
			ub.set("geohash", *patch.Geohash)
		}
	}

	ub.setString("address", patch.Address)
	ub.setString("short_description", patch.ShortDescription)
	ub.setString("full_description", patch.FullDescription)
	ub.setString("condition", patch.Condition)
	ub.setString("parking", patch.Parking)
	ub.setString("renovation", patch.Renovation)
	ub.setString("balcony", patch.Balcony)
	ub.setString("bathroom", patch.Bathroom)
	ub.setString("windows", patch.Windows)
	ub.setString("view", patch.View)
	ub.setString("ownership", patch.Ownership)

	if patch.HasElevator != nil {
		ub.set("has_elevator", *patch.HasElevator)
	}
	if patch.Encumbrance != nil {
		ub.set("encumbrance", *patch.Encumbrance)
	}
	if patch.MortgagePossible != nil {
		ub.set("mortgage_possible", *patch.MortgagePossible)
	}
	if patch.ReadyToMove != nil {
		ub.set("ready_to_move", *patch.ReadyToMove)
	}
	if patch.Bargaining != nil {
		ub.set("bargaining", *patch.Bargaining)
	}

	// updated_at обновляется всегда, даже на пустом патче
	ub.setRaw("updated_at = now()")

	sql := fmt.Sprintf(
		"UPDATE listings AS l SET %s WHERE l.id = $%d RETURNING %s",
		strings.Join(ub.assignments, ", "), ub.argID, listingColumns,
	)
	args := append(ub.args, id)

	listing, err := scanListing(a.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Listing not found", nil)
			return nil, domain.ErrListingNotFound
		}
		mapped := mapWriteError(err)
		repoLogger.Error("Failed to update listing", mapped, nil)
		if mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	repoLogger.Info("Listing updated", nil)
	return listing, nil
}

func (a *ListingStorageAdapter) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	sql := fmt.Sprintf("SELECT %s FROM listings l WHERE l.id = $1", listingColumns)

	listing, err := scanListing(a.pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing by id: %w", err)
	}
	return listing, nil
}

// IDBySlug возвращает id объявления, занимающего slug,
// либо domain.ErrListingNotFound, если slug свободен.
func (a *ListingStorageAdapter) IDBySlug(ctx context.Context, slug string) (int64, error) {
	var id int64
	err := a.pool.QueryRow(ctx, "SELECT id FROM listings WHERE slug = $1", slug).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrListingNotFound
		}
		return 0, fmt.Errorf("failed to look up slug: %w", err)
	}
	return id, nil
}

// SetStatus меняет статус. archived_at записывается, только когда
// передан явно; при nil колонка остается нетронутой.
func (a *ListingStorageAdapter) SetStatus(ctx context.Context, id int64, status string, archivedAt *time.Time) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "ListingStorageAdapter",
		"method":     "SetStatus",
		"listing_id": id,
		"status":     status,
	})

	var row pgx.Row
	if archivedAt != nil {
		sql := fmt.Sprintf(
			"UPDATE listings AS l SET status = $1, archived_at = $2, updated_at = now() WHERE l.id = $3 RETURNING %s",
			listingColumns,
		)
		row = a.pool.QueryRow(ctx, sql, status, *archivedAt, id)
	} else {
		sql := fmt.Sprintf(
			"UPDATE listings AS l SET status = $1, updated_at = now() WHERE l.id = $2 RETURNING %s",
			listingColumns,
		)
		row = a.pool.QueryRow(ctx, sql, status, id)
	}

	listing, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Listing not found", nil)
			return nil, domain.ErrListingNotFound
		}
		repoLogger.Error("Failed to change listing status", err, nil)
		return nil, fmt.Errorf("failed to change listing status: %w", err)
	}

	repoLogger.Info("Listing status changed", nil)
	return listing, nil
}

// Delete удаляет объявление. Строки фотографий удаляет каскад внешнего ключа.
func (a *ListingStorageAdapter) Delete(ctx context.Context, id int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "ListingStorageAdapter",
		"method":     "Delete",
		"listing_id": id,
	})

	tag, err := a.pool.Exec(ctx, "DELETE FROM listings WHERE id = $1", id)
	if err != nil {
		repoLogger.Error("Failed to delete listing", err, nil)
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		repoLogger.Warn("Listing not found", nil)
		return domain.ErrListingNotFound
	}

	repoLogger.Info("Listing deleted", nil)
	return nil
}
