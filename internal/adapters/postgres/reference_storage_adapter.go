package postgres

import (
	"context"
	"fmt"

	"catalog-service/internal/core/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReferenceStorageAdapter читает справочники каталога.
type ReferenceStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewReferenceStorageAdapter(pool *pgxpool.Pool) (*ReferenceStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ReferenceStorageAdapter{pool: pool}, nil
}

func (a *ReferenceStorageAdapter) ListOperations(ctx context.Context) ([]domain.ReferenceItem, error) {
	return a.listItems(ctx, "SELECT id, name FROM operations ORDER BY id")
}

func (a *ReferenceStorageAdapter) ListPropertyTypes(ctx context.Context) ([]domain.ReferenceItem, error) {
	return a.listItems(ctx, "SELECT id, name FROM property_types ORDER BY id")
}

func (a *ReferenceStorageAdapter) ListHousingTypes(ctx context.Context) ([]domain.HousingType, error) {
	rows, err := a.pool.Query(ctx, "SELECT id, name, property_type_id FROM housing_types ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query housing types: %w", err)
	}
	defer rows.Close()

	items := make([]domain.HousingType, 0)
	for rows.Next() {
		var item domain.HousingType
		if err := rows.Scan(&item.ID, &item.Name, &item.PropertyTypeID); err != nil {
			return nil, fmt.Errorf("failed to scan housing type: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (a *ReferenceStorageAdapter) listItems(ctx context.Context, sql string) ([]domain.ReferenceItem, error) {
	rows, err := a.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query dictionary: %w", err)
	}
	defer rows.Close()

	items := make([]domain.ReferenceItem, 0)
	for rows.Next() {
		var item domain.ReferenceItem
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("failed to scan dictionary item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
