package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"catalog-service/internal/core/domain"
)

// Колонки сортировки выбираются только через эту таблицу: произвольное
// имя поля никогда не попадает в запрос.
var sortColumns = map[string]string{
	"price":     "l.price",
	"area":      "l.area",
	"yearBuilt": "l.year_built",
	"createdAt": "l.created_at",
}

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argID      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argID: 1,
		args:  make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argID))
	qb.args = append(qb.args, arg)
	qb.argID++
}

func (qb *queryBuilder) AddFloatFilter(fieldName string, min *float64, max *float64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

func (qb *queryBuilder) AddIntFilter(fieldName string, min *int, max *int) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// buildFindQuery разбирает фильтры и строит WHERE и ORDER BY.
// Запрос данных и запрос COUNT используют один и тот же WHERE и одни
// и те же аргументы - они не могут разойтись.
//
// Невалидный sortBy или rooms здесь - ошибка программирования (граница
// валидации не сработала), поэтому возвращаем ошибку, а не молчаливый
// дефолт.
func buildFindQuery(filters domain.ListingFilters, privileged bool) (string, string, []interface{}, error) {
	qb := newQueryBuilder()

	// Базовый предикат по статусу: анонимные вызовы видят только active.
	// Привилегированный вызов может запросить конкретный статус или
	// снять ограничение целиком через includeArchived.
	switch {
	case privileged && filters.Status != "":
		if !domain.IsValidStatus(filters.Status) {
			return "", "", nil, fmt.Errorf("unexpected status filter %q", filters.Status)
		}
		qb.addCondition("%s = $%d", "l.status", filters.Status)
	case privileged && filters.IncludeArchived:
		// без ограничения по статусу
	default:
		qb.conditions = append(qb.conditions, "l.status = 'active'")
	}

	if filters.OperationID != nil {
		qb.addCondition("%s = $%d", "l.operation_id", *filters.OperationID)
	}
	if filters.PropertyTypeID != nil {
		qb.addCondition("%s = $%d", "l.property_type_id", *filters.PropertyTypeID)
	}
	if filters.HousingTypeID != nil {
		qb.addCondition("%s = $%d", "l.housing_type_id", *filters.HousingTypeID)
	}
	if filters.Floor != nil {
		qb.addCondition("%s = $%d", "l.floor", *filters.Floor)
	}
	if filters.HasElevator != nil {
		qb.addCondition("%s = $%d", "l.has_elevator", *filters.HasElevator)
	}

	qb.AddFloatFilter("l.price", filters.MinPrice, filters.MaxPrice)
	qb.AddFloatFilter("l.area", filters.MinArea, filters.MaxArea)
	qb.AddIntFilter("l.year_built", filters.YearMin, filters.YearMax)

	if filters.Rooms != "" {
		switch filters.Rooms {
		case domain.RoomsStudio:
			qb.addCondition("%s = $%d", "l.rooms", 0)
		case domain.RoomsFivePlus:
			qb.addCondition("%s >= $%d", "l.rooms", 5)
		default:
			rooms, err := strconv.Atoi(filters.Rooms)
			if err != nil {
				return "", "", nil, fmt.Errorf("unexpected rooms filter %q", filters.Rooms)
			}
			qb.addCondition("%s = $%d", "l.rooms", rooms)
		}
	}

	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		qb.conditions = append(qb.conditions, fmt.Sprintf(
			"(l.address ILIKE $%d OR l.short_description ILIKE $%d OR l.full_description ILIKE $%d)",
			qb.argID, qb.argID, qb.argID,
		))
		qb.args = append(qb.args, pattern)
		qb.argID++
	}

	whereClause, args := qb.build()

	orderClause, err := buildOrderClause(filters.SortBy, filters.Order)
	if err != nil {
		return "", "", nil, err
	}

	return whereClause, orderClause, args, nil
}

func buildOrderClause(sortBy, order string) (string, error) {
	if sortBy == "" {
		sortBy = domain.DefaultSortField
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		return "", fmt.Errorf("unexpected sort field %q", sortBy)
	}

	if order == "" {
		order = domain.DefaultSortOrder
	}
	switch order {
	case "asc":
		order = "ASC"
	case "desc":
		order = "DESC"
	default:
		return "", fmt.Errorf("unexpected sort order %q", order)
	}

	// Вторичный ключ по id делает порядок детерминированным
	return fmt.Sprintf("ORDER BY %s %s, l.id ASC", column, order), nil
}
