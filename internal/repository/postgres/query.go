package postgres

import (
	"fmt"
	"strings"

	"catalogue-service/internal/repository"
)

// sortColumns whitelists the sortable fields and maps them to SQL columns.
// Anything outside this map is rejected before query assembly.
var sortColumns = map[string]string{
	repository.SortFieldCreatedAt: "created_at",
	repository.SortFieldPrice:     "price",
}

// buildProductWhere compiles a ProductFilter into a WHERE clause and its
// positional arguments, starting at $1. All conditions are ANDed; an empty
// filter yields an empty clause. Inverted bounds (min > max) compile as-is
// and match nothing.
func buildProductWhere(filter repository.ProductFilter) (string, []any) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if len(filter.Categories) > 0 {
		conditions = append(conditions, fmt.Sprintf("category = ANY($%d)", argIndex))
		args = append(args, filter.Categories)
		argIndex++
	}

	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", argIndex))
		args = append(args, *filter.MinPrice)
		argIndex++
	}

	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *filter.MaxPrice)
		argIndex++
	}

	if filter.MinStars != nil {
		conditions = append(conditions, fmt.Sprintf("stars >= $%d", argIndex))
		args = append(args, *filter.MinStars)
		argIndex++
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// buildProductOrderBy compiles an optional sort into an ORDER BY clause. A
// nil sort yields the store-native order, newest first. An explicit sort gets
// the native keys appended as tie-breaks so equal values keep a stable,
// deterministic order.
func buildProductOrderBy(sort *repository.ProductSort) (string, error) {
	const native = "ORDER BY created_at DESC, id"

	if sort == nil {
		return native, nil
	}

	column, ok := sortColumns[sort.Field]
	if !ok {
		return "", fmt.Errorf("unknown sort field %q", sort.Field)
	}

	var direction string
	switch sort.Order {
	case repository.SortOrderAsc:
		direction = "ASC"
	case repository.SortOrderDesc:
		direction = "DESC"
	default:
		return "", fmt.Errorf("unknown sort order %q", sort.Order)
	}

	// Sorting by the native column already: only the id tie-break is needed.
	if column == "created_at" {
		return fmt.Sprintf("ORDER BY created_at %s, id", direction), nil
	}

	return fmt.Sprintf("ORDER BY %s %s, created_at DESC, id", column, direction), nil
}
