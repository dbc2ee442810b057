package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogue-service/internal/repository"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildProductWhere_Empty(t *testing.T) {
	clause, args := buildProductWhere(repository.ProductFilter{})

	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestBuildProductWhere_SingleCondition(t *testing.T) {
	clause, args := buildProductWhere(repository.ProductFilter{
		MinStars: floatPtr(3.5),
	})

	assert.Equal(t, "WHERE stars >= $1", clause)
	assert.Equal(t, []any{3.5}, args)
}

func TestBuildProductWhere_AllConditionsConjoined(t *testing.T) {
	clause, args := buildProductWhere(repository.ProductFilter{
		Categories: []string{"TECH", "SPORT"},
		MinPrice:   floatPtr(10),
		MaxPrice:   floatPtr(100),
		MinStars:   floatPtr(4),
	})

	assert.Equal(t, "WHERE category = ANY($1) AND price >= $2 AND price <= $3 AND stars >= $4", clause)
	require.Len(t, args, 4)
	assert.Equal(t, []string{"TECH", "SPORT"}, args[0])
	assert.Equal(t, 10.0, args[1])
	assert.Equal(t, 100.0, args[2])
	assert.Equal(t, 4.0, args[3])
}

func TestBuildProductWhere_InvertedBoundsCompile(t *testing.T) {
	// min > max is a valid, unsatisfiable filter. It compiles; the store
	// returns nothing.
	clause, args := buildProductWhere(repository.ProductFilter{
		MinPrice: floatPtr(100),
		MaxPrice: floatPtr(10),
	})

	assert.Equal(t, "WHERE price >= $1 AND price <= $2", clause)
	assert.Equal(t, []any{100.0, 10.0}, args)
}

func TestBuildProductOrderBy_NilMeansNativeOrder(t *testing.T) {
	clause, err := buildProductOrderBy(nil)

	require.NoError(t, err)
	assert.Equal(t, "ORDER BY created_at DESC, id", clause)
}

func TestBuildProductOrderBy_ExplicitSortsGetTieBreak(t *testing.T) {
	tests := []struct {
		name string
		sort repository.ProductSort
		want string
	}{
		{
			name: "price ascending",
			sort: repository.ProductSort{Field: repository.SortFieldPrice, Order: repository.SortOrderAsc},
			want: "ORDER BY price ASC, created_at DESC, id",
		},
		{
			name: "price descending",
			sort: repository.ProductSort{Field: repository.SortFieldPrice, Order: repository.SortOrderDesc},
			want: "ORDER BY price DESC, created_at DESC, id",
		},
		{
			name: "createdAt ascending",
			sort: repository.ProductSort{Field: repository.SortFieldCreatedAt, Order: repository.SortOrderAsc},
			want: "ORDER BY created_at ASC, id",
		},
		{
			name: "createdAt descending",
			sort: repository.ProductSort{Field: repository.SortFieldCreatedAt, Order: repository.SortOrderDesc},
			want: "ORDER BY created_at DESC, id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, err := buildProductOrderBy(&tt.sort)
			require.NoError(t, err)
			assert.Equal(t, tt.want, clause)
		})
	}
}

func TestBuildProductOrderBy_RejectsUnknownField(t *testing.T) {
	_, err := buildProductOrderBy(&repository.ProductSort{Field: "stars", Order: repository.SortOrderAsc})
	assert.ErrorContains(t, err, "unknown sort field")

	_, err = buildProductOrderBy(&repository.ProductSort{Field: "name; DROP TABLE products", Order: repository.SortOrderAsc})
	assert.ErrorContains(t, err, "unknown sort field")
}

func TestBuildProductOrderBy_RejectsUnknownOrder(t *testing.T) {
	_, err := buildProductOrderBy(&repository.ProductSort{Field: repository.SortFieldPrice, Order: "descending"})
	assert.ErrorContains(t, err, "unknown sort order")
}
