package repository

import (
	"context"

	"catalogue-service/internal/domain"
)

// Sort fields and orders accepted by ProductRepository.List.
const (
	SortFieldCreatedAt = "createdAt"
	SortFieldPrice     = "price"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// ProductFilter narrows a product listing. Nil bound pointers mean the bound
// is absent; an empty Categories slice means no category restriction. All set
// conditions must hold at once.
type ProductFilter struct {
	Categories []string
	MinPrice   *float64
	MaxPrice   *float64
	MinStars   *float64
}

// ProductSort requests an explicit listing order. A nil *ProductSort means
// store-native order (newest first).
type ProductSort struct {
	Field string
	Order string
}

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter, sort *ProductSort) ([]domain.Product, error)
}

// CommentRepository defines comment persistence operations. Create performs
// the full write path atomically: it inserts the comment, recomputes the
// product's mean rating, and refreshes the embedded recent-comments cache,
// all in one transaction. On success it returns the updated product snapshot.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Product, error)
	ListRecentByProductID(ctx context.Context, productID string, limit int) ([]domain.Comment, error)
}
