package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"catalogue-service/internal/domain"
	"catalogue-service/internal/event"
	"catalogue-service/internal/repository"
	apperrors "catalogue-service/pkg/errors"
)

// ProductService implements the business logic for product operations.
type ProductService struct {
	repo     repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
}

// ListProductsInput holds the filter and sort parameters for a listing.
type ListProductsInput struct {
	Filter repository.ProductFilter
	Sort   *repository.ProductSort
}

// CreateProduct creates a new product. New products start with no rating and
// an empty recent-comments cache.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if !domain.IsValidCategory(input.Category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("category must be one of %v", domain.ValidCategories))
	}

	product := &domain.Product{
		ID:             uuid.New().String(),
		Name:           input.Name,
		Description:    input.Description,
		Price:          input.Price,
		Category:       input.Category,
		Stars:          0,
		RecentComments: []domain.Comment{},
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("category", product.Category),
	)

	return product, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// ListProducts returns products matching the filter in the requested order.
// An unsatisfiable filter (say min_price above max_price) is valid and
// returns an empty list.
func (s *ProductService) ListProducts(ctx context.Context, input *ListProductsInput) ([]domain.Product, error) {
	for _, c := range input.Filter.Categories {
		if !domain.IsValidCategory(c) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("unknown category %q", c))
		}
	}

	if input.Sort != nil {
		if _, ok := validSortFields[input.Sort.Field]; !ok {
			return nil, apperrors.InvalidInput(fmt.Sprintf("unknown sort field %q", input.Sort.Field))
		}
		if input.Sort.Order != repository.SortOrderAsc && input.Sort.Order != repository.SortOrderDesc {
			return nil, apperrors.InvalidInput(fmt.Sprintf("unknown sort order %q", input.Sort.Order))
		}
	}

	products, err := s.repo.List(ctx, input.Filter, input.Sort)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

var validSortFields = map[string]struct{}{
	repository.SortFieldCreatedAt: {},
	repository.SortFieldPrice:     {},
}
