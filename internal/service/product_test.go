package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalogue-service/internal/domain"
	"catalogue-service/internal/event"
	"catalogue-service/internal/repository"
	apperrors "catalogue-service/pkg/errors"
	pkgkafka "catalogue-service/pkg/kafka"
)

// ---------------------------------------------------------------------------
// mocks
// ---------------------------------------------------------------------------

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter, sort *repository.ProductSort) ([]domain.Product, error) {
	args := m.Called(ctx, filter, sort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func newTestProductService(repo *mockProductRepository) *ProductService {
	return NewProductService(repo, testProducer(), testLogger())
}

// ---------------------------------------------------------------------------
// CreateProduct
// ---------------------------------------------------------------------------

func TestProductService_CreateProduct_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := svc.CreateProduct(ctx, &CreateProductInput{
		Name:        "Trail Boots",
		Description: "Waterproof hiking boots",
		Price:       129.99,
		Category:    domain.CategorySport,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "Trail Boots", product.Name)
	assert.Equal(t, domain.CategorySport, product.Category)
	assert.Zero(t, product.Stars)
	assert.NotNil(t, product.RecentComments)
	assert.Empty(t, product.RecentComments)
	assert.WithinDuration(t, time.Now().UTC(), product.CreatedAt, time.Second)
	repo.AssertExpectations(t)
}

func TestProductService_CreateProduct_EmptyName(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)

	_, err := svc.CreateProduct(ctx, &CreateProductInput{
		Price:    10,
		Category: domain.CategoryTech,
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create")
}

func TestProductService_CreateProduct_NegativePrice(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)

	_, err := svc.CreateProduct(ctx, &CreateProductInput{
		Name:     "Trail Boots",
		Price:    -1,
		Category: domain.CategorySport,
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create")
}

func TestProductService_CreateProduct_InvalidCategory(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)

	_, err := svc.CreateProduct(ctx, &CreateProductInput{
		Name:     "Trail Boots",
		Price:    10,
		Category: "BOOKS",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create")
}

func TestProductService_CreateProduct_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).
		Return(errors.New("connection refused"))

	_, err := svc.CreateProduct(ctx, &CreateProductInput{
		Name:     "Trail Boots",
		Price:    10,
		Category: domain.CategorySport,
	})

	assert.ErrorContains(t, err, "create product")
	repo.AssertExpectations(t)
}

// ---------------------------------------------------------------------------
// GetProduct
// ---------------------------------------------------------------------------

func TestProductService_GetProduct_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)

	want := &domain.Product{ID: "prod-1", Name: "Trail Boots"}
	repo.On("GetByID", ctx, "prod-1").Return(want, nil)

	product, err := svc.GetProduct(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, want, product)
	repo.AssertExpectations(t)
}

func TestProductService_GetProduct_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)

	repo.On("GetByID", ctx, "prod-x").Return(nil, apperrors.NotFound("product", "prod-x"))

	_, err := svc.GetProduct(ctx, "prod-x")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertExpectations(t)
}

// ---------------------------------------------------------------------------
// ListProducts
// ---------------------------------------------------------------------------

func TestProductService_ListProducts_PassesFilterAndSortThrough(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)

	minPrice := 10.0
	filter := repository.ProductFilter{
		Categories: []string{domain.CategoryTech},
		MinPrice:   &minPrice,
	}
	sort := &repository.ProductSort{Field: repository.SortFieldPrice, Order: repository.SortOrderDesc}

	repo.On("List", ctx, filter, sort).Return([]domain.Product{{ID: "prod-1"}}, nil)

	products, err := svc.ListProducts(ctx, &ListProductsInput{Filter: filter, Sort: sort})
	require.NoError(t, err)
	require.Len(t, products, 1)
	repo.AssertExpectations(t)
}

func TestProductService_ListProducts_InvertedBoundsReachStore(t *testing.T) {
	// min above max is unsatisfiable but not invalid. The store decides;
	// it returns an empty list.
	ctx := context.Background()
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)

	minPrice, maxPrice := 100.0, 10.0
	filter := repository.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice}

	repo.On("List", ctx, filter, (*repository.ProductSort)(nil)).Return([]domain.Product{}, nil)

	products, err := svc.ListProducts(ctx, &ListProductsInput{Filter: filter})
	require.NoError(t, err)
	assert.Empty(t, products)
	repo.AssertExpectations(t)
}

func TestProductService_ListProducts_UnknownCategory(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)

	_, err := svc.ListProducts(ctx, &ListProductsInput{
		Filter: repository.ProductFilter{Categories: []string{"BOOKS"}},
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "List")
}

func TestProductService_ListProducts_UnknownSortField(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)

	_, err := svc.ListProducts(ctx, &ListProductsInput{
		Sort: &repository.ProductSort{Field: "stars", Order: repository.SortOrderAsc},
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "List")
}

func TestProductService_ListProducts_UnknownSortOrder(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)

	_, err := svc.ListProducts(ctx, &ListProductsInput{
		Sort: &repository.ProductSort{Field: repository.SortFieldPrice, Order: "sideways"},
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "List")
}
