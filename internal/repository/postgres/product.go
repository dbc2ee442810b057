package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"catalogue-service/internal/domain"
	"catalogue-service/internal/repository"
	"catalogue-service/pkg/database"
	apperrors "catalogue-service/pkg/errors"
)

const productColumns = "id, name, description, price, category, stars, recent_comments, created_at"

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	cacheJSON, err := json.Marshal(p.RecentComments)
	if err != nil {
		return fmt.Errorf("marshal recent comments: %w", err)
	}

	query := `
		INSERT INTO products (id, name, description, price, category, stars, recent_comments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.Stars,
		cacheJSON,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", storeErr(err))
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	var (
		p         domain.Product
		cacheJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.Stars,
		&cacheJSON,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scan product: %w", storeErr(err))
	}

	if err := unmarshalRecentComments(cacheJSON, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// List returns all products matching the filter in the requested order.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter, sort *repository.ProductSort) ([]domain.Product, error) {
	whereClause, args := buildProductWhere(filter)

	orderClause, err := buildProductOrderBy(sort)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	query := fmt.Sprintf(`SELECT %s FROM products %s %s`, productColumns, whereClause, orderClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", storeErr(err))
	}
	defer rows.Close()

	var products []domain.Product

	for rows.Next() {
		var (
			p         domain.Product
			cacheJSON []byte
		)

		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Category,
			&p.Stars,
			&cacheJSON,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}

		if err := unmarshalRecentComments(cacheJSON, &p); err != nil {
			return nil, err
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", storeErr(err))
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

func unmarshalRecentComments(cacheJSON []byte, p *domain.Product) error {
	if cacheJSON != nil {
		if err := json.Unmarshal(cacheJSON, &p.RecentComments); err != nil {
			return fmt.Errorf("unmarshal recent comments: %w", err)
		}
	}
	if p.RecentComments == nil {
		p.RecentComments = []domain.Comment{}
	}
	return nil
}

// storeErr classifies transient connectivity failures so callers can map them
// to 503 instead of a generic internal error. Anything else passes through.
func storeErr(err error) error {
	if isConnectivityError(err) {
		return apperrors.Unavailable(err)
	}
	return err
}

// isConnectivityError reports whether the error looks like the store being
// unreachable rather than a statement-level failure.
func isConnectivityError(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := err.Error()
	for _, marker := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"dial tcp",
		"closed pool",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
