package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"catalogue-service/internal/domain"
	"catalogue-service/pkg/database"
	apperrors "catalogue-service/pkg/errors"
)

// CommentRepository implements comment persistence using PostgreSQL.
type CommentRepository struct {
	pool database.DBTX
}

// NewCommentRepository creates a new PostgreSQL-backed comment repository.
func NewCommentRepository(pool database.DBTX) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// Create inserts the comment and refreshes the product's derived state in a
// single transaction. The product row is locked first, so concurrent writers
// for the same product serialize and each one recomputes the mean over the
// full comment set it observes. A failure at any step rolls the whole
// transaction back: no comment row without its aggregate update, no orphan
// comment for a missing product.
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (*domain.Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin comment tx: %w", storeErr(err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		p         domain.Product
		cacheJSON []byte
	)

	lockQuery := `
		SELECT id, name, description, price, category, stars, recent_comments, created_at
		FROM products
		WHERE id = $1
		FOR UPDATE`

	err = tx.QueryRow(ctx, lockQuery, c.ProductID).Scan(
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
			return nil, apperrors.NotFound("product", c.ProductID)
		}
		return nil, fmt.Errorf("lock product: %w", storeErr(err))
	}

	if err := unmarshalRecentComments(cacheJSON, &p); err != nil {
		return nil, err
	}

	insertQuery := `
		INSERT INTO comments (id, product_id, title, body, stars, date)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = tx.Exec(ctx, insertQuery,
		c.ID,
		c.ProductID,
		c.Title,
		c.Body,
		c.Stars,
		c.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", storeErr(err))
	}

	var (
		mean  float64
		count int
	)

	aggregateQuery := `
		SELECT COALESCE(AVG(stars), 0), COUNT(*)
		FROM comments
		WHERE product_id = $1`

	if err := tx.QueryRow(ctx, aggregateQuery, c.ProductID).Scan(&mean, &count); err != nil {
		return nil, fmt.Errorf("aggregate comment ratings: %w", storeErr(err))
	}
	if count == 0 {
		// The comment we just inserted must be visible inside this tx.
		return nil, apperrors.Aggregation("product", c.ProductID,
			fmt.Errorf("rating aggregate returned zero comments"))
	}

	p.Stars = mean
	p.RecentComments = domain.MergeRecentComments(p.RecentComments, *c)

	updatedCache, err := json.Marshal(p.RecentComments)
	if err != nil {
		return nil, fmt.Errorf("marshal recent comments: %w", err)
	}

	updateQuery := `
		UPDATE products
		SET stars = $2, recent_comments = $3
		WHERE id = $1`

	if _, err := tx.Exec(ctx, updateQuery, c.ProductID, p.Stars, updatedCache); err != nil {
		return nil, fmt.Errorf("update product aggregates: %w", storeErr(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit comment tx: %w", storeErr(err))
	}

	return &p, nil
}

// ListRecentByProductID returns up to limit comments for a product, newest
// first.
func (r *CommentRepository) ListRecentByProductID(ctx context.Context, productID string, limit int) ([]domain.Comment, error) {
	query := `
		SELECT id, product_id, title, body, stars, date
		FROM comments
		WHERE product_id = $1
		ORDER BY date DESC, id
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", storeErr(err))
	}
	defer rows.Close()

	var comments []domain.Comment

	for rows.Next() {
		var c domain.Comment

		if err := rows.Scan(
			&c.ID,
			&c.ProductID,
			&c.Title,
			&c.Body,
			&c.Stars,
			&c.Date,
		); err != nil {
			return nil, fmt.Errorf("scan comment row: %w", err)
		}

		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comment rows: %w", storeErr(err))
	}

	if comments == nil {
		comments = []domain.Comment{}
	}

	return comments, nil
}
