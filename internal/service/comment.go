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

// CommentService implements the business logic for comment operations.
type CommentService struct {
	comments repository.CommentRepository
	products repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(
	comments repository.CommentRepository,
	products repository.ProductRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		products: products,
		producer: producer,
		logger:   logger,
	}
}

// CreateCommentInput holds the parameters for creating a comment.
type CreateCommentInput struct {
	ProductID string
	Title     string
	Body      string
	Stars     int
}

// CreateComment records a comment for a product. The store atomically inserts
// the comment, recomputes the product's mean rating over all its comments,
// and refreshes the recent-comments cache. The returned product carries the
// post-comment state.
func (s *CommentService) CreateComment(ctx context.Context, input *CreateCommentInput) (*domain.Comment, *domain.Product, error) {
	if input.ProductID == "" {
		return nil, nil, apperrors.InvalidInput("product_id is required")
	}
	if input.Title == "" {
		return nil, nil, apperrors.InvalidInput("comment title is required")
	}
	if input.Stars < domain.MinStars || input.Stars > domain.MaxStars {
		return nil, nil, apperrors.InvalidInput(fmt.Sprintf("stars must be between %d and %d", domain.MinStars, domain.MaxStars))
	}

	comment := &domain.Comment{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		Title:     input.Title,
		Body:      input.Body,
		Stars:     input.Stars,
		Date:      time.Now().UTC(),
	}

	product, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, nil, fmt.Errorf("create comment: %w", err)
	}

	if err := s.producer.PublishCommentCreated(ctx, comment, product.Stars); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish comment.created event",
			slog.String("comment_id", comment.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "comment created",
		slog.String("comment_id", comment.ID),
		slog.String("product_id", comment.ProductID),
		slog.Int("stars", comment.Stars),
		slog.Float64("product_stars", product.Stars),
	)

	return comment, product, nil
}

// ListRecentComments returns up to count comments for a product, newest
// first. When exactly the cache size is requested the product's embedded
// recent-comments cache is served directly; any other count goes to the
// comment store. A non-positive count short-circuits to an empty list.
func (s *CommentService) ListRecentComments(ctx context.Context, productID string, count int) ([]domain.Comment, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}

	if count <= 0 {
		return []domain.Comment{}, nil
	}

	if count == domain.RecentCommentsCacheSize {
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("get product for comment cache: %w", err)
		}
		return product.RecentComments, nil
	}

	comments, err := s.comments.ListRecentByProductID(ctx, productID, count)
	if err != nil {
		return nil, fmt.Errorf("list recent comments: %w", err)
	}

	return comments, nil
}
