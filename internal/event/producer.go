package event

import (
	"context"
	"fmt"
	"log/slog"

	"catalogue-service/internal/domain"
	pkgkafka "catalogue-service/pkg/kafka"
)

// Kafka topics for catalogue domain events.
const (
	TopicProductCreated = "catalogue.product.created"
	TopicCommentCreated = "catalogue.comment.created"
)

// Entity type constants.
const (
	EntityTypeProduct = "product"
	EntityTypeComment = "comment"
)

// Source identifier for events originating from this service.
const SourceCatalogueService = "catalogue-service"

// ProductCreatedPayload is the payload for a product.created event.
type ProductCreatedPayload struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

// CommentCreatedPayload is the payload for a comment.created event. Stars on
// the product reflects the mean after this comment was counted.
type CommentCreatedPayload struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	Title        string  `json:"title"`
	Stars        int     `json:"stars"`
	ProductStars float64 `json:"product_stars"`
}

// Producer publishes catalogue domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalogue service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	payload := ProductCreatedPayload{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
	}

	event, err := pkgkafka.NewEvent(TopicProductCreated, product.ID, EntityTypeProduct, SourceCatalogueService, payload)
	if err != nil {
		return fmt.Errorf("create product.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductCreated, event); err != nil {
		return fmt.Errorf("publish product.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.created event",
		slog.String("product_id", product.ID),
	)

	return nil
}

// PublishCommentCreated publishes a comment.created event carrying the
// product's refreshed mean rating.
func (p *Producer) PublishCommentCreated(ctx context.Context, comment *domain.Comment, productStars float64) error {
	payload := CommentCreatedPayload{
		ID:           comment.ID,
		ProductID:    comment.ProductID,
		Title:        comment.Title,
		Stars:        comment.Stars,
		ProductStars: productStars,
	}

	event, err := pkgkafka.NewEvent(TopicCommentCreated, comment.ID, EntityTypeComment, SourceCatalogueService, payload)
	if err != nil {
		return fmt.Errorf("create comment.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCommentCreated, event); err != nil {
		return fmt.Errorf("publish comment.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published comment.created event",
		slog.String("comment_id", comment.ID),
		slog.String("product_id", comment.ProductID),
	)

	return nil
}
