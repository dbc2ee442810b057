package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalogue-service/internal/service"
	"catalogue-service/pkg/health"
	"catalogue-service/pkg/middleware"
)

// NewRouter creates a chi router with all catalogue routes registered.
func NewRouter(
	productService *service.ProductService,
	commentService *service.CommentService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("catalogue"))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	// Health and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Product API endpoints
	productHandler := NewProductHandler(productService, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.ListProducts)
		r.Post("/", productHandler.CreateProduct)
		r.Get("/{id}", productHandler.GetProduct)
	})

	// Comment API endpoints (nested under products)
	commentHandler := NewCommentHandler(commentService, logger)

	r.Route("/api/v1/products/{productId}/comments", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", commentHandler.ListRecentComments)
		r.Post("/", commentHandler.CreateComment)
	})

	return r
}
