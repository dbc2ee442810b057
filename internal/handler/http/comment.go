package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"catalogue-service/internal/domain"
	"catalogue-service/internal/service"
	"catalogue-service/pkg/httputil"
	"catalogue-service/pkg/validator"
)

// CommentHandler handles HTTP requests for comment endpoints.
type CommentHandler struct {
	service *service.CommentService
	logger  *slog.Logger
}

// NewCommentHandler creates a new comment HTTP handler.
func NewCommentHandler(svc *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateCommentRequest is the JSON request body for creating a comment.
type CreateCommentRequest struct {
	Title string `json:"title" validate:"required,max=255"`
	Body  string `json:"body"`
	Stars int    `json:"stars" validate:"required,min=1,max=5"`
}

// --- Handlers ---

// CreateComment handles POST /api/v1/products/{productId}/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product id is required"},
		})
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.CreateCommentInput{
		ProductID: productID,
		Title:     req.Title,
		Body:      req.Body,
		Stars:     req.Stars,
	}

	comment, product, err := h.service.CreateComment(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"data":          comment,
		"product_stars": product.Stars,
	})
}

// ListRecentComments handles GET /api/v1/products/{productId}/comments
//
// The last query parameter bounds the result, newest first. It defaults to
// the product's embedded cache size, which makes the common read a single
// product fetch.
func (h *CommentHandler) ListRecentComments(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product id is required"},
		})
		return
	}

	count := domain.RecentCommentsCacheSize
	if v := r.URL.Query().Get("last"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "last must be an integer"},
			})
			return
		}
		count = n
	}

	comments, err := h.service.ListRecentComments(r.Context(), productID, count)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: comments})
}
