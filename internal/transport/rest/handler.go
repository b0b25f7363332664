// Package rest provides HTTP handlers for cart-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	carterrors "github.com/shopfront/cart_service/internal/errors"
	"github.com/shopfront/cart_service/internal/service"
	"github.com/shopfront/cart_service/pkg/web"
)

type Handler struct {
	service  service.CartService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the cart API with the provided service.
func NewHandler(service service.CartService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// AddItemDto is the request body for adding a product to the cart. The
// transport rejects non-positive quantities; the service itself does not.
type AddItemDto struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
}

// AddItemResponse reports the cart-wide total after a successful add.
type AddItemResponse struct {
	TotalItems int64 `json:"total_items"`
}

// RegisterRoutes registers the HTTP routes for the cart service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Post("/items", h.AddItem)
	})
	r.Get("/healthz", h.HealthCheck)
}

// AddItem handles adding a quantity of one product to the cart.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)

	var dto AddItemDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to add item", "product_id", dto.ProductID, "quantity", dto.Quantity)
	result, err := h.service.AddToCart(r.Context(), dto.ProductID, dto.Quantity)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error adding item to cart", "product_id", dto.ProductID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}

	switch res := result.(type) {
	case service.Success:
		mLogger.InfoContext(r.Context(), "Item added to cart", "product_id", dto.ProductID, "total_items", res.TotalItems)
		web.RespondJSON(w, mLogger, http.StatusOK, AddItemResponse{TotalItems: res.TotalItems})
	case service.Failure:
		mLogger.WarnContext(r.Context(), "Add to cart rejected", "product_id", dto.ProductID, "reason", res.Message)
		web.RespondError(w, mLogger, failureStatus(res), res.Message)
	default:
		mLogger.ErrorContext(r.Context(), "Unexpected cart operation result", "result", result)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to add item to cart")
	}
}

// GetCart returns the current cart lines and total.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)

	cart, err := h.service.Cart(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving cart", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved cart", "total_items", cart.TotalItems)
	web.RespondJSON(w, mLogger, http.StatusOK, cart)
}

// HealthCheck responds with a simple status to indicate the service is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// failureStatus maps a business rejection to an HTTP status code.
func failureStatus(f service.Failure) int {
	switch {
	case errors.Is(f.Reason, carterrors.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(f.Reason, carterrors.ErrProductOutOfStock),
		errors.Is(f.Reason, carterrors.ErrMaxQuantityReached):
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

// loggerWithReqID returns a logger enriched with the request id.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	if reqID, ok := web.GetRequestID(r.Context()); ok && reqID != "" {
		return h.logger.With("request_id", reqID)
	}
	return h.logger
}
