package handler

import (
	"encoding/json"
	"net/http"

	"taste-haven/internal/model"
	"taste-haven/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost, h.logger)
		return
	}

	var req model.OrderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrorResponse{Message: "Invalid request body"}, h.logger)
		return
	}

	order, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, "Invalid order data", "Failed to create order", h.logger)
		return
	}

	writeJSON(w, r, http.StatusCreated, order, h.logger)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet, h.logger)
		return
	}

	id := pathID(r.URL.Path, "/api/orders/")
	if id == "" {
		writeError(w, r, http.StatusNotFound, model.ErrorResponse{Message: model.ErrOrderNotFound.Message}, h.logger)
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Invalid request", "Failed to fetch order", h.logger)
		return
	}

	writeJSON(w, r, http.StatusOK, order, h.logger)
}
