package handler

import (
	"net/http"

	"taste-haven/internal/model"
	"taste-haven/internal/service"

	"github.com/rs/zerolog"
)

// MenuHandler handles menu-related HTTP requests.
type MenuHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service service.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("handler", "menu").Logger(),
	}
}

// List handles GET /api/menu requests.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet, h.logger)
		return
	}

	items, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Invalid request", "Failed to fetch menu items", h.logger)
		return
	}

	writeJSON(w, r, http.StatusOK, items, h.logger)
}

// GetByID handles GET /api/menu/{id} requests.
func (h *MenuHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet, h.logger)
		return
	}

	id := pathID(r.URL.Path, "/api/menu/")
	if id == "" {
		writeError(w, r, http.StatusNotFound, model.ErrorResponse{Message: model.ErrMenuItemNotFound.Message}, h.logger)
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Invalid request", "Failed to fetch menu item", h.logger)
		return
	}

	writeJSON(w, r, http.StatusOK, item, h.logger)
}
