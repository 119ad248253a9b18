package handler

import (
	"net/http"

	"shopfront/internal/middleware"
	"shopfront/internal/wishlist"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// WishlistHandler handles wishlist-related HTTP requests.
type WishlistHandler struct {
	service wishlist.Service
	logger  zerolog.Logger
}

// NewWishlistHandler creates a new wishlist handler.
func NewWishlistHandler(service wishlist.Service, logger zerolog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: service,
		logger:  logger.With().Str("handler", "wishlist").Logger(),
	}
}

// toggleResponse reports which way a toggle went.
type toggleResponse struct {
	Action string `json:"action"`
}

// Get handles GET /api/wishlist requests.
func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.FromContext(r.Context())

	list, err := h.service.Get(r.Context(), id.OwnerID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Toggle handles POST /api/wishlist/{productID}/toggle requests.
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.FromContext(r.Context())

	action, err := h.service.Toggle(r.Context(), id.OwnerID, chi.URLParam(r, "productID"))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Action: string(action)})
}
