package handler

import (
	"encoding/json"
	"net/http"

	"shopfront/internal/cart"
	"shopfront/internal/catalog"
	"shopfront/internal/middleware"
	"shopfront/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	carts    cart.Service
	products catalog.Service
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts cart.Service, products catalog.Service, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

// addItemRequest is the payload for POST /api/cart/items.
type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// setQuantityRequest is the payload for PUT /api/cart/items/{productID}.
type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// mergeRequest is the payload for POST /api/cart/merge.
type mergeRequest struct {
	SessionID string `json:"sessionId"`
}

// Get handles GET /api/cart requests. An optional coupon query parameter
// applies a discount to the advisory breakdown.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.FromContext(r.Context())

	summary, err := h.carts.Summary(r.Context(), id.OwnerID, r.URL.Query().Get("coupon"))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.FromContext(r.Context())

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	updated, err := h.carts.AddItem(r.Context(), id.OwnerID, id.Anonymous, product, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// SetQuantity handles PUT /api/cart/items/{productID} requests.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.FromContext(r.Context())
	productID := chi.URLParam(r, "productID")

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	updated, err := h.carts.SetQuantity(r.Context(), id.OwnerID, productID, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// RemoveItem handles DELETE /api/cart/items/{productID} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.FromContext(r.Context())

	updated, err := h.carts.RemoveItem(r.Context(), id.OwnerID, chi.URLParam(r, "productID"))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.FromContext(r.Context())

	if err := h.carts.Clear(r.Context(), id.OwnerID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Merge handles POST /api/cart/merge requests, folding the device session
// cart into the authenticated account's cart. Clients call this once after
// login.
func (h *CartHandler) Merge(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.FromContext(r.Context())

	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "sessionId is required", h.logger)
		return
	}

	merged, err := h.carts.Merge(r.Context(), req.SessionID, id.OwnerID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, merged)
}
