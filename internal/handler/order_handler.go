package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"shopfront/internal/middleware"
	"shopfront/internal/model"
	"shopfront/internal/order"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service order.Service
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service order.Service, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// createOrderRequest is the payload for POST /api/orders. Totals are never
// accepted from the client; the breakdown is recomputed from the cart.
type createOrderRequest struct {
	ShippingAddress model.Address `json:"shippingAddress"`
	PaymentMethod   string        `json:"paymentMethod"`
	CouponCode      string        `json:"couponCode,omitempty"`
}

// updateStatusRequest is the payload for PATCH /api/orders/{id}/status.
type updateStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.FromContext(r.Context())

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	placed, err := h.service.PlaceOrder(r.Context(), order.PlaceOrderInput{
		OwnerID:       id.OwnerID,
		Address:       req.ShippingAddress,
		PaymentMethod: req.PaymentMethod,
		CouponCode:    req.CouponCode,
	})
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, placed)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.FromContext(r.Context())

	found, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	// Customers only see their own orders; back-office admins see all.
	if found.OwnerID != id.OwnerID && id.Role != "admin" {
		writeError(w, http.StatusForbidden, model.ErrCodeUnauthorised, model.ErrUnauthorised.Message, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// List handles GET /api/orders requests, returning the caller's order
// history newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.FromContext(r.Context())

	limit, offset, ok := pagination(w, r, h.logger)
	if !ok {
		return
	}

	orders, err := h.service.ListByOwner(r.Context(), id.OwnerID, limit, offset)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// UpdateStatus handles PATCH /api/orders/{id}/status requests (back office).
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidTransition, "unknown order status", h.logger)
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// pagination parses limit and offset query parameters with defaults.
func pagination(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (limit, offset int, ok bool) {
	limit, offset = 10, 0

	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid limit parameter", logger)
			return 0, 0, false
		}
		limit = parsed
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid offset parameter", logger)
			return 0, 0, false
		}
		offset = parsed
	}
	return limit, offset, true
}
