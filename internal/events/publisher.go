package events

import (
	"time"

	"shopfront/internal/model"
)

// Event topic names and types for order notifications.
const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// Event is the payload published for order lifecycle notifications.
// Downstream consumers (back office, mail) subscribe outside this engine.
type Event struct {
	Type       string            `json:"type"`
	OrderID    string            `json:"orderId"`
	OwnerID    string            `json:"ownerId"`
	Status     model.OrderStatus `json:"status"`
	Previous   model.OrderStatus `json:"previous,omitempty"`
	Total      int64             `json:"total"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// Publisher emits order events. Publishing is fire-and-forget; a failed
// publish never fails the order operation that triggered it.
type Publisher interface {
	OrderCreated(order *model.Order)
	OrderStatusChanged(order *model.Order, previous model.OrderStatus)
}

// Nop discards all events; used when no brokers are configured.
type Nop struct{}

func (Nop) OrderCreated(*model.Order)                          {}
func (Nop) OrderStatusChanged(*model.Order, model.OrderStatus) {}
