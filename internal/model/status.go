package model

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// validNext maps each status to the set of states reachable from it.
// The happy path is forward-only; cancellation is reachable from any
// non-terminal state. Delivered and cancelled are terminal.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:    {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return len(validNext[s]) == 0
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}
