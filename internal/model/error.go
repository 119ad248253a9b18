package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeLineNotFound      = "LINE_NOT_FOUND"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeInvalidAddress    = "INVALID_ADDRESS"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeInvalidCoupon     = "INVALID_COUPON"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeStoreUnavailable  = "STORE_UNAVAILABLE"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be at least one")
	ErrLineNotFound      = NewDomainError(ErrCodeLineNotFound, "Product is not in the cart")
	ErrUnauthorised      = NewDomainError(ErrCodeUnauthorised, "Caller does not own this cart or order")
	ErrEmptyCart         = NewDomainError(ErrCodeEmptyCart, "Cannot place an order from an empty cart")
	ErrInvalidAddress    = NewDomainError(ErrCodeInvalidAddress, "Shipping address is missing required fields")
	ErrInvalidTransition = NewDomainError(ErrCodeInvalidTransition, "Order status transition is not allowed")
	ErrInvalidCoupon     = NewDomainError(ErrCodeInvalidCoupon, "Coupon code is not valid for this cart")
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrStoreUnavailable  = NewDomainError(ErrCodeStoreUnavailable, "Document store is unavailable, retry with the same inputs")
)
