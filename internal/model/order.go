package model

import "time"

// PriceBreakdown is derived from the current cart lines; it is never trusted
// from client input. All amounts are integer minor currency units.
type PriceBreakdown struct {
	Subtotal int64 `json:"subtotal" bson:"subtotal"`
	Shipping int64 `json:"shipping" bson:"shipping"`
	Discount int64 `json:"discount" bson:"discount"`
	Total    int64 `json:"total" bson:"total"`
}

// Address is the shipping destination for an order.
type Address struct {
	Name       string `json:"name" bson:"name"`
	Street     string `json:"street" bson:"street"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postalCode" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`
}

// Complete reports whether all required shipping fields are populated.
func (a Address) Complete() bool {
	return a.Name != "" && a.Street != "" && a.City != "" && a.PostalCode != "" && a.Country != ""
}

// OrderLine is a deep copy of a cart line frozen at order time. The unit
// price never changes after placement, independent of later catalogue edits.
type OrderLine struct {
	ProductID string `json:"productId" bson:"product_id"`
	Name      string `json:"name" bson:"name"`
	UnitPrice int64  `json:"unitPrice" bson:"unit_price"`
	ImageRef  string `json:"imageRef,omitempty" bson:"image_ref,omitempty"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// Order is an immutable snapshot created from a cart at placement time.
// Only Status and UpdatedAt change after creation.
type Order struct {
	ID            string         `json:"id" bson:"order_id"`
	OwnerID       string         `json:"ownerId" bson:"owner_id"`
	Lines         []OrderLine    `json:"lines" bson:"lines"`
	Address       Address        `json:"shippingAddress" bson:"shipping_address"`
	PaymentMethod string         `json:"paymentMethod" bson:"payment_method"`
	CouponCode    string         `json:"couponCode,omitempty" bson:"coupon_code,omitempty"`
	Breakdown     PriceBreakdown `json:"breakdown" bson:"breakdown"`
	Status        OrderStatus    `json:"status" bson:"status"`
	CartVersion   int64          `json:"-" bson:"cart_version"`
	CreatedAt     time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" bson:"updated_at"`
}
