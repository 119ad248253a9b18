package model

import "time"

// CartLine is one product instance held by a cart. A cart never carries two
// lines for the same product; repeated adds and merges sum quantities instead.
type CartLine struct {
	ProductID string `json:"productId" bson:"product_id"`
	Name      string `json:"name" bson:"name"`
	UnitPrice int64  `json:"unitPrice" bson:"unit_price"`
	ImageRef  string `json:"imageRef,omitempty" bson:"image_ref,omitempty"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// Cart is owned by exactly one of: an anonymous session or an account.
// Version increments on every persisted write and doubles as the
// idempotency token for order placement.
type Cart struct {
	OwnerID   string     `json:"ownerId" bson:"owner_id"`
	Anonymous bool       `json:"anonymous" bson:"anonymous"`
	Lines     []CartLine `json:"lines" bson:"lines"`
	Version   int64      `json:"version" bson:"version"`
	CreatedAt time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updated_at"`
}

// Line returns the cart line for the given product ID, or nil if absent.
func (c *Cart) Line(productID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// CartSummary pairs a cart with its price breakdown for display.
type CartSummary struct {
	Cart      *Cart          `json:"cart"`
	Breakdown PriceBreakdown `json:"breakdown"`
}
