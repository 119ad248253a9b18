package coupon

import (
	"context"

	"shopfront/internal/model"
	"shopfront/internal/pricing"
)

// Type distinguishes flat-amount coupons from percentage coupons.
type Type string

const (
	TypeFlat    Type = "flat"
	TypePercent Type = "percent"
)

// Coupon is a single discount code. Value is minor currency units for flat
// coupons and a whole percentage (0-100) for percentage coupons. A coupon
// only applies when the cart subtotal reaches MinSubtotal.
type Coupon struct {
	Code        string `json:"code"`
	Type        Type   `json:"type"`
	Value       int64  `json:"value"`
	MinSubtotal int64  `json:"minSubtotal,omitempty"`
}

// Discount implements pricing.DiscountPolicy. The result is advisory; the
// pricing computation clamps it to the subtotal.
func (c Coupon) Discount(subtotal int64) int64 {
	if subtotal < c.MinSubtotal {
		return 0
	}
	switch c.Type {
	case TypePercent:
		return subtotal * c.Value / 100
	case TypeFlat:
		return c.Value
	default:
		return 0
	}
}

// Table holds the loaded coupon codes for O(1) lookups.
// Read-only after initialisation, so no mutex is needed.
type Table struct {
	coupons map[string]Coupon
}

// NewTable creates a coupon table from the given coupons. Later duplicates
// of a code win.
func NewTable(coupons []Coupon) *Table {
	t := &Table{coupons: make(map[string]Coupon, len(coupons))}
	for _, c := range coupons {
		t.coupons[c.Code] = c
	}
	return t
}

// Lookup returns the coupon registered under code.
func (t *Table) Lookup(code string) (Coupon, bool) {
	c, ok := t.coupons[code]
	return c, ok
}

// Size returns the number of loaded coupons.
func (t *Table) Size() int {
	return len(t.coupons)
}

// Policy resolves a coupon code into a discount policy. An empty code means
// no discount; an unknown code fails with the invalid-coupon domain error.
func (t *Table) Policy(code string) (pricing.DiscountPolicy, error) {
	if code == "" {
		return pricing.NoDiscount{}, nil
	}
	c, ok := t.Lookup(code)
	if !ok {
		return nil, model.ErrInvalidCoupon
	}
	return c, nil
}

// Loader loads a coupon table from a backing location.
type Loader interface {
	Load(ctx context.Context, path string) (*Table, error)
}
