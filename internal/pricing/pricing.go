package pricing

import "shopfront/internal/model"

// DiscountPolicy determines the discount for a given subtotal. The returned
// amount is clamped by Compute, so implementations may over-report.
type DiscountPolicy interface {
	Discount(subtotal int64) int64
}

// NoDiscount applies no discount.
type NoDiscount struct{}

func (NoDiscount) Discount(int64) int64 { return 0 }

// ShippingPolicy configures the flat shipping fee and the subtotal at which
// shipping becomes free.
type ShippingPolicy struct {
	FlatFee       int64
	FreeThreshold int64
}

// DefaultShippingPolicy returns the standard storefront shipping policy.
func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		FlatFee:       499,
		FreeThreshold: 5000,
	}
}

// Compute derives a price breakdown from the given cart lines. It is pure:
// identical inputs always yield identical output. All arithmetic is integer
// minor currency units.
//
// The discount is clamped to [0, subtotal], which also guarantees the total
// is never negative. Compute is called both for cart summaries and again,
// authoritatively, at order placement; client-supplied breakdowns are never
// trusted.
func Compute(lines []model.CartLine, discount DiscountPolicy, shipping ShippingPolicy) model.PriceBreakdown {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.UnitPrice * int64(line.Quantity)
	}

	var fee int64
	if subtotal < shipping.FreeThreshold {
		fee = shipping.FlatFee
	}

	var d int64
	if discount != nil {
		d = discount.Discount(subtotal)
	}
	if d < 0 {
		d = 0
	}
	if d > subtotal {
		d = subtotal
	}

	return model.PriceBreakdown{
		Subtotal: subtotal,
		Shipping: fee,
		Discount: d,
		Total:    subtotal + fee - d,
	}
}
