package pricing

import "math"

type DiscountKind string

const (
	DiscountPercent  DiscountKind = "PERCENT"
	DiscountAbsolute DiscountKind = "ABSOLUTE"
)

type DiscountSpec struct {
	Kind  DiscountKind `json:"kind"`
	Value float64      `json:"value"`
}

// ComputeDiscount applies a discount to a subtotal. Absolute discounts are
// capped at the subtotal. Percent values above 100 are accepted at this
// layer; the net-amount clamp in ComputeTotals keeps the result from going
// negative downstream.
func ComputeDiscount(subtotal float64, spec DiscountSpec) float64 {
	value := math.Max(0, spec.Value)

	switch spec.Kind {
	case DiscountPercent:
		return subtotal * value / 100
	case DiscountAbsolute:
		return math.Min(value, subtotal)
	default:
		return 0
	}
}
