package pricing

import (
	"math"

	"comptoir/internal/domain"
)

// OrderTotals is derived state: recompute it from the line items whenever any
// input changes, never patch individual fields.
type OrderTotals struct {
	Subtotal        float64 `json:"subtotal"`
	DiscountAmount  float64 `json:"discountAmount"`
	NetAmount       float64 `json:"netAmount"`
	PaidAmount      float64 `json:"paidAmount"`
	ChangeAmount    float64 `json:"changeAmount"`
	RemainingAmount float64 `json:"remainingAmount"`
}

// ComputeTotals derives the full totals block for an order. Change and
// remaining are mutually exclusive by construction: at most one of them is
// nonzero, both are zero when paid equals net.
func ComputeTotals(items []domain.LineItem, spec DiscountSpec, paid float64) OrderTotals {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Amount
	}

	discount := ComputeDiscount(subtotal, spec)
	net := math.Max(0, subtotal-discount)
	paid = math.Max(0, paid)

	return OrderTotals{
		Subtotal:        subtotal,
		DiscountAmount:  discount,
		NetAmount:       net,
		PaidAmount:      paid,
		ChangeAmount:    math.Max(0, paid-net),
		RemainingAmount: math.Max(0, net-paid),
	}
}
