package dto

import (
	"time"

	"comptoir/internal/pricing"
)

type CreateProformaRequest struct {
	CustomerID    int               `json:"customerId"`
	Items         []SaleItemRequest `json:"items"`
	Discount      *DiscountRequest  `json:"discount"`
	PaymentMethod string            `json:"paymentMethod"`
	Condition     string            `json:"condition"`
}

type ProformaDTO struct {
	ID              uint                `json:"id"`
	Number          string              `json:"number"`
	CustomerID      int                 `json:"customerId"`
	Items           []SaleItemDTO       `json:"items"`
	Totals          pricing.OrderTotals `json:"totals"`
	PaymentMethod   string              `json:"paymentMethod"`
	Condition       string              `json:"condition"`
	Status          string              `json:"status"`
	ConvertedSaleID *uint               `json:"convertedSaleId,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

type ProformaListResponse struct {
	Proformas []ProformaDTO `json:"proformas"`
	Total     int           `json:"total"`
	Page      int           `json:"page"`
	Limit     int           `json:"limit"`
}

// ConvertProformaRequest turns a quote into a sale. Stored quote prices are
// honored; only payment details are supplied at conversion time.
type ConvertProformaRequest struct {
	PaidAmount    pricing.Amount `json:"paidAmount"`
	PaymentMethod string         `json:"paymentMethod"`
	Force         bool           `json:"force"`
}
