package dto

import (
	"time"

	"comptoir/internal/pricing"
	"comptoir/internal/stock"
)

type SaleItemRequest struct {
	Reference string `json:"reference"`
	Quantity  int    `json:"quantity"`
}

type DiscountRequest struct {
	Kind  string         `json:"kind"`
	Value pricing.Amount `json:"value"`
}

// CreateSaleRequest submits an order. Items carry only reference and
// quantity: unit prices come from the catalog at submission time, never from
// the client. Force accepts an order despite a failed stock check, which is
// the back-order policy, not an error path.
type CreateSaleRequest struct {
	CustomerID    int               `json:"customerId"`
	Items         []SaleItemRequest `json:"items"`
	Discount      *DiscountRequest  `json:"discount"`
	PaidAmount    pricing.Amount    `json:"paidAmount"`
	PaymentMethod string            `json:"paymentMethod"`
	Condition     string            `json:"condition"`
	Force         bool              `json:"force"`
}

type SaleItemDTO struct {
	Reference   string  `json:"reference"`
	Designation string  `json:"designation"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	Amount      float64 `json:"amount"`
}

type SaleDTO struct {
	ID            uint                `json:"id"`
	Number        string              `json:"number"`
	CustomerID    int                 `json:"customerId"`
	Items         []SaleItemDTO       `json:"items"`
	Totals        pricing.OrderTotals `json:"totals"`
	PaymentMethod string              `json:"paymentMethod"`
	Condition     string              `json:"condition"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// CreateSaleResult is what the create flow hands back to the controller.
// Blocked means the stock check failed and the caller did not force: nothing
// was committed and Sale is nil.
type CreateSaleResult struct {
	Sale        *SaleDTO      `json:"sale,omitempty"`
	StockReport *stock.Report `json:"stockReport,omitempty"`
	Blocked     bool          `json:"blocked"`
}

type SaleListResponse struct {
	Sales []SaleDTO `json:"sales"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

type ValidateStockRequest struct {
	Items []SaleItemRequest `json:"items"`
}
