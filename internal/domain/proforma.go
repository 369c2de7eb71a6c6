package domain

import "time"

// Proforma is a non-binding quote. It shares the sale pricing rules but never
// touches stock; conversion produces the actual sale.
type Proforma struct {
	ID              uint
	Number          string
	CustomerID      int
	Subtotal        float64
	DiscountKind    string
	DiscountValue   float64
	DiscountAmount  float64
	NetAmount       float64
	PaymentMethod   string
	Condition       string
	Status          string
	ConvertedSaleID *uint
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const (
	ProformaStatusDraft     = "DRAFT"
	ProformaStatusConverted = "CONVERTED"
)

type ProformaItem struct {
	ID          uint
	ProformaID  uint
	Reference   string
	Designation string
	UnitPrice   float64
	Quantity    int
	Amount      float64
}
