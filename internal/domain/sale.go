package domain

import "time"

type Sale struct {
	ID              uint
	Number          string
	CustomerID      int
	Subtotal        float64
	DiscountKind    string
	DiscountValue   float64
	DiscountAmount  float64
	NetAmount       float64
	PaidAmount      float64
	ChangeAmount    float64
	RemainingAmount float64
	PaymentMethod   string
	Condition       string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const (
	SaleStatusCompleted = "COMPLETED"
	SaleStatusCanceled  = "CANCELED"
)

type SaleItem struct {
	ID          uint
	SaleID      uint
	Reference   string
	Designation string
	UnitPrice   float64
	Quantity    int
	Amount      float64
}
