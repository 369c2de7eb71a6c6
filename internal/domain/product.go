package domain

import "time"

type Product struct {
	ID          int
	Reference   string
	Designation string
	Description string
	UnitPrice   float64
	Quantity    int
	CategoryID  *int
	IsActive    bool
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Product) AvailableStock() int {
	if p.Quantity < 0 {
		return 0
	}
	return p.Quantity
}
