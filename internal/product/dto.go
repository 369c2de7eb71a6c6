package product

import "comptoir/internal/pricing"

type ProductRequest struct {
	Reference   string         `json:"reference"`
	Designation string         `json:"designation"`
	Description string         `json:"description"`
	UnitPrice   pricing.Amount `json:"unitPrice"`
	Quantity    int            `json:"quantity"`
	CategoryID  *int           `json:"categoryId"`
	IsActive    *bool          `json:"isActive"`
}

type ProductDTO struct {
	ID             int     `json:"id"`
	Reference      string  `json:"reference"`
	Designation    string  `json:"designation"`
	Description    string  `json:"description"`
	UnitPrice      float64 `json:"unitPrice"`
	Quantity       int     `json:"quantity"`
	AvailableStock int     `json:"availableStock"`
	CategoryID     *int    `json:"categoryId"`
	IsActive       bool    `json:"isActive"`
}

type ListResponse struct {
	Products []ProductDTO `json:"products"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	Limit    int          `json:"limit"`
}
