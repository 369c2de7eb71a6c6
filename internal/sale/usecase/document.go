package usecase

import (
	"comptoir/internal/config"
	"comptoir/internal/domain"
	"comptoir/internal/invoice"
	"comptoir/internal/pricing"
)

func issuerParty(cfg config.IssuerConfig) invoice.Issuer {
	return invoice.Issuer{
		Name:    cfg.Name,
		Address: cfg.Address,
		Phone:   cfg.Phone,
		Email:   cfg.Email,
	}
}

func customerParty(c domain.Customer) invoice.Party {
	party := invoice.Party{Name: c.Name}
	if c.Phone != nil {
		party.Phone = *c.Phone
	}
	if c.Address != nil {
		party.Address = *c.Address
	}
	return party
}

func documentLines(items []domain.SaleItem) []invoice.Line {
	lines := make([]invoice.Line, len(items))
	for i, item := range items {
		lines[i] = invoice.Line{
			Quantity:    item.Quantity,
			Designation: item.Designation,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return lines
}

func saleTotals(sale domain.Sale) pricing.OrderTotals {
	return pricing.OrderTotals{
		Subtotal:        sale.Subtotal,
		DiscountAmount:  sale.DiscountAmount,
		NetAmount:       sale.NetAmount,
		PaidAmount:      sale.PaidAmount,
		ChangeAmount:    sale.ChangeAmount,
		RemainingAmount: sale.RemainingAmount,
	}
}
