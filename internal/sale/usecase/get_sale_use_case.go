package usecase

import (
	"context"

	"go.uber.org/zap"

	"comptoir/internal/config"
	"comptoir/internal/domain"
	"comptoir/internal/dto"
	"comptoir/internal/invoice"
)

type SaleRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Sale, error)
	List(ctx context.Context, offset, limit int) ([]domain.Sale, int, error)
}

type SaleItemRepository interface {
	FindBySaleID(ctx context.Context, saleID uint) ([]domain.SaleItem, error)
}

type GetSaleUseCase struct {
	saleRepo     SaleRepository
	saleItemRepo SaleItemRepository
	customerRepo CustomerRepository
	issuer       config.IssuerConfig
	logger       *zap.Logger
}

func NewGetSaleUseCase(
	saleRepo SaleRepository,
	saleItemRepo SaleItemRepository,
	customerRepo CustomerRepository,
	issuer config.IssuerConfig,
	logger *zap.Logger,
) *GetSaleUseCase {
	return &GetSaleUseCase{
		saleRepo:     saleRepo,
		saleItemRepo: saleItemRepo,
		customerRepo: customerRepo,
		issuer:       issuer,
		logger:       logger,
	}
}

func (uc *GetSaleUseCase) GetSale(ctx context.Context, id uint) (*dto.SaleDTO, error) {
	sale, err := uc.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := uc.saleItemRepo.FindBySaleID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toSaleDTO(*sale, items), nil
}

func (uc *GetSaleUseCase) ListSales(ctx context.Context, page, limit int) (*dto.SaleListResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}

	sales, total, err := uc.saleRepo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	saleDTOs := make([]dto.SaleDTO, 0, len(sales))
	for _, sale := range sales {
		// List views show totals only; items load on the detail view.
		saleDTOs = append(saleDTOs, *toSaleDTO(sale, nil))
	}

	return &dto.SaleListResponse{
		Sales: saleDTOs,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// BuildDocument renders a committed sale as a printable document. The date
// on the document is the sale's commit time, so rendering is reproducible.
func (uc *GetSaleUseCase) BuildDocument(ctx context.Context, id uint, format invoice.Format) (string, error) {
	sale, err := uc.saleRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	items, err := uc.saleItemRepo.FindBySaleID(ctx, id)
	if err != nil {
		return "", err
	}

	customer, err := uc.customerRepo.FindByID(ctx, sale.CustomerID)
	if err != nil {
		return "", err
	}

	return invoice.Build(invoice.Document{
		Kind:          invoice.KindInvoice,
		Number:        sale.Number,
		Date:          sale.CreatedAt,
		Issuer:        issuerParty(uc.issuer),
		Customer:      customerParty(*customer),
		Lines:         documentLines(items),
		Totals:        saleTotals(*sale),
		PaymentMethod: sale.PaymentMethod,
		Condition:     sale.Condition,
		Format:        format,
	})
}
