package usecase

import (
	"context"

	"go.uber.org/zap"

	"comptoir/internal/config"
	"comptoir/internal/domain"
	"comptoir/internal/dto"
	"comptoir/internal/invoice"
)

type ProformaRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Proforma, error)
	List(ctx context.Context, offset, limit int) ([]domain.Proforma, int, error)
}

type ProformaItemRepository interface {
	FindByProformaID(ctx context.Context, proformaID uint) ([]domain.ProformaItem, error)
}

type GetProformaUseCase struct {
	proformaRepo     ProformaRepository
	proformaItemRepo ProformaItemRepository
	customerRepo     CustomerRepository
	issuer           config.IssuerConfig
	logger           *zap.Logger
}

func NewGetProformaUseCase(
	proformaRepo ProformaRepository,
	proformaItemRepo ProformaItemRepository,
	customerRepo CustomerRepository,
	issuer config.IssuerConfig,
	logger *zap.Logger,
) *GetProformaUseCase {
	return &GetProformaUseCase{
		proformaRepo:     proformaRepo,
		proformaItemRepo: proformaItemRepo,
		customerRepo:     customerRepo,
		issuer:           issuer,
		logger:           logger,
	}
}

func (uc *GetProformaUseCase) GetProforma(ctx context.Context, id uint) (*dto.ProformaDTO, error) {
	proforma, err := uc.proformaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := uc.proformaItemRepo.FindByProformaID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toProformaDTO(*proforma, items), nil
}

func (uc *GetProformaUseCase) ListProformas(ctx context.Context, page, limit int) (*dto.ProformaListResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}

	proformas, total, err := uc.proformaRepo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	proformaDTOs := make([]dto.ProformaDTO, 0, len(proformas))
	for _, p := range proformas {
		// List views show totals only; items load on the detail view.
		proformaDTOs = append(proformaDTOs, *toProformaDTO(p, nil))
	}

	return &dto.ProformaListResponse{
		Proformas: proformaDTOs,
		Total:     total,
		Page:      page,
		Limit:     limit,
	}, nil
}

// BuildDocument renders the quote as a printable proforma invoice. The date
// on the document is the quote's creation time, so rendering is reproducible.
func (uc *GetProformaUseCase) BuildDocument(ctx context.Context, id uint, format invoice.Format) (string, error) {
	proforma, err := uc.proformaRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	items, err := uc.proformaItemRepo.FindByProformaID(ctx, id)
	if err != nil {
		return "", err
	}

	customer, err := uc.customerRepo.FindByID(ctx, proforma.CustomerID)
	if err != nil {
		return "", err
	}

	lines := make([]invoice.Line, len(items))
	for i, item := range items {
		lines[i] = invoice.Line{
			Quantity:    item.Quantity,
			Designation: item.Designation,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}

	party := invoice.Party{Name: customer.Name}
	if customer.Phone != nil {
		party.Phone = *customer.Phone
	}
	if customer.Address != nil {
		party.Address = *customer.Address
	}

	return invoice.Build(invoice.Document{
		Kind:   invoice.KindProforma,
		Number: proforma.Number,
		Date:   proforma.CreatedAt,
		Issuer: invoice.Issuer{
			Name:    uc.issuer.Name,
			Address: uc.issuer.Address,
			Phone:   uc.issuer.Phone,
			Email:   uc.issuer.Email,
		},
		Customer:      party,
		Lines:         lines,
		Totals:        proformaTotals(*proforma),
		PaymentMethod: proforma.PaymentMethod,
		Condition:     proforma.Condition,
		Format:        format,
	})
}
