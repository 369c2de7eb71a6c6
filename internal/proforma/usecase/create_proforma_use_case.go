package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"comptoir/internal/domain"
	"comptoir/internal/dto"
	apperrors "comptoir/internal/errors"
	"comptoir/internal/pricing"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Customer, error)
}

type ProductCatalog interface {
	FindByReference(ctx context.Context, reference string) (*domain.Product, error)
}

type ProformaStore interface {
	StoreProforma(ctx context.Context, p domain.Proforma, items []domain.ProformaItem) (uint, error)
}

type ProformaFinder interface {
	FindByID(ctx context.Context, id uint) (*domain.Proforma, error)
}

type CreateProformaUseCase struct {
	customerRepo   CustomerRepository
	catalog        ProductCatalog
	store          ProformaStore
	proformaFinder ProformaFinder
	logger         *zap.Logger
}

func NewCreateProformaUseCase(
	customerRepo CustomerRepository,
	catalog ProductCatalog,
	store ProformaStore,
	proformaFinder ProformaFinder,
	logger *zap.Logger,
) *CreateProformaUseCase {
	return &CreateProformaUseCase{
		customerRepo:   customerRepo,
		catalog:        catalog,
		store:          store,
		proformaFinder: proformaFinder,
		logger:         logger,
	}
}

// CreateProforma prices a quote with current catalog prices and stores it.
// No stock check runs and no stock moves; that happens at conversion.
func (uc *CreateProformaUseCase) CreateProforma(ctx context.Context, req dto.CreateProformaRequest) (*dto.ProformaDTO, error) {
	uc.logger.Info("create proforma started",
		zap.Int("customerId", req.CustomerID), zap.Int("itemCount", len(req.Items)))

	if _, err := uc.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	lineItems, err := uc.enrichLineItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	spec := toDiscountSpec(req.Discount)
	totals := pricing.ComputeTotals(lineItems, spec, 0)

	proforma := domain.Proforma{
		Number:         newDocumentNumber("PRO"),
		CustomerID:     req.CustomerID,
		Subtotal:       totals.Subtotal,
		DiscountKind:   string(spec.Kind),
		DiscountValue:  spec.Value,
		DiscountAmount: totals.DiscountAmount,
		NetAmount:      totals.NetAmount,
		PaymentMethod:  req.PaymentMethod,
		Condition:      req.Condition,
		Status:         domain.ProformaStatusDraft,
	}

	items := make([]domain.ProformaItem, len(lineItems))
	for i, li := range lineItems {
		items[i] = domain.ProformaItem{
			Reference:   li.Reference,
			Designation: li.Designation,
			UnitPrice:   li.UnitPrice,
			Quantity:    li.RequestedQuantity,
			Amount:      li.Amount,
		}
	}

	proformaID, err := uc.store.StoreProforma(ctx, proforma, items)
	if err != nil {
		return nil, err
	}

	stored, err := uc.proformaFinder.FindByID(ctx, proformaID)
	if err != nil {
		return nil, err
	}

	return toProformaDTO(*stored, items), nil
}

func (uc *CreateProformaUseCase) enrichLineItems(ctx context.Context, items []dto.SaleItemRequest) ([]domain.LineItem, error) {
	lineItems := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		product, err := uc.catalog.FindByReference(ctx, strings.ToUpper(strings.TrimSpace(item.Reference)))
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, apperrors.NewConflictError(
				fmt.Sprintf("product %s is not active", product.Reference))
		}

		lineItems = append(lineItems, domain.NewLineItem(
			product.Reference, product.Designation, product.UnitPrice,
			product.AvailableStock(), item.Quantity,
		))
	}
	return lineItems, nil
}

func toDiscountSpec(req *dto.DiscountRequest) pricing.DiscountSpec {
	if req == nil {
		return pricing.DiscountSpec{}
	}
	return pricing.DiscountSpec{
		Kind:  pricing.DiscountKind(req.Kind),
		Value: req.Value.Float64(),
	}
}

func newDocumentNumber(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}

func toProformaDTO(p domain.Proforma, items []domain.ProformaItem) *dto.ProformaDTO {
	itemDTOs := make([]dto.SaleItemDTO, len(items))
	for i, item := range items {
		itemDTOs[i] = dto.SaleItemDTO{
			Reference:   item.Reference,
			Designation: item.Designation,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Amount:      item.Amount,
		}
	}

	return &dto.ProformaDTO{
		ID:              p.ID,
		Number:          p.Number,
		CustomerID:      p.CustomerID,
		Items:           itemDTOs,
		Totals:          proformaTotals(p),
		PaymentMethod:   p.PaymentMethod,
		Condition:       p.Condition,
		Status:          p.Status,
		ConvertedSaleID: p.ConvertedSaleID,
		CreatedAt:       p.CreatedAt,
	}
}

// proformaTotals maps a quote to the shared totals shape. Nothing is paid on
// a quote, so the full net amount remains due.
func proformaTotals(p domain.Proforma) pricing.OrderTotals {
	return pricing.OrderTotals{
		Subtotal:        p.Subtotal,
		DiscountAmount:  p.DiscountAmount,
		NetAmount:       p.NetAmount,
		RemainingAmount: p.NetAmount,
	}
}
