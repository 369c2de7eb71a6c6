package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"comptoir/internal/domain"
	"comptoir/internal/dto"
	apperrors "comptoir/internal/errors"
	"comptoir/internal/pricing"
	"comptoir/internal/stock"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Customer, error)
}

type ProductCatalog interface {
	FindByReference(ctx context.Context, reference string) (*domain.Product, error)
}

type StockChecker interface {
	Validate(ctx context.Context, items []domain.LineItem) *stock.Report
}

type SaleCommitter interface {
	CommitSale(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error)
}

type SaleFinder interface {
	FindByID(ctx context.Context, id uint) (*domain.Sale, error)
}

type CreateSaleUseCase struct {
	customerRepo     CustomerRepository
	catalog          ProductCatalog
	stockChecker     StockChecker
	committer        SaleCommitter
	saleFinder       SaleFinder
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewCreateSaleUseCase(
	customerRepo CustomerRepository,
	catalog ProductCatalog,
	stockChecker StockChecker,
	committer SaleCommitter,
	saleFinder SaleFinder,
	logger *zap.Logger,
	maxRetryAttempts int,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		customerRepo:     customerRepo,
		catalog:          catalog,
		stockChecker:     stockChecker,
		committer:        committer,
		saleFinder:       saleFinder,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

// CreateSale prices and commits an order. Prices and designations come from
// the catalog at submission time; the client only names references and
// quantities. A failed stock check blocks the sale unless the request forces
// it through (back order).
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.CreateSaleResult, error) {
	uc.logger.Info("create sale started",
		zap.Int("customerId", req.CustomerID), zap.Int("itemCount", len(req.Items)))

	if _, err := uc.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	lineItems, err := uc.enrichLineItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	spec := toDiscountSpec(req.Discount)
	totals := pricing.ComputeTotals(lineItems, spec, req.PaidAmount.Float64())

	report := uc.stockChecker.Validate(ctx, lineItems)
	if !report.Valid && !req.Force {
		uc.logger.Warn("sale blocked by stock check",
			zap.Int("customerId", req.CustomerID), zap.Int("itemCount", len(lineItems)))
		return &dto.CreateSaleResult{Blocked: true, StockReport: report}, nil
	}

	// Lock products in a stable order across concurrent commits.
	sort.Slice(lineItems, func(i, j int) bool { return lineItems[i].Reference < lineItems[j].Reference })

	sale := domain.Sale{
		Number:          newDocumentNumber("VTE"),
		CustomerID:      req.CustomerID,
		Subtotal:        totals.Subtotal,
		DiscountKind:    string(spec.Kind),
		DiscountValue:   spec.Value,
		DiscountAmount:  totals.DiscountAmount,
		NetAmount:       totals.NetAmount,
		PaidAmount:      totals.PaidAmount,
		ChangeAmount:    totals.ChangeAmount,
		RemainingAmount: totals.RemainingAmount,
		PaymentMethod:   req.PaymentMethod,
		Condition:       req.Condition,
		Status:          domain.SaleStatusCompleted,
	}

	saleItems := make([]domain.SaleItem, len(lineItems))
	for i, li := range lineItems {
		saleItems[i] = domain.SaleItem{
			Reference:   li.Reference,
			Designation: li.Designation,
			UnitPrice:   li.UnitPrice,
			Quantity:    li.RequestedQuantity,
			Amount:      li.Amount,
		}
	}

	saleID, err := uc.commitWithRetry(ctx, sale, saleItems)
	if err != nil {
		return nil, err
	}

	committed, err := uc.saleFinder.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	result := &dto.CreateSaleResult{
		Sale: toSaleDTO(*committed, saleItems),
	}
	if !report.Valid {
		// Forced through a failed check: return the report so the caller
		// sees what was over-committed.
		result.StockReport = report
	}
	return result, nil
}

func (uc *CreateSaleUseCase) enrichLineItems(ctx context.Context, items []dto.SaleItemRequest) ([]domain.LineItem, error) {
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

func (uc *CreateSaleUseCase) commitWithRetry(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
	maxAttempts := uc.maxRetryAttempts
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		saleID, err := uc.committer.CommitSale(ctx, sale, items)
		if err == nil {
			return saleID, nil
		}

		if isDeadlockError(err) {
			if attempt < maxAttempts {
				backoff := backoffs[min(attempt, len(backoffs))-1]
				jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
				time.Sleep(jitter)
				uc.logger.Warn("deadlock detected, retrying",
					zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts),
					zap.String("number", sale.Number))
				continue
			}
			break
		}

		return 0, err
	}

	return 0, apperrors.NewDeadlockError("max retries exceeded")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
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

func toSaleDTO(sale domain.Sale, items []domain.SaleItem) *dto.SaleDTO {
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

	return &dto.SaleDTO{
		ID:            sale.ID,
		Number:        sale.Number,
		CustomerID:    sale.CustomerID,
		Items:         itemDTOs,
		Totals:        saleTotals(sale),
		PaymentMethod: sale.PaymentMethod,
		Condition:     sale.Condition,
		Status:        sale.Status,
		CreatedAt:     sale.CreatedAt,
	}
}
