package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"comptoir/internal/domain"
	"comptoir/internal/dto"
	apperrors "comptoir/internal/errors"
	"comptoir/internal/pricing"
	"comptoir/internal/stock"
)

type StockChecker interface {
	Validate(ctx context.Context, items []domain.LineItem) *stock.Report
}

type SaleCommitter interface {
	CommitSale(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error)
}

type SaleFinder interface {
	FindByID(ctx context.Context, id uint) (*domain.Sale, error)
}

type ProformaConverter interface {
	FindByID(ctx context.Context, id uint) (*domain.Proforma, error)
	MarkConverted(ctx context.Context, id, saleID uint) error
}

type ConvertProformaUseCase struct {
	proformaRepo     ProformaConverter
	proformaItemRepo ProformaItemRepository
	stockChecker     StockChecker
	committer        SaleCommitter
	saleFinder       SaleFinder
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewConvertProformaUseCase(
	proformaRepo ProformaConverter,
	proformaItemRepo ProformaItemRepository,
	stockChecker StockChecker,
	committer SaleCommitter,
	saleFinder SaleFinder,
	logger *zap.Logger,
	maxRetryAttempts int,
) *ConvertProformaUseCase {
	return &ConvertProformaUseCase{
		proformaRepo:     proformaRepo,
		proformaItemRepo: proformaItemRepo,
		stockChecker:     stockChecker,
		committer:        committer,
		saleFinder:       saleFinder,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

// ConvertProforma commits the quote as a sale. Prices and designations stored
// on the quote are honored even if the catalog has changed since; only the
// stock check runs against current inventory. A proforma converts once.
func (uc *ConvertProformaUseCase) ConvertProforma(ctx context.Context, id uint, req dto.ConvertProformaRequest) (*dto.CreateSaleResult, error) {
	proforma, err := uc.proformaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if proforma.Status != domain.ProformaStatusDraft {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("proforma %s is already converted", proforma.Number))
	}

	items, err := uc.proformaItemRepo.FindByProformaID(ctx, id)
	if err != nil {
		return nil, err
	}

	lineItems := make([]domain.LineItem, len(items))
	for i, item := range items {
		lineItems[i] = domain.NewLineItem(
			item.Reference, item.Designation, item.UnitPrice, 0, item.Quantity)
	}

	spec := pricing.DiscountSpec{
		Kind:  pricing.DiscountKind(proforma.DiscountKind),
		Value: proforma.DiscountValue,
	}
	totals := pricing.ComputeTotals(lineItems, spec, req.PaidAmount.Float64())

	report := uc.stockChecker.Validate(ctx, lineItems)
	if !report.Valid && !req.Force {
		uc.logger.Warn("conversion blocked by stock check",
			zap.String("number", proforma.Number), zap.Int("itemCount", len(lineItems)))
		return &dto.CreateSaleResult{Blocked: true, StockReport: report}, nil
	}

	// Lock products in a stable order across concurrent commits.
	sort.Slice(lineItems, func(i, j int) bool { return lineItems[i].Reference < lineItems[j].Reference })

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = proforma.PaymentMethod
	}

	sale := domain.Sale{
		Number:          newDocumentNumber("VTE"),
		CustomerID:      proforma.CustomerID,
		Subtotal:        totals.Subtotal,
		DiscountKind:    proforma.DiscountKind,
		DiscountValue:   proforma.DiscountValue,
		DiscountAmount:  totals.DiscountAmount,
		NetAmount:       totals.NetAmount,
		PaidAmount:      totals.PaidAmount,
		ChangeAmount:    totals.ChangeAmount,
		RemainingAmount: totals.RemainingAmount,
		PaymentMethod:   paymentMethod,
		Condition:       proforma.Condition,
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

	if err := uc.proformaRepo.MarkConverted(ctx, id, saleID); err != nil {
		// The sale is committed; surface the inconsistency loudly.
		uc.logger.Error("sale committed but proforma not marked converted",
			zap.Uint("proformaId", id), zap.Uint("saleId", saleID), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("proforma converted",
		zap.Uint("proformaId", id), zap.Uint("saleId", saleID),
		zap.String("proformaNumber", proforma.Number), zap.String("saleNumber", sale.Number))

	committed, err := uc.saleFinder.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	result := &dto.CreateSaleResult{
		Sale: toConvertedSaleDTO(*committed, saleItems),
	}
	if !report.Valid {
		result.StockReport = report
	}
	return result, nil
}

func (uc *ConvertProformaUseCase) commitWithRetry(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
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

func toConvertedSaleDTO(sale domain.Sale, items []domain.SaleItem) *dto.SaleDTO {
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
		ID:         sale.ID,
		Number:     sale.Number,
		CustomerID: sale.CustomerID,
		Items:      itemDTOs,
		Totals: pricing.OrderTotals{
			Subtotal:        sale.Subtotal,
			DiscountAmount:  sale.DiscountAmount,
			NetAmount:       sale.NetAmount,
			PaidAmount:      sale.PaidAmount,
			ChangeAmount:    sale.ChangeAmount,
			RemainingAmount: sale.RemainingAmount,
		},
		PaymentMethod: sale.PaymentMethod,
		Condition:     sale.Condition,
		Status:        sale.Status,
		CreatedAt:     sale.CreatedAt,
	}
}
