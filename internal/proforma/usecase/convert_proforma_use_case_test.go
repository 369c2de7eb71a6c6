package usecase

import (
	"context"
	"testing"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"comptoir/internal/domain"
	"comptoir/internal/dto"
	apperrors "comptoir/internal/errors"
	"comptoir/internal/stock"
)

// Mock implementations

type mockProformaConverter struct {
	FindByIDFunc      func(ctx context.Context, id uint) (*domain.Proforma, error)
	MarkConvertedFunc func(ctx context.Context, id, saleID uint) error
}

func (m *mockProformaConverter) FindByID(ctx context.Context, id uint) (*domain.Proforma, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockProformaConverter) MarkConverted(ctx context.Context, id, saleID uint) error {
	return m.MarkConvertedFunc(ctx, id, saleID)
}

type mockProformaItemRepository struct {
	FindByProformaIDFunc func(ctx context.Context, proformaID uint) ([]domain.ProformaItem, error)
}

func (m *mockProformaItemRepository) FindByProformaID(ctx context.Context, proformaID uint) ([]domain.ProformaItem, error) {
	return m.FindByProformaIDFunc(ctx, proformaID)
}

type mockStockChecker struct {
	ValidateFunc func(ctx context.Context, items []domain.LineItem) *stock.Report
}

func (m *mockStockChecker) Validate(ctx context.Context, items []domain.LineItem) *stock.Report {
	return m.ValidateFunc(ctx, items)
}

type mockSaleCommitter struct {
	CommitSaleFunc func(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error)
}

func (m *mockSaleCommitter) CommitSale(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
	return m.CommitSaleFunc(ctx, sale, items)
}

type mockSaleFinder struct {
	FindByIDFunc func(ctx context.Context, id uint) (*domain.Sale, error)
}

func (m *mockSaleFinder) FindByID(ctx context.Context, id uint) (*domain.Sale, error) {
	return m.FindByIDFunc(ctx, id)
}

// Test fixtures

func draftProforma() *domain.Proforma {
	return &domain.Proforma{
		ID:             5,
		Number:         "PRO-ABCD1234",
		CustomerID:     1,
		Subtotal:       2000,
		DiscountKind:   "PERCENT",
		DiscountValue:  10,
		DiscountAmount: 200,
		NetAmount:      1800,
		PaymentMethod:  "CASH",
		Status:         domain.ProformaStatusDraft,
	}
}

func draftProformaItems() []domain.ProformaItem {
	return []domain.ProformaItem{
		{ProformaID: 5, Reference: "SAV-001", Designation: "Savon", UnitPrice: 1000, Quantity: 2, Amount: 2000},
	}
}

func newTestConvertProformaUseCase(
	proformaRepo ProformaConverter,
	proformaItemRepo ProformaItemRepository,
	stockChecker StockChecker,
	committer SaleCommitter,
	saleFinder SaleFinder,
) *ConvertProformaUseCase {
	return NewConvertProformaUseCase(
		proformaRepo,
		proformaItemRepo,
		stockChecker,
		committer,
		saleFinder,
		zap.NewNop(),
		3, // Default max retry attempts
	)
}

func validChecker() *mockStockChecker {
	return &mockStockChecker{
		ValidateFunc: func(ctx context.Context, items []domain.LineItem) *stock.Report {
			return &stock.Report{Valid: true}
		},
	}
}

// Tests

func TestConvertProforma_NotFound(t *testing.T) {
	ctx := context.Background()

	proformaRepo := &mockProformaConverter{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Proforma, error) {
			return nil, apperrors.NewNotFoundError("proforma not found")
		},
	}

	uc := newTestConvertProformaUseCase(proformaRepo, &mockProformaItemRepository{}, &mockStockChecker{}, &mockSaleCommitter{}, &mockSaleFinder{})

	_, err := uc.ConvertProforma(ctx, 99, dto.ConvertProformaRequest{})

	if err == nil {
		t.Errorf("expected error, got nil")
	}

	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}

func TestConvertProforma_AlreadyConverted(t *testing.T) {
	ctx := context.Background()

	saleID := uint(12)
	proformaRepo := &mockProformaConverter{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Proforma, error) {
			p := draftProforma()
			p.Status = domain.ProformaStatusConverted
			p.ConvertedSaleID = &saleID
			return p, nil
		},
	}

	uc := newTestConvertProformaUseCase(proformaRepo, &mockProformaItemRepository{}, &mockStockChecker{}, &mockSaleCommitter{}, &mockSaleFinder{})

	_, err := uc.ConvertProforma(ctx, 5, dto.ConvertProformaRequest{})

	if err == nil {
		t.Errorf("expected error, got nil")
	}

	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError, got %T", err)
	}
}

func TestConvertProforma_HonorsStoredPrices(t *testing.T) {
	ctx := context.Background()

	proformaRepo := &mockProformaConverter{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Proforma, error) {
			return draftProforma(), nil
		},
		MarkConvertedFunc: func(ctx context.Context, id, saleID uint) error {
			return nil
		},
	}

	itemRepo := &mockProformaItemRepository{
		FindByProformaIDFunc: func(ctx context.Context, proformaID uint) ([]domain.ProformaItem, error) {
			return draftProformaItems(), nil
		},
	}

	var committedSale domain.Sale
	var committedItems []domain.SaleItem
	committer := &mockSaleCommitter{
		CommitSaleFunc: func(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
			committedSale = sale
			committedItems = items
			return 12, nil
		},
	}

	saleFinder := &mockSaleFinder{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Sale, error) {
			return &domain.Sale{ID: id, Number: "VTE-TEST0001", Status: domain.SaleStatusCompleted}, nil
		},
	}

	uc := newTestConvertProformaUseCase(proformaRepo, itemRepo, validChecker(), committer, saleFinder)

	result, err := uc.ConvertProforma(ctx, 5, dto.ConvertProformaRequest{PaidAmount: 1800, PaymentMethod: "CARD"})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Blocked {
		t.Errorf("expected conversion not blocked")
	}

	// Quote prices stand: 2*1000 subtotal, 10% off, 1800 net, fully paid.
	if committedSale.Subtotal != 2000 {
		t.Errorf("expected subtotal 2000, got %f", committedSale.Subtotal)
	}

	if committedSale.NetAmount != 1800 {
		t.Errorf("expected net 1800, got %f", committedSale.NetAmount)
	}

	if committedSale.RemainingAmount != 0 {
		t.Errorf("expected remaining 0, got %f", committedSale.RemainingAmount)
	}

	if committedSale.PaymentMethod != "CARD" {
		t.Errorf("expected payment method CARD, got %s", committedSale.PaymentMethod)
	}

	if len(committedItems) != 1 || committedItems[0].UnitPrice != 1000 {
		t.Errorf("expected stored unit price 1000 on committed item")
	}
}

func TestConvertProforma_MarksConverted(t *testing.T) {
	ctx := context.Background()

	var markedProformaID, markedSaleID uint
	proformaRepo := &mockProformaConverter{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Proforma, error) {
			return draftProforma(), nil
		},
		MarkConvertedFunc: func(ctx context.Context, id, saleID uint) error {
			markedProformaID = id
			markedSaleID = saleID
			return nil
		},
	}

	itemRepo := &mockProformaItemRepository{
		FindByProformaIDFunc: func(ctx context.Context, proformaID uint) ([]domain.ProformaItem, error) {
			return draftProformaItems(), nil
		},
	}

	committer := &mockSaleCommitter{
		CommitSaleFunc: func(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
			return 12, nil
		},
	}

	saleFinder := &mockSaleFinder{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Sale, error) {
			return &domain.Sale{ID: id, Number: "VTE-TEST0001"}, nil
		},
	}

	uc := newTestConvertProformaUseCase(proformaRepo, itemRepo, validChecker(), committer, saleFinder)

	_, err := uc.ConvertProforma(ctx, 5, dto.ConvertProformaRequest{PaidAmount: 1800})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if markedProformaID != 5 {
		t.Errorf("expected proforma 5 marked converted, got %d", markedProformaID)
	}

	if markedSaleID != 12 {
		t.Errorf("expected sale 12 recorded on proforma, got %d", markedSaleID)
	}
}

func TestConvertProforma_BlockedByStockCheck(t *testing.T) {
	ctx := context.Background()

	proformaRepo := &mockProformaConverter{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Proforma, error) {
			return draftProforma(), nil
		},
	}

	itemRepo := &mockProformaItemRepository{
		FindByProformaIDFunc: func(ctx context.Context, proformaID uint) ([]domain.ProformaItem, error) {
			return draftProformaItems(), nil
		},
	}

	checker := &mockStockChecker{
		ValidateFunc: func(ctx context.Context, items []domain.LineItem) *stock.Report {
			return &stock.Report{
				Valid: false,
				Results: []stock.Result{
					{Reference: "SAV-001", Valid: false, Message: "insufficient stock for Savon: 2 requested, 0 available"},
				},
			}
		},
	}

	commitCalled := false
	committer := &mockSaleCommitter{
		CommitSaleFunc: func(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
			commitCalled = true
			return 1, nil
		},
	}

	uc := newTestConvertProformaUseCase(proformaRepo, itemRepo, checker, committer, &mockSaleFinder{})

	result, err := uc.ConvertProforma(ctx, 5, dto.ConvertProformaRequest{})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !result.Blocked {
		t.Errorf("expected conversion to be blocked")
	}

	if commitCalled {
		t.Errorf("expected no commit for blocked conversion")
	}
}

func TestConvertProforma_DeadlockMaxRetries(t *testing.T) {
	ctx := context.Background()

	attemptCount := 0

	proformaRepo := &mockProformaConverter{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Proforma, error) {
			return draftProforma(), nil
		},
	}

	itemRepo := &mockProformaItemRepository{
		FindByProformaIDFunc: func(ctx context.Context, proformaID uint) ([]domain.ProformaItem, error) {
			return draftProformaItems(), nil
		},
	}

	committer := &mockSaleCommitter{
		CommitSaleFunc: func(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
			attemptCount++
			// Always deadlock
			return 0, &mysql.MySQLError{Number: 1213}
		},
	}

	uc := newTestConvertProformaUseCase(proformaRepo, itemRepo, validChecker(), committer, &mockSaleFinder{})

	_, err := uc.ConvertProforma(ctx, 5, dto.ConvertProformaRequest{})

	if err == nil {
		t.Errorf("expected error after max retries, got nil")
	}

	if _, ok := apperrors.IsDeadlockError(err); !ok {
		t.Errorf("expected DeadlockError, got %T", err)
	}

	if attemptCount != 3 {
		t.Errorf("expected 3 attempts, got %d", attemptCount)
	}
}
