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

// Helper to create a MySQL deadlock error for testing
func createDeadlockError() error {
	return &mysql.MySQLError{Number: 1213}
}

// Helper to create CreateSaleUseCase with test defaults
func newTestCreateSaleUseCase(
	customerRepo CustomerRepository,
	catalog ProductCatalog,
	stockChecker StockChecker,
	committer SaleCommitter,
	saleFinder SaleFinder,
) *CreateSaleUseCase {
	return NewCreateSaleUseCase(
		customerRepo,
		catalog,
		stockChecker,
		committer,
		saleFinder,
		zap.NewNop(),
		3, // Default max retry attempts
	)
}

// Mock implementations

type mockCustomerRepository struct {
	FindByIDFunc func(ctx context.Context, id int) (*domain.Customer, error)
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id int) (*domain.Customer, error) {
	return m.FindByIDFunc(ctx, id)
}

type mockProductCatalog struct {
	FindByReferenceFunc func(ctx context.Context, reference string) (*domain.Product, error)
}

func (m *mockProductCatalog) FindByReference(ctx context.Context, reference string) (*domain.Product, error) {
	return m.FindByReferenceFunc(ctx, reference)
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

func okCustomerRepo() *mockCustomerRepository {
	return &mockCustomerRepository{
		FindByIDFunc: func(ctx context.Context, id int) (*domain.Customer, error) {
			return &domain.Customer{ID: id, Name: "Client Comptant"}, nil
		},
	}
}

func catalogWith(products map[string]*domain.Product) *mockProductCatalog {
	return &mockProductCatalog{
		FindByReferenceFunc: func(ctx context.Context, reference string) (*domain.Product, error) {
			p, ok := products[reference]
			if !ok {
				return nil, apperrors.NewNotFoundError("product " + reference + " not found")
			}
			return p, nil
		},
	}
}

func validStockChecker() *mockStockChecker {
	return &mockStockChecker{
		ValidateFunc: func(ctx context.Context, items []domain.LineItem) *stock.Report {
			return &stock.Report{Valid: true}
		},
	}
}

func echoSaleFinder() *mockSaleFinder {
	return &mockSaleFinder{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Sale, error) {
			return &domain.Sale{ID: id, Number: "VTE-TEST0001", Status: domain.SaleStatusCompleted}, nil
		},
	}
}

// Tests

func TestCreateSale_CustomerNotFound(t *testing.T) {
	ctx := context.Background()

	customerRepo := &mockCustomerRepository{
		FindByIDFunc: func(ctx context.Context, id int) (*domain.Customer, error) {
			return nil, apperrors.NewNotFoundError("customer not found")
		},
	}

	uc := newTestCreateSaleUseCase(customerRepo, &mockProductCatalog{}, &mockStockChecker{}, &mockSaleCommitter{}, &mockSaleFinder{})

	_, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		CustomerID: 42,
		Items:      []dto.SaleItemRequest{{Reference: "SAV-001", Quantity: 1}},
	})

	if err == nil {
		t.Errorf("expected error, got nil")
	}

	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}

func TestCreateSale_UnknownProduct(t *testing.T) {
	ctx := context.Background()

	catalog := catalogWith(map[string]*domain.Product{})

	uc := newTestCreateSaleUseCase(okCustomerRepo(), catalog, &mockStockChecker{}, &mockSaleCommitter{}, &mockSaleFinder{})

	_, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		CustomerID: 1,
		Items:      []dto.SaleItemRequest{{Reference: "NOPE-001", Quantity: 1}},
	})

	if err == nil {
		t.Errorf("expected error, got nil")
	}

	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}

func TestCreateSale_InactiveProduct(t *testing.T) {
	ctx := context.Background()

	catalog := catalogWith(map[string]*domain.Product{
		"SAV-001": {Reference: "SAV-001", Designation: "Savon", UnitPrice: 500, Quantity: 10, IsActive: false},
	})

	uc := newTestCreateSaleUseCase(okCustomerRepo(), catalog, &mockStockChecker{}, &mockSaleCommitter{}, &mockSaleFinder{})

	_, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		CustomerID: 1,
		Items:      []dto.SaleItemRequest{{Reference: "SAV-001", Quantity: 1}},
	})

	if err == nil {
		t.Errorf("expected error, got nil")
	}

	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError, got %T", err)
	}
}

func TestCreateSale_Success(t *testing.T) {
	ctx := context.Background()

	catalog := catalogWith(map[string]*domain.Product{
		"SAV-001": {Reference: "SAV-001", Designation: "Savon", UnitPrice: 500, Quantity: 10, IsActive: true},
		"HUI-002": {Reference: "HUI-002", Designation: "Huile", UnitPrice: 1200, Quantity: 5, IsActive: true},
	})

	var committedSale domain.Sale
	var committedItems []domain.SaleItem
	committer := &mockSaleCommitter{
		CommitSaleFunc: func(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
			committedSale = sale
			committedItems = items
			return 7, nil
		},
	}

	uc := newTestCreateSaleUseCase(okCustomerRepo(), catalog, validStockChecker(), committer, echoSaleFinder())

	result, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		CustomerID: 1,
		Items: []dto.SaleItemRequest{
			{Reference: "SAV-001", Quantity: 2},
			{Reference: "HUI-002", Quantity: 1},
		},
		PaidAmount: 3000,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Blocked {
		t.Errorf("expected sale not blocked")
	}

	if result.Sale == nil {
		t.Fatalf("expected sale in result")
	}

	// 2*500 + 1*1200 = 2200, paid 3000, change 800
	if committedSale.Subtotal != 2200 {
		t.Errorf("expected subtotal 2200, got %f", committedSale.Subtotal)
	}

	if committedSale.ChangeAmount != 800 {
		t.Errorf("expected change 800, got %f", committedSale.ChangeAmount)
	}

	if committedSale.RemainingAmount != 0 {
		t.Errorf("expected remaining 0, got %f", committedSale.RemainingAmount)
	}

	if len(committedItems) != 2 {
		t.Errorf("expected 2 committed items, got %d", len(committedItems))
	}
}

func TestCreateSale_PercentDiscount(t *testing.T) {
	ctx := context.Background()

	catalog := catalogWith(map[string]*domain.Product{
		"SAV-001": {Reference: "SAV-001", Designation: "Savon", UnitPrice: 1000, Quantity: 10, IsActive: true},
	})

	var committedSale domain.Sale
	committer := &mockSaleCommitter{
		CommitSaleFunc: func(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
			committedSale = sale
			return 1, nil
		},
	}

	uc := newTestCreateSaleUseCase(okCustomerRepo(), catalog, validStockChecker(), committer, echoSaleFinder())

	_, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		CustomerID: 1,
		Items:      []dto.SaleItemRequest{{Reference: "SAV-001", Quantity: 2}},
		Discount:   &dto.DiscountRequest{Kind: "PERCENT", Value: 10},
		PaidAmount: 1800,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if committedSale.DiscountAmount != 200 {
		t.Errorf("expected discount 200, got %f", committedSale.DiscountAmount)
	}

	if committedSale.NetAmount != 1800 {
		t.Errorf("expected net 1800, got %f", committedSale.NetAmount)
	}
}

func TestCreateSale_BlockedByStockCheck(t *testing.T) {
	ctx := context.Background()

	catalog := catalogWith(map[string]*domain.Product{
		"SAV-001": {Reference: "SAV-001", Designation: "Savon", UnitPrice: 500, Quantity: 1, IsActive: true},
	})

	checker := &mockStockChecker{
		ValidateFunc: func(ctx context.Context, items []domain.LineItem) *stock.Report {
			return &stock.Report{
				Valid: false,
				Results: []stock.Result{
					{Reference: "SAV-001", Valid: false, Message: "insufficient stock for Savon: 5 requested, 1 available"},
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

	uc := newTestCreateSaleUseCase(okCustomerRepo(), catalog, checker, committer, echoSaleFinder())

	result, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		CustomerID: 1,
		Items:      []dto.SaleItemRequest{{Reference: "SAV-001", Quantity: 5}},
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !result.Blocked {
		t.Errorf("expected sale to be blocked")
	}

	if result.StockReport == nil || len(result.StockReport.Results) != 1 {
		t.Errorf("expected stock report with 1 result")
	}

	if result.Sale != nil {
		t.Errorf("expected no sale in blocked result")
	}

	if commitCalled {
		t.Errorf("expected no commit for blocked sale")
	}
}

func TestCreateSale_ForcedThroughFailedCheck(t *testing.T) {
	ctx := context.Background()

	catalog := catalogWith(map[string]*domain.Product{
		"SAV-001": {Reference: "SAV-001", Designation: "Savon", UnitPrice: 500, Quantity: 1, IsActive: true},
	})

	checker := &mockStockChecker{
		ValidateFunc: func(ctx context.Context, items []domain.LineItem) *stock.Report {
			return &stock.Report{
				Valid: false,
				Results: []stock.Result{
					{Reference: "SAV-001", Valid: false, Message: "insufficient stock for Savon: 5 requested, 1 available"},
				},
			}
		},
	}

	committer := &mockSaleCommitter{
		CommitSaleFunc: func(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
			return 3, nil
		},
	}

	uc := newTestCreateSaleUseCase(okCustomerRepo(), catalog, checker, committer, echoSaleFinder())

	result, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		CustomerID: 1,
		Items:      []dto.SaleItemRequest{{Reference: "SAV-001", Quantity: 5}},
		Force:      true,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Blocked {
		t.Errorf("expected forced sale not blocked")
	}

	if result.Sale == nil {
		t.Errorf("expected sale in forced result")
	}

	// The report travels with the result so the caller sees the shortfall.
	if result.StockReport == nil {
		t.Errorf("expected stock report on forced sale")
	}
}

func TestCreateSale_ItemsSortedByReference(t *testing.T) {
	ctx := context.Background()

	catalog := catalogWith(map[string]*domain.Product{
		"SAV-001": {Reference: "SAV-001", Designation: "Savon", UnitPrice: 500, Quantity: 10, IsActive: true},
		"HUI-002": {Reference: "HUI-002", Designation: "Huile", UnitPrice: 1200, Quantity: 10, IsActive: true},
		"BOU-003": {Reference: "BOU-003", Designation: "Bougie", UnitPrice: 300, Quantity: 10, IsActive: true},
	})

	var committedItems []domain.SaleItem
	committer := &mockSaleCommitter{
		CommitSaleFunc: func(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
			committedItems = items
			return 1, nil
		},
	}

	uc := newTestCreateSaleUseCase(okCustomerRepo(), catalog, validStockChecker(), committer, echoSaleFinder())

	_, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		CustomerID: 1,
		Items: []dto.SaleItemRequest{
			{Reference: "SAV-001", Quantity: 1},
			{Reference: "BOU-003", Quantity: 1},
			{Reference: "HUI-002", Quantity: 1},
		},
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(committedItems) != 3 {
		t.Fatalf("expected 3 items, got %d", len(committedItems))
	}

	// Verify items are sorted by reference ASC
	if committedItems[0].Reference != "BOU-003" {
		t.Errorf("expected first reference BOU-003, got %s", committedItems[0].Reference)
	}

	if committedItems[1].Reference != "HUI-002" {
		t.Errorf("expected second reference HUI-002, got %s", committedItems[1].Reference)
	}

	if committedItems[2].Reference != "SAV-001" {
		t.Errorf("expected third reference SAV-001, got %s", committedItems[2].Reference)
	}
}

func TestCreateSale_DeadlockRetry(t *testing.T) {
	ctx := context.Background()

	attemptCount := 0

	catalog := catalogWith(map[string]*domain.Product{
		"SAV-001": {Reference: "SAV-001", Designation: "Savon", UnitPrice: 500, Quantity: 10, IsActive: true},
	})

	committer := &mockSaleCommitter{
		CommitSaleFunc: func(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
			attemptCount++
			if attemptCount == 1 {
				// First attempt: deadlock
				return 0, createDeadlockError()
			}
			// Second attempt: success
			return 1, nil
		},
	}

	uc := newTestCreateSaleUseCase(okCustomerRepo(), catalog, validStockChecker(), committer, echoSaleFinder())

	result, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		CustomerID: 1,
		Items:      []dto.SaleItemRequest{{Reference: "SAV-001", Quantity: 1}},
	})

	if err != nil {
		t.Errorf("expected no error on retry success, got %v", err)
	}

	if result == nil {
		t.Errorf("expected non-nil result")
	}

	if attemptCount != 2 {
		t.Errorf("expected 2 attempts, got %d", attemptCount)
	}
}

func TestCreateSale_DeadlockMaxRetries(t *testing.T) {
	ctx := context.Background()

	attemptCount := 0

	catalog := catalogWith(map[string]*domain.Product{
		"SAV-001": {Reference: "SAV-001", Designation: "Savon", UnitPrice: 500, Quantity: 10, IsActive: true},
	})

	committer := &mockSaleCommitter{
		CommitSaleFunc: func(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
			attemptCount++
			// Always deadlock
			return 0, createDeadlockError()
		},
	}

	uc := newTestCreateSaleUseCase(okCustomerRepo(), catalog, validStockChecker(), committer, echoSaleFinder())

	_, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		CustomerID: 1,
		Items:      []dto.SaleItemRequest{{Reference: "SAV-001", Quantity: 1}},
	})

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

func TestCreateSale_ReferenceNormalizedBeforeLookup(t *testing.T) {
	ctx := context.Background()

	var requested []string
	catalog := &mockProductCatalog{
		FindByReferenceFunc: func(ctx context.Context, reference string) (*domain.Product, error) {
			requested = append(requested, reference)
			return &domain.Product{Reference: reference, Designation: "Savon", UnitPrice: 500, Quantity: 10, IsActive: true}, nil
		},
	}

	committer := &mockSaleCommitter{
		CommitSaleFunc: func(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
			return 1, nil
		},
	}

	uc := newTestCreateSaleUseCase(okCustomerRepo(), catalog, validStockChecker(), committer, echoSaleFinder())

	_, err := uc.CreateSale(ctx, dto.CreateSaleRequest{
		CustomerID: 1,
		Items:      []dto.SaleItemRequest{{Reference: "  sav-001 ", Quantity: 1}},
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(requested) != 1 || requested[0] != "SAV-001" {
		t.Errorf("expected lookup with SAV-001, got %v", requested)
	}
}
