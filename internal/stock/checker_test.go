package stock

import (
	"context"
	"strings"
	"sync"
	"testing"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"

	"go.uber.org/zap"
)

type mockProductFinder struct {
	mu                  sync.Mutex
	fetched             []string
	FindByReferenceFunc func(ctx context.Context, reference string) (*domain.Product, error)
}

func (m *mockProductFinder) FindByReference(ctx context.Context, reference string) (*domain.Product, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, reference)
	m.mu.Unlock()
	return m.FindByReferenceFunc(ctx, reference)
}

func TestValidate_AllValid(t *testing.T) {
	finder := &mockProductFinder{
		FindByReferenceFunc: func(ctx context.Context, reference string) (*domain.Product, error) {
			return &domain.Product{Reference: reference, Quantity: 100}, nil
		},
	}

	checker := NewChecker(finder, zap.NewNop())

	report := checker.Validate(context.Background(), []domain.LineItem{
		domain.NewLineItem("REF-1", "Savon", 1000, 100, 2),
		domain.NewLineItem("REF-2", "Huile", 1200, 100, 5),
	})

	if !report.Valid {
		t.Errorf("expected aggregate valid, got invalid: %+v", report.Results)
	}

	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}

	for _, r := range report.Results {
		if !r.Valid {
			t.Errorf("expected item %s valid, got %q", r.Reference, r.Message)
		}
	}
}

func TestValidate_InsufficientStock(t *testing.T) {
	finder := &mockProductFinder{
		FindByReferenceFunc: func(ctx context.Context, reference string) (*domain.Product, error) {
			return &domain.Product{Reference: reference, Designation: "Savon", Quantity: 10}, nil
		},
	}

	checker := NewChecker(finder, zap.NewNop())

	report := checker.Validate(context.Background(), []domain.LineItem{
		domain.NewLineItem("REF-1", "Savon", 1000, 10, 15),
	})

	if report.Valid {
		t.Error("expected aggregate invalid")
	}

	result := report.Results[0]
	if result.Valid {
		t.Error("expected item invalid")
	}
	if !strings.Contains(result.Message, "15 requested") || !strings.Contains(result.Message, "10 available") {
		t.Errorf("message should name the shortfall, got %q", result.Message)
	}
	if !strings.Contains(result.Message, "Savon") {
		t.Errorf("message should name the designation, got %q", result.Message)
	}
}

func TestValidate_ProductNotFound(t *testing.T) {
	finder := &mockProductFinder{
		FindByReferenceFunc: func(ctx context.Context, reference string) (*domain.Product, error) {
			return nil, apperrors.NewNotFoundError("product not found")
		},
	}

	checker := NewChecker(finder, zap.NewNop())

	report := checker.Validate(context.Background(), []domain.LineItem{
		domain.NewLineItem("REF-GONE", "Savon", 1000, 10, 1),
	})

	if report.Valid {
		t.Error("expected aggregate invalid")
	}
	if !strings.Contains(report.Results[0].Message, "not found in inventory") {
		t.Errorf("unexpected message %q", report.Results[0].Message)
	}
}

func TestValidate_OneInvalidItemFailsAggregate(t *testing.T) {
	finder := &mockProductFinder{
		FindByReferenceFunc: func(ctx context.Context, reference string) (*domain.Product, error) {
			if reference == "REF-SHORT" {
				return &domain.Product{Reference: reference, Designation: "Huile", Quantity: 1}, nil
			}
			return &domain.Product{Reference: reference, Quantity: 100}, nil
		},
	}

	checker := NewChecker(finder, zap.NewNop())

	report := checker.Validate(context.Background(), []domain.LineItem{
		domain.NewLineItem("REF-OK", "Savon", 1000, 100, 2),
		domain.NewLineItem("REF-SHORT", "Huile", 1200, 1, 3),
	})

	if report.Valid {
		t.Error("aggregate must be invalid when any item is invalid")
	}

	valid, invalid := 0, 0
	for _, r := range report.Results {
		if r.Valid {
			valid++
		} else {
			invalid++
		}
	}
	if valid != 1 || invalid != 1 {
		t.Errorf("expected 1 valid and 1 invalid result, got %d/%d", valid, invalid)
	}
}

func TestValidate_EmptyItemsVacuouslyValid(t *testing.T) {
	finder := &mockProductFinder{
		FindByReferenceFunc: func(ctx context.Context, reference string) (*domain.Product, error) {
			t.Error("no lookup expected for empty item list")
			return nil, nil
		},
	}

	checker := NewChecker(finder, zap.NewNop())

	report := checker.Validate(context.Background(), nil)

	if !report.Valid {
		t.Error("empty order must be vacuously valid")
	}
	if len(report.Results) != 0 {
		t.Errorf("expected no results, got %d", len(report.Results))
	}
}

func TestValidate_FetchesEveryItem(t *testing.T) {
	finder := &mockProductFinder{
		FindByReferenceFunc: func(ctx context.Context, reference string) (*domain.Product, error) {
			return &domain.Product{Reference: reference, Quantity: 100}, nil
		},
	}

	checker := NewChecker(finder, zap.NewNop())

	items := []domain.LineItem{
		domain.NewLineItem("REF-1", "A", 100, 100, 1),
		domain.NewLineItem("REF-2", "B", 100, 100, 1),
		domain.NewLineItem("REF-3", "C", 100, 100, 1),
	}

	checker.Validate(context.Background(), items)

	if len(finder.fetched) != len(items) {
		t.Errorf("expected %d lookups, got %d", len(items), len(finder.fetched))
	}
}
