package stock

import (
	"context"
	"fmt"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

type ProductFinder interface {
	FindByReference(ctx context.Context, reference string) (*domain.Product, error)
}

type Result struct {
	Reference string `json:"reference"`
	Valid     bool   `json:"valid"`
	Message   string `json:"message,omitempty"`
}

type Report struct {
	Valid   bool     `json:"valid"`
	Results []Result `json:"results"`
}

type Checker struct {
	products ProductFinder
	logger   *zap.Logger
}

func NewChecker(products ProductFinder, logger *zap.Logger) *Checker {
	return &Checker{
		products: products,
		logger:   logger,
	}
}

// Validate checks every line item against the stock the catalog reports right
// now, not the snapshot captured when the item was added to the order.
// Lookups run concurrently and the verdict waits for all of them to settle: a
// full join, not a race. No reservation is made, so stock can still move
// between this check and commit; the commit transaction has the final say.
func (c *Checker) Validate(ctx context.Context, items []domain.LineItem) *Report {
	results := make([]Result, len(items))

	var wg conc.WaitGroup
	for i := range items {
		i := i // per-iteration copy: module builds with a pre-1.22 toolchain
		wg.Go(func() {
			results[i] = c.checkItem(ctx, items[i])
		})
	}
	wg.Wait()

	report := &Report{Valid: true, Results: results}
	for _, r := range results {
		if !r.Valid {
			report.Valid = false
			break
		}
	}
	return report
}

func (c *Checker) checkItem(ctx context.Context, item domain.LineItem) Result {
	product, err := c.products.FindByReference(ctx, item.Reference)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return Result{
				Reference: item.Reference,
				Valid:     false,
				Message:   fmt.Sprintf("product %s not found in inventory", item.Reference),
			}
		}

		c.logger.Warn("stock lookup failed",
			zap.String("reference", item.Reference), zap.Error(err))
		return Result{
			Reference: item.Reference,
			Valid:     false,
			Message:   fmt.Sprintf("stock check failed for %s", item.Reference),
		}
	}

	available := product.AvailableStock()
	if available < item.RequestedQuantity {
		return Result{
			Reference: item.Reference,
			Valid:     false,
			Message: fmt.Sprintf("insufficient stock for %s: %d requested, %d available",
				product.Designation, item.RequestedQuantity, available),
		}
	}

	return Result{Reference: item.Reference, Valid: true}
}
