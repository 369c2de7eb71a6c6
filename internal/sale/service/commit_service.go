package service

import (
	"context"
	"database/sql"
	"time"

	"comptoir/internal/domain"

	"go.uber.org/zap"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type ProductRepository interface {
	FindByReferenceForUpdate(ctx context.Context, tx *sql.Tx, reference string) (*domain.Product, error)
	DecrementStock(ctx context.Context, tx *sql.Tx, reference string, quantity int) error
}

type SaleRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, sale domain.Sale) (uint, error)
}

type SaleItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.SaleItem) (uint, error)
}

// CommitService writes a sale and its stock movements in one transaction.
// The caller has already priced the order and run the optimistic stock check;
// this is where the database has the final say.
type CommitService struct {
	db           TransactionManager
	productRepo  ProductRepository
	saleRepo     SaleRepository
	saleItemRepo SaleItemRepository
	logger       *zap.Logger
	txTimeout    time.Duration
}

func NewCommitService(
	db TransactionManager,
	productRepo ProductRepository,
	saleRepo SaleRepository,
	saleItemRepo SaleItemRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *CommitService {
	return &CommitService{
		db:           db,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		saleItemRepo: saleItemRepo,
		logger:       logger,
		txTimeout:    txTimeout,
	}
}

// CommitSale inserts the sale row and its items and decrements stock for
// each item, all inside a REPEATABLE READ transaction with the product rows
// locked. Items must arrive sorted by reference so that concurrent commits
// lock rows in the same order.
func (s *CommitService) CommitSale(ctx context.Context, sale domain.Sale, items []domain.SaleItem) (uint, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return 0, err
	}
	// Rollback is a no-op once the transaction is committed.
	defer tx.Rollback()

	saleID, err := s.saleRepo.Insert(txCtx, tx, sale)
	if err != nil {
		s.logger.Error("failed to insert sale", zap.String("number", sale.Number), zap.Error(err))
		return 0, err
	}

	for _, item := range items {
		if _, err := s.productRepo.FindByReferenceForUpdate(txCtx, tx, item.Reference); err != nil {
			s.logger.Error("failed to lock product",
				zap.String("number", sale.Number), zap.String("reference", item.Reference), zap.Error(err))
			return 0, err
		}

		if err := s.productRepo.DecrementStock(txCtx, tx, item.Reference, item.Quantity); err != nil {
			s.logger.Error("failed to decrement stock",
				zap.String("number", sale.Number), zap.String("reference", item.Reference), zap.Error(err))
			return 0, err
		}

		item.SaleID = saleID
		if _, err := s.saleItemRepo.Insert(txCtx, tx, item); err != nil {
			s.logger.Error("failed to insert sale item",
				zap.String("number", sale.Number), zap.String("reference", item.Reference), zap.Error(err))
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("number", sale.Number), zap.Error(err))
		return 0, err
	}

	s.logger.Info("sale committed",
		zap.Uint("saleId", saleID),
		zap.String("number", sale.Number),
		zap.Int("itemCount", len(items)),
		zap.Float64("netAmount", sale.NetAmount))

	return saleID, nil
}
