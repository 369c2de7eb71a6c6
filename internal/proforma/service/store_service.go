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

type ProformaRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, p domain.Proforma) (uint, error)
}

type ProformaItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.ProformaItem) (uint, error)
}

// StoreService writes a proforma and its items in one transaction. A proforma
// never touches stock, so no row locks are taken.
type StoreService struct {
	db               TransactionManager
	proformaRepo     ProformaRepository
	proformaItemRepo ProformaItemRepository
	logger           *zap.Logger
	txTimeout        time.Duration
}

func NewStoreService(
	db TransactionManager,
	proformaRepo ProformaRepository,
	proformaItemRepo ProformaItemRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *StoreService {
	return &StoreService{
		db:               db,
		proformaRepo:     proformaRepo,
		proformaItemRepo: proformaItemRepo,
		logger:           logger,
		txTimeout:        txTimeout,
	}
}

func (s *StoreService) StoreProforma(ctx context.Context, p domain.Proforma, items []domain.ProformaItem) (uint, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return 0, err
	}
	// Rollback is a no-op once the transaction is committed.
	defer tx.Rollback()

	proformaID, err := s.proformaRepo.Insert(txCtx, tx, p)
	if err != nil {
		s.logger.Error("failed to insert proforma", zap.String("number", p.Number), zap.Error(err))
		return 0, err
	}

	for _, item := range items {
		item.ProformaID = proformaID
		if _, err := s.proformaItemRepo.Insert(txCtx, tx, item); err != nil {
			s.logger.Error("failed to insert proforma item",
				zap.String("number", p.Number), zap.String("reference", item.Reference), zap.Error(err))
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("number", p.Number), zap.Error(err))
		return 0, err
	}

	s.logger.Info("proforma stored",
		zap.Uint("proformaId", proformaID),
		zap.String("number", p.Number),
		zap.Int("itemCount", len(items)))

	return proformaID, nil
}
