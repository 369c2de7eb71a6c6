package repository

import (
	"context"
	"database/sql"
	"fmt"

	"comptoir/internal/domain"
	"comptoir/internal/errors"
)

type MySQLProformaRepository struct {
	db *sql.DB
}

func NewMySQLProformaRepository(db *sql.DB) *MySQLProformaRepository {
	return &MySQLProformaRepository{db: db}
}

const proformaColumns = `id, number, customerId, subtotal, discountKind, discountValue, discountAmount,
	       netAmount, paymentMethod, saleCondition, status, convertedSaleId, createdAt, updatedAt`

func (r *MySQLProformaRepository) Insert(ctx context.Context, tx *sql.Tx, p domain.Proforma) (uint, error) {
	query := `
		INSERT INTO Proformas (number, customerId, subtotal, discountKind, discountValue, discountAmount,
		                       netAmount, paymentMethod, saleCondition, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		p.Number, p.CustomerID, p.Subtotal,
		p.DiscountKind, p.DiscountValue, p.DiscountAmount,
		p.NetAmount, p.PaymentMethod, p.Condition, p.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting proforma: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLProformaRepository) FindByID(ctx context.Context, id uint) (*domain.Proforma, error) {
	query := fmt.Sprintf(`SELECT %s FROM Proformas WHERE id = ?`, proformaColumns)

	p, err := scanProforma(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("proforma with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying proforma by id: %w", err)
	}

	return p, nil
}

func (r *MySQLProformaRepository) List(ctx context.Context, offset, limit int) ([]domain.Proforma, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Proformas`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting proformas: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM Proformas ORDER BY createdAt DESC LIMIT ? OFFSET ?`, proformaColumns)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying proformas: %w", err)
	}
	defer rows.Close()

	var proformas []domain.Proforma
	for rows.Next() {
		p, err := scanProforma(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning proforma row: %w", err)
		}
		proformas = append(proformas, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating proforma rows: %w", err)
	}

	return proformas, total, nil
}

// MarkConverted flips a draft proforma to CONVERTED and records the sale it
// produced. The status guard makes conversion single-shot; zero rows affected
// means another request converted it first.
func (r *MySQLProformaRepository) MarkConverted(ctx context.Context, id, saleID uint) error {
	query := `
		UPDATE Proformas
		SET status = ?, convertedSaleId = ?, updatedAt = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query, domain.ProformaStatusConverted, saleID, id, domain.ProformaStatusDraft)
	if err != nil {
		return fmt.Errorf("marking proforma converted: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return errors.NewConflictError(fmt.Sprintf("proforma with id %d is already converted", id))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProforma(row rowScanner) (*domain.Proforma, error) {
	var p domain.Proforma
	err := row.Scan(
		&p.ID, &p.Number, &p.CustomerID, &p.Subtotal,
		&p.DiscountKind, &p.DiscountValue, &p.DiscountAmount,
		&p.NetAmount, &p.PaymentMethod, &p.Condition, &p.Status,
		&p.ConvertedSaleID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
