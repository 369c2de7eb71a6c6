package repository

import (
	"context"
	"database/sql"
	"fmt"

	"comptoir/internal/domain"
	"comptoir/internal/errors"
)

type MySQLSaleRepository struct {
	db *sql.DB
}

func NewMySQLSaleRepository(db *sql.DB) *MySQLSaleRepository {
	return &MySQLSaleRepository{db: db}
}

const saleColumns = `id, number, customerId, subtotal, discountKind, discountValue, discountAmount,
	       netAmount, paidAmount, changeAmount, remainingAmount,
	       paymentMethod, saleCondition, status, createdAt, updatedAt`

func (r *MySQLSaleRepository) Insert(ctx context.Context, tx *sql.Tx, sale domain.Sale) (uint, error) {
	query := `
		INSERT INTO Sales (number, customerId, subtotal, discountKind, discountValue, discountAmount,
		                   netAmount, paidAmount, changeAmount, remainingAmount,
		                   paymentMethod, saleCondition, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		sale.Number, sale.CustomerID, sale.Subtotal,
		sale.DiscountKind, sale.DiscountValue, sale.DiscountAmount,
		sale.NetAmount, sale.PaidAmount, sale.ChangeAmount, sale.RemainingAmount,
		sale.PaymentMethod, sale.Condition, sale.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting sale: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLSaleRepository) FindByID(ctx context.Context, id uint) (*domain.Sale, error) {
	query := fmt.Sprintf(`SELECT %s FROM Sales WHERE id = ?`, saleColumns)

	var sale domain.Sale
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sale.ID, &sale.Number, &sale.CustomerID, &sale.Subtotal,
		&sale.DiscountKind, &sale.DiscountValue, &sale.DiscountAmount,
		&sale.NetAmount, &sale.PaidAmount, &sale.ChangeAmount, &sale.RemainingAmount,
		&sale.PaymentMethod, &sale.Condition, &sale.Status,
		&sale.CreatedAt, &sale.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("sale with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying sale by id: %w", err)
	}

	return &sale, nil
}

func (r *MySQLSaleRepository) List(ctx context.Context, offset, limit int) ([]domain.Sale, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Sales`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting sales: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM Sales ORDER BY createdAt DESC LIMIT ? OFFSET ?`, saleColumns)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var sale domain.Sale
		err := rows.Scan(
			&sale.ID, &sale.Number, &sale.CustomerID, &sale.Subtotal,
			&sale.DiscountKind, &sale.DiscountValue, &sale.DiscountAmount,
			&sale.NetAmount, &sale.PaidAmount, &sale.ChangeAmount, &sale.RemainingAmount,
			&sale.PaymentMethod, &sale.Condition, &sale.Status,
			&sale.CreatedAt, &sale.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning sale row: %w", err)
		}
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating sale rows: %w", err)
	}

	return sales, total, nil
}
