package repository

import (
	"context"
	"database/sql"
	"fmt"

	"comptoir/internal/domain"
)

type MySQLSaleItemRepository struct {
	db *sql.DB
}

func NewMySQLSaleItemRepository(db *sql.DB) *MySQLSaleItemRepository {
	return &MySQLSaleItemRepository{db: db}
}

func (r *MySQLSaleItemRepository) Insert(ctx context.Context, tx *sql.Tx, item domain.SaleItem) (uint, error) {
	query := `
		INSERT INTO SaleItems (saleId, reference, designation, unitPrice, quantity, amount)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		item.SaleID, item.Reference, item.Designation, item.UnitPrice, item.Quantity, item.Amount,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting sale item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLSaleItemRepository) FindBySaleID(ctx context.Context, saleID uint) ([]domain.SaleItem, error) {
	query := `
		SELECT id, saleId, reference, designation, unitPrice, quantity, amount
		FROM SaleItems
		WHERE saleId = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("querying sale items: %w", err)
	}
	defer rows.Close()

	var items []domain.SaleItem
	for rows.Next() {
		var item domain.SaleItem
		err := rows.Scan(
			&item.ID, &item.SaleID, &item.Reference, &item.Designation,
			&item.UnitPrice, &item.Quantity, &item.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning sale item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale item rows: %w", err)
	}

	return items, nil
}
