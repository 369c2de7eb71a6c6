package repository

import (
	"context"
	"database/sql"
	"fmt"

	"comptoir/internal/domain"
)

type MySQLProformaItemRepository struct {
	db *sql.DB
}

func NewMySQLProformaItemRepository(db *sql.DB) *MySQLProformaItemRepository {
	return &MySQLProformaItemRepository{db: db}
}

func (r *MySQLProformaItemRepository) Insert(ctx context.Context, tx *sql.Tx, item domain.ProformaItem) (uint, error) {
	query := `
		INSERT INTO ProformaItems (proformaId, reference, designation, unitPrice, quantity, amount)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		item.ProformaID, item.Reference, item.Designation,
		item.UnitPrice, item.Quantity, item.Amount,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting proforma item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLProformaItemRepository) FindByProformaID(ctx context.Context, proformaID uint) ([]domain.ProformaItem, error) {
	query := `
		SELECT id, proformaId, reference, designation, unitPrice, quantity, amount
		FROM ProformaItems
		WHERE proformaId = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, proformaID)
	if err != nil {
		return nil, fmt.Errorf("querying proforma items: %w", err)
	}
	defer rows.Close()

	var items []domain.ProformaItem
	for rows.Next() {
		var item domain.ProformaItem
		err := rows.Scan(
			&item.ID, &item.ProformaID, &item.Reference, &item.Designation,
			&item.UnitPrice, &item.Quantity, &item.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning proforma item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating proforma item rows: %w", err)
	}

	return items, nil
}
