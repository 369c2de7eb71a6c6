package repository

import (
	"context"
	"database/sql"
	"fmt"

	"comptoir/internal/domain"
	"comptoir/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const productColumns = `id, reference, designation, description, unitPrice, quantity,
	       categoryId, isActive, isDeleted, createdAt, updatedAt`

func (r *MySQLRepository) Insert(ctx context.Context, p domain.Product) (int, error) {
	query := `
		INSERT INTO Products (reference, designation, description, unitPrice, quantity, categoryId, isActive)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Reference, p.Designation, p.Description, p.UnitPrice, p.Quantity, p.CategoryID, p.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(id), nil
}

func (r *MySQLRepository) Update(ctx context.Context, p domain.Product) error {
	query := `
		UPDATE Products
		SET designation = ?, description = ?, unitPrice = ?, quantity = ?, categoryId = ?, isActive = ?
		WHERE id = ? AND isDeleted = 0
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Designation, p.Description, p.UnitPrice, p.Quantity, p.CategoryID, p.IsActive, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", p.ID))
	}

	return nil
}

func (r *MySQLRepository) SoftDelete(ctx context.Context, id int) error {
	query := `UPDATE Products SET isDeleted = 1 WHERE id = ? AND isDeleted = 0`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}

	return nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM Products WHERE id = ? AND isDeleted = 0`, productColumns)

	return r.scanOne(r.db.QueryRowContext(ctx, query, id),
		fmt.Sprintf("product with id %d not found", id))
}

func (r *MySQLRepository) FindByReference(ctx context.Context, reference string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM Products WHERE reference = ? AND isDeleted = 0`, productColumns)

	return r.scanOne(r.db.QueryRowContext(ctx, query, reference),
		fmt.Sprintf("product with reference %s not found", reference))
}

func (r *MySQLRepository) List(ctx context.Context, search string, offset, limit int) ([]domain.Product, int, error) {
	where := `WHERE isDeleted = 0`
	args := []interface{}{}
	if search != "" {
		where += ` AND (reference LIKE ? OR designation LIKE ?)`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM Products ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM Products %s ORDER BY designation LIMIT ? OFFSET ?`,
		productColumns, where)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows.Scan, &p); err != nil {
			return nil, 0, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, total, nil
}

func (r *MySQLRepository) FindByReferenceForUpdate(ctx context.Context, tx *sql.Tx, reference string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM Products WHERE reference = ? AND isDeleted = 0 FOR UPDATE`,
		productColumns)

	return r.scanOne(tx.QueryRowContext(ctx, query, reference),
		fmt.Sprintf("product with reference %s not found", reference))
}

// DecrementStock lowers the stock level inside the commit transaction. The
// quantity may drive stock negative when the caller allows over-commit
// (back orders); that is a business decision made upstream.
func (r *MySQLRepository) DecrementStock(ctx context.Context, tx *sql.Tx, reference string, quantity int) error {
	query := `UPDATE Products SET quantity = quantity - ? WHERE reference = ? AND isDeleted = 0`

	result, err := tx.ExecContext(ctx, query, quantity, reference)
	if err != nil {
		return fmt.Errorf("decrementing stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product with reference %s not found", reference))
	}

	return nil
}

func (r *MySQLRepository) scanOne(row *sql.Row, notFoundMsg string) (*domain.Product, error) {
	var p domain.Product
	err := scanProduct(row.Scan, &p)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}

	return &p, nil
}

func scanProduct(scan func(dest ...interface{}) error, p *domain.Product) error {
	return scan(
		&p.ID, &p.Reference, &p.Designation, &p.Description, &p.UnitPrice, &p.Quantity,
		&p.CategoryID, &p.IsActive, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
	)
}
