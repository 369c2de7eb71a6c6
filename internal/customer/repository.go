package customer

import (
	"context"
	"database/sql"
	"fmt"

	"comptoir/internal/domain"
	"comptoir/internal/errors"
)

type Repository interface {
	Insert(ctx context.Context, c domain.Customer) (int, error)
	Update(ctx context.Context, c domain.Customer) error
	Delete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*domain.Customer, error)
	List(ctx context.Context, search string, offset, limit int) ([]domain.Customer, int, error)
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) Insert(ctx context.Context, c domain.Customer) (int, error) {
	query := `INSERT INTO Customers (name, phone, email, address) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, c.Name, c.Phone, c.Email, c.Address)
	if err != nil {
		return 0, fmt.Errorf("inserting customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(id), nil
}

func (r *MySQLRepository) Update(ctx context.Context, c domain.Customer) error {
	query := `UPDATE Customers SET name = ?, phone = ?, email = ?, address = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, c.Name, c.Phone, c.Email, c.Address, c.ID)
	if err != nil {
		return fmt.Errorf("updating customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("customer with id %d not found", c.ID))
	}

	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM Customers WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("customer with id %d not found", id))
	}

	return nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int) (*domain.Customer, error) {
	query := `SELECT id, name, phone, email, address, createdAt, updatedAt FROM Customers WHERE id = ?`

	var c domain.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("customer with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying customer: %w", err)
	}

	return &c, nil
}

func (r *MySQLRepository) List(ctx context.Context, search string, offset, limit int) ([]domain.Customer, int, error) {
	where := ``
	args := []interface{}{}
	if search != "" {
		where = `WHERE (name LIKE ? OR phone LIKE ?)`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM Customers ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting customers: %w", err)
	}

	query := `SELECT id, name, phone, email, address, createdAt, updatedAt FROM Customers ` +
		where + ` ORDER BY name LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning customer row: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating customer rows: %w", err)
	}

	return customers, total, nil
}
