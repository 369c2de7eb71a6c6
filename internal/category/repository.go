package category

import (
	"context"
	"database/sql"
	"fmt"

	"comptoir/internal/domain"
	"comptoir/internal/errors"
)

type Repository interface {
	Insert(ctx context.Context, c domain.Category) (int, error)
	Update(ctx context.Context, c domain.Category) error
	Delete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) Insert(ctx context.Context, c domain.Category) (int, error) {
	query := `INSERT INTO Categories (name, description) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, c.Name, c.Description)
	if err != nil {
		return 0, fmt.Errorf("inserting category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(id), nil
}

func (r *MySQLRepository) Update(ctx context.Context, c domain.Category) error {
	query := `UPDATE Categories SET name = ?, description = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, c.Name, c.Description, c.ID)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("category with id %d not found", c.ID))
	}

	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM Categories WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("category with id %d not found", id))
	}

	return nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int) (*domain.Category, error) {
	query := `SELECT id, name, description, createdAt, updatedAt FROM Categories WHERE id = ?`

	var c domain.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("category with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying category: %w", err)
	}

	return &c, nil
}

func (r *MySQLRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	query := `SELECT id, name, description, createdAt, updatedAt FROM Categories WHERE name = ?`

	var c domain.Category
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("category %s not found", name))
	}
	if err != nil {
		return nil, fmt.Errorf("querying category: %w", err)
	}

	return &c, nil
}

func (r *MySQLRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, description, createdAt, updatedAt FROM Categories ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return categories, nil
}
