package product

import (
	"context"

	"comptoir/internal/domain"
)

type UseCase interface {
	Create(ctx context.Context, req ProductRequest) (*ProductDTO, error)
	Update(ctx context.Context, id int, req ProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, id int) error
	GetByReference(ctx context.Context, reference string) (*ProductDTO, error)
	List(ctx context.Context, filter ListFilter) (*ListResponse, error)
}

type Service interface {
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int) error
	GetByReference(ctx context.Context, reference string) (*domain.Product, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Product, int, error)
}

type Repository interface {
	Insert(ctx context.Context, p domain.Product) (int, error)
	Update(ctx context.Context, p domain.Product) error
	SoftDelete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	FindByReference(ctx context.Context, reference string) (*domain.Product, error)
	List(ctx context.Context, search string, offset, limit int) ([]domain.Product, int, error)
}

type ListFilter struct {
	Page   int
	Limit  int
	Search string
}

func (f ListFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}
