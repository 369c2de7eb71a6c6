package product

import (
	"context"
	"fmt"
	"strings"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
)

type productService struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	p.Reference = strings.ToUpper(strings.TrimSpace(p.Reference))

	existing, err := s.repo.FindByReference(ctx, p.Reference)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			return nil, err
		}
	}
	if existing != nil {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("product with reference %s already exists", p.Reference))
	}

	id, err := s.repo.Insert(ctx, p)
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

func (s *productService) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	current, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	// The reference is the stable key line items carry; it does not change
	// after creation.
	p.Reference = current.Reference

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, p.ID)
}

func (s *productService) Delete(ctx context.Context, id int) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *productService) GetByReference(ctx context.Context, reference string) (*domain.Product, error) {
	return s.repo.FindByReference(ctx, strings.ToUpper(strings.TrimSpace(reference)))
}

func (s *productService) List(ctx context.Context, filter ListFilter) ([]domain.Product, int, error) {
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	return s.repo.List(ctx, filter.Search, filter.Offset(), filter.Limit)
}
