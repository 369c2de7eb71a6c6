package category

import (
	"context"
	"fmt"
	"strings"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
)

type Service interface {
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]domain.Category, error)
}

type categoryService struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	c.Name = strings.TrimSpace(c.Name)

	existing, err := s.repo.FindByName(ctx, c.Name)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			return nil, err
		}
	}
	if existing != nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("category %s already exists", c.Name))
	}

	id, err := s.repo.Insert(ctx, c)
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

func (s *categoryService) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	c.Name = strings.TrimSpace(c.Name)

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, c.ID)
}

func (s *categoryService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *categoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.FindAll(ctx)
}
