package customer

import (
	"context"
	"strings"

	"comptoir/internal/domain"
)

type Service interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*domain.Customer, error)
	List(ctx context.Context, search string, page, limit int) ([]domain.Customer, int, error)
}

type customerService struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)

	id, err := s.repo.Insert(ctx, c)
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

func (s *customerService) Update(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, c.ID)
}

func (s *customerService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *customerService) GetByID(ctx context.Context, id int) (*domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *customerService) List(ctx context.Context, search string, page, limit int) ([]domain.Customer, int, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	return s.repo.List(ctx, search, (page-1)*limit, limit)
}
