package product

import (
	"context"

	"comptoir/internal/domain"
)

type useCase struct {
	service Service
}

func NewUseCase(service Service) UseCase {
	return &useCase{service: service}
}

func (uc *useCase) Create(ctx context.Context, req ProductRequest) (*ProductDTO, error) {
	created, err := uc.service.Create(ctx, toDomain(0, req))
	if err != nil {
		return nil, err
	}
	dto := toDTO(*created)
	return &dto, nil
}

func (uc *useCase) Update(ctx context.Context, id int, req ProductRequest) (*ProductDTO, error) {
	updated, err := uc.service.Update(ctx, toDomain(id, req))
	if err != nil {
		return nil, err
	}
	dto := toDTO(*updated)
	return &dto, nil
}

func (uc *useCase) Delete(ctx context.Context, id int) error {
	return uc.service.Delete(ctx, id)
}

func (uc *useCase) GetByReference(ctx context.Context, reference string) (*ProductDTO, error) {
	p, err := uc.service.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*p)
	return &dto, nil
}

func (uc *useCase) List(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	products, total, err := uc.service.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toDTO(p))
	}

	return &ListResponse{
		Products: dtos,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}, nil
}

func toDomain(id int, req ProductRequest) domain.Product {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return domain.Product{
		ID:          id,
		Reference:   req.Reference,
		Designation: req.Designation,
		Description: req.Description,
		UnitPrice:   req.UnitPrice.Float64(),
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
		IsActive:    active,
	}
}

func toDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:             p.ID,
		Reference:      p.Reference,
		Designation:    p.Designation,
		Description:    p.Description,
		UnitPrice:      p.UnitPrice,
		Quantity:       p.Quantity,
		AvailableStock: p.AvailableStock(),
		CategoryID:     p.CategoryID,
		IsActive:       p.IsActive,
	}
}
