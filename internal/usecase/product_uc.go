package usecase

import (
	"context"

	"freshcart-backend/internal/domain"
	"freshcart-backend/internal/domain/model"
	"freshcart-backend/internal/domain/ports/repository"
)

var _ ProductUseCase = (*productUC)(nil)

type ProductUseCase interface {
	Create(ctx context.Context, name, category string, price int64, stock int) (*model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, category string, offset, limit int) ([]*model.Product, error)
	Update(ctx context.Context, p *model.Product) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}

type productUC struct {
	products repository.ProductRepository
}

func NewProductUseCase(products repository.ProductRepository) *productUC {
	return &productUC{products: products}
}

func (u *productUC) Create(ctx context.Context, name, category string, price int64, stock int) (*model.Product, error) {
	p, err := model.NewProduct("", name, category, price, stock)
	if err != nil {
		return nil, err
	}
	if err := u.products.Save(ctx, nil, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *productUC) Get(ctx context.Context, id string) (*model.Product, error) {
	return u.products.FindByID(ctx, nil, id)
}

func (u *productUC) List(ctx context.Context, category string, offset, limit int) ([]*model.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return u.products.List(ctx, nil, category, offset, limit)
}

func (u *productUC) Update(ctx context.Context, p *model.Product) (*model.Product, error) {
	if p == nil || p.ID == "" || p.Name == "" || p.Price < 0 || p.Stock < 0 {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := u.products.FindByID(ctx, nil, p.ID); err != nil {
		return nil, err
	}
	if err := u.products.Save(ctx, nil, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *productUC) Delete(ctx context.Context, id string) error {
	return u.products.Delete(ctx, nil, id)
}
