package repository

import (
	"context"

	"freshcart-backend/internal/domain/model"
)

type ProductRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Product) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Product, error)
	List(ctx context.Context, tx Tx, category string, offset, limit int) ([]*model.Product, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
