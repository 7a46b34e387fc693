package model

import (
	"time"

	"freshcart-backend/internal/domain"

	"github.com/google/uuid"
)

// Product is a catalog entry; Price is in major currency units.
type Product struct {
	ID        string
	Name      string
	Category  string
	Price     int64
	Stock     int
	CreatedAt time.Time
}

func NewProduct(id, name, category string, price int64, stock int) (*Product, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" || price < 0 || stock < 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Product{
		ID:        id,
		Name:      name,
		Category:  category,
		Price:     price,
		Stock:     stock,
		CreatedAt: time.Now(),
	}, nil
}
