package repository

import (
	"context"
	"time"

	"freshcart-backend/internal/domain/model"
)

type OrderRepository interface {
	Save(ctx context.Context, tx Tx, o *model.Order) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Order, error)
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.Order, error)

	// UpdateShippingStatus transitions the shipping status atomically; it
	// reports false when the order was already in a terminal state.
	UpdateShippingStatus(ctx context.Context, tx Tx, id string, status model.ShippingStatus) (bool, error)

	// CompletePayment sets payment status Completed only when it is not
	// Completed already. Returns false when nothing changed (duplicate).
	CompletePayment(ctx context.Context, tx Tx, id string) (bool, error)

	// ListPendingCardOlderThan returns Card orders still Pending payment that
	// were created before the cutoff, for reconciliation.
	ListPendingCardOlderThan(ctx context.Context, tx Tx, cutoff time.Time, limit int) ([]*model.Order, error)
}

// CounterRepository hands out monotonically increasing sequence numbers, one
// counter per logical name, atomic under concurrent order creation.
type CounterRepository interface {
	Next(ctx context.Context, tx Tx, name string) (int64, error)
}
