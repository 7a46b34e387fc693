package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"freshcart-backend/internal/domain"
	"freshcart-backend/internal/domain/ports/repository"
)

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo backs order-code generation. The increment-and-fetch is a single
// upsert, so concurrent order creation never yields duplicate sequence
// numbers.
type CounterRepo struct {
	pool *pgxpool.Pool
}

func NewCounterRepo(pool *pgxpool.Pool) *CounterRepo {
	return &CounterRepo{pool: pool}
}

func (r *CounterRepo) Next(ctx context.Context, tx repository.Tx, name string) (int64, error) {
	const q = `
INSERT INTO counters (name, seq) VALUES ($1, 1)
ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1
RETURNING seq;`
	row, err := pickRow(ctx, r.pool, tx, q, name)
	if err != nil {
		return 0, err
	}
	var seq int64
	if err := row.Scan(&seq); err != nil {
		return 0, domain.ErrOperationFailed
	}
	return seq, nil
}
