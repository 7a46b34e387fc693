package repository

import "context"

// Tx is an opaque transaction handle passed through repositories. The concrete
// type is infra-defined (pgx.Tx for Postgres). Repositories must accept nil
// and fall back to their non-transactional path.
type Tx interface{}

// TransactionManager runs fn inside a database transaction, passing the tx
// handle for repositories to pick up. fn returning an error rolls back.
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
