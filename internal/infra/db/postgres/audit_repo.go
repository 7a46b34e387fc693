package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"freshcart-backend/internal/domain"
	"freshcart-backend/internal/domain/model"
	"freshcart-backend/internal/domain/ports/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo appends payment audit rows. Both tables carry a unique index
// on reference; the conditional insert reports whether a row actually landed,
// which is how duplicate webhook deliveries are detected.
type AuditLogRepo struct {
	pool *pgxpool.Pool
}

func NewAuditLogRepo(pool *pgxpool.Pool) *AuditLogRepo {
	return &AuditLogRepo{pool: pool}
}

func (r *AuditLogRepo) AppendPaymentLog(ctx context.Context, tx repository.Tx, l *model.PaymentLog) (bool, error) {
	const q = `
INSERT INTO payment_logs (id, user_id, plan_id, amount, reference, paid_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (reference) DO NOTHING;`
	cmd, err := execSQL(ctx, r.pool, tx, q, l.ID, l.UserID, l.PlanID, l.Amount, l.Reference, l.PaidAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *AuditLogRepo) AppendOrderLog(ctx context.Context, tx repository.Tx, l *model.OrderLog) (bool, error) {
	const q = `
INSERT INTO order_logs (id, order_id, amount, reference, paid_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (reference) DO NOTHING;`
	cmd, err := execSQL(ctx, r.pool, tx, q, l.ID, l.OrderID, l.Amount, l.Reference, l.PaidAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() > 0, nil
}
