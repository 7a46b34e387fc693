package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"freshcart-backend/internal/domain"
	"freshcart-backend/internal/domain/model"
	"freshcart-backend/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, name, password_hash, is_admin, subscription_status, plan_id, billing_cycle, plan_expires_at, last_payment_reference, last_payment_amount, last_payment_paid_at, created_at`

func (r *UserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (
  id, email, name, password_hash, is_admin, subscription_status, plan_id,
  billing_cycle, plan_expires_at, last_payment_reference, last_payment_amount,
  last_payment_paid_at, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
) ON CONFLICT (id) DO UPDATE SET
  email=$2, name=$3, password_hash=$4, is_admin=$5, subscription_status=$6,
  plan_id=$7, billing_cycle=$8, plan_expires_at=$9, last_payment_reference=$10,
  last_payment_amount=$11, last_payment_paid_at=$12;`

	var ref *string
	var amount *int64
	var paidAt *time.Time
	if u.LastPayment != nil {
		ref = &u.LastPayment.Reference
		amount = &u.LastPayment.Amount
		paidAt = &u.LastPayment.PaidAt
	}
	_, err := execSQL(ctx, r.pool, tx, q, u.ID, u.Email, u.Name, u.PasswordHash, u.IsAdmin,
		u.SubscriptionStatus, u.PlanID, u.BillingCycle, u.PlanExpiresAt, ref, amount, paidAt, u.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var ref *string
	var amount *int64
	var paidAt *time.Time
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.IsAdmin, &u.SubscriptionStatus,
		&u.PlanID, &u.BillingCycle, &u.PlanExpiresAt, &ref, &amount, &paidAt, &u.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if ref != nil && amount != nil && paidAt != nil {
		u.LastPayment = &model.PaymentSnapshot{Reference: *ref, Amount: *amount, PaidAt: *paidAt}
	}
	return u, nil
}

func (r *UserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *UserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *UserRepo) SelectPlan(ctx context.Context, tx repository.Tx, userID, planID string) error {
	const q = `
UPDATE users SET plan_id=$2, subscription_status=$3 WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, userID, planID, model.SubscriptionStatusPlanSelected)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) Activate(ctx context.Context, tx repository.Tx, userID, planID string, cycle model.BillingCycle, expiresAt time.Time, snap model.PaymentSnapshot) error {
	const q = `
UPDATE users SET
  subscription_status=$2, plan_id=$3, billing_cycle=$4, plan_expires_at=$5,
  last_payment_reference=$6, last_payment_amount=$7, last_payment_paid_at=$8
 WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, userID, model.SubscriptionStatusActive, planID, cycle,
		expiresAt, snap.Reference, snap.Amount, snap.PaidAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) Expire(ctx context.Context, tx repository.Tx, userID string) error {
	const q = `
UPDATE users SET subscription_status=$2 WHERE id=$1 AND subscription_status=$3;`
	_, err := execSQL(ctx, r.pool, tx, q, userID, model.SubscriptionStatusExpired, model.SubscriptionStatusActive)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

// ExpireOverdue is the sweep's bulk update: one statement over the whole
// collection, returning the number of downgraded users.
func (r *UserRepo) ExpireOverdue(ctx context.Context, tx repository.Tx, now time.Time) (int64, error) {
	const q = `
UPDATE users SET subscription_status=$1
 WHERE subscription_status=$2 AND plan_expires_at IS NOT NULL AND plan_expires_at < $3;`
	cmd, err := execSQL(ctx, r.pool, tx, q, model.SubscriptionStatusExpired, model.SubscriptionStatusActive, now)
	if err != nil {
		return 0, domain.ErrOperationFailed
	}
	return cmd.RowsAffected(), nil
}
