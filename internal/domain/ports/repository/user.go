package repository

import (
	"context"
	"time"

	"freshcart-backend/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)

	// SelectPlan moves the user to PLAN_SELECTED with the given plan.
	SelectPlan(ctx context.Context, tx Tx, userID, planID string) error

	// Activate applies a verified plan payment: status ACTIVE, cycle, expiry
	// and the last-payment snapshot, in one update.
	Activate(ctx context.Context, tx Tx, userID, planID string, cycle model.BillingCycle, expiresAt time.Time, snap model.PaymentSnapshot) error

	// Expire downgrades a single user to EXPIRED (lazy path at login).
	Expire(ctx context.Context, tx Tx, userID string) error

	// ExpireOverdue bulk-flips ACTIVE users whose expiry passed before `now`
	// to EXPIRED and returns how many rows changed.
	ExpireOverdue(ctx context.Context, tx Tx, now time.Time) (int64, error)
}
