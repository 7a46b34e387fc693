package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"freshcart-backend/internal/domain/model"
	"freshcart-backend/internal/domain/ports/repository"
)

var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type SubscriptionUseCase interface {
	// SelectPlan records the user's plan choice (INCOMPLETE -> PLAN_SELECTED).
	SelectPlan(ctx context.Context, userID, planID string) (*model.User, error)
	// ExpireOverdue bulk-downgrades ACTIVE users past expiry; returns count.
	ExpireOverdue(ctx context.Context) (int64, error)
	// RefreshStatus lazily downgrades a single user if their plan expired.
	RefreshStatus(ctx context.Context, user *model.User) (*model.User, error)
	ListPlans(ctx context.Context) ([]*model.Plan, error)
}

type subscriptionUC struct {
	users repository.UserRepository
	plans repository.PlanRepository
	log   *zerolog.Logger
}

func NewSubscriptionUseCase(users repository.UserRepository, plans repository.PlanRepository, logger *zerolog.Logger) *subscriptionUC {
	l := logger.With().Str("component", "SubscriptionUC").Logger()
	return &subscriptionUC{users: users, plans: plans, log: &l}
}

func (u *subscriptionUC) SelectPlan(ctx context.Context, userID, planID string) (*model.User, error) {
	plan, err := u.plans.FindByID(ctx, nil, planID)
	if err != nil {
		return nil, err
	}
	if _, err := u.users.FindByID(ctx, nil, userID); err != nil {
		return nil, err
	}
	if err := u.users.SelectPlan(ctx, nil, userID, plan.ID); err != nil {
		return nil, err
	}
	return u.users.FindByID(ctx, nil, userID)
}

func (u *subscriptionUC) ExpireOverdue(ctx context.Context) (int64, error) {
	return u.users.ExpireOverdue(ctx, nil, time.Now())
}

func (u *subscriptionUC) RefreshStatus(ctx context.Context, user *model.User) (*model.User, error) {
	if !user.PlanExpired(time.Now()) {
		return user, nil
	}
	if err := u.users.Expire(ctx, nil, user.ID); err != nil {
		return nil, err
	}
	user.SubscriptionStatus = model.SubscriptionStatusExpired
	u.log.Info().Str("user_id", user.ID).Msg("subscription lazily expired")
	return user, nil
}

func (u *subscriptionUC) ListPlans(ctx context.Context) ([]*model.Plan, error) {
	return u.plans.ListAll(ctx, nil)
}
