//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"freshcart-backend/internal/domain"
	"freshcart-backend/internal/domain/model"
	"freshcart-backend/internal/usecase"
)

func TestSubscriptionUseCase_SelectPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the user to PLAN_SELECTED", func(t *testing.T) {
		users := NewMockUserRepo()
		plans := NewMockPlanRepo()
		u, _ := model.NewUser("user-1", "jane@example.com", "Jane", "hash")
		_ = users.Save(ctx, nil, u)
		p, _ := model.NewPlan("plan-1", "Family Basket", 3000, 30000)
		_ = plans.Save(ctx, nil, p)

		uc := usecase.NewSubscriptionUseCase(users, plans, newTestLogger())
		got, err := uc.SelectPlan(ctx, "user-1", "plan-1")
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got.SubscriptionStatus != model.SubscriptionStatusPlanSelected {
			t.Errorf("expected PLAN_SELECTED, got %s", got.SubscriptionStatus)
		}
		if got.PlanID == nil || *got.PlanID != "plan-1" {
			t.Errorf("expected plan recorded, got %v", got.PlanID)
		}
	})

	t.Run("unknown plan is rejected", func(t *testing.T) {
		users := NewMockUserRepo()
		u, _ := model.NewUser("user-1", "jane@example.com", "Jane", "hash")
		_ = users.Save(ctx, nil, u)

		uc := usecase.NewSubscriptionUseCase(users, NewMockPlanRepo(), newTestLogger())
		if _, err := uc.SelectPlan(ctx, "user-1", "ghost"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got: %v", err)
		}
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		plans := NewMockPlanRepo()
		p, _ := model.NewPlan("plan-1", "Family Basket", 3000, 30000)
		_ = plans.Save(ctx, nil, p)

		uc := usecase.NewSubscriptionUseCase(NewMockUserRepo(), plans, newTestLogger())
		if _, err := uc.SelectPlan(ctx, "ghost", "plan-1"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got: %v", err)
		}
	})
}

func TestSubscriptionUseCase_ExpireOverdue(t *testing.T) {
	ctx := context.Background()

	active := func(id string, expires time.Time) *model.User {
		u, _ := model.NewUser(id, id+"@example.com", id, "hash")
		u.SubscriptionStatus = model.SubscriptionStatusActive
		u.PlanExpiresAt = &expires
		return u
	}

	t.Run("flips only overdue ACTIVE users", func(t *testing.T) {
		users := NewMockUserRepo()
		_ = users.Save(ctx, nil, active("overdue", time.Now().Add(-time.Hour)))
		_ = users.Save(ctx, nil, active("current", time.Now().Add(time.Hour)))
		incomplete, _ := model.NewUser("fresh", "fresh@example.com", "fresh", "hash")
		_ = users.Save(ctx, nil, incomplete)

		uc := usecase.NewSubscriptionUseCase(users, NewMockPlanRepo(), newTestLogger())
		n, err := uc.ExpireOverdue(ctx)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected 1 expiry, got %d", n)
		}
		got, _ := users.FindByID(ctx, nil, "overdue")
		if got.SubscriptionStatus != model.SubscriptionStatusExpired {
			t.Errorf("expected overdue user EXPIRED, got %s", got.SubscriptionStatus)
		}
		got, _ = users.FindByID(ctx, nil, "current")
		if got.SubscriptionStatus != model.SubscriptionStatusActive {
			t.Errorf("expected current user still ACTIVE, got %s", got.SubscriptionStatus)
		}
		got, _ = users.FindByID(ctx, nil, "fresh")
		if got.SubscriptionStatus != model.SubscriptionStatusIncomplete {
			t.Errorf("expected INCOMPLETE user untouched, got %s", got.SubscriptionStatus)
		}
	})

	t.Run("second sweep finds nothing", func(t *testing.T) {
		users := NewMockUserRepo()
		_ = users.Save(ctx, nil, active("overdue", time.Now().Add(-time.Hour)))

		uc := usecase.NewSubscriptionUseCase(users, NewMockPlanRepo(), newTestLogger())
		if _, err := uc.ExpireOverdue(ctx); err != nil {
			t.Fatalf("first sweep: %v", err)
		}
		n, err := uc.ExpireOverdue(ctx)
		if err != nil {
			t.Fatalf("second sweep: %v", err)
		}
		if n != 0 {
			t.Errorf("expected idempotent sweep, got %d", n)
		}
	})
}

func TestSubscriptionUseCase_RefreshStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("downgrades an expired user lazily", func(t *testing.T) {
		users := NewMockUserRepo()
		u, _ := model.NewUser("user-1", "jane@example.com", "Jane", "hash")
		u.SubscriptionStatus = model.SubscriptionStatusActive
		past := time.Now().Add(-time.Minute)
		u.PlanExpiresAt = &past
		_ = users.Save(ctx, nil, u)

		uc := usecase.NewSubscriptionUseCase(users, NewMockPlanRepo(), newTestLogger())
		got, err := uc.RefreshStatus(ctx, u)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got.SubscriptionStatus != model.SubscriptionStatusExpired {
			t.Errorf("expected EXPIRED, got %s", got.SubscriptionStatus)
		}
		stored, _ := users.FindByID(ctx, nil, "user-1")
		if stored.SubscriptionStatus != model.SubscriptionStatusExpired {
			t.Errorf("expected downgrade persisted, got %s", stored.SubscriptionStatus)
		}
	})

	t.Run("leaves a current subscription alone", func(t *testing.T) {
		users := NewMockUserRepo()
		u, _ := model.NewUser("user-1", "jane@example.com", "Jane", "hash")
		u.SubscriptionStatus = model.SubscriptionStatusActive
		future := time.Now().Add(time.Hour)
		u.PlanExpiresAt = &future
		_ = users.Save(ctx, nil, u)

		uc := usecase.NewSubscriptionUseCase(users, NewMockPlanRepo(), newTestLogger())
		got, err := uc.RefreshStatus(ctx, u)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got.SubscriptionStatus != model.SubscriptionStatusActive {
			t.Errorf("expected ACTIVE, got %s", got.SubscriptionStatus)
		}
	})
}
