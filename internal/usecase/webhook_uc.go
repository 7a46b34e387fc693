package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"freshcart-backend/internal/domain"
	"freshcart-backend/internal/domain/model"
	"freshcart-backend/internal/domain/ports/adapter"
	"freshcart-backend/internal/domain/ports/repository"
	"freshcart-backend/internal/infra/metrics"
)

// WebhookOutcome classifies how an authenticated charge event was handled.
type WebhookOutcome string

const (
	OutcomeAppliedPlan  WebhookOutcome = "applied_plan"
	OutcomeAppliedOrder WebhookOutcome = "applied_order"
	OutcomeIgnored      WebhookOutcome = "ignored"
	OutcomeDuplicate    WebhookOutcome = "duplicate"
)

// ReferenceCache is the optional fast-path dedup marker (Redis). The audit
// log's unique reference constraint stays the backstop. Forget releases a
// marker whose event did not land, so the provider's redelivery is not
// mistaken for a duplicate.
type ReferenceCache interface {
	MarkSeen(ctx context.Context, reference string) (first bool, err error)
	Forget(ctx context.Context, reference string) error
}

var _ WebhookUseCase = (*webhookUC)(nil)

type WebhookUseCase interface {
	// ProcessChargeSuccess handles a signature-verified charge.success event.
	// It returns an error only for provider/storage failures the caller
	// should surface as 500 (so the provider redelivers); every business
	// reason to skip the event comes back as an outcome with a nil error.
	ProcessChargeSuccess(ctx context.Context, reference string, meta map[string]any) (WebhookOutcome, error)
}

type webhookUC struct {
	orders  repository.OrderRepository
	users   repository.UserRepository
	plans   repository.PlanRepository
	audit   repository.AuditLogRepository
	tm      repository.TransactionManager
	gateway adapter.PaymentGateway
	seen    ReferenceCache // may be nil
	log     *zerolog.Logger
}

func NewWebhookUseCase(
	orders repository.OrderRepository,
	users repository.UserRepository,
	plans repository.PlanRepository,
	audit repository.AuditLogRepository,
	tm repository.TransactionManager,
	gateway adapter.PaymentGateway,
	seen ReferenceCache,
	logger *zerolog.Logger,
) *webhookUC {
	l := logger.With().Str("component", "WebhookUC").Logger()
	return &webhookUC{
		orders:  orders,
		users:   users,
		plans:   plans,
		audit:   audit,
		tm:      tm,
		gateway: gateway,
		seen:    seen,
		log:     &l,
	}
}

func (u *webhookUC) ProcessChargeSuccess(ctx context.Context, reference string, meta map[string]any) (WebhookOutcome, error) {
	if reference == "" {
		return OutcomeIgnored, nil
	}

	// Never mutate state off the webhook payload alone: the reference is
	// re-verified with the provider first. A transport failure here is the
	// one case we answer 500 for, so the provider retries later.
	tx, err := u.gateway.Verify(ctx, reference)
	if err != nil {
		metrics.IncPaymentVerified("error")
		return "", fmt.Errorf("%w: verify %s: %v", domain.ErrProviderFailure, reference, err)
	}
	if !strings.EqualFold(tx.Status, "success") {
		metrics.IncPaymentVerified("not_success")
		u.log.Info().Str("reference", reference).Str("status", tx.Status).Msg("verification not successful; ignoring")
		return OutcomeIgnored, nil
	}
	metrics.IncPaymentVerified("success")

	if u.seen != nil {
		if first, err := u.seen.MarkSeen(ctx, reference); err == nil && !first {
			u.log.Debug().Str("reference", reference).Msg("reference already seen")
			return OutcomeDuplicate, nil
		}
	}

	if meta == nil {
		meta = tx.Metadata
	}
	paidAt := tx.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	amount := fromMinorUnits(tx.Amount)

	var outcome WebhookOutcome
	switch {
	case metaString(meta, "order_id") != "":
		outcome, err = u.applyOrderPayment(ctx, metaString(meta, "order_id"), reference, amount, paidAt)
	case metaString(meta, "user_id") != "" && metaString(meta, "plan_id") != "":
		outcome, err = u.applyPlanPayment(ctx, metaString(meta, "user_id"), metaString(meta, "plan_id"), reference, amount, paidAt)
	default:
		u.log.Info().Str("reference", reference).Msg("unrecognized metadata; ignoring")
		return OutcomeIgnored, nil
	}
	if err != nil {
		// The marker must not outlive a failed apply: the caller answers 500,
		// the provider redelivers, and that retry has to reach the database.
		u.releaseMarker(ctx, reference)
		return "", err
	}
	return outcome, nil
}

func (u *webhookUC) releaseMarker(ctx context.Context, reference string) {
	if u.seen == nil {
		return
	}
	if err := u.seen.Forget(ctx, reference); err != nil {
		u.log.Warn().Err(err).Str("reference", reference).Msg("releasing dedup marker failed")
	}
}

// applyOrderPayment completes a card order. The status flip is a conditional
// update (no read-then-write window) and the audit append shares its
// transaction, so either both land or neither does.
func (u *webhookUC) applyOrderPayment(ctx context.Context, orderID, reference string, amount int64, paidAt time.Time) (WebhookOutcome, error) {
	o, err := u.orders.FindByID(ctx, nil, orderID)
	if err != nil {
		if err == domain.ErrNotFound {
			u.log.Warn().Str("order_id", orderID).Str("reference", reference).Msg("order missing; ignoring")
			return OutcomeIgnored, nil
		}
		return "", err
	}

	outcome := OutcomeAppliedOrder
	err = u.tm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		appended, err := u.audit.AppendOrderLog(ctx, tx, model.NewOrderLog(o.ID, amount, reference, paidAt))
		if err != nil {
			return err
		}
		if !appended {
			outcome = OutcomeDuplicate
			return nil
		}
		completed, err := u.orders.CompletePayment(ctx, tx, o.ID)
		if err != nil {
			return err
		}
		if !completed {
			outcome = OutcomeDuplicate
			return nil
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if outcome == OutcomeAppliedOrder {
		metrics.AddOrderRevenue(o.TotalPayable())
		u.log.Info().Str("order", o.Code).Str("reference", reference).Msg("order payment completed")
	}
	return outcome, nil
}

// applyPlanPayment activates a user's subscription when the paid amount
// exactly matches the plan's monthly or yearly price.
func (u *webhookUC) applyPlanPayment(ctx context.Context, userID, planID, reference string, amount int64, paidAt time.Time) (WebhookOutcome, error) {
	user, err := u.users.FindByID(ctx, nil, userID)
	if err != nil {
		if err == domain.ErrNotFound {
			u.log.Warn().Str("user_id", userID).Str("reference", reference).Msg("user missing; ignoring")
			return OutcomeIgnored, nil
		}
		return "", err
	}
	plan, err := u.plans.FindByID(ctx, nil, planID)
	if err != nil {
		if err == domain.ErrNotFound {
			u.log.Warn().Str("plan_id", planID).Str("reference", reference).Msg("plan missing; ignoring")
			return OutcomeIgnored, nil
		}
		return "", err
	}

	cycle, ok := plan.MatchCycle(amount)
	if !ok {
		u.log.Warn().Str("user_id", user.ID).Str("plan_id", plan.ID).Int64("amount", amount).
			Str("reference", reference).Msg("amount matches no plan price; ignoring")
		return OutcomeIgnored, nil
	}
	expiresAt := model.CycleExpiry(paidAt, cycle)

	outcome := OutcomeAppliedPlan
	err = u.tm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		appended, err := u.audit.AppendPaymentLog(ctx, tx, model.NewPaymentLog(user.ID, plan.ID, amount, reference, paidAt))
		if err != nil {
			return err
		}
		if !appended {
			outcome = OutcomeDuplicate
			return nil
		}
		snap := model.PaymentSnapshot{Reference: reference, Amount: amount, PaidAt: paidAt}
		return u.users.Activate(ctx, tx, user.ID, plan.ID, cycle, expiresAt, snap)
	})
	if err != nil {
		return "", err
	}
	if outcome == OutcomeAppliedPlan {
		u.log.Info().Str("user_id", user.ID).Str("plan_id", plan.ID).Str("cycle", string(cycle)).
			Time("expires_at", expiresAt).Msg("subscription activated")
	}
	return outcome, nil
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}
