package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"freshcart-backend/internal/domain/ports/repository"
	"freshcart-backend/internal/infra/metrics"
	"freshcart-backend/internal/usecase"
)

// PaymentReconciler scans for card orders still Pending long after creation
// and replays them through the webhook use case using the provider reference
// recorded at session open. This covers a lost webhook delivery or a crash
// mid-processing; the use case's idempotence makes the replay safe.
type PaymentReconciler struct {
	webhooks   usecase.WebhookUseCase
	orders     repository.OrderRepository
	interval   time.Duration
	staleAfter time.Duration
	log        *zerolog.Logger
}

func NewPaymentReconciler(webhooks usecase.WebhookUseCase, orders repository.OrderRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	l := logger.With().Str("component", "PaymentReconciler").Logger()
	return &PaymentReconciler{
		webhooks:   webhooks,
		orders:     orders,
		interval:   interval,
		staleAfter: staleAfter,
		log:        &l,
	}
}

func (w *PaymentReconciler) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	pending, err := w.orders.ListPendingCardOlderThan(ctx, nil, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("list stale pending orders failed")
		return
	}
	for _, o := range pending {
		if o.PaymentReference == "" {
			continue
		}
		outcome, err := w.webhooks.ProcessChargeSuccess(ctx, o.PaymentReference, map[string]any{"order_id": o.ID, "order_code": o.Code})
		if err != nil {
			w.log.Warn().Err(err).Str("order", o.Code).Msg("reconcile failed")
			continue
		}
		if outcome == usecase.OutcomeAppliedOrder {
			metrics.IncOrdersReconciled()
			w.log.Info().Str("order", o.Code).Msg("order reconciled")
		}
	}
}
