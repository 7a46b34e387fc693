package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"freshcart-backend/internal/infra/metrics"
	"freshcart-backend/internal/usecase"
)

// ExpiryWorker periodically flips overdue ACTIVE subscriptions to EXPIRED.
// A just-expired subscription may stay usable for up to one interval; that
// tolerance is part of the contract.
type ExpiryWorker struct {
	interval time.Duration
	subs     usecase.SubscriptionUseCase
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, subs usecase.SubscriptionUseCase, logger *zerolog.Logger) *ExpiryWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	l := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{interval: interval, subs: subs, log: &l}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.subs.ExpireOverdue(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("expiry sweep error")
				continue
			}
			if n > 0 {
				metrics.AddSubscriptionsExpired(n)
				w.log.Info().Int64("count", n).Msg("subscriptions expired")
			}
		}
	}
}
