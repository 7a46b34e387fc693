package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freshcart-backend/internal/config"
	"freshcart-backend/internal/domain/ports/repository"
	pg "freshcart-backend/internal/infra/db/postgres"
	"freshcart-backend/internal/infra/logging"
	"freshcart-backend/internal/infra/metrics"
	"freshcart-backend/internal/infra/payment"
	red "freshcart-backend/internal/infra/redis"
	"freshcart-backend/internal/infra/sched"
	"freshcart-backend/internal/infra/web"
	"freshcart-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	// ---- Redis (optional: only dedup fast path and plan cache depend on it) ----
	var redisClient red.RedisClient
	if cfg.Redis.URL != "" {
		redisClient, err = red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable; continuing without cache")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	orderRepo := pg.NewOrderRepo(pool)
	counterRepo := pg.NewCounterRepo(pool)
	productRepo := pg.NewProductRepo(pool)
	auditRepo := pg.NewAuditLogRepo(pool)
	txManager := pg.NewTxManager(pool)

	var planRepo repository.PlanRepository = pg.NewPlanRepo(pool)
	if redisClient != nil {
		planRepo = pg.NewPlanRepoCacheDecorator(planRepo, redisClient, cfg.Redis.TTL)
	}

	// ---- Payment gateway ----
	gateway := payment.NewPaystackGateway(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL)

	// ---- Use cases ----
	var refCache usecase.ReferenceCache
	if redisClient != nil {
		refCache = red.NewReferenceCache(redisClient, 24*time.Hour)
	}
	subUC := usecase.NewSubscriptionUseCase(userRepo, planRepo, logger)
	userUC := usecase.NewUserUseCase(userRepo, subUC, logger)
	orderUC := usecase.NewOrderUseCase(orderRepo, counterRepo, gateway, logger)
	productUC := usecase.NewProductUseCase(productRepo)
	webhookUC := usecase.NewWebhookUseCase(orderRepo, userRepo, planRepo, auditRepo, txManager, gateway, refCache, logger)

	// ---- HTTP server ----
	authManager := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	srv := web.NewServer(userUC, orderUC, subUC, productUC, webhookUC, authManager, cfg.Paystack.SecretKey, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Background workers ----
	expiry := sched.NewExpiryWorker(cfg.Scheduler.ExpiryInterval, subUC, logger)
	go func() { _ = expiry.Run(ctx) }()

	reconciler := sched.NewPaymentReconciler(webhookUC, orderRepo, cfg.Scheduler.ReconcileInterval, cfg.Scheduler.ReconcileAfter, logger)
	go func() { _ = reconciler.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
}
