package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"freshcart-backend/internal/usecase"
)

type Server struct {
	users         usecase.UserUseCase
	orders        usecase.OrderUseCase
	subs          usecase.SubscriptionUseCase
	products      usecase.ProductUseCase
	webhooks      usecase.WebhookUseCase
	auth          *AuthManager
	webhookSecret string
	log           *zerolog.Logger
}

func NewServer(
	users usecase.UserUseCase,
	orders usecase.OrderUseCase,
	subs usecase.SubscriptionUseCase,
	products usecase.ProductUseCase,
	webhooks usecase.WebhookUseCase,
	auth *AuthManager,
	webhookSecret string,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "web").Logger()
	return &Server{
		users:         users,
		orders:        orders,
		subs:          subs,
		products:      products,
		webhooks:      webhooks,
		auth:          auth,
		webhookSecret: webhookSecret,
		log:           &l,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Raw-body route: the signature covers the exact bytes Paystack sent.
	r.Post("/payment/webhook", s.handleWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/products", s.handleProductList)
		r.Get("/products/{id}", s.handleProductGet)
		r.Get("/plans", s.handlePlanList)

		r.Post("/orders/create", s.handleOrderCreate)
		r.Get("/orders/{id}", s.handleOrderGet)
		r.Post("/orders/{id}/cancel", s.handleOrderCancel)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/plans/select", s.handlePlanSelect)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/orders", s.handleOrderList)
			r.Put("/orders/{id}/status", s.handleOrderStatusUpdate)
			r.Post("/products", s.handleProductCreate)
			r.Put("/products/{id}", s.handleProductUpdate)
			r.Delete("/products/{id}", s.handleProductDelete)
		})
	})

	return r
}
