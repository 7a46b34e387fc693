package web_test

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"freshcart-backend/internal/domain"
	"freshcart-backend/internal/domain/model"
	"freshcart-backend/internal/infra/web"
	"freshcart-backend/internal/usecase"
)

const testWebhookSecret = "sk_test_secret"

// Stub use cases with overridable behavior, so each HTTP test pins down only
// the calls it cares about.

type stubUserUC struct {
	RegisterFunc func(ctx context.Context, email, name, password string) (*model.User, error)
	LoginFunc    func(ctx context.Context, email, password string) (*model.User, error)
	GetFunc      func(ctx context.Context, id string) (*model.User, error)
}

var _ usecase.UserUseCase = (*stubUserUC)(nil)

func (s *stubUserUC) Register(ctx context.Context, email, name, password string) (*model.User, error) {
	if s.RegisterFunc != nil {
		return s.RegisterFunc(ctx, email, name, password)
	}
	return nil, domain.ErrOperationFailed
}

func (s *stubUserUC) Login(ctx context.Context, email, password string) (*model.User, error) {
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, email, password)
	}
	return nil, domain.ErrInvalidCredentials
}

func (s *stubUserUC) Get(ctx context.Context, id string) (*model.User, error) {
	if s.GetFunc != nil {
		return s.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

type stubOrderUC struct {
	CreateFunc       func(ctx context.Context, in usecase.CreateOrderInput) (*usecase.CreateOrderResult, error)
	GetFunc          func(ctx context.Context, id string) (*model.Order, error)
	ListFunc         func(ctx context.Context, offset, limit int) ([]*model.Order, error)
	UpdateStatusFunc func(ctx context.Context, id string, status model.ShippingStatus) (*model.Order, error)
	CancelFunc       func(ctx context.Context, id string) (*model.Order, error)
}

var _ usecase.OrderUseCase = (*stubOrderUC)(nil)

func (s *stubOrderUC) Create(ctx context.Context, in usecase.CreateOrderInput) (*usecase.CreateOrderResult, error) {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, in)
	}
	return nil, domain.ErrOperationFailed
}

func (s *stubOrderUC) Get(ctx context.Context, id string) (*model.Order, error) {
	if s.GetFunc != nil {
		return s.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (s *stubOrderUC) List(ctx context.Context, offset, limit int) ([]*model.Order, error) {
	if s.ListFunc != nil {
		return s.ListFunc(ctx, offset, limit)
	}
	return nil, nil
}

func (s *stubOrderUC) UpdateShippingStatus(ctx context.Context, id string, status model.ShippingStatus) (*model.Order, error) {
	if s.UpdateStatusFunc != nil {
		return s.UpdateStatusFunc(ctx, id, status)
	}
	return nil, domain.ErrNotFound
}

func (s *stubOrderUC) Cancel(ctx context.Context, id string) (*model.Order, error) {
	if s.CancelFunc != nil {
		return s.CancelFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

type stubSubscriptionUC struct {
	SelectPlanFunc    func(ctx context.Context, userID, planID string) (*model.User, error)
	ExpireOverdueFunc func(ctx context.Context) (int64, error)
	RefreshFunc       func(ctx context.Context, user *model.User) (*model.User, error)
	ListPlansFunc     func(ctx context.Context) ([]*model.Plan, error)
}

var _ usecase.SubscriptionUseCase = (*stubSubscriptionUC)(nil)

func (s *stubSubscriptionUC) SelectPlan(ctx context.Context, userID, planID string) (*model.User, error) {
	if s.SelectPlanFunc != nil {
		return s.SelectPlanFunc(ctx, userID, planID)
	}
	return nil, domain.ErrNotFound
}

func (s *stubSubscriptionUC) ExpireOverdue(ctx context.Context) (int64, error) {
	if s.ExpireOverdueFunc != nil {
		return s.ExpireOverdueFunc(ctx)
	}
	return 0, nil
}

func (s *stubSubscriptionUC) RefreshStatus(ctx context.Context, user *model.User) (*model.User, error) {
	if s.RefreshFunc != nil {
		return s.RefreshFunc(ctx, user)
	}
	return user, nil
}

func (s *stubSubscriptionUC) ListPlans(ctx context.Context) ([]*model.Plan, error) {
	if s.ListPlansFunc != nil {
		return s.ListPlansFunc(ctx)
	}
	return nil, nil
}

type stubProductUC struct {
	CreateFunc func(ctx context.Context, name, category string, price int64, stock int) (*model.Product, error)
	GetFunc    func(ctx context.Context, id string) (*model.Product, error)
	ListFunc   func(ctx context.Context, category string, offset, limit int) ([]*model.Product, error)
	UpdateFunc func(ctx context.Context, p *model.Product) (*model.Product, error)
	DeleteFunc func(ctx context.Context, id string) error
}

var _ usecase.ProductUseCase = (*stubProductUC)(nil)

func (s *stubProductUC) Create(ctx context.Context, name, category string, price int64, stock int) (*model.Product, error) {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, name, category, price, stock)
	}
	return nil, domain.ErrOperationFailed
}

func (s *stubProductUC) Get(ctx context.Context, id string) (*model.Product, error) {
	if s.GetFunc != nil {
		return s.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductUC) List(ctx context.Context, category string, offset, limit int) ([]*model.Product, error) {
	if s.ListFunc != nil {
		return s.ListFunc(ctx, category, offset, limit)
	}
	return nil, nil
}

func (s *stubProductUC) Update(ctx context.Context, p *model.Product) (*model.Product, error) {
	if s.UpdateFunc != nil {
		return s.UpdateFunc(ctx, p)
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductUC) Delete(ctx context.Context, id string) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, id)
	}
	return domain.ErrNotFound
}

type stubWebhookUC struct {
	Calls       int
	ProcessFunc func(ctx context.Context, reference string, meta map[string]any) (usecase.WebhookOutcome, error)
}

var _ usecase.WebhookUseCase = (*stubWebhookUC)(nil)

func (s *stubWebhookUC) ProcessChargeSuccess(ctx context.Context, reference string, meta map[string]any) (usecase.WebhookOutcome, error) {
	s.Calls++
	if s.ProcessFunc != nil {
		return s.ProcessFunc(ctx, reference, meta)
	}
	return usecase.OutcomeAppliedOrder, nil
}

type serverDeps struct {
	users    *stubUserUC
	orders   *stubOrderUC
	subs     *stubSubscriptionUC
	products *stubProductUC
	webhooks *stubWebhookUC
	auth     *web.AuthManager
}

func newServerDeps() *serverDeps {
	return &serverDeps{
		users:    &stubUserUC{},
		orders:   &stubOrderUC{},
		subs:     &stubSubscriptionUC{},
		products: &stubProductUC{},
		webhooks: &stubWebhookUC{},
		auth:     web.NewAuthManager("test-jwt-secret", time.Hour),
	}
}

func (d *serverDeps) handler() *web.Server {
	l := zerolog.New(io.Discard)
	return web.NewServer(d.users, d.orders, d.subs, d.products, d.webhooks, d.auth, testWebhookSecret, &l)
}
