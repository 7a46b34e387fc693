package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"freshcart-backend/internal/domain"
	"freshcart-backend/internal/domain/model"
	"freshcart-backend/internal/domain/ports/adapter"
	"freshcart-backend/internal/domain/ports/repository"
	"freshcart-backend/internal/infra/metrics"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

// CreateOrderInput is the validated boundary DTO for order creation.
type CreateOrderInput struct {
	UserID          string
	Items           []model.OrderItem
	Email           string
	NameOnCard      string
	ShippingAddress string
	PaymentMethod   model.PaymentMethod
	DeliveryFee     int64
	Discount        int
}

// CreateOrderResult carries the persisted order plus, for card payments, the
// provider session to redirect the client to.
type CreateOrderResult struct {
	Order            *model.Order
	Reference        string
	AuthorizationURL string
}

type OrderUseCase interface {
	Create(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, offset, limit int) ([]*model.Order, error)
	UpdateShippingStatus(ctx context.Context, id string, status model.ShippingStatus) (*model.Order, error)
	Cancel(ctx context.Context, id string) (*model.Order, error)
}

type orderUC struct {
	orders   repository.OrderRepository
	counters repository.CounterRepository
	gateway  adapter.PaymentGateway
	log      *zerolog.Logger
}

func NewOrderUseCase(orders repository.OrderRepository, counters repository.CounterRepository, gateway adapter.PaymentGateway, logger *zerolog.Logger) *orderUC {
	l := logger.With().Str("component", "OrderUC").Logger()
	return &orderUC{orders: orders, counters: counters, gateway: gateway, log: &l}
}

// Create persists the order with computed totals. Cash orders are Completed
// immediately; Card orders stay Pending and a provider session is opened for
// them. A provider failure leaves the Pending order in place so payment can
// be retried against it.
func (u *orderUC) Create(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	year := time.Now().Year()
	seq, err := u.counters.Next(ctx, nil, fmt.Sprintf("orders:%d", year))
	if err != nil {
		return nil, fmt.Errorf("allocate order code: %w", err)
	}
	code := model.FormatOrderCode(year, seq)

	o, err := model.NewOrder("", code, in.UserID, in.Email, in.Items, in.PaymentMethod, in.DeliveryFee, in.Discount, in.ShippingAddress, in.NameOnCard)
	if err != nil {
		return nil, err
	}
	if err := u.orders.Save(ctx, nil, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	metrics.IncOrderCreated(string(o.PaymentMethod))

	if o.PaymentMethod == model.PaymentMethodCash {
		metrics.AddOrderRevenue(o.TotalPayable())
		u.log.Info().Str("order", o.Code).Int64("total", o.TotalPayable()).Msg("cash order created")
		return &CreateOrderResult{Order: o}, nil
	}

	session, err := u.gateway.Initialize(ctx, o.Email, toMinorUnits(o.TotalPayable()), map[string]any{
		"order_id":   o.ID,
		"order_code": o.Code,
	})
	if err != nil {
		u.log.Error().Err(err).Str("order", o.Code).Msg("provider session failed; order left pending")
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}

	o.PaymentReference = session.Reference
	if err := u.orders.Save(ctx, nil, o); err != nil {
		u.log.Error().Err(err).Str("order", o.Code).Msg("recording payment reference failed")
	}

	u.log.Info().Str("order", o.Code).Str("reference", session.Reference).Msg("card order created")
	return &CreateOrderResult{
		Order:            o,
		Reference:        session.Reference,
		AuthorizationURL: session.AuthorizationURL,
	}, nil
}

func (u *orderUC) Get(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.FindByID(ctx, nil, id)
}

func (u *orderUC) List(ctx context.Context, offset, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return u.orders.List(ctx, nil, offset, limit)
}

// UpdateShippingStatus transitions the shipping status. The update is a
// single conditional write; an order already Delivered or Cancelled rejects
// the transition.
func (u *orderUC) UpdateShippingStatus(ctx context.Context, id string, status model.ShippingStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	updated, err := u.orders.UpdateShippingStatus(ctx, nil, id, status)
	if err != nil {
		metrics.IncOrderStatusUpdate(string(status), "error")
		return nil, err
	}
	if !updated {
		metrics.IncOrderStatusUpdate(string(status), "rejected")
		return nil, domain.ErrTerminalOrderState
	}
	metrics.IncOrderStatusUpdate(string(status), "ok")
	return u.orders.FindByID(ctx, nil, id)
}

func (u *orderUC) Cancel(ctx context.Context, id string) (*model.Order, error) {
	return u.UpdateShippingStatus(ctx, id, model.ShippingStatusCancelled)
}

// toMinorUnits converts a major-unit amount to the provider's kobo.
func toMinorUnits(amount int64) int64 { return amount * 100 }

// fromMinorUnits converts a provider kobo amount back to major units.
func fromMinorUnits(amount int64) int64 { return amount / 100 }
