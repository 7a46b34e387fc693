//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"freshcart-backend/internal/domain"
	"freshcart-backend/internal/domain/model"
	"freshcart-backend/internal/domain/ports/adapter"
	"freshcart-backend/internal/domain/ports/repository"
)

// =============================
// Repositories
// =============================

// MockOrderRepo is a small in-memory implementation used by unit tests.
type MockOrderRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Order

	SaveFunc            func(ctx context.Context, tx repository.Tx, o *model.Order) error
	CompletePaymentFunc func(ctx context.Context, tx repository.Tx, id string) (bool, error)
}

var _ repository.OrderRepository = (*MockOrderRepo)(nil)

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{store: make(map[string]*model.Order)}
}

func (m *MockOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, tx, o); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.store[o.ID] = &cp
	return nil
}

func (m *MockOrderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrderRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Order
	for _, o := range m.store {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockOrderRepo) UpdateShippingStatus(ctx context.Context, tx repository.Tx, id string, status model.ShippingStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if o.ShippingStatus.Terminal() {
		return false, nil
	}
	o.ShippingStatus = status
	return true, nil
}

func (m *MockOrderRepo) CompletePayment(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	if m.CompletePaymentFunc != nil {
		return m.CompletePaymentFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if o.PaymentStatus == model.PaymentStatusCompleted {
		return false, nil
	}
	o.PaymentStatus = model.PaymentStatusCompleted
	return true, nil
}

func (m *MockOrderRepo) ListPendingCardOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time, limit int) ([]*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Order
	for _, o := range m.store {
		if o.PaymentMethod == model.PaymentMethodCard && o.PaymentStatus == model.PaymentStatusPending && o.CreatedAt.Before(cutoff) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MockCounterRepo hands out sequence numbers per name.
type MockCounterRepo struct {
	mu   sync.Mutex
	seqs map[string]int64

	NextFunc func(ctx context.Context, tx repository.Tx, name string) (int64, error)
}

var _ repository.CounterRepository = (*MockCounterRepo)(nil)

func NewMockCounterRepo() *MockCounterRepo {
	return &MockCounterRepo{seqs: make(map[string]int64)}
}

func (m *MockCounterRepo) Next(ctx context.Context, tx repository.Tx, name string) (int64, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, tx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqs[name]++
	return m.seqs[name], nil
}

// MockUserRepo keys users by ID and indexes email lookups linearly.
type MockUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User

	SaveFunc     func(ctx context.Context, tx repository.Tx, u *model.User) error
	ActivateFunc func(ctx context.Context, tx repository.Tx, userID, planID string, cycle model.BillingCycle, expiresAt time.Time, snap model.PaymentSnapshot) error
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: make(map[string]*model.User)}
}

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) SelectPlan(ctx context.Context, tx repository.Tx, userID, planID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.PlanID = &planID
	u.SubscriptionStatus = model.SubscriptionStatusPlanSelected
	return nil
}

func (m *MockUserRepo) Activate(ctx context.Context, tx repository.Tx, userID, planID string, cycle model.BillingCycle, expiresAt time.Time, snap model.PaymentSnapshot) error {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, tx, userID, planID, cycle, expiresAt, snap)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.SubscriptionStatus = model.SubscriptionStatusActive
	u.PlanID = &planID
	u.BillingCycle = &cycle
	u.PlanExpiresAt = &expiresAt
	u.LastPayment = &snap
	return nil
}

func (m *MockUserRepo) Expire(ctx context.Context, tx repository.Tx, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.SubscriptionStatus = model.SubscriptionStatusExpired
	return nil
}

func (m *MockUserRepo) ExpireOverdue(ctx context.Context, tx repository.Tx, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.store {
		if u.SubscriptionStatus == model.SubscriptionStatusActive && u.PlanExpiresAt != nil && u.PlanExpiresAt.Before(now) {
			u.SubscriptionStatus = model.SubscriptionStatusExpired
			n++
		}
	}
	return n, nil
}

type MockPlanRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Plan
}

var _ repository.PlanRepository = (*MockPlanRepo)(nil)

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{store: make(map[string]*model.Plan)}
}

func (m *MockPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Plan
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockPlanRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

type MockProductRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Product
}

var _ repository.ProductRepository = (*MockProductRepo)(nil)

func NewMockProductRepo() *MockProductRepo {
	return &MockProductRepo{store: make(map[string]*model.Product)}
}

func (m *MockProductRepo) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockProductRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProductRepo) List(ctx context.Context, tx repository.Tx, category string, offset, limit int) ([]*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Product
	for _, p := range m.store {
		if category != "" && p.Category != category {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockProductRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// MockAuditRepo enforces the unique-reference rule the way the real table
// does: a second append with the same reference reports false.
type MockAuditRepo struct {
	mu         sync.Mutex
	references map[string]bool
	OrderLogs  []*model.OrderLog
	PlanLogs   []*model.PaymentLog

	AppendOrderLogFunc   func(ctx context.Context, tx repository.Tx, l *model.OrderLog) (bool, error)
	AppendPaymentLogFunc func(ctx context.Context, tx repository.Tx, l *model.PaymentLog) (bool, error)
}

var _ repository.AuditLogRepository = (*MockAuditRepo)(nil)

func NewMockAuditRepo() *MockAuditRepo {
	return &MockAuditRepo{references: make(map[string]bool)}
}

func (m *MockAuditRepo) AppendPaymentLog(ctx context.Context, tx repository.Tx, l *model.PaymentLog) (bool, error) {
	if m.AppendPaymentLogFunc != nil {
		return m.AppendPaymentLogFunc(ctx, tx, l)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.references[l.Reference] {
		return false, nil
	}
	m.references[l.Reference] = true
	m.PlanLogs = append(m.PlanLogs, l)
	return true, nil
}

func (m *MockAuditRepo) AppendOrderLog(ctx context.Context, tx repository.Tx, l *model.OrderLog) (bool, error) {
	if m.AppendOrderLogFunc != nil {
		return m.AppendOrderLogFunc(ctx, tx, l)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.references[l.Reference] {
		return false, nil
	}
	m.references[l.Reference] = true
	m.OrderLogs = append(m.OrderLogs, l)
	return true, nil
}

// MockTxManager runs fn directly; rollback is simulated only in the sense
// that fn's error propagates.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, fn)
	}
	return fn(ctx, nil)
}

// =============================
// Adapters
// =============================

type MockPaymentGateway struct {
	mu sync.Mutex

	InitializeFunc func(ctx context.Context, email string, amount int64, metadata map[string]any) (*adapter.InitializeResult, error)
	VerifyFunc     func(ctx context.Context, reference string) (*adapter.Transaction, error)

	Calls struct {
		Initialize int
		Verify     []string
	}
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) Initialize(ctx context.Context, email string, amount int64, metadata map[string]any) (*adapter.InitializeResult, error) {
	m.mu.Lock()
	m.Calls.Initialize++
	m.mu.Unlock()
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx, email, amount, metadata)
	}
	return &adapter.InitializeResult{Reference: "ref-test", AuthorizationURL: "https://checkout.example/ref-test"}, nil
}

func (m *MockPaymentGateway) Verify(ctx context.Context, reference string) (*adapter.Transaction, error) {
	m.mu.Lock()
	m.Calls.Verify = append(m.Calls.Verify, reference)
	m.mu.Unlock()
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, reference)
	}
	return &adapter.Transaction{Reference: reference, Status: "success", PaidAt: time.Now()}, nil
}

// MockReferenceCache mimics the Redis SETNX fast path.
type MockReferenceCache struct {
	mu   sync.Mutex
	seen map[string]bool

	MarkSeenFunc func(ctx context.Context, reference string) (bool, error)
	ForgetFunc   func(ctx context.Context, reference string) error
}

func NewMockReferenceCache() *MockReferenceCache {
	return &MockReferenceCache{seen: make(map[string]bool)}
}

func (m *MockReferenceCache) MarkSeen(ctx context.Context, reference string) (bool, error) {
	if m.MarkSeenFunc != nil {
		return m.MarkSeenFunc(ctx, reference)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[reference] {
		return false, nil
	}
	m.seen[reference] = true
	return true, nil
}

func (m *MockReferenceCache) Forget(ctx context.Context, reference string) error {
	if m.ForgetFunc != nil {
		return m.ForgetFunc(ctx, reference)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, reference)
	return nil
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}
