package model

import (
	"strings"
	"time"

	"freshcart-backend/internal/domain"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusIncomplete   SubscriptionStatus = "INCOMPLETE"
	SubscriptionStatusPlanSelected SubscriptionStatus = "PLAN_SELECTED"
	SubscriptionStatusActive       SubscriptionStatus = "ACTIVE"
	SubscriptionStatusExpired      SubscriptionStatus = "EXPIRED"
)

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

// PaymentSnapshot is the last verified payment recorded on the user.
type PaymentSnapshot struct {
	Reference string    `json:"reference"`
	Amount    int64     `json:"amount"`
	PaidAt    time.Time `json:"paid_at"`
}

// User is a customer account with its subscription lifecycle fields.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	IsAdmin      bool

	SubscriptionStatus SubscriptionStatus
	PlanID             *string
	BillingCycle       *BillingCycle
	PlanExpiresAt      *time.Time
	LastPayment        *PaymentSnapshot

	CreatedAt time.Time
}

func NewUser(id, email, name, passwordHash string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		ID:                 id,
		Email:              email,
		Name:               name,
		PasswordHash:       passwordHash,
		SubscriptionStatus: SubscriptionStatusIncomplete,
		CreatedAt:          time.Now(),
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }

// PlanExpired reports whether an ACTIVE subscription has passed its expiry.
func (u *User) PlanExpired(now time.Time) bool {
	return u.SubscriptionStatus == SubscriptionStatusActive &&
		u.PlanExpiresAt != nil && u.PlanExpiresAt.Before(now)
}
