package model

import (
	"time"

	"freshcart-backend/internal/domain"
)

// Plan is a purchasable subscription plan with a monthly and a yearly price,
// both in major currency units.
type Plan struct {
	ID           string
	Name         string
	MonthlyPrice int64
	YearlyPrice  int64
	CreatedAt    time.Time
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

func NewPlan(id, name string, monthlyPrice, yearlyPrice int64) (*Plan, error) {
	if id == "" || name == "" || monthlyPrice <= 0 || yearlyPrice <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		ID:           id,
		Name:         name,
		MonthlyPrice: monthlyPrice,
		YearlyPrice:  yearlyPrice,
		CreatedAt:    time.Now(),
	}, nil
}

// MatchCycle maps an exact paid amount to a billing cycle. Partial, over and
// under payments match nothing.
func (p *Plan) MatchCycle(amount int64) (BillingCycle, bool) {
	switch amount {
	case p.MonthlyPrice:
		return BillingCycleMonthly, true
	case p.YearlyPrice:
		return BillingCycleYearly, true
	}
	return "", false
}

// CycleExpiry computes the expiry of a subscription paid at `from`.
func CycleExpiry(from time.Time, cycle BillingCycle) time.Time {
	if cycle == BillingCycleYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}
