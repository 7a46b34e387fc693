package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// PaymentLog is an immutable audit row for a verified plan payment.
// Reference is unique; a second row for the same reference never lands, which
// is the dedup backstop against duplicate webhook delivery.
type PaymentLog struct {
	ID        string
	UserID    string
	PlanID    string
	Amount    int64
	Reference string
	PaidAt    time.Time
}

// OrderLog is the order-payment counterpart of PaymentLog.
type OrderLog struct {
	ID        string
	OrderID   string
	Amount    int64
	Reference string
	PaidAt    time.Time
}

func NewPaymentLog(userID, planID string, amount int64, reference string, paidAt time.Time) *PaymentLog {
	return &PaymentLog{
		ID:        ulid.Make().String(),
		UserID:    userID,
		PlanID:    planID,
		Amount:    amount,
		Reference: reference,
		PaidAt:    paidAt,
	}
}

func NewOrderLog(orderID string, amount int64, reference string, paidAt time.Time) *OrderLog {
	return &OrderLog{
		ID:        ulid.Make().String(),
		OrderID:   orderID,
		Amount:    amount,
		Reference: reference,
		PaidAt:    paidAt,
	}
}
