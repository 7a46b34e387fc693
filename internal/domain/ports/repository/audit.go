package repository

import (
	"context"

	"freshcart-backend/internal/domain/model"
)

// AuditLogRepository appends immutable payment audit rows. Both appends are
// conditional on the unique reference: they report false (and no error) when
// a row for the reference already exists.
type AuditLogRepository interface {
	AppendPaymentLog(ctx context.Context, tx Tx, l *model.PaymentLog) (bool, error)
	AppendOrderLog(ctx context.Context, tx Tx, l *model.OrderLog) (bool, error)
}
