package adapter

import (
	"context"
	"time"
)

// InitializeResult is the hosted-payment-session handle returned by the
// provider: the client is redirected to AuthorizationURL and the reference
// comes back later in the webhook.
type InitializeResult struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
}

// Transaction is the provider's view of a charge, as returned by the
// verification endpoint. Amount is in minor units (kobo).
type Transaction struct {
	Reference string
	Status    string
	Amount    int64
	PaidAt    time.Time
	Metadata  map[string]any
}

// PaymentGateway abstracts the external payment provider. Amounts cross this
// boundary in minor units.
type PaymentGateway interface {
	Name() string
	Initialize(ctx context.Context, email string, amount int64, metadata map[string]any) (*InitializeResult, error)
	Verify(ctx context.Context, reference string) (*Transaction, error)
}
