package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"freshcart-backend/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*PaystackGateway)(nil)

// PaystackGateway implements adapter.PaymentGateway with direct HTTP calls to
// the Paystack API. Amounts are in kobo on the wire.
type PaystackGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewPaystackGateway(secretKey, baseURL string) *PaystackGateway {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &PaystackGateway{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *PaystackGateway) Name() string { return "paystack" }

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference string         `json:"reference"`
		Status    string         `json:"status"`
		Amount    int64          `json:"amount"`
		PaidAt    string         `json:"paid_at"`
		Metadata  map[string]any `json:"metadata"`
	} `json:"data"`
}

// Initialize creates a hosted payment session and returns its reference and
// redirect URL.
func (g *PaystackGateway) Initialize(ctx context.Context, email string, amount int64, metadata map[string]any) (*adapter.InitializeResult, error) {
	payload := map[string]any{
		"email":  email,
		"amount": amount,
	}
	if metadata != nil {
		payload["metadata"] = metadata
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal initialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create initialize request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send initialize request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read initialize response: %w", err)
	}
	var out initializeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal initialize response: %w", err)
	}
	if !out.Status {
		return nil, fmt.Errorf("paystack initialize rejected: %s", out.Message)
	}
	return &adapter.InitializeResult{
		Reference:        out.Data.Reference,
		AuthorizationURL: out.Data.AuthorizationURL,
		AccessCode:       out.Data.AccessCode,
	}, nil
}

// Verify fetches the provider's view of a charge by reference.
func (g *PaystackGateway) Verify(ctx context.Context, reference string) (*adapter.Transaction, error) {
	u := g.baseURL + "/transaction/verify/" + url.PathEscape(reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send verify request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read verify response: %w", err)
	}
	var out verifyResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal verify response: %w", err)
	}
	if !out.Status {
		return nil, fmt.Errorf("paystack verify rejected: %s", out.Message)
	}

	tx := &adapter.Transaction{
		Reference: out.Data.Reference,
		Status:    out.Data.Status,
		Amount:    out.Data.Amount,
		Metadata:  out.Data.Metadata,
	}
	if out.Data.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, out.Data.PaidAt); err == nil {
			tx.PaidAt = t
		}
	}
	return tx, nil
}
