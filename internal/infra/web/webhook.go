package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"freshcart-backend/internal/infra/metrics"
	"freshcart-backend/internal/infra/payment"
)

// webhookEvent is the subset of the Paystack event envelope this service
// reads. The body is parsed only after the signature over the raw bytes has
// been verified.
type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string         `json:"reference"`
		Status    string         `json:"status"`
		Amount    int64          `json:"amount"`
		Metadata  map[string]any `json:"metadata"`
	} `json:"data"`
}

// maxWebhookBody caps how much of an incoming event we will buffer; Paystack
// payloads are a few KB.
const maxWebhookBody = 1 << 20

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "unreadable body")
		return
	}

	if !payment.VerifyWebhookSignature(s.webhookSecret, body, r.Header.Get("x-paystack-signature")) {
		metrics.IncWebhookEvent("rejected")
		s.log.Warn().Msg("webhook signature mismatch")
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid signature")
		return
	}

	var evt webhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		// Authenticated but malformed; acknowledge so the provider does not
		// redeliver a payload we can never parse.
		metrics.IncWebhookEvent("ignored")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	// Only successful charge events carry a state transition.
	if evt.Event != "charge.success" || !strings.EqualFold(evt.Data.Status, "success") {
		metrics.IncWebhookEvent("ignored")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	outcome, err := s.webhooks.ProcessChargeSuccess(r.Context(), evt.Data.Reference, evt.Data.Metadata)
	if err != nil {
		// Provider re-verification or storage failed; a 500 makes Paystack
		// redeliver later. No state was mutated.
		metrics.IncWebhookEvent("error")
		s.log.Error().Err(err).Str("reference", evt.Data.Reference).Msg("webhook processing failed")
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}

	metrics.IncWebhookEvent(string(outcome))
	writeJSON(w, http.StatusOK, map[string]string{"status": string(outcome)})
}
