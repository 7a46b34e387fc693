package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		webhookEventsTotal,
		paymentsVerifiedTotal,
	)
}

var (
	webhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhook_events_total",
			Help: "Webhook deliveries by outcome (applied_plan/applied_order/ignored/duplicate/rejected/error).",
		},
		[]string{"outcome"},
	)

	paymentsVerifiedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_verified_total",
			Help: "Provider verification calls by result.",
		},
		[]string{"result"},
	)
)

func IncWebhookEvent(outcome string) {
	webhookEventsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncPaymentVerified(result string) {
	paymentsVerifiedTotal.WithLabelValues(norm(result)).Inc()
}
