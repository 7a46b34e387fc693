package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		ordersCreatedTotal,
		ordersRevenueTotal,
		orderStatusUpdatesTotal,
	)
}

var (
	ordersCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders created, labeled by payment method (card/cash).",
		},
		[]string{"method"},
	)

	ordersRevenueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_revenue_total",
			Help: "Total payable value of completed orders.",
		},
	)

	orderStatusUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_updates_total",
			Help: "Shipping status transitions, labeled by target status and outcome.",
		},
		[]string{"status", "outcome"},
	)
)

func IncOrderCreated(method string) {
	ordersCreatedTotal.WithLabelValues(norm(method)).Inc()
}

func AddOrderRevenue(amount int64) {
	ordersRevenueTotal.Add(float64(amount))
}

func IncOrderStatusUpdate(status, outcome string) {
	orderStatusUpdatesTotal.WithLabelValues(norm(status), norm(outcome)).Inc()
}
