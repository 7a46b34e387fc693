package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionsExpiredTotal,
		ordersReconciledTotal,
		cacheRequestsTotal,
	)
}

var (
	subscriptionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Subscriptions flipped to EXPIRED by the sweep.",
		},
	)

	ordersReconciledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_reconciled_total",
			Help: "Stale pending card orders completed by the reconciler.",
		},
	)

	cacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache lookups by keyspace and result (hit/miss).",
		},
		[]string{"keyspace", "result"},
	)
)

func AddSubscriptionsExpired(n int64) {
	subscriptionsExpiredTotal.Add(float64(n))
}

func IncOrdersReconciled() {
	ordersReconciledTotal.Inc()
}

func IncCacheRequest(keyspace, result string) {
	cacheRequestsTotal.WithLabelValues(norm(keyspace), norm(result)).Inc()
}
