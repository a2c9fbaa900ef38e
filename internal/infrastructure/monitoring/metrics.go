package monitoring

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status_code"},
	)
)

var (
	CartMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Total number of cart mutations by operation and result",
		},
		[]string{"op", "result"},
	)

	CartLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_loads_total",
			Help: "Total number of cart restores by outcome",
		},
		[]string{"outcome"},
	)

	CartSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cart_sessions_active",
			Help: "Number of cart sessions held in memory",
		},
	)

	CartSessionsEvictedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_sessions_evicted_total",
			Help: "Total number of idle cart sessions evicted",
		},
	)
)

var (
	CheckoutAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_attempts_total",
			Help: "Total number of checkout attempts",
		},
	)

	OrdersPlacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Total number of orders placed",
		},
	)

	OrderRevenueMinorUnits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_revenue_minor_units_total",
			Help: "Sum of placed order totals in currency minor units",
		},
	)

	CheckoutFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_failure_total",
			Help: "Total number of failed checkouts",
		},
		[]string{"reason"},
	)

	OrderStatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_changes_total",
			Help: "Total number of order status changes by new status",
		},
		[]string{"status"},
	)

	ReturnRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "return_requests_total",
			Help: "Total number of return requests by action",
		},
		[]string{"action"},
	)
)

var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	DBConnectionWaitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_connection_waits_total",
			Help: "Total number of times a query waited for a free connection",
		},
	)

	DBQueryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		},
		[]string{"query_type", "table"},
	)
)

var (
	RedisCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_command_duration_seconds",
			Help:    "Duration of Redis commands in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"command"},
	)

	RedisLockAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_lock_attempts_total",
			Help: "Total number of distributed lock attempts",
		},
		[]string{"lock_type"},
	)

	RedisLockSuccessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_lock_success_total",
			Help: "Total number of successful lock acquisitions",
		},
		[]string{"lock_type"},
	)

	RedisLockFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_lock_failure_total",
			Help: "Total number of failed lock acquisitions",
		},
		[]string{"lock_type", "reason"},
	)
)

func RecordCheckoutAttempt() {
	CheckoutAttemptsTotal.Inc()
}

func RecordOrderPlaced(totalMinorUnits int64) {
	OrdersPlacedTotal.Inc()
	OrderRevenueMinorUnits.Add(float64(totalMinorUnits))
}

func RecordCheckoutFailure(reason string) {
	CheckoutFailureTotal.WithLabelValues(reason).Inc()
}

func RecordOrderStatusChange(status string) {
	OrderStatusChangesTotal.WithLabelValues(status).Inc()
}

func RecordReturnRequest(action string) {
	ReturnRequestsTotal.WithLabelValues(action).Inc()
}

func RecordSessionsEvicted(n int, remaining int) {
	CartSessionsEvictedTotal.Add(float64(n))
	CartSessionsActive.Set(float64(remaining))
}

func RecordLockAttempt(lockKey string) {
	RedisLockAttemptsTotal.WithLabelValues(getLockType(lockKey)).Inc()
}

func RecordLockSuccess(lockKey string) {
	RedisLockSuccessTotal.WithLabelValues(getLockType(lockKey)).Inc()
}

func RecordLockFailure(lockKey, reason string) {
	RedisLockFailureTotal.WithLabelValues(getLockType(lockKey), reason).Inc()
}

// getLockType keeps label cardinality bounded: "checkout:<session>" -> "checkout".
func getLockType(lockKey string) string {
	prefix, _, found := strings.Cut(lockKey, ":")
	if !found || prefix == "" {
		return "unknown"
	}
	switch prefix {
	case "checkout":
		return prefix
	default:
		return "other"
	}
}
