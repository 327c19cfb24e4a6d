package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cosysta_orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersCanceled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cosysta_orders_canceled_total",
		Help: "Total number of orders canceled",
	})

	StockClamped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cosysta_stock_clamped_total",
		Help: "Line items whose stock decrement drained the product to zero",
	})

	AdjustmentsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cosysta_inventory_adjustments_skipped_total",
		Help: "Line items skipped during stock adjustment (product vanished)",
	})

	NotifyFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cosysta_notification_failures_total",
		Help: "Best-effort notification transport failures",
	}, []string{"channel"})

	SubscriptionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cosysta_subscriptions_expired_total",
		Help: "Subscriptions transitioned to expired by the daily sweep",
	})

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cosysta_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cosysta_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		httpRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
		).Observe(time.Since(start).Seconds())
	}
}
