package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the kitchen counters and HTTP instrumentation. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ItemTransitions *prometheus.CounterVec
	OrdersCompleted prometheus.Counter
	PaymentsSettled prometheus.Counter
	ViewCache       *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	HTTPRequests    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ItemTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kitchen",
				Subsystem: "items",
				Name:      "transitions_total",
				Help:      "Item status transitions by target status",
			},
			[]string{"status"},
		),
		OrdersCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kitchen",
			Subsystem: "orders",
			Name:      "completed_total",
			Help:      "Orders completed because every item was served",
		}),
		PaymentsSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kitchen",
			Subsystem: "orders",
			Name:      "payments_settled_total",
			Help:      "Orders marked paid on completion",
		}),
		ViewCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kitchen",
				Subsystem: "view",
				Name:      "cache_lookups_total",
				Help:      "Kitchen view cache lookups by result",
			},
			[]string{"result"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "api",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "api",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
	m.registry.MustRegister(
		m.ItemTransitions, m.OrdersCompleted, m.PaymentsSettled, m.ViewCache,
		m.HTTPDuration, m.HTTPRequests,
	)
	return m
}

func (m *Metrics) ItemTransition(status string) {
	if m == nil {
		return
	}
	m.ItemTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) OrderCompleted(paymentSettled bool) {
	if m == nil {
		return
	}
	m.OrdersCompleted.Inc()
	if paymentSettled {
		m.PaymentsSettled.Inc()
	}
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ViewCache.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records latency and count per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		m.HTTPRequests.With(labels).Inc()
		m.HTTPDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
