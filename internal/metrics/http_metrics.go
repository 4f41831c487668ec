package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics records request counts and latencies on its own registry.
type HTTPMetrics struct {
	ServiceName string
	registry    *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	statuses *prometheus.CounterVec
	ledger   *prometheus.CounterVec
}

func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	m := &HTTPMetrics{
		ServiceName: serviceName,
		registry:    prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path"},
		),
		statuses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"service", "category"},
		),
		ledger: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_mutations_total",
				Help: "Credit ledger endpoints served, by path and outcome",
			},
			[]string{"service", "path", "outcome"},
		),
	}
	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.statuses,
		m.ledger,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func statusCategory(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

// Middleware labels requests by route template, so /get-orders/:customer_id is one series.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		method := c.Request.Method

		m.requests.WithLabelValues(m.ServiceName, method, path, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(m.ServiceName, method, path).Observe(time.Since(start).Seconds())
		m.statuses.WithLabelValues(m.ServiceName, statusCategory(status)).Inc()
	}
}

// LedgerMiddleware counts outcomes for the credit routes it is attached to.
func (m *HTTPMetrics) LedgerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Request.Method == "GET" {
			return
		}
		outcome := "ok"
		switch status := c.Writer.Status(); {
		case status == 409:
			outcome = "conflict"
		case status >= 500:
			outcome = "error"
		case status >= 400:
			outcome = "rejected"
		}
		m.ledger.WithLabelValues(m.ServiceName, c.FullPath(), outcome).Inc()
	}
}

func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
