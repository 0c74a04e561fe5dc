package middelware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsMiddleware bundles the Prometheus collectors shared by the server
type MetricsMiddleware struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewMetricsMiddleware registers collectors on the given registry
func NewMetricsMiddleware(reg prometheus.Registerer) *MetricsMiddleware {
	m := &MetricsMiddleware{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "b2bconnect_http_requests_total",
				Help: "Total count of HTTP requests received.",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "b2bconnect_http_request_duration_seconds",
				Help:    "Histogram of request durations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "b2bconnect_http_inflight_requests",
			Help: "Number of requests currently being handled.",
		}),
	}

	reg.MustRegister(m.requests, m.duration, m.inFlight)
	return m
}

// Instrument records request counts and latencies. The route template
// (:id style) is used as the path label to keep cardinality bounded.
func (m *MetricsMiddleware) Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		start := time.Now()
		c.Next()
		elapsed := time.Since(start).Seconds()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.requests.WithLabelValues(c.Request.Method, path, status).Inc()
		m.duration.WithLabelValues(c.Request.Method, path, status).Observe(elapsed)
	}
}

// Handler exposes /metrics
func (m *MetricsMiddleware) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
