package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	invocations     *prometheus.CounterVec
	invocationFails *prometheus.CounterVec
}

// New registers the application instruments on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the instruments on a specific registerer.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pixomat_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pixomat_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pixomat_feature_invocations_total",
			Help: "Successful feature invocations by feature key.",
		}, []string{"feature"}),
		invocationFails: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pixomat_feature_failures_total",
			Help: "Failed feature invocations by feature key.",
		}, []string{"feature"}),
	}
}

// RecordInvocation counts one successful feature invocation.
func (m *Metrics) RecordInvocation(featureKey string) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(featureKey).Inc()
}

// RecordFailure counts one failed feature invocation.
func (m *Metrics) RecordFailure(featureKey string) {
	if m == nil {
		return
	}
	m.invocationFails.WithLabelValues(featureKey).Inc()
}

// GinMiddleware records request counts and latencies.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
