package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status", "service"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "service"},
	)

	relationshipOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relationship_operations_total",
			Help: "Total number of friend/follow graph operations",
		},
		[]string{"operation", "status", "service"},
	)

	relationshipOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relationship_operation_duration_seconds",
			Help:    "Duration of friend/follow graph operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "service"},
	)
)

func PrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
			serviceName,
		).Inc()

		httpRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			serviceName,
		).Observe(duration)
	}
}

// RecordRelationshipOperation фиксирует метрики операции над графом
func RecordRelationshipOperation(operation, status, serviceName string, duration time.Duration) {
	relationshipOpsTotal.WithLabelValues(operation, status, serviceName).Inc()
	relationshipOpDuration.WithLabelValues(operation, serviceName).Observe(duration.Seconds())
}
