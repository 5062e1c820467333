package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workforce",
			Name:      "http_requests_total",
			Help:      "HTTP requests processed, by method, route, and status",
		},
		[]string{"method", "route", "status"},
	)

	// Buckets skew low: most endpoints are single-row CRUD, the statistics
	// aggregation and XLSX export populate the tail.
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "workforce",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	inflightRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "workforce",
			Name:      "http_inflight_requests",
			Help:      "HTTP requests currently being served",
		},
	)

	certificateVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workforce",
			Name:      "certificate_verifications_total",
			Help:      "Public certificate verification lookups, by outcome",
		},
		[]string{"outcome"},
	)
)

// Metrics records request counts, latency, and in-flight gauge per request.
// The route template is used as the label where available so path parameters
// do not explode label cardinality.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		inflightRequests.Inc()
		defer inflightRequests.Dec()

		err := c.Next()

		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		method := c.Method()

		requestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().StatusCode())).Inc()
		requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

		return err
	}
}

// ObserveCertificateVerification records one public verification lookup.
// Outcome is "valid", "invalid", or "not_found".
func ObserveCertificateVerification(outcome string) {
	certificateVerifications.WithLabelValues(outcome).Inc()
}
