package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricing_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// BackendCalls tracks calls to the cart backend by operation and outcome
	BackendCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_backend_calls_total",
			Help: "Total number of backend calls",
		},
		[]string{"operation", "outcome"},
	)

	// CircuitBreakerState tracks circuit breaker state (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pricing_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit_name"},
	)

	// CircuitBreakerFailures tracks circuit breaker failures
	CircuitBreakerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_circuit_breaker_failures_total",
			Help: "Total number of circuit breaker failures",
		},
		[]string{"circuit_name"},
	)

	// CouponOutcomes counts coupon evaluations: applied, ineligible, unrecognized
	CouponOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_coupon_outcomes_total",
			Help: "Coupon evaluations by outcome",
		},
		[]string{"outcome"},
	)

	// GuardsHit counts guard rule violations
	GuardsHit = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_guards_hit_total",
			Help: "Guard rule violations",
		},
		[]string{"rule_id"},
	)

	// QuoteDuration tracks the time spent producing a quote
	QuoteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricing_quote_duration_seconds",
			Help:    "Quote computation duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5},
		},
	)
)

// Middleware creates an echo middleware for automatic metrics collection
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)

			RequestsTotal.WithLabelValues(c.Request().Method, c.Path(), status).Inc()
			RequestDuration.WithLabelValues(c.Request().Method, c.Path()).Observe(duration)
			return nil
		}
	}
}
