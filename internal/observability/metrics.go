// Package observability exposes Prometheus collectors for the HTTP layer,
// AI provider calls and evaluation outcomes.
package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// AI call outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI-backed steps by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"},
	)

	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluations_total",
			Help: "Total number of interview evaluations by final status",
		},
		[]string{"status"},
	)
	OverallScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evaluation_overall_score",
			Help:    "Distribution of overall interview scores ([0,10])",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	)

	registerOnce sync.Once
)

func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(AIRequestsTotal)
		prometheus.MustRegister(AIRequestDuration)
		prometheus.MustRegister(EvaluationsTotal)
		prometheus.MustRegister(OverallScoreHistogram)
	})
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = c.Path()
		}
		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		HTTPRequestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}

func ObserveAI(operation, outcome string, elapsed time.Duration) {
	AIRequestsTotal.WithLabelValues(operation, outcome).Inc()
	AIRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func ObserveEvaluation(status string, overallScore float64) {
	EvaluationsTotal.WithLabelValues(status).Inc()
	if overallScore >= 0 && overallScore <= 10 {
		OverallScoreHistogram.Observe(overallScore)
	}
}
