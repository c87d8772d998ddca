// Package metrics exposes Prometheus instrumentation for the HTTP surface and
// the summarization and prediction pipelines. Collectors register on the
// default registry at init; handlers call the Record helpers so domain
// services stay free of instrumentation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Pipeline metrics
	summariesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaries_generated_total",
			Help: "Total number of history summaries generated",
		},
		[]string{"mode"},
	)

	predictionsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_generated_total",
			Help: "Total number of risk prediction runs",
		},
		[]string{"trend"},
	)

	predictedConditions = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "predicted_conditions_per_run",
			Help:    "Number of conditions scored per prediction run",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	dateFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "record_date_fallbacks_total",
			Help: "Total number of encounter records whose visit date failed to parse",
		},
	)
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts, latencies, and the in-flight gauge for
// every route it wraps. The route template, not the raw path, labels the
// series so parameterised routes stay at bounded cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			method := c.Request().Method
			path := c.Path()
			httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordSummary records a generated summary by mode.
func RecordSummary(mode string) {
	summariesGenerated.WithLabelValues(mode).Inc()
}

// RecordPrediction records one prediction run with its trend direction and
// how many conditions scored.
func RecordPrediction(conditions int, trend string) {
	predictionsGenerated.WithLabelValues(trend).Inc()
	predictedConditions.Observe(float64(conditions))
}

// AddDateFallbacks counts encounter records that fell back to the sentinel
// date because their date field did not parse.
func AddDateFallbacks(n int) {
	if n <= 0 {
		return
	}
	dateFallbacksTotal.Add(float64(n))
}
