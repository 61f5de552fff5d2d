// Package metrics provides Prometheus metrics for the HTTP server and the
// calendar engine.
//
// HTTP metrics:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Calendar metrics:
//   - vaccine_selection_changes_total: Counter with a vaccine label, fed by selection handlers
//   - form_submissions_total: Counter of accepted form submissions
//   - schemes_composed: Gauge with the number of base schemes of the loaded catalog
//   - selected_vaccines, checked_schemes: Gauges refreshed by the snapshot job
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (clients seen since the last cleanup)",
		},
	)

	VaccineSelectionChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaccine_selection_changes_total",
			Help: "Selection changes per vaccine",
		},
		[]string{"vaccine"},
	)

	FormSubmissions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Accepted form submissions",
		},
	)

	SchemesComposed = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "schemes_composed",
			Help: "Base schemes composed from the loaded catalog",
		},
	)

	SelectedVaccines = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "selected_vaccines",
			Help: "Vaccines selected at the last snapshot",
		},
	)

	CheckedSchemes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "checked_schemes",
			Help: "Base schemes checked at the last snapshot",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(VaccineSelectionChanges)
	prometheus.MustRegister(FormSubmissions)
	prometheus.MustRegister(SchemesComposed)
	prometheus.MustRegister(SelectedVaccines)
	prometheus.MustRegister(CheckedSchemes)
}
