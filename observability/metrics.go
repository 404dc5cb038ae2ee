package observability

import (
	"net/http"
	"strconv"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CompatDecisionsTotal counts compatibility decisions by deciding rule and verdict
	CompatDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nugetcompat_compat_decisions_total",
			Help: "Total number of compatibility decisions by rule and verdict",
		},
		[]string{"rule", "verdict"}, // verdict: compatible, incompatible
	)

	// ParseFailuresTotal counts rejected inputs by kind
	ParseFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nugetcompat_parse_failures_total",
			Help: "Total number of inputs that failed to parse by kind",
		},
		[]string{"kind"}, // framework, range, version
	)

	// UnsupportedFrameworksTotal counts monikers that parsed to Unsupported
	UnsupportedFrameworksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nugetcompat_unsupported_frameworks_total",
			Help: "Total number of monikers that resolved to the Unsupported framework",
		},
	)

	// ProfileCatalogSize tracks the number of portable profiles loaded
	ProfileCatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nugetcompat_profile_catalog_size",
			Help: "Number of portable profiles in the active catalog",
		},
	)

	// RateLimitedTotal counts API requests rejected by the per-client limiter
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nugetcompat_http_rate_limited_total",
			Help: "Total number of API requests rejected with 429",
		},
	)

	// ResponseCacheTotal counts API response cache lookups by result (hit, miss)
	ResponseCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nugetcompat_response_cache_total",
			Help: "Total number of API response cache lookups",
		},
		[]string{"result"},
	)

	// HTTPRequestsTotal counts API requests by method, route and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nugetcompat_http_requests_total",
			Help: "Total number of API requests by method, route and status",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks API request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nugetcompat_http_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 100µs to 0.8s
		},
		[]string{"method", "route"},
	)
)

// RecordCompatDecision counts one compatibility decision.
func RecordCompatDecision(rule string, compatible bool) {
	verdict := "incompatible"
	if compatible {
		verdict = "compatible"
	}
	CompatDecisionsTotal.WithLabelValues(rule, verdict).Inc()
}

// RecordParseFailure counts one rejected input of the given kind.
func RecordParseFailure(kind string) {
	ParseFailuresTotal.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest records the outcome and latency of one API request.
func RecordHTTPRequest(method, route string, status int, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// MetricsHandler returns an HTTP handler for Prometheus metrics
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// GetCounterValue retrieves the current value of a counter metric with the given labels
// This is primarily intended for testing
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}

	return 0, nil
}

// GetGaugeValue retrieves the current value of a gauge
func GetGaugeValue(gauge prometheus.Gauge) (float64, error) {
	var pb dto.Metric
	if err := gauge.Write(&pb); err != nil {
		return 0, err
	}
	if pb.Gauge != nil {
		return pb.Gauge.GetValue(), nil
	}
	return 0, nil
}
