// Package metrics declares the Prometheus collectors of the classification pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "taxon"
)

// Batch and session outcome labels.
const (
	StatusSuccess     = "success"
	StatusFailed      = "failed"
	StatusTimeout     = "timeout"
	StatusValid       = "valid"
	StatusInvalid     = "invalid"
	StatusStarted     = "started"
	StatusCompleted   = "completed"
	StatusUnavailable = "unavailable"
)

var (
	batchDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120}

	// Classifier Metrics
	ClassifierBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "classifier_batches_total",
		Help:      "Count of classifier batches by outcome.",
	}, []string{"provider", "status"})

	ClassifierBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "classifier_batch_duration_seconds",
		Help:      "Time taken for one classifier batch round trip.",
		Buckets:   batchDurationBuckets,
	}, []string{"provider"})

	VerdictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verdicts_total",
		Help:      "Count of verdicts delivered by the classifier.",
	}, []string{"provider"})

	// Correlation Metrics
	OrphanVerdictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphan_verdicts_total",
		Help:      "Verdicts dropped because their mapping id was never issued.",
	})

	// Filter Metrics
	FilterEvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "filter_evaluations_total",
		Help:      "Count of filter condition batches evaluated.",
	}, []string{"status"})

	// Session Metrics
	SessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_total",
		Help:      "Count of classification sessions by outcome.",
	}, []string{"status"})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Sessions currently held in memory.",
	})

	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Count of API requests by method and status code.",
	}, []string{"method", "code"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

// ObserveRequest records one API request.
func ObserveRequest(method string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
