// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hoalens", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hoalens", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	ModelCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hoalens", Name: "model_calls_total", Help: "Model-backed operations by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	ModelLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "hoalens", Name: "model_call_seconds", Help: "Latency of model-backed operations.", Buckets: prometheus.ExponentialBuckets(0.25, 2, 10)},
		[]string{"operation"},
	)
	Uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hoalens", Name: "uploads_total", Help: "Document uploads and registrations by outcome."},
		[]string{"outcome"},
	)
	UploadLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "hoalens", Name: "upload_seconds", Help: "Latency of document creation including transcription.", Buckets: prometheus.ExponentialBuckets(0.25, 2, 12)},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(ModelCalls)
	reg.MustRegister(ModelLatency)
	reg.MustRegister(Uploads)
	reg.MustRegister(UploadLatency)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveModelCall records the outcome and duration of one model-backed operation.
func ObserveModelCall(operation string, start time.Time, err error) {
	ModelCalls.WithLabelValues(operation, outcome(err)).Inc()
	ModelLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveUpload records the outcome and duration of one document creation.
func ObserveUpload(start time.Time, err error) {
	Uploads.WithLabelValues(outcome(err)).Inc()
	UploadLatency.Observe(time.Since(start).Seconds())
}
