package metrics

import (
	"MatchCast/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	confidence  *prometheus.HistogramVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		predictions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matchcast_predictions_total",
				Help: "Total number of predictions produced",
			},
			[]string{"league", "outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matchcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		confidence: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "matchcast_prediction_confidence",
				Help:    "Confidence of produced predictions",
				Buckets: prometheus.LinearBuckets(0.3, 0.05, 14),
			},
			[]string{"league"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "matchcast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordPrediction records a produced prediction by league and outcome.
func (r *Recorder) RecordPrediction(league string, outcome models.Outcome) {
	r.predictions.WithLabelValues(league, string(outcome)).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordConfidence records a prediction's confidence.
func (r *Recorder) RecordConfidence(league string, confidence float64) {
	r.confidence.WithLabelValues(league).Observe(confidence)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
