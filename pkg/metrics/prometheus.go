package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements the domain Metrics interface using Prometheus.
type Recorder struct {
	predictions *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	auditWrites *prometheus.CounterVec
	modelReady  prometheus.Gauge
}

// New creates a recorder registered on reg. A nil reg uses the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalapi_predictions_total",
				Help: "Predictions served, by variant and label",
			},
			[]string{"variant", "label"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalapi_errors_total",
				Help: "Request errors by kind",
			},
			[]string{"kind"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signalapi_operation_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		auditWrites: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalapi_audit_writes_total",
				Help: "Audit record writes by sink and result",
			},
			[]string{"sink", "result"},
		),
		modelReady: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "signalapi_model_ready",
				Help: "1 once the model is loaded, 0 otherwise",
			},
		),
	}
}

func (r *Recorder) RecordPrediction(variant, label string) {
	r.predictions.WithLabelValues(variant, label).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordAuditWrite(sink, result string) {
	r.auditWrites.WithLabelValues(sink, result).Inc()
}

func (r *Recorder) SetModelReady(ready bool) {
	if ready {
		r.modelReady.Set(1)
		return
	}
	r.modelReady.Set(0)
}
