// Package metrics exposes Prometheus instrumentation for the detection
// pipeline on its own registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	DetectRequests   *prometheus.CounterVec
	InferenceSeconds *prometheus.HistogramVec
	ModelSwitches    prometheus.Counter
	DetectionsFound  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DetectRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "detection_requests_total",
			Help: "Detection requests by model and outcome",
		}, []string{"model", "outcome"}),
		InferenceSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "detection_inference_seconds",
			Help:    "Model inference latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"model"}),
		ModelSwitches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "detection_model_switches_total",
			Help: "Successful active-model switches",
		}),
		DetectionsFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "detection_objects_total",
			Help: "Detected objects by model and class",
		}, []string{"model", "class"}),
	}

	m.registry.MustRegister(
		m.DetectRequests,
		m.InferenceSeconds,
		m.ModelSwitches,
		m.DetectionsFound,
	)
	return m
}

// Handler returns the exposition endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
