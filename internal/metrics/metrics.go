// Package metrics exposes prediction counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "churnform"

// Metrics groups the collectors the form server updates
type Metrics struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	errors      *prometheus.CounterVec
	latency     prometheus.Histogram
	artifacts   *prometheus.GaugeVec
}

// New registers every collector on a private registry
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Predictions served, by verdict.",
		}, []string{"verdict"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_errors_total",
			Help:      "Failed predictions, by the stage that failed.",
		}, []string{"stage"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Time spent transforming and classifying one record.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		artifacts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "artifact_info",
			Help:      "Loaded artifacts; always 1.",
		}, []string{"component", "kind"}),
	}

	reg.MustRegister(
		m.predictions,
		m.errors,
		m.latency,
		m.artifacts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObservePrediction records a successful prediction
func (m *Metrics) ObservePrediction(verdict string, took time.Duration) {
	m.predictions.WithLabelValues(verdict).Inc()
	m.latency.Observe(took.Seconds())
}

// ObserveError records a failed prediction
func (m *Metrics) ObserveError(stage string, took time.Duration) {
	m.errors.WithLabelValues(stage).Inc()
	m.latency.Observe(took.Seconds())
}

// SetArtifact marks an artifact kind as loaded for a component
func (m *Metrics) SetArtifact(component, kind string) {
	m.artifacts.WithLabelValues(component, kind).Set(1)
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
