// Package metrics exposes Prometheus collectors for run ingestion and persona builds.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	RunWrites     *prometheus.CounterVec
	PersonasBuilt prometheus.Counter
	BuildFailures *prometheus.CounterVec
	TopTraits     *prometheus.CounterVec
	BuildDuration prometheus.Histogram
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RunWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "personalab",
			Name:      "run_writes_total",
			Help:      "Writes to test runs by kind (event, transcript, survey).",
		}, []string{"kind"}),
		PersonasBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "personalab",
			Name:      "personas_built_total",
			Help:      "Personas created from finalized runs.",
		}),
		BuildFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "personalab",
			Name:      "persona_build_failures_total",
			Help:      "Persona builds that failed, by reason.",
		}, []string{"reason"}),
		TopTraits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "personalab",
			Name:      "persona_top_trait_total",
			Help:      "Personas by their top-scoring trait.",
		}, []string{"trait"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "personalab",
			Name:      "persona_build_seconds",
			Help:      "Time spent scoring and persisting a persona.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	m.registry.MustRegister(
		m.RunWrites,
		m.PersonasBuilt,
		m.BuildFailures,
		m.TopTraits,
		m.BuildDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
