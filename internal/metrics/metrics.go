// Package metrics counts resolution and materialization outcomes for one
// command run. The registry is private to the run; when a metrics file is
// configured it is dumped in Prometheus text format for a node_exporter
// textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
)

// Metrics holds the collectors for one run. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	resolutions      *prometheus.CounterVec
	materializations *prometheus.CounterVec
	registryFetches  *prometheus.HistogramVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dreamcpp",
			Name:      "resolutions_total",
			Help:      "Dependency name resolutions by source and result.",
		}, []string{"source", "result"}),
		materializations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dreamcpp",
			Name:      "materializations_total",
			Help:      "Dependency materializations by outcome.",
		}, []string{"outcome"}),
		registryFetches: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dreamcpp",
			Name:      "registry_fetch_duration_seconds",
			Help:      "Time spent fetching the remote registry document.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}

	m.registry.MustRegister(m.resolutions, m.materializations, m.registryFetches)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Resolutions exposes the resolution counter.
func (m *Metrics) Resolutions() *prometheus.CounterVec {
	return m.resolutions
}

// Materializations exposes the materialization counter.
func (m *Metrics) Materializations() *prometheus.CounterVec {
	return m.materializations
}

// ObserveResolution counts one lookup against a source.
func (m *Metrics) ObserveResolution(source, result string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(source, result).Inc()
}

// ObserveMaterialization counts one Materialize outcome.
func (m *Metrics) ObserveMaterialization(outcome string) {
	if m == nil {
		return
	}
	m.materializations.WithLabelValues(outcome).Inc()
}

// ObserveRegistryFetch records how long a registry fetch took.
func (m *Metrics) ObserveRegistryFetch(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.registryFetches.WithLabelValues(status).Observe(d.Seconds())
}

// WriteTextfile dumps all collectors to path.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return eris.Wrapf(err, "failed to write metrics to %s", path)
	}
	return nil
}
