package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	catalogRows    *prometheus.GaugeVec
	catalogRuns    *prometheus.GaugeVec
	catalogSkipped *prometheus.GaugeVec
	reloads        *prometheus.CounterVec
	resolves       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New registers the recorder's collectors on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers on reg; tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		catalogRows: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "senticast_catalog_rows",
				Help: "Observations in the current catalog snapshot",
			},
			[]string{"source"},
		),
		catalogRuns: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "senticast_catalog_runs",
				Help: "Distinct runs in the current catalog snapshot",
			},
			[]string{"source"},
		),
		catalogSkipped: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "senticast_catalog_skipped_rows",
				Help: "Rows whose run identifier could not be decoded",
			},
			[]string{"source"},
		),
		reloads: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "senticast_catalog_reloads_total",
				Help: "Catalog reload attempts by result",
			},
			[]string{"result"},
		),
		resolves: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "senticast_resolve_total",
				Help: "Configuration resolutions by model and fallback",
			},
			[]string{"model", "fallback"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "senticast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordCatalog sets the gauges for the current snapshot.
func (r *Recorder) RecordCatalog(source string, rows, runs, skipped int) {
	r.catalogRows.WithLabelValues(source).Set(float64(rows))
	r.catalogRuns.WithLabelValues(source).Set(float64(runs))
	r.catalogSkipped.WithLabelValues(source).Set(float64(skipped))
}

// RecordReload counts a reload outcome ("ok", "unchanged", "error").
func (r *Recorder) RecordReload(result string) {
	r.reloads.WithLabelValues(result).Inc()
}

// RecordResolve counts a resolution, split by whether it fell back.
func (r *Recorder) RecordResolve(model string, fallback bool) {
	r.resolves.WithLabelValues(model, strconv.FormatBool(fallback)).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
