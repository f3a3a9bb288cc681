// Package metrics provides Prometheus metrics for validation runs.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/artpar/tiger/domain/item"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/run"
)

const namespace = "tiger"

// Collector holds all Prometheus metrics for tiger.
type Collector struct {
	gatherer prometheus.Gatherer

	// Run metrics
	RunsTotal      prometheus.Counter
	RunDuration    prometheus.Histogram
	LastRun        prometheus.Gauge
	FilesValidated prometheus.Counter
	FilesSkipped   prometheus.Counter

	// Finding metrics
	Diagnostics *prometheus.CounterVec

	// Index metrics
	ItemsIndexed *prometheus.GaugeVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter

	// Status server metrics
	HTTPRequests *prometheus.CounterVec
}

// New creates a collector on its own registry.
func New() *Collector {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry creates a collector registered with reg.
func NewWithRegistry(reg *prometheus.Registry) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		gatherer: reg,

		RunsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of validation runs",
			},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Validation run duration in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		LastRun: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp",
				Help:      "Unix timestamp of the last finished run",
			},
		),
		FilesValidated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_validated_total",
				Help:      "Total number of script files validated",
			},
		),
		FilesSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_skipped_total",
				Help:      "Total number of changed-file events skipped because the content was unchanged",
			},
		),

		Diagnostics: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagnostics_total",
				Help:      "Total number of diagnostics reported",
			},
			[]string{"severity", "key"},
		),

		ItemsIndexed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "items_indexed",
				Help:      "Number of known items by kind",
			},
			[]string{"kind"},
		),

		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of status server requests",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// Observe records a finished run and the diagnostics it reported.
func (c *Collector) Observe(r run.Run, diags []report.Diagnostic) {
	c.RunsTotal.Inc()
	c.RunDuration.Observe(r.Duration.Seconds())
	c.LastRun.Set(float64(r.StartedAt.Add(r.Duration).Unix()))
	c.FilesValidated.Add(float64(r.Files))
	for _, d := range diags {
		c.Diagnostics.WithLabelValues(d.Severity.String(), string(d.Key)).Inc()
	}
}

// ObserveItems sets the per-kind item gauges.
func (c *Collector) ObserveItems(counts map[item.Kind]int) {
	for _, kind := range item.Kinds() {
		c.ItemsIndexed.WithLabelValues(kind.String()).Set(float64(counts[kind]))
	}
}

// WriteTextfile writes every metric to path in the text exposition
// format, for node_exporter's textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Handler serves the metrics over HTTP.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
