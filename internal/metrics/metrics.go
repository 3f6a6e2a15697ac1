// Package metrics exposes Prometheus instruments for the aggregator and the dashboard.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry and the instruments registered on it.
type Recorder struct {
	registry *prometheus.Registry

	runDuration  *prometheus.HistogramVec
	exportedRows *prometheus.GaugeVec
	views        *prometheus.CounterVec
}

// NewRecorder creates a Recorder with Go runtime and process collectors.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Recorder{
		registry: registry,
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weather_aggregation_duration_seconds",
			Help:    "Duration of aggregation runs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		exportedRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "weather_exported_rows",
			Help: "Rows written to the store by the last aggregation run.",
		}, []string{"table"}),
		views: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_dashboard_views_total",
			Help: "Dashboard page renders by page.",
		}, []string{"page"}),
	}
	registry.MustRegister(r.runDuration, r.exportedRows, r.views)
	return r
}

// ObserveRun records one aggregation run.
func (r *Recorder) ObserveRun(status string, d time.Duration) {
	r.runDuration.WithLabelValues(status).Observe(d.Seconds())
}

// SetExportedRows records the stored row count of a table.
func (r *Recorder) SetExportedRows(table string, n int) {
	r.exportedRows.WithLabelValues(table).Set(float64(n))
}

// ObserveView counts one page render.
func (r *Recorder) ObserveView(page string) {
	r.views.WithLabelValues(page).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
