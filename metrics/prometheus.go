package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// PrometheusRecorder is a Prometheus implementation of Recorder.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	loadDurationSeconds prometheus.Histogram
	loadRows            prometheus.Gauge
	loadSources         *prometheus.GaugeVec
	sourceWarnings      *prometheus.CounterVec
	cacheLookups        *prometheus.CounterVec
	aggregationSeconds  *prometheus.HistogramVec
}

// NewPrometheus creates a recorder with its own registry.
func NewPrometheus() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		loadDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "solarboard_load_duration_seconds",
			Help:    "Duration of uncached dataset loads.",
			Buckets: prometheus.DefBuckets,
		}),
		loadRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "solarboard_load_rows",
			Help: "Rows in the most recently loaded unified table.",
		}),
		loadSources: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "solarboard_load_sources",
			Help: "Sources in the most recent load, by state.",
		}, []string{"state"}), // state: configured, loaded
		sourceWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solarboard_source_warnings_total",
			Help: "Sources skipped during loads, by label and kind.",
		}, []string{"label", "kind"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solarboard_cache_lookups_total",
			Help: "Dataset cache lookups, by result.",
		}, []string{"result"}), // result: hit, miss
		aggregationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "solarboard_aggregation_duration_seconds",
			Help:    "Duration of aggregation calls.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"op"}),
	}

	registry.MustRegister(r.loadDurationSeconds)
	registry.MustRegister(r.loadRows)
	registry.MustRegister(r.loadSources)
	registry.MustRegister(r.sourceWarnings)
	registry.MustRegister(r.cacheLookups)
	registry.MustRegister(r.aggregationSeconds)

	return r
}

// Registry returns the Prometheus registry.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the current metrics in the node_exporter textfile format.
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func (r *PrometheusRecorder) RecordLoad(duration time.Duration, sources, loaded, rows int) {
	r.loadDurationSeconds.Observe(duration.Seconds())
	r.loadRows.Set(float64(rows))
	r.loadSources.WithLabelValues("configured").Set(float64(sources))
	r.loadSources.WithLabelValues("loaded").Set(float64(loaded))
}

func (r *PrometheusRecorder) RecordSourceWarning(label, kind string) {
	r.sourceWarnings.WithLabelValues(label, kind).Inc()
}

func (r *PrometheusRecorder) RecordCacheHit() {
	r.cacheLookups.WithLabelValues("hit").Inc()
}

func (r *PrometheusRecorder) RecordCacheMiss() {
	r.cacheLookups.WithLabelValues("miss").Inc()
}

func (r *PrometheusRecorder) RecordAggregation(op string, duration time.Duration) {
	r.aggregationSeconds.WithLabelValues(op).Observe(duration.Seconds())
}
