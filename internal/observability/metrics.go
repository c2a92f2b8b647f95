package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus collectors for the CVI batch pipeline. The
// pipeline is run-to-completion, so collectors live on a private registry and
// are shipped to a Pushgateway at the end of a run instead of being scraped.
type Metrics struct {
	registry *prometheus.Registry

	DistrictsProcessed prometheus.Counter
	ComputeErrors      prometheus.Counter
	ResolveMisses      *prometheus.CounterVec // labels: source={rainfall,temperature,population,income,groundwater,boundary}
	ResultsPublished   prometheus.Counter
	PipelineRunning    prometheus.Gauge

	StageDuration *prometheus.HistogramVec // labels: stage={extract,compute,export}
}

// NewMetrics creates all pipeline metrics on a fresh private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DistrictsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cvi_etl",
			Name:      "districts_processed_total",
			Help:      "Total districts for which a CVI result was computed.",
		}),
		ComputeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cvi_etl",
			Name:      "compute_errors_total",
			Help:      "Total per-district computation failures (skipped districts).",
		}),
		ResolveMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cvi_etl",
			Name:      "resolve_misses_total",
			Help:      "District name lookups that found no rows, by source table.",
		}, []string{"source"}),
		ResultsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cvi_etl",
			Name:      "results_published_total",
			Help:      "Total results published to the Kafka sink.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cvi_etl",
			Name:      "pipeline_running",
			Help:      "1 while the pipeline is active, 0 when finished.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cvi_etl",
			Name:      "stage_duration_seconds",
			Help:      "Duration of the extract, compute, and export stages.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
	}

	m.registry.MustRegister(
		m.DistrictsProcessed,
		m.ComputeErrors,
		m.ResolveMisses,
		m.ResultsPublished,
		m.PipelineRunning,
		m.StageDuration,
	)

	return m
}

// Push ships the registry to a Prometheus Pushgateway under the given job
// name. Called once at the end of a run when PUSHGATEWAY_URL is configured.
func (m *Metrics) Push(url, job string) error {
	return push.New(url, job).Gatherer(m.registry).Push()
}
