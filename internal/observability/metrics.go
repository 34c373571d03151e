package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus counters, histograms, and gauges for one generator run.
type Metrics struct {
	Registry *prometheus.Registry

	RowsFetched     prometheus.Counter
	RowsSkipped     *prometheus.CounterVec // labels: reason={filtered,missing_name,missing_coordinates,invalid_coordinates,geocode_failed}
	MarkersRendered prometheus.Gauge
	ArtifactBytes   *prometheus.GaugeVec   // labels: artifact
	Published       *prometheus.CounterVec // labels: target={file,gcs,s3}

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: provider, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec

	RunDuration prometheus.Gauge
	LastSuccess prometheus.Gauge
}

// NewMetrics creates all run metrics on a fresh registry. A new registry per
// run keeps pushes self-contained and lets tests construct Metrics freely.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mapgen",
			Name:      "rows_fetched_total",
			Help:      "Data rows read from the spreadsheet.",
		}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapgen",
			Name:      "rows_skipped_total",
			Help:      "Rows left off the map, by reason.",
		}, []string{"reason"}),
		MarkersRendered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mapgen",
			Name:      "markers_rendered",
			Help:      "Markers embedded in the generated page.",
		}),
		ArtifactBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "mapgen",
			Name:      "artifact_bytes",
			Help:      "Size of each rendered artifact.",
		}, []string{"artifact"}),
		Published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapgen",
			Name:      "artifacts_published_total",
			Help:      "Artifacts written, by publish target.",
		}, []string{"target"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapgen",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapgen",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mapgen",
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"provider"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mapgen",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mapgen",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}

	m.Registry.MustRegister(
		m.RowsFetched,
		m.RowsSkipped,
		m.MarkersRendered,
		m.ArtifactBytes,
		m.Published,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.RunDuration,
		m.LastSuccess,
	)

	return m
}

// Push sends the run's metrics to a Prometheus Pushgateway, replacing the
// previous push for the same job.
func (m *Metrics) Push(url, job string) error {
	return push.New(url, job).Gatherer(m.Registry).Push()
}
