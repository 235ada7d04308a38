package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the service.
type Metrics struct {
	// Upstream client metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint

	// Record validation metrics.
	RecordsParsed  *prometheus.CounterVec // labels: category
	RecordsSkipped *prometheus.CounterVec // labels: category
	CategoryErrors *prometheus.CounterVec // labels: category

	// Report assembly metrics.
	ReportsBuilt        prometheus.Counter
	PartialReports      prometheus.Counter
	ReportBuildDuration prometheus.Histogram

	// Kafka export metrics.
	ReportsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.RecordsParsed,
		m.RecordsSkipped,
		m.CategoryErrors,
		m.ReportsBuilt,
		m.PartialReports,
		m.ReportBuildDuration,
		m.ReportsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_status",
			Name:      "upstream_requests_total",
			Help:      "Hydromet API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flood_status",
			Name:      "upstream_request_duration_seconds",
			Help:      "Hydromet API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		RecordsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_status",
			Name:      "records_parsed_total",
			Help:      "Well-formed records produced per category.",
		}, []string{"category"}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_status",
			Name:      "records_skipped_total",
			Help:      "Entries dropped by required-field validation per category.",
		}, []string{"category"}),
		CategoryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_status",
			Name:      "category_errors_total",
			Help:      "Whole-category fetch or decode failures.",
		}, []string{"category"}),
		ReportsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_status",
			Name:      "reports_built_total",
			Help:      "Total reports assembled.",
		}),
		PartialReports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_status",
			Name:      "partial_reports_total",
			Help:      "Reports returned with at least one failed category.",
		}),
		ReportBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_status",
			Name:      "report_build_duration_seconds",
			Help:      "Duration of a complete fetch-validate-assemble cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_status",
			Name:      "reports_published_total",
			Help:      "Reports published to the Kafka report topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_status",
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publish attempts.",
		}),
	}
}
