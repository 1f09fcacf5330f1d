package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	reportRequestsTotal   *prometheus.CounterVec
	reportLatencySeconds  *prometheus.HistogramVec
	reportErrorsTotal     *prometheus.CounterVec
	reportBuildsTotal     *prometheus.CounterVec
	reportBuildSeconds    *prometheus.HistogramVec
	reportExportsTotal    *prometheus.CounterVec
	reportSupersededTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the reporting API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		reportRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_http_requests_total",
			Help: "Total number of report API requests served.",
		}, []string{"method", "route", "status"})

		reportLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "report_http_latency_seconds",
			Help:    "Latency distribution for report API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		reportErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_http_errors_total",
			Help: "Total number of error responses returned by report endpoints.",
		}, []string{"method", "route", "status"})

		reportBuildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_builds_total",
			Help: "Report computations by kind and outcome.",
		}, []string{"kind", "outcome"})

		reportBuildSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "report_build_seconds",
			Help:    "Time spent fetching and assembling reports.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"})

		reportExportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_exports_total",
			Help: "Documents exported by kind.",
		}, []string{"kind"})

		reportSupersededTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "report_fetch_superseded_total",
			Help: "Fetch results discarded because the viewer selected another report.",
		})

		prometheus.MustRegister(
			reportRequestsTotal,
			reportLatencySeconds,
			reportErrorsTotal,
			reportBuildsTotal,
			reportBuildSeconds,
			reportExportsTotal,
			reportSupersededTotal,
		)
	})
}

// ReportRequests exposes the counter for report HTTP requests.
func ReportRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return reportRequestsTotal
}

// ReportLatency exposes the latency histogram for report HTTP requests.
func ReportLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return reportLatencySeconds
}

// ReportErrors exposes the counter for report HTTP error responses.
func ReportErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return reportErrorsTotal
}

// ReportBuilds counts report computations.
func ReportBuilds() *prometheus.CounterVec {
	RegisterMetrics()
	return reportBuildsTotal
}

// ReportBuildLatency observes report computation time.
func ReportBuildLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return reportBuildSeconds
}

// ReportExports counts exported documents.
func ReportExports() *prometheus.CounterVec {
	RegisterMetrics()
	return reportExportsTotal
}

// ReportSuperseded counts discarded stale fetches.
func ReportSuperseded() prometheus.Counter {
	RegisterMetrics()
	return reportSupersededTotal
}
