// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Run metrics
	UnitsProcessed  prometheus.Counter
	UnitErrors      prometheus.Counter
	TradesSimulated *prometheus.CounterVec
	RunsTotal       *prometheus.CounterVec
	RunDuration     *prometheus.HistogramVec

	// Ingestion metrics
	BarsIngested    *prometheus.CounterVec
	IngestionErrors prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "intraday_signal_lab"
	}

	return &Metrics{
		UnitsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "units_processed_total",
			Help:      "Total number of simulation work units processed",
		}),
		UnitErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "unit_errors_total",
			Help:      "Total number of failed simulation work units",
		}),
		TradesSimulated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "trades_simulated_total",
			Help:      "Total number of trades simulated by terminal status",
		}, []string{"status"}),
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "runs_total",
			Help:      "Total number of runs by mode and status",
		}, []string{"mode", "status"}),
		RunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "run_duration_seconds",
			Help:      "Run execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"mode"}),

		BarsIngested: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "bars_ingested_total",
			Help:      "Total number of price bars ingested by granularity",
		}, []string{"granularity"}),
		IngestionErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "errors_total",
			Help:      "Total number of ingestion errors",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordUnitProcessed increments the units processed counter.
func RecordUnitProcessed() {
	DefaultMetrics.UnitsProcessed.Inc()
}

// RecordUnitError increments the failed units counter.
func RecordUnitError() {
	DefaultMetrics.UnitErrors.Inc()
}

// RecordTradeSimulated counts one simulated trade by terminal status.
func RecordTradeSimulated(status string) {
	DefaultMetrics.TradesSimulated.WithLabelValues(status).Inc()
}

// RecordRun records a completed run.
func RecordRun(mode, status string, durationSeconds float64) {
	DefaultMetrics.RunsTotal.WithLabelValues(mode, status).Inc()
	DefaultMetrics.RunDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// RecordBarsIngested counts ingested price bars.
func RecordBarsIngested(granularity string, n int) {
	DefaultMetrics.BarsIngested.WithLabelValues(granularity).Add(float64(n))
}

// RecordIngestionError increments the ingestion error counter.
func RecordIngestionError() {
	DefaultMetrics.IngestionErrors.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
