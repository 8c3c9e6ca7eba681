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
	// Backtest metrics
	BacktestRunsTotal *prometheus.CounterVec
	BacktestDuration  prometheus.Histogram
	BarsProcessed     prometheus.Counter
	TradesSimulated   prometheus.Counter
	TradeOutcomes     *prometheus.CounterVec
	CashFloorBreaches prometheus.Counter

	// Optimizer metrics
	RecommendationsServed prometheus.Counter
	CandidatesEvaluated   prometheus.Counter

	// Ingestion metrics
	BarsFetched     *prometheus.CounterVec
	BarsStored      prometheus.Counter
	IngestionErrors *prometheus.CounterVec

	// Server metrics
	HTTPRequestDuration *prometheus.HistogramVec
	WSClientsConnected  prometheus.Gauge
	WSSamplesBroadcast  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun    prometheus.Gauge
	LastSuccessfulIngest prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "covered_call_lab"
	}

	return &Metrics{
		// Backtest metrics
		BacktestRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "runs_total",
			Help:      "Total number of backtest runs by status",
		}, []string{"status"}),
		BacktestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "duration_seconds",
			Help:      "Backtest execution duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
		BarsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "bars_processed_total",
			Help:      "Total number of daily price bars processed",
		}),
		TradesSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "trades_simulated_total",
			Help:      "Total number of option trades simulated",
		}),
		TradeOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "trade_outcomes_total",
			Help:      "Total number of closed trades by outcome",
		}, []string{"outcome"}),
		CashFloorBreaches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "cash_floor_breaches_total",
			Help:      "Total number of days the spot price closed below the cash floor",
		}),

		// Optimizer metrics
		RecommendationsServed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "recommendations_served_total",
			Help:      "Total number of strike/expiry recommendations served",
		}),
		CandidatesEvaluated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "candidates_evaluated_total",
			Help:      "Total number of strike/DTE combinations scored",
		}),

		// Ingestion metrics
		BarsFetched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "bars_fetched_total",
			Help:      "Total number of price bars fetched by source",
		}, []string{"source"}),
		BarsStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "bars_stored_total",
			Help:      "Total number of price bars stored to database",
		}),
		IngestionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "errors_total",
			Help:      "Total number of ingestion errors by source and type",
		}, []string{"source", "error_type"}),

		// Server metrics
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method", "status"}),
		WSClientsConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "ws_clients_connected",
			Help:      "Current number of connected WebSocket clients",
		}),
		WSSamplesBroadcast: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "ws_samples_broadcast_total",
			Help:      "Total number of equity curve samples broadcast over WebSocket",
		}),

		// Database metrics
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

		// Health metrics
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful backtest run",
		}),
		LastSuccessfulIngest: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_ingest_timestamp",
			Help:      "Unix timestamp of last successful data ingestion",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordBacktestRun records a completed backtest run.
func RecordBacktestRun(status string, durationSeconds float64) {
	DefaultMetrics.BacktestRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.BacktestDuration.Observe(durationSeconds)
}

// RecordTradeClosed records a closed trade by outcome.
func RecordTradeClosed(outcome string) {
	DefaultMetrics.TradesSimulated.Inc()
	DefaultMetrics.TradeOutcomes.WithLabelValues(outcome).Inc()
}

// RecordBarsProcessed adds to the processed bar counter.
func RecordBarsProcessed(n int) {
	DefaultMetrics.BarsProcessed.Add(float64(n))
}

// RecordRecommendation increments the recommendations served counter.
func RecordRecommendation(candidatesEvaluated int) {
	DefaultMetrics.RecommendationsServed.Inc()
	DefaultMetrics.CandidatesEvaluated.Add(float64(candidatesEvaluated))
}

// RecordBarsFetched records bars fetched from an external source.
func RecordBarsFetched(source string, n int) {
	DefaultMetrics.BarsFetched.WithLabelValues(source).Add(float64(n))
}

// RecordIngestionError records an ingestion error.
func RecordIngestionError(source, errorType string) {
	DefaultMetrics.IngestionErrors.WithLabelValues(source, errorType).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
