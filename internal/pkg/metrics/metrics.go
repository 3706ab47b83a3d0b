package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RPCRequestsTotal counts JSON-RPC requests by method and outcome.
	RPCRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basetools",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Number of JSON-RPC requests issued, labelled by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	// RPCRequestDuration observes JSON-RPC request latency by method.
	RPCRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "basetools",
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "JSON-RPC request latency in seconds, labelled by method.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// SubmissionsTotal counts dispatched transactions by protocol and terminal status.
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basetools",
			Subsystem: "dispatch",
			Name:      "submissions_total",
			Help:      "Number of submitted transactions, labelled by protocol and status.",
		},
		[]string{"protocol", "status"},
	)

	// MarketDataRequestsTotal counts market-data API calls by endpoint and outcome.
	MarketDataRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basetools",
			Subsystem: "marketdata",
			Name:      "requests_total",
			Help:      "Number of market-data API requests, labelled by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call once at startup; duplicate registration panics.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		RPCRequestsTotal,
		RPCRequestDuration,
		SubmissionsTotal,
		MarketDataRequestsTotal,
	)
}
