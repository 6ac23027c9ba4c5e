// Package metrics holds the console's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequests counts decisioning backend calls by operation and outcome
	// (ok, api_error, transport_error, malformed).
	BackendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fraud_console",
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Requests sent to the decisioning backend.",
	}, []string{"operation", "outcome"})

	BackendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fraud_console",
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Latency of decisioning backend calls.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"operation"})

	HITLResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fraud_console",
		Subsystem: "hitl",
		Name:      "resolutions_total",
		Help:      "Cases resolved by analysts, by decision.",
	}, []string{"decision"})

	DashboardStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fraud_console",
		Subsystem: "dashboard",
		Name:      "streams_active",
		Help:      "Open live dashboard connections.",
	})

	SeedRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fraud_console",
		Subsystem: "simulator",
		Name:      "seed_runs_total",
		Help:      "Simulator seed runs by outcome.",
	}, []string{"outcome"})

	PanicsRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fraud_console",
		Subsystem: "http",
		Name:      "panics_recovered_total",
		Help:      "Handler panics turned into 500 responses.",
	})
)
