package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sparehub"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Fleet scan metrics
var (
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fleet_scans_total",
			Help:      "Total number of fleet maintenance scans",
		},
		[]string{"status"},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fleet_scan_duration_seconds",
			Help:      "Fleet scan execution time distribution",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)

// Business metrics
var (
	WorkOrdersGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_orders_generated_total",
			Help:      "Total number of work orders created by the generator",
		},
	)

	WorkOrdersCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_orders_completed_total",
			Help:      "Total number of work orders completed",
		},
	)

	WorkOrdersCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_orders_cancelled_total",
			Help:      "Total number of work orders cancelled",
		},
	)

	ComponentsReset = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "components_reset_total",
			Help:      "Total number of component wear clocks reset by completions",
		},
	)

	InvalidCatalogEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_entries_invalid_total",
			Help:      "Total number of components skipped due to malformed catalog data",
		},
	)
)
