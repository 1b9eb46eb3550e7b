package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Watch metrics
var (
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beetwatch_events_total",
			Help: "Total number of debounced watch events by classified action",
		},
		[]string{"action"},
	)

	ProcessedDirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "beetwatch_processed_directories",
			Help: "Number of directories currently in the processed set",
		},
	)
)

// Dispatch metrics
var (
	DispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beetwatch_dispatches_total",
			Help: "Total number of dispatches by action and result",
		},
		[]string{"action", "result"},
	)

	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "beetwatch_dispatch_duration_seconds",
			Help:    "Duration of import command runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"action"},
	)

	DispatchesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "beetwatch_dispatches_in_flight",
			Help: "Number of import commands currently running",
		},
	)
)
