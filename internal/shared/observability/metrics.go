package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "onefile_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"module"})

	WorkspaceUnits = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "onefile_workspace_units_total",
		Help: "Total number of class/enum units indexed from the workspace.",
	})

	BundleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "onefile_bundle_seconds",
		Help:    "Time spent producing one bundle artifact.",
		Buckets: prometheus.DefBuckets,
	})

	BundledUnits = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "onefile_bundled_units",
		Help:    "Number of units emitted into one bundle artifact.",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200},
	})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onefile_diagnostics_total",
		Help: "Total number of non-fatal diagnostics recorded during closure walks.",
	}, []string{"kind"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "onefile_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RebundlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "onefile_rebundles_total",
		Help: "Total number of bundle runs triggered by watch mode.",
	})
)
