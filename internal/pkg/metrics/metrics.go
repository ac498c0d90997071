package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Layer retrieval metrics
	LayerFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "citysketch",
		Subsystem: "geo",
		Name:      "layer_fetch_duration_seconds",
		Help:      "Duration of map layer retrieval from external services",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"layer"})

	LayerFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citysketch",
		Subsystem: "geo",
		Name:      "layer_fetch_errors_total",
		Help:      "Total map layer retrieval failures",
	}, []string{"layer"})

	// Dataset metrics
	DatasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citysketch",
		Subsystem: "data",
		Name:      "dataset_loads_total",
		Help:      "Total dataset load attempts by outcome",
	}, []string{"outcome"})

	// Rendering metrics
	RendersComposed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "citysketch",
		Subsystem: "render",
		Name:      "figures_composed_total",
		Help:      "Total figures composed and written",
	})

	RenderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "citysketch",
		Subsystem: "render",
		Name:      "figure_failures_total",
		Help:      "Total composition failures downgraded to warnings",
	})
)
