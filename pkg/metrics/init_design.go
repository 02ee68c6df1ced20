package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDesignMetrics() {
	r.DesignRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatgrid_design_runs_total",
			Help: "Total number of design runs",
		},
		[]string{"status"}, // ok, degraded, failed
	)

	r.DesignDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heatgrid_design_duration_seconds",
			Help:    "End-to-end duration of a design run in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 5.0, 15.0, 60.0, 300.0},
		},
	)

	r.PhaseDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "heatgrid_phase_duration_seconds",
			Help:    "Duration of individual design phases in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"phase"}, // graph, routing, sizing, compliance, resize, simulation
	)

	r.DesignPipesTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "heatgrid_design_pipes_total",
			Help: "Number of pipe segments in the last design by type and category",
		},
		[]string{"pipe_type", "category"},
	)

	r.ResizeIterations = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heatgrid_resize_iterations",
			Help:    "Number of iterations used by the auto-resize loop",
			Buckets: []float64{1, 2, 3, 5, 8, 10, 15, 20},
		},
	)

	r.ResizeOutcomes = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatgrid_resize_outcomes_total",
			Help: "Terminal states of the auto-resize loop",
		},
		[]string{"state"}, // converged, stalled, exhausted
	)

	r.PipesGrownTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "heatgrid_resize_pipes_grown_total",
			Help: "Total number of pipe diameter increases applied by auto-resize",
		},
	)
}
