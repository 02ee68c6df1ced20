package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSolverMetrics() {
	r.SolverCallsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatgrid_solver_calls_total",
			Help: "Total number of hydraulic solver calls",
		},
		[]string{"source", "status"}, // source: solver, estimate
	)

	r.SolverFallbacksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "heatgrid_solver_fallbacks_total",
			Help: "Total number of times the solver degraded to the estimator",
		},
	)

	r.SolverDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heatgrid_solver_duration_seconds",
			Help:    "Duration of solver calls in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 5.0, 10.0, 30.0, 60.0},
		},
	)
}
