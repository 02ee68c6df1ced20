package metrics

import (
	"time"
)

// RecordDesignRun records a completed design run with its status and duration
func (r *Registry) RecordDesignRun(status string, duration time.Duration) {
	r.DesignRunsTotal.WithLabelValues(status).Inc()
	r.DesignDuration.Observe(duration.Seconds())
}

// RecordPhase records the duration of one design phase
func (r *Registry) RecordPhase(phase string, duration time.Duration) {
	r.PhaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// UpdateNetworkMetrics updates graph-level gauges after graph construction
func (r *Registry) UpdateNetworkMetrics(nodes, edges, components int) {
	r.NetworkNodesTotal.Set(float64(nodes))
	r.NetworkEdgesTotal.Set(float64(edges))
	r.NetworkComponentsTotal.Set(float64(components))
}

// RecordRouting records the outcome of routing one batch of buildings
func (r *Registry) RecordRouting(routed, unrouted int) {
	r.RoutedBuildingsTotal.Add(float64(routed))
	r.UnroutedBuildingsTotal.Add(float64(unrouted))
}

// RecordViolation records one standards violation
func (r *Registry) RecordViolation(kind, severity string) {
	r.ViolationsTotal.WithLabelValues(kind, severity).Inc()
}

// RecordComplianceCheck records one compliance check verdict
func (r *Registry) RecordComplianceCheck(valid bool) {
	verdict := "valid"
	if !valid {
		verdict = "invalid"
	}
	r.ComplianceChecks.WithLabelValues(verdict).Inc()
}

// RecordResize records the terminal state of one auto-resize run
func (r *Registry) RecordResize(state string, iterations, pipesGrown int) {
	r.ResizeOutcomes.WithLabelValues(state).Inc()
	r.ResizeIterations.Observe(float64(iterations))
	r.PipesGrownTotal.Add(float64(pipesGrown))
}

// RecordSolverCall records one solver invocation
func (r *Registry) RecordSolverCall(source, status string, duration time.Duration) {
	r.SolverCallsTotal.WithLabelValues(source, status).Inc()
	r.SolverDuration.Observe(duration.Seconds())
	if source == "estimate" {
		r.SolverFallbacksTotal.Inc()
	}
}
