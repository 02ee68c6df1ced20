package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initComplianceMetrics() {
	r.ViolationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatgrid_violations_total",
			Help: "Total number of standards violations found",
		},
		[]string{"kind", "severity"},
	)

	r.ComplianceChecks = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatgrid_compliance_checks_total",
			Help: "Total number of compliance checks by verdict",
		},
		[]string{"verdict"}, // valid, invalid
	)
}
