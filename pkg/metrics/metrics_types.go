package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Design run metrics
	DesignRunsTotal  *prometheus.CounterVec
	DesignDuration   prometheus.Histogram
	PhaseDuration    *prometheus.HistogramVec
	DesignPipesTotal *prometheus.GaugeVec

	// Network metrics
	NetworkNodesTotal      prometheus.Gauge
	NetworkEdgesTotal      prometheus.Gauge
	NetworkComponentsTotal prometheus.Gauge
	ConnectivityFixesTotal prometheus.Counter

	// Routing metrics
	RoutedBuildingsTotal   prometheus.Counter
	UnroutedBuildingsTotal prometheus.Counter
	RouteLengthMeters      prometheus.Histogram

	// Compliance metrics
	ViolationsTotal  *prometheus.CounterVec
	ComplianceChecks *prometheus.CounterVec

	// Resize metrics
	ResizeIterations prometheus.Histogram
	ResizeOutcomes   *prometheus.CounterVec
	PipesGrownTotal  prometheus.Counter

	// Solver metrics
	SolverCallsTotal     *prometheus.CounterVec
	SolverFallbacksTotal prometheus.Counter
	SolverDuration       prometheus.Histogram

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initDesignMetrics()
	r.initNetworkMetrics()
	r.initComplianceMetrics()
	r.initSolverMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
