package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initNetworkMetrics() {
	r.NetworkNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "heatgrid_network_nodes_total",
			Help: "Number of nodes in the last street graph",
		},
	)

	r.NetworkEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "heatgrid_network_edges_total",
			Help: "Number of edges in the last street graph",
		},
	)

	r.NetworkComponentsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "heatgrid_network_components_total",
			Help: "Number of connected components before repair",
		},
	)

	r.ConnectivityFixesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "heatgrid_network_connectivity_fixes_total",
			Help: "Total number of repair edges added to connect components",
		},
	)

	r.RoutedBuildingsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "heatgrid_routed_buildings_total",
			Help: "Total number of buildings routed successfully",
		},
	)

	r.UnroutedBuildingsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "heatgrid_unrouted_buildings_total",
			Help: "Total number of buildings no route could be found for",
		},
	)

	r.RouteLengthMeters = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heatgrid_route_length_meters",
			Help:    "Length of individual building routes in meters",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000},
		},
	)
}
