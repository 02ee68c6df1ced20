package network

import (
	"sort"

	"github.com/fjellvarme/heatgrid/pkg/logging"
)

// ConnectivityFixStreet names synthetic edges added by connectivity repair
const ConnectivityFixStreet = "connectivity_fix"

// MaxRepairDistance is the synthetic-edge length above which repair logs a
// warning. No hard cap is enforced: a far-flung component is still connected.
const MaxRepairDistance = 100.0

// Components returns the connected components of the graph as node-id lists,
// largest first. Component membership follows edges only; isolated nodes form
// singleton components.
func (g *Graph) Components() [][]int {
	seen := make([]bool, len(g.nodes))
	components := make([][]int, 0)

	for start := range g.nodes {
		if seen[start] {
			continue
		}
		comp := []int{start}
		seen[start] = true
		for i := 0; i < len(comp); i++ {
			for _, e := range g.adjacency[comp[i]] {
				next := e.Other(comp[i])
				if !seen[next] {
					seen[next] = true
					comp = append(comp, next)
				}
			}
		}
		components = append(components, comp)
	}

	sort.SliceStable(components, func(i, j int) bool {
		return len(components[i]) > len(components[j])
	})
	return components
}

// IsConnected reports whether every node is reachable from every other node
func (g *Graph) IsConnected() bool {
	return len(g.Components()) <= 1
}

// EnsureConnected repairs a disconnected graph in place: while more than one
// component remains, the closest node pair between the largest component and
// each remaining component gets a synthetic edge with the pair distance as
// weight, merging that component into the largest. The result is always
// connected; repairs longer than MaxRepairDistance are logged as warnings
// rather than rejected. Returns the number of synthetic edges added.
func (g *Graph) EnsureConnected(logger logging.Logger) (int, error) {
	if len(g.nodes) == 0 {
		return 0, ErrEmptyGeometry
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	components := g.Components()
	if len(components) <= 1 {
		return 0, nil
	}

	main := components[0]
	added := 0
	for _, comp := range components[1:] {
		fromID, toID, dist := g.closestPair(main, comp)

		if err := g.AddEdge(fromID, toID, dist, ConnectivityFixStreet, ""); err != nil {
			return added, err
		}
		added++

		if dist > MaxRepairDistance {
			logger.Warn("Connectivity repair bridged a distant component",
				logging.Component("network"),
				logging.NodeID(fromID),
				logging.Float64("distance_m", dist))
		} else {
			logger.Info("Connectivity repair added synthetic edge",
				logging.Component("network"),
				logging.NodeID(fromID),
				logging.Float64("distance_m", dist))
		}

		main = append(main, comp...)
	}

	return added, nil
}

// closestPair finds the globally closest node pair between two components by
// pairwise scan. Quadratic, acceptable at street-network scale.
func (g *Graph) closestPair(a, b []int) (int, int, float64) {
	bestA, bestB := a[0], b[0]
	best := g.nodes[bestA].Pos.Distance(g.nodes[bestB].Pos)

	for _, na := range a {
		for _, nb := range b {
			d := g.nodes[na].Pos.Distance(g.nodes[nb].Pos)
			if d < best {
				best = d
				bestA, bestB = na, nb
			}
		}
	}
	return bestA, bestB, best
}

// FarthestJunctionPair returns the two street junctions with the greatest
// pairwise distance, the heuristic anchor for pump placement. Brute-force
// O(n^2) over all junctions; a scaling risk past a few thousand nodes.
func (g *Graph) FarthestJunctionPair() (Node, Node, float64, error) {
	junctions := make([]int, 0, len(g.nodes))
	for _, n := range g.nodes {
		if n.Role == RoleStreetJunction {
			junctions = append(junctions, n.ID)
		}
	}
	if len(junctions) < 2 {
		return Node{}, Node{}, 0, ErrNoEdges
	}

	bestA, bestB := junctions[0], junctions[1]
	best := g.nodes[bestA].Pos.Distance(g.nodes[bestB].Pos)
	for i := 0; i < len(junctions); i++ {
		for j := i + 1; j < len(junctions); j++ {
			d := g.nodes[junctions[i]].Pos.Distance(g.nodes[junctions[j]].Pos)
			if d > best {
				best = d
				bestA, bestB = junctions[i], junctions[j]
			}
		}
	}
	return g.nodes[bestA], g.nodes[bestB], best, nil
}
