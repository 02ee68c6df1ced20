// Package routing computes dual-pipe (supply + return) routes from the heat
// plant to every service connection over the street graph, deduplicates the
// shared trunk segments and aggregates per-segment flow.
package routing

import (
	"errors"

	"github.com/fjellvarme/heatgrid/pkg/network"
)

// ErrNoRoute is returned when a target is unreachable from the source
var ErrNoRoute = errors.New("no route to node")

// ShortestPath finds the minimum-length path between two nodes using
// Dijkstra's algorithm with edge length as weight. Ties break on node
// insertion order, so identical graphs always produce identical paths.
func ShortestPath(g *network.Graph, startID, endID int) ([]int, float64, error) {
	if _, err := g.Node(startID); err != nil {
		return nil, 0, err
	}
	if _, err := g.Node(endID); err != nil {
		return nil, 0, err
	}
	if startID == endID {
		return []int{startID}, 0, nil
	}

	type pqItem struct {
		nodeID   int
		distance float64
	}

	distances := make(map[int]float64)
	parent := make(map[int]int)
	done := make(map[int]bool)
	distances[startID] = 0
	parent[startID] = startID

	pq := []pqItem{{startID, 0}}

	for len(pq) > 0 {
		// Extract min by linear scan; strict less keeps the earliest
		// inserted item on ties.
		minIdx := 0
		for i := 1; i < len(pq); i++ {
			if pq[i].distance < pq[minIdx].distance {
				minIdx = i
			}
		}

		current := pq[minIdx]
		pq = append(pq[:minIdx], pq[minIdx+1:]...)

		if done[current.nodeID] {
			continue
		}
		done[current.nodeID] = true

		if current.nodeID == endID {
			return reconstructPath(startID, endID, parent), distances[endID], nil
		}

		for _, edge := range g.Neighbors(current.nodeID) {
			neighborID := edge.Other(current.nodeID)
			newDist := current.distance + edge.LengthM

			if oldDist, visited := distances[neighborID]; !visited || newDist < oldDist {
				distances[neighborID] = newDist
				parent[neighborID] = current.nodeID
				pq = append(pq, pqItem{neighborID, newDist})
			}
		}
	}

	return nil, 0, ErrNoRoute
}

// reconstructPath builds the start-to-end node sequence from the parent map
func reconstructPath(startID, endID int, parent map[int]int) []int {
	path := make([]int, 0)
	node := endID
	for node != startID {
		path = append(path, node)
		node = parent[node]
	}
	path = append(path, startID)

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
