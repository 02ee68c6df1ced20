// Package network builds the connected, length-weighted street graph the
// router operates on: node arena with coordinate identity, adjacency keyed by
// unordered node-id pairs, connectivity repair and point snapping.
//
// Coordinates must be in a projected, length-preserving CRS. Callers project
// before building; edge lengths are euclidean meters, never degrees.
package network

import (
	"fmt"
	"math"
	"sort"
)

// Role classifies a node's function in the heat network
type Role string

const (
	// RolePlant marks the heat plant node
	RolePlant Role = "plant"
	// RoleServiceConnection marks a building's snapped connection node
	RoleServiceConnection Role = "service_connection"
	// RoleStreetJunction marks an ordinary street node
	RoleStreetJunction Role = "street_junction"
)

// Point is a projected coordinate in meters
type Point struct {
	X float64
	Y float64
}

// Distance returns the euclidean distance to another point
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Node is an immutable graph vertex. Identity is the arena index; nodes with
// equal coordinates are the same node by construction.
type Node struct {
	ID   int
	Pos  Point
	Role Role
}

// Edge is an undirected street segment between two nodes
type Edge struct {
	A          int
	B          int
	LengthM    float64
	StreetName string
	RoadClass  string
}

// Other returns the opposite endpoint of the edge
func (e *Edge) Other(node int) int {
	if e.A == node {
		return e.B
	}
	return e.A
}

// pairKey is the unordered node-id pair an edge is stored under
type pairKey struct {
	lo int
	hi int
}

func makePairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// Graph is the street network: a node arena plus an adjacency map keyed by
// node-id pairs. Duplicate edges between the same pair collapse to the
// minimum length at insertion time.
type Graph struct {
	nodes   []Node
	byCoord map[Point]int
	edges   map[pairKey]*Edge
	// adjacency holds, per node, edges in insertion order. Kept ordered so
	// shortest-path tie-breaks are deterministic.
	adjacency map[int][]*Edge
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		nodes:     make([]Node, 0),
		byCoord:   make(map[Point]int),
		edges:     make(map[pairKey]*Edge),
		adjacency: make(map[int][]*Edge),
	}
}

// AddNode returns the node at the given coordinate, creating it if no node
// exists there yet. Coordinate identity is exact.
func (g *Graph) AddNode(pos Point, role Role) int {
	if id, ok := g.byCoord[pos]; ok {
		// An existing junction keeps its role unless upgraded to a
		// special role by a later snap.
		if role != RoleStreetJunction && g.nodes[id].Role == RoleStreetJunction {
			g.nodes[id].Role = role
		}
		return id
	}
	id := len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id, Pos: pos, Role: role})
	g.byCoord[pos] = id
	return id
}

// AddEdge inserts an undirected edge. Self-loops and non-positive lengths are
// rejected. A duplicate edge between the same pair keeps the minimum length.
func (g *Graph) AddEdge(a, b int, lengthM float64, streetName, roadClass string) error {
	if a == b {
		return fmt.Errorf("%w: self-loop on node %d", ErrInvalidEdge, a)
	}
	if a < 0 || a >= len(g.nodes) || b < 0 || b >= len(g.nodes) {
		return fmt.Errorf("%w: endpoint out of range (%d, %d)", ErrInvalidEdge, a, b)
	}
	if lengthM <= 0 {
		return fmt.Errorf("%w: non-positive length %f", ErrInvalidEdge, lengthM)
	}

	key := makePairKey(a, b)
	if existing, ok := g.edges[key]; ok {
		if lengthM < existing.LengthM {
			existing.LengthM = lengthM
			existing.StreetName = streetName
			existing.RoadClass = roadClass
		}
		return nil
	}

	edge := &Edge{A: a, B: b, LengthM: lengthM, StreetName: streetName, RoadClass: roadClass}
	g.edges[key] = edge
	g.adjacency[a] = append(g.adjacency[a], edge)
	g.adjacency[b] = append(g.adjacency[b], edge)
	return nil
}

// removeEdge detaches an edge from the graph (used by the snap split)
func (g *Graph) removeEdge(e *Edge) {
	delete(g.edges, makePairKey(e.A, e.B))
	g.adjacency[e.A] = removeFromList(g.adjacency[e.A], e)
	g.adjacency[e.B] = removeFromList(g.adjacency[e.B], e)
}

func removeFromList(list []*Edge, e *Edge) []*Edge {
	for i, other := range list {
		if other == e {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Node returns the node with the given id
func (g *Graph) Node(id int) (Node, error) {
	if id < 0 || id >= len(g.nodes) {
		return Node{}, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	return g.nodes[id], nil
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns the node arena in insertion order. The slice is shared;
// callers must not mutate it.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Neighbors returns the edges incident to a node, in insertion order
func (g *Graph) Neighbors(id int) []*Edge {
	return g.adjacency[id]
}

// Edges returns all edges, ordered by their unordered node-id pair so
// iteration is deterministic.
func (g *Graph) Edges() []*Edge {
	keys := make([]pairKey, 0, len(g.edges))
	for k := range g.edges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].lo != keys[j].lo {
			return keys[i].lo < keys[j].lo
		}
		return keys[i].hi < keys[j].hi
	})
	out := make([]*Edge, len(keys))
	for i, k := range keys {
		out[i] = g.edges[k]
	}
	return out
}

// TotalLength returns the summed length of all edges in meters
func (g *Graph) TotalLength() float64 {
	total := 0.0
	for _, e := range g.edges {
		total += e.LengthM
	}
	return total
}
