package network

import (
	"errors"
	"math"
	"testing"
)

func straightStreet(t *testing.T) *Graph {
	t.Helper()
	g, err := BuildGraph([]StreetSegment{
		{Points: []Point{{0, 0}, {200, 0}}, StreetName: "Main St"},
	})
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}
	return g
}

func TestSnapPoint_MidEdgeSplit(t *testing.T) {
	g := straightStreet(t)

	res, err := g.SnapPoint(Point{X: 80, Y: 30}, RoleServiceConnection)
	if err != nil {
		t.Fatalf("SnapPoint failed: %v", err)
	}

	if math.Abs(res.DistanceM-30) > 1e-9 {
		t.Errorf("Expected perpendicular distance 30, got %f", res.DistanceM)
	}

	node, err := g.Node(res.Node)
	if err != nil {
		t.Fatalf("Node lookup failed: %v", err)
	}
	if node.Pos.X != 80 || node.Pos.Y != 0 {
		t.Errorf("Expected projection at (80, 0), got (%f, %f)", node.Pos.X, node.Pos.Y)
	}
	if node.Role != RoleServiceConnection {
		t.Errorf("Expected service_connection role, got %s", node.Role)
	}

	// The edge split is length preserving
	if g.EdgeCount() != 2 {
		t.Fatalf("Expected the edge to split in two, got %d", g.EdgeCount())
	}
	total := 0.0
	for _, e := range g.Edges() {
		total += e.LengthM
		if e.StreetName != "Main St" {
			t.Errorf("Split edges must keep the street name, got %q", e.StreetName)
		}
	}
	if math.Abs(total-200) > 1e-9 {
		t.Errorf("Split lengths must sum to the original 200, got %f", total)
	}
}

func TestSnapPoint_EndpointReuse(t *testing.T) {
	g := straightStreet(t)

	res, err := g.SnapPoint(Point{X: -50, Y: 10}, RolePlant)
	if err != nil {
		t.Fatalf("SnapPoint failed: %v", err)
	}

	node, _ := g.Node(res.Node)
	if node.Pos.X != 0 || node.Pos.Y != 0 {
		t.Errorf("Projection past the segment start must clip to (0, 0), got (%f, %f)", node.Pos.X, node.Pos.Y)
	}
	if node.Role != RolePlant {
		t.Errorf("Expected plant role on the reused endpoint, got %s", node.Role)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("Endpoint snap must not split the edge, got %d edges", g.EdgeCount())
	}
}

func TestSnapPoint_ExistingNodeReuse(t *testing.T) {
	g := straightStreet(t)

	first, err := g.SnapPoint(Point{X: 80, Y: 30}, RoleServiceConnection)
	if err != nil {
		t.Fatalf("SnapPoint failed: %v", err)
	}
	second, err := g.SnapPoint(Point{X: 80, Y: -40}, RoleServiceConnection)
	if err != nil {
		t.Fatalf("SnapPoint failed: %v", err)
	}

	if first.Node != second.Node {
		t.Errorf("Snap onto an existing projection must reuse the node: %d vs %d", first.Node, second.Node)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("Second snap must not split again, got %d edges", g.EdgeCount())
	}
}

func TestSnapPoint_EmptyGraph(t *testing.T) {
	g := NewGraph()
	if _, err := g.SnapPoint(Point{X: 0, Y: 0}, RolePlant); !errors.Is(err, ErrNoEdges) {
		t.Errorf("Expected ErrNoEdges, got %v", err)
	}
}

func TestProjectOntoSegment(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 10, Y: 0}

	proj, tt := projectOntoSegment(Point{X: 5, Y: 5}, a, b)
	if proj.X != 5 || proj.Y != 0 || tt != 0.5 {
		t.Errorf("Expected (5, 0) at t=0.5, got (%f, %f) at t=%f", proj.X, proj.Y, tt)
	}

	proj, tt = projectOntoSegment(Point{X: 20, Y: 3}, a, b)
	if proj != b || tt != 1 {
		t.Errorf("Expected clip to b, got (%f, %f) at t=%f", proj.X, proj.Y, tt)
	}

	// Degenerate zero-length segment projects to its start
	proj, tt = projectOntoSegment(Point{X: 3, Y: 3}, a, a)
	if proj != a || tt != 0 {
		t.Error("Degenerate segment must project to its start")
	}
}
