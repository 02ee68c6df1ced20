package network

// SnapResult describes where a point landed on the street graph
type SnapResult struct {
	Node      int
	DistanceM float64
}

// SnapPoint projects a point onto its nearest edge (perpendicular projection
// clipped to the segment), inserts a node at the projection unless one
// already exists at that coordinate, and splits the edge into two edges whose
// lengths sum to the original. Returns ErrNoEdges when the graph has no edges
// to snap onto.
func (g *Graph) SnapPoint(p Point, role Role) (SnapResult, error) {
	if g.EdgeCount() == 0 {
		return SnapResult{}, ErrNoEdges
	}

	var bestEdge *Edge
	var bestProj Point
	bestT := 0.0
	bestDist := 0.0
	first := true

	for _, e := range g.Edges() {
		proj, t := projectOntoSegment(p, g.nodes[e.A].Pos, g.nodes[e.B].Pos)
		d := p.Distance(proj)
		if first || d < bestDist {
			first = false
			bestEdge, bestProj, bestT, bestDist = e, proj, t, d
		}
	}

	// Projection landing on an endpoint reuses that node
	const endpointEps = 1e-9
	if bestT <= endpointEps {
		bestProj = g.nodes[bestEdge.A].Pos
	} else if bestT >= 1-endpointEps {
		bestProj = g.nodes[bestEdge.B].Pos
	}
	if bestProj == g.nodes[bestEdge.A].Pos {
		g.promoteRole(bestEdge.A, role)
		return SnapResult{Node: bestEdge.A, DistanceM: bestDist}, nil
	}
	if bestProj == g.nodes[bestEdge.B].Pos {
		g.promoteRole(bestEdge.B, role)
		return SnapResult{Node: bestEdge.B, DistanceM: bestDist}, nil
	}

	// A node already present at the projection is reused as-is
	if id, ok := g.byCoord[bestProj]; ok {
		g.promoteRole(id, role)
		return SnapResult{Node: id, DistanceM: bestDist}, nil
	}

	// Length-preserving split: portions of the stored weight, not fresh
	// euclidean lengths, so repaired or collapsed edges keep their weight.
	mid := g.AddNode(bestProj, role)
	lenA := bestEdge.LengthM * bestT
	lenB := bestEdge.LengthM * (1 - bestT)

	old := *bestEdge
	g.removeEdge(bestEdge)
	if lenA > 0 {
		if err := g.AddEdge(old.A, mid, lenA, old.StreetName, old.RoadClass); err != nil {
			return SnapResult{}, err
		}
	}
	if lenB > 0 {
		if err := g.AddEdge(mid, old.B, lenB, old.StreetName, old.RoadClass); err != nil {
			return SnapResult{}, err
		}
	}

	return SnapResult{Node: mid, DistanceM: bestDist}, nil
}

func (g *Graph) promoteRole(id int, role Role) {
	if role != RoleStreetJunction && g.nodes[id].Role == RoleStreetJunction {
		g.nodes[id].Role = role
	}
}

// projectOntoSegment returns the closest point on segment [a, b] to p and the
// parameter t in [0, 1] along the segment.
func projectOntoSegment(p, a, b Point) (Point, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a, 0
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Point{X: a.X + t*dx, Y: a.Y + t*dy}, t
}
