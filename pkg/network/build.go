package network

// StreetSegment is one input polyline in a projected CRS, with optional
// metadata carried onto every edge it produces.
type StreetSegment struct {
	Points     []Point
	StreetName string
	RoadClass  string
}

// BuildGraph constructs the street graph from a set of polylines: one node
// per distinct coordinate, one edge per consecutive point pair, weights equal
// to euclidean length. Zero-length hops (repeated points) are skipped.
// Returns ErrEmptyGeometry if no segment yields a single edge.
func BuildGraph(segments []StreetSegment) (*Graph, error) {
	g := NewGraph()

	for _, seg := range segments {
		for i := 0; i+1 < len(seg.Points); i++ {
			a := seg.Points[i]
			b := seg.Points[i+1]
			length := a.Distance(b)
			if length <= 0 {
				continue
			}
			na := g.AddNode(a, RoleStreetJunction)
			nb := g.AddNode(b, RoleStreetJunction)
			if err := g.AddEdge(na, nb, length, seg.StreetName, seg.RoadClass); err != nil {
				return nil, err
			}
		}
	}

	if g.EdgeCount() == 0 {
		return nil, ErrEmptyGeometry
	}
	return g, nil
}
