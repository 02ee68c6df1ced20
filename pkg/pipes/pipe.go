package pipes

import (
	"fmt"
	"sort"
)

// Pipe is a directed traversal of one street edge for a given flow direction.
// Everything except DiameterM and the derived hydraulic/thermal fields is
// read-only after routing; only the sizing engine and the auto-resize loop
// mutate a pipe.
type Pipe struct {
	ID       string
	Type     Type
	Category CategoryName

	// Topology
	FromNode int
	ToNode   int
	LengthM  float64

	// Buildings served downstream of this segment, sorted
	Buildings []string

	// Aggregate design flow
	FlowKgS float64

	// Sized state
	DiameterM float64

	// Derived hydraulic fields, repopulated on each sizing pass
	VelocityMS      float64
	Reynolds        float64
	FrictionFactor  float64
	PressureDropPaM float64

	// Derived thermal fields
	ThermalLossW float64
	TemperatureC float64
}

// Key identifies the unordered street edge a pipe traverses, per direction.
// Two pipes with the same key are the same physical segment and must be
// merged by the router.
func (p *Pipe) Key() string {
	a, b := p.FromNode, p.ToNode
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s:%d-%d", p.Type, a, b)
}

// AddBuilding records another building served through this segment,
// keeping the list sorted and free of duplicates.
func (p *Pipe) AddBuilding(id string) {
	i := sort.SearchStrings(p.Buildings, id)
	if i < len(p.Buildings) && p.Buildings[i] == id {
		return
	}
	p.Buildings = append(p.Buildings, "")
	copy(p.Buildings[i+1:], p.Buildings[i:])
	p.Buildings[i] = id
}

// ServiceConnection is a building's snapped link to the street graph
type ServiceConnection struct {
	BuildingID        string
	Node              int
	DistanceToStreetM float64
	HeatDemandKW      float64
	FlowKgS           float64
}

// TotalFlow sums the design flow over a set of connections
func TotalFlow(conns []ServiceConnection) float64 {
	total := 0.0
	for _, c := range conns {
		total += c.FlowKgS
	}
	return total
}
