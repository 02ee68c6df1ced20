// Package pipes holds the shared domain model for district-heating pipe
// networks: pipe segments, service connections, pipe categories and the
// standard diameter catalog. The model is produced by the router, sized by
// the sizing engine and audited by the compliance validator.
package pipes

import (
	"fmt"
)

// Type is the flow direction of a pipe segment
type Type string

const (
	// Supply carries hot water from the plant toward consumers
	Supply Type = "supply"
	// Return carries cooled water back to the plant
	Return Type = "return"
)

// CategoryName identifies a tier of the pipe hierarchy
type CategoryName string

const (
	// Service pipes branch from the street into a single building
	Service CategoryName = "service"
	// Distribution pipes feed a street or block
	Distribution CategoryName = "distribution"
	// Main pipes form the trunk from the plant
	Main CategoryName = "main"
)

// Category is the static configuration of one pipe tier. Immutable per run.
type Category struct {
	Name                 CategoryName
	MinDiameterM         float64
	MaxDiameterM         float64
	VelocityLimitMS      float64
	PressureDropLimitPaM float64
	MinFlowKgS           float64
	MaxFlowKgS           float64
	Insulated            bool
}

// Contains reports whether a diameter lies within the category's range
func (c Category) Contains(diameterM float64) bool {
	return diameterM >= c.MinDiameterM && diameterM <= c.MaxDiameterM
}

// ClampDiameter clamps a diameter to the category's range
func (c Category) ClampDiameter(diameterM float64) float64 {
	if diameterM < c.MinDiameterM {
		return c.MinDiameterM
	}
	if diameterM > c.MaxDiameterM {
		return c.MaxDiameterM
	}
	return diameterM
}

// StandardCatalogM is the ascending catalog of standard inner diameters in
// meters (DN 25 through DN 400).
var StandardCatalogM = []float64{
	0.025, 0.032, 0.040, 0.050, 0.063, 0.080,
	0.100, 0.125, 0.150, 0.200, 0.250, 0.300, 0.400,
}

// Categories bundles the three tiers for one design run
type Categories struct {
	Service      Category
	Distribution Category
	Main         Category
}

// DefaultCategories returns the reference limits: services have the lowest
// velocity ceiling, mains the tightest pressure-drop ceiling (same velocity
// ceiling as distribution).
func DefaultCategories() Categories {
	return Categories{
		Service: Category{
			Name:                 Service,
			MinDiameterM:         0.020,
			MaxDiameterM:         0.063,
			VelocityLimitMS:      1.5,
			PressureDropLimitPaM: 300,
			MinFlowKgS:           0.01,
			MaxFlowKgS:           2.0,
			Insulated:            true,
		},
		Distribution: Category{
			Name:                 Distribution,
			MinDiameterM:         0.040,
			MaxDiameterM:         0.200,
			VelocityLimitMS:      2.5,
			PressureDropLimitPaM: 200,
			MinFlowKgS:           0.5,
			MaxFlowKgS:           20.0,
			Insulated:            true,
		},
		Main: Category{
			Name:                 Main,
			MinDiameterM:         0.080,
			MaxDiameterM:         0.400,
			VelocityLimitMS:      2.5,
			PressureDropLimitPaM: 100,
			MinFlowKgS:           5.0,
			MaxFlowKgS:           200.0,
			Insulated:            true,
		},
	}
}

// ByName returns the category with the given name
func (cs Categories) ByName(name CategoryName) (Category, error) {
	switch name {
	case Service:
		return cs.Service, nil
	case Distribution:
		return cs.Distribution, nil
	case Main:
		return cs.Main, nil
	default:
		return Category{}, fmt.Errorf("unknown pipe category %q", name)
	}
}

// ForFlow picks the category a trunk segment belongs to from its aggregate
// flow. Segments serving a single building stay services regardless of flow;
// that decision is the router's, not this function's.
func (cs Categories) ForFlow(flowKgS float64) Category {
	if flowKgS >= cs.Main.MinFlowKgS {
		return cs.Main
	}
	if flowKgS >= cs.Distribution.MinFlowKgS {
		return cs.Distribution
	}
	return cs.Service
}
