// Package sizing converts required flows into standard pipe diameters under
// velocity and pressure-drop constraints, snaps the result to the diameter
// catalog and prices it.
package sizing

import (
	"math"

	"github.com/fjellvarme/heatgrid/pkg/compliance"
	"github.com/fjellvarme/heatgrid/pkg/hydraulics"
	"github.com/fjellvarme/heatgrid/pkg/pipes"
)

// Diameter search parameters for the pressure-drop constraint
const (
	// searchStartDiameterM is the initial guess of the iterative search
	searchStartDiameterM = 0.1
	// searchMaxIterations bounds the search
	searchMaxIterations = 20
	// searchTolerancePaM stops the search within this band of the target
	searchTolerancePaM = 10.0
	// searchGrowFactor widens the pipe when the drop is too high
	searchGrowFactor = 1.1
	// searchShrinkFactor narrows the pipe when the drop is too low
	searchShrinkFactor = 0.95
)

// Engine sizes pipes for one design run. Stateless between calls: sizing the
// same input twice yields the same result.
type Engine struct {
	categories pipes.Categories
	validator  *compliance.Validator
	// RoughnessM is the absolute pipe wall roughness in meters
	RoughnessM float64
	// Costs prices the selected diameter
	Costs CostFactors
}

// NewEngine creates a sizing engine with the given categories and the
// reference roughness and cost factors.
func NewEngine(categories pipes.Categories) *Engine {
	return &Engine{
		categories: categories,
		validator:  compliance.NewValidator(categories),
		RoughnessM: 0.0001,
		Costs:      DefaultCostFactors(),
	}
}

// Validator exposes the engine's compliance validator so callers audit with
// the same limits the engine sizes against.
func (e *Engine) Validator() *compliance.Validator {
	return e.validator
}

// Result is the immutable outcome of one sizing call
type Result struct {
	// RequiredDiameterM is the constraint-derived diameter before catalog
	// selection, clamped to the category range
	RequiredDiameterM float64
	// DiameterM is the selected standard diameter
	DiameterM float64
	// CatalogExhausted is set when no catalog value satisfies the required
	// diameter within the category range and the largest in-range value was
	// used instead. A compliance risk, not an error.
	CatalogExhausted bool

	VelocityMS      float64
	Reynolds        float64
	FrictionFactor  float64
	PressureDropPaM float64
	PressureDropPa  float64

	CostPerM  float64
	TotalCost float64

	Compliant  bool
	Violations []compliance.Violation
}

// RequiredDiameter returns the diameter in meters needed to carry the flow
// within the category's velocity and pressure-drop limits. The two
// constraints are solved independently and combined by max, then clamped to
// the category's diameter range.
func (e *Engine) RequiredDiameter(flowKgS float64, category pipes.Category) float64 {
	if flowKgS <= 0 {
		return category.MinDiameterM
	}

	byVelocity := diameterForVelocity(flowKgS, category.VelocityLimitMS)
	byPressure := e.diameterForPressureDrop(flowKgS, category.PressureDropLimitPaM)

	return category.ClampDiameter(math.Max(byVelocity, byPressure))
}

// diameterForVelocity solves the velocity constraint in closed form:
// D = sqrt(4 m / (rho pi v_max)).
func diameterForVelocity(flowKgS, velocityLimitMS float64) float64 {
	if velocityLimitMS <= 0 {
		return 0
	}
	return math.Sqrt(4.0 * flowKgS / (hydraulics.WaterDensity * math.Pi * velocityLimitMS))
}

// diameterForPressureDrop searches for the diameter whose frictional gradient
// lands within tolerance of the target: bounded loop growing the diameter
// when the drop is too high and shrinking it when too low.
func (e *Engine) diameterForPressureDrop(flowKgS, targetPaM float64) float64 {
	if targetPaM <= 0 {
		return 0
	}

	diameter := searchStartDiameterM
	for i := 0; i < searchMaxIterations; i++ {
		_, _, _, dropPaM := hydraulics.PressureGradient(flowKgS, diameter, e.RoughnessM)

		if math.Abs(dropPaM-targetPaM) <= searchTolerancePaM {
			break
		}
		if dropPaM > targetPaM {
			diameter *= searchGrowFactor
		} else {
			diameter *= searchShrinkFactor
		}
	}
	return diameter
}

// SelectStandardDiameter picks the smallest catalog diameter that is at least
// the required diameter and inside the category range. When no catalog value
// qualifies it degrades to the largest in-range value and reports exhausted;
// the caller must treat that as a compliance risk, not a failure.
func (e *Engine) SelectStandardDiameter(requiredM float64, category pipes.Category) (float64, bool) {
	largestInRange := 0.0
	for _, d := range pipes.StandardCatalogM {
		if !category.Contains(d) {
			continue
		}
		largestInRange = d
		if d >= requiredM {
			return d, false
		}
	}
	if largestInRange == 0 {
		// Catalog and category range are disjoint; fall back to the range
		// ceiling itself so downstream hydraulics stay defined.
		return category.MaxDiameterM, true
	}
	return largestInRange, true
}

// SizePipe sizes one pipe: required diameter, catalog selection, derived
// hydraulics over lengthM, cost and the compliance verdict the auto-resize
// loop operates on.
func (e *Engine) SizePipe(flowKgS, lengthM float64, category pipes.Category) Result {
	required := e.RequiredDiameter(flowKgS, category)
	selected, exhausted := e.SelectStandardDiameter(required, category)

	velocity, reynolds, friction, dropPaM := hydraulics.PressureGradient(flowKgS, selected, e.RoughnessM)

	costPerM := e.Costs.PerMeter(selected, category)

	result := Result{
		RequiredDiameterM: required,
		DiameterM:         selected,
		CatalogExhausted:  exhausted,
		VelocityMS:        velocity,
		Reynolds:          reynolds,
		FrictionFactor:    friction,
		PressureDropPaM:   dropPaM,
		PressureDropPa:    dropPaM * lengthM,
		CostPerM:          costPerM,
		TotalCost:         costPerM * lengthM,
	}

	probe := &pipes.Pipe{
		ID:        "sizing-probe",
		Category:  category.Name,
		LengthM:   lengthM,
		FlowKgS:   flowKgS,
		DiameterM: selected,
	}
	result.Violations = e.validator.CheckPipe(probe)
	result.Compliant = true
	for _, v := range result.Violations {
		if v.Severity == compliance.Critical {
			result.Compliant = false
		}
	}
	return result
}

// Apply writes a sizing result onto a pipe's mutable fields
func Apply(p *pipes.Pipe, r Result) {
	p.DiameterM = r.DiameterM
	p.VelocityMS = r.VelocityMS
	p.Reynolds = r.Reynolds
	p.FrictionFactor = r.FrictionFactor
	p.PressureDropPaM = r.PressureDropPaM
}
