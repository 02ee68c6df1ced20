package compliance

import (
	"fmt"
	"time"

	"github.com/fjellvarme/heatgrid/pkg/hydraulics"
	"github.com/fjellvarme/heatgrid/pkg/pipes"
)

// Validator checks pipes against the standards limits of their category.
// Velocity and pressure drop are recomputed from the pipe's current diameter
// and flow, never read from stale derived fields.
type Validator struct {
	categories pipes.Categories
	// MinVelocityMS is the global stagnation floor applied to every category
	MinVelocityMS float64
	// MinThermalEfficiency is the delivered-heat fraction below which a
	// pipe earns an efficiency warning
	MinThermalEfficiency float64
	// RoughnessM is the absolute wall roughness used for recomputation
	RoughnessM float64
	// Temperatures for the thermal check
	SupplyTempC float64
	ReturnTempC float64
	GroundTempC float64
}

// NewValidator creates a validator with the given category limits and the
// reference defaults for the global checks.
func NewValidator(categories pipes.Categories) *Validator {
	return &Validator{
		categories:           categories,
		MinVelocityMS:        0.1,
		MinThermalEfficiency: 0.85,
		RoughnessM:           0.0001,
		SupplyTempC:          90,
		ReturnTempC:          55,
		GroundTempC:          hydraulics.DefaultGroundTempC,
	}
}

// Check validates every pipe and returns the combined report.
// Pure: the input pipes are not mutated.
func (v *Validator) Check(set []*pipes.Pipe) *Report {
	report := &Report{
		Valid:      true,
		Violations: make([]Violation, 0),
		CheckedAt:  time.Now(),
	}

	for _, p := range set {
		violations := v.CheckPipe(p)
		if len(violations) > 0 {
			report.Violations = append(report.Violations, violations...)
			for _, viol := range violations {
				if viol.Severity == Critical {
					report.Valid = false
				}
			}
		}
	}
	return report
}

// CheckPipe validates a single pipe against its category limits
func (v *Validator) CheckPipe(p *pipes.Pipe) []Violation {
	category, err := v.categories.ByName(p.Category)
	if err != nil {
		return []Violation{{
			PipeID:   p.ID,
			Kind:     VelocityViolation,
			Severity: Critical,
			Message:  fmt.Sprintf("pipe %s: %v", p.ID, err),
		}}
	}

	violations := make([]Violation, 0)

	velocity, _, _, dropPaM := hydraulics.PressureGradient(p.FlowKgS, p.DiameterM, v.RoughnessM)

	if velocity > category.VelocityLimitMS {
		violations = append(violations, Violation{
			PipeID:   p.ID,
			Kind:     VelocityViolation,
			Severity: Critical,
			Measured: velocity,
			Limit:    category.VelocityLimitMS,
			Message: fmt.Sprintf("pipe %s: velocity %.2f m/s exceeds %s limit %.2f m/s",
				p.ID, velocity, category.Name, category.VelocityLimitMS),
		})
	} else if velocity < v.MinVelocityMS {
		violations = append(violations, Violation{
			PipeID:   p.ID,
			Kind:     VelocityViolation,
			Severity: Warning,
			Measured: velocity,
			Limit:    v.MinVelocityMS,
			Message: fmt.Sprintf("pipe %s: velocity %.3f m/s below stagnation floor %.2f m/s",
				p.ID, velocity, v.MinVelocityMS),
		})
	}

	if dropPaM > category.PressureDropLimitPaM {
		violations = append(violations, Violation{
			PipeID:   p.ID,
			Kind:     PressureDropViolation,
			Severity: Critical,
			Measured: dropPaM,
			Limit:    category.PressureDropLimitPaM,
			Message: fmt.Sprintf("pipe %s: pressure drop %.1f Pa/m exceeds %s limit %.1f Pa/m",
				p.ID, dropPaM, category.Name, category.PressureDropLimitPaM),
		})
	}

	if thermal := v.checkThermal(p); thermal != nil {
		violations = append(violations, *thermal)
	}

	return violations
}

// checkThermal flags pipes whose delivered-heat fraction falls below target.
// Stagnant pipes are skipped; their flow problem is a velocity violation.
func (v *Validator) checkThermal(p *pipes.Pipe) *Violation {
	if p.FlowKgS <= 0 || p.DiameterM <= 0 {
		return nil
	}

	fluidTemp := v.SupplyTempC
	if p.Type == pipes.Return {
		fluidTemp = v.ReturnTempC
	}

	carriedKW := p.FlowKgS * hydraulics.WaterSpecificHeat * (v.SupplyTempC - v.ReturnTempC) / 1000.0
	lossW := hydraulics.ThermalLoss(p.DiameterM, p.LengthM, fluidTemp, v.GroundTempC)
	efficiency := hydraulics.ThermalEfficiency(carriedKW, lossW)

	if efficiency >= v.MinThermalEfficiency {
		return nil
	}
	return &Violation{
		PipeID:   p.ID,
		Kind:     ThermalViolation,
		Severity: Warning,
		Measured: efficiency,
		Limit:    v.MinThermalEfficiency,
		Message: fmt.Sprintf("pipe %s: thermal efficiency %.2f below target %.2f",
			p.ID, efficiency, v.MinThermalEfficiency),
	}
}
