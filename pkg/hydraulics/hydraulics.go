// Package hydraulics provides the closed-form hydraulic and thermal formulas
// used for sizing and auditing district-heating pipes: flow velocity, Reynolds
// number, Darcy friction factor (Colebrook-White), Darcy-Weisbach pressure
// drop, pump power, thermal loss and temperature drop.
//
// All functions are pure. Inputs and outputs are SI units unless the name
// says otherwise.
package hydraulics

import (
	"math"
)

// Water properties at the network design temperature (~75 C average of a
// 90/50 supply/return pair).
const (
	// WaterDensity is the fluid density in kg/m3
	WaterDensity = 971.8
	// WaterViscosity is the dynamic viscosity in Pa*s
	WaterViscosity = 0.000378
	// WaterSpecificHeat is the specific heat capacity in J/(kg*K)
	WaterSpecificHeat = 4190.0
)

// Friction factor iteration bounds
const (
	// DefaultFrictionFactor is returned whenever the Colebrook-White
	// iteration cannot produce a numerically valid value (zero flow,
	// degenerate diameter, invalid log/sqrt argument).
	DefaultFrictionFactor = 0.02
	// MinFrictionFactor and MaxFrictionFactor clamp the iteration result
	MinFrictionFactor = 0.005
	MaxFrictionFactor = 0.1
	// frictionMaxIterations bounds the Colebrook-White fixed point
	frictionMaxIterations = 20
	// frictionTolerance is the fixed-point convergence tolerance
	frictionTolerance = 1e-6
	// laminarReynolds is the laminar/turbulent transition threshold
	laminarReynolds = 2300.0
)

// MassFlowFromDemand converts a building heat demand in kW into the design
// mass flow in kg/s for a given supply/return temperature spread.
func MassFlowFromDemand(demandKW, supplyTempC, returnTempC float64) float64 {
	deltaT := supplyTempC - returnTempC
	if demandKW <= 0 || deltaT <= 0 {
		return 0
	}
	return demandKW * 1000.0 / (WaterSpecificHeat * deltaT)
}

// FlowArea returns the cross-sectional flow area in m2 for an inner diameter
func FlowArea(diameterM float64) float64 {
	return math.Pi * diameterM * diameterM / 4.0
}

// Velocity returns the mean flow velocity in m/s for a mass flow through a
// pipe of the given inner diameter. Returns 0 for degenerate input.
func Velocity(flowKgS, diameterM float64) float64 {
	if flowKgS <= 0 || diameterM <= 0 {
		return 0
	}
	return flowKgS / (WaterDensity * FlowArea(diameterM))
}

// Reynolds returns the Reynolds number for a velocity/diameter pair.
func Reynolds(velocityMS, diameterM float64) float64 {
	if velocityMS <= 0 || diameterM <= 0 {
		return 0
	}
	return WaterDensity * velocityMS * diameterM / WaterViscosity
}

// FrictionFactor solves the Colebrook-White equation for the Darcy friction
// factor by bounded fixed-point iteration:
//
//	1/sqrt(f) = -2 log10( eps/(3.7 D) + 2.51/(Re sqrt(f)) )
//
// The result is clamped to [MinFrictionFactor, MaxFrictionFactor]. Laminar
// flow uses 64/Re. Any degenerate input (Re <= 0, D <= 0) or numerically
// invalid intermediate falls back to DefaultFrictionFactor.
func FrictionFactor(reynolds, diameterM, roughnessM float64) float64 {
	if reynolds <= 0 || diameterM <= 0 {
		return DefaultFrictionFactor
	}

	if reynolds < laminarReynolds {
		return clampFriction(64.0 / reynolds)
	}

	relRoughness := roughnessM / (3.7 * diameterM)

	f := DefaultFrictionFactor
	for i := 0; i < frictionMaxIterations; i++ {
		sqrtF := math.Sqrt(f)
		if sqrtF <= 0 || math.IsNaN(sqrtF) {
			return DefaultFrictionFactor
		}
		arg := relRoughness + 2.51/(reynolds*sqrtF)
		if arg <= 0 {
			return DefaultFrictionFactor
		}
		inv := -2.0 * math.Log10(arg)
		if inv <= 0 || math.IsNaN(inv) || math.IsInf(inv, 0) {
			return DefaultFrictionFactor
		}
		next := 1.0 / (inv * inv)
		if math.Abs(next-f) < frictionTolerance {
			f = next
			break
		}
		f = next
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultFrictionFactor
	}
	return clampFriction(f)
}

func clampFriction(f float64) float64 {
	if f < MinFrictionFactor {
		return MinFrictionFactor
	}
	if f > MaxFrictionFactor {
		return MaxFrictionFactor
	}
	return f
}

// PressureDropPerMeter returns the Darcy-Weisbach frictional pressure
// gradient in Pa/m.
func PressureDropPerMeter(frictionFactor, diameterM, velocityMS float64) float64 {
	if diameterM <= 0 {
		return 0
	}
	return frictionFactor / diameterM * WaterDensity * velocityMS * velocityMS / 2.0
}

// PressureGradient combines velocity, Reynolds number, friction factor and
// pressure gradient for a flow/diameter pair in one call. roughnessM is the
// absolute pipe wall roughness in meters.
func PressureGradient(flowKgS, diameterM, roughnessM float64) (velocityMS, reynolds, frictionFactor, dropPaPerM float64) {
	velocityMS = Velocity(flowKgS, diameterM)
	reynolds = Reynolds(velocityMS, diameterM)
	frictionFactor = FrictionFactor(reynolds, diameterM, roughnessM)
	dropPaPerM = PressureDropPerMeter(frictionFactor, diameterM, velocityMS)
	return
}

// PumpPower returns the hydraulic pump power in W required to move the given
// mass flow against the given total pressure drop at the given pump
// efficiency (0 < eta <= 1).
func PumpPower(flowKgS, pressureDropPa, efficiency float64) float64 {
	if flowKgS <= 0 || pressureDropPa <= 0 {
		return 0
	}
	if efficiency <= 0 || efficiency > 1 {
		efficiency = 0.7
	}
	return flowKgS * pressureDropPa / (WaterDensity * efficiency)
}
