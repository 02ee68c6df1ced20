package hydraulics

import (
	"math"
)

// Default thermal parameters for pre-insulated bonded pipes.
const (
	// DefaultGroundTempC is the undisturbed soil temperature at burial depth
	DefaultGroundTempC = 8.0
	// insulationConductivity is the PUR foam conductivity in W/(m*K)
	insulationConductivity = 0.027
	// insulationRatio is the casing-to-carrier diameter ratio used when no
	// explicit insulation thickness is known
	insulationRatio = 1.8
)

// ThermalLossPerMeter returns the steady-state heat loss in W/m of a buried
// insulated pipe, from the cylindrical-shell conduction resistance of the
// insulation layer. Soil resistance is folded into the insulation ratio.
func ThermalLossPerMeter(diameterM, fluidTempC, groundTempC float64) float64 {
	if diameterM <= 0 {
		return 0
	}
	deltaT := fluidTempC - groundTempC
	if deltaT <= 0 {
		return 0
	}
	resistance := math.Log(insulationRatio) / (2.0 * math.Pi * insulationConductivity)
	return deltaT / resistance
}

// ThermalLoss returns the total heat loss in W over a pipe length.
func ThermalLoss(diameterM, lengthM, fluidTempC, groundTempC float64) float64 {
	return ThermalLossPerMeter(diameterM, fluidTempC, groundTempC) * lengthM
}

// TemperatureDrop returns the fluid temperature drop in K over a pipe of the
// given length, from its thermal loss and mass flow. Zero flow yields zero
// drop (stagnant pipes are a velocity violation, not a thermal one).
func TemperatureDrop(diameterM, lengthM, flowKgS, fluidTempC, groundTempC float64) float64 {
	if flowKgS <= 0 {
		return 0
	}
	loss := ThermalLoss(diameterM, lengthM, fluidTempC, groundTempC)
	return loss / (flowKgS * WaterSpecificHeat)
}

// ThermalEfficiency returns the delivered fraction of the heat carried by a
// flow after the given thermal loss. Returns 1 for zero carried heat.
func ThermalEfficiency(carriedKW, lossW float64) float64 {
	if carriedKW <= 0 {
		return 1
	}
	eff := 1.0 - lossW/(carriedKW*1000.0)
	if eff < 0 {
		return 0
	}
	return eff
}
