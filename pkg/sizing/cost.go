package sizing

import (
	"github.com/fjellvarme/heatgrid/pkg/pipes"
)

// CostFactors parameterizes the deterministic pipe cost model. Currency is
// whatever the caller budgets in; the defaults are EUR-scaled.
type CostFactors struct {
	// MaterialBasePerM is the diameter-independent material cost per meter
	MaterialBasePerM float64 `yaml:"material_base_per_m"`
	// MaterialPerMM adds per millimeter of nominal diameter per meter
	MaterialPerMM float64 `yaml:"material_per_mm"`
	// InstallationFactor multiplies the material cost for labor and fittings
	InstallationFactor float64 `yaml:"installation_factor"`
	// InsulationPerM is added for categories that require insulation
	InsulationPerM float64 `yaml:"insulation_per_m"`
	// TrenchPerM prices the shared dig, counted once per street edge even
	// though supply and return both run through it
	TrenchPerM float64 `yaml:"trench_per_m"`
}

// DefaultCostFactors returns the reference cost model
func DefaultCostFactors() CostFactors {
	return CostFactors{
		MaterialBasePerM:   45.0,
		MaterialPerMM:      1.8,
		InstallationFactor: 1.6,
		InsulationPerM:     40.0,
		TrenchPerM:         250.0,
	}
}

// PerMeter returns the cost per meter of a pipe with the given diameter.
// Purely deterministic: no market lookups, no randomness.
func (c CostFactors) PerMeter(diameterM float64, category pipes.Category) float64 {
	diameterMM := diameterM * 1000.0
	cost := (c.MaterialBasePerM + c.MaterialPerMM*diameterMM) * c.InstallationFactor
	if category.Insulated {
		cost += c.InsulationPerM
	}
	return cost
}

// TrenchCost prices the dig for the given trench length. Dual pipes share
// one trench, so callers pass the unique street length, not the summed
// supply plus return length.
func (c CostFactors) TrenchCost(trenchLengthM float64) float64 {
	return c.TrenchPerM * trenchLengthM
}
