// Package config defines the immutable run configuration every component
// receives explicitly. There is no process-wide configuration state: load or
// default a DesignConfig once, validate it, and pass it down.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/fjellvarme/heatgrid/pkg/pipes"
	"github.com/fjellvarme/heatgrid/pkg/sizing"
)

// validate is a singleton validator instance for struct tags
var validate = validator.New()

// TierValues carries one per-tier limit triple
type TierValues struct {
	Mains        float64 `yaml:"mains" validate:"gt=0"`
	Distribution float64 `yaml:"distribution" validate:"gt=0"`
	Services     float64 `yaml:"services" validate:"gt=0"`
}

// StandardsLimits mirrors the standards tables: one ceiling per tier and
// concern.
type StandardsLimits struct {
	PressureDropPaPerM TierValues `yaml:"pressure_drop_pa_per_m"`
	VelocityMS         TierValues `yaml:"velocity_ms"`
}

// AutoResize configures the guardrail loop
type AutoResize struct {
	Enabled        bool     `yaml:"enabled"`
	MaxIterations  int      `yaml:"max_iterations" validate:"min=1,max=100"`
	SizingPriority []string `yaml:"sizing_priority" validate:"omitempty,dive,oneof=services distribution mains"`
	MonotoneSizing bool     `yaml:"monotone_sizing"`
}

// SolverConfig bounds the external solver call
type SolverConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// DesignConfig is the full configuration of one design run
type DesignConfig struct {
	MaxVelocityMS          float64 `yaml:"max_velocity_ms" validate:"gt=0"`
	MinVelocityMS          float64 `yaml:"min_velocity_ms" validate:"gte=0"`
	MaxPressureDropPaPerM  float64 `yaml:"max_pressure_drop_pa_per_m" validate:"gt=0"`
	PipeRoughnessMM        float64 `yaml:"pipe_roughness_mm" validate:"gt=0"`
	SupplyTempC            float64 `yaml:"supply_temp_c" validate:"gt=0"`
	ReturnTempC            float64 `yaml:"return_temp_c" validate:"gt=0"`
	GroundTempC            float64 `yaml:"ground_temp_c"`
	MinThermalEfficiency   float64 `yaml:"min_thermal_efficiency" validate:"gte=0,lte=1"`
	PumpEfficiency         float64 `yaml:"pump_efficiency" validate:"gt=0,lte=1"`
	RoutingWorkers         int     `yaml:"routing_workers" validate:"min=1"`

	CostFactors     sizing.CostFactors `yaml:"cost_factors"`
	AutoResize      AutoResize         `yaml:"auto_resize"`
	StandardsLimits StandardsLimits    `yaml:"standards_limits"`
	Solver          SolverConfig       `yaml:"solver"`
}

// Default returns the reference configuration
func Default() DesignConfig {
	return DesignConfig{
		MaxVelocityMS:         2.5,
		MinVelocityMS:         0.1,
		MaxPressureDropPaPerM: 300,
		PipeRoughnessMM:       0.1,
		SupplyTempC:           90,
		ReturnTempC:           55,
		GroundTempC:           8,
		MinThermalEfficiency:  0.85,
		PumpEfficiency:        0.7,
		RoutingWorkers:        1,
		CostFactors:           sizing.DefaultCostFactors(),
		AutoResize: AutoResize{
			Enabled:        true,
			MaxIterations:  10,
			SizingPriority: []string{"services", "distribution", "mains"},
			MonotoneSizing: true,
		},
		StandardsLimits: StandardsLimits{
			PressureDropPaPerM: TierValues{Mains: 100, Distribution: 200, Services: 300},
			VelocityMS:         TierValues{Mains: 2.5, Distribution: 2.5, Services: 1.5},
		},
		Solver: SolverConfig{Timeout: 30 * time.Second},
	}
}

// Load reads a YAML configuration from the given path, filling unset fields
// from the defaults, and validates it.
func Load(path string) (DesignConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks struct tags and cross-field consistency
func (c DesignConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	cv := NewConfigValidator("DesignConfig")
	cv.LessThan("min_velocity_ms", c.MinVelocityMS, "max_velocity_ms", c.MaxVelocityMS)
	cv.LessThan("return_temp_c", c.ReturnTempC, "supply_temp_c", c.SupplyTempC)
	cv.PositiveFloat("cost_factors.material_per_mm", c.CostFactors.MaterialPerMM)
	cv.PositiveFloat("cost_factors.installation_factor", c.CostFactors.InstallationFactor)
	// Mains carry the tightest pressure-drop ceiling in every standards
	// table this tool supports.
	cv.AtMostFloat("standards_limits.pressure_drop_pa_per_m.mains",
		c.StandardsLimits.PressureDropPaPerM.Mains,
		c.StandardsLimits.PressureDropPaPerM.Distribution)
	return cv.Result()
}

// Categories maps the standards limits onto the pipe tiers, keeping the
// reference diameter and flow ranges.
func (c DesignConfig) Categories() pipes.Categories {
	categories := pipes.DefaultCategories()
	categories.Service.VelocityLimitMS = c.StandardsLimits.VelocityMS.Services
	categories.Service.PressureDropLimitPaM = c.StandardsLimits.PressureDropPaPerM.Services
	categories.Distribution.VelocityLimitMS = c.StandardsLimits.VelocityMS.Distribution
	categories.Distribution.PressureDropLimitPaM = c.StandardsLimits.PressureDropPaPerM.Distribution
	categories.Main.VelocityLimitMS = c.StandardsLimits.VelocityMS.Mains
	categories.Main.PressureDropLimitPaM = c.StandardsLimits.PressureDropPaPerM.Mains
	return categories
}

// RoughnessM converts the configured roughness to meters
func (c DesignConfig) RoughnessM() float64 {
	return c.PipeRoughnessMM / 1000.0
}

// Priority converts the configured sizing priority into category names.
// Unknown entries were already rejected by validation.
func (c DesignConfig) Priority() []pipes.CategoryName {
	if len(c.AutoResize.SizingPriority) == 0 {
		return []pipes.CategoryName{pipes.Service, pipes.Distribution, pipes.Main}
	}
	out := make([]pipes.CategoryName, 0, len(c.AutoResize.SizingPriority))
	for _, name := range c.AutoResize.SizingPriority {
		switch name {
		case "services":
			out = append(out, pipes.Service)
		case "distribution":
			out = append(out, pipes.Distribution)
		case "mains":
			out = append(out, pipes.Main)
		}
	}
	return out
}
