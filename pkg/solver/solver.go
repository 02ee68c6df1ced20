// Package solver is the narrow boundary to the external hydraulic-thermal
// network solver. The core hands over the sized topology and receives
// per-pipe velocity, pressure and temperature results; when the external
// solver fails or times out, the estimate solver reproduces the result shape
// from the formula library so a run always yields a report.
package solver

import (
	"context"
	"errors"
	"time"

	"github.com/fjellvarme/heatgrid/pkg/hydraulics"
	"github.com/fjellvarme/heatgrid/pkg/logging"
	"github.com/fjellvarme/heatgrid/pkg/pipes"
)

// ErrUnavailable is returned when the external solver failed or timed out
var ErrUnavailable = errors.New("hydraulic-thermal solver unavailable")

// Network is the sized topology handed to a solver
type Network struct {
	PlantNode   int
	Pipes       []*pipes.Pipe
	SupplyTempC float64
	ReturnTempC float64
	GroundTempC float64
	// RoughnessM is the wall roughness assumed for the whole network
	RoughnessM float64
	// PumpEfficiency is the plant circulation pump efficiency
	PumpEfficiency float64
}

// PipeResult is the per-pipe outcome of a simulation
type PipeResult struct {
	VelocityMS     float64
	PressureDropPa float64
	TemperatureC   float64
	ThermalLossW   float64
}

// Result is a full network simulation outcome
type Result struct {
	// Source names what produced the result: "solver" for the external
	// mass/energy-balance simulation, "estimate" for the formula-library
	// fallback.
	Source string
	// TopologyOnly marks reduced-confidence results produced without the
	// external solver.
	TopologyOnly bool
	PipeResults  map[string]PipeResult
	PumpPowerW   float64
	ThermalLossW float64
}

// Solver runs a full nonlinear mass/energy-balance simulation of a sized
// network. Implementations must respect the context deadline.
type Solver interface {
	Simulate(ctx context.Context, network *Network) (*Result, error)
}

// Estimator produces topology-only results from the closed-form formula
// library. It is the fallback behind every external solver and never fails.
type Estimator struct{}

// NewEstimator creates the formula-library estimate solver
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Simulate computes per-pipe estimates without balancing the network:
// velocity and pressure from the pipe's own flow and diameter, temperature
// from the tier-appropriate boundary temperature minus the pipe's own drop.
func (e *Estimator) Simulate(_ context.Context, network *Network) (*Result, error) {
	result := &Result{
		Source:       "estimate",
		TopologyOnly: true,
		PipeResults:  make(map[string]PipeResult, len(network.Pipes)),
	}

	totalDropPa := 0.0
	rootFlow := 0.0
	for _, p := range network.Pipes {
		velocity, _, _, dropPaM := hydraulics.PressureGradient(p.FlowKgS, p.DiameterM, network.RoughnessM)

		fluidTemp := network.SupplyTempC
		if p.Type == pipes.Return {
			fluidTemp = network.ReturnTempC
		}
		lossW := hydraulics.ThermalLoss(p.DiameterM, p.LengthM, fluidTemp, network.GroundTempC)
		tempDrop := hydraulics.TemperatureDrop(p.DiameterM, p.LengthM, p.FlowKgS, fluidTemp, network.GroundTempC)

		result.PipeResults[p.ID] = PipeResult{
			VelocityMS:     velocity,
			PressureDropPa: dropPaM * p.LengthM,
			TemperatureC:   fluidTemp - tempDrop,
			ThermalLossW:   lossW,
		}
		result.ThermalLossW += lossW

		if p.Type == pipes.Supply {
			totalDropPa += dropPaM * p.LengthM
			if p.FromNode == network.PlantNode || p.ToNode == network.PlantNode {
				rootFlow += p.FlowKgS
			}
		}
	}

	// Supply plus return legs; the plant pump covers both.
	result.PumpPowerW = hydraulics.PumpPower(rootFlow, 2*totalDropPa, network.PumpEfficiency)
	return result, nil
}

// Fallback wraps a primary solver with a timeout and the estimate fallback.
// On primary failure the run degrades to topology-only results instead of
// aborting.
type Fallback struct {
	primary   Solver
	estimator *Estimator
	timeout   time.Duration
	logger    logging.Logger
}

// NewFallback creates a fallback wrapper. A nil primary always estimates.
func NewFallback(primary Solver, timeout time.Duration, logger logging.Logger) *Fallback {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Fallback{
		primary:   primary,
		estimator: NewEstimator(),
		timeout:   timeout,
		logger:    logger,
	}
}

// Simulate tries the primary solver within the timeout, then falls back to
// the estimator. The returned error is always nil; degraded results carry
// TopologyOnly instead.
func (f *Fallback) Simulate(ctx context.Context, network *Network) (*Result, error) {
	if f.primary != nil {
		runCtx := ctx
		var cancel context.CancelFunc
		if f.timeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, f.timeout)
			defer cancel()
		}

		result, err := f.primary.Simulate(runCtx, network)
		if err == nil {
			return result, nil
		}
		f.logger.Warn("External solver unavailable, falling back to estimates",
			logging.Component("solver"),
			logging.Error(errors.Join(ErrUnavailable, err)))
	}

	return f.estimator.Simulate(ctx, network)
}
