package solver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fjellvarme/heatgrid/pkg/logging"
	"github.com/fjellvarme/heatgrid/pkg/pipes"
)

func testNetwork() *Network {
	return &Network{
		PlantNode: 0,
		Pipes: []*pipes.Pipe{
			{
				ID: "supply:0-1", Type: pipes.Supply, Category: pipes.Distribution,
				FromNode: 0, ToNode: 1, LengthM: 200, FlowKgS: 3.0, DiameterM: 0.080,
			},
			{
				ID: "return:0-1", Type: pipes.Return, Category: pipes.Distribution,
				FromNode: 1, ToNode: 0, LengthM: 200, FlowKgS: 3.0, DiameterM: 0.080,
			},
		},
		SupplyTempC:    90,
		ReturnTempC:    55,
		GroundTempC:    8,
		RoughnessM:     0.0001,
		PumpEfficiency: 0.7,
	}
}

func TestEstimator_ProducesTopologyOnlyResults(t *testing.T) {
	est := NewEstimator()

	result, err := est.Simulate(context.Background(), testNetwork())
	if err != nil {
		t.Fatalf("Estimator must never fail: %v", err)
	}

	if !result.TopologyOnly || result.Source != "estimate" {
		t.Error("Estimator results must be flagged topology-only estimates")
	}
	if len(result.PipeResults) != 2 {
		t.Fatalf("Expected results for both pipes, got %d", len(result.PipeResults))
	}

	supply := result.PipeResults["supply:0-1"]
	if supply.VelocityMS <= 0 || supply.PressureDropPa <= 0 {
		t.Error("Supply pipe must have positive hydraulic estimates")
	}
	if supply.TemperatureC >= 90 || supply.TemperatureC < 55 {
		t.Errorf("Supply temperature must drop from 90 C, got %f", supply.TemperatureC)
	}

	ret := result.PipeResults["return:0-1"]
	if ret.TemperatureC >= 55 {
		t.Errorf("Return temperature must drop from 55 C, got %f", ret.TemperatureC)
	}

	if result.PumpPowerW <= 0 {
		t.Error("Expected positive pump power for a flowing network")
	}
	if result.ThermalLossW <= 0 {
		t.Error("Expected positive network thermal loss")
	}
}

type failingSolver struct{}

func (failingSolver) Simulate(context.Context, *Network) (*Result, error) {
	return nil, errors.New("connection refused")
}

type hangingSolver struct{}

func (hangingSolver) Simulate(ctx context.Context, _ *Network) (*Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type okSolver struct{}

func (okSolver) Simulate(context.Context, *Network) (*Result, error) {
	return &Result{Source: "solver", PipeResults: map[string]PipeResult{}}, nil
}

func TestFallback_UsesPrimaryWhenHealthy(t *testing.T) {
	f := NewFallback(okSolver{}, time.Second, logging.NewNopLogger())

	result, err := f.Simulate(context.Background(), testNetwork())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if result.Source != "solver" || result.TopologyOnly {
		t.Error("A healthy primary result must be passed through untouched")
	}
}

func TestFallback_DegradesOnFailure(t *testing.T) {
	f := NewFallback(failingSolver{}, time.Second, logging.NewNopLogger())

	result, err := f.Simulate(context.Background(), testNetwork())
	if err != nil {
		t.Fatalf("Fallback must absorb the primary failure: %v", err)
	}
	if !result.TopologyOnly {
		t.Error("A fallback result must be flagged topology-only")
	}
}

func TestFallback_DegradesOnTimeout(t *testing.T) {
	f := NewFallback(hangingSolver{}, 10*time.Millisecond, logging.NewNopLogger())

	start := time.Now()
	result, err := f.Simulate(context.Background(), testNetwork())
	if err != nil {
		t.Fatalf("Fallback must absorb the timeout: %v", err)
	}
	if !result.TopologyOnly {
		t.Error("A timed-out primary must degrade to estimates")
	}
	if time.Since(start) > time.Second {
		t.Error("The timeout must bound the primary call")
	}
}

func TestFallback_NilPrimaryEstimates(t *testing.T) {
	f := NewFallback(nil, 0, nil)

	result, err := f.Simulate(context.Background(), testNetwork())
	if err != nil || !result.TopologyOnly {
		t.Error("A nil primary must estimate directly")
	}
}
