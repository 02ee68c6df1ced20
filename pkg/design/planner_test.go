package design

import (
	"context"
	"errors"
	"testing"

	"github.com/fjellvarme/heatgrid/pkg/config"
	"github.com/fjellvarme/heatgrid/pkg/logging"
	"github.com/fjellvarme/heatgrid/pkg/metrics"
	"github.com/fjellvarme/heatgrid/pkg/network"
	"github.com/fjellvarme/heatgrid/pkg/pipes"
	"github.com/fjellvarme/heatgrid/pkg/solver"
)

// straightStreetInput is a 400 m street with the plant at one end and three
// buildings snapping onto it at 100 m intervals.
func straightStreetInput() Input {
	return Input{
		Streets: []network.StreetSegment{
			{
				Points: []network.Point{
					{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 0},
					{X: 300, Y: 0}, {X: 400, Y: 0},
				},
				StreetName: "Varmegata",
			},
		},
		Plant: &network.Point{X: 0, Y: 0},
		Buildings: []Building{
			{ID: "b1", Position: network.Point{X: 100, Y: 5}, HeatDemandKW: 50},
			{ID: "b2", Position: network.Point{X: 200, Y: 5}, HeatDemandKW: 50},
			{ID: "b3", Position: network.Point{X: 300, Y: 5}, HeatDemandKW: 50},
		},
	}
}

func newTestPlanner(t *testing.T, cfg config.DesignConfig) *Planner {
	t.Helper()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	p := NewPlanner(cfg, logging.NewNopLogger())
	p.SetMetrics(metrics.NewRegistry())
	return p
}

func TestPlanner_Preconditions(t *testing.T) {
	p := newTestPlanner(t, config.Default())

	input := straightStreetInput()
	input.Streets = nil
	if _, err := p.Run(context.Background(), input); !errors.Is(err, ErrNoStreets) {
		t.Errorf("Expected ErrNoStreets, got %v", err)
	}

	input = straightStreetInput()
	input.Plant = nil
	if _, err := p.Run(context.Background(), input); !errors.Is(err, ErrNoPlant) {
		t.Errorf("Expected ErrNoPlant, got %v", err)
	}

	input = straightStreetInput()
	input.Buildings = nil
	if _, err := p.Run(context.Background(), input); !errors.Is(err, ErrNoBuildings) {
		t.Errorf("Expected ErrNoBuildings, got %v", err)
	}
}

func TestPlanner_Run_StraightStreet(t *testing.T) {
	p := newTestPlanner(t, config.Default())

	r, err := p.Run(context.Background(), straightStreetInput())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if r.RunID == "" {
		t.Error("Expected a run id")
	}
	// One dedup segment per 100 m hop, per direction
	if r.Network.SupplyPipes != 3 || r.Network.ReturnPipes != 3 {
		t.Errorf("Expected 3 supply and 3 return pipes, got %d/%d",
			r.Network.SupplyPipes, r.Network.ReturnPipes)
	}
	if r.Network.BuildingsRouted != 3 || r.Network.BuildingsUnrouted != 0 {
		t.Errorf("Expected 3 routed buildings, got %d routed %d unrouted",
			r.Network.BuildingsRouted, r.Network.BuildingsUnrouted)
	}
	if r.Network.TrenchLengthM != 300 {
		t.Errorf("Expected 300 m trench, got %f", r.Network.TrenchLengthM)
	}
	if !r.Compliance.Valid {
		t.Errorf("Expected a compliant design, violations: %d", r.Compliance.TotalHits)
	}
	// Compliant first pass means the resize loop never engages
	if r.Resize.Ran {
		t.Error("Compliant design must not trigger auto-resize")
	}
	// No external solver: estimate-only simulation, reduced confidence
	if r.Simulation.Source != "estimate" || !r.Simulation.TopologyOnly {
		t.Errorf("Expected topology-only estimate, got %s", r.Simulation.Source)
	}
	if !r.Degraded {
		t.Error("Estimate-only simulation must mark the run degraded")
	}
	if r.Cost.TotalCost <= 0 {
		t.Error("Expected a positive cost estimate")
	}

	// Every pipe carries a catalog diameter and derived hydraulics
	for _, rec := range r.Pipes {
		if rec.DiameterMM <= 0 {
			t.Errorf("Pipe %s not sized", rec.ID)
		}
		if rec.VelocityMS <= 0 {
			t.Errorf("Pipe %s has no velocity", rec.ID)
		}
	}
}

func TestPlanner_Run_CategoryAssignment(t *testing.T) {
	p := newTestPlanner(t, config.Default())

	r, err := p.Run(context.Background(), straightStreetInput())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Three 50 kW buildings at 90/55 C: about 0.34 kg/s each. The first
	// two hops aggregate 2 and 3 buildings (distribution tier), the last
	// hop serves b3 alone (service tier).
	byID := make(map[string]string)
	for _, rec := range r.Pipes {
		byID[rec.ID] = rec.Category
	}
	if byID["supply:0-1"] != string(pipes.Distribution) {
		t.Errorf("Trunk hop: expected distribution, got %s", byID["supply:0-1"])
	}
	if byID["supply:2-3"] != string(pipes.Service) {
		t.Errorf("Last hop: expected service, got %s", byID["supply:2-3"])
	}
}

type stubSolver struct{}

func (stubSolver) Simulate(ctx context.Context, net *solver.Network) (*solver.Result, error) {
	result, err := solver.NewEstimator().Simulate(ctx, net)
	if err != nil {
		return nil, err
	}
	result.Source = "solver"
	result.TopologyOnly = false
	return result, nil
}

type downSolver struct{}

func (downSolver) Simulate(context.Context, *solver.Network) (*solver.Result, error) {
	return nil, errors.New("connection refused")
}

func TestPlanner_Run_WithExternalSolver(t *testing.T) {
	p := newTestPlanner(t, config.Default())
	p.SetSolver(stubSolver{})

	r, err := p.Run(context.Background(), straightStreetInput())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if r.Simulation.Source != "solver" || r.Simulation.TopologyOnly {
		t.Errorf("Expected full simulation, got %s topology_only=%v",
			r.Simulation.Source, r.Simulation.TopologyOnly)
	}
	if r.Degraded {
		t.Error("Full simulation of a clean design must not be degraded")
	}
}

func TestPlanner_Run_SolverFailureDegrades(t *testing.T) {
	p := newTestPlanner(t, config.Default())
	p.SetSolver(downSolver{})

	r, err := p.Run(context.Background(), straightStreetInput())
	if err != nil {
		t.Fatalf("Run must survive a failing solver: %v", err)
	}
	if r.Simulation.Source != "estimate" {
		t.Errorf("Expected estimate fallback, got %s", r.Simulation.Source)
	}
	if !r.Degraded {
		t.Error("Fallback simulation must mark the run degraded")
	}
}

func TestPlanner_Run_DisconnectedStreetsRepaired(t *testing.T) {
	p := newTestPlanner(t, config.Default())

	input := straightStreetInput()
	// Second street with no shared coordinate, bridged by connectivity
	// repair during graph construction.
	input.Streets = append(input.Streets, network.StreetSegment{
		Points: []network.Point{{X: 450, Y: 0}, {X: 550, Y: 0}},
	})
	input.Buildings = append(input.Buildings, Building{
		ID: "b4", Position: network.Point{X: 500, Y: 5}, HeatDemandKW: 50,
	})

	r, err := p.Run(context.Background(), input)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if r.Network.BuildingsUnrouted != 0 {
		t.Errorf("Repaired graph must route every building, %d unrouted",
			r.Network.BuildingsUnrouted)
	}
	if len(r.Warnings) == 0 {
		t.Error("Connectivity repair must leave a warning in the report")
	}
}

func TestPlanner_Run_OversizedDemandStalls(t *testing.T) {
	p := newTestPlanner(t, config.Default())

	input := Input{
		Streets: []network.StreetSegment{
			{Points: []network.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}},
		},
		Plant: &network.Point{X: 0, Y: 0},
		Buildings: []Building{
			// 5 MW through a single service branch cannot be carried by
			// any service diameter.
			{ID: "b1", Position: network.Point{X: 100, Y: 0}, HeatDemandKW: 5000},
		},
	}

	r, err := p.Run(context.Background(), input)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if r.Compliance.Valid {
		t.Error("5 MW on a service branch must stay non-compliant")
	}
	if !r.Resize.Ran {
		t.Fatal("Non-compliant design must trigger auto-resize")
	}
	if r.Resize.State == "converged" {
		t.Errorf("Expected stalled or exhausted, got %s", r.Resize.State)
	}
	if !r.Degraded {
		t.Error("Non-converged resize must mark the run degraded")
	}
}

func TestPlanner_Run_ResizeDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.AutoResize.Enabled = false
	p := newTestPlanner(t, cfg)

	input := Input{
		Streets: []network.StreetSegment{
			{Points: []network.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}},
		},
		Plant: &network.Point{X: 0, Y: 0},
		Buildings: []Building{
			{ID: "b1", Position: network.Point{X: 100, Y: 0}, HeatDemandKW: 5000},
		},
	}

	r, err := p.Run(context.Background(), input)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if r.Resize.Ran {
		t.Error("Disabled auto-resize must never run")
	}
	if r.Compliance.Valid {
		t.Error("Violations must survive when auto-resize is disabled")
	}
}

func TestDesignError_Format(t *testing.T) {
	err := &DesignError{Op: "SnapPoint", Entity: "building", ID: "b7", Cause: network.ErrNoEdges}
	if !errors.Is(err, network.ErrNoEdges) {
		t.Error("DesignError must unwrap to its cause")
	}
	want := "SnapPoint building b7: graph has no edges"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}
