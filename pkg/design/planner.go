// Package design orchestrates a full network design run: street graph
// construction, connectivity repair, plant and building snapping, dual-pipe
// routing, sizing, compliance validation, the bounded auto-resize loop and
// the final simulation. The planner degrades where it can (unrouted
// buildings, estimate-only simulation) and fails only on preconditions no
// design can proceed without.
package design

import (
	"context"
	"fmt"
	"time"

	"github.com/fjellvarme/heatgrid/pkg/compliance"
	"github.com/fjellvarme/heatgrid/pkg/config"
	"github.com/fjellvarme/heatgrid/pkg/hydraulics"
	"github.com/fjellvarme/heatgrid/pkg/logging"
	"github.com/fjellvarme/heatgrid/pkg/metrics"
	"github.com/fjellvarme/heatgrid/pkg/network"
	"github.com/fjellvarme/heatgrid/pkg/parallel"
	"github.com/fjellvarme/heatgrid/pkg/pipes"
	"github.com/fjellvarme/heatgrid/pkg/report"
	"github.com/fjellvarme/heatgrid/pkg/resize"
	"github.com/fjellvarme/heatgrid/pkg/routing"
	"github.com/fjellvarme/heatgrid/pkg/sizing"
	"github.com/fjellvarme/heatgrid/pkg/solver"
)

// Building is one heat consumer to connect
type Building struct {
	ID           string
	Position     network.Point
	HeatDemandKW float64
}

// Input is the complete description of one design problem
type Input struct {
	Streets   []network.StreetSegment
	Plant     *network.Point
	Buildings []Building
}

// Planner runs design problems under one configuration
type Planner struct {
	cfg     config.DesignConfig
	logger  logging.Logger
	metrics *metrics.Registry
	// primary is the external hydraulic-thermal solver; nil means every
	// run simulates with the formula-library estimator.
	primary solver.Solver
}

// NewPlanner creates a planner. The configuration must already be validated.
func NewPlanner(cfg config.DesignConfig, logger logging.Logger) *Planner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Planner{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.DefaultRegistry(),
	}
}

// SetSolver installs an external solver; the planner still falls back to
// estimates when it fails.
func (p *Planner) SetSolver(s solver.Solver) {
	p.primary = s
}

// SetMetrics replaces the metrics registry, mainly for tests
func (p *Planner) SetMetrics(r *metrics.Registry) {
	p.metrics = r
}

// Run executes one design end to end and returns the run report
func (p *Planner) Run(ctx context.Context, input Input) (*report.RunReport, error) {
	started := time.Now()

	if err := p.checkInput(input); err != nil {
		p.metrics.RecordDesignRun("failed", time.Since(started))
		return nil, err
	}

	categories := p.cfg.Categories()
	builder := report.NewBuilder(p.cfg.CostFactors, categories)

	// Street graph
	phase := time.Now()
	graph, err := network.BuildGraph(input.Streets)
	if err != nil {
		p.metrics.RecordDesignRun("failed", time.Since(started))
		return nil, &DesignError{Op: "BuildGraph", Entity: "street", Cause: err}
	}
	components := len(graph.Components())
	fixes, err := graph.EnsureConnected(p.logger)
	if err != nil {
		p.metrics.RecordDesignRun("failed", time.Since(started))
		return nil, &DesignError{Op: "EnsureConnected", Entity: "graph", Cause: err}
	}
	if fixes > 0 {
		builder.AddWarning(fmt.Sprintf("added %d connectivity fix edges", fixes))
		p.metrics.ConnectivityFixesTotal.Add(float64(fixes))
	}
	if a, b, extent, err := graph.FarthestJunctionPair(); err == nil {
		builder.SetExtent(extent)
		p.logger.Debug("Network extent measured",
			logging.Component("design"),
			logging.Int("junction_a", a.ID),
			logging.Int("junction_b", b.ID),
			logging.Float64("extent_m", extent))
	}
	p.metrics.RecordPhase("graph", time.Since(phase))

	// Snapping
	phase = time.Now()
	plantSnap, err := graph.SnapPoint(*input.Plant, network.RolePlant)
	if err != nil {
		p.metrics.RecordDesignRun("failed", time.Since(started))
		return nil, &DesignError{Op: "SnapPoint", Entity: "plant", Cause: err}
	}

	conns := make([]pipes.ServiceConnection, 0, len(input.Buildings))
	demandByID := make(map[string]float64, len(input.Buildings))
	for _, b := range input.Buildings {
		snap, err := graph.SnapPoint(b.Position, network.RoleServiceConnection)
		if err != nil {
			p.metrics.RecordDesignRun("failed", time.Since(started))
			return nil, &DesignError{Op: "SnapPoint", Entity: "building", ID: b.ID, Cause: err}
		}
		conns = append(conns, pipes.ServiceConnection{
			BuildingID:        b.ID,
			Node:              snap.Node,
			DistanceToStreetM: snap.DistanceM,
			HeatDemandKW:      b.HeatDemandKW,
			FlowKgS:           hydraulics.MassFlowFromDemand(b.HeatDemandKW, p.cfg.SupplyTempC, p.cfg.ReturnTempC),
		})
		demandByID[b.ID] = b.HeatDemandKW
	}
	p.metrics.UpdateNetworkMetrics(graph.NodeCount(), graph.EdgeCount(), components)
	p.metrics.RecordPhase("snap", time.Since(phase))

	// Routing
	phase = time.Now()
	router := routing.NewRouter(graph, categories, p.logger)
	router.SetWorkers(p.cfg.RoutingWorkers)
	routed, err := router.Route(plantSnap.Node, conns)
	if err != nil {
		p.metrics.RecordDesignRun("failed", time.Since(started))
		return nil, &DesignError{Op: "Route", Entity: "network", Cause: err}
	}
	p.metrics.RecordRouting(len(conns)-len(routed.Unrouted), len(routed.Unrouted))
	if len(routed.Unrouted) > 0 {
		builder.AddWarning(fmt.Sprintf("%d buildings unreachable from plant", len(routed.Unrouted)))
	}
	p.metrics.RecordPhase("routing", time.Since(phase))

	all := make([]*pipes.Pipe, 0, len(routed.Supply)+len(routed.Return))
	all = append(all, routed.Supply...)
	all = append(all, routed.Return...)
	routing.SortPipes(all)

	// Initial sizing
	phase = time.Now()
	engine := p.newEngine(categories)
	parallel.ForEach(len(all), p.cfg.RoutingWorkers, func(i int) {
		pipe := all[i]
		category, err := categories.ByName(pipe.Category)
		if err != nil {
			category = categories.Service
		}
		sizing.Apply(pipe, engine.SizePipe(pipe.FlowKgS, pipe.LengthM, category))
	})
	p.metrics.RecordPhase("sizing", time.Since(phase))

	// Compliance and auto-resize
	phase = time.Now()
	verdict := engine.Validator().Check(all)
	p.recordViolations(verdict)

	var resizeReport *resize.Report
	if p.cfg.AutoResize.Enabled && !verdict.Valid {
		resizer := resize.NewResizer(engine, categories, p.logger)
		resizer.MaxIterations = p.cfg.AutoResize.MaxIterations
		resizer.Priority = p.cfg.Priority()
		resizer.Monotone = p.cfg.AutoResize.MonotoneSizing
		resizeReport = resizer.Run(all)

		grown := 0
		for _, it := range resizeReport.Iterations {
			grown += it.PipesResized
		}
		p.metrics.RecordResize(string(resizeReport.State), len(resizeReport.Iterations), grown)

		verdict = engine.Validator().Check(all)
		p.recordViolations(verdict)
	}
	p.metrics.RecordPhase("compliance", time.Since(phase))

	// Simulation
	phase = time.Now()
	net := &solver.Network{
		PlantNode:      plantSnap.Node,
		Pipes:          all,
		SupplyTempC:    p.cfg.SupplyTempC,
		ReturnTempC:    p.cfg.ReturnTempC,
		GroundTempC:    p.cfg.GroundTempC,
		RoughnessM:     p.cfg.RoughnessM(),
		PumpEfficiency: p.cfg.PumpEfficiency,
	}
	fallback := solver.NewFallback(p.primary, p.cfg.Solver.Timeout, p.logger)
	sim, _ := fallback.Simulate(ctx, net)
	p.metrics.RecordSolverCall(sim.Source, "ok", time.Since(phase))
	applySimulation(all, sim)
	p.metrics.RecordPhase("simulation", time.Since(phase))

	// Report assembly
	routedIDs := make([]string, 0, len(conns))
	deliveredKW := 0.0
	unreachable := make(map[string]bool, len(routed.Unrouted))
	for _, id := range routed.Unrouted {
		unreachable[id] = true
	}
	for _, c := range conns {
		if unreachable[c.BuildingID] {
			continue
		}
		routedIDs = append(routedIDs, c.BuildingID)
		deliveredKW += demandByID[c.BuildingID]
	}

	builder.SetNetwork(graph.NodeCount(), graph.EdgeCount(), routedIDs, routed.Unrouted, trenchLength(routed.Supply))
	builder.SetPipes(all, routing.RootFlow(routed.Supply, plantSnap.Node))
	builder.SetCompliance(verdict)
	builder.SetResize(resizeReport)
	builder.SetSimulation(sim, deliveredKW)

	runReport := builder.Build()
	p.updatePipeGauges(all)

	status := "ok"
	if runReport.Degraded {
		status = "degraded"
	}
	p.metrics.RecordDesignRun(status, time.Since(started))
	p.logger.Info("Design run complete",
		logging.Component("design"),
		logging.String("run_id", runReport.RunID),
		logging.String("status", status),
		logging.Int("pipes", len(all)),
		logging.Violations(runReport.Compliance.TotalHits))
	return runReport, nil
}

func (p *Planner) checkInput(input Input) error {
	if len(input.Streets) == 0 {
		return &DesignError{Op: "Run", Entity: "input", Cause: ErrNoStreets}
	}
	if input.Plant == nil {
		return &DesignError{Op: "Run", Entity: "input", Cause: ErrNoPlant}
	}
	if len(input.Buildings) == 0 {
		return &DesignError{Op: "Run", Entity: "input", Cause: ErrNoBuildings}
	}
	return nil
}

// newEngine builds the sizing engine and tunes its validator to the run
// configuration so sizing and auditing share one set of limits.
func (p *Planner) newEngine(categories pipes.Categories) *sizing.Engine {
	engine := sizing.NewEngine(categories)
	engine.RoughnessM = p.cfg.RoughnessM()
	engine.Costs = p.cfg.CostFactors

	v := engine.Validator()
	v.MinVelocityMS = p.cfg.MinVelocityMS
	v.MinThermalEfficiency = p.cfg.MinThermalEfficiency
	v.RoughnessM = p.cfg.RoughnessM()
	v.SupplyTempC = p.cfg.SupplyTempC
	v.ReturnTempC = p.cfg.ReturnTempC
	v.GroundTempC = p.cfg.GroundTempC
	return engine
}

func (p *Planner) recordViolations(verdict *compliance.Report) {
	p.metrics.RecordComplianceCheck(verdict.Valid)
	for _, v := range verdict.Violations {
		p.metrics.RecordViolation(v.Kind.String(), v.Severity.String())
	}
}

func (p *Planner) updatePipeGauges(all []*pipes.Pipe) {
	counts := make(map[[2]string]int)
	for _, pipe := range all {
		counts[[2]string{string(pipe.Type), string(pipe.Category)}]++
	}
	for key, n := range counts {
		p.metrics.DesignPipesTotal.WithLabelValues(key[0], key[1]).Set(float64(n))
	}
}

// applySimulation copies per-pipe simulation outcomes onto the pipe set
func applySimulation(all []*pipes.Pipe, sim *solver.Result) {
	for _, pipe := range all {
		if pr, ok := sim.PipeResults[pipe.ID]; ok {
			pipe.ThermalLossW = pr.ThermalLossW
			pipe.TemperatureC = pr.TemperatureC
		}
	}
}

// trenchLength sums the supply-side lengths. Supply and return share the
// trench, so the supply set alone measures the dig.
func trenchLength(supply []*pipes.Pipe) float64 {
	total := 0.0
	for _, pipe := range supply {
		total += pipe.LengthM
	}
	return total
}
