// Package report assembles the outcome of one design run into a single
// serializable document: the sized pipe records, the compliance verdict, the
// auto-resize audit trail, the simulation summary and the cost estimate.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/fjellvarme/heatgrid/pkg/compliance"
	"github.com/fjellvarme/heatgrid/pkg/pipes"
	"github.com/fjellvarme/heatgrid/pkg/resize"
	"github.com/fjellvarme/heatgrid/pkg/sizing"
	"github.com/fjellvarme/heatgrid/pkg/solver"
)

// PipeRecord is one pipe's row in the report
type PipeRecord struct {
	ID              string  `json:"id"`
	Type            string  `json:"type"`
	Category        string  `json:"category"`
	FromNode        int     `json:"from_node"`
	ToNode          int     `json:"to_node"`
	LengthM         float64 `json:"length_m"`
	Buildings       int     `json:"buildings"`
	FlowKgS         float64 `json:"flow_kg_s"`
	DiameterMM      float64 `json:"diameter_mm"`
	VelocityMS      float64 `json:"velocity_ms"`
	PressureDropPaM float64 `json:"pressure_drop_pa_per_m"`
	ThermalLossW    float64 `json:"thermal_loss_w"`
	CostPerM        float64 `json:"cost_per_m"`
}

// NetworkSummary aggregates the routed topology
type NetworkSummary struct {
	Nodes             int     `json:"nodes"`
	Edges             int     `json:"edges"`
	BuildingsRouted   int     `json:"buildings_routed"`
	BuildingsUnrouted int     `json:"buildings_unrouted"`
	SupplyPipes       int     `json:"supply_pipes"`
	ReturnPipes       int     `json:"return_pipes"`
	TrenchLengthM     float64 `json:"trench_length_m"`
	TotalPipeLengthM  float64 `json:"total_pipe_length_m"`
	TotalFlowKgS      float64 `json:"total_flow_kg_s"`
	// ExtentM is the greatest junction-pair distance, the anchor for
	// booster pump placement on stretched networks.
	ExtentM float64 `json:"extent_m,omitempty"`
}

// ComplianceSummary condenses the final validation verdict
type ComplianceSummary struct {
	Valid     bool `json:"valid"`
	Critical  int  `json:"critical"`
	Warnings  int  `json:"warnings"`
	PipesHit  int  `json:"pipes_with_violations"`
	TotalHits int  `json:"total_violations"`
}

// ResizeSummary condenses the auto-resize audit trail
type ResizeSummary struct {
	Ran        bool   `json:"ran"`
	State      string `json:"state,omitempty"`
	Iterations int    `json:"iterations,omitempty"`
	Remaining  int    `json:"remaining_violations,omitempty"`
}

// SimulationSummary condenses the solver outcome
type SimulationSummary struct {
	Source       string  `json:"source"`
	TopologyOnly bool    `json:"topology_only"`
	PumpPowerW   float64 `json:"pump_power_w"`
	ThermalLossW float64 `json:"thermal_loss_w"`
	// ThermalEfficiency is delivered over delivered-plus-lost heat for the
	// supply side.
	ThermalEfficiency float64 `json:"thermal_efficiency"`
}

// CostSummary is the deterministic cost estimate
type CostSummary struct {
	PipesCost  float64 `json:"pipes_cost"`
	TrenchCost float64 `json:"trench_cost"`
	TotalCost  float64 `json:"total_cost"`
}

// RunReport is the complete outcome of one design run
type RunReport struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// Degraded is set when any phase fell back to reduced-confidence
	// behavior: unrouted buildings, a non-converged resize run, or a
	// topology-only simulation.
	Degraded bool     `json:"degraded"`
	Warnings []string `json:"warnings,omitempty"`

	Network    NetworkSummary    `json:"network"`
	Compliance ComplianceSummary `json:"compliance"`
	Resize     ResizeSummary     `json:"resize"`
	Simulation SimulationSummary `json:"simulation"`
	Cost       CostSummary       `json:"cost"`

	Pipes []PipeRecord `json:"pipes"`
}

// Builder assembles a RunReport from the phase outcomes
type Builder struct {
	report *RunReport
	costs  sizing.CostFactors
	// categories resolve insulation for the cost model
	categories pipes.Categories
}

// NewBuilder starts a report with a fresh run id
func NewBuilder(costs sizing.CostFactors, categories pipes.Categories) *Builder {
	return &Builder{
		report: &RunReport{
			RunID:     uuid.New().String(),
			StartedAt: time.Now().UTC(),
		},
		costs:      costs,
		categories: categories,
	}
}

// AddWarning appends a human-readable degradation note
func (b *Builder) AddWarning(msg string) {
	b.report.Warnings = append(b.report.Warnings, msg)
}

// SetNetwork records the graph and routing outcome
func (b *Builder) SetNetwork(nodes, edges int, routed, unrouted []string, trenchLengthM float64) {
	b.report.Network.Nodes = nodes
	b.report.Network.Edges = edges
	b.report.Network.BuildingsRouted = len(routed)
	b.report.Network.BuildingsUnrouted = len(unrouted)
	b.report.Network.TrenchLengthM = trenchLengthM
	if len(unrouted) > 0 {
		b.report.Degraded = true
	}
}

// SetExtent records the farthest junction-pair distance
func (b *Builder) SetExtent(extentM float64) {
	b.report.Network.ExtentM = extentM
}

// SetPipes records the sized pipe set and derives the network and cost
// aggregates from it.
func (b *Builder) SetPipes(set []*pipes.Pipe, totalFlowKgS float64) {
	b.report.Pipes = make([]PipeRecord, 0, len(set))
	b.report.Network.TotalFlowKgS = totalFlowKgS

	for _, p := range set {
		category, err := b.categories.ByName(p.Category)
		if err != nil {
			category = b.categories.Service
		}
		perM := b.costs.PerMeter(p.DiameterM, category)

		b.report.Pipes = append(b.report.Pipes, PipeRecord{
			ID:              p.ID,
			Type:            string(p.Type),
			Category:        string(p.Category),
			FromNode:        p.FromNode,
			ToNode:          p.ToNode,
			LengthM:         p.LengthM,
			Buildings:       len(p.Buildings),
			FlowKgS:         p.FlowKgS,
			DiameterMM:      p.DiameterM * 1000.0,
			VelocityMS:      p.VelocityMS,
			PressureDropPaM: p.PressureDropPaM,
			ThermalLossW:    p.ThermalLossW,
			CostPerM:        perM,
		})

		b.report.Network.TotalPipeLengthM += p.LengthM
		b.report.Cost.PipesCost += perM * p.LengthM
		switch p.Type {
		case pipes.Supply:
			b.report.Network.SupplyPipes++
		case pipes.Return:
			b.report.Network.ReturnPipes++
		}
	}

	b.report.Cost.TrenchCost = b.costs.TrenchCost(b.report.Network.TrenchLengthM)
	b.report.Cost.TotalCost = b.report.Cost.PipesCost + b.report.Cost.TrenchCost
}

// SetCompliance records the final validation verdict
func (b *Builder) SetCompliance(cr *compliance.Report) {
	b.report.Compliance = ComplianceSummary{
		Valid:     cr.Valid,
		Critical:  len(cr.BySeverity(compliance.Critical)),
		Warnings:  len(cr.BySeverity(compliance.Warning)),
		PipesHit:  len(cr.PipeIDs()),
		TotalHits: len(cr.Violations),
	}
}

// SetResize records the auto-resize outcome. A nil report means the loop
// was disabled.
func (b *Builder) SetResize(rr *resize.Report) {
	if rr == nil {
		b.report.Resize = ResizeSummary{Ran: false}
		return
	}
	b.report.Resize = ResizeSummary{
		Ran:        true,
		State:      string(rr.State),
		Iterations: len(rr.Iterations),
		Remaining:  len(rr.Remaining),
	}
	if rr.State != resize.Converged {
		b.report.Degraded = true
	}
}

// SetSimulation records the solver outcome and the supply-side efficiency
func (b *Builder) SetSimulation(sr *solver.Result, deliveredKW float64) {
	b.report.Simulation = SimulationSummary{
		Source:       sr.Source,
		TopologyOnly: sr.TopologyOnly,
		PumpPowerW:   sr.PumpPowerW,
		ThermalLossW: sr.ThermalLossW,
	}
	deliveredW := deliveredKW * 1000.0
	if deliveredW+sr.ThermalLossW > 0 {
		b.report.Simulation.ThermalEfficiency = deliveredW / (deliveredW + sr.ThermalLossW)
	}
	if sr.TopologyOnly {
		b.report.Degraded = true
	}
}

// Build finalizes and returns the report
func (b *Builder) Build() *RunReport {
	b.report.FinishedAt = time.Now().UTC()
	return b.report
}
