package resize

import (
	"testing"

	"github.com/fjellvarme/heatgrid/pkg/logging"
	"github.com/fjellvarme/heatgrid/pkg/pipes"
	"github.com/fjellvarme/heatgrid/pkg/sizing"
)

func newTestResizer() (*Resizer, *sizing.Engine) {
	categories := pipes.DefaultCategories()
	engine := sizing.NewEngine(categories)
	return NewResizer(engine, categories, logging.NewNopLogger()), engine
}

// undersizedPipe returns a service pipe one catalog step below its need
func undersizedPipe(id string) *pipes.Pipe {
	return &pipes.Pipe{
		ID:        id,
		Type:      pipes.Supply,
		Category:  pipes.Service,
		LengthM:   50,
		FlowKgS:   1.2,
		DiameterM: 0.025,
	}
}

func TestRun_ConvergesOnFixablePipes(t *testing.T) {
	r, _ := newTestResizer()

	set := []*pipes.Pipe{undersizedPipe("supply:0-1"), undersizedPipe("supply:1-2")}
	report := r.Run(set)

	if report.State != Converged {
		t.Fatalf("Expected convergence, got %s with %v", report.State, report.Remaining)
	}
	if !report.Compliant {
		t.Error("Converged runs are compliant")
	}
	if len(report.Remaining) != 0 {
		t.Errorf("Converged runs leave no violations, got %d", len(report.Remaining))
	}
	if len(report.Iterations) == 0 {
		t.Error("Expected at least one recorded iteration")
	}
}

func TestRun_AlreadyCompliant(t *testing.T) {
	r, engine := newTestResizer()

	p := undersizedPipe("supply:0-1")
	result := engine.SizePipe(p.FlowKgS, p.LengthM, pipes.DefaultCategories().Service)
	sizing.Apply(p, result)

	report := r.Run([]*pipes.Pipe{p})
	if report.State != Converged {
		t.Fatalf("Expected immediate convergence, got %s", report.State)
	}
	if len(report.Iterations) != 0 {
		t.Errorf("A compliant set needs zero resize iterations, got %d", len(report.Iterations))
	}
}

func TestRun_StalledAtCatalogCeiling(t *testing.T) {
	r, _ := newTestResizer()

	// 5 kg/s exceeds what the largest in-range service diameter carries at
	// the velocity ceiling; no growth is possible.
	p := &pipes.Pipe{
		ID:        "supply:0-1",
		Type:      pipes.Supply,
		Category:  pipes.Service,
		LengthM:   30,
		FlowKgS:   5.0,
		DiameterM: 0.063,
	}

	report := r.Run([]*pipes.Pipe{p})
	if report.State != Stalled {
		t.Fatalf("Expected stall at the catalog ceiling, got %s", report.State)
	}
	if report.Compliant {
		t.Error("A stalled run is not compliant")
	}
	if len(report.Remaining) == 0 {
		t.Error("The unfixable violation must remain in the final report")
	}
	if p.DiameterM != 0.063 {
		t.Errorf("A stalled pipe must keep its diameter, got %f", p.DiameterM)
	}
}

func TestRun_ExhaustedBudget(t *testing.T) {
	r, _ := newTestResizer()
	r.MaxIterations = 0

	report := r.Run([]*pipes.Pipe{undersizedPipe("supply:0-1")})
	if report.State != Exhausted {
		t.Fatalf("Expected exhaustion with a zero budget, got %s", report.State)
	}
	if len(report.Remaining) == 0 {
		t.Error("Exhausted runs report the remaining violations")
	}
}

func TestRun_MonotoneDiameters(t *testing.T) {
	r, _ := newTestResizer()

	set := []*pipes.Pipe{
		undersizedPipe("supply:0-1"),
		{
			ID: "supply:1-2", Type: pipes.Supply, Category: pipes.Distribution,
			LengthM: 200, FlowKgS: 8, DiameterM: 0.063,
		},
		{
			ID: "supply:2-3", Type: pipes.Supply, Category: pipes.Main,
			LengthM: 400, FlowKgS: 30, DiameterM: 0.150,
		},
	}

	before := make(map[string]float64)
	for _, p := range set {
		before[p.ID] = p.DiameterM
	}

	report := r.Run(set)
	for _, p := range set {
		if p.DiameterM < before[p.ID] {
			t.Errorf("Pipe %s shrank from %f to %f", p.ID, before[p.ID], p.DiameterM)
		}
	}
	if report.State != Converged && report.State != Stalled && report.State != Exhausted {
		t.Errorf("Run must end in a terminal state, got %q", report.State)
	}
}

func TestRun_PriorityOrder(t *testing.T) {
	r, _ := newTestResizer()

	// One violating pipe per tier; the iteration record counts all three,
	// and every tier grows despite the shared pass.
	service := undersizedPipe("supply:0-1")
	distribution := &pipes.Pipe{
		ID: "supply:1-2", Type: pipes.Supply, Category: pipes.Distribution,
		LengthM: 100, FlowKgS: 10, DiameterM: 0.050,
	}
	main := &pipes.Pipe{
		ID: "supply:2-3", Type: pipes.Supply, Category: pipes.Main,
		LengthM: 300, FlowKgS: 60, DiameterM: 0.100,
	}

	report := r.Run([]*pipes.Pipe{main, distribution, service})
	if len(report.Iterations) == 0 {
		t.Fatal("Expected at least one iteration")
	}
	if report.Iterations[0].PipesResized != 3 {
		t.Errorf("Expected all 3 violating pipes resized in the first pass, got %d",
			report.Iterations[0].PipesResized)
	}
	if report.State != Converged {
		t.Errorf("Expected convergence, got %s with %v", report.State, report.Remaining)
	}
}

func TestRun_IterationRecordsAudit(t *testing.T) {
	r, _ := newTestResizer()

	set := []*pipes.Pipe{undersizedPipe("supply:0-1")}
	report := r.Run(set)

	for i, rec := range report.Iterations {
		if rec.Iteration != i {
			t.Errorf("Iteration record %d mislabeled as %d", i, rec.Iteration)
		}
		if rec.ViolationsBefore == 0 {
			t.Errorf("Recorded iteration %d had no violations to fix", i)
		}
	}
}
