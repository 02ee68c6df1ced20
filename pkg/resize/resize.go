// Package resize runs the bounded auto-resize loop: validate, grow the
// violating pipes to the next standard diameter, repeat until the network is
// compliant or no further growth is possible. Sizing is monotone (diameters
// never decrease), which is what keeps the loop from oscillating.
package resize

import (
	"github.com/fjellvarme/heatgrid/pkg/compliance"
	"github.com/fjellvarme/heatgrid/pkg/hydraulics"
	"github.com/fjellvarme/heatgrid/pkg/logging"
	"github.com/fjellvarme/heatgrid/pkg/pipes"
	"github.com/fjellvarme/heatgrid/pkg/sizing"
)

// State is the terminal state of an auto-resize run
type State string

const (
	// Converged means the final validation pass found zero violations
	Converged State = "converged"
	// Stalled means violations remain but no pipe could grow further
	Stalled State = "stalled"
	// Exhausted means the iteration budget ran out with violations left
	Exhausted State = "exhausted"
)

// DefaultPriority resizes services before distribution before mains:
// undersized branches are cheaper to fix and rarely force trunk rework.
var DefaultPriority = []pipes.CategoryName{pipes.Service, pipes.Distribution, pipes.Main}

// IterationRecord is the audit trail of one loop iteration
type IterationRecord struct {
	Iteration        int
	ViolationsBefore int
	PipesResized     int
}

// Report is the outcome of one auto-resize run
type Report struct {
	State      State
	Iterations []IterationRecord
	// Remaining holds the violations of the final validation pass; empty
	// when the run converged.
	Remaining []compliance.Violation
	// Compliant is the final verdict over all pipes
	Compliant bool
}

// Resizer drives the loop over a shared sizing engine and validator
type Resizer struct {
	engine    *sizing.Engine
	validator *compliance.Validator
	logger    logging.Logger

	// MaxIterations bounds the loop; the validator runs at most
	// MaxIterations+1 times.
	MaxIterations int
	// Priority orders the categories for resizing
	Priority []pipes.CategoryName
	// Monotone keeps diameters non-decreasing. Disabling it is only for
	// experiments; production runs keep it on.
	Monotone bool

	categories pipes.Categories
}

// NewResizer creates a resizer with the default priority and budget
func NewResizer(engine *sizing.Engine, categories pipes.Categories, logger logging.Logger) *Resizer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Resizer{
		engine:        engine,
		validator:     engine.Validator(),
		logger:        logger,
		MaxIterations: 10,
		Priority:      DefaultPriority,
		Monotone:      true,
		categories:    categories,
	}
}

// Run iterates sizing and validation over the pipe set until convergence,
// stall or budget exhaustion. Iterations are strictly sequential: each pass
// observes every diameter update of the previous one.
func (r *Resizer) Run(set []*pipes.Pipe) *Report {
	report := &Report{
		Iterations: make([]IterationRecord, 0, r.MaxIterations),
	}

	for iteration := 0; iteration < r.MaxIterations; iteration++ {
		check := r.validator.Check(set)
		if len(check.Violations) == 0 {
			report.State = Converged
			report.Compliant = true
			r.logger.Info("Auto-resize converged",
				logging.Component("resize"),
				logging.Iteration(iteration))
			return report
		}

		resized := r.resizeViolating(set, check)
		report.Iterations = append(report.Iterations, IterationRecord{
			Iteration:        iteration,
			ViolationsBefore: len(check.Violations),
			PipesResized:     resized,
		})

		r.logger.Info("Auto-resize iteration",
			logging.Component("resize"),
			logging.Iteration(iteration),
			logging.Violations(len(check.Violations)),
			logging.Int("resized", resized))

		if resized == 0 {
			// Every violating pipe already sits at its category's catalog
			// ceiling. Terminal, reported, non-fatal.
			report.State = Stalled
			report.Remaining = check.Violations
			r.logger.Warn("Auto-resize stalled with violations remaining",
				logging.Component("resize"),
				logging.Violations(len(check.Violations)))
			return report
		}
	}

	final := r.validator.Check(set)
	if len(final.Violations) == 0 {
		report.State = Converged
		report.Compliant = true
		return report
	}
	report.State = Exhausted
	report.Remaining = final.Violations
	r.logger.Warn("Auto-resize budget exhausted",
		logging.Component("resize"),
		logging.Violations(len(final.Violations)))
	return report
}

// resizeViolating grows the violating pipes in priority order and returns
// how many diameters actually increased.
func (r *Resizer) resizeViolating(set []*pipes.Pipe, check *compliance.Report) int {
	violating := make(map[string]bool)
	for _, v := range check.Violations {
		violating[v.PipeID] = true
	}

	resized := 0
	for _, categoryName := range r.Priority {
		for _, p := range set {
			if p.Category != categoryName || !violating[p.ID] {
				continue
			}
			if r.resizePipe(p) {
				resized++
			}
		}
	}
	return resized
}

// resizePipe applies monotone sizing to one pipe: the new diameter is the
// smallest standard value that satisfies the requirement and is at least the
// current diameter. Returns true when the diameter grew.
func (r *Resizer) resizePipe(p *pipes.Pipe) bool {
	category, err := r.categories.ByName(p.Category)
	if err != nil {
		r.logger.Error("Cannot resize pipe with unknown category",
			logging.Component("resize"),
			logging.PipeID(p.ID),
			logging.Error(err))
		return false
	}

	required := r.engine.RequiredDiameter(p.FlowKgS, category)
	if r.Monotone && required < p.DiameterM {
		required = p.DiameterM
	}

	// Smallest catalog value >= required and >= current: diameters only
	// ever grow.
	next, _ := r.engine.SelectStandardDiameter(required, category)
	if next <= p.DiameterM {
		return false
	}

	p.DiameterM = next
	p.VelocityMS, p.Reynolds, p.FrictionFactor, p.PressureDropPaM =
		hydraulics.PressureGradient(p.FlowKgS, next, r.engine.RoughnessM)
	return true
}
