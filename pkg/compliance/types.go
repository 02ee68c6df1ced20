// Package compliance checks sized pipes against category-specific hydraulic
// and thermal standards limits and emits structured violations. Validation is
// pure: pipes are never mutated and identical input always yields the same
// violation set.
package compliance

import (
	"time"
)

// Severity indicates the importance of a violation
type Severity int

const (
	// Warning marks near-limit or efficiency concerns
	Warning Severity = iota
	// Critical marks a hard standards-limit breach
	Critical
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// Kind categorizes what limit a violation breached
type Kind int

const (
	// VelocityViolation covers flow speed above the category ceiling or
	// below the global stagnation minimum
	VelocityViolation Kind = iota
	// PressureDropViolation covers frictional loss above the category ceiling
	PressureDropViolation
	// ThermalViolation covers below-target thermal efficiency
	ThermalViolation
)

func (k Kind) String() string {
	switch k {
	case VelocityViolation:
		return "velocity"
	case PressureDropViolation:
		return "pressure_drop"
	case ThermalViolation:
		return "thermal"
	default:
		return "unknown"
	}
}

// Violation records one standards breach on one pipe
type Violation struct {
	PipeID   string
	Kind     Kind
	Severity Severity
	Measured float64
	Limit    float64
	Message  string
}

// Report contains the outcome of validating a pipe set
type Report struct {
	Valid      bool
	Violations []Violation
	CheckedAt  time.Time
}

// BySeverity returns violations filtered by severity level
func (r *Report) BySeverity(severity Severity) []Violation {
	filtered := make([]Violation, 0)
	for _, v := range r.Violations {
		if v.Severity == severity {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// ByKind returns violations filtered by kind
func (r *Report) ByKind(kind Kind) []Violation {
	filtered := make([]Violation, 0)
	for _, v := range r.Violations {
		if v.Kind == kind {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// PipeIDs returns the distinct pipe ids carrying violations, in input order
func (r *Report) PipeIDs() []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, v := range r.Violations {
		if !seen[v.PipeID] {
			seen[v.PipeID] = true
			ids = append(ids, v.PipeID)
		}
	}
	return ids
}
