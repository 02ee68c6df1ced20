package design

import (
	"errors"
	"fmt"
)

// Fatal precondition errors. Everything else the planner degrades around.
var (
	// ErrNoStreets means the input carried no usable street geometry
	ErrNoStreets = errors.New("no street geometry")
	// ErrNoBuildings means there is nothing to connect
	ErrNoBuildings = errors.New("no buildings to connect")
	// ErrNoPlant means the plant position is missing
	ErrNoPlant = errors.New("no plant position")
)

// DesignError wraps a phase failure with its operation and entity
type DesignError struct {
	Op     string // Phase that failed (e.g., "BuildGraph", "Route")
	Entity string // Entity involved (e.g., "street", "building", "plant")
	ID     string // Entity ID (if applicable)
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *DesignError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *DesignError) Unwrap() error {
	return e.Cause
}
