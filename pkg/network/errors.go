package network

import (
	"errors"
)

// Common sentinel errors
var (
	// ErrEmptyGeometry is returned when the street collection has no usable segments
	ErrEmptyGeometry = errors.New("empty street geometry")
	// ErrNodeNotFound is returned for an id outside the node arena
	ErrNodeNotFound = errors.New("node not found")
	// ErrInvalidEdge is returned for self-loops, bad endpoints or non-positive lengths
	ErrInvalidEdge = errors.New("invalid edge")
	// ErrNoEdges is returned when an operation needs at least one edge
	ErrNoEdges = errors.New("graph has no edges")
)
