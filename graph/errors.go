package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCycle is matched by every CycleError.
	ErrCycle = errors.New("dependency cycle")

	// ErrNoPath is matched by every NoPathError.
	ErrNoPath = errors.New("no path")

	// ErrUnknownNode is matched by every UnknownNodeError.
	ErrUnknownNode = errors.New("unknown node")
)

// CycleError is returned when the graph has no valid total order.
type CycleError struct {
	// Nodes that could not be ordered, in insertion order. Every node on a
	// cycle is listed, as is every node downstream of one.
	Nodes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle among nodes: %s", strings.Join(e.Nodes, ", "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// NoPathError is returned by ShortestPath when target is unreachable.
type NoPathError struct {
	Source string
	Target string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no path exists between %s and %s", e.Source, e.Target)
}

func (e *NoPathError) Unwrap() error { return ErrNoPath }

// UnknownNodeError is returned when an operation references a node that was
// never added.
type UnknownNodeError struct {
	Node string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node %q", e.Node)
}

func (e *UnknownNodeError) Unwrap() error { return ErrUnknownNode }
