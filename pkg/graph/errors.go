package graph

import "errors"

// Sentinel errors for graph algorithm operations.
var (
	ErrEmptyGraph     = errors.New("graph is empty")
	ErrNodeNotFound   = errors.New("node not found in graph")
	ErrCycleDetected  = errors.New("cycle detected in graph")
	ErrNotDAG         = errors.New("graph is not a DAG")
	ErrCannotSort     = errors.New("cannot perform topological sort")
	ErrInvalidStart   = errors.New("invalid start node for traversal")
)
