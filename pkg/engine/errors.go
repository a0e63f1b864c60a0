package engine

import "errors"

// Sentinel errors for engine operations
var (
	// ErrInvalidGraph is returned when is_valid() reports the graph has
	// an unsatisfiable dependency before any node runs.
	ErrInvalidGraph = errors.New("invalid graph: missing dependencies")

	// ErrTopologicalSort wraps a cycle (or other ordering) failure from
	// the graph algorithms package.
	ErrTopologicalSort = errors.New("failed to compute execution order")

	// ErrUnknownSubgraph is returned when a dependency id carries a
	// subgraph prefix that does not resolve to a member *ecgraph.Graph.
	ErrUnknownSubgraph = errors.New("unknown subgraph")

	// ErrUnresolvedProducer is returned when a node declares an input
	// whose producer has not executed by the time it is needed.
	ErrUnresolvedProducer = errors.New("producer has not executed")

	// ErrMissingProducedOutput is returned when a producer has executed
	// but its last result does not contain the requested output label.
	ErrMissingProducedOutput = errors.New("producer has not produced requested output")

	// ErrSubgraphExecutionFailed is returned when a nested subgraph's
	// execution fails.
	ErrSubgraphExecutionFailed = errors.New("subgraph execution failed")

	// ErrNodeExecutionFailed is returned when a member node's execute
	// call returns failure.
	ErrNodeExecutionFailed = errors.New("node execution failed")

	// ErrExecutionFailed is the generic wrapper returned when a graph
	// run fails for a reason already logged in detail.
	ErrExecutionFailed = errors.New("graph execution failed")

	// ErrExecutionTimeout is returned when a run exceeds
	// config.MaxExecutionTime.
	ErrExecutionTimeout = errors.New("graph execution timed out")
)
