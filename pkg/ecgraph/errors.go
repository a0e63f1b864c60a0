package ecgraph

import "errors"

var (
	// ErrUnknownMember is returned when a referenced node or subgraph id
	// is not present in the graph.
	ErrUnknownMember = errors.New("ecgraph: unknown member")

	// ErrNotExecuted is returned when a result is requested for a node
	// that has never run.
	ErrNotExecuted = errors.New("ecgraph: node has not been executed")

	// ErrMissingOutput is returned when a node's last result does not
	// contain the requested output label.
	ErrMissingOutput = errors.New("ecgraph: node has not produced the requested output")

	// ErrDependencyClosure is returned by validation when a node's
	// declared inputs are not satisfiable from the graph's members and
	// external inputs.
	ErrDependencyClosure = errors.New("ecgraph: unresolvable dependency")
)
