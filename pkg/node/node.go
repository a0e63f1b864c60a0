// Package node implements the execution-control graph's node hierarchy:
// the base Node, its DataProcessingNode specialization, and the
// ExternalCallNode specialization for HTTP/WebSocket backed nodes.
package node

import (
	"context"
	"fmt"
	"time"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/names"
	"github.com/google/uuid"
)

// Subroutine is the callable a Node wraps. It receives the gathered
// input values (nil when the node declares no inputs) and returns the
// node's result mapping, or an error on failure.
type Subroutine func(ctx context.Context, inputs map[string]any) (map[string]any, error)

// Config describes the fields a declarative node description carries,
// shared by every node kind. Specializations embed this.
type Config struct {
	ID                 string
	InputNames         []string
	InputDefaults      map[string]any
	Subroutine         Subroutine
	OutputNames        []string // defaults to ["defaultOutput"]
	LogErrors          bool
	OnExecutionComplete func(n *Node)
}

// Runnable is the interface the graph container and executor program
// against: every node kind (base Node, DataProcessingNode,
// ExternalCallNode) satisfies it, with Execute/Dispose resolving to
// whichever specialization overrides them.
type Runnable interface {
	ID() string
	DeclaredInputs() []string
	DeclaredOutputs() []string
	ProducersOfInputs() []string
	ContainsOutputLabel(qualifiedName string) bool
	IsValid() bool
	LastResult() map[string]any
	Execute(ctx context.Context, inputs map[string]any, measureTime bool) bool
	Dispose() error
}

// Node is the base execution unit of a graph: an id, a set of declared
// input names, a subroutine, and the output labels it advertises.
type Node struct {
	id            string
	inputNames    []string
	inputDefaults map[string]any
	subroutine    Subroutine
	outputNames   []string
	logErrors     bool
	onComplete    func(n *Node)

	executionDurationsMS []float64
	executionSuccesses   []bool
	loggedErrors         []string
	lastResult           map[string]any
}

// New constructs a base Node. A missing subroutine is a construction
// error: every node must have something to run.
func New(cfg Config) (*Node, error) {
	if cfg.Subroutine == nil {
		return nil, fmt.Errorf("%w: node %q", ErrMissingSubroutine, cfg.ID)
	}

	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}

	outputNames := cfg.OutputNames
	if len(outputNames) == 0 {
		outputNames = []string{"defaultOutput"}
	}

	return &Node{
		id:            id,
		inputNames:    cfg.InputNames,
		inputDefaults: cfg.InputDefaults,
		subroutine:    cfg.Subroutine,
		outputNames:   outputNames,
		logErrors:     cfg.LogErrors,
		onComplete:    cfg.OnExecutionComplete,
	}, nil
}

// ID returns the node's identifier.
func (n *Node) ID() string { return n.id }

// DeclaredInputs returns the qualified names this node declares as inputs.
func (n *Node) DeclaredInputs() []string { return n.inputNames }

// InputDefaults returns the default values to fall back on for declared
// inputs whose producer has not run, keyed by qualified input name.
func (n *Node) InputDefaults() map[string]any { return n.inputDefaults }

// DeclaredOutputs returns this node's output labels, each qualified by
// the node's own id (e.g. "node1.result").
func (n *Node) DeclaredOutputs() []string {
	out := make([]string, 0, len(n.outputNames))
	for _, label := range n.outputNames {
		out = append(out, names.QualifyOutputName(n.id, label))
	}
	return out
}

// ProducersOfInputs returns the distinct node ids this node derives
// inputs from, extracted from its declared input names via the NAMES
// protocol.
func (n *Node) ProducersOfInputs() []string {
	seen := make(map[string]bool)
	var producers []string
	for _, input := range n.inputNames {
		if !names.IsValidQualifiedName(input) {
			continue
		}
		id := names.NodeIDOf(input)
		if !seen[id] {
			seen[id] = true
			producers = append(producers, id)
		}
	}
	return producers
}

// ContainsOutputLabel reports whether qualifiedName's final segment
// matches one of this node's output labels.
func (n *Node) ContainsOutputLabel(qualifiedName string) bool {
	if !names.IsValidQualifiedName(qualifiedName) {
		return false
	}
	label := names.OutputLabelOf(qualifiedName)
	for _, l := range n.outputNames {
		if l == label {
			return true
		}
	}
	return false
}

// IsValid reports whether the node is well-formed: it has an id, a
// subroutine, and at least one output name.
func (n *Node) IsValid() bool {
	return n.id != "" && n.subroutine != nil && len(n.outputNames) > 0
}

// LastResult returns the result mapping from the most recent execution,
// or nil if the node has never run.
func (n *Node) LastResult() map[string]any { return n.lastResult }

// LoggedErrors returns every error message logged by this node.
func (n *Node) LoggedErrors() []string { return n.loggedErrors }

func (n *Node) logError(msg string) {
	if n.logErrors {
		n.loggedErrors = append(n.loggedErrors, msg)
	}
}

// AverageExecutionTimeMS averages the last maxCount recorded execution
// timings, or all of them if fewer were recorded.
func (n *Node) AverageExecutionTimeMS(maxCount int) float64 {
	if len(n.executionDurationsMS) == 0 {
		return 0
	}
	start := len(n.executionDurationsMS) - maxCount
	if start < 0 {
		start = 0
	}
	recent := n.executionDurationsMS[start:]
	var sum float64
	for _, v := range recent {
		sum += v
	}
	return sum / float64(len(recent))
}

// LastExecutionTimeMS returns the most recently recorded execution
// duration in milliseconds, or 0 if the node has never run.
func (n *Node) LastExecutionTimeMS() float64 {
	if len(n.executionDurationsMS) == 0 {
		return 0
	}
	return n.executionDurationsMS[len(n.executionDurationsMS)-1]
}

// Execute runs the node's subroutine against the gathered input values.
// It records timing and success history, stores the result as
// last_result, and invokes the completion callback on success. It
// returns true iff the subroutine completed without error.
func (n *Node) Execute(ctx context.Context, inputs map[string]any, measureTime bool) bool {
	var start time.Time
	if measureTime {
		start = time.Now()
	}

	result, err := n.subroutine(ctx, inputs)
	if err != nil {
		n.logError(fmt.Sprintf("error executing node %s: %v", n.id, err))
		n.executionSuccesses = append(n.executionSuccesses, false)
		if measureTime {
			n.executionDurationsMS = append(n.executionDurationsMS, elapsedMS(start))
		}
		return false
	}

	if result == nil {
		result = map[string]any{}
	}
	n.lastResult = result
	n.executionSuccesses = append(n.executionSuccesses, true)
	if measureTime {
		n.executionDurationsMS = append(n.executionDurationsMS, elapsedMS(start))
	}
	if n.onComplete != nil {
		n.onComplete(n)
	}
	return true
}

// Dispose clears the node's histories and last result.
func (n *Node) Dispose() error {
	n.lastResult = nil
	n.executionDurationsMS = nil
	n.executionSuccesses = nil
	n.loggedErrors = nil
	return nil
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
