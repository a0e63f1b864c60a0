// Package ecgraph implements the execution-control graph container: a
// named collection of nodes and nested subgraphs, dependency-closure
// validation, and retrieval of the most recent execution's results.
// Running a graph is the execution engine's job (package engine); this
// package owns the graph's structure and state.
package ecgraph

import (
	"fmt"
	"sync"
	"time"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/graph"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/names"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/node"
)

// GraphType identifies a subgraph's execution strategy. "base" runs a
// plain dependency-ordered graph; the others are recognized by the
// loader for specialized inference-runner subgraphs that still behave
// as base graphs at the container level.
type GraphType string

const (
	GraphTypeBase                    GraphType = "base"
	GraphTypeSplitInferenceRunner    GraphType = "splitInferenceRunner"
	GraphTypeAutoregressiveInference GraphType = "autoregressiveInferenceRunner"
)

// Config configures a Graph at construction time.
type Config struct {
	ID                 string // used as given; New does not generate one
	Type               GraphType
	ExternalInputNames []string // qualified names this graph accepts as execution-time inputs
	OnSuccess          func(g *Graph)
	OnError            func(g *Graph)
}

// Graph is a named collection of nodes and nested subgraphs.
type Graph struct {
	mu sync.RWMutex

	id                 string
	graphType          GraphType
	members            map[string]any // node.Runnable or *Graph
	externalInputNames map[string]bool
	onSuccess          func(g *Graph)
	onError            func(g *Graph)
	lastModified       time.Time

	lastDependencyGraph graph.Adjacency
	externalInputValues map[string]any
	executionConfig      map[string]any
}

// New constructs a Graph. The id is taken from cfg.ID as given:
// ecgraph does not mint ids itself, so an empty cfg.ID yields a graph
// with an empty id. The loader supplies a generated id when a
// description omits graphId.
func New(cfg Config) *Graph {
	graphType := cfg.Type
	if graphType == "" {
		graphType = GraphTypeBase
	}

	externalInputs := make(map[string]bool, len(cfg.ExternalInputNames))
	for _, n := range cfg.ExternalInputNames {
		externalInputs[n] = true
	}

	return &Graph{
		id:                 cfg.ID,
		graphType:          graphType,
		members:            make(map[string]any),
		externalInputNames: externalInputs,
		onSuccess:          cfg.OnSuccess,
		onError:            cfg.OnError,
		lastModified:       time.Now(),
	}
}

// ID returns the graph's id.
func (g *Graph) ID() string { return g.id }

// Type returns the graph's execution-strategy type.
func (g *Graph) Type() GraphType { return g.graphType }

// InvokeSuccess calls the graph's configured success callback, if any.
func (g *Graph) InvokeSuccess() {
	g.mu.RLock()
	cb := g.onSuccess
	g.mu.RUnlock()
	if cb != nil {
		cb(g)
	}
}

// InvokeError calls the graph's configured error callback, if any.
func (g *Graph) InvokeError() {
	g.mu.RLock()
	cb := g.onError
	g.mu.RUnlock()
	if cb != nil {
		cb(g)
	}
}

// LastModified returns the timestamp of the most recent AddMember call.
func (g *Graph) LastModified() time.Time {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lastModified
}

// AddMember adds a node or nested subgraph to the graph. A *Graph is
// stored under its own id and AddMember returns "". Anything
// implementing node.Runnable is stored under its node id, which is
// returned.
func (g *Graph) AddMember(member any) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if sub, ok := member.(*Graph); ok {
		g.members[sub.ID()] = sub
		g.lastModified = time.Now()
		return "", nil
	}

	if n, ok := member.(node.Runnable); ok {
		g.members[n.ID()] = n
		g.lastModified = time.Now()
		return n.ID(), nil
	}

	return "", fmt.Errorf("ecgraph: member of type %T implements neither node.Runnable nor *Graph", member)
}

// Get returns the member (a node.Runnable or *Graph) stored under id.
func (g *Graph) Get(id string) (any, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, ok := g.members[id]
	return m, ok
}

// IDs returns the ids of every direct member (nodes and subgraphs).
func (g *Graph) IDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]string, 0, len(g.members))
	for id := range g.members {
		ids = append(ids, id)
	}
	return ids
}

// ContainsOutputNames reports whether the graph (including nested
// subgraphs) can produce every name in outputNames. Unlike the
// original source's early-return version, this checks every name even
// after one match succeeds, rather than returning true on the first.
func (g *Graph) ContainsOutputNames(outputNames []string) bool {
	if len(outputNames) == 0 {
		return false
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, outputName := range outputNames {
		if g.externalInputNames[outputName] {
			continue
		}

		nodeID := names.NodeIDOf(outputName)

		if names.HasSubgraphPrefix(nodeID) {
			subgraphID, remainder := names.SplitSubgraph(nodeID)
			sub, ok := g.members[subgraphID].(*Graph)
			if !ok {
				return false
			}
			label := names.OutputLabelOf(outputName)
			if !sub.ContainsOutputNames([]string{names.QualifyOutputName(remainder, label)}) {
				return false
			}
			continue
		}

		member, ok := g.members[nodeID]
		if !ok {
			return false
		}
		n, ok := member.(node.Runnable)
		if !ok {
			return false
		}
		if !n.ContainsOutputLabel(outputName) {
			return false
		}
	}

	return true
}

// DependencyGraph builds the producer -> consumers adjacency used for
// topological ordering: for every node member, each node id it derives
// inputs from gets an edge to it. Subgraph members never appear as
// dependency-graph keys in their own right; they participate only when
// referenced by a qualified name that resolves into them. Every node
// id appears as a key, even sinks with no consumers.
func (g *Graph) DependencyGraph() graph.Adjacency {
	g.mu.RLock()
	defer g.mu.RUnlock()

	dependencyGraph := make(graph.Adjacency)

	for id, member := range g.members {
		n, ok := member.(node.Runnable)
		if !ok {
			continue
		}

		for _, producerID := range n.ProducersOfInputs() {
			dependencyGraph[producerID] = append(dependencyGraph[producerID], id)
		}

		if _, exists := dependencyGraph[id]; !exists {
			dependencyGraph[id] = nil
		}
	}

	return dependencyGraph
}

// IsValid reports whether every node's declared inputs are satisfiable
// from the graph's own members, its external inputs, and (recursively)
// any nested subgraph's advertised outputs.
func (g *Graph) IsValid() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	dependencies := make(map[string]bool)
	available := make(map[string]bool)

	for id, member := range g.members {
		if sub, ok := member.(*Graph); ok {
			if !sub.IsValid() {
				return false
			}
			sub.mu.RLock()
			leafIDs := sub.leafIDsUnlocked()
			sub.mu.RUnlock()
			for _, leafID := range leafIDs {
				available[names.QualifyForGraph(id, leafID)] = true
			}
			continue
		}

		n, ok := member.(node.Runnable)
		if !ok {
			continue
		}
		if !n.IsValid() {
			return false
		}
		for _, input := range n.DeclaredInputs() {
			dependencies[input] = true
		}
		available[id] = true
	}

	for input := range g.externalInputNames {
		available[names.NodeIDOf(input)] = true
	}

	for dep := range dependencies {
		depNodeID := names.NodeIDOf(dep)
		if !available[depNodeID] && !available[dep] {
			return false
		}
	}
	return true
}

// leafIDsUnlocked returns this graph's leaf node ids computed from a
// freshly built dependency graph (not the last-executed one, so output
// discovery works even before the graph has ever run). The caller must
// already hold g.mu for reading.
func (g *Graph) leafIDsUnlocked() []string {
	dependencyGraph := make(graph.Adjacency)
	for id, member := range g.members {
		n, ok := member.(node.Runnable)
		if !ok {
			continue
		}
		for _, producerID := range n.ProducersOfInputs() {
			dependencyGraph[producerID] = append(dependencyGraph[producerID], id)
		}
		if _, exists := dependencyGraph[id]; !exists {
			dependencyGraph[id] = nil
		}
	}
	return graph.Leaves(dependencyGraph)
}

// OutputNodeIDs returns the graph's leaf node ids, or nil if the graph
// is not valid.
func (g *Graph) OutputNodeIDs() []string {
	if !g.IsValid() {
		return nil
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.leafIDsUnlocked()
}

// StoreLastExecutedDependencyGraph records the dependency graph the
// executor computed for the run it just performed, so
// LastExecutionResult can locate leaf nodes afterward. Called by the
// executor, not by graph construction code.
func (g *Graph) StoreLastExecutedDependencyGraph(dependencyGraph graph.Adjacency) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastDependencyGraph = dependencyGraph
}

// LastExecutedDependencyGraph returns the dependency graph from the
// most recent execution, or nil if the graph has never run.
func (g *Graph) LastExecutedDependencyGraph() graph.Adjacency {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lastDependencyGraph
}

// SetExecutionConfig records the configuration the executor is running
// (or most recently ran) this graph with.
func (g *Graph) SetExecutionConfig(cfg map[string]any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.executionConfig = cfg
}

// ExecutionConfig returns the most recently set execution config.
func (g *Graph) ExecutionConfig() map[string]any {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.executionConfig
}

// SetExternalInputValues records the values supplied for this graph's
// external inputs during the current/most recent execution.
func (g *Graph) SetExternalInputValues(values map[string]any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.externalInputValues = values
}

// ExternalInputValues returns the values recorded by
// SetExternalInputValues.
func (g *Graph) ExternalInputValues() map[string]any {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.externalInputValues
}

// ExternalInputNames returns a copy of this graph's declared external
// input names as a set.
func (g *Graph) ExternalInputNames() map[string]bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]bool, len(g.externalInputNames))
	for k := range g.externalInputNames {
		out[k] = true
	}
	return out
}

// LastExecutionResult merges the last_result of every leaf node (or,
// if allNodes is true, every member node) into a single mapping keyed
// by "<graph_id>.<output_label>". Members absent from the graph at
// lookup time are skipped rather than aborting the whole retrieval.
func (g *Graph) LastExecutionResult(allNodes bool) (map[string]any, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.lastDependencyGraph == nil {
		return nil, nil
	}

	leaves := graph.Leaves(g.lastDependencyGraph)
	if len(leaves) == 0 {
		return nil, nil
	}

	var targets []string
	if allNodes {
		for id := range g.members {
			targets = append(targets, id)
		}
	} else {
		targets = leaves
	}

	output := make(map[string]any)
	for _, id := range targets {
		member, ok := g.members[id]
		if !ok {
			continue
		}
		n, ok := member.(node.Runnable)
		if !ok {
			continue
		}
		result := n.LastResult()
		if result == nil {
			continue
		}
		for label, value := range result {
			output[names.QualifyForGraph(g.id, label)] = value
		}
	}
	return output, nil
}

// LastExecutionResultFromNode returns the most recent result produced
// by the single named member node.
func (g *Graph) LastExecutionResultFromNode(id string) (map[string]any, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	member, ok := g.members[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMember, id)
	}
	n, ok := member.(node.Runnable)
	if !ok {
		return nil, fmt.Errorf("%w: %q is a subgraph, not a node", ErrUnknownMember, id)
	}
	return n.LastResult(), nil
}

// Dispose releases every member node's resources.
func (g *Graph) Dispose() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, member := range g.members {
		switch m := member.(type) {
		case *Graph:
			if err := m.Dispose(); err != nil {
				return err
			}
		case node.Runnable:
			if err := m.Dispose(); err != nil {
				return err
			}
		}
		delete(g.members, id)
	}
	return nil
}
