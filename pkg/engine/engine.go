package engine

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/config"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/ecgraph"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/graph"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/logging"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/names"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/node"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/observer"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/telemetry"
)

// Engine runs execution-control graphs. It owns no graph state itself;
// a *ecgraph.Graph is passed to Execute and all per-run state (value
// cache, executed-node set) lives for the duration of that call.
type Engine struct {
	config           *config.Config
	observerMgr      *observer.Manager
	structuredLogger *logging.Logger
	telemetry        *telemetry.Provider
}

// New constructs an Engine bound to cfg. A nil cfg falls back to
// config.Default().
func New(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{
		config:           cfg,
		observerMgr:      observer.NewManager(),
		structuredLogger: logging.New(logging.DefaultConfig()),
	}
}

// RegisterObserver adds an observer to receive execution events.
// Returns the engine for method chaining.
func (e *Engine) RegisterObserver(obs observer.Observer) *Engine {
	if obs != nil {
		e.observerMgr.Register(obs)
	}
	return e
}

// SetLogger replaces the engine's structured logger.
// Returns the engine for method chaining.
func (e *Engine) SetLogger(logger *logging.Logger) *Engine {
	if logger != nil {
		e.structuredLogger = logger
	}
	return e
}

// SetTelemetryProvider attaches a telemetry provider for node/graph
// metrics. A nil provider (the default) disables metric recording.
// Returns the engine for method chaining.
func (e *Engine) SetTelemetryProvider(provider *telemetry.Provider) *Engine {
	e.telemetry = provider
	return e
}

// GetObserverCount returns the number of registered observers.
func (e *Engine) GetObserverCount() int {
	return e.observerMgr.Count()
}

func generateExecutionID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("exec_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}

// Execute runs g to completion: it resolves the execution order,
// seeds external inputs, walks every member node and nested subgraph,
// and invokes g's success or error callback before returning. The run
// is bounded by a deadline derived from the engine's
// config.MaxExecutionTime, following the timeout-context-plus-
// goroutine-plus-buffered-channel pattern used throughout this module
// for long-running work.
func (e *Engine) Execute(ctx context.Context, g *ecgraph.Graph, executionConfig map[string]any, measureTime bool) (bool, error) {
	executionID := generateExecutionID()
	startTime := time.Now()
	logger := e.structuredLogger.WithExecutionID(executionID).WithGraphID(g.ID())
	logger.Info("graph execution started")

	runCtx, cancel := context.WithTimeout(ctx, e.config.MaxExecutionTime)
	defer cancel()

	e.notifyGraphStart(runCtx, executionID, g.ID(), startTime)

	done := make(chan bool, 1)
	go func() {
		done <- e.executeGraph(runCtx, g, executionConfig, measureTime, executionID, logger)
	}()

	select {
	case success := <-done:
		elapsed := time.Since(startTime)
		if e.telemetry != nil {
			e.telemetry.RecordGraphExecution(runCtx, g.ID(), elapsed, success, len(g.IDs()))
		}
		if success {
			logger.WithField("duration_ms", elapsed.Milliseconds()).Info("graph execution completed successfully")
			e.notifyGraphEnd(runCtx, executionID, g.ID(), startTime, true, nil)
			return true, nil
		}
		err := fmt.Errorf("%w: graph %q", ErrExecutionFailed, g.ID())
		logger.WithError(err).Error("graph execution failed")
		e.notifyGraphEnd(runCtx, executionID, g.ID(), startTime, false, err)
		return false, err
	case <-runCtx.Done():
		err := fmt.Errorf("%w: exceeded %v", ErrExecutionTimeout, e.config.MaxExecutionTime)
		logger.WithField("timeout", e.config.MaxExecutionTime.String()).Error("graph execution timed out")
		e.notifyGraphEnd(runCtx, executionID, g.ID(), startTime, false, err)
		return false, err
	}
}

// executeGraph implements the per-graph run loop. It is called
// directly (no new timeout or goroutine layer) for nested subgraphs,
// sharing the parent's deadline and execution id.
func (e *Engine) executeGraph(ctx context.Context, g *ecgraph.Graph, executionConfig map[string]any, measureTime bool, executionID string, logger *logging.Logger) bool {
	// Step 1: save the execution config on the graph.
	g.SetExecutionConfig(executionConfig)

	// Step 2: compute execution order from the dependency graph.
	dependencyGraph := g.DependencyGraph()
	order, err := graph.TopologicalSort(dependencyGraph)
	if err != nil {
		logger.WithError(fmt.Errorf("%w: %v", ErrTopologicalSort, err)).Error("topological sort failed")
		g.InvokeError()
		return false
	}
	g.StoreLastExecutedDependencyGraph(dependencyGraph)

	// Step 3: node ids whose outputs are supplied externally rather
	// than by a member node.
	externalNames := g.ExternalInputNames()
	externalProducers := make(map[string]bool, len(externalNames))
	for name := range externalNames {
		externalProducers[names.NodeIDOf(name)] = true
	}

	// Step 4: seed the per-run value cache from execution_config and
	// mark those producers already executed.
	executedNodes := make(map[string]bool)
	if seeds := externalSeedValues(executionConfig); len(seeds) > 0 {
		filtered := make(map[string]any, len(seeds))
		for name, value := range seeds {
			if !externalNames[name] {
				continue
			}
			filtered[name] = value
			executedNodes[names.NodeIDOf(name)] = true
		}
		g.SetExternalInputValues(filtered)
	}

	// Step 5: validate the graph is closed before running anything.
	if !g.IsValid() {
		err := fmt.Errorf("%w: graph %q", ErrInvalidGraph, g.ID())
		logger.WithError(err).Error("graph validation failed")
		g.InvokeError()
		return false
	}

	executedSubgraphs := make(map[string]bool)

	// Step 6: walk the execution order.
	for _, id := range order {
		if externalProducers[id] {
			continue
		}

		if names.HasSubgraphPrefix(id) {
			headID, _ := names.SplitSubgraph(id)
			if !executedSubgraphs[headID] {
				member, ok := g.Get(headID)
				if !ok {
					err := fmt.Errorf("%w: %q", ErrUnknownSubgraph, headID)
					logger.WithError(err).Error("subgraph lookup failed")
					g.InvokeError()
					return false
				}
				sub, ok := member.(*ecgraph.Graph)
				if !ok {
					err := fmt.Errorf("%w: %q", ErrUnknownSubgraph, headID)
					logger.WithError(err).Error("subgraph lookup failed")
					g.InvokeError()
					return false
				}
				if !e.executeGraph(ctx, sub, executionConfig, measureTime, executionID, logger) {
					logger.WithField("subgraph_id", headID).Error("subgraph execution failed")
					g.InvokeError()
					return false
				}
				executedSubgraphs[headID] = true
			}
			executedNodes[id] = true
			continue
		}

		member, ok := g.Get(id)
		if !ok {
			continue
		}
		n, ok := member.(node.Runnable)
		if !ok {
			continue
		}

		if !e.runNode(ctx, g, n, member, executedNodes, measureTime, executionID, logger) {
			g.InvokeError()
			return false
		}
		executedNodes[id] = true
	}

	g.InvokeSuccess()
	return true
}

// runNode gathers n's declared inputs (if any) and executes it,
// emitting observer events and telemetry around the call.
func (e *Engine) runNode(ctx context.Context, g *ecgraph.Graph, n node.Runnable, member any, executedNodes map[string]bool, measureTime bool, executionID string, logger *logging.Logger) bool {
	id := n.ID()
	kind := nodeKind(member)
	nodeLogger := logger.WithNodeID(id).WithNodeType(kind)
	nodeStart := time.Now()

	e.notifyNodeStart(ctx, executionID, g.ID(), id, kind, nodeStart)

	var inputs map[string]any
	if declared := n.DeclaredInputs(); len(declared) > 0 {
		gathered, err := gatherInputs(g, declared, executedNodes)
		if err != nil {
			nodeLogger.WithError(err).Error("failed to gather node inputs")
			e.notifyNodeFailure(ctx, executionID, g.ID(), id, kind, nodeStart, err)
			return false
		}
		inputs = gathered
	}

	ok := n.Execute(ctx, inputs, measureTime)
	elapsed := time.Since(nodeStart)
	if e.telemetry != nil {
		e.telemetry.RecordNodeExecution(ctx, id, kind, elapsed, ok)
	}

	if !ok {
		err := fmt.Errorf("%w: node %q", ErrNodeExecutionFailed, id)
		nodeLogger.WithError(err).Error("node execution failed")
		e.notifyNodeFailure(ctx, executionID, g.ID(), id, kind, nodeStart, err)
		return false
	}

	nodeLogger.WithField("duration_ms", elapsed.Milliseconds()).Debug("node execution succeeded")
	e.notifyNodeSuccess(ctx, executionID, g.ID(), id, kind, nodeStart, n.LastResult())
	return true
}

// gatherInputs resolves every declared input name to a value, drawing
// first from the graph's external-input seeds and otherwise from the
// producing node's (or nested subgraph's) last_result. A producer not
// yet marked executed, or one whose result lacks the requested label,
// is a fatal error: the graph aborts rather than substituting a
// partial input set.
func gatherInputs(g *ecgraph.Graph, declaredInputs []string, executedNodes map[string]bool) (map[string]any, error) {
	inputs := make(map[string]any, len(declaredInputs))
	externalValues := g.ExternalInputValues()

	for _, name := range declaredInputs {
		if v, ok := externalValues[name]; ok {
			inputs[name] = v
			continue
		}

		producerID := names.NodeIDOf(name)
		if !executedNodes[producerID] {
			return nil, fmt.Errorf("%w: %q", ErrUnresolvedProducer, producerID)
		}

		value, ok := resolveQualifiedValue(g, name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingProducedOutput, name)
		}
		inputs[name] = value
	}

	return inputs, nil
}

// resolveQualifiedValue looks up a qualified output name's value,
// recursing through subgraph boundaries (one level per dotted
// segment) until it reaches the owning node's last_result.
func resolveQualifiedValue(g *ecgraph.Graph, qualifiedName string) (any, bool) {
	label := names.OutputLabelOf(qualifiedName)
	nodeID := names.NodeIDOf(qualifiedName)

	if names.HasSubgraphPrefix(nodeID) {
		headID, rest := names.SplitSubgraph(nodeID)
		member, ok := g.Get(headID)
		if !ok {
			return nil, false
		}
		sub, ok := member.(*ecgraph.Graph)
		if !ok {
			return nil, false
		}
		return resolveQualifiedValue(sub, names.QualifyOutputName(rest, label))
	}

	member, ok := g.Get(nodeID)
	if !ok {
		return nil, false
	}
	n, ok := member.(node.Runnable)
	if !ok {
		return nil, false
	}
	result := n.LastResult()
	if result == nil {
		return nil, false
	}
	value, ok := result[label]
	return value, ok
}

// externalSeedValues extracts the externalInputNamesToValuesDict
// payload from an execution config, per the declarative execution
// config shape in the external interfaces section.
func externalSeedValues(executionConfig map[string]any) map[string]any {
	if executionConfig == nil {
		return nil
	}
	raw, ok := executionConfig["externalInputNamesToValuesDict"]
	if !ok {
		return nil
	}
	values, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	return values
}

// nodeKind names a member's node type for logging, observer events,
// and metric labels.
func nodeKind(member any) string {
	switch member.(type) {
	case *node.ExternalCallNode:
		return "externalApiCaller"
	case *node.DataProcessingNode:
		return "dataProcessing"
	case *node.Node:
		return "base"
	default:
		return "unknown"
	}
}

// ============================================================================
// Observer Notification Helpers
// ============================================================================

func (e *Engine) notifyGraphStart(ctx context.Context, executionID, graphID string, startTime time.Time) {
	if !e.observerMgr.HasObservers() {
		return
	}
	e.observerMgr.Notify(ctx, observer.Event{
		Type:        observer.EventGraphStart,
		Status:      observer.StatusStarted,
		Timestamp:   startTime,
		ExecutionID: executionID,
		GraphID:     graphID,
		StartTime:   startTime,
	})
}

func (e *Engine) notifyGraphEnd(ctx context.Context, executionID, graphID string, startTime time.Time, success bool, err error) {
	if !e.observerMgr.HasObservers() {
		return
	}
	status := observer.StatusSuccess
	if !success {
		status = observer.StatusFailure
	}
	e.observerMgr.Notify(ctx, observer.Event{
		Type:        observer.EventGraphEnd,
		Status:      status,
		Timestamp:   time.Now(),
		ExecutionID: executionID,
		GraphID:     graphID,
		StartTime:   startTime,
		ElapsedTime: time.Since(startTime),
		Error:       err,
	})
}

func (e *Engine) notifyNodeStart(ctx context.Context, executionID, graphID, nodeID, nodeType string, startTime time.Time) {
	if !e.observerMgr.HasObservers() {
		return
	}
	e.observerMgr.Notify(ctx, observer.Event{
		Type:        observer.EventNodeStart,
		Status:      observer.StatusStarted,
		Timestamp:   startTime,
		ExecutionID: executionID,
		GraphID:     graphID,
		NodeID:      nodeID,
		NodeType:    nodeType,
		StartTime:   startTime,
	})
}

func (e *Engine) notifyNodeSuccess(ctx context.Context, executionID, graphID, nodeID, nodeType string, startTime time.Time, result interface{}) {
	if !e.observerMgr.HasObservers() {
		return
	}
	e.observerMgr.Notify(ctx, observer.Event{
		Type:        observer.EventNodeSuccess,
		Status:      observer.StatusSuccess,
		Timestamp:   time.Now(),
		ExecutionID: executionID,
		GraphID:     graphID,
		NodeID:      nodeID,
		NodeType:    nodeType,
		StartTime:   startTime,
		ElapsedTime: time.Since(startTime),
		Result:      result,
	})
}

func (e *Engine) notifyNodeFailure(ctx context.Context, executionID, graphID, nodeID, nodeType string, startTime time.Time, err error) {
	if !e.observerMgr.HasObservers() {
		return
	}
	e.observerMgr.Notify(ctx, observer.Event{
		Type:        observer.EventNodeFailure,
		Status:      observer.StatusFailure,
		Timestamp:   time.Now(),
		ExecutionID: executionID,
		GraphID:     graphID,
		NodeID:      nodeID,
		NodeType:    nodeType,
		StartTime:   startTime,
		ElapsedTime: time.Since(startTime),
		Error:       err,
	})
}
