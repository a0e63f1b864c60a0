package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/observer"
)

// TelemetryObserver implements observer.Observer and records telemetry data
// for graph execution events.
type TelemetryObserver struct {
	provider *Provider

	// Track active spans for graphs and nodes
	graphSpan trace.Span
	nodeSpans map[string]trace.Span

	// Track execution times
	graphStartTime time.Time
	nodeStartTimes map[string]time.Time

	// mu guards the span and start-time state above; the observer
	// Manager calls OnEvent from separate goroutines.
	mu sync.Mutex
}

// NewTelemetryObserver creates a new telemetry observer
func NewTelemetryObserver(provider *Provider) *TelemetryObserver {
	return &TelemetryObserver{
		provider:       provider,
		nodeSpans:      make(map[string]trace.Span),
		nodeStartTimes: make(map[string]time.Time),
	}
}

// OnEvent handles execution events and records telemetry data
func (o *TelemetryObserver) OnEvent(ctx context.Context, event observer.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch event.Type {
	case observer.EventGraphStart:
		o.handleGraphStart(ctx, event)
	case observer.EventGraphEnd:
		o.handleGraphEnd(ctx, event)
	case observer.EventNodeStart:
		o.handleNodeStart(ctx, event)
	case observer.EventNodeSuccess:
		o.handleNodeSuccess(ctx, event)
	case observer.EventNodeFailure:
		o.handleNodeFailure(ctx, event)
	}
}

func (o *TelemetryObserver) handleGraphStart(ctx context.Context, event observer.Event) {
	// Start graph span
	// Note: spanCtx can be used for context propagation if needed in the future
	_, span := o.provider.Tracer().Start(ctx, "graph.execute",
		trace.WithAttributes(
			attribute.String("graph.id", event.GraphID),
			attribute.String("execution.id", event.ExecutionID),
		),
	)
	
	o.graphSpan = span
	o.graphStartTime = event.Timestamp
}

func (o *TelemetryObserver) handleGraphEnd(ctx context.Context, event observer.Event) {
	// Calculate duration
	duration := time.Since(o.graphStartTime)
	
	// Get nodes executed count from metadata
	nodesExecuted := 0
	if val, ok := event.Metadata["nodes_executed"]; ok {
		if count, ok := val.(int); ok {
			nodesExecuted = count
		}
	}
	
	// Record metrics
	success := event.Status == observer.StatusSuccess
	o.provider.RecordGraphExecution(ctx, event.GraphID, duration, success, nodesExecuted)
	
	// End graph span
	if o.graphSpan != nil {
		if event.Error != nil {
			o.graphSpan.RecordError(event.Error)
			o.graphSpan.SetStatus(codes.Error, event.Error.Error())
		} else {
			o.graphSpan.SetStatus(codes.Ok, "graph completed successfully")
		}
		o.graphSpan.End()
	}
}

func (o *TelemetryObserver) handleNodeStart(ctx context.Context, event observer.Event) {
	// Start node span as child of graph span
	var spanCtx context.Context
	if o.graphSpan != nil {
		spanCtx = trace.ContextWithSpan(ctx, o.graphSpan)
	} else {
		spanCtx = ctx
	}
	
	_, span := o.provider.Tracer().Start(spanCtx, "node.execute",
		trace.WithAttributes(
			attribute.String("node.id", event.NodeID),
			attribute.String("node.type", event.NodeType),
			attribute.String("execution.id", event.ExecutionID),
		),
	)
	
	o.nodeSpans[event.NodeID] = span
	o.nodeStartTimes[event.NodeID] = event.Timestamp
}

func (o *TelemetryObserver) handleNodeSuccess(ctx context.Context, event observer.Event) {
	o.handleNodeEnd(ctx, event, true)
}

func (o *TelemetryObserver) handleNodeFailure(ctx context.Context, event observer.Event) {
	o.handleNodeEnd(ctx, event, false)
}

func (o *TelemetryObserver) handleNodeEnd(ctx context.Context, event observer.Event, success bool) {
	// Calculate duration
	var duration time.Duration
	if startTime, ok := o.nodeStartTimes[event.NodeID]; ok {
		duration = time.Since(startTime)
		delete(o.nodeStartTimes, event.NodeID)
	}
	
	// Record metrics
	o.provider.RecordNodeExecution(ctx, event.NodeID, event.NodeType, duration, success)
	
	// End node span
	if span, ok := o.nodeSpans[event.NodeID]; ok {
		if event.Error != nil {
			span.RecordError(event.Error)
			span.SetStatus(codes.Error, event.Error.Error())
		} else {
			span.SetStatus(codes.Ok, "node completed successfully")
		}
		span.End()
		delete(o.nodeSpans, event.NodeID)
	}
}
