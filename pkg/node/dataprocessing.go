package node

import (
	"context"
	"fmt"
	"time"
)

// ErrorHandlingMode controls how a DataProcessingNode reacts to input
// that fails validation.
type ErrorHandlingMode string

const (
	// ErrorHandlingStrict fails the node's execution on invalid input.
	ErrorHandlingStrict ErrorHandlingMode = "strict"
	// ErrorHandlingLenient allows execution to proceed despite invalid input.
	ErrorHandlingLenient ErrorHandlingMode = "lenient"
)

// ProcessFunc is the data-processing extension point: it receives the
// (possibly pre-processed) input map and returns the processed result,
// which may be any value — format_output normalizes it into a mapping.
type ProcessFunc func(ctx context.Context, inputs map[string]any) (any, error)

// DataProcessingConfig configures a DataProcessingNode on top of the
// shared node Config.
type DataProcessingConfig struct {
	Config

	Process                 ProcessFunc // required: the process_data extension point
	PreProcessHook          func(inputs map[string]any) map[string]any
	PostProcessHook         func(processed any, inputs map[string]any) any
	InputValidationEnabled  bool
	OutputFormattingEnabled bool
	ErrorHandlingMode       ErrorHandlingMode
}

// DataProcessingNode extends Node with a validate -> pre-process ->
// process -> post-process -> format pipeline.
type DataProcessingNode struct {
	*Node

	process                 ProcessFunc
	preProcessHook          func(inputs map[string]any) map[string]any
	postProcessHook         func(processed any, inputs map[string]any) any
	inputValidationEnabled  bool
	outputFormattingEnabled bool
	errorHandlingMode       ErrorHandlingMode

	processedCount   int
	processingErrors []string
	lastMetadata     map[string]any
}

// NewDataProcessingNode constructs a data-processing node. Process is
// required; a node with no processing logic is a construction error in
// the same sense a base Node with no subroutine is.
func NewDataProcessingNode(cfg DataProcessingConfig) (*DataProcessingNode, error) {
	if cfg.Process == nil {
		return nil, fmt.Errorf("%w: data processing node %q has no process function", ErrMissingSubroutine, cfg.ID)
	}

	// The base Node requires a Subroutine; DataProcessingNode's Execute
	// is overridden below and never calls it, so a trivial passthrough
	// satisfies the base constructor's invariant.
	baseCfg := cfg.Config
	baseCfg.Subroutine = func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
		return inputs, nil
	}
	base, err := New(baseCfg)
	if err != nil {
		return nil, err
	}

	mode := cfg.ErrorHandlingMode
	if mode == "" {
		mode = ErrorHandlingStrict
	}

	return &DataProcessingNode{
		Node:                    base,
		process:                 cfg.Process,
		preProcessHook:          cfg.PreProcessHook,
		postProcessHook:         cfg.PostProcessHook,
		inputValidationEnabled:  cfg.InputValidationEnabled,
		outputFormattingEnabled: cfg.OutputFormattingEnabled,
		errorHandlingMode:       mode,
	}, nil
}

// ValidateInputData reports whether inputs satisfies this node's shape
// expectations. When validation is disabled it always passes.
func (n *DataProcessingNode) ValidateInputData(inputs map[string]any) bool {
	if !n.inputValidationEnabled {
		return true
	}
	if inputs == nil {
		return n.errorHandlingMode == ErrorHandlingLenient
	}
	return true
}

// FormatOutputData normalizes processed into a result mapping, attaching
// processing-statistics metadata unless output formatting is disabled.
func (n *DataProcessingNode) FormatOutputData(processed any) map[string]any {
	if !n.outputFormattingEnabled {
		if m, ok := processed.(map[string]any); ok {
			return m
		}
		return map[string]any{"result": processed}
	}

	output := map[string]any{}
	switch v := processed.(type) {
	case map[string]any:
		for k, val := range v {
			output[k] = val
		}
	case []any:
		output["items"] = v
		output["count"] = len(v)
	default:
		output["result"] = processed
	}

	if n.lastMetadata != nil {
		output["metadata"] = n.lastMetadata
	}
	output["processing_stats"] = map[string]any{
		"processed_count": n.processedCount,
		"node_id":         n.ID(),
		"processing_timestamp_ms": time.Now().UnixMilli(),
	}
	return output
}

// SetProcessingMetadata attaches metadata that FormatOutputData will
// merge into the next formatted output.
func (n *DataProcessingNode) SetProcessingMetadata(metadata map[string]any) {
	n.lastMetadata = metadata
}

// ProcessingErrors returns the processing-specific error messages
// accumulated across executions (distinct from the base node's
// execution-error log).
func (n *DataProcessingNode) ProcessingErrors() []string { return n.processingErrors }

// Execute runs the validate -> pre-process -> process -> post-process ->
// format pipeline, overriding the base Node's direct subroutine call.
func (n *DataProcessingNode) Execute(ctx context.Context, inputs map[string]any, measureTime bool) bool {
	var start time.Time
	if measureTime {
		start = time.Now()
	}

	if !n.ValidateInputData(inputs) {
		n.logError("input validation failed")
		n.executionSuccesses = append(n.executionSuccesses, false)
		if measureTime {
			n.executionDurationsMS = append(n.executionDurationsMS, elapsedMS(start))
		}
		return false
	}

	processingInput := inputs
	if processingInput == nil {
		processingInput = map[string]any{}
	}
	if n.preProcessHook != nil {
		processingInput = n.preProcessHook(processingInput)
	}

	processed, err := n.process(ctx, processingInput)
	if err != nil {
		msg := fmt.Sprintf("error executing data processing node %s: %v", n.ID(), err)
		n.logError(msg)
		n.processingErrors = append(n.processingErrors, msg)
		n.executionSuccesses = append(n.executionSuccesses, false)
		if measureTime {
			n.executionDurationsMS = append(n.executionDurationsMS, elapsedMS(start))
		}
		return false
	}

	if n.postProcessHook != nil {
		processed = n.postProcessHook(processed, processingInput)
	}

	n.processedCount++
	formatted := n.FormatOutputData(processed)
	n.lastResult = formatted
	n.executionSuccesses = append(n.executionSuccesses, true)
	if measureTime {
		n.executionDurationsMS = append(n.executionDurationsMS, elapsedMS(start))
	}
	if n.onComplete != nil {
		n.onComplete(n.Node)
	}
	return true
}
