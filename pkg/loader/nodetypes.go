package loader

import (
	"context"
	"fmt"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/node"
)

// Recognized nodeType values from the declarative wire format.
const (
	NodeTypeBase                                   = "base"
	NodeTypeLocalInferenceRunner                   = "localInferenceRunner"
	NodeTypeRemoteInferenceRunner                  = "remoteInferenceRunner"
	NodeTypeExternalAPICaller                      = "externalApiCaller"
	NodeTypeTransformerJSProcessor                 = "transformerJSProcessor"
	NodeTypeLLMInputPreparer                       = "llmInputPreparer"
	NodeTypeLLMOutputLogitsToTokenIDGreedySearcher = "llmOutputLogitsToTokenIdGreedySearcher"
	NodeTypeDataProcessing                         = "dataProcessing"
)

// baseNodeConfig extracts the fields every node kind recognizes from a
// nodeInitializationConfig map.
func baseNodeConfig(cfg map[string]any) node.Config {
	return node.Config{
		ID:            stringVal(cfg, "nodeId"),
		InputNames:    stringSliceVal(cfg, "nodeInputNames"),
		InputDefaults: anyMapVal(cfg, "nodeInputNamesToDefaultValueMap"),
		OutputNames:   stringSliceVal(cfg, "nodeOutputNames"),
		LogErrors:     boolVal(cfg, "nodeLogErrors"),
	}
}

// resolveLocalLogic turns a node's nodeExpression/nodeSubroutine fields
// into a callable: nodeExpression takes precedence (the declarative,
// no-Go-code path backed by pkg/expression), falling back to a named
// subroutine looked up in the registry. Neither present is a
// construction error — a node with no logic has nothing to run.
func (l *Loader) resolveLocalLogic(cfg map[string]any) (node.Subroutine, error) {
	if expr := stringVal(cfg, "nodeExpression"); expr != "" {
		proc := node.NewExpressionProcessor(expr)
		return func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			result, err := proc.Process(ctx, inputs)
			if err != nil {
				return nil, err
			}
			if m, ok := result.(map[string]any); ok {
				return m, nil
			}
			return map[string]any{"result": result}, nil
		}, nil
	}
	if name := stringVal(cfg, "nodeSubroutine"); name != "" {
		return l.subroutines.resolveSubroutine(name)
	}
	return nil, nil
}

func (l *Loader) resolveLocalProcessFunc(cfg map[string]any) (node.ProcessFunc, error) {
	if expr := stringVal(cfg, "nodeExpression"); expr != "" {
		return node.NewExpressionProcessor(expr).AsProcessFunc(), nil
	}
	if name := stringVal(cfg, "nodeSubroutine"); name != "" {
		return l.subroutines.resolveProcessFunc(name)
	}
	return nil, nil
}

// buildBaseNode constructs a plain Node for any nodeType that has no
// specialized constructor of its own (base, and the inference-runner /
// transformer / LLM-helper placeholders the source runtime never gave
// a dedicated implementation either — see DESIGN.md).
func (l *Loader) buildBaseNode(cfg map[string]any) (node.Runnable, error) {
	subroutine, err := l.resolveLocalLogic(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNodeConstruction, err)
	}
	nodeCfg := baseNodeConfig(cfg)
	nodeCfg.Subroutine = subroutine
	n, err := node.New(nodeCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNodeConstruction, err)
	}
	return n, nil
}

// buildDataProcessingNode constructs a DataProcessingNode, a real
// specialization the source loader's own dispatch table never wired in
// despite the Python class existing — a deliberate supplement here.
func (l *Loader) buildDataProcessingNode(cfg map[string]any) (node.Runnable, error) {
	process, err := l.resolveLocalProcessFunc(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNodeConstruction, err)
	}
	if process == nil {
		return nil, fmt.Errorf("%w: dataProcessing node %q has neither nodeExpression nor nodeSubroutine",
			ErrNodeConstruction, stringVal(cfg, "nodeId"))
	}
	dpCfg := node.DataProcessingConfig{
		Config:                  baseNodeConfig(cfg),
		Process:                 process,
		InputValidationEnabled:  true,
		OutputFormattingEnabled: true,
		ErrorHandlingMode:       node.ErrorHandlingStrict,
	}
	n, err := node.NewDataProcessingNode(dpCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNodeConstruction, err)
	}
	return n, nil
}

// buildExternalCallNode constructs an ExternalCallNode — the other
// specialization the source loader never wired into its own dispatch
// table.
func (l *Loader) buildExternalCallNode(cfg map[string]any) (node.Runnable, error) {
	callCfg := node.ExternalCallConfig{
		DataProcessingConfig: node.DataProcessingConfig{
			Config:                  baseNodeConfig(cfg),
			InputValidationEnabled:  true,
			OutputFormattingEnabled: true,
			ErrorHandlingMode:       node.ErrorHandlingStrict,
		},
		EndpointURL:             stringVal(cfg, "endpointUrl"),
		APIKey:                  stringVal(cfg, "apiKey"),
		IsWebSocket:             boolVal(cfg, "isEndpointWebSocketUrl"),
		InputNameToBackendName:  stringMapVal(cfg, "nodeInputNameToBackendInputNameMap"),
		BackendNameToOutputName: stringMapVal(cfg, "backendOutputNameToNodeOutputNameMap"),
		PrivateAttributes:       anyMapVal(cfg, "nodePrivateAttributesAndValues"),
		RequestTimeout:          durationMSVal(cfg, "requestTimeout"),
		MaxRetries:              intVal(cfg, "maxRetries"),
		InitialRetryDelay:       durationMSVal(cfg, "retryDelay"),
		Headers:                 stringMapVal(cfg, "headers"),
		Client:                  l.httpClient,
	}
	n, err := node.NewExternalCallNode(callCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNodeConstruction, err)
	}
	return n, nil
}

// nodeConstructor builds a node.Runnable from a nodeInitializationConfig map.
type nodeConstructor func(l *Loader, cfg map[string]any) (node.Runnable, error)

var nodeConstructors = map[string]nodeConstructor{
	NodeTypeBase:                                   (*Loader).buildBaseNode,
	NodeTypeLocalInferenceRunner:                   (*Loader).buildBaseNode,
	NodeTypeRemoteInferenceRunner:                  (*Loader).buildBaseNode,
	NodeTypeTransformerJSProcessor:                 (*Loader).buildBaseNode,
	NodeTypeLLMInputPreparer:                       (*Loader).buildBaseNode,
	NodeTypeLLMOutputLogitsToTokenIDGreedySearcher: (*Loader).buildBaseNode,
	NodeTypeDataProcessing:                         (*Loader).buildDataProcessingNode,
	NodeTypeExternalAPICaller:                      (*Loader).buildExternalCallNode,
}
