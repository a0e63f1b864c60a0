package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/ecgraph"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/httpclient"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/logging"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/node"
	"github.com/google/uuid"
)

// Loader turns declarative graph descriptions into live *ecgraph.Graph
// values. Its zero value is not usable; construct one with New.
type Loader struct {
	subroutines *SubroutineRegistry
	httpClient  *httpclient.Client
	logger      *logging.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithSubroutineRegistry supplies the registry nodeSubroutine names are
// resolved against. Without one, any node naming a nodeSubroutine fails
// to construct.
func WithSubroutineRegistry(r *SubroutineRegistry) Option {
	return func(l *Loader) { l.subroutines = r }
}

// WithHTTPClient supplies the pooled client (built by httpclient.Builder)
// that external-call nodes built by this loader will share.
func WithHTTPClient(c *httpclient.Client) Option {
	return func(l *Loader) { l.httpClient = c }
}

// WithLogger overrides the loader's logger. Without one, a default
// logger is used.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// New constructs a Loader ready to load documents.
func New(opts ...Option) *Loader {
	l := &Loader{
		subroutines: NewSubroutineRegistry(),
		logger:      logging.New(logging.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) warnf(format string, args ...any) {
	l.logger.Warnf(format, args...)
}

// LoadFromJSON validates raw against the graph schema, then builds the
// graph (and any nested subgraphs/nodes) it describes.
func (l *Loader) LoadFromJSON(raw []byte) (*ecgraph.Graph, error) {
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("loader: decoding document: %w", err)
	}

	return l.loadGraph(doc)
}

// LoadFromFile reads path and loads it as a graph description.
func (l *Loader) LoadFromFile(path string) (*ecgraph.Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", path, err)
	}
	return l.LoadFromJSON(raw)
}

// loadGraph builds one graph level from doc and recursively loads its
// children, skipping any malformed child with a logged warning rather
// than aborting the whole load.
func (l *Loader) loadGraph(doc map[string]any) (*ecgraph.Graph, error) {
	graphType := stringVal(doc, "graphType")
	if graphType == "" {
		return nil, fmt.Errorf("%w: graphType", ErrMissingField)
	}

	initCfg := anyMapVal(doc, "graphInitializationConfig")
	if initCfg == nil {
		return nil, fmt.Errorf("%w: graphInitializationConfig", ErrMissingField)
	}

	gType := ecgraph.GraphType(graphType)
	switch gType {
	case ecgraph.GraphTypeBase, ecgraph.GraphTypeSplitInferenceRunner, ecgraph.GraphTypeAutoregressiveInference:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGraphType, graphType)
	}

	id := stringVal(initCfg, "graphId")
	if id == "" {
		id = uuid.NewString()
	}

	g := ecgraph.New(ecgraph.Config{
		ID:                 id,
		Type:               gType,
		ExternalInputNames: stringSliceVal(initCfg, "externalInputNames"),
	})

	children, _ := doc["children"].([]any)
	for i, raw := range children {
		childMap, ok := raw.(map[string]any)
		if !ok {
			l.warnf("loader: skipping child %d of graph %q: not an object", i, id)
			continue
		}
		l.loadChild(g, id, i, childMap)
	}

	return g, nil
}

// loadChild dispatches a single child document to node or subgraph
// loading and adds the result to g, warning and skipping on any failure.
func (l *Loader) loadChild(g *ecgraph.Graph, graphID string, index int, childMap map[string]any) {
	if _, hasNodeType := childMap["nodeType"]; hasNodeType {
		n, err := l.loadNode(childMap)
		if err != nil {
			l.warnf("loader: skipping malformed node child %d of graph %q: %v", index, graphID, err)
			return
		}
		if _, err := g.AddMember(n); err != nil {
			l.warnf("loader: skipping node child %d of graph %q: %v", index, graphID, err)
		}
		return
	}

	if _, hasGraphType := childMap["graphType"]; hasGraphType {
		sub, err := l.loadGraph(childMap)
		if err != nil {
			l.warnf("loader: skipping malformed subgraph child %d of graph %q: %v", index, graphID, err)
			return
		}
		if _, err := g.AddMember(sub); err != nil {
			l.warnf("loader: skipping subgraph child %d of graph %q: %v", index, graphID, err)
		}
		return
	}

	l.warnf("loader: skipping child %d of graph %q: neither nodeType nor graphType present", index, graphID)
}

// loadNode dispatches a node description to its type's constructor.
func (l *Loader) loadNode(doc map[string]any) (node.Runnable, error) {
	nodeType := stringVal(doc, "nodeType")
	if nodeType == "" {
		return nil, fmt.Errorf("%w: nodeType", ErrMissingField)
	}
	initCfg := anyMapVal(doc, "nodeInitializationConfig")
	if initCfg == nil {
		return nil, fmt.Errorf("%w: nodeInitializationConfig", ErrMissingField)
	}

	constructor, ok := nodeConstructors[nodeType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, nodeType)
	}
	return constructor(l, initCfg)
}
