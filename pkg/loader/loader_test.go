package loader

import (
	"context"
	"strings"
	"testing"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/ecgraph"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/node"
)

func TestLoadFromJSONSimpleGraph(t *testing.T) {
	doc := `{
		"graphType": "base",
		"graphInitializationConfig": {
			"graphId": "g1",
			"externalInputNames": ["external.input"]
		},
		"children": [
			{
				"nodeType": "dataProcessing",
				"nodeInitializationConfig": {
					"nodeId": "n1",
					"nodeInputNames": ["external.input"],
					"nodeExpression": "upper(input)"
				}
			}
		]
	}`

	g, err := New().LoadFromJSON([]byte(doc))
	if err != nil {
		t.Fatalf("LoadFromJSON() error = %v", err)
	}
	if g.ID() != "g1" {
		t.Errorf("ID() = %q, want g1", g.ID())
	}
	if _, ok := g.Get("n1"); !ok {
		t.Fatal("expected node n1 to be loaded into the graph")
	}
}

func TestLoadFromJSONRejectsMissingGraphType(t *testing.T) {
	doc := `{"graphInitializationConfig": {}}`
	if _, err := New().LoadFromJSON([]byte(doc)); err == nil {
		t.Fatal("expected an error for a document missing graphType")
	}
}

func TestLoadFromJSONRejectsMalformedDocument(t *testing.T) {
	doc := `{"graphType": "not-an-object-children", "graphInitializationConfig": {}, "children": "oops"}`
	if _, err := New().LoadFromJSON([]byte(doc)); err == nil {
		t.Fatal("expected a schema error for children that is not an array")
	}
}

func TestLoadFromJSONSkipsUnknownNodeTypeWithWarning(t *testing.T) {
	doc := `{
		"graphType": "base",
		"graphInitializationConfig": {"graphId": "g1"},
		"children": [
			{"nodeType": "base", "nodeInitializationConfig": {"nodeId": "good", "nodeSubroutine": "noop"}},
			{"nodeType": "somethingUnrecognized", "nodeInitializationConfig": {"nodeId": "bad"}}
		]
	}`

	registry := NewSubroutineRegistry()
	registry.Register("noop", func(ctx context.Context, in map[string]any) (map[string]any, error) {
		return map[string]any{"defaultOutput": "ok"}, nil
	})

	g, err := New(WithSubroutineRegistry(registry)).LoadFromJSON([]byte(doc))
	if err != nil {
		t.Fatalf("LoadFromJSON() error = %v", err)
	}
	if len(g.IDs()) != 1 {
		t.Fatalf("IDs() = %v, want exactly the one well-formed node", g.IDs())
	}
	if _, ok := g.Get("good"); !ok {
		t.Error("expected the well-formed node to still load")
	}
}

func TestLoadFromJSONRecursesIntoSubgraphs(t *testing.T) {
	doc := `{
		"graphType": "base",
		"graphInitializationConfig": {"graphId": "parent"},
		"children": [
			{
				"graphType": "base",
				"graphInitializationConfig": {"graphId": "child", "externalInputNames": ["external.x"]},
				"children": [
					{"nodeType": "base", "nodeInitializationConfig": {"nodeId": "inner", "nodeExpression": "1 + 1"}}
				]
			}
		]
	}`

	g, err := New().LoadFromJSON([]byte(doc))
	if err != nil {
		t.Fatalf("LoadFromJSON() error = %v", err)
	}
	member, ok := g.Get("child")
	if !ok {
		t.Fatal("expected subgraph child to be loaded")
	}
	sub, ok := member.(*ecgraph.Graph)
	if !ok || sub.ID() != "child" {
		t.Fatalf("Get(\"child\") = %v, want a subgraph with ID child", member)
	}
}

func TestLoadFromJSONWiresExternalCallNode(t *testing.T) {
	doc := `{
		"graphType": "base",
		"graphInitializationConfig": {"graphId": "g1"},
		"children": [
			{
				"nodeType": "externalApiCaller",
				"nodeInitializationConfig": {
					"nodeId": "caller",
					"endpointUrl": "https://example.invalid/api",
					"maxRetries": 2,
					"retryDelay": 10
				}
			}
		]
	}`

	g, err := New().LoadFromJSON([]byte(doc))
	if err != nil {
		t.Fatalf("LoadFromJSON() error = %v", err)
	}
	member, ok := g.Get("caller")
	if !ok {
		t.Fatal("expected externalApiCaller node to be loaded")
	}
	if _, ok := member.(*node.ExternalCallNode); !ok {
		t.Errorf("Get(\"caller\") = %T, want *node.ExternalCallNode", member)
	}
}

func TestLoadFromJSONDataProcessingWithoutLogicFails(t *testing.T) {
	doc := `{
		"graphType": "base",
		"graphInitializationConfig": {"graphId": "g1"},
		"children": [
			{"nodeType": "dataProcessing", "nodeInitializationConfig": {"nodeId": "n1"}}
		]
	}`

	g, err := New().LoadFromJSON([]byte(doc))
	if err != nil {
		t.Fatalf("LoadFromJSON() error = %v", err)
	}
	if len(g.IDs()) != 0 {
		t.Fatalf("IDs() = %v, want the logic-less dataProcessing node to be skipped", g.IDs())
	}
}

func TestLoadFromJSONBaseNodeMissingSubroutineFails(t *testing.T) {
	doc := `{
		"graphType": "base",
		"graphInitializationConfig": {"graphId": "g1"},
		"children": [
			{"nodeType": "base", "nodeInitializationConfig": {"nodeId": "n1"}}
		]
	}`

	g, err := New().LoadFromJSON([]byte(doc))
	if err != nil {
		t.Fatalf("LoadFromJSON() error = %v", err)
	}
	if len(g.IDs()) != 0 {
		t.Fatalf("IDs() = %v, want the subroutine-less base node to be skipped", g.IDs())
	}
}

func TestLoadFromJSONUnregisteredSubroutineFails(t *testing.T) {
	doc := `{
		"graphType": "base",
		"graphInitializationConfig": {"graphId": "g1"},
		"children": [
			{"nodeType": "base", "nodeInitializationConfig": {"nodeId": "n1", "nodeSubroutine": "doesNotExist"}}
		]
	}`

	g, err := New().LoadFromJSON([]byte(doc))
	if err != nil {
		t.Fatalf("LoadFromJSON() error = %v", err)
	}
	if len(g.IDs()) != 0 {
		t.Fatal("expected the node naming an unregistered subroutine to be skipped")
	}
}

func TestLoadFromJSONUnknownGraphTypeFails(t *testing.T) {
	doc := `{"graphType": "notARealType", "graphInitializationConfig": {}}`
	if _, err := New().LoadFromJSON([]byte(doc)); err == nil {
		t.Fatal("expected an error for an unrecognized graphType")
	} else if !strings.Contains(err.Error(), "schema") {
		// unknown graphType is caught by the JSON Schema enum before
		// loadGraph's own dispatch ever runs; assert it fails early.
		t.Errorf("error = %v, want a schema validation error", err)
	}
}
