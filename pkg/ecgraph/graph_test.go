package ecgraph

import (
	"context"
	"testing"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/node"
)

func mustNode(t *testing.T, id string, inputs []string, fn node.Subroutine) *node.Node {
	t.Helper()
	n, err := node.New(node.Config{ID: id, InputNames: inputs, Subroutine: fn})
	if err != nil {
		t.Fatalf("node.New(%q) error = %v", id, err)
	}
	return n
}

func TestAddMemberReturnsNodeIDForNodes(t *testing.T) {
	g := New(Config{ID: "g1"})
	n := mustNode(t, "n1", nil, func(ctx context.Context, in map[string]any) (map[string]any, error) {
		return map[string]any{"defaultOutput": 1}, nil
	})
	id, err := g.AddMember(n)
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if id != "n1" {
		t.Errorf("AddMember() = %q, want n1", id)
	}
}

func TestAddMemberReturnsEmptyForSubgraphs(t *testing.T) {
	g := New(Config{ID: "parent"})
	sub := New(Config{ID: "child"})
	id, err := g.AddMember(sub)
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if id != "" {
		t.Errorf("AddMember(subgraph) = %q, want empty string", id)
	}
	got, ok := g.Get("child")
	if !ok {
		t.Fatal("expected child subgraph to be retrievable")
	}
	if got.(*Graph).ID() != "child" {
		t.Errorf("Get(\"child\").ID() = %q, want child", got.(*Graph).ID())
	}
}

func TestAddMemberRejectsUnsupportedType(t *testing.T) {
	g := New(Config{ID: "g1"})
	_, err := g.AddMember(42)
	if err == nil {
		t.Fatal("expected an error adding an unsupported member type")
	}
}

func TestDependencyGraphBuildsProducerConsumerEdges(t *testing.T) {
	g := New(Config{ID: "g1"})
	producer := mustNode(t, "a", nil, func(ctx context.Context, in map[string]any) (map[string]any, error) {
		return map[string]any{"defaultOutput": 1}, nil
	})
	consumer := mustNode(t, "b", []string{"a.defaultOutput"}, func(ctx context.Context, in map[string]any) (map[string]any, error) {
		return map[string]any{"defaultOutput": in["a.defaultOutput"]}, nil
	})
	g.AddMember(producer)
	g.AddMember(consumer)

	dep := g.DependencyGraph()
	if got := dep["a"]; len(got) != 1 || got[0] != "b" {
		t.Errorf("DependencyGraph()[\"a\"] = %v, want [b]", got)
	}
	if _, ok := dep["b"]; !ok {
		t.Error("expected sink node b to appear as a key with no consumers")
	}
}

func TestIsValidDetectsMissingDependency(t *testing.T) {
	g := New(Config{ID: "g1"})
	consumer := mustNode(t, "b", []string{"missing.defaultOutput"}, func(ctx context.Context, in map[string]any) (map[string]any, error) {
		return nil, nil
	})
	g.AddMember(consumer)
	if g.IsValid() {
		t.Fatal("expected IsValid() = false for an unresolvable dependency")
	}
}

func TestIsValidSucceedsWhenDependencySatisfied(t *testing.T) {
	g := New(Config{ID: "g1"})
	producer := mustNode(t, "a", nil, func(ctx context.Context, in map[string]any) (map[string]any, error) {
		return map[string]any{"defaultOutput": 1}, nil
	})
	consumer := mustNode(t, "b", []string{"a.defaultOutput"}, func(ctx context.Context, in map[string]any) (map[string]any, error) {
		return nil, nil
	})
	g.AddMember(producer)
	g.AddMember(consumer)
	if !g.IsValid() {
		t.Fatal("expected IsValid() = true")
	}
}

func TestIsValidAcceptsExternalInput(t *testing.T) {
	g := New(Config{ID: "g1", ExternalInputNames: []string{"ext.value"}})
	consumer := mustNode(t, "b", []string{"ext.value"}, func(ctx context.Context, in map[string]any) (map[string]any, error) {
		return nil, nil
	})
	g.AddMember(consumer)
	if !g.IsValid() {
		t.Fatal("expected IsValid() = true when the dependency is an external input")
	}
}

func TestContainsOutputNamesChecksEveryName(t *testing.T) {
	g := New(Config{ID: "g1"})
	a := mustNode(t, "a", nil, func(ctx context.Context, in map[string]any) (map[string]any, error) { return nil, nil })
	g.AddMember(a)

	if g.ContainsOutputNames([]string{"a.defaultOutput", "missing.defaultOutput"}) {
		t.Fatal("expected false: the second name does not exist, even though the first does")
	}
	if !g.ContainsOutputNames([]string{"a.defaultOutput"}) {
		t.Fatal("expected true for a name the graph actually produces")
	}
}

func TestLastExecutionResultMergesLeafOutputsWithGraphPrefix(t *testing.T) {
	g := New(Config{ID: "g1"})
	a := mustNode(t, "a", nil, func(ctx context.Context, in map[string]any) (map[string]any, error) {
		return map[string]any{"defaultOutput": "hi"}, nil
	})
	g.AddMember(a)
	a.Execute(context.Background(), nil, false)
	g.StoreLastExecutedDependencyGraph(g.DependencyGraph())

	result, err := g.LastExecutionResult(false)
	if err != nil {
		t.Fatalf("LastExecutionResult() error = %v", err)
	}
	if result["g1.defaultOutput"] != "hi" {
		t.Errorf("LastExecutionResult() = %v, want g1.defaultOutput=hi", result)
	}
}

func TestLastExecutionResultNilBeforeExecution(t *testing.T) {
	g := New(Config{ID: "g1"})
	result, err := g.LastExecutionResult(false)
	if err != nil {
		t.Fatalf("LastExecutionResult() error = %v", err)
	}
	if result != nil {
		t.Errorf("LastExecutionResult() = %v, want nil before any execution", result)
	}
}

func TestDisposeClearsMembers(t *testing.T) {
	g := New(Config{ID: "g1"})
	a := mustNode(t, "a", nil, func(ctx context.Context, in map[string]any) (map[string]any, error) { return nil, nil })
	g.AddMember(a)
	if err := g.Dispose(); err != nil {
		t.Fatalf("Dispose() error = %v", err)
	}
	if len(g.IDs()) != 0 {
		t.Errorf("IDs() = %v, want empty after Dispose", g.IDs())
	}
}
