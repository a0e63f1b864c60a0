package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/config"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/ecgraph"
	"github.com/Skymel-Inc/SkymelADKPy/pkg/node"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.MaxExecutionTime = 2 * time.Second
	return cfg
}

func mustAddMember(t *testing.T, g *ecgraph.Graph, member any) {
	t.Helper()
	if _, err := g.AddMember(member); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
}

func TestEngine_SimpleExecutionAndInputPropagation(t *testing.T) {
	producer, err := node.New(node.Config{
		ID: "producer",
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return map[string]any{"defaultOutput": "hello"}, nil
		},
	})
	if err != nil {
		t.Fatalf("node.New(producer) error = %v", err)
	}

	consumer, err := node.New(node.Config{
		ID:         "consumer",
		InputNames: []string{"producer.defaultOutput"},
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			v, _ := inputs["producer.defaultOutput"].(string)
			return map[string]any{"defaultOutput": strings.ToUpper(v)}, nil
		},
	})
	if err != nil {
		t.Fatalf("node.New(consumer) error = %v", err)
	}

	g := ecgraph.New(ecgraph.Config{ID: "g"})
	mustAddMember(t, g, producer)
	mustAddMember(t, g, consumer)

	eng := New(testConfig())
	ok, err := eng.Execute(context.Background(), g, nil, true)
	if err != nil || !ok {
		t.Fatalf("Execute() = (%v, %v), want (true, nil)", ok, err)
	}

	result := consumer.LastResult()
	if result["defaultOutput"] != "HELLO" {
		t.Fatalf("consumer output = %v, want HELLO", result["defaultOutput"])
	}
}

func TestEngine_ExternalInputSeeding(t *testing.T) {
	greeter, err := node.New(node.Config{
		ID:         "greeter",
		InputNames: []string{"external.name"},
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			name, _ := inputs["external.name"].(string)
			return map[string]any{"defaultOutput": "hi " + name}, nil
		},
	})
	if err != nil {
		t.Fatalf("node.New() error = %v", err)
	}

	g := ecgraph.New(ecgraph.Config{
		ID:                 "g",
		ExternalInputNames: []string{"external.name"},
	})
	mustAddMember(t, g, greeter)

	eng := New(testConfig())
	executionConfig := map[string]any{
		"externalInputNamesToValuesDict": map[string]any{
			"external.name": "ada",
		},
	}
	ok, err := eng.Execute(context.Background(), g, executionConfig, false)
	if err != nil || !ok {
		t.Fatalf("Execute() = (%v, %v), want (true, nil)", ok, err)
	}
	if got := greeter.LastResult()["defaultOutput"]; got != "hi ada" {
		t.Fatalf("greeter output = %v, want %q", got, "hi ada")
	}
}

func TestEngine_InvalidGraphMissingDependencyFails(t *testing.T) {
	consumer, err := node.New(node.Config{
		ID:         "consumer",
		InputNames: []string{"missing.defaultOutput"},
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return map[string]any{}, nil
		},
	})
	if err != nil {
		t.Fatalf("node.New() error = %v", err)
	}

	g := ecgraph.New(ecgraph.Config{ID: "g"})
	mustAddMember(t, g, consumer)

	eng := New(testConfig())
	ok, err := eng.Execute(context.Background(), g, nil, false)
	if ok || err == nil {
		t.Fatalf("Execute() = (%v, %v), want (false, non-nil)", ok, err)
	}
	if !errors.Is(err, ErrExecutionFailed) {
		t.Fatalf("Execute() error = %v, want wrapping ErrExecutionFailed", err)
	}
}

func TestEngine_NodeFailureAbortsExecution(t *testing.T) {
	failing, err := node.New(node.Config{
		ID: "failing",
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return nil, errors.New("boom")
		},
	})
	if err != nil {
		t.Fatalf("node.New() error = %v", err)
	}

	downstream, err := node.New(node.Config{
		ID:         "downstream",
		InputNames: []string{"failing.defaultOutput"},
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return map[string]any{}, nil
		},
	})
	if err != nil {
		t.Fatalf("node.New() error = %v", err)
	}

	g := ecgraph.New(ecgraph.Config{ID: "g"})
	mustAddMember(t, g, failing)
	mustAddMember(t, g, downstream)

	eng := New(testConfig())
	ok, err := eng.Execute(context.Background(), g, nil, false)
	if ok || err == nil {
		t.Fatalf("Execute() = (%v, %v), want (false, non-nil)", ok, err)
	}
	if downstream.LastResult() != nil {
		t.Fatalf("downstream should never have run, got result %v", downstream.LastResult())
	}
}

func TestEngine_SubgraphExecution(t *testing.T) {
	inner, err := node.New(node.Config{
		ID: "inner",
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return map[string]any{"defaultOutput": "from-subgraph"}, nil
		},
	})
	if err != nil {
		t.Fatalf("node.New(inner) error = %v", err)
	}

	sub := ecgraph.New(ecgraph.Config{ID: "sub"})
	mustAddMember(t, sub, inner)

	outer, err := node.New(node.Config{
		ID:         "outer",
		InputNames: []string{"sub.inner.defaultOutput"},
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			v, _ := inputs["sub.inner.defaultOutput"].(string)
			return map[string]any{"defaultOutput": v}, nil
		},
	})
	if err != nil {
		t.Fatalf("node.New(outer) error = %v", err)
	}

	g := ecgraph.New(ecgraph.Config{ID: "g"})
	mustAddMember(t, g, sub)
	mustAddMember(t, g, outer)

	eng := New(testConfig())
	ok, err := eng.Execute(context.Background(), g, nil, false)
	if err != nil || !ok {
		t.Fatalf("Execute() = (%v, %v), want (true, nil)", ok, err)
	}
	if got := outer.LastResult()["defaultOutput"]; got != "from-subgraph" {
		t.Fatalf("outer output = %v, want %q", got, "from-subgraph")
	}
}

func TestEngine_SuccessAndErrorCallbacksInvoked(t *testing.T) {
	ok1, err1 := node.New(node.Config{
		ID: "n1",
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return map[string]any{}, nil
		},
	})
	if err1 != nil {
		t.Fatalf("node.New() error = %v", err1)
	}

	var successCalled, errorCalled bool
	g := ecgraph.New(ecgraph.Config{
		ID:        "g",
		OnSuccess: func(*ecgraph.Graph) { successCalled = true },
		OnError:   func(*ecgraph.Graph) { errorCalled = true },
	})
	mustAddMember(t, g, ok1)

	eng := New(testConfig())
	if ok, err := eng.Execute(context.Background(), g, nil, false); !ok || err != nil {
		t.Fatalf("Execute() = (%v, %v), want (true, nil)", ok, err)
	}
	if !successCalled || errorCalled {
		t.Fatalf("successCalled=%v errorCalled=%v, want (true, false)", successCalled, errorCalled)
	}

	failing, _ := node.New(node.Config{
		ID: "n1",
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return nil, errors.New("boom")
		},
	})
	successCalled, errorCalled = false, false
	g2 := ecgraph.New(ecgraph.Config{
		ID:        "g2",
		OnSuccess: func(*ecgraph.Graph) { successCalled = true },
		OnError:   func(*ecgraph.Graph) { errorCalled = true },
	})
	mustAddMember(t, g2, failing)
	if ok, err := eng.Execute(context.Background(), g2, nil, false); ok || err == nil {
		t.Fatalf("Execute() = (%v, %v), want (false, non-nil)", ok, err)
	}
	if successCalled || !errorCalled {
		t.Fatalf("successCalled=%v errorCalled=%v, want (false, true)", successCalled, errorCalled)
	}
}

func TestEngine_ExecutionTimeout(t *testing.T) {
	slow, err := node.New(node.Config{
		ID: "slow",
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			select {
			case <-time.After(200 * time.Millisecond):
				return map[string]any{}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	})
	if err != nil {
		t.Fatalf("node.New() error = %v", err)
	}

	g := ecgraph.New(ecgraph.Config{ID: "g"})
	mustAddMember(t, g, slow)

	cfg := config.Default()
	cfg.MaxExecutionTime = 20 * time.Millisecond
	eng := New(cfg)

	ok, err := eng.Execute(context.Background(), g, nil, false)
	if ok || err == nil {
		t.Fatalf("Execute() = (%v, %v), want (false, non-nil)", ok, err)
	}
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("Execute() error = %v, want wrapping ErrExecutionTimeout", err)
	}
}
