package node

import (
	"context"
	"errors"
	"testing"
)

func TestNewRequiresSubroutine(t *testing.T) {
	_, err := New(Config{ID: "n1"})
	if !errors.Is(err, ErrMissingSubroutine) {
		t.Fatalf("New() error = %v, want ErrMissingSubroutine", err)
	}
}

func TestNewAssignsDefaultIDAndOutputs(t *testing.T) {
	n, err := New(Config{
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if n.ID() == "" {
		t.Error("expected a generated node id")
	}
	if got := n.DeclaredOutputs(); len(got) != 1 || got[0] != n.ID()+".defaultOutput" {
		t.Errorf("DeclaredOutputs() = %v", got)
	}
}

func TestProducersOfInputs(t *testing.T) {
	n, err := New(Config{
		ID:         "consumer",
		InputNames: []string{"producerA.result", "producerA.other", "producerB.value", "not-qualified"},
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	producers := n.ProducersOfInputs()
	if len(producers) != 2 {
		t.Fatalf("ProducersOfInputs() = %v, want 2 distinct producers", producers)
	}
	seen := map[string]bool{}
	for _, p := range producers {
		seen[p] = true
	}
	if !seen["producerA"] || !seen["producerB"] {
		t.Errorf("ProducersOfInputs() = %v, want producerA and producerB", producers)
	}
}

func TestContainsOutputLabel(t *testing.T) {
	n, _ := New(Config{
		ID:          "n1",
		OutputNames: []string{"defaultOutput", "extra"},
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return nil, nil
		},
	})
	if !n.ContainsOutputLabel("n1.extra") {
		t.Error("expected n1.extra to be a recognized output")
	}
	if n.ContainsOutputLabel("n1.missing") {
		t.Error("did not expect n1.missing to be a recognized output")
	}
	if n.ContainsOutputLabel("not-qualified") {
		t.Error("an unqualified name should never match")
	}
}

func TestExecuteSuccessStoresResultAndCallsOnComplete(t *testing.T) {
	var completed bool
	n, _ := New(Config{
		ID: "n1",
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return map[string]any{"result": 42}, nil
		},
		OnExecutionComplete: func(n *Node) { completed = true },
	})
	ok := n.Execute(context.Background(), nil, true)
	if !ok {
		t.Fatal("Execute() = false, want true")
	}
	if !completed {
		t.Error("expected OnExecutionComplete to be invoked on success")
	}
	if n.LastResult()["result"] != 42 {
		t.Errorf("LastResult() = %v", n.LastResult())
	}
	if n.LastExecutionTimeMS() < 0 {
		t.Error("expected a non-negative measured duration")
	}
}

func TestExecuteFailureLogsWhenEnabled(t *testing.T) {
	n, _ := New(Config{
		ID:        "n1",
		LogErrors: true,
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return nil, errors.New("boom")
		},
	})
	ok := n.Execute(context.Background(), nil, false)
	if ok {
		t.Fatal("Execute() = true, want false")
	}
	if len(n.LoggedErrors()) != 1 {
		t.Errorf("LoggedErrors() = %v, want one entry", n.LoggedErrors())
	}
}

func TestExecuteFailureSilentWhenLoggingDisabled(t *testing.T) {
	n, _ := New(Config{
		ID: "n1",
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return nil, errors.New("boom")
		},
	})
	n.Execute(context.Background(), nil, false)
	if len(n.LoggedErrors()) != 0 {
		t.Errorf("LoggedErrors() = %v, want none when LogErrors is false", n.LoggedErrors())
	}
}

func TestDisposeClearsState(t *testing.T) {
	n, _ := New(Config{
		ID: "n1",
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return map[string]any{"x": 1}, nil
		},
	})
	n.Execute(context.Background(), nil, true)
	if err := n.Dispose(); err != nil {
		t.Fatalf("Dispose() error = %v", err)
	}
	if n.LastResult() != nil {
		t.Error("expected LastResult() to be nil after Dispose")
	}
	if n.LastExecutionTimeMS() != 0 {
		t.Error("expected no execution timings after Dispose")
	}
}

func TestAverageExecutionTimeMSOverLastN(t *testing.T) {
	n, _ := New(Config{
		ID: "n1",
		Subroutine: func(ctx context.Context, inputs map[string]any) (map[string]any, error) {
			return map[string]any{}, nil
		},
	})
	for i := 0; i < 5; i++ {
		n.Execute(context.Background(), nil, true)
	}
	if n.AverageExecutionTimeMS(3) < 0 {
		t.Error("expected a non-negative average")
	}
	if n.AverageExecutionTimeMS(100) < 0 {
		t.Error("expected averaging to clamp to the available history")
	}
}
