package node

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestExternalCallNodeConfigInvalidEmptyEndpoint(t *testing.T) {
	n, _ := NewExternalCallNode(ExternalCallConfig{
		DataProcessingConfig: DataProcessingConfig{Config: Config{ID: "caller", LogErrors: true}},
	})
	ok := n.Execute(context.Background(), map[string]any{}, false)
	if ok {
		t.Fatal("Execute() = true, want false for an empty endpoint")
	}
	calls, _, failures, _, _ := n.Statistics()
	if calls != 0 {
		t.Errorf("calls = %d, want 0 — config-invalid must not count as a call", calls)
	}
	if failures != 0 {
		t.Errorf("failures = %d, want 0 — config-invalid is not a call failure", failures)
	}
}

func TestExternalCallNodeSuccessfulHTTPCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"echo": body["value"]})
	}))
	defer srv.Close()

	n, err := NewExternalCallNode(ExternalCallConfig{
		DataProcessingConfig: DataProcessingConfig{
			Config:                  Config{ID: "caller"},
			OutputFormattingEnabled: true,
		},
		EndpointURL:    srv.URL,
		RequestTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewExternalCallNode() error = %v", err)
	}

	ok := n.Execute(context.Background(), map[string]any{"value": "hi"}, false)
	if !ok {
		t.Fatalf("Execute() = false, want true; last error = %q", n.LastError())
	}
	calls, successes, failures, _, status := n.Statistics()
	if calls != 1 || successes != 1 || failures != 0 {
		t.Errorf("calls=%d successes=%d failures=%d, want 1,1,0", calls, successes, failures)
	}
	if status != http.StatusOK {
		t.Errorf("last status = %d, want 200", status)
	}
	if n.LastResult()["echo"] != "hi" {
		t.Errorf("LastResult() = %v, want echo=hi", n.LastResult())
	}
}

func TestExternalCallNodeRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	n, _ := NewExternalCallNode(ExternalCallConfig{
		DataProcessingConfig: DataProcessingConfig{Config: Config{ID: "caller"}},
		EndpointURL:          srv.URL,
		MaxRetries:           3,
		InitialRetryDelay:    time.Millisecond,
		RequestTimeout:       2 * time.Second,
	})

	ok := n.Execute(context.Background(), map[string]any{}, false)
	if !ok {
		t.Fatalf("Execute() = false, want true after retries; last error = %q", n.LastError())
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	calls, successes, failures, _, _ := n.Statistics()
	if calls != 1 || successes != 1 || failures != 2 {
		t.Errorf("calls=%d successes=%d failures=%d, want 1,1,2 (failures counts each failed attempt, not each call)", calls, successes, failures)
	}
}

func TestExternalCallNodeAllAttemptsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n, _ := NewExternalCallNode(ExternalCallConfig{
		DataProcessingConfig: DataProcessingConfig{Config: Config{ID: "caller", LogErrors: true}},
		EndpointURL:          srv.URL,
		MaxRetries:           2,
		InitialRetryDelay:    time.Millisecond,
		RequestTimeout:       2 * time.Second,
	})

	ok := n.Execute(context.Background(), map[string]any{}, false)
	if ok {
		t.Fatal("Execute() = true, want false when every attempt fails")
	}
	calls, successes, failures, _, _ := n.Statistics()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if successes != 0 || failures != 3 {
		t.Errorf("successes=%d failures=%d, want 0,3 (max_retries+1 failed attempts)", successes, failures)
	}
}

func TestExternalCallNodeInputOutputNameMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["backend_field"]; !ok {
			t.Errorf("expected remapped field backend_field in request body, got %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"backend_result": 99})
	}))
	defer srv.Close()

	n, _ := NewExternalCallNode(ExternalCallConfig{
		DataProcessingConfig: DataProcessingConfig{Config: Config{ID: "caller"}},
		EndpointURL:          srv.URL,
		InputNameToBackendName: map[string]string{
			"node_field": "backend_field",
		},
		BackendNameToOutputName: map[string]string{
			"backend_result": "node_result",
		},
		RequestTimeout: 2 * time.Second,
	})

	ok := n.Execute(context.Background(), map[string]any{"node_field": "value"}, false)
	if !ok {
		t.Fatalf("Execute() = false, want true; last error = %q", n.LastError())
	}
	if n.LastResult()["node_result"] != float64(99) {
		t.Errorf("LastResult() = %v, want node_result=99", n.LastResult())
	}
}

func TestExternalCallNodePrivateAttributesWinConflicts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"seen_secret": body["secret"]})
	}))
	defer srv.Close()

	n, _ := NewExternalCallNode(ExternalCallConfig{
		DataProcessingConfig: DataProcessingConfig{Config: Config{ID: "caller"}},
		EndpointURL:          srv.URL,
		PrivateAttributes:    map[string]any{"secret": "from-private"},
		RequestTimeout:       2 * time.Second,
	})

	ok := n.Execute(context.Background(), map[string]any{"secret": "from-input"}, false)
	if !ok {
		t.Fatalf("Execute() = false, want true; last error = %q", n.LastError())
	}
	if n.LastResult()["seen_secret"] != "from-private" {
		t.Errorf("LastResult() = %v, want seen_secret=from-private", n.LastResult())
	}
}

func TestToWebSocketURL(t *testing.T) {
	cases := map[string]string{
		"https://api.example.com/ws": "wss://api.example.com/ws",
		"http://api.example.com/ws":  "ws://api.example.com/ws",
		"ws://already":               "ws://already",
	}
	for in, want := range cases {
		if got := toWebSocketURL(in); got != want {
			t.Errorf("toWebSocketURL(%q) = %q, want %q", in, got, want)
		}
	}
}
