// Package engine implements the execution-control graph's run loop: it
// resolves a graph's dependency order, seeds external inputs, walks
// nodes (and nested subgraphs) in order, and gathers each node's
// declared inputs from the outputs of its producers.
//
// # Overview
//
// An Engine drives one graph.Execute at a time. It computes the
// dependency-ordered execution plan from the graph's own
// DependencyGraph, validates the graph is closed (every declared
// input is satisfiable), and then runs each member node or nested
// subgraph in turn, propagating values by qualified output name.
//
// # Basic Usage
//
//	eng := engine.New(config.Default())
//	ok, err := eng.Execute(context.Background(), g, map[string]any{
//	    "externalInputNamesToValuesDict": map[string]any{
//	        "external.prompt": "hello",
//	    },
//	}, true)
//
// # Error Handling
//
// Execute returns false with a wrapped sentinel error (see errors.go)
// when the graph is structurally invalid, a node's declared inputs
// cannot be resolved, a node or subgraph fails, or the run exceeds
// the configured deadline. A node-level failure aborts the remaining
// execution order; it does not retry at the graph level (external-call
// nodes retry their own transport internally).
//
// # Concurrency
//
// One execution walks the topological order sequentially: nodes are
// awaited one at a time, matching the graph's single-writer ownership
// of its own execution value cache. The overall run is bounded by a
// context.Context deadline derived from config.MaxExecutionTime,
// following the same timeout-context-plus-goroutine-plus-buffered-
// channel pattern used elsewhere in this module for bounding
// long-running work.
package engine
