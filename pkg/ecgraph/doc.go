// Package ecgraph implements the GRAPH container of the execution-control
// graph runtime.
//
// A Graph holds nodes (anything satisfying node.Runnable) and nested
// subgraphs (*Graph) under string ids, exposes the dependency closure
// between them as a graph.Adjacency for the executor to topologically
// sort, validates that every declared input is satisfiable before a run
// starts, and stores the result of the most recently executed run so it
// can be retrieved afterward.
//
// Running a graph — computing execution order, seeding external inputs,
// walking nodes in order, invoking success/error callbacks — belongs to
// package engine, not here. This package is the data structure and its
// invariants; engine is the verb.
package ecgraph
