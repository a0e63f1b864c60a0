// Package graph provides graph algorithms and utilities for the execution-control
// graph (ECG) runtime.
//
// # Overview
//
// The graph package implements the pure, stateless algorithms the rest of
// the engine builds on: parent/child/leaf/root queries, an iterative DFS
// with pluggable stop/skip/finalize predicates, cycle detection, a
// Kahn's-algorithm topological sort, and path-interior reachability. It has
// no notion of node payloads or subroutines — callers supply a plain
// Adjacency map and read back node ids.
//
// # Graph Representation
//
// Graphs are represented as an Adjacency: a map from node id to its
// ordered list of direct children. A missing key means the node is not
// part of the graph; a present key with an empty or nil slice means a
// leaf.
//
// # Topological Sort Usage
//
//	adj := graph.Adjacency{
//	    "a": {"b", "c"},
//	    "b": {"d"},
//	    "c": {"e", "d"},
//	}
//	order, err := graph.TopologicalSort(adj)
//	if err != nil {
//	    // cycle
//	}
//	for _, id := range order {
//	    execute(id)
//	}
//
// # Cycle Detection
//
//	if graph.IsCyclic(adj) {
//	    // refuse to execute
//	}
//
// IsCyclic runs the shared DFS, seeded with every node so that cycles no
// root reaches are found too, with a stop predicate that fires on a
// back-edge: a node that is both already visited and still present in the
// current visitation path. This is the only rule used — a non-boolean or
// otherwise ambiguous finalize outcome is never treated as cyclic.
//
// # Reachable Interior
//
//	interior := graph.ReachableInterior(adj, "a", "d", true, true)
//	// interior contains every node on some a->d path, including a and d
//
// # Performance Characteristics
//
//   - TopologicalSort: O(V+E), Kahn's algorithm with a LIFO frontier
//   - IsCyclic: O(V+E) DFS
//   - ReachableInterior: bounded repeated DFS, O(V+E) per round
//
// # Algorithm Details
//
// Kahn's Algorithm (TopologicalSort):
//  1. Compute in-degree for every node from the adjacency map
//  2. Seed the frontier with zero in-degree nodes (in map iteration
//     order, so ties between independent nodes are not deterministic)
//  3. Pop the frontier LIFO, append to the order, retire its out-edges
//  4. Push any neighbor whose in-degree reaches zero
//  5. If the order omits any node, the graph had a cycle
//
// DFS (shared by IsCyclic, ReachableInterior, and any caller-supplied
// traversal):
//  1. Seed an explicit stack of (node, depth) frames from the roots
//  2. On each pop, trim the visitation path to strictly increasing depths
//     ending below the popped depth, then append the popped frame
//  3. Evaluate the stop predicate before the visited check
//  4. Skip expansion of already-visited nodes
//  5. Evaluate the skip-children predicate before pushing children
//
// # Thread Safety
//
// All functions in this package are stateless over their Adjacency
// argument and safe for concurrent use as long as the Adjacency itself is
// not mutated concurrently.
package graph
