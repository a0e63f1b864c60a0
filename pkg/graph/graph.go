// Package graph provides graph algorithms and utilities for the execution-control
// graph (ECG) runtime: traversal, cycle detection, topological sort, and
// reachability over a plain adjacency representation.
package graph

import (
	"fmt"
)

// Adjacency maps a node id to its ordered, possibly-duplicated list of
// direct children. A nil or empty slice means "no outgoing edges"; an
// absent key means "not in graph".
type Adjacency map[string][]string

// Contains reports whether id is a known node.
func Contains(g Adjacency, id string) bool {
	_, ok := g[id]
	return ok
}

// Children returns the deduplicated, first-seen-order direct children of id.
// Unknown ids yield an empty slice.
func Children(g Adjacency, id string) []string {
	return dedup(g[id])
}

// Parents returns the deduplicated node ids that list id as a child.
// Linear in the number of edges.
func Parents(g Adjacency, id string) []string {
	var parents []string
	for parent, children := range g {
		for _, child := range children {
			if child == id {
				parents = append(parents, parent)
				break
			}
		}
	}
	return dedup(parents)
}

// Siblings returns the set union of the children of every parent of id,
// excluding id itself. This is a proper set union, not an accumulation
// by repeated append (a class of bug this package deliberately avoids).
func Siblings(g Adjacency, id string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, parent := range Parents(g, id) {
		for _, child := range Children(g, parent) {
			if child == id || seen[child] {
				continue
			}
			seen[child] = true
			out = append(out, child)
		}
	}
	return out
}

// Leaves returns nodes whose child collection is empty.
func Leaves(g Adjacency) []string {
	var out []string
	for id, children := range g {
		if len(dedup(children)) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Roots returns nodes with no parents.
func Roots(g Adjacency) []string {
	hasParent := make(map[string]bool, len(g))
	for _, children := range g {
		for _, child := range children {
			hasParent[child] = true
		}
	}
	var out []string
	for id := range g {
		if !hasParent[id] {
			out = append(out, id)
		}
	}
	return out
}

func dedup(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// VisitedMap records, for every node visited during a DFS, the depth at
// which it was first visited.
type VisitedMap map[string]int

// Frame is a single (node, depth) entry on the DFS stack or path.
type Frame struct {
	NodeID string
	Depth  int
}

// StopFunc decides whether the DFS should stop at the current frame,
// before it is marked visited or expanded.
type StopFunc func(current Frame, visited VisitedMap, stack []Frame, path []Frame) bool

// SkipChildrenFunc decides whether to skip pushing current's children.
type SkipChildrenFunc func(current Frame, visited VisitedMap, stack []Frame, path []Frame) bool

// FinalizeFunc is invoked once, either when StopFunc fires or when the
// stack is exhausted. current is nil on exhaustion.
type FinalizeFunc func(current *Frame, visited VisitedMap, stack []Frame, path []Frame) any

// DFS performs an iterative depth-first traversal over an explicit stack of
// (node, depth) frames. If starts is empty, Roots(g) seeds the stack. On
// each pop the current visitation path is trimmed so its depths strictly
// increase and end just below the popped depth, then the popped node is
// appended to it. StopFunc is evaluated before the visited check; when it
// returns true, FinalizeFunc runs and its result is returned immediately.
// Already-visited nodes are not re-expanded. SkipChildrenFunc, when true,
// prevents a node's children from being pushed. On stack exhaustion,
// FinalizeFunc runs once more with a nil current frame.
func DFS(g Adjacency, starts []string, stop StopFunc, skipChildren SkipChildrenFunc, finalize FinalizeFunc) any {
	if len(starts) == 0 {
		starts = Roots(g)
	}

	stack := make([]Frame, 0, len(starts))
	for i := len(starts) - 1; i >= 0; i-- {
		stack = append(stack, Frame{NodeID: starts[i], Depth: 0})
	}

	visited := VisitedMap{}
	var path []Frame

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for len(path) > 0 && path[len(path)-1].Depth >= current.Depth {
			path = path[:len(path)-1]
		}
		path = append(path, current)

		if stop != nil && stop(current, visited, stack, path) {
			return finalize(&current, visited, stack, path)
		}

		if _, already := visited[current.NodeID]; already {
			continue
		}
		visited[current.NodeID] = current.Depth

		if skipChildren != nil && skipChildren(current, visited, stack, path) {
			continue
		}

		children := g[current.NodeID]
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, Frame{NodeID: children[i], Depth: current.Depth + 1})
		}
	}

	return finalize(nil, visited, stack, path)
}

// IsCyclic reports whether g contains a cycle: true iff a DFS seeded
// with every node of g encounters a back-edge, i.e. a node that both has
// already been visited and still appears in the current visitation path.
// Seeding with every node, not only the roots, also finds cycles that no
// root reaches (for example a graph in which every node has a parent).
// An empty graph is not cyclic.
func IsCyclic(g Adjacency) bool {
	if len(g) == 0 {
		return false
	}

	starts := make([]string, 0, len(g))
	for id := range g {
		starts = append(starts, id)
	}

	onBackEdge := func(current Frame, visited VisitedMap, stack []Frame, path []Frame) bool {
		if _, seen := visited[current.NodeID]; !seen {
			return false
		}
		for _, frame := range path[:len(path)-1] {
			if frame.NodeID == current.NodeID {
				return true
			}
		}
		return false
	}

	result := DFS(g, starts, onBackEdge, nil, func(current *Frame, _ VisitedMap, _ []Frame, _ []Frame) any {
		return current != nil
	})

	cyclic, _ := result.(bool)
	return cyclic
}

// TopologicalSort returns a Kahn's-algorithm ordering of g: nodes with no
// remaining producers are pushed to a frontier and popped LIFO. The
// initial frontier is filled in Go map iteration order, so the relative
// order of independent nodes is not deterministic across calls; the
// children of a popped node are pushed in their declared order. Every
// outgoing edge of a popped node is
// retired; a child becomes eligible once all its inbound edges have been
// retired. Returns an error if g contains a cycle (the order would not
// include every node exactly once).
func TopologicalSort(g Adjacency) ([]string, error) {
	numNodes := len(g)
	if numNodes == 0 {
		return []string{}, nil
	}

	inDegree := make(map[string]int, numNodes)
	for id := range g {
		if _, ok := inDegree[id]; !ok {
			inDegree[id] = 0
		}
	}
	for _, children := range g {
		for _, child := range dedup(children) {
			inDegree[child]++
		}
	}

	frontier := make([]string, 0, numNodes)
	for id := range g {
		if inDegree[id] == 0 {
			frontier = append(frontier, id)
		}
	}

	order := make([]string, 0, numNodes)
	for len(frontier) > 0 {
		current := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		order = append(order, current)

		for _, child := range dedup(g[current]) {
			inDegree[child]--
			if inDegree[child] == 0 {
				frontier = append(frontier, child)
			}
		}
	}

	if len(order) != numNodes {
		return nil, fmt.Errorf("%w: graph contains a cycle", ErrCycleDetected)
	}
	return order, nil
}

// ReachableInterior returns the set of nodes lying on at least one path
// from src to dst in a DAG. It repeatedly DFSes from src, stopping as soon
// as dst is reached; each successful reach contributes its path (minus
// filtered endpoints) to the result, and the nodes of that path (src
// excepted) are blocked from re-expansion on subsequent rounds, forcing
// exploration of alternative paths. The loop stops when a round finds no new path.
// Returns an empty slice when src == dst and either inclusion flag is false.
func ReachableInterior(g Adjacency, src, dst string, includeSrc, includeDst bool) []string {
	if src == dst {
		if includeSrc && includeDst {
			return []string{src}
		}
		return []string{}
	}

	blocked := map[string]bool{}
	result := map[string]bool{}
	var previousPath []string

	for {
		stop := func(current Frame, _ VisitedMap, _ []Frame, _ []Frame) bool {
			return current.NodeID == dst
		}
		skip := func(current Frame, _ VisitedMap, _ []Frame, _ []Frame) bool {
			return blocked[current.NodeID] && current.NodeID != src
		}
		finalize := func(current *Frame, _ VisitedMap, _ []Frame, path []Frame) any {
			if current == nil || current.NodeID != dst {
				return nil
			}
			found := make([]string, len(path))
			for i, f := range path {
				found[i] = f.NodeID
			}
			return found
		}

		result0 := DFS(g, []string{src}, stop, skip, finalize)
		path, ok := result0.([]string)
		if !ok || path == nil || samePath(path, previousPath) {
			break
		}
		previousPath = path

		for _, id := range path {
			blocked[id] = true
		}
		for i, id := range path {
			if id == src && !includeSrc {
				continue
			}
			if id == dst && !includeDst {
				continue
			}
			_ = i
			result[id] = true
		}
	}

	out := make([]string, 0, len(result))
	for id := range result {
		out = append(out, id)
	}
	return out
}

func samePath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
