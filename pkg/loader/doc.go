// Package loader implements the LOAD component of the execution-control
// graph runtime: turning a declarative, JSON-compatible graph
// description into a live *ecgraph.Graph of nodes and nested subgraphs.
//
// A description is validated against the graph JSON Schema first, then
// walked recursively: each child carrying a graphType becomes a nested
// subgraph (loaded by the same recursive routine), each child carrying a
// nodeType is built by the type's registered constructor and added to
// the enclosing graph. Malformed children are skipped with a logged
// warning rather than aborting the whole load, matching the source
// loader's graceful-degradation behavior; a malformed document (failing
// schema validation, or missing a required top-level field) fails the
// load outright.
package loader
