// Package observer provides an event-driven observer pattern for graph
// execution monitoring.
//
// # Overview
//
// The observer package lets library consumers track graph and node
// lifecycle events without coupling to the engine implementation. A
// single Event type carries both graph-level and node-level
// notifications; observers distinguish them by Type.
//
// # Observer Interface
//
//	type Observer interface {
//	    OnEvent(ctx context.Context, event Event)
//	}
//
// # Events
//
// EventGraphStart / EventGraphEnd are emitted once per Engine.Execute
// call; nested subgraphs run within that call emit no graph events of
// their own. EventNodeStart,
// EventNodeSuccess, and EventNodeFailure are emitted around each node's
// Execute call, carrying NodeID and NodeType. Status, Timestamp,
// ExecutionID, and GraphID are populated on every event; Error and
// Result are populated where relevant.
//
// # Basic Usage
//
//	eng.RegisterObserver(observer.NewConsoleObserver())
//
// # Manager
//
// Manager holds a list of observers and fans a single Notify call out
// to every registered observer, each in its own goroutine with panic
// recovery, so one misbehaving observer cannot block or crash a run.
// Manager does not itself implement Observer; the engine keeps one
// internally and RegisterObserver adds to it.
//
// # Thread Safety
//
// Observer.OnEvent may be called concurrently from multiple
// goroutines; implementations must synchronize any shared state they
// touch.
package observer
