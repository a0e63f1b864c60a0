// Package logging provides structured logging with context propagation
// for the graph execution runtime.
//
// # Overview
//
// The package wraps log/slog with a small Logger type that attaches
// structured fields (graph id, execution id, node id, node type,
// errors) via chained With* calls, and carries a request- or
// execution-scoped logger through context.Context without resorting
// to global state.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Output: os.Stdout,
//	    Pretty: false,
//	})
//
//	logger.WithGraphID(g.ID()).
//	    WithExecutionID(executionID).
//	    WithNodeID(n.ID()).
//	    Info("node executing")
//
// # Context Propagation
//
//	ctx = logger.WithContext(ctx)
//	// ... downstream ...
//	logging.FromContext(ctx).Warn("retrying after transient failure")
//
// # Output Formats
//
// Pretty: false (default) produces JSON via slog.NewJSONHandler;
// Pretty: true produces slog.NewTextHandler output for local
// development.
//
// # Thread Safety
//
// Logger values are immutable after construction — each With* call
// returns a new *Logger wrapping a new *slog.Logger derived from the
// original by slog.Logger.With with an additional attribute, so a logger may be shared and further
// derived from concurrently.
package logging
