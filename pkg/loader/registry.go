package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/node"
)

// SubroutineRegistry resolves the declarative nodeSubroutine field —
// a name, not a serialized function body — to a Go closure a caller
// registered ahead of loading. Go cannot safely evaluate an arbitrary
// callable out of JSON the way the source runtime's host language can;
// naming a pre-registered closure is the idiomatic replacement, the
// same strategy-table shape the loader's nodeConstructors table uses for
// its node-type dispatch.
type SubroutineRegistry struct {
	mu  sync.RWMutex
	fns map[string]node.Subroutine
}

// NewSubroutineRegistry returns an empty registry.
func NewSubroutineRegistry() *SubroutineRegistry {
	return &SubroutineRegistry{fns: make(map[string]node.Subroutine)}
}

// Register associates name with fn. Registering the same name twice
// replaces the previous entry; callers own their own naming discipline.
func (r *SubroutineRegistry) Register(name string, fn node.Subroutine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[name] = fn
}

// Lookup returns the subroutine registered under name, if any.
func (r *SubroutineRegistry) Lookup(name string) (node.Subroutine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[name]
	return fn, ok
}

// resolveSubroutine looks up name and wraps an unresolved lookup in
// ErrSubroutineNotFound so callers get a consistent sentinel.
func (r *SubroutineRegistry) resolveSubroutine(name string) (node.Subroutine, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSubroutineNotFound, name)
	}
	return fn, nil
}

// resolveProcessFunc adapts a registered Subroutine to the ProcessFunc
// shape data-processing-family nodes require: a Subroutine's mapping
// result is exactly the `any` a ProcessFunc returns, just typed wider.
func (r *SubroutineRegistry) resolveProcessFunc(name string) (node.ProcessFunc, error) {
	fn, err := r.resolveSubroutine(name)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, inputs map[string]any) (any, error) {
		return fn(ctx, inputs)
	}, nil
}
