// Package execctx tracks the ambient Execution Context for each script
// thread: the (evaluation context, runtime, mode) triple host callbacks
// observe while running under a VM entry or coroutine resume.
//
// The binding is dynamically scoped per script thread rather than per
// goroutine. GoFunctions always receive the exact api.LkState of the
// thread invoking them, so keying the binding table by that value avoids
// needing goroutine-local storage: whichever coroutine is "current" is
// handed to us directly.
package execctx

import (
	"sync"

	"github.com/lollipopkit/coronest/api"
)

type Mode int

const (
	Immediate Mode = iota
	Suspendable
)

func (m Mode) String() string {
	if m == Immediate {
		return "immediate"
	}
	return "suspendable"
}

// Context is the record exposed to host code invoked from script.
// Runtime is kept as `any` (rather than *runtime.Runtime) so this package
// never imports runtime, which itself binds contexts around VM entries.
type Context struct {
	EvalCtx any
	Runtime any
	Mode    Mode
}

var (
	mu      sync.RWMutex
	current = map[api.LkState]Context{}
)

// Bind establishes ctx as the current Execution Context for ls, returning
// a function that restores whatever was bound before (or clears the
// binding if none was). Callers defer the returned function around every
// VM entry and coroutine resume.
func Bind(ls api.LkState, ctx Context) (restore func()) {
	mu.Lock()
	prev, had := current[ls]
	current[ls] = ctx
	mu.Unlock()

	return func() {
		mu.Lock()
		defer mu.Unlock()
		if had {
			current[ls] = prev
		} else {
			delete(current, ls)
		}
	}
}

// Current returns the Execution Context bound to ls, if any.
func Current(ls api.LkState) (Context, bool) {
	mu.RLock()
	defer mu.RUnlock()
	ctx, ok := current[ls]
	return ctx, ok
}

// Forget drops ls's binding entirely. Called once a thread (coroutine)
// has run to completion, so the map does not grow unboundedly.
func Forget(ls api.LkState) {
	mu.Lock()
	defer mu.Unlock()
	delete(current, ls)
}
