// Package bootstrap builds the two independent coroutine namespaces the
// runtime needs: a "user" namespace bound to the script-visible global
// coroutine table, and a "system" namespace held only by the Runtime and
// used exclusively to park suspending invocations. Both are produced by
// the same Namespace type instantiated twice, so their coroutine
// identities never collide — a value created by one is simply unknown to
// the other.
//
// This is implemented natively in Go rather than as an interpreted
// bootstrap chunk: the worker-goroutine registration and Execution
// Context capture/refresh it performs need capabilities (the VM
// container's Track, the execctx package) that sandboxed script code
// cannot reach. The external interface — a callable that hands back a
// fresh {create, resume, yield, status, wrap, running} table per call —
// is preserved; only its implementation language differs, which the
// bootstrap contract explicitly allows.
package bootstrap

import (
	"fmt"
	"sync"

	"github.com/lollipopkit/coronest/api"
	"github.com/lollipopkit/coronest/bridge"
	"github.com/lollipopkit/coronest/execctx"
)

type coState int

const (
	coSuspended coState = iota
	coRunning
	coDead
)

type entry struct {
	state   coState
	started bool
	// capturedCtx is the Execution Context bound on the creator thread at
	// coroutine.create time, restored at the top of the worker's first
	// activation and refreshed on every subsequent resume so that context
	// changes made between resumes (e.g. after a refresh) are visible to
	// host calls the coroutine makes.
	capturedCtx execctx.Context
	hasCtx      bool
}

// Namespace is one independent coroutine table. Track is called on every
// thread it creates so the VM container recognizes calls made from that
// thread's dedicated worker goroutine.
type Namespace struct {
	name  string
	track func(api.LkState)

	mu      sync.Mutex
	entries map[api.LkState]*entry
}

func NewNamespace(name string, track func(api.LkState)) *Namespace {
	return &Namespace{
		name:    name,
		track:   track,
		entries: make(map[api.LkState]*entry),
	}
}

func (ns *Namespace) put(co api.LkState, e *entry) {
	ns.mu.Lock()
	ns.entries[co] = e
	ns.mu.Unlock()
}

func (ns *Namespace) get(co api.LkState) (*entry, bool) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	e, ok := ns.entries[co]
	return e, ok
}

// Table pushes a fresh {create, resume, yield, status, wrap, running}
// table for this namespace onto ls's stack.
func (ns *Namespace) Table(ls api.LkState) {
	ls.CreateTable(0, 6)
	ls.PushGoFunction(ns.create)
	ls.SetField(-2, "create")
	ls.PushGoFunction(ns.resume)
	ls.SetField(-2, "resume")
	ls.PushGoFunction(ns.yield)
	ls.SetField(-2, "yield")
	ls.PushGoFunction(ns.status)
	ls.SetField(-2, "status")
	ls.PushGoFunction(ns.wrap)
	ls.SetField(-2, "wrap")
	ls.PushGoFunction(ns.running)
	ls.SetField(-2, "running")
}

// spawn creates a new coroutine thread bound to fn, registers it for
// tracking and context capture, and returns it. The thread value is left
// on top of ls's stack.
func (ns *Namespace) spawn(ls api.LkState, fn any) api.LkState {
	co := ls.NewThread() // pushes the thread value onto ls's stack too
	co.Push(fn)           // co's initial frame now holds [fn], ready for its first call

	if ns.track != nil {
		ns.track(co)
	}

	e := &entry{state: coSuspended}
	if ctx, ok := execctx.Current(ls); ok {
		e.capturedCtx, e.hasCtx = ctx, true
	}
	ns.put(co, e)
	return co
}

// create (f) -> thread
func (ns *Namespace) create(ls api.LkState) int {
	ls.CheckType(1, api.LK_TFUNCTION)
	fn := ls.ToPointer(1)
	ns.spawn(ls, fn)
	return 1
}

// CreateFromHost spawns a coroutine over fn (a function value already
// read off some thread's stack) without going through a script-level
// call. Used by the invocation supervisor, which compiles the
// suspending invocation's chunk once and drives the coroutine directly
// rather than resuming it through script code.
func (ns *Namespace) CreateFromHost(ls api.LkState, fn any) api.LkState {
	return ns.spawn(ls, fn)
}

// ResumeFromHost resumes co with host-level args without going through
// any script stack, returning the same (ok, value) pair script-level
// resume would produce along with co's status immediately after the
// step. value is nil when the coroutine produced no results.
func (ns *Namespace) ResumeFromHost(from api.LkState, co api.LkState, args []any) (ok bool, value any, status string) {
	ok, results := ns.doResume(from, co, args)
	if len(results) > 0 {
		value = results[0]
	}

	e, found := ns.get(co)
	switch {
	case !found:
		status = "dead"
	case e.state == coRunning:
		status = "running"
	case e.state == coSuspended:
		status = "suspended"
	default:
		status = "dead"
	}
	return ok, value, status
}

// doResume is the engine behind both resume and wrap: it takes a target
// coroutine and plain host values for the resume arguments, and returns
// either the coroutine's yielded/returned values or its error value. It
// never touches from's stack, so callers are free to build the argument
// list from wherever their own calling convention keeps it.
func (ns *Namespace) doResume(from api.LkState, co api.LkState, args []any) (ok bool, results []any) {
	e, found := ns.get(co)
	if !found || e.state == coDead {
		return false, []any{"cannot resume dead coroutine"}
	}
	if e.state == coRunning {
		return false, []any{"cannot resume non-suspended coroutine"}
	}

	if e.started {
		co.SetTop(0)
	}
	e.started = true
	for _, a := range args {
		bridge.Push(co, a)
	}

	if e.hasCtx {
		restore := execctx.Bind(co, e.capturedCtx)
		defer restore()
	}

	e.state = coRunning
	status := co.Resume(from, len(args))

	got := co.GetTop()
	results = make([]any, got)
	for i := 0; i < got; i++ {
		results[i] = bridge.Pull(co, i+1)
	}

	if status == api.LK_YIELD {
		e.state = coSuspended
	} else {
		e.state = coDead
		execctx.Forget(co)
		ns.mu.Lock()
		delete(ns.entries, co)
		ns.mu.Unlock()
	}

	if status != api.LK_OK && status != api.LK_YIELD {
		if len(results) > 0 {
			if msg, isStr := results[0].(string); isStr {
				return false, []any{msg}
			}
			return false, []any{fmt.Sprint(results[0])}
		}
		return false, []any{"coroutine error"}
	}
	return true, results
}

// resume (co, ...) -> ok, ...
func (ns *Namespace) resume(ls api.LkState) int {
	co := ls.ToThread(1)
	if co == nil {
		ls.PushBoolean(false)
		ls.PushString("cannot resume non-coroutine value")
		return 2
	}

	n := ls.GetTop() - 1
	args := make([]any, n)
	for i := 0; i < n; i++ {
		args[i] = bridge.Pull(ls, 2+i)
	}

	ok, results := ns.doResume(ls, co, args)

	ls.PushBoolean(ok)
	if !ok {
		if len(results) > 0 {
			ls.PushString(fmt.Sprint(results[0]))
		} else {
			ls.PushString("coroutine error")
		}
		return 2
	}
	for _, r := range results {
		bridge.Push(ls, r)
	}
	return 1 + len(results)
}

// yield (...) -> ...
func (ns *Namespace) yield(ls api.LkState) int {
	if !ls.IsYieldable() {
		panic("attempt to yield from outside a coroutine")
	}
	n := ls.GetTop()
	ls.Yield(n)
	return ls.GetTop()
}

// status (co) -> "suspended" | "running" | "dead"
func (ns *Namespace) status(ls api.LkState) int {
	co := ls.ToThread(1)
	e, ok := ns.get(co)
	if co == nil || !ok {
		ls.PushString("dead")
		return 1
	}
	switch e.state {
	case coRunning:
		ls.PushString("running")
	case coSuspended:
		ls.PushString("suspended")
	default:
		ls.PushString("dead")
	}
	return 1
}

// Status is a point-in-time snapshot of one tracked coroutine, for
// host-side introspection (e.g. a terminal inspector). It carries no
// capability to resume or interact with the coroutine itself.
type Status struct {
	ID    string
	State string
}

// Snapshot lists every coroutine this namespace currently tracks. Dead
// coroutines are removed from the namespace's own bookkeeping as soon
// as they're observed dead by doResume, so a Snapshot taken well after
// a script finishes will not show its coroutines at all; that is by
// design, not a bug — there is nothing left for a host to act on.
func (ns *Namespace) Snapshot() []Status {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	out := make([]Status, 0, len(ns.entries))
	for co, e := range ns.entries {
		var state string
		switch e.state {
		case coRunning:
			state = "running"
		case coSuspended:
			state = "suspended"
		default:
			state = "dead"
		}
		out = append(out, Status{ID: fmt.Sprintf("%p", co), State: state})
	}
	return out
}

// running () -> thread, is_main
func (ns *Namespace) running(ls api.LkState) int {
	isMain := ls.PushThread()
	ls.PushBoolean(isMain)
	return 2
}

// wrap (f) -> function
// Like create, but returns a plain function that resumes the coroutine
// each call and raises a script error instead of returning (false, err).
func (ns *Namespace) wrap(ls api.LkState) int {
	ls.CheckType(1, api.LK_TFUNCTION)
	fn := ls.ToPointer(1)
	co := ns.spawn(ls, fn)
	ls.Pop(1) // wrap returns a function, not the thread create left on top

	wrapped := func(inner api.LkState) int {
		n := inner.GetTop()
		args := make([]any, n)
		for i := 0; i < n; i++ {
			args[i] = bridge.Pull(inner, i+1)
		}

		ok, results := ns.doResume(inner, co, args)
		if !ok {
			if len(results) > 0 {
				panic(fmt.Sprint(results[0]))
			}
			panic("coroutine error")
		}
		for _, r := range results {
			bridge.Push(inner, r)
		}
		return len(results)
	}
	ls.PushGoFunction(wrapped)
	return 1
}
