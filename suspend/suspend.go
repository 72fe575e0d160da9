// Package suspend defines the contract between script-visible host
// callables and the invocation supervisor: Suspend Tokens carry a
// paused call out of the coroutine that produced it, Suspend Results
// carry the answer back in.
package suspend

import (
	"fmt"

	"github.com/lollipopkit/coronest/api"
	"github.com/lollipopkit/coronest/bridge"
	"github.com/lollipopkit/coronest/execctx"
	"github.com/lollipopkit/coronest/future"
)

// Result is the sum type a suspendable's host function resolves its
// future with: a plain value, a script-level error, or a value that
// additionally asks the supervisor to refresh the evaluation context
// before the script observes it.
type Result struct {
	value   any
	err     error
	refresh bool
}

func Value(v any) Result           { return Result{value: v} }
func ValueWithRefresh(v any) Result { return Result{value: v, refresh: true} }
func Err(err error) Result          { return Result{err: err} }

func (r Result) IsError() bool      { return r.err != nil }
func (r Result) Error() error       { return r.err }
func (r Result) Value() any         { return r.value }
func (r Result) WantsRefresh() bool { return r.refresh }

// Token is what a suspendable wrapper hands the system namespace's
// yield: the host function that actually performs the long-running
// work, plus the script arguments captured at the call site. Only the
// invocation supervisor's drive loop ever sees one.
type Token struct {
	Fn   HostFunc
	Args []any
}

// HostFunc is the async host operation a suspendable wraps.
type HostFunc func(args []any) *future.Future[Result]

// Delivery is what the drive loop resumes a parked coroutine with: the
// Suspend Result translated into plain success/failure, since resume
// itself has no notion of Suspend Results.
type Delivery struct {
	Value any
	Err   error
}

const immediateModeError = "Cannot use long-running editor function in immediate context."

// NewSuspendable builds the script-visible GoFunction for a host
// async operation. Calling it from script: in immediate mode raises a
// script error; otherwise it captures the call's arguments into a
// Token, yields that token out of the coroutine worker thread (taking
// no lock), and on resume converts the delivered Suspend Result into
// either a returned value or a raised script error.
func NewSuspendable(fn HostFunc) api.GoFunction {
	return func(ls api.LkState) int {
		ctx, ok := execctx.Current(ls)
		if !ok || ctx.Mode == execctx.Immediate {
			return ls.Error2(immediateModeError)
		}

		n := ls.GetTop()
		args := make([]any, n)
		for i := 0; i < n; i++ {
			args[i] = bridge.Pull(ls, i+1)
		}

		ls.SetTop(0)
		bridge.Push(ls, Token{Fn: fn, Args: args})
		ls.Yield(1)

		delivered := bridge.Pull(ls, 1)
		d, isDelivery := delivered.(Delivery)
		if !isDelivery {
			return ls.Error2("malformed suspend delivery: %T", delivered)
		}
		if d.Err != nil {
			return ls.Error2("%s", d.Err.Error())
		}
		bridge.Push(ls, d.Value)
		return 1
	}
}

// NewHostFunc builds the script-visible GoFunction for a plain
// (non-suspending) host callable: it runs f synchronously under the
// calling thread's already-held lock, converts its return value, and
// turns a returned error or a panic into a script error.
func NewHostFunc(f func(args []any) (any, error)) api.GoFunction {
	return func(ls api.LkState) int {
		n := ls.GetTop()
		args := make([]any, n)
		for i := 0; i < n; i++ {
			args[i] = bridge.Pull(ls, i+1)
		}

		result, err := callCatchingPanics(f, args)
		if err != nil {
			return ls.Error2("%s", err.Error())
		}
		bridge.Push(ls, result)
		return 1
	}
}

func callCatchingPanics(f func([]any) (any, error), args []any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return f(args)
}
