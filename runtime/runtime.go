// Package runtime is the embedding surface: it wires together the value
// bridge, the VM container, the coroutine namespaces and the suspend
// contract into the two invocation styles a host actually calls —
// immediate and suspending — plus the plumbing to construct a VM and
// compile chunks for it.
package runtime

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lollipopkit/coronest/api"
	"github.com/lollipopkit/coronest/bootstrap"
	"github.com/lollipopkit/coronest/bridge"
	"github.com/lollipopkit/coronest/execctx"
	"github.com/lollipopkit/coronest/future"
	"github.com/lollipopkit/coronest/logger"
	"github.com/lollipopkit/coronest/sandbox"
	"github.com/lollipopkit/coronest/state"
	"github.com/lollipopkit/coronest/stdlib"
	"github.com/lollipopkit/coronest/suspend"
	"github.com/lollipopkit/coronest/vmcontainer"
)

// HostCallable is the leaf type Options.Env recognizes as a host
// function; it is installed as a non-suspendable wrapper around the
// given function.
type HostCallable func(args []any) (any, error)

// EvalContext is the host-visible handle for one evaluation context:
// the generation a suspending invocation's cache lookups are pinned
// to. The runtime does not interpret its contents; committing and
// refreshing are pure bookkeeping around a generation counter, and any
// actual cache lives on the host side, keyed by EvalContext.
type EvalContext struct {
	Gen uint64
}

// Options configures Make.
type Options struct {
	// Out and Err are UTF-8 sinks for the script's standard streams.
	// Both default to the process's own stdout/stderr.
	Out, Err io.Writer
	// Env is merged into the globals with nested-map semantics: existing
	// tables are recursed into, other values are overwritten. Leaves of
	// type HostCallable are wrapped as non-suspendable host functions.
	Env map[string]any
	// Sandbox overrides the default project-root-relative sandbox
	// policy built from the project argument to Make.
	Sandbox *sandbox.Policy
	// OnCommit is called with the evaluation context whose pending cache
	// updates should be committed, once per refresh and once at the end
	// of every invoke-immediate call that built its own context. A nil
	// hook makes commits a no-op; there is no actual UI thread in this
	// library, so "commit on the UI thread" reduces to "call the host's
	// hook", and the host is responsible for its own thread marshaling.
	OnCommit func(*EvalContext)
}

// Code is a compiled, reusable chunk. It is intentionally cheap: the
// VM recompiles it from source on every Eval/Invoke rather than
// keeping a live closure around, so a Code value never pins any one
// coroutine's stack and is safe to run many times, including
// concurrently from independent invocations.
type Code struct {
	Source []byte
	Name   string
}

// Runtime owns one script VM.
type Runtime struct {
	container *vmcontainer.Container
	userNS    *bootstrap.Namespace
	systemNS  *bootstrap.Namespace
	sandbox   *sandbox.Policy
	onCommit  func(*EvalContext)

	genMu sync.Mutex
	gen   uint64
}

// Make builds a Runtime sandboxed to project's filesystem tree.
func Make(project string, opts Options) (*Runtime, error) {
	ls := state.New()
	ls.OpenLibs()

	policy := opts.Sandbox
	if policy == nil {
		policy = defaultSandbox(project)
	}
	ls.SetRegistry(stdlib.RegistryKeySandbox, policy)

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	ls.SetRegistry(stdlib.RegistryKeyStdout, out)

	errOut := opts.Err
	if errOut == nil {
		errOut = os.Stderr
	}
	ls.SetRegistry(stdlib.RegistryKeyStderr, errOut)

	container := vmcontainer.New(ls)

	rt := &Runtime{
		container: container,
		sandbox:   policy,
		onCommit:  opts.OnCommit,
	}
	rt.systemNS = bootstrap.NewNamespace("system", container.Track)
	rt.userNS = bootstrap.NewNamespace("user", container.Track)

	// coronest never installs a plain coroutine library to override:
	// the only coroutine tables that ever exist are the ones the
	// namespace factory produces, so binding the user namespace here is
	// both the install and the "override" the bootstrap procedure calls
	// for.
	ls.PushGlobalTable()
	rt.userNS.Table(ls)
	ls.SetField(-2, "coroutine")
	ls.Pop(1)

	ls.GetSubTable(api.LK_REGISTRYINDEX, "_LOADED")
	rt.userNS.Table(ls)
	ls.SetField(-2, "coroutine")
	ls.Pop(1)

	if len(opts.Env) > 0 {
		rt.mergeEnv(opts.Env)
	}

	return rt, nil
}

// Read compiles chunk into a reusable Code object, catching syntax
// errors immediately rather than at first use.
func (rt *Runtime) Read(chunk string, name string) (*Code, error) {
	if name == "" {
		name = "REPL"
	}
	source := []byte(chunk)
	var compileErr error
	rt.container.WithLock(func() {
		ls := rt.container.State()
		if status := ls.Load(source, name, "bt"); status != api.LK_OK {
			compileErr = &vmcontainer.ScriptError{Message: ls.ToString(-1)}
			ls.Pop(1)
			return
		}
		ls.Pop(1) // discard the compiled function; Eval/Invoke recompile on use
	})
	if compileErr != nil {
		return nil, compileErr
	}
	return &Code{Source: source, Name: name}, nil
}

// Eval runs code under the lock and returns its single script-value
// result.
func (rt *Runtime) Eval(code *Code) (any, error) {
	return rt.container.Invoke1(func(ls api.LkState) int {
		if status := ls.Load(code.Source, code.Name, "bt"); status != api.LK_OK {
			return ls.Error2("%s", ls.ToString(-1))
		}
		ls.Call(0, api.LK_MULTRET)
		return ls.GetTop()
	})
}

const cannotYieldMainThread = "attempt to yield from outside a coroutine"

// InvokeImmediate runs code synchronously under the VM lock in
// immediate mode: any suspendable it calls raises a script error
// instead of suspending. If evalCtx is nil, a fresh one is derived and
// committed on success.
func (rt *Runtime) InvokeImmediate(code *Code, args []any, evalCtx *EvalContext) (any, error) {
	ownCtx := evalCtx == nil
	if ownCtx {
		evalCtx = rt.freshEvalContext()
	}
	ctx := execctx.Context{EvalCtx: evalCtx, Runtime: rt, Mode: execctx.Immediate}

	var result any
	var callErr error
	rt.container.WithLock(func() {
		ls := rt.container.State()
		restore := execctx.Bind(ls, ctx)
		defer restore()

		status := ls.Load(code.Source, code.Name, "bt")
		if status == api.LK_OK {
			for _, a := range args {
				bridge.Push(ls, a)
			}
			status = ls.PCall(len(args), 1, 0)
		}
		if status != api.LK_OK {
			msg := ls.ToString(-1)
			ls.Pop(1)
			callErr = translateImmediateError(msg)
			return
		}
		result = bridge.Pull(ls, -1)
		ls.Pop(1)
	})

	if callErr == nil && ownCtx {
		rt.commit(evalCtx)
	}
	return result, callErr
}

func translateImmediateError(msg string) error {
	if strings.HasSuffix(msg, cannotYieldMainThread) {
		return &vmcontainer.ScriptError{Message: "Cannot use long-running editor function in this context"}
	}
	return &vmcontainer.ScriptError{Message: msg}
}

// InvokeSuspending runs code to completion, suspending the returned
// future (rather than any host thread) at every suspendable call. A
// script that never calls a suspendable resolves the future
// synchronously, before InvokeSuspending returns.
func (rt *Runtime) InvokeSuspending(code *Code, args []any) *future.Future[any] {
	result := future.New[any]()

	var co api.LkState
	var loadErr error
	rt.container.WithLock(func() {
		ls := rt.container.State()
		status := ls.Load(code.Source, code.Name, "bt")
		if status != api.LK_OK {
			loadErr = &vmcontainer.ScriptError{Message: ls.ToString(-1)}
			ls.Pop(1)
			return
		}
		fn := ls.ToPointer(-1)
		ls.Pop(1)
		co = rt.systemNS.CreateFromHost(ls, fn)
		ls.Pop(1) // drop the thread value CreateFromHost left on the stack
	})
	if loadErr != nil {
		result.Reject(loadErr)
		return result
	}

	ctx := execctx.Context{EvalCtx: rt.freshEvalContext(), Runtime: rt, Mode: execctx.Suspendable}
	rt.driveStep(ctx, co, args, result)
	return result
}

// driveStep is one resume of the drive loop: it resumes co, and either
// completes result, fails it, or hands the coroutine's Suspend Token
// off to its host function and recurses once that resolves. The lock
// is held only around the resume itself, never across the host call or
// the awaited future.
func (rt *Runtime) driveStep(ctx execctx.Context, co api.LkState, args []any, result *future.Future[any]) {
	var ok bool
	var ret any
	var status string
	rt.container.WithLock(func() {
		restore := execctx.Bind(co, ctx)
		defer restore()
		ok, ret, status = rt.systemNS.ResumeFromHost(rt.container.State(), co, args)
	})

	if !ok {
		msg := fmt.Sprint(ret)
		logger.E("drive step failed: %s", msg)
		result.Reject(&vmcontainer.ScriptError{Message: msg})
		return
	}
	if status == "dead" {
		logger.I("drive step: coroutine dead, resolving with %v", ret)
		result.Resolve(ret)
		return
	}

	token, isToken := ret.(suspend.Token)
	if !isToken {
		result.Reject(fmt.Errorf("suspended coroutine yielded a non-token value (%T)", ret))
		return
	}

	logger.I("drive step: suspended, dispatching host function")
	hostFuture := rt.callSuspendHost(token)
	hostFuture.OnComplete(func(sr suspend.Result, err error) {
		if err != nil {
			result.Reject(err)
			return
		}

		nextCtx := ctx
		if sr.WantsRefresh() {
			rt.commit(ctx.EvalCtx.(*EvalContext))
			nextCtx = execctx.Context{EvalCtx: rt.freshEvalContext(), Runtime: rt, Mode: execctx.Suspendable}
		}

		delivery := suspend.Delivery{Value: sr.Value(), Err: sr.Error()}
		rt.driveStep(nextCtx, co, []any{delivery}, result)
	})
}

// callSuspendHost invokes a Suspend Token's host function without
// holding the VM lock, converting a script-level panic from the host
// function into a completed Error result rather than failing the step
// outright.
func (rt *Runtime) callSuspendHost(token suspend.Token) (out *future.Future[suspend.Result]) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*vmcontainer.ScriptError); ok {
				out = future.Completed(suspend.Err(se))
				return
			}
			panic(r)
		}
	}()
	return token.Fn(token.Args)
}

// CoroutineStatus is one entry of an Inspect snapshot.
type CoroutineStatus struct {
	Namespace string
	ID        string
	State     string
}

// Inspect lists every coroutine currently tracked by either namespace,
// for a host-side diagnostic view (see cmd/coronest inspect). It takes
// no VM lock: the namespaces guard their own bookkeeping with a plain
// mutex, independent of the script VM's lock, since a hung coroutine
// is exactly the case where the VM lock may not be obtainable.
func (rt *Runtime) Inspect() []CoroutineStatus {
	var out []CoroutineStatus
	for _, s := range rt.systemNS.Snapshot() {
		out = append(out, CoroutineStatus{Namespace: "system", ID: s.ID, State: s.State})
	}
	for _, s := range rt.userNS.Snapshot() {
		out = append(out, CoroutineStatus{Namespace: "user", ID: s.ID, State: s.State})
	}
	return out
}

func (rt *Runtime) freshEvalContext() *EvalContext {
	rt.genMu.Lock()
	defer rt.genMu.Unlock()
	rt.gen++
	return &EvalContext{Gen: rt.gen}
}

func (rt *Runtime) commit(ctx *EvalContext) {
	if rt.onCommit != nil {
		rt.onCommit(ctx)
	}
}

// NewSuspendable wraps a host async operation as a script-visible
// GoFunction. See suspend.NewSuspendable.
func (rt *Runtime) NewSuspendable(fn suspend.HostFunc) api.GoFunction {
	return suspend.NewSuspendable(fn)
}

// NewHostFunc wraps a plain host operation as a script-visible
// GoFunction. See suspend.NewHostFunc.
func (rt *Runtime) NewHostFunc(fn HostCallable) api.GoFunction {
	return suspend.NewHostFunc(func(args []any) (any, error) { return fn(args) })
}

// ToLua normalizes a host value into the shapes the value bridge
// recognizes without touching any live VM stack: []any becomes a
// Sequence, map[string]any becomes a Mapping. Other values pass
// through unchanged; Eval/InvokeImmediate/InvokeSuspending push the
// result themselves.
func ToLua(v any) any {
	switch x := v.(type) {
	case []any:
		return bridge.Sequence(x)
	case map[string]any:
		m := make(bridge.Mapping, len(x))
		for k, vv := range x {
			m[k] = vv
		}
		return m
	default:
		return v
	}
}

// ToClj reads the named global back into host form.
func (rt *Runtime) ToClj(globalName string) any {
	var v any
	rt.container.WithLock(func() {
		ls := rt.container.State()
		ls.GetGlobal(globalName)
		v = bridge.Pull(ls, -1)
		ls.Pop(1)
	})
	return v
}

func (rt *Runtime) mergeEnv(env map[string]any) {
	rt.container.WithLock(func() {
		ls := rt.container.State()
		ls.PushGlobalTable()
		mergeInto(ls, ls.GetTop(), env)
		ls.Pop(1)
	})
}

func mergeInto(ls api.LkState, tableIdx int, env map[string]any) {
	for k, v := range env {
		if nested, isMap := v.(map[string]any); isMap {
			if ls.GetField(tableIdx, k) == api.LK_TTABLE {
				mergeInto(ls, ls.GetTop(), nested)
				ls.Pop(1)
				continue
			}
			ls.Pop(1)
			ls.CreateTable(0, len(nested))
			mergeInto(ls, ls.GetTop(), nested)
			ls.SetField(tableIdx, k)
			continue
		}
		if fn, isCallable := v.(HostCallable); isCallable {
			ls.PushGoFunction(suspend.NewHostFunc(func(args []any) (any, error) { return fn(args) }))
			ls.SetField(tableIdx, k)
			continue
		}
		bridge.Push(ls, v)
		ls.SetField(tableIdx, k)
	}
}

func defaultSandbox(root string) *sandbox.Policy {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}
	return &sandbox.Policy{
		Loader: func(path string) ([]byte, bool) {
			resolved, err := resolveUnderRoot(absRoot, path)
			if err != nil {
				return nil, false
			}
			data, err := os.ReadFile(resolved)
			if err != nil {
				return nil, false
			}
			return data, true
		},
		Paths: func(path string) (string, error) {
			return resolveUnderRoot(absRoot, path)
		},
	}
}

func resolveUnderRoot(root, path string) (string, error) {
	cleaned := filepath.Clean(filepath.Join(root, path))
	rel, err := filepath.Rel(root, cleaned)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &sandbox.ErrOutsideRoot{Path: path}
	}
	return cleaned, nil
}
