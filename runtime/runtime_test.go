package runtime_test

import (
	"sync"
	"testing"

	"github.com/lollipopkit/coronest/future"
	"github.com/lollipopkit/coronest/runtime"
	"github.com/lollipopkit/coronest/suspend"
)

func mustMake(t *testing.T, opts runtime.Options) *runtime.Runtime {
	t.Helper()
	rt, err := runtime.Make(t.TempDir(), opts)
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	return rt
}

func TestInvokeImmediateRoundTrip(t *testing.T) {
	rt := mustMake(t, runtime.Options{})
	code, err := rt.Read("rt 1 + 2", "t")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	v, err := rt.InvokeImmediate(code, nil, nil)
	if err != nil {
		t.Fatalf("InvokeImmediate: %v", err)
	}
	if v != int64(3) {
		t.Fatalf("result %v (%T)", v, v)
	}
}

// Many goroutines calling InvokeImmediate concurrently must serialize
// through the container lock rather than racing the shared global table.
func TestInvokeImmediateSerializesAcrossGoroutines(t *testing.T) {
	rt := mustMake(t, runtime.Options{
		Env: map[string]any{"counter": int64(0)},
	})
	incr, err := rt.Read("counter = counter + 1\nrt counter", "incr")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := rt.InvokeImmediate(incr, nil, nil); err != nil {
				t.Errorf("InvokeImmediate: %v", err)
			}
		}()
	}
	wg.Wait()

	final, err := rt.InvokeImmediate(mustRead(t, rt, "rt counter"), nil, nil)
	if err != nil {
		t.Fatalf("InvokeImmediate final read: %v", err)
	}
	if final != int64(n) {
		t.Fatalf("counter = %v, want %d", final, n)
	}
}

func mustRead(t *testing.T, rt *runtime.Runtime, src string) *runtime.Code {
	t.Helper()
	code, err := rt.Read(src, "t")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return code
}

// A script that never calls a suspendable resolves its future
// synchronously, with no coroutine handoff visible to the caller.
func TestInvokeSuspendingResolvesSynchronouslyWithoutYield(t *testing.T) {
	rt := mustMake(t, runtime.Options{})
	code := mustRead(t, rt, "rt 40 + 2")

	f := rt.InvokeSuspending(code, nil)
	if !f.Done() {
		t.Fatalf("future not resolved synchronously")
	}
	v, err := f.Wait()
	if err != nil {
		t.Fatalf("InvokeSuspending: %v", err)
	}
	if v != int64(42) {
		t.Fatalf("result %v", v)
	}
}

// Calling a suspendable from InvokeImmediate must raise a script error
// instead of suspending the calling goroutine.
func TestInvokeImmediateRejectsSuspendable(t *testing.T) {
	wait := suspend.NewSuspendable(func(args []any) *future.Future[suspend.Result] {
		return future.Completed(suspend.Value("never gets here"))
	})
	rt := mustMake(t, runtime.Options{
		Env: map[string]any{"wait": wait},
	})
	code := mustRead(t, rt, "rt wait()")
	_, err := rt.InvokeImmediate(code, nil, nil)
	if err == nil {
		t.Fatalf("expected an error calling a suspendable from immediate mode")
	}
}

// A HostCallable registered through Options.Env must be reachable from
// script and run synchronously under the lock it was called with.
func TestHostCallableEnvInjection(t *testing.T) {
	var called bool
	rt := mustMake(t, runtime.Options{
		Env: map[string]any{
			"ping": runtime.HostCallable(func(args []any) (any, error) {
				called = true
				return "pong", nil
			}),
		},
	})
	code := mustRead(t, rt, "rt ping()")
	v, err := rt.InvokeImmediate(code, nil, nil)
	if err != nil {
		t.Fatalf("InvokeImmediate: %v", err)
	}
	if !called {
		t.Fatalf("host callable never invoked")
	}
	if v != "pong" {
		t.Fatalf("result %v", v)
	}
}

// A refresh-wanting suspend result must hand the drive loop a fresh
// EvalContext once the suspending call it came from completes.
func TestRefreshingSuspendableTriggersCommit(t *testing.T) {
	var committed []*runtime.EvalContext
	var mu sync.Mutex

	refresher := suspend.NewSuspendable(func(args []any) *future.Future[suspend.Result] {
		return future.Completed(suspend.ValueWithRefresh("refreshed"))
	})

	rt := mustMake(t, runtime.Options{
		Env: map[string]any{"refresh_me": refresher},
		OnCommit: func(ctx *runtime.EvalContext) {
			mu.Lock()
			committed = append(committed, ctx)
			mu.Unlock()
		},
	})

	code := mustRead(t, rt, "rt refresh_me()")
	f := rt.InvokeSuspending(code, nil)
	v, err := f.Wait()
	if err != nil {
		t.Fatalf("InvokeSuspending: %v", err)
	}
	if v != "refreshed" {
		t.Fatalf("result %v", v)
	}

	mu.Lock()
	n := len(committed)
	mu.Unlock()
	if n != 1 {
		t.Fatalf("commits = %d, want 1", n)
	}
}

func TestInspectReflectsNoLiveCoroutinesAtRest(t *testing.T) {
	rt := mustMake(t, runtime.Options{})
	statuses := rt.Inspect()
	for _, s := range statuses {
		if s.State == "running" {
			t.Fatalf("unexpected running coroutine at rest: %+v", s)
		}
	}
}
