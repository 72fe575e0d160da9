// Package vmcontainer owns one script VM and serializes concurrent host
// access to it behind a reentrant lock that is bypassed on the VM's own
// coroutine worker goroutines.
package vmcontainer

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"

	"github.com/lollipopkit/coronest/api"
	"github.com/lollipopkit/coronest/bridge"
)

// Container owns the VM's main thread and every thread derived from it.
// Every public operation that touches VM state goes through WithLock,
// Invoke1 or InvokeAll.
type Container struct {
	ls api.LkState

	mu      sync.Mutex
	workers sync.Map // goroutine id (uint64) -> struct{}
}

func New(ls api.LkState) *Container {
	return &Container{ls: ls}
}

// State returns the underlying main-thread LkState. Callers must already
// hold the lock (directly, or by running inside WithLock/Invoke1/InvokeAll).
func (c *Container) State() api.LkState { return c.ls }

// Track arms thread as one of this container's coroutine workers: the
// goroutine that ends up running it must bypass the lock, because the
// host thread that resumes it is parked holding the lock for the
// duration. Call once per thread, before its first Resume.
func (c *Container) Track(thread api.LkState) {
	thread.SetWorkerHooks(c.markWorkerStart, c.markWorkerEnd)
}

func (c *Container) markWorkerStart() { c.workers.Store(goroutineID(), struct{}{}) }
func (c *Container) markWorkerEnd()   { c.workers.Delete(goroutineID()) }

func (c *Container) mustLock() bool {
	_, isWorker := c.workers.Load(goroutineID())
	return !isWorker
}

// WithLock runs body under the container's lock, unless the calling
// goroutine is one of the VM's own coroutine workers, in which case body
// runs directly on the assumption the right-of-way was already acquired
// by the host thread that resumed it.
func (c *Container) WithLock(body func()) {
	if c.mustLock() {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	body()
}

// ScriptError is a script-visible error: a script raised it, or a resume
// returned ok=false. Message is the script error value's string form.
type ScriptError struct{ Message string }

func (e *ScriptError) Error() string { return e.Message }

// Invoke1 calls fn(args...) under the lock, converting args with the
// value bridge, and returns the first result converted back to a host
// value.
func (c *Container) Invoke1(fn api.GoFunction, args ...any) (result any, err error) {
	c.WithLock(func() {
		results, callErr := c.call(fn, args, 1)
		err = callErr
		if err == nil && len(results) > 0 {
			result = results[0]
		}
	})
	return
}

// InvokeAll calls fn(args...) under the lock and returns every result.
func (c *Container) InvokeAll(fn api.GoFunction, args ...any) (results []any, err error) {
	c.WithLock(func() {
		results, err = c.call(fn, args, -1)
	})
	return
}

func (c *Container) call(fn api.GoFunction, args []any, nResults int) ([]any, error) {
	ls := c.ls
	ls.PushGoFunction(fn)
	for _, a := range args {
		bridge.Push(ls, a)
	}
	base := ls.GetTop() - len(args) - 1
	status := ls.PCall(len(args), nResults, 0)
	if status != api.LK_OK {
		msg := ls.ToString(-1)
		ls.Pop(1)
		return nil, &ScriptError{Message: msg}
	}
	got := ls.GetTop() - base
	results := make([]any, got)
	for i := 0; i < got; i++ {
		results[i] = bridge.Pull(ls, base+1+i)
	}
	ls.SetTop(base)
	return results, nil
}

// goroutineID extracts the numeric id the runtime assigns the calling
// goroutine by parsing the header line of runtime.Stack's output.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		if id, err := strconv.ParseUint(string(b[:i]), 10, 64); err == nil {
			return id
		}
	}
	return 0
}
