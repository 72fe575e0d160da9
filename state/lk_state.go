package state

import . "github.com/lollipopkit/coronest/api"

type lkState struct {
	registry *lkTable
	stack    *lkStack
	/* coroutine */
	coStatus LkStatus
	coCaller *lkState
	coChan   chan int
	/* host-side plumbing, shared with threads spawned from this state */
	hostRegistry map[string]any
	/* called around the lifetime of this thread's dedicated goroutine,
	   from the moment it starts running script code via Resume until it
	   returns or finally yields its last yield. nil on the main thread,
	   which never runs on a dedicated goroutine. */
	onWorkerStart func()
	onWorkerEnd   func()
}

func New() LkState {
	ls := &lkState{}

	registry := newLkTable(8, 0)
	registry.put(LK_RIDX_MAINTHREAD, ls)
	registry.put(LK_RIDX_GLOBALS, newLkTable(0, 20))

	ls.registry = registry
	ls.pushLuaStack(newLuaStack(LK_MINSTACK, ls))
	return ls
}

func (self *lkState) isMainThread() bool {
	return self.registry.get(LK_RIDX_MAINTHREAD) == self
}

func (self *lkState) pushLuaStack(stack *lkStack) {
	stack.prev = self.stack
	self.stack = stack
}

func (self *lkState) popLuaStack() {
	stack := self.stack
	self.stack = stack.prev
	stack.prev = nil
}
