package state

// SetRegistry stashes a host-side value under key, invisible to scripts.
// Used to hand output sinks, sandbox predicates and execution context
// down into GoFunctions without threading extra parameters through the
// BasicAPI surface.
func (self *lkState) SetRegistry(key string, v any) {
	if self.hostRegistry == nil {
		self.hostRegistry = make(map[string]any)
	}
	self.hostRegistry[key] = v
}

func (self *lkState) GetRegistry(key string) (any, bool) {
	if self.hostRegistry == nil {
		return nil, false
	}
	v, ok := self.hostRegistry[key]
	return v, ok
}

// SetWorkerHooks installs the functions invoked when this thread's
// dedicated goroutine starts and finishes running script code, so the VM
// container can recognize reentrant calls from a coroutine's own worker
// goroutine.
func (self *lkState) SetWorkerHooks(onStart, onEnd func()) {
	self.onWorkerStart = onStart
	self.onWorkerEnd = onEnd
}
