package state

import (
	. "github.com/lollipopkit/coronest/api"
	"github.com/lollipopkit/coronest/compiler"
)

// [-0, +1, –]
// http://www.lua.org/manual/5.3/manual.html#lua_load
//
// mode is accepted for API compatibility but ignored: the compiler always
// produces a loadable prototype from the given chunk bytes.
func (self *lkState) Load(chunk []byte, chunkName, mode string) LkStatus {
	proto := compiler.Compile(string(chunk), chunkName)

	c := newLuaClosure(proto)
	self.stack.push(c)
	if len(proto.Upvalues) > 0 {
		env := self.registry.get(LK_RIDX_GLOBALS)
		c.upVals[0] = &env
	}
	return LK_OK
}
