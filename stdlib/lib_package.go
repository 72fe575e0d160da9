package stdlib

import (
	. "github.com/lollipopkit/coronest/api"
	"github.com/lollipopkit/coronest/sandbox"
)

// RegistryKeySandbox names the host registry slot holding this VM's
// *sandbox.Policy. A nil policy makes require/io.open refuse everything.
const RegistryKeySandbox = "coronest.sandbox"

func sandboxOf(ls LkState) *sandbox.Policy {
	if v, ok := ls.GetRegistry(RegistryKeySandbox); ok {
		if p, ok := v.(*sandbox.Policy); ok {
			return p
		}
	}
	return nil
}

var pkgLib = map[string]GoFunction{
	"require": pkgRequire,
}

func OpenPackageLib(ls LkState) int {
	ls.NewLib(pkgLib)
	return 1
}

// pkg.require (name)
// Resolves name through the runtime's sandboxed resource loader instead
// of the host filesystem or any host class loader; no other searcher is
// consulted.
func pkgRequire(ls LkState) int {
	name := ls.CheckString(1)

	ls.GetSubTable(LK_REGISTRYINDEX, "_LOADED")
	ls.GetField(-1, name)
	if ls.ToBoolean(-1) {
		ls.Remove(-2)
		return 1
	}
	ls.Pop(1) // discard nil/false

	data, ok := sandboxOf(ls).Load(name)
	if !ok {
		ls.Pop(1) // discard _LOADED
		return ls.Error2("module '%s' not found", name)
	}

	if status := ls.Load(data, name, "bt"); status != LK_OK {
		msg := ls.ToString(-1)
		ls.Pop(2) // error message, _LOADED
		return ls.Error2("error loading module '%s': %s", name, msg)
	}
	ls.PushString(name)
	ls.Call(1, 1) // run the chunk with its own name as an argument

	ls.PushValue(-1)
	ls.SetField(-3, name) // _LOADED[name] = module
	ls.Remove(-2)          // remove _LOADED
	return 1
}
