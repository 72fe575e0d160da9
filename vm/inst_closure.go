package vm

import . "github.com/lollipopkit/coronest/api"

// R(A) := closure(KPROTO[Bx])
func closure(i Instruction, vm LkVM) {
	a, bx := i.ABx()
	a += 1

	vm.LoadProto(bx)
	vm.Replace(a)
}
