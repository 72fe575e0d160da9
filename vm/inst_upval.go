package vm

import . "github.com/lollipopkit/coronest/api"

// R(A) := Upvalue[B]
func getUpval(i Instruction, vm LkVM) {
	a, b, _ := i.ABC()
	a += 1
	b += 1

	vm.Copy(LkUpvalueIndex(b), a)
}

// Upvalue[B] := R(A)
func setUpval(i Instruction, vm LkVM) {
	a, b, _ := i.ABC()
	a += 1
	b += 1

	vm.Copy(a, LkUpvalueIndex(b))
}

// R(A) := Upvalue[B][RK(C)]
func getTabUp(i Instruction, vm LkVM) {
	a, b, c := i.ABC()
	a += 1
	b += 1

	vm.GetRK(c)
	vm.GetTable(LkUpvalueIndex(b))
	vm.Replace(a)
}

// Upvalue[A][RK(B)] := RK(C)
func setTabUp(i Instruction, vm LkVM) {
	a, b, c := i.ABC()
	a += 1

	vm.GetRK(b)
	vm.GetRK(c)
	vm.SetTable(LkUpvalueIndex(a))
}
