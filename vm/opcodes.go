package vm

import . "github.com/lollipopkit/coronest/api"

// instruction operand formats
const (
	IABC  = iota // [OP:6][A:8][C:9][B:9]
	IABx         // [OP:6][A:8][Bx:18]
	IAsBx        // [OP:6][A:8][sBx:18]
	IAx          // [OP:6][Ax:26]
)

// how an operand is used by an opcode, kept for symmetry with the
// argument-mode tables a bytecode dumper would want even though
// nothing here prints one yet
const (
	OpArgN = iota // argument is not used
	OpArgU        // argument is used
	OpArgR        // argument is a register or a jump offset
	OpArgK        // argument is a constant or a register/constant
)

const (
	OP_MOVE = iota
	OP_LOADK
	OP_LOADKX
	OP_LOADBOOL
	OP_LOADNIL
	OP_GETUPVAL
	OP_GETTABUP
	OP_GETTABLE
	OP_SETTABUP
	OP_SETUPVAL
	OP_SETTABLE
	OP_NEWMAP
	OP_NEWLIST
	OP_SELF
	OP_ADD
	OP_SUB
	OP_MUL
	OP_MOD
	OP_POW
	OP_DIV
	OP_IDIV
	OP_BAND
	OP_BOR
	OP_BXOR
	OP_SHL
	OP_SHR
	OP_UNM
	OP_BNOT
	OP_NOT
	OP_LEN
	OP_JMP
	OP_EQ
	OP_LT
	OP_LE
	OP_TEST
	OP_TESTSET
	OP_CALL
	OP_TAILCALL
	OP_RETURN
	OP_VARARG
	OP_CLOSURE
	OP_SETLIST
)

type opcode struct {
	testFlag byte // operand A is a boolean test
	argBMode byte
	argCMode byte
	opMode   byte
	name     string
	action   func(i Instruction, vm LkVM)
}

var opcodes = []opcode{
	{0, OpArgR, OpArgN, IABC, "MOVE", move},
	{0, OpArgK, OpArgN, IABx, "LOADK", loadK},
	{0, OpArgN, OpArgN, IABx, "LOADKX", loadKx},
	{0, OpArgU, OpArgU, IABC, "LOADBOOL", loadBool},
	{0, OpArgU, OpArgN, IABC, "LOADNIL", loadNil},
	{0, OpArgU, OpArgN, IABC, "GETUPVAL", getUpval},
	{0, OpArgU, OpArgK, IABC, "GETTABUP", getTabUp},
	{0, OpArgR, OpArgK, IABC, "GETTABLE", getTable},
	{0, OpArgK, OpArgK, IABC, "SETTABUP", setTabUp},
	{0, OpArgU, OpArgN, IABC, "SETUPVAL", setUpval},
	{0, OpArgK, OpArgK, IABC, "SETTABLE", setTable},
	{0, OpArgU, OpArgU, IABC, "NEWMAP", newMap},
	{0, OpArgU, OpArgN, IABC, "NEWLIST", newList},
	{0, OpArgR, OpArgK, IABC, "SELF", self},
	{0, OpArgK, OpArgK, IABC, "ADD", add},
	{0, OpArgK, OpArgK, IABC, "SUB", sub},
	{0, OpArgK, OpArgK, IABC, "MUL", mul},
	{0, OpArgK, OpArgK, IABC, "MOD", mod},
	{0, OpArgK, OpArgK, IABC, "POW", pow},
	{0, OpArgK, OpArgK, IABC, "DIV", div},
	{0, OpArgK, OpArgK, IABC, "IDIV", idiv},
	{0, OpArgK, OpArgK, IABC, "BAND", band},
	{0, OpArgK, OpArgK, IABC, "BOR", bor},
	{0, OpArgK, OpArgK, IABC, "BXOR", bxor},
	{0, OpArgK, OpArgK, IABC, "SHL", shl},
	{0, OpArgK, OpArgK, IABC, "SHR", shr},
	{0, OpArgR, OpArgN, IABC, "UNM", unm},
	{0, OpArgR, OpArgN, IABC, "BNOT", bnot},
	{0, OpArgR, OpArgN, IABC, "NOT", not},
	{0, OpArgR, OpArgN, IABC, "LEN", length},
	{0, OpArgR, OpArgN, IAsBx, "JMP", jmp},
	{1, OpArgK, OpArgK, IABC, "EQ", eq},
	{1, OpArgK, OpArgK, IABC, "LT", lt},
	{1, OpArgK, OpArgK, IABC, "LE", le},
	{1, OpArgN, OpArgU, IABC, "TEST", test},
	{1, OpArgR, OpArgU, IABC, "TESTSET", testSet},
	{0, OpArgU, OpArgU, IABC, "CALL", call},
	{0, OpArgU, OpArgU, IABC, "TAILCALL", tailCall},
	{0, OpArgU, OpArgN, IABC, "RETURN", returnOp},
	{0, OpArgU, OpArgN, IABC, "VARARG", vararg},
	{0, OpArgU, OpArgN, IABx, "CLOSURE", closure},
	{0, OpArgU, OpArgU, IABC, "SETLIST", setList},
}

const maxArgBx = 1<<18 - 1
const maxArgSBx = maxArgBx >> 1

// Instruction is a single 32-bit coded VM instruction, decoded lazily
// by its opcode's operand format.
type Instruction uint32

func (self Instruction) Opcode() int {
	return int(self & 0x3F)
}

func (self Instruction) ABC() (a, b, c int) {
	a = int(self >> 6 & 0xFF)
	c = int(self >> 14 & 0x1FF)
	b = int(self >> 23 & 0x1FF)
	return
}

func (self Instruction) ABx() (a, bx int) {
	a = int(self >> 6 & 0xFF)
	bx = int(self >> 14)
	return
}

func (self Instruction) AsBx() (a, sbx int) {
	a, bx := self.ABx()
	return a, bx - maxArgSBx
}

func (self Instruction) Ax() int {
	return int(self >> 6)
}

func (self Instruction) OpName() string {
	return opcodes[self.Opcode()].name
}

func (self Instruction) OpMode() byte {
	return opcodes[self.Opcode()].opMode
}

func (self Instruction) BMode() byte {
	return opcodes[self.Opcode()].argBMode
}

func (self Instruction) CMode() byte {
	return opcodes[self.Opcode()].argCMode
}

// Execute dispatches to the opcode's handler, which pulls its operands
// off vm's own stack rather than taking them as Go arguments.
func (self Instruction) Execute(vm LkVM) {
	action := opcodes[self.Opcode()].action
	if action == nil {
		panic("opcode not implemented: " + self.OpName())
	}
	action(self, vm)
}

// Fb2int decodes Lua's "floating byte" size hint (9 significant bits
// packed into a byte: eeeeexxx -> (1xxx) * 2^(eeeee-1), or xxx for
// small values) back into an integer.
func Fb2int(x int) int {
	if x < 8 {
		return x
	}
	return ((x & 7) + 8) << uint((x>>3)-1)
}

// Int2fb is the inverse of Fb2int, used by the compiler when it wants
// to size a table constructor's array part ahead of time.
func Int2fb(x int) int {
	e := 0
	if x < 8 {
		return x
	}
	for x >= 16 {
		x = (x + 1) >> 1
		e++
	}
	return ((e + 1) << 3) | (x - 8)
}
