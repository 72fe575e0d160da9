package codegen

import (
	. "github.com/lollipopkit/coronest/compiler/ast"
	. "github.com/lollipopkit/coronest/compiler/lexer"
	. "github.com/lollipopkit/coronest/vm"
)

const maxArgSBx = 1<<18 - 1>>1

type upvalInfo struct {
	locVarSlot int
	upvalIndex int
	index      int
}

type locVarInfo struct {
	prev     *locVarInfo
	name     string
	scope    int
	slot     int
	captured bool
	startPC  int
	endPC    int
}

// funcInfo accumulates one function body's worth of register
// allocation, scoping, and emitted code as the codegen walks its
// block; toProto() in fi2proto.go reads it back out into a Prototype.
type funcInfo struct {
	parent   *funcInfo
	subFuncs []*funcInfo

	usedRegs int
	maxRegs  int
	scopeLvl int

	locVars  []*locVarInfo
	locNames map[string]*locVarInfo
	upvalues map[string]upvalInfo

	constants map[interface{}]int
	breaks    [][]int

	insts    []uint32
	lineNums []uint32

	line      int
	lastLine  int
	numParams int
	isVararg  bool
}

func newFuncInfo(parent *funcInfo, fd *FuncDefExp) *funcInfo {
	return &funcInfo{
		parent:    parent,
		subFuncs:  []*funcInfo{},
		locVars:   make([]*locVarInfo, 0, 8),
		locNames:  map[string]*locVarInfo{},
		upvalues:  map[string]upvalInfo{},
		constants: map[interface{}]int{},
		breaks:    make([][]int, 1),
		insts:     make([]uint32, 0, 8),
		line:      fd.Line,
		lastLine:  fd.LastLine,
		numParams: len(fd.ParList),
		isVararg:  fd.IsVararg,
	}
}

func (self *funcInfo) indexOfConstant(k interface{}) int {
	if idx, found := self.constants[k]; found {
		return idx
	}
	idx := len(self.constants)
	self.constants[k] = idx
	return idx
}

/* registers */

func (self *funcInfo) allocReg() int {
	self.usedRegs++
	if self.usedRegs >= 255 {
		panic("function or expression needs too many registers")
	}
	if self.usedRegs > self.maxRegs {
		self.maxRegs = self.usedRegs
	}
	return self.usedRegs - 1
}

func (self *funcInfo) freeReg() {
	if self.usedRegs <= 0 {
		panic("usedRegs <= 0 !")
	}
	self.usedRegs--
}

func (self *funcInfo) allocRegs(n int) int {
	for i := 0; i < n; i++ {
		self.allocReg()
	}
	return self.usedRegs - n
}

func (self *funcInfo) freeRegs(n int) {
	for i := 0; i < n; i++ {
		self.freeReg()
	}
}

/* lexical scope */

func (self *funcInfo) enterScope(breakable bool) {
	self.scopeLvl++
	if breakable {
		self.breaks = append(self.breaks, []int{})
	} else {
		self.breaks = append(self.breaks, nil)
	}
}

func (self *funcInfo) exitScope(endPC int) {
	pendingBreakJmps := self.breaks[len(self.breaks)-1]
	self.breaks = self.breaks[:len(self.breaks)-1]

	for _, pc := range pendingBreakJmps {
		sBx := self.pc() - pc
		ins := (uint32(sBx+maxArgSBx) << 14) | self.insts[pc]&0x3FFF
		self.insts[pc] = ins
	}

	self.scopeLvl--
	for _, locVar := range self.locNames {
		if locVar.scope == self.scopeLvl {
			locVar.endPC = endPC
			self.removeLocVar(locVar)
		}
	}
}

func (self *funcInfo) removeLocVar(locVar *locVarInfo) {
	if locVar.prev == nil {
		delete(self.locNames, locVar.name)
	} else if locVar.prev.scope == locVar.scope {
		self.removeLocVar(locVar.prev)
	} else {
		self.locNames[locVar.name] = locVar.prev
	}
}

func (self *funcInfo) addLocVar(name string, startPC int) int {
	newVar := &locVarInfo{
		name:    name,
		prev:    self.locNames[name],
		scope:   self.scopeLvl,
		slot:    self.allocReg(),
		startPC: startPC,
		endPC:   0,
	}

	self.locVars = append(self.locVars, newVar)
	self.locNames[name] = newVar

	return newVar.slot
}

func (self *funcInfo) slotOfLocVar(name string) int {
	if locVar, found := self.locNames[name]; found {
		return locVar.slot
	}
	return -1
}

func (self *funcInfo) addBreakJmp(pc int) {
	for i := self.scopeLvl; i >= 0; i-- {
		if self.breaks[i] != nil {
			self.breaks[i] = append(self.breaks[i], pc)
			return
		}
	}
	panic("break outside loop")
}

/* upvalues */

func (self *funcInfo) indexOfUpval(name string) int {
	if upval, ok := self.upvalues[name]; ok {
		return upval.index
	}
	if self.parent == nil {
		return -1
	}
	if locVar, found := self.parent.locNames[name]; found {
		idx := len(self.upvalues)
		self.upvalues[name] = upvalInfo{locVar.slot, -1, idx}
		locVar.captured = true
		return idx
	}
	if uvIdx := self.parent.indexOfUpval(name); uvIdx >= 0 {
		idx := len(self.upvalues)
		self.upvalues[name] = upvalInfo{-1, uvIdx, idx}
		return idx
	}
	return -1
}

/* code */

func (self *funcInfo) pc() int {
	return len(self.insts) - 1
}

func (self *funcInfo) fixSbx(pc, sBx int) {
	ins := self.insts[pc]
	ins = ins << 18 >> 18 // clear sBx
	ins = ins | uint32(sBx+maxArgSBx)<<14
	self.insts[pc] = ins
}

func (self *funcInfo) emitABC(line, opcode, a, b, c int) {
	ins := uint32(opcode) | uint32(a)<<6 | uint32(c)<<14 | uint32(b)<<23
	self.insts = append(self.insts, ins)
	self.lineNums = append(self.lineNums, uint32(line))
}

func (self *funcInfo) emitABx(line, opcode, a, bx int) {
	ins := uint32(opcode) | uint32(a)<<6 | uint32(bx)<<14
	self.insts = append(self.insts, ins)
	self.lineNums = append(self.lineNums, uint32(line))
}

func (self *funcInfo) emitAsBx(line, opcode, a, sBx int) {
	ins := uint32(opcode) | uint32(a)<<6 | uint32(sBx+maxArgSBx)<<14
	self.insts = append(self.insts, ins)
	self.lineNums = append(self.lineNums, uint32(line))
}

func (self *funcInfo) emitAx(line, opcode, ax int) {
	ins := uint32(opcode) | uint32(ax)<<6
	self.insts = append(self.insts, ins)
	self.lineNums = append(self.lineNums, uint32(line))
}

func (self *funcInfo) emitMove(line, a, b int) {
	self.emitABC(line, OP_MOVE, a, b, 0)
}

func (self *funcInfo) emitLoadNil(line, a, n int) {
	self.emitABC(line, OP_LOADNIL, a, n-1, 0)
}

func (self *funcInfo) emitLoadBool(line, a, b, c int) {
	self.emitABC(line, OP_LOADBOOL, a, b, c)
}

func (self *funcInfo) emitLoadK(line, a int, k interface{}) {
	idx := self.indexOfConstant(k)
	self.emitABx(line, OP_LOADK, a, idx)
}

func (self *funcInfo) emitVararg(line, a, n int) {
	self.emitABC(line, OP_VARARG, a, n+1, 0)
}

func (self *funcInfo) emitClosure(line, a, bx int) {
	self.emitABx(line, OP_CLOSURE, a, bx)
}

func (self *funcInfo) emitNewMap(line, a, nArr, nRec int) {
	self.emitABC(line, OP_NEWMAP, a, Int2fb(nArr), Int2fb(nRec))
}

func (self *funcInfo) emitNewList(line, a, nArr int) {
	self.emitABC(line, OP_NEWLIST, a, Int2fb(nArr), 0)
}

func (self *funcInfo) emitSetList(line, a, b, c int) {
	self.emitABC(line, OP_SETLIST, a, b, c)
}

func (self *funcInfo) emitSetTable(line, a, b, c int) {
	self.emitABC(line, OP_SETTABLE, a, b, c)
}

func (self *funcInfo) emitGetTable(line, a, b, c int) {
	self.emitABC(line, OP_GETTABLE, a, b, c)
}

func (self *funcInfo) emitGetTabUp(line, a, b, c int) {
	self.emitABC(line, OP_GETTABUP, a, b, c)
}

func (self *funcInfo) emitSetTabUp(line, a, b, c int) {
	self.emitABC(line, OP_SETTABUP, a, b, c)
}

func (self *funcInfo) emitGetUpval(line, a, b int) {
	self.emitABC(line, OP_GETUPVAL, a, b, 0)
}

func (self *funcInfo) emitSetUpval(line, a, b int) {
	self.emitABC(line, OP_SETUPVAL, a, b, 0)
}

func (self *funcInfo) emitSelf(line, a, b, c int) {
	self.emitABC(line, OP_SELF, a, b, c)
}

func (self *funcInfo) emitJmp(line, a, sBx int) int {
	self.emitAsBx(line, OP_JMP, a, sBx)
	return len(self.insts) - 1
}

func (self *funcInfo) emitTest(line, a, c int) {
	self.emitABC(line, OP_TEST, a, 0, c)
}

func (self *funcInfo) emitTestSet(line, a, b, c int) {
	self.emitABC(line, OP_TESTSET, a, b, c)
}

func (self *funcInfo) emitCall(line, a, nArgs, nRet int) {
	self.emitABC(line, OP_CALL, a, nArgs+1, nRet+1)
}

func (self *funcInfo) emitTailCall(line, a, nArgs int) {
	self.emitABC(line, OP_TAILCALL, a, nArgs+1, 0)
}

func (self *funcInfo) emitReturn(line, a, n int) {
	self.emitABC(line, OP_RETURN, a, n+1, 0)
}

func (self *funcInfo) emitUnaryOp(line, op, a, b int) {
	switch op {
	case TOKEN_OP_NOT:
		self.emitABC(line, OP_NOT, a, b, 0)
	case TOKEN_OP_BNOT:
		self.emitABC(line, OP_BNOT, a, b, 0)
	case TOKEN_OP_LEN:
		self.emitABC(line, OP_LEN, a, b, 0)
	case TOKEN_OP_UNM:
		self.emitABC(line, OP_UNM, a, b, 0)
	}
}

var arithAndBitwiseBinops = map[int]int{
	TOKEN_OP_ADD:  OP_ADD,
	TOKEN_OP_SUB:  OP_SUB,
	TOKEN_OP_MUL:  OP_MUL,
	TOKEN_OP_MOD:  OP_MOD,
	TOKEN_OP_POW:  OP_POW,
	TOKEN_OP_DIV:  OP_DIV,
	TOKEN_OP_IDIV: OP_IDIV,
	TOKEN_OP_BAND: OP_BAND,
	TOKEN_OP_BOR:  OP_BOR,
	TOKEN_OP_BXOR: OP_BXOR,
	TOKEN_OP_SHL:  OP_SHL,
	TOKEN_OP_SHR:  OP_SHR,
}

func (self *funcInfo) emitBinaryOp(line, op, a, b, c int) {
	if opcode, found := arithAndBitwiseBinops[op]; found {
		self.emitABC(line, opcode, a, b, c)
		return
	}

	switch op {
	case TOKEN_OP_EQ:
		self.emitABC(line, OP_EQ, 1, b, c)
	case TOKEN_OP_NE:
		self.emitABC(line, OP_EQ, 0, b, c)
	case TOKEN_OP_LT:
		self.emitABC(line, OP_LT, 1, b, c)
	case TOKEN_OP_GT:
		self.emitABC(line, OP_LT, 1, c, b)
	case TOKEN_OP_LE:
		self.emitABC(line, OP_LE, 1, b, c)
	case TOKEN_OP_GE:
		self.emitABC(line, OP_LE, 1, c, b)
	}
	self.emitJmp(line, 0, 1)
	self.emitLoadBool(line, a, 0, 1)
	self.emitLoadBool(line, a, 1, 0)
}
