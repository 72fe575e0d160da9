package codegen

import (
	. "github.com/lollipopkit/coronest/compiler/ast"
	. "github.com/lollipopkit/coronest/compiler/lexer"
)

func cgStat(fi *funcInfo, stat Stat) {
	switch x := stat.(type) {
	case *LocalVarDeclStat:
		cgLocalVarDeclStat(fi, x)
	case *AssignStat:
		cgAssignStat(fi, x)
	case *LocalFuncDefStat:
		cgLocalFuncDefStat(fi, x)
	case *ClassDefStat:
		cgClassDefStat(fi, x)
	case *FuncCallExp:
		r := fi.allocReg()
		cgFuncCallExp(fi, x, r, 0)
		fi.freeReg()
	case *IfStat:
		cgIfStat(fi, x)
	case *WhileStat:
		cgWhileStat(fi, x)
	case *ForInStat:
		cgForInStat(fi, x)
	case *BreakStat:
		cgBreakStat(fi, x)
	case *EmptyStat:
		// nothing to emit
	}
}

func cgBreakStat(fi *funcInfo, node *BreakStat) {
	pc := fi.emitJmp(node.Line, 0, 0)
	fi.addBreakJmp(pc)
}

// shy Namelist ['=' explist]
func cgLocalVarDeclStat(fi *funcInfo, node *LocalVarDeclStat) {
	exps := node.ExpList
	nExps := len(exps)
	nNames := len(node.NameList)

	oldRegs := fi.usedRegs
	if nExps == nNames {
		for _, exp := range exps {
			a := fi.allocReg()
			cgExp(fi, exp, a, 1)
		}
	} else if nExps > nNames {
		for i, exp := range exps {
			a := fi.allocReg()
			if i == nExps-1 && isVarargOrFuncCall(exp) {
				cgExp(fi, exp, a, 0)
			} else {
				cgExp(fi, exp, a, 1)
			}
		}
	} else { // nNames > nExps
		multRet := false
		for i, exp := range exps {
			a := fi.allocReg()
			if i == nExps-1 && isVarargOrFuncCall(exp) {
				multRet = true
				n := nNames - nExps + 1
				cgExp(fi, exp, a, n)
				fi.allocRegs(n - 1)
			} else {
				cgExp(fi, exp, a, 1)
			}
		}
		if !multRet {
			n := nNames - nExps
			a := fi.allocRegs(n)
			fi.emitLoadNil(node.LastLine, a, n)
		}
	}

	fi.usedRegs = oldRegs
	for _, name := range node.NameList {
		fi.addLocVar(name, fi.pc()+1)
	}
}

// shy fn Name funcbody; the local slot exists before the body is
// compiled so a recursive call inside resolves to itself
func cgLocalFuncDefStat(fi *funcInfo, node *LocalFuncDefStat) {
	r := fi.addLocVar(node.Name, fi.pc()+2)
	cgFuncDefExp(fi, node.Fn, r)
}

// varlist '=' explist
func cgAssignStat(fi *funcInfo, node *AssignStat) {
	exps := node.ExpList
	nExps := len(exps)
	vars := node.VarList
	nVars := len(vars)

	tRegs := make([]int, nVars)
	kRegs := make([]int, nVars)

	oldRegs := fi.usedRegs
	for i, exp := range vars {
		if taExp, ok := exp.(*TableAccessExp); ok {
			tRegs[i] = fi.allocReg()
			cgExp(fi, taExp.PrefixExp, tRegs[i], 1)
			kRegs[i] = fi.allocReg()
			cgExp(fi, taExp.KeyExp, kRegs[i], 1)
		}
	}

	vRegs := make([]int, nVars)
	for i := 0; i < nVars; i++ {
		vRegs[i] = fi.usedRegs + i
	}

	if nExps >= nVars {
		for i, exp := range exps {
			a := fi.allocReg()
			if i >= nVars-1 && i == nExps-1 && isVarargOrFuncCall(exp) {
				cgExp(fi, exp, a, 0)
			} else {
				cgExp(fi, exp, a, 1)
			}
		}
	} else { // nVars > nExps
		multRet := false
		for i, exp := range exps {
			a := fi.allocReg()
			if i == nExps-1 && isVarargOrFuncCall(exp) {
				multRet = true
				n := nVars - nExps + 1
				cgExp(fi, exp, a, n)
				fi.allocRegs(n - 1)
			} else {
				cgExp(fi, exp, a, 1)
			}
		}
		if !multRet {
			n := nVars - nExps
			a := fi.allocRegs(n)
			fi.emitLoadNil(node.LastLine, a, n)
		}
	}

	fi.usedRegs = oldRegs
	for i, exp := range vars {
		if nameExp, ok := exp.(*NameExp); ok {
			varName := nameExp.Name
			if a := fi.slotOfLocVar(varName); a >= 0 {
				fi.emitMove(node.LastLine, a, vRegs[i])
			} else if idx := fi.indexOfUpval(varName); idx >= 0 {
				fi.emitSetUpval(node.LastLine, vRegs[i], idx)
			} else { // global var
				a := fi.indexOfUpval("_ENV")
				b := 0x100 + fi.indexOfConstant(varName)
				fi.emitSetTabUp(node.LastLine, a, b, vRegs[i])
			}
		} else {
			fi.emitSetTable(node.LastLine, tRegs[i], kRegs[i], vRegs[i])
		}
	}
}

// class Name { ... } -> Name = {method1 = fn(self, ...) {...}, ...}
func cgClassDefStat(fi *funcInfo, node *ClassDefStat) {
	mapExp := &MapConstructorExp{Line: node.Line, LastLine: node.Line}
	for i, name := range node.MethodNames {
		mapExp.KeyExps = append(mapExp.KeyExps, &StringExp{node.Line, name})
		mapExp.ValExps = append(mapExp.ValExps, node.Methods[i])
	}
	assign := &AssignStat{
		LastLine: node.Line,
		VarList:  []Exp{&NameExp{node.Line, node.Name}},
		ExpList:  []Exp{mapExp},
	}
	cgAssignStat(fi, assign)
}

// if exp {block} {elif exp {block}} [else {block}]
func cgIfStat(fi *funcInfo, node *IfStat) {
	pcJmpToEnds := make([]int, len(node.Exps))
	pcJmpToNextExp := -1

	for i, exp := range node.Exps {
		if pcJmpToNextExp >= 0 {
			fi.fixSbx(pcJmpToNextExp, fi.pc()-pcJmpToNextExp)
		}

		oldRegs := fi.usedRegs
		a, _ := expToOpArg(fi, exp, ARG_REG)
		fi.usedRegs = oldRegs

		line := lastLineOf(exp)
		fi.emitTest(line, a, 0)
		pcJmpToNextExp = fi.emitJmp(line, 0, 0)

		fi.enterScope(false)
		cgBlock(fi, node.Blocks[i])
		fi.exitScope(fi.pc() + 1)
		if i < len(node.Exps)-1 {
			pcJmpToEnds[i] = fi.emitJmp(node.Blocks[i].LastLine, 0, 0)
		}
	}

	if pcJmpToNextExp >= 0 {
		fi.fixSbx(pcJmpToNextExp, fi.pc()-pcJmpToNextExp)
	}
	if len(node.Blocks) > len(node.Exps) {
		elseBlock := node.Blocks[len(node.Blocks)-1]
		fi.enterScope(false)
		cgBlock(fi, elseBlock)
		fi.exitScope(fi.pc())
	}

	for _, pc := range pcJmpToEnds {
		if pc > 0 {
			fi.fixSbx(pc, fi.pc()-pc)
		}
	}
}

// while exp {block}
func cgWhileStat(fi *funcInfo, node *WhileStat) {
	pcBeforeExp := fi.pc()

	oldRegs := fi.usedRegs
	a, _ := expToOpArg(fi, node.Exp, ARG_REG)
	fi.usedRegs = oldRegs

	line := lastLineOf(node.Exp)
	fi.emitTest(line, a, 0)
	pcJmpToEnd := fi.emitJmp(line, 0, 0)

	fi.enterScope(true)
	cgBlock(fi, node.Block)
	fi.emitJmp(node.Block.LastLine, 0, pcBeforeExp-fi.pc()-1)
	fi.exitScope(fi.pc())

	fi.fixSbx(pcJmpToEnd, fi.pc()-pcJmpToEnd)
}

// for namelist in explist {block}, driven by plain calls to the
// iterator function rather than a dedicated TFORCALL opcode: each pass
// copies (f, s, ctrl) into a scratch window, calls f(s, ctrl), and
// stops once the first result comes back nil
func cgForInStat(fi *funcInfo, node *ForInStat) {
	lineOfFor := node.LineOfFor
	lineOfIn := node.LineOfIn
	oldRegs := fi.usedRegs

	rf := fi.allocReg()
	rs := fi.allocReg()
	rctrl := fi.allocReg()

	exps := node.ExpList
	for i := 0; i < 3; i++ {
		if i < len(exps) {
			cgExp(fi, exps[i], rf+i, 1)
		} else {
			fi.emitLoadNil(lineOfFor, rf+i, 1)
		}
	}

	pcBeforeLoop := fi.pc()

	nVars := len(node.NameList)
	cbCount := nVars
	if cbCount < 3 {
		cbCount = 3
	}
	cb := fi.allocRegs(cbCount)

	fi.emitMove(lineOfIn, cb, rf)
	fi.emitMove(lineOfIn, cb+1, rs)
	fi.emitMove(lineOfIn, cb+2, rctrl)
	fi.emitCall(lineOfIn, cb, 2, nVars)
	fi.emitMove(lineOfIn, rctrl, cb)

	testReg := fi.allocReg()
	fi.emitBinaryOp(lineOfIn, TOKEN_OP_EQ, testReg, rctrl, 0x100+fi.indexOfConstant(nil))
	fi.emitTest(lineOfIn, testReg, 1)
	pcJmpToEnd := fi.emitJmp(lineOfIn, 0, 0)
	fi.freeReg()

	fi.usedRegs = cb
	fi.enterScope(true)
	for _, name := range node.NameList {
		fi.addLocVar(name, fi.pc()+1)
	}

	cgBlock(fi, node.Block)

	fi.emitJmp(node.Block.LastLine, 0, pcBeforeLoop-fi.pc()-1)
	fi.exitScope(fi.pc())

	fi.fixSbx(pcJmpToEnd, fi.pc()-pcJmpToEnd)

	fi.usedRegs = oldRegs
}
