package codegen

import . "github.com/lollipopkit/coronest/compiler/ast"

func isVarargOrFuncCall(exp Exp) bool {
	switch exp.(type) {
	case *VarargExp, *FuncCallExp:
		return true
	}
	return false
}

func lastLineOf(exp Exp) int {
	switch x := exp.(type) {
	case *NilExp:
		return x.Line
	case *TrueExp:
		return x.Line
	case *FalseExp:
		return x.Line
	case *VarargExp:
		return x.Line
	case *IntegerExp:
		return x.Line
	case *FloatExp:
		return x.Line
	case *StringExp:
		return x.Line
	case *NameExp:
		return x.Line
	case *UnopExp:
		return x.Line
	case *BinopExp:
		return lastLineOf(x.Right)
	case *TernaryExp:
		return lastLineOf(x.False)
	case *MapConstructorExp:
		return x.LastLine
	case *ListConstructorExp:
		return x.LastLine
	case *FuncDefExp:
		return x.LastLine
	case *ParensExp:
		return lastLineOf(x.Exp)
	case *TableAccessExp:
		return x.LastLine
	case *FuncCallExp:
		return x.LastLine
	}
	panic("impossible")
}
