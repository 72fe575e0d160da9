package ast

// block ::= {stat} [retstat]
type Block struct {
	LastLine int
	Stats    []Stat
	RetExps  []Exp
}

type Stat interface{}

// produced by a bare ';' or an optimized-away no-op; never reaches
// codegen, ParseStats drops it
type EmptyStat struct{}

// break
type BreakStat struct {
	Line int
}

// a bare functioncall used as a statement; FuncCallExp already has
// everything codegen needs, so there's no separate wrapper type;
// cg_stat.go type-switches on *FuncCallExp directly

// shy Namelist ['=' explist]
type LocalVarDeclStat struct {
	LastLine int
	NameList []string
	ExpList  []Exp
}

// varlist '=' explist
type AssignStat struct {
	LastLine int
	VarList  []Exp
	ExpList  []Exp
}

// shy fn Name funcbody; the local slot for Name is allocated before
// the function body is compiled so a recursive call inside resolves
// to itself instead of falling through to a global of the same name
type LocalFuncDefStat struct {
	Line int
	Name string
	Fn   *FuncDefExp
}

// if exp {block} {elif exp {block}} [else {block}]
// len(Blocks) == len(Exps), or len(Blocks) == len(Exps)+1 when a
// trailing else block with no guard exp is present
type IfStat struct {
	Exps   []Exp
	Blocks []*Block
}

// while exp {block}
type WhileStat struct {
	Exp   Exp
	Block *Block
}

// for namelist in explist {block}
type ForInStat struct {
	LineOfFor int
	LineOfIn  int
	NameList  []string
	ExpList   []Exp
	Block     *Block
}

// class Name { fn method(...) {...} ... }
// desugars at codegen time into Name = {method = fn(...) {...}, ...}
type ClassDefStat struct {
	Line        int
	Name        string
	MethodNames []string
	Methods     []*FuncDefExp
}
