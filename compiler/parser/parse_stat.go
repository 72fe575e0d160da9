package parser

import (
	. "github.com/lollipopkit/coronest/compiler/ast"
	. "github.com/lollipopkit/coronest/compiler/lexer"
)

func parseBlock(lexer *Lexer) *Block {
	return ParseBlock(lexer)
}

func ParseStat(lexer *Lexer) Stat {
	switch lexer.LookAhead() {
	case TOKEN_SEP_SEMI:
		return parseEmptyStat(lexer)
	case TOKEN_KW_BREAK:
		return parseBreakStat(lexer)
	case TOKEN_KW_IF:
		return parseIfStat(lexer)
	case TOKEN_KW_WHILE:
		return parseWhileStat(lexer)
	case TOKEN_KW_FOR:
		return parseForInStat(lexer)
	case TOKEN_KW_FUNCTION:
		return parseFuncDefStat(lexer)
	case TOKEN_KW_LOCAL:
		return parseLocalStat(lexer)
	case TOKEN_KW_CLASS:
		return parseClassDefStat(lexer)
	default:
		return parseAssignOrFuncCallStat(lexer)
	}
}

// ';'
func parseEmptyStat(lexer *Lexer) *EmptyStat {
	lexer.NextTokenOfKind(TOKEN_SEP_SEMI)
	return &EmptyStat{}
}

// break
func parseBreakStat(lexer *Lexer) *BreakStat {
	line, _, _ := lexer.NextToken()
	return &BreakStat{line}
}

// if exp '{' block '}' {elif exp '{' block '}'} [else '{' block '}']
func parseIfStat(lexer *Lexer) *IfStat {
	exps := make([]Exp, 0, 4)
	blocks := make([]*Block, 0, 4)

	lexer.NextTokenOfKind(TOKEN_KW_IF)
	exps = append(exps, parseExp(lexer))
	lexer.NextTokenOfKind(TOKEN_SEP_LCURLY)
	blocks = append(blocks, parseBlock(lexer))
	lexer.NextTokenOfKind(TOKEN_SEP_RCURLY)

	for lexer.LookAhead() == TOKEN_KW_ELSEIF {
		lexer.NextToken()
		exps = append(exps, parseExp(lexer))
		lexer.NextTokenOfKind(TOKEN_SEP_LCURLY)
		blocks = append(blocks, parseBlock(lexer))
		lexer.NextTokenOfKind(TOKEN_SEP_RCURLY)
	}

	if lexer.LookAhead() == TOKEN_KW_ELSE {
		lexer.NextToken()
		lexer.NextTokenOfKind(TOKEN_SEP_LCURLY)
		blocks = append(blocks, parseBlock(lexer))
		lexer.NextTokenOfKind(TOKEN_SEP_RCURLY)
	}

	return &IfStat{exps, blocks}
}

// while exp '{' block '}'
func parseWhileStat(lexer *Lexer) *WhileStat {
	lexer.NextTokenOfKind(TOKEN_KW_WHILE)
	exp := parseExp(lexer)
	lexer.NextTokenOfKind(TOKEN_SEP_LCURLY)
	block := parseBlock(lexer)
	lexer.NextTokenOfKind(TOKEN_SEP_RCURLY)
	return &WhileStat{exp, block}
}

// for namelist in explist '{' block '}'
func parseForInStat(lexer *Lexer) *ForInStat {
	lineOfFor, _ := lexer.NextTokenOfKind(TOKEN_KW_FOR)
	nameList := _parseNameList(lexer)
	lineOfIn, _ := lexer.NextTokenOfKind(TOKEN_KW_IN)
	expList := parseExpList(lexer)
	lexer.NextTokenOfKind(TOKEN_SEP_LCURLY)
	block := parseBlock(lexer)
	lexer.NextTokenOfKind(TOKEN_SEP_RCURLY)
	return &ForInStat{lineOfFor, lineOfIn, nameList, expList, block}
}

func _parseNameList(lexer *Lexer) []string {
	names := make([]string, 0, 4)
	_, name := lexer.NextIdentifier()
	names = append(names, name)
	for lexer.LookAhead() == TOKEN_SEP_COMMA {
		lexer.NextToken()
		_, name := lexer.NextIdentifier()
		names = append(names, name)
	}
	return names
}

// shy Namelist ['=' explist] | shy fn Name funcbody
func parseLocalStat(lexer *Lexer) Stat {
	lexer.NextTokenOfKind(TOKEN_KW_LOCAL)
	if lexer.LookAhead() == TOKEN_KW_FUNCTION {
		return _finishLocalFuncDefStat(lexer)
	}
	return _finishLocalVarDeclStat(lexer)
}

func _finishLocalFuncDefStat(lexer *Lexer) *LocalFuncDefStat {
	lexer.NextTokenOfKind(TOKEN_KW_FUNCTION)
	line, name := lexer.NextIdentifier()
	fdExp := parseFuncDefExp(lexer)
	fdExp.Line = line
	return &LocalFuncDefStat{line, name, fdExp}
}

func _finishLocalVarDeclStat(lexer *Lexer) *LocalVarDeclStat {
	_, name0 := lexer.NextIdentifier()
	names := []string{name0}
	for lexer.LookAhead() == TOKEN_SEP_COMMA {
		lexer.NextToken()
		_, name := lexer.NextIdentifier()
		names = append(names, name)
	}

	var exps []Exp
	if lexer.LookAhead() == TOKEN_OP_ASSIGN {
		lexer.NextToken()
		exps = parseExpList(lexer)
	}
	lastLine := lexer.Line()
	return &LocalVarDeclStat{lastLine, names, exps}
}

// fn funcname funcbody, desugared into an assignment of a FuncDefExp
// funcname ::= Name {'.' Name} [':' Name]
func parseFuncDefStat(lexer *Lexer) *AssignStat {
	lexer.NextTokenOfKind(TOKEN_KW_FUNCTION)
	lineOfFunc := lexer.Line()
	targetExp, hasColon := _parseFuncName(lexer)
	fdExp := parseFuncDefExp(lexer)
	fdExp.Line = lineOfFunc
	if hasColon {
		fdExp.ParList = append([]string{"self"}, fdExp.ParList...)
	}
	return &AssignStat{fdExp.LastLine, []Exp{targetExp}, []Exp{fdExp}}
}

func _parseFuncName(lexer *Lexer) (exp Exp, hasColon bool) {
	line, name := lexer.NextIdentifier()
	exp = &NameExp{line, name}

	for lexer.LookAhead() == TOKEN_SEP_DOT {
		lexer.NextToken()
		line, name := lexer.NextIdentifier()
		exp = &TableAccessExp{line, exp, &StringExp{line, name}}
	}

	if lexer.LookAhead() == TOKEN_SEP_COLON {
		lexer.NextToken()
		line, name := lexer.NextIdentifier()
		exp = &TableAccessExp{line, exp, &StringExp{line, name}}
		hasColon = true
	}

	return
}

// class Name '{' {fn Name funcbody} '}', desugared into
// Name = {method1 = fn(self, ...) {...}, ...}
func parseClassDefStat(lexer *Lexer) *ClassDefStat {
	lexer.NextTokenOfKind(TOKEN_KW_CLASS)
	line, name := lexer.NextIdentifier()
	lexer.NextTokenOfKind(TOKEN_SEP_LCURLY)

	methodNames := make([]string, 0, 4)
	methods := make([]*FuncDefExp, 0, 4)
	for lexer.LookAhead() != TOKEN_SEP_RCURLY {
		lexer.NextTokenOfKind(TOKEN_KW_FUNCTION)
		_, methodName := lexer.NextIdentifier()
		fdExp := parseFuncDefExp(lexer)
		fdExp.ParList = append([]string{"self"}, fdExp.ParList...)
		methodNames = append(methodNames, methodName)
		methods = append(methods, fdExp)
	}
	lexer.NextTokenOfKind(TOKEN_SEP_RCURLY)

	return &ClassDefStat{line, name, methodNames, methods}
}

// varlist '=' explist | functioncall | Name ':=' explist
func parseAssignOrFuncCallStat(lexer *Lexer) Stat {
	prefixExp := parsePrefixExp(lexer)

	if lexer.LookAhead() == TOKEN_OP_ASSIGNSHY {
		nameExp, ok := prefixExp.(*NameExp)
		if !ok {
			lexer.NextToken()
			panic("':=' target must be a plain name")
		}
		lexer.NextToken()
		expList := parseExpList(lexer)
		lastLine := lexer.Line()
		return &LocalVarDeclStat{lastLine, []string{nameExp.Name}, expList}
	}

	if fc, ok := prefixExp.(*FuncCallExp); ok {
		switch lexer.LookAhead() {
		case TOKEN_OP_ASSIGN, TOKEN_SEP_COMMA:
			// falls through to assignment below
		default:
			return fc
		}
	}

	return _finishAssignStat(lexer, prefixExp)
}

func _finishAssignStat(lexer *Lexer, var0 Exp) *AssignStat {
	varList := []Exp{var0}
	for lexer.LookAhead() == TOKEN_SEP_COMMA {
		lexer.NextToken()
		varList = append(varList, parsePrefixExp(lexer))
	}
	lexer.NextTokenOfKind(TOKEN_OP_ASSIGN)
	expList := parseExpList(lexer)
	lastLine := lexer.Line()
	return &AssignStat{lastLine, varList, expList}
}
