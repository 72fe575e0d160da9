package parser

import (
	. "github.com/lollipopkit/coronest/compiler/ast"
	. "github.com/lollipopkit/coronest/compiler/lexer"
)

/*
prefixexp ::= Name |
              '(' exp ')' |
              prefixexp '[' exp ']' |
              prefixexp '.' Name |
              prefixexp ':' Name args |
              prefixexp args
*/
func parsePrefixExp(lexer *Lexer) Exp {
	var exp Exp
	if lexer.LookAhead() == TOKEN_IDENTIFIER {
		line, name := lexer.NextIdentifier()
		exp = &NameExp{line, name}
	} else {
		exp = parseParensExp(lexer)
	}
	return _finishPrefixExp(lexer, exp)
}

func parseParensExp(lexer *Lexer) Exp {
	lexer.NextTokenOfKind(TOKEN_SEP_LPAREN)
	exp := parseExp(lexer)
	lexer.NextTokenOfKind(TOKEN_SEP_RPAREN)

	switch exp.(type) {
	case *VarargExp, *FuncCallExp, *NameExp, *TableAccessExp:
		return &ParensExp{exp}
	}
	return exp
}

func _finishPrefixExp(lexer *Lexer, exp Exp) Exp {
	for {
		switch lexer.LookAhead() {
		case TOKEN_SEP_LBRACK: // prefixexp '[' exp ']'
			lexer.NextToken()
			keyExp := parseExp(lexer)
			lastLine, _ := lexer.NextTokenOfKind(TOKEN_SEP_RBRACK)
			exp = &TableAccessExp{lastLine, exp, keyExp}
		case TOKEN_SEP_DOT: // prefixexp '.' Name
			lexer.NextToken()
			line, name := lexer.NextIdentifier()
			exp = &TableAccessExp{line, exp, &StringExp{line, name}}
		case TOKEN_SEP_COLON, TOKEN_SEP_LPAREN, TOKEN_SEP_LCURLY, TOKEN_STRING:
			// prefixexp ':' Name args | prefixexp args
			exp = _finishFuncCallExp(lexer, exp)
		default:
			return exp
		}
	}
}

func _finishFuncCallExp(lexer *Lexer, prefixExp Exp) *FuncCallExp {
	fcExp := &FuncCallExp{PrefixExp: prefixExp}
	fcExp.Line = lexer.Line()
	fcExp.NameExp = _parseNameExp(lexer)
	fcExp.Args = _parseArgs(lexer)
	fcExp.LastLine = lexer.Line()
	return fcExp
}

func _parseNameExp(lexer *Lexer) *StringExp {
	if lexer.LookAhead() == TOKEN_SEP_COLON {
		lexer.NextToken()
		line, name := lexer.NextIdentifier()
		return &StringExp{line, name}
	}
	return nil
}

// args ::= '(' [explist] ')' | mapconstructor | LiteralString
func _parseArgs(lexer *Lexer) (args []Exp) {
	switch lexer.LookAhead() {
	case TOKEN_SEP_LPAREN:
		lexer.NextToken()
		if lexer.LookAhead() != TOKEN_SEP_RPAREN {
			args = parseExpList(lexer)
		}
		lexer.NextTokenOfKind(TOKEN_SEP_RPAREN)
	case TOKEN_SEP_LCURLY:
		args = []Exp{parseMapConstructorExp(lexer)}
	case TOKEN_STRING:
		line, _, str := lexer.NextToken()
		args = []Exp{&StringExp{line, str}}
	}
	return
}
