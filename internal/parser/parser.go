package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ilex-lang/ilex/internal/lexer"
)

type Parser struct {
	toks []lexer.Token
	pos  int
	file string
	Errors []error
}

func New(toks []lexer.Token, file string) *Parser {
	return &Parser{toks: toks, file: file}
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) atEOF() bool        { return p.cur().Type == lexer.TokEOF }

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errf(format string, args ...interface{}) {
	t := p.cur()
	p.Errors = append(p.Errors, fmt.Errorf("%s:%d:%d: %s", p.file, t.Line, t.Column, fmt.Sprintf(format, args...)))
}

func (p *Parser) expectSymbol(s string) bool {
	if p.cur().Type == lexer.TokSymbol && p.cur().Lexeme == s {
		p.advance()
		return true
	}
	p.errf("expected %q, got %q", s, p.cur().Lexeme)
	return false
}

func (p *Parser) expectKeyword(k string) bool {
	if p.cur().Type == lexer.TokKeyword && p.cur().Lexeme == k {
		p.advance()
		return true
	}
	p.errf("expected keyword %q, got %q", k, p.cur().Lexeme)
	return false
}

// Parse parses an entire source file into a Module.
func (p *Parser) Parse() Module {
	var mod Module
	for !p.atEOF() {
		switch {
		case p.cur().Type == lexer.TokKeyword && p.cur().Lexeme == "import":
			p.advance()
			if p.cur().Type != lexer.TokIdent {
				p.errf("expected module name after import")
				p.advance()
				continue
			}
			mod.Imports = append(mod.Imports, p.advance().Lexeme)

		case p.cur().Type == lexer.TokKeyword && p.cur().Lexeme == "def":
			mod.Defs = append(mod.Defs, p.parseDef())

		default:
			p.errf("unexpected token %q at top level", p.cur().Lexeme)
			p.advance()
		}
	}
	return mod
}

func (p *Parser) parseDef() Def {
	line := p.cur().Line
	p.expectKeyword("def")
	if p.cur().Type != lexer.TokIdent {
		p.errf("expected function name")
	}
	name := p.advance().Lexeme
	var params []string
	for p.cur().Type == lexer.TokIdent {
		params = append(params, p.advance().Lexeme)
	}
	p.expectSymbol("=")
	body := p.parseExpr()
	return Def{Name: name, Params: params, Body: body, Line: line}
}

// Precedence climbing: level 0 comparisons, level 1 +/-, level 2 */ .
var precLevels = [][]string{
	{"==", "!=", "<", "<=", ">", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *Parser) parseExpr() Expr {
	switch {
	case p.cur().Type == lexer.TokKeyword && p.cur().Lexeme == "if":
		return p.parseIf()
	case p.cur().Type == lexer.TokKeyword && p.cur().Lexeme == "case":
		return p.parseCase()
	default:
		return p.parseBinary(0)
	}
}

func (p *Parser) parseBinary(level int) Expr {
	if level >= len(precLevels) {
		return p.parseApp()
	}
	left := p.parseBinary(level + 1)
	for p.cur().Type == lexer.TokSymbol && isOpAtLevel(p.cur().Lexeme, level) {
		op := p.advance().Lexeme
		right := p.parseBinary(level + 1)
		left = BinOp{Op: op, Left: left, Right: right}
	}
	return left
}

func isOpAtLevel(op string, level int) bool {
	for _, o := range precLevels[level] {
		if o == op {
			return true
		}
	}
	return false
}

func (p *Parser) parseApp() Expr {
	fn := p.parseAtom()
	var args []Expr
	for p.startsAtom() {
		args = append(args, p.parseAtom())
	}
	if len(args) == 0 {
		return fn
	}
	return App{Fn: fn, Args: args}
}

func (p *Parser) startsAtom() bool {
	t := p.cur()
	switch t.Type {
	case lexer.TokInt, lexer.TokFloat, lexer.TokChar, lexer.TokText, lexer.TokIdent:
		return true
	case lexer.TokSymbol:
		return t.Lexeme == "("
	}
	return false
}

func (p *Parser) parseAtom() Expr {
	t := p.cur()
	switch t.Type {
	case lexer.TokInt:
		p.advance()
		n, _ := strconv.ParseInt(t.Lexeme, 10, 64)
		return IntLit{Value: n}
	case lexer.TokFloat:
		p.advance()
		f, _ := strconv.ParseFloat(t.Lexeme, 64)
		return FloatLit{Value: f}
	case lexer.TokChar:
		p.advance()
		r := []rune(t.Lexeme)
		if len(r) == 0 {
			return CharLit{}
		}
		return CharLit{Value: r[0]}
	case lexer.TokText:
		p.advance()
		return TextLit{Value: t.Lexeme}
	case lexer.TokIdent:
		p.advance()
		return Ident{Name: t.Lexeme, Line: t.Line, Column: t.Column}
	case lexer.TokSymbol:
		if t.Lexeme == "(" {
			p.advance()
			e := p.parseExpr()
			p.expectSymbol(")")
			return e
		}
	}
	p.errf("unexpected token %q in expression", t.Lexeme)
	p.advance()
	return IntLit{Value: 0}
}

func (p *Parser) parseIf() Expr {
	p.expectKeyword("if")
	cond := p.parseExpr()
	p.expectKeyword("then")
	then := p.parseExpr()
	p.expectKeyword("else")
	els := p.parseExpr()
	return If{Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseCase() Expr {
	p.expectKeyword("case")
	scrut := p.parseExpr()
	p.expectKeyword("of")
	var clauses []CaseClause
	clauses = append(clauses, p.parseClause())
	for p.cur().Type == lexer.TokSymbol && p.cur().Lexeme == "|" {
		p.advance()
		clauses = append(clauses, p.parseClause())
	}
	return Case{Scrutinee: scrut, Clauses: clauses}
}

func (p *Parser) parseClause() CaseClause {
	pat := p.parsePattern()
	p.expectSymbol("->")
	body := p.parseExpr()
	return CaseClause{Pattern: pat, Body: body}
}

func (p *Parser) parsePattern() Pattern {
	t := p.cur()
	switch t.Type {
	case lexer.TokIdent:
		p.advance()
		if t.Lexeme == "_" {
			return PWildcard{}
		}
		// A dotted name (System.nil, System.true, ...) is always a
		// qualified nullary Data-constructor pattern; a bare name binds
		// a variable. There is no bare-constructor syntax — constructors
		// always live in a namespace.
		if strings.Contains(t.Lexeme, ".") {
			return PCtor{Name: t.Lexeme}
		}
		return PVar{Name: t.Lexeme}
	case lexer.TokInt:
		p.advance()
		n, _ := strconv.ParseInt(t.Lexeme, 10, 64)
		return PInt{Value: n}
	case lexer.TokFloat:
		p.advance()
		f, _ := strconv.ParseFloat(t.Lexeme, 64)
		return PFloat{Value: f}
	case lexer.TokChar:
		p.advance()
		r := []rune(t.Lexeme)
		if len(r) == 0 {
			return PChar{}
		}
		return PChar{Value: r[0]}
	case lexer.TokText:
		p.advance()
		return PText{Value: t.Lexeme}
	case lexer.TokSymbol:
		if t.Lexeme == "_" {
			p.advance()
			return PWildcard{}
		}
	}
	p.errf("unexpected token %q in pattern", t.Lexeme)
	p.advance()
	return PWildcard{}
}
