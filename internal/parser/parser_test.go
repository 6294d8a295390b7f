package parser

import (
	"testing"

	"github.com/ilex-lang/ilex/internal/lexer"
)

func parse(t *testing.T, src string) Module {
	t.Helper()
	toks := lexer.New(src, "t.ix").Tokenize()
	p := New(toks, "t.ix")
	mod := p.Parse()
	if len(p.Errors) > 0 {
		t.Fatalf("parse errors: %v", p.Errors)
	}
	return mod
}

func TestParseSimpleDef(t *testing.T) {
	mod := parse(t, `def f x = System.plus x 1`)
	if len(mod.Defs) != 1 {
		t.Fatalf("want 1 def, got %d", len(mod.Defs))
	}
	d := mod.Defs[0]
	if d.Name != "f" || len(d.Params) != 1 || d.Params[0] != "x" {
		t.Fatalf("unexpected def shape: %+v", d)
	}
	app, ok := d.Body.(App)
	if !ok {
		t.Fatalf("expected App body, got %T", d.Body)
	}
	fn, ok := app.Fn.(Ident)
	if !ok || fn.Name != "System.plus" {
		t.Fatalf("expected System.plus head, got %+v", app.Fn)
	}
	if len(app.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(app.Args))
	}
}

func TestParseImport(t *testing.T) {
	mod := parse(t, "import Math\ndef f x = x")
	if len(mod.Imports) != 1 || mod.Imports[0] != "Math" {
		t.Fatalf("expected import Math, got %+v", mod.Imports)
	}
}

func TestParseIfThenElse(t *testing.T) {
	mod := parse(t, `def abs x = if x < 0 then 0 - x else x`)
	ifE, ok := mod.Defs[0].Body.(If)
	if !ok {
		t.Fatalf("expected If, got %T", mod.Defs[0].Body)
	}
	if _, ok := ifE.Cond.(BinOp); !ok {
		t.Fatalf("expected BinOp condition, got %T", ifE.Cond)
	}
}

func TestParseCaseWithCtorAndWildcard(t *testing.T) {
	mod := parse(t, `def describe x = case x of System.nil -> 0 | _ -> 1`)
	c, ok := mod.Defs[0].Body.(Case)
	if !ok {
		t.Fatalf("expected Case, got %T", mod.Defs[0].Body)
	}
	if len(c.Clauses) != 2 {
		t.Fatalf("want 2 clauses, got %d", len(c.Clauses))
	}
	if _, ok := c.Clauses[0].Pattern.(PCtor); !ok {
		t.Fatalf("first pattern should be PCtor, got %T", c.Clauses[0].Pattern)
	}
	if _, ok := c.Clauses[1].Pattern.(PWildcard); !ok {
		t.Fatalf("second pattern should be PWildcard, got %T", c.Clauses[1].Pattern)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	mod := parse(t, `def f x = 1 + 2 * 3`)
	top, ok := mod.Defs[0].Body.(BinOp)
	if !ok || top.Op != "+" {
		t.Fatalf("expected top-level +, got %+v", mod.Defs[0].Body)
	}
	if _, ok := top.Right.(BinOp); !ok {
		t.Fatalf("expected 2*3 to bind tighter than +, got %+v", top.Right)
	}
}
