package machine

import (
	"testing"

	"github.com/ilex-lang/ilex/internal/symbol"
	"github.com/ilex-lang/ilex/internal/value"
)

type fakeCombinator struct {
	sym   symbol.ID
	name  string
	arity int
}

func (f *fakeCombinator) Tag() value.Tag       { return value.TagCombinator }
func (f *fakeCombinator) String() string       { return "<fn " + f.name + ">" }
func (f *fakeCombinator) Symbol() symbol.ID     { return f.sym }
func (f *fakeCombinator) Name() string          { return f.name }
func (f *fakeCombinator) Arity() int            { return f.arity }
func (f *fakeCombinator) Apply(args []value.Value) (value.Value, value.Outcome, value.Value) {
	return value.Int(0), value.OK, nil
}

func TestGetDataSymbolIsSingleton(t *testing.T) {
	m := New()
	id := m.EnterSymbol("System", "nil")
	d1 := m.GetDataSymbol(id)
	d2 := m.GetDataSymbol(id)
	if d1 != d2 {
		t.Fatalf("GetDataSymbol must return the same singleton across calls")
	}
}

func TestDefineRejectsDuplicateSymbol(t *testing.T) {
	m := New()
	id := m.EnterSymbol("System", "plus")
	c1 := &fakeCombinator{sym: id, name: "System.plus", arity: 2}
	c2 := &fakeCombinator{sym: id, name: "System.plus", arity: 2}
	if err := m.Define(c1); err != nil {
		t.Fatalf("first Define should succeed: %v", err)
	}
	if err := m.Define(c2); err == nil {
		t.Fatalf("second Define at the same symbol id should fail")
	}
}

func TestLookupMissing(t *testing.T) {
	m := New()
	if _, ok := m.Lookup(999); ok {
		t.Fatalf("Lookup of an unregistered id must report not-ok")
	}
}

func TestLoadTwiceRegistersOnce(t *testing.T) {
	// Simulates "loading the same module twice registers its exports
	// exactly once", at the Machine layer:
	// a second Define at the same id must fail rather than silently
	// re-register.
	m := New()
	id := m.EnterSymbol("M", "f")
	if err := m.Define(&fakeCombinator{sym: id, name: "M.f", arity: 1}); err != nil {
		t.Fatal(err)
	}
	if err := m.Define(&fakeCombinator{sym: id, name: "M.f", arity: 1}); err == nil {
		t.Fatalf("re-defining M.f must fail, not silently succeed")
	}
	if m.NumCombinators() != 1 {
		t.Fatalf("NumCombinators() = %d, want 1", m.NumCombinators())
	}
}
