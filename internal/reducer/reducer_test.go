package reducer

import (
	"testing"

	"github.com/ilex-lang/ilex/internal/machine"
	"github.com/ilex-lang/ilex/internal/symbol"
	"github.com/ilex-lang/ilex/internal/value"
)

// dyadic is a minimal 2-ary native-style combinator for exercising the
// reducer's protocol without depending on package native or stdlib.
type dyadic struct {
	sym  symbol.ID
	name string
	fn   func(a, b value.Value) (value.Value, value.Outcome, value.Value)
}

func (d *dyadic) Tag() value.Tag   { return value.TagCombinator }
func (d *dyadic) String() string   { return "<fn " + d.name + ">" }
func (d *dyadic) Symbol() symbol.ID { return d.sym }
func (d *dyadic) Name() string      { return d.name }
func (d *dyadic) Arity() int        { return 2 }
func (d *dyadic) Apply(args []value.Value) (value.Value, value.Outcome, value.Value) {
	return d.fn(args[0], args[1])
}

func plusCombinator(m *machine.Machine) *dyadic {
	sym := m.EnterSymbol("System", "plus")
	return &dyadic{sym: sym, name: "System.plus", fn: func(a, b value.Value) (value.Value, value.Outcome, value.Value) {
		ai, aok := a.(value.Int)
		bi, bok := b.(value.Int)
		if !aok || !bok {
			return nil, value.Bottom, nil
		}
		return ai + bi, value.OK, nil
	}}
}

func TestReduceSaturatedApplication(t *testing.T) {
	m := machine.New()
	plus := plusCombinator(m)
	spine := value.NewArray(plus, value.Int(2), value.Int(3))
	r := New(m)
	got, err := r.Reduce(spine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != value.Int(5) {
		t.Fatalf("2+3 = %v, want 5", got)
	}
}

func TestUnderSaturatedIsValue(t *testing.T) {
	m := machine.New()
	plus := plusCombinator(m)
	spine := value.NewArray(plus, value.Int(2))
	r := New(m)
	got, err := r.Reduce(spine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != spine {
		t.Fatalf("an under-saturated spine must reduce to itself (WHNF), got %v", got)
	}
}

func TestOverSaturatedAppliesExtraArgs(t *testing.T) {
	// (plus 2 3) applied again to an extra argument 9 leaves 9 in place
	// as a tagged tuple around the 5 result: [5, 9].
	m := machine.New()
	plus := plusCombinator(m)
	spine := value.NewArray(plus, value.Int(2), value.Int(3), value.Int(9))
	r := New(m)
	got, err := r.Reduce(spine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr, ok := got.(*value.Array)
	if !ok || arr.Len() != 2 || arr.Elems[0] != value.Int(5) || arr.Elems[1] != value.Int(9) {
		t.Fatalf("over-saturated application = %v, want [5 9]", got)
	}
}

func TestApplyingNonFunctionIsData(t *testing.T) {
	m := machine.New()
	spine := value.NewArray(value.Int(3), value.Int(5))
	r := New(m)
	got, err := r.Reduce(spine)
	if err != nil {
		t.Fatalf("applying a non-function must not error: %v", err)
	}
	if got != spine {
		t.Fatalf("applying a non-function must yield the spine as data, got %v", got)
	}
}

func TestBottomBecomesRuntimeError(t *testing.T) {
	m := machine.New()
	plus := plusCombinator(m)
	spine := value.NewArray(plus, value.Text("x"), value.Int(1))
	r := New(m)
	_, err := r.Reduce(spine)
	if err == nil {
		t.Fatalf("expected a BottomError for a type mismatch")
	}
	if _, ok := err.(*BottomError); !ok {
		t.Fatalf("expected *BottomError, got %T", err)
	}
}

func TestThrowPropagates(t *testing.T) {
	m := machine.New()
	divzero := m.GetDataString("System", "divzero")
	sym := m.EnterSymbol("System", "divf")
	div := &dyadic{sym: sym, name: "System.divf", fn: func(a, b value.Value) (value.Value, value.Outcome, value.Value) {
		bf, _ := b.(value.Float)
		if bf == 0 {
			return nil, value.Thrown, divzero
		}
		return a.(value.Float) / bf, value.OK, nil
	}}
	spine := value.NewArray(div, value.Float(10), value.Float(0))
	r := New(m)
	_, err := r.Reduce(spine)
	th, ok := err.(*Throw)
	if !ok {
		t.Fatalf("expected *Throw, got %T (%v)", err, err)
	}
	if !value.Equal(th.Value, divzero) {
		t.Fatalf("thrown value = %v, want System.divzero", th.Value)
	}
}

func TestReducingAValueIsNoOp(t *testing.T) {
	m := machine.New()
	r := New(m)
	v := value.Text("already a value")
	got, err := r.Reduce(v)
	if err != nil || got != v {
		t.Fatalf("reducing a value must be a no-op, got %v, %v", got, err)
	}
}

func TestApplyExtendsPartialApplication(t *testing.T) {
	m := machine.New()
	plus := plusCombinator(m)
	r := New(m)
	partial, err := r.Apply(plus, value.Int(2))
	if err != nil {
		t.Fatal(err)
	}
	full, err := r.Apply(partial, value.Int(40))
	if err != nil {
		t.Fatal(err)
	}
	if full != value.Int(42) {
		t.Fatalf("curried application = %v, want 42", full)
	}
}
