package bytecode

import (
	"testing"

	"github.com/ilex-lang/ilex/internal/machine"
	"github.com/ilex-lang/ilex/internal/native"
	"github.com/ilex-lang/ilex/internal/reducer"
	"github.com/ilex-lang/ilex/internal/value"
)

func registerPlus(m *machine.Machine) {
	sym := m.EnterSymbol("System", "plus")
	plus := native.New(sym, "System", "plus", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		a, aok := args[0].(value.Int)
		b, bok := args[1].(value.Int)
		if !aok || !bok {
			return nil, value.Bottom, nil
		}
		return a + b, value.OK, nil
	})
	if err := m.Define(plus); err != nil {
		panic(err)
	}
}

// buildIncrement compiles "f x = System.plus x 1" by hand into a
// Combinator, exercising load-combinator, move, load-const, apply and
// return — the minimum instruction set a bytecode body needs.
func buildIncrement(m *machine.Machine, r *reducer.Reducer) *Combinator {
	plusSym, _ := m.Symbols().Lookup("System", "plus")
	fSym := m.EnterSymbol("Main", "f")

	chunk := NewChunk()
	one := chunk.AddConstant(value.Int(1))
	chunk.Emit(Instruction{Op: OpMove, A: 2, B: 0}, DebugInfo{})
	chunk.Emit(Instruction{Op: OpLoadConst, A: 3, B: one}, DebugInfo{})
	chunk.Emit(Instruction{Op: OpLoadGlobal, A: 1, B: int(plusSym)}, DebugInfo{})
	chunk.Emit(Instruction{Op: OpApply, A: 4, B: 1, C: 2, D: 2}, DebugInfo{})
	chunk.Emit(Instruction{Op: OpReturn, A: 4}, DebugInfo{})

	spec := &CombinatorSpec{Symbol: fSym, Name: "Main.f", NumParams: 1, NumRegs: 5, Chunk: chunk}
	return NewCombinator(spec, m, r)
}

func TestBytecodeCombinatorAppliesPlus(t *testing.T) {
	m := machine.New()
	registerPlus(m)
	r := reducer.New(m)
	f := buildIncrement(m, r)

	got, outcome, _ := f.Apply([]value.Value{value.Int(41)})
	if outcome != value.OK {
		t.Fatalf("expected OK outcome, got %v", outcome)
	}
	if got != value.Int(42) {
		t.Fatalf("f(41) = %v, want 42", got)
	}
}

func TestBytecodeCombinatorReentrant(t *testing.T) {
	m := machine.New()
	registerPlus(m)
	r := reducer.New(m)
	f := buildIncrement(m, r)

	// Two interleaved-looking calls must not share register state.
	g1, _, _ := f.Apply([]value.Value{value.Int(1)})
	g2, _, _ := f.Apply([]value.Value{value.Int(100)})
	if g1 != value.Int(2) || g2 != value.Int(101) {
		t.Fatalf("got %v, %v; want 2, 101", g1, g2)
	}
}

func TestCaseDataDiscriminatesOnConstructor(t *testing.T) {
	m := machine.New()
	r := reducer.New(m)
	nilSym := m.EnterSymbol("System", "nil")
	fSym := m.EnterSymbol("Main", "isNil")

	chunk := NewChunk()
	trueConst := chunk.AddConstant(value.Data{Sym: m.EnterSymbol("System", "true")})
	falseConst := chunk.AddConstant(value.Data{Sym: m.EnterSymbol("System", "false")})
	// reg0 = arg. CASEDATA reg0 nilSym -> pc(matchTarget)
	chunk.Emit(Instruction{Op: OpCaseData, A: 0, B: int(nilSym), C: 4}, DebugInfo{})
	chunk.Emit(Instruction{Op: OpLoadConst, A: 1, B: falseConst}, DebugInfo{})
	chunk.Emit(Instruction{Op: OpReturn, A: 1}, DebugInfo{})
	chunk.Emit(Instruction{Op: OpFail}, DebugInfo{}) // unreachable padding to keep indices obvious
	chunk.Emit(Instruction{Op: OpLoadConst, A: 1, B: trueConst}, DebugInfo{})
	chunk.Emit(Instruction{Op: OpReturn, A: 1}, DebugInfo{})

	spec := &CombinatorSpec{Symbol: fSym, Name: "Main.isNil", NumParams: 1, NumRegs: 2, Chunk: chunk}
	isNil := NewCombinator(spec, m, r)

	got, _, _ := isNil.Apply([]value.Value{value.Data{Sym: nilSym}})
	if got != (value.Data{Sym: m.EnterSymbol("System", "true")}) {
		t.Fatalf("isNil(nil) = %v, want true", got)
	}
	got, _, _ = isNil.Apply([]value.Value{value.Int(5)})
	if got != (value.Data{Sym: m.EnterSymbol("System", "false")}) {
		t.Fatalf("isNil(5) = %v, want false", got)
	}
}
