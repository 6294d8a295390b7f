package bytecode

import (
	"fmt"

	"github.com/ilex-lang/ilex/internal/machine"
	"github.com/ilex-lang/ilex/internal/reducer"
	"github.com/ilex-lang/ilex/internal/symbol"
	"github.com/ilex-lang/ilex/internal/value"
)

// Combinator is a bytecode combinator: a closed function
// body compiled from the lambda-lifted intermediate form, carrying a
// symbol id, a register-file size, and a sequence of reduction
// instructions. Each invocation uses a fresh register file and shares
// no mutable state with any other invocation, so a *Combinator is safe to call re-entrantly.
type Combinator struct {
	spec *CombinatorSpec
	m    *machine.Machine
	r    *reducer.Reducer
}

// NewCombinator binds a compiled CombinatorSpec to the Machine and
// Reducer it will run against. The module manager calls this once per
// compiled function when registering a source module's exports.
func NewCombinator(spec *CombinatorSpec, m *machine.Machine, r *reducer.Reducer) *Combinator {
	return &Combinator{spec: spec, m: m, r: r}
}

func (c *Combinator) Tag() value.Tag    { return value.TagCombinator }
func (c *Combinator) String() string    { return fmt.Sprintf("<fn %s>", c.spec.Name) }
func (c *Combinator) Symbol() symbol.ID { return c.spec.Symbol }
func (c *Combinator) Name() string      { return c.spec.Name }
func (c *Combinator) Arity() int        { return c.spec.NumParams }

// Apply executes the instruction sequence against a fresh register
// file seeded with args in registers 0..Arity()-1.
func (c *Combinator) Apply(args []value.Value) (value.Value, value.Outcome, value.Value) {
	regs := make([]value.Value, c.spec.NumRegs)
	copy(regs, args)

	code := c.spec.Chunk.Code
	pc := 0
	for pc < len(code) {
		in := code[pc]
		switch in.Op {
		case OpLoadConst:
			regs[in.A] = c.spec.Chunk.Constants[in.B]
			pc++

		case OpLoadGlobal:
			sym := symbol.ID(in.B)
			if comb, ok := c.m.Lookup(sym); ok {
				regs[in.A] = comb
			} else {
				regs[in.A] = c.m.GetDataSymbol(sym)
			}
			pc++

		case OpMove:
			regs[in.A] = regs[in.B]
			pc++

		case OpMakeArray:
			elems := make([]value.Value, in.C)
			copy(elems, regs[in.B:in.B+in.C])
			regs[in.A] = value.NewArray(elems...)
			pc++

		case OpApply:
			callee := regs[in.B]
			argv := append([]value.Value(nil), regs[in.C:in.C+in.D]...)
			res, err := c.r.Apply(callee, argv...)
			if out, thrown, ok := unwrapOutcome(err); !ok {
				regs[in.A] = res
				pc++
			} else {
				return nil, out, thrown
			}

		case OpReduce:
			res, err := c.r.Reduce(regs[in.B])
			if out, thrown, ok := unwrapOutcome(err); !ok {
				regs[in.A] = res
				pc++
			} else {
				return nil, out, thrown
			}

		case OpReturn:
			return regs[in.A], value.OK, nil

		case OpJump:
			pc = in.A

		case OpCaseTag:
			if regs[in.A].Tag() == value.Tag(in.B) {
				pc = in.C
			} else {
				pc++
			}

		case OpCaseData:
			if d, ok := regs[in.A].(value.Data); ok && d.Sym == symbol.ID(in.B) {
				pc = in.C
			} else {
				pc++
			}

		case OpCaseEq:
			if value.Equal(regs[in.A], c.spec.Chunk.Constants[in.B]) {
				pc = in.C
			} else {
				pc++
			}

		case OpFail:
			return nil, value.Bottom, nil

		default:
			return nil, value.Bottom, nil
		}
	}
	// Falling off the end of a clause's code without a RETURN means no
	// pattern matched: ⊥, exactly like an explicit OpFail.
	return nil, value.Bottom, nil
}

// unwrapOutcome translates a reducer error (from a nested Apply/Reduce
// issued by this combinator's own body) back into the Outcome triple a
// combinator body returns, so ⊥ and throws raised deeper in the call
// tree surface at this frame too.
func unwrapOutcome(err error) (value.Outcome, value.Value, bool) {
	if err == nil {
		return value.OK, nil, false
	}
	switch e := err.(type) {
	case *reducer.Throw:
		return value.Thrown, e.Value, true
	default: // *reducer.BottomError or anything else
		return value.Bottom, nil, true
	}
}
