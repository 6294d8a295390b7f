package stdlib

import (
	"math"

	"github.com/ilex-lang/ilex/internal/machine"
	"github.com/ilex-lang/ilex/internal/native"
	"github.com/ilex-lang/ilex/internal/reducer"
	"github.com/ilex-lang/ilex/internal/value"
)

// Math wraps the standard transcendental and algebraic functions: every
// function is Float-domain only. Max/Min/Atan2/Pow read both arguments
// distinctly — true two-argument semantics, not a double-read of arg0.
type Math struct{}

func (Math) Imports() []string { return nil }

func (Math) Exports(m *machine.Machine, r *reducer.Reducer) []value.Combinator {
	def1 := func(local string, f func(float64) float64) value.Combinator {
		return native.New(m.EnterSymbol("Math", local), "Math", local, native.Monadic,
			func(args []value.Value) (value.Value, value.Outcome, value.Value) {
				a, ok := args[0].(value.Float)
				if !ok {
					return nil, value.Bottom, nil
				}
				return value.Float(f(float64(a))), value.OK, nil
			})
	}
	def2 := func(local string, f func(a, b float64) float64) value.Combinator {
		return native.New(m.EnterSymbol("Math", local), "Math", local, native.Dyadic,
			func(args []value.Value) (value.Value, value.Outcome, value.Value) {
				a, ok1 := args[0].(value.Float)
				b, ok2 := args[1].(value.Float)
				if !ok1 || !ok2 {
					return nil, value.Bottom, nil
				}
				return value.Float(f(float64(a), float64(b))), value.OK, nil
			})
	}
	pi := native.New(m.EnterSymbol("Math", "pi"), "Math", "pi", native.Medadic,
		func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			return value.Float(math.Pi), value.OK, nil
		})

	return []value.Combinator{
		def1("sqrt", math.Sqrt),
		def1("sin", math.Sin),
		def1("cos", math.Cos),
		def1("tan", math.Tan),
		def1("exp", math.Exp),
		def1("log", math.Log),
		def1("abs", math.Abs),
		def1("floor", math.Floor),
		def1("ceil", math.Ceil),
		def2("max", math.Max),
		def2("min", math.Min),
		def2("atan2", math.Atan2),
		def2("pow", math.Pow),
		pi,
	}
}
