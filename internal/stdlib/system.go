// Package stdlib implements the prelude's native-extension modules:
// System, Math, IO, Net and DB. Each module exposes imports()/exports(machine)
// the way a native-extension module must; internal/module drives that
// contract for every module, built-in or user-supplied.
package stdlib

import (
	"math/rand"
	"sync"

	"github.com/ilex-lang/ilex/internal/machine"
	"github.com/ilex-lang/ilex/internal/native"
	"github.com/ilex-lang/ilex/internal/reducer"
	"github.com/ilex-lang/ilex/internal/value"
)

// rngOnce seeds the package-level RNG exactly once per process, backing
// System.random/System.randomf.
var (
	rngOnce sync.Once
	rng     *rand.Rand
)

func sharedRNG() *rand.Rand {
	rngOnce.Do(func() { rng = rand.New(rand.NewSource(1)) })
	return rng
}

// Module is the native-extension contract: a module declares what it
// needs loaded first and what it exports once its dependencies are in
// place.
type Module interface {
	Imports() []string
	Exports(m *machine.Machine, r *reducer.Reducer) []value.Combinator
}

// System mirrors the classic combinator set — K, unary and binary
// arithmetic, the bitwise ops, ordering and equality, field get/set/
// extend, the int/float/text conversions, list pack/unpack, and arg —
// one native combinator apiece, under a lowercase dotted naming
// convention.
type System struct{}

func (System) Imports() []string { return nil }

func (s System) Exports(m *machine.Machine, r *reducer.Reducer) []value.Combinator {
	nilData := m.GetDataString("System", "nil")
	consData := m.GetDataString("System", "cons")
	trueData := m.GetDataString("System", "true")
	falseData := m.GetDataString("System", "false")
	objectData := m.GetDataString("System", "object")
	vData := m.GetDataString("System", "v")
	divzero := m.GetDataString("System", "divzero")

	boolOf := func(b bool) value.Data {
		if b {
			return trueData
		}
		return falseData
	}

	def := func(local string, class native.ArityClass, body native.Body) value.Combinator {
		return native.New(m.EnterSymbol("System", local), "System", local, class, body)
	}

	combinators := []value.Combinator{
		// K x y = x — the constant combinator.
		def("k", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			return args[0], value.OK, nil
		}),

		// Unary negation, overloaded over Integer/Float.
		def("neg", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			switch a := args[0].(type) {
			case value.Int:
				return -a, value.OK, nil
			case value.Float:
				return -a, value.OK, nil
			}
			return nil, value.Bottom, nil
		}),

		// + is overloaded Int/Float/Text.
		def("plus", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			switch a := args[0].(type) {
			case value.Int:
				b, ok := args[1].(value.Int)
				if !ok {
					return nil, value.Bottom, nil
				}
				sum := a + b
				if (b > 0 && sum < a) || (b < 0 && sum > a) {
					return nil, value.Bottom, nil // overflow
				}
				return sum, value.OK, nil
			case value.Float:
				b, ok := args[1].(value.Float)
				if !ok {
					return nil, value.Bottom, nil
				}
				return a + b, value.OK, nil
			case value.Text:
				b, ok := args[1].(value.Text)
				if !ok {
					return nil, value.Bottom, nil
				}
				return a + b, value.OK, nil
			}
			return nil, value.Bottom, nil
		}),

		// Dyadic subtraction — what the compiler's "-" desugars to,
		// disambiguated here from unary System.neg.
		def("minus", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			switch a := args[0].(type) {
			case value.Int:
				b, ok := args[1].(value.Int)
				if !ok {
					return nil, value.Bottom, nil
				}
				diff := a - b
				if (b < 0 && diff < a) || (b > 0 && diff > a) {
					return nil, value.Bottom, nil
				}
				return diff, value.OK, nil
			case value.Float:
				b, ok := args[1].(value.Float)
				if !ok {
					return nil, value.Bottom, nil
				}
				return a - b, value.OK, nil
			}
			return nil, value.Bottom, nil
		}),

		def("mult", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			switch a := args[0].(type) {
			case value.Int:
				b, ok := args[1].(value.Int)
				if !ok {
					return nil, value.Bottom, nil
				}
				if a != 0 && b != 0 {
					p := a * b
					if p/a != b {
						return nil, value.Bottom, nil
					}
					return p, value.OK, nil
				}
				return value.Int(0), value.OK, nil
			case value.Float:
				b, ok := args[1].(value.Float)
				if !ok {
					return nil, value.Bottom, nil
				}
				return a * b, value.OK, nil
			}
			return nil, value.Bottom, nil
		}),

		// Integer division by zero is ⊥; float division by zero throws
		// System.divzero.
		def("div", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			switch a := args[0].(type) {
			case value.Int:
				b, ok := args[1].(value.Int)
				if !ok || b == 0 {
					return nil, value.Bottom, nil
				}
				return a / b, value.OK, nil
			case value.Float:
				b, ok := args[1].(value.Float)
				if !ok {
					return nil, value.Bottom, nil
				}
				if b == 0 {
					return nil, value.Thrown, divzero
				}
				return a / b, value.OK, nil
			}
			return nil, value.Bottom, nil
		}),

		def("mod", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			a, ok1 := args[0].(value.Int)
			b, ok2 := args[1].(value.Int)
			if !ok1 || !ok2 || b == 0 {
				return nil, value.Bottom, nil
			}
			return a % b, value.OK, nil
		}),

		def("band", native.Dyadic, intIntOp(func(a, b int64) int64 { return a & b })),
		def("bor", native.Dyadic, intIntOp(func(a, b int64) int64 { return a | b })),
		def("bxor", native.Dyadic, intIntOp(func(a, b int64) int64 { return a ^ b })),
		def("bcomplement", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			a, ok := args[0].(value.Int)
			if !ok {
				return nil, value.Bottom, nil
			}
			return ^a, value.OK, nil
		}),
		def("blshift", native.Dyadic, intIntOp(func(a, b int64) int64 { return a << uint(b) })),
		def("brshift", native.Dyadic, intIntOp(func(a, b int64) int64 { return a >> uint(b) })),

		def("lt", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			return boolOf(value.Compare(args[0], args[1]) < 0), value.OK, nil
		}),
		def("lteq", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			return boolOf(value.Compare(args[0], args[1]) <= 0), value.OK, nil
		}),
		def("gt", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			return boolOf(value.Compare(args[0], args[1]) > 0), value.OK, nil
		}),
		def("gteq", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			return boolOf(value.Compare(args[0], args[1]) >= 0), value.OK, nil
		}),
		def("eq", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			return boolOf(value.Equal(args[0], args[1])), value.OK, nil
		}),
		def("neq", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			return boolOf(!value.Equal(args[0], args[1])), value.OK, nil
		}),

		// get/set/extend operate on object layout [object, k1,v1,k2,v2,...].
		def("get", native.BinaryPattern, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			key, obj := args[0], args[1]
			o, ok := obj.(*value.Array)
			if !ok || o.Len() < 1 {
				return nil, value.Bottom, nil
			}
			if d, ok := o.Elems[0].(value.Data); !ok || d.Sym != objectData.Sym {
				return nil, value.Bottom, nil
			}
			for i := 1; i+1 < len(o.Elems); i += 2 {
				if value.Equal(o.Elems[i], key) {
					return o.Elems[i+1], value.OK, nil
				}
			}
			return nil, value.Bottom, nil
		}),
		def("set", native.Triadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			key, val, obj := args[0], args[1], args[2]
			o, ok := obj.(*value.Array)
			if !ok || o.Len() < 1 {
				return nil, value.Bottom, nil
			}
			if d, ok := o.Elems[0].(value.Data); !ok || d.Sym != objectData.Sym {
				return nil, value.Bottom, nil
			}
			for i := 1; i+1 < len(o.Elems); i += 2 {
				if value.Equal(o.Elems[i], key) {
					o.Elems[i+1] = val // the one destructive update
					return key, value.OK, nil
				}
			}
			return nil, value.Bottom, nil
		}),
		def("extend", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			o1, ok1 := args[0].(*value.Array)
			o2, ok2 := args[1].(*value.Array)
			if !ok1 || !ok2 || o1.Len() < 1 || o2.Len() < 1 {
				return nil, value.Bottom, nil
			}
			merged := append([]value.Value(nil), o1.Elems...)
			for i := 1; i+1 < len(o2.Elems); i += 2 {
				k, v := o2.Elems[i], o2.Elems[i+1]
				replaced := false
				for j := 1; j+1 < len(merged); j += 2 {
					if value.Equal(merged[j], k) {
						merged[j+1] = v
						replaced = true
						break
					}
				}
				if !replaced {
					merged = append(merged, k, v)
				}
			}
			return value.NewArray(merged...), value.OK, nil
		}),
		def("getv", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			cell, ok := args[0].(*value.Array)
			if !ok || cell.Len() != 2 {
				return nil, value.Bottom, nil
			}
			if d, ok := cell.Elems[0].(value.Data); !ok || d.Sym != vData.Sym {
				return nil, value.Bottom, nil
			}
			return cell.Elems[1], value.OK, nil
		}),
		def("setv", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			cell, ok := args[0].(*value.Array)
			if !ok || cell.Len() != 2 {
				return nil, value.Bottom, nil
			}
			if d, ok := cell.Elems[0].(value.Data); !ok || d.Sym != vData.Sym {
				return nil, value.Bottom, nil
			}
			cell.Elems[1] = args[1] // destructive
			return cell, value.OK, nil
		}),

		def("toint", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			switch a := args[0].(type) {
			case value.Int:
				return a, value.OK, nil
			case value.Float:
				return value.Int(int64(a)), value.OK, nil
			case value.Text:
				return value.ConvertToInt(a), value.OK, nil
			}
			return nil, value.Bottom, nil
		}),
		def("tofloat", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			switch a := args[0].(type) {
			case value.Int:
				return value.Float(float64(a)), value.OK, nil
			case value.Float:
				return a, value.OK, nil
			case value.Text:
				return value.ConvertToFloat(a), value.OK, nil
			}
			return nil, value.Bottom, nil
		}),
		def("totext", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			return value.Text(args[0].String()), value.OK, nil
		}),

		// pack/unpack round-trip Text through a cons-list of Character.
		def("unpack", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			t, ok := args[0].(value.Text)
			if !ok {
				return nil, value.Bottom, nil
			}
			chars := value.Unpack(t)
			list := value.Value(nilData)
			for i := len(chars) - 1; i >= 0; i-- {
				list = value.NewArray(consData, chars[i], list)
			}
			return list, value.OK, nil
		}),
		def("pack", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			var chars []value.Char
			cur := args[0]
			for {
				if d, ok := cur.(value.Data); ok && d.Sym == nilData.Sym {
					break
				}
				arr, ok := cur.(*value.Array)
				if !ok || arr.Len() != 3 {
					return nil, value.Bottom, nil
				}
				if d, ok := arr.Elems[0].(value.Data); !ok || d.Sym != consData.Sym {
					return nil, value.Bottom, nil
				}
				ch, ok := arr.Elems[1].(value.Char)
				if !ok {
					return nil, value.Bottom, nil
				}
				chars = append(chars, ch)
				cur = arr.Elems[2]
			}
			return value.Pack(chars), value.OK, nil
		}),

		// arg(n) with n >= argc returns Integer 0; the
		// argument vector is supplied by cmd/ilex at startup.
		def("arg", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			n, ok := args[0].(value.Int)
			if !ok {
				return nil, value.Bottom, nil
			}
			if int(n) < 0 || int(n) >= len(s.argv()) {
				return value.Int(0), value.OK, nil
			}
			return value.Text(s.argv()[n]), value.OK, nil
		}),

		def("nop", native.Medadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			return trueData, value.OK, nil
		}),

		def("random", native.Medadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			return value.Int(sharedRNG().Int63()), value.OK, nil
		}),
		def("randomf", native.Medadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
			return value.Float(sharedRNG().Float64()), value.OK, nil
		}),
	}
	return combinators
}

// programArgs is a package-level slot the CLI fills in before running
// user code.
var programArgs []string

// SetArgs lets cmd/ilex install the argument vector System.arg reads.
func SetArgs(args []string) { programArgs = args }

func (System) argv() []string { return programArgs }

func intIntOp(f func(a, b int64) int64) native.Body {
	return func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		a, ok1 := args[0].(value.Int)
		b, ok2 := args[1].(value.Int)
		if !ok1 || !ok2 {
			return nil, value.Bottom, nil
		}
		return value.Int(f(int64(a), int64(b))), value.OK, nil
	}
}

// NewMachineWithPrelude constructs a Machine and registers the System,
// Math and IO combinators directly, without a module.Manager — a
// bootstrap for standalone tests. A Manager's Prelude on the same
// Machine would then fail on the already-defined System combinators.
func NewMachineWithPrelude() (*machine.Machine, *reducer.Reducer) {
	m := machine.New()
	r := reducer.New(m)
	for _, c := range (System{}).Exports(m, r) {
		_ = m.Define(c)
	}
	for _, c := range (Math{}).Exports(m, r) {
		_ = m.Define(c)
	}
	for _, c := range (IO{}).Exports(m, r) {
		_ = m.Define(c)
	}
	return m, r
}
