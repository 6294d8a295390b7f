package value

import "strings"

// Compare is the total order: first by Tag (the fixed order Integer <
// Float < Character < Text < Data < Array < Combinator < Opaque), then
// by payload. It never fails — two values of different tags are
// ordered by tag alone.
func Compare(a, b Value) int {
	if a.Tag() != b.Tag() {
		if a.Tag() < b.Tag() {
			return -1
		}
		return 1
	}
	switch av := a.(type) {
	case Int:
		bv := b.(Int)
		return cmpInt64(int64(av), int64(bv))
	case Float:
		bv := b.(Float)
		return cmpFloat64(float64(av), float64(bv))
	case Char:
		bv := b.(Char)
		return cmpInt64(int64(av), int64(bv))
	case Text:
		bv := b.(Text)
		return strings.Compare(string(av), string(bv))
	case Data:
		bv := b.(Data)
		return cmpInt64(int64(av.Sym), int64(bv.Sym))
	case *Array:
		bv := b.(*Array)
		n := len(av.Elems)
		if len(bv.Elems) < n {
			n = len(bv.Elems)
		}
		for i := 0; i < n; i++ {
			if c := Compare(av.Elems[i], bv.Elems[i]); c != 0 {
				return c
			}
		}
		return cmpInt64(int64(len(av.Elems)), int64(len(bv.Elems)))
	case Combinator:
		bv := b.(Combinator)
		return cmpInt64(int64(av.Symbol()), int64(bv.Symbol()))
	case Opaque:
		bv := b.(Opaque)
		if av.Category != bv.Category {
			return strings.Compare(av.Category, bv.Category)
		}
		if av.Less == nil {
			return 0
		}
		if av.Less(av.Handle, bv.Handle) {
			return -1
		}
		if av.Less(bv.Handle, av.Handle) {
			return 1
		}
		return 0
	default:
		// Unreachable for the closed Tag set above.
		return 0
	}
}

// Equal reports structural equality (Compare == 0).
func Equal(a, b Value) bool { return Compare(a, b) == 0 }

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
