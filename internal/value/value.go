// Package value implements the runtime value model: a tagged sum of
// Integer, Float, Character, Text, Data, Array, Combinator and Opaque,
// with a total structural comparison.
//
// Ownership is by substitution: reference-counted sharing of heap
// values. Arrays and the Combinator implementations are shared by
// pointer, Data is a small value compared by symbol id, and Opaque
// carries its resource handle by reference, so Go's garbage collector
// already gives us "released when the last reference drops" for free. We do not
// hand-roll a refcount on top of a GC that already tracks liveness —
// see DESIGN.md.
package value

import (
	"fmt"
	"strconv"

	"github.com/ilex-lang/ilex/internal/symbol"
)

// Tag is the fixed comparison order:
// Integer < Float < Character < Text < Data < Array < Combinator < Opaque.
type Tag int

const (
	TagInt Tag = iota
	TagFloat
	TagChar
	TagText
	TagData
	TagArray
	TagCombinator
	TagOpaque
)

func (t Tag) String() string {
	switch t {
	case TagInt:
		return "Integer"
	case TagFloat:
		return "Float"
	case TagChar:
		return "Character"
	case TagText:
		return "Text"
	case TagData:
		return "Data"
	case TagArray:
		return "Array"
	case TagCombinator:
		return "Combinator"
	case TagOpaque:
		return "Opaque"
	default:
		return "Unknown"
	}
}

// Value is satisfied by every runtime value variant. Tag is cheap and
// total: every Value knows its own kind without a type switch at call
// sites that only need to compare or dispatch by kind.
type Value interface {
	Tag() Tag
	String() string
}

// Int is a signed machine-word integer.
type Int int64

func (Int) Tag() Tag           { return TagInt }
func (v Int) String() string   { return strconv.FormatInt(int64(v), 10) }

// Float is a 64-bit IEEE-754 float.
type Float float64

func (Float) Tag() Tag         { return TagFloat }
func (v Float) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

// Char is one Unicode scalar value.
type Char rune

func (Char) Tag() Tag         { return TagChar }
func (v Char) String() string { return string(rune(v)) }

// Text is an immutable Unicode string.
type Text string

func (Text) Tag() Tag         { return TagText }
func (v Text) String() string { return string(v) }

// Data is a nullary constructor identified by a symbol id. Two Data
// values are equal iff their symbol ids are equal.
type Data struct {
	Sym symbol.ID
}

func (Data) Tag() Tag { return TagData }
func (v Data) String() string {
	return fmt.Sprintf("#data(%d)", v.Sym)
}

// Array is an ordered, mutable, reference-shared sequence. It plays two
// roles depending on context: an application spine
// [head, arg1, ...] or a tagged tuple [ctor, field1, ...]. Callers tell
// the two apart the way the language does: by whether elem[0] is a
// reducible Combinator (spine) or a Data constructor already in normal
// form (tuple) — Array itself carries no discriminant.
//
// Array is the one place the runtime performs aliased mutation
//: System.set and System.setv
// write through Elems in place; every other "update" builds a fresh
// Array.
type Array struct {
	Elems []Value
}

func NewArray(elems ...Value) *Array { return &Array{Elems: elems} }

func (*Array) Tag() Tag { return TagArray }
func (v *Array) String() string {
	s := "["
	for i, e := range v.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "]"
}

// Len reports the number of elements. Spec invariant 3: a spine Array
// always has length >= 2; a length-1 Array is never a spine.
func (v *Array) Len() int { return len(v.Elems) }

// IsSpine reports whether this Array could represent an application
// (length >= 2); it does not by itself decide spine-vs-tuple, see the
// Array doc comment.
func (v *Array) IsSpine() bool { return len(v.Elems) >= 2 }

// Combinator is the callable interface both bytecode and native
// combinators satisfy. It is defined here, not in package bytecode or
// package native, so that Value itself can hold a Combinator without
// an import cycle — package value never imports either.
type Combinator interface {
	Value
	// Symbol is the id this combinator is registered under.
	Symbol() symbol.ID
	// Name is the qualified name, for error messages.
	Name() string
	// Arity is how many arguments Apply consumes in one reduction step.
	Arity() int
	// Apply reduces the combinator applied to exactly Arity() arguments.
	// See Outcome for how ⊥ and throw are reported.
	Apply(args []Value) (Value, Outcome, Value)
}

// Outcome is the three-way result of Combinator.Apply:
// either a normal value, the ⊥ sentinel (argument-type mismatch, turned
// into an unrecoverable runtime error by the reducer), or a thrown
// value (a catchable language-level exception).
type Outcome int

const (
	OK Outcome = iota
	Bottom
	Thrown
)

// Opaque is a host-defined boxed value carrying a category tag, used to
// smuggle resources (file handles, sockets, DB connections) through the
// runtime without exposing their representation.
type Opaque struct {
	Category string
	Handle   interface{}
	// Less orders two Opaque values of the SAME category; called only
	// when both operands' Category strings are equal. Required so that
	// structural comparison stays total even
	// across opaque resources.
	Less func(a, b interface{}) bool
}

func (Opaque) Tag() Tag { return TagOpaque }
func (v Opaque) String() string {
	return fmt.Sprintf("#opaque<%s>", v.Category)
}
