// Package native implements the Native combinator: a host-language
// callable exposing a fixed arity and a body returning a value, the ⊥
// sentinel, or a thrown value.
package native

import (
	"fmt"

	"github.com/ilex-lang/ilex/internal/symbol"
	"github.com/ilex-lang/ilex/internal/value"
)

// ArityClass is the fixed set of shapes a native combinator may
// declare: medadic (0-ary, a constant or environmental query),
// monadic (1), dyadic (2), triadic (3), or binary-pattern (fixed 2, but
// documented as consuming an object and a key with field semantics —
// System.get is the motivating case). Bytecode combinators alone may be
// variadic; natives never are.
type ArityClass int

const (
	Medadic ArityClass = iota
	Monadic
	Dyadic
	Triadic
	BinaryPattern
)

func (a ArityClass) Arity() int {
	switch a {
	case Medadic:
		return 0
	case Monadic:
		return 1
	case Dyadic, BinaryPattern:
		return 2
	case Triadic:
		return 3
	default:
		return 0
	}
}

// Body is the host-language implementation. It must follow three
// protocol conventions:
//  1. tag-checked returns ⊥ (value.Bottom outcome) rather than crashing
//     on an argument outside its declared domain;
//  2. domain errors the language should be able to catch are raised by
//     returning value.Thrown with the thrown Data value;
//  3. frequently used Data constants are cached by the closure creating
//     the Body, not refetched from the Machine on every call.
type Body func(args []value.Value) (result value.Value, outcome value.Outcome, thrown value.Value)

// Native is a registered native combinator.
type Native struct {
	sym       symbol.ID
	namespace string
	local     string
	class     ArityClass
	body      Body
}

// New constructs a Native combinator already bound to a symbol id. The
// caller (package stdlib, via the module manager) is responsible for
// interning (ns, local) against the target Machine first.
func New(sym symbol.ID, ns, local string, class ArityClass, body Body) *Native {
	return &Native{sym: sym, namespace: ns, local: local, class: class, body: body}
}

func (n *Native) Tag() value.Tag { return value.TagCombinator }
func (n *Native) String() string { return fmt.Sprintf("<native %s>", n.Name()) }
func (n *Native) Symbol() symbol.ID { return n.sym }
func (n *Native) Name() string {
	if n.namespace == "" {
		return n.local
	}
	return n.namespace + "." + n.local
}
func (n *Native) Arity() int { return n.class.Arity() }

// Apply invokes the body. It never mutates args unless n is one of the
// documented destructive combinators.
func (n *Native) Apply(args []value.Value) (value.Value, value.Outcome, value.Value) {
	if len(args) != n.Arity() {
		// The reducer never calls Apply with the wrong count (it checks
		// arity before invoking), so this only guards direct misuse —
		// treat it as ⊥ rather than panicking.
		return nil, value.Bottom, nil
	}
	return n.body(args)
}
