// Package reducer implements the Reducer: the uniform application
// protocol every callable (bytecode or native) cooperates through,
// driving a spine to normal form.
//
// Reduction is eager, left-to-right, outermost: before a
// combinator's head is applied, exactly as many arguments as its arity
// needs are themselves reduced to values, in order, so that side
// effects happen in source-program order.
//
// This implementation uses the host call stack for nested reduction;
// deep recursion can overflow it rather than heap-allocate an explicit
// evaluation stack.
package reducer

import (
	"fmt"

	"github.com/ilex-lang/ilex/internal/machine"
	"github.com/ilex-lang/ilex/internal/value"
)

// BottomError is raised when a combinator's Apply returns value.Bottom
//: an unrecoverable, uncatchable runtime error reporting
// the combinator's name and the offending arguments.
type BottomError struct {
	Combinator string
	Args       []value.Value
}

func (e *BottomError) Error() string {
	return fmt.Sprintf("bad argument to `%s`", e.Combinator)
}

// Throw is the language-level exception signal: any
// combinator may throw a Value, which unwinds the Go call stack as an
// error up to the top-level driver. The front end has no try/catch
// construct, so compiled code never recovers a Throw.
type Throw struct {
	Value value.Value
}

func (t *Throw) Error() string {
	return fmt.Sprintf("uncaught: %s", t.Value.String())
}

// Reducer drives spines to normal form against one Machine's combinator
// table. It carries no mutable state of its own — every invocation is
// re-entrant.
type Reducer struct {
	m *machine.Machine
}

func New(m *machine.Machine) *Reducer { return &Reducer{m: m} }

// Reduce drives v to an irreducible value.
//
// A value is irreducible when:
//   - it is not an Array at all (scalar, Data, Combinator, Opaque), or
//   - it is an Array of length < 2 (a tagged tuple, invariant 3), or
//   - its head is not a Combinator (spec's "applying a non-function"
//     edge case: the spine itself is the value, not an error), or
//   - its head is a Combinator but the spine has fewer arguments than
//     its arity (a saturated-or-under-applied combinator is a value,
//     rule 4).
func (r *Reducer) Reduce(v value.Value) (value.Value, error) {
	for {
		arr, ok := v.(*value.Array)
		if !ok || len(arr.Elems) < 2 {
			return v, nil
		}
		head := arr.Elems[0]
		comb, ok := head.(value.Combinator)
		if !ok {
			return v, nil
		}
		args := arr.Elems[1:]
		arity := comb.Arity()
		if len(args) < arity {
			return v, nil
		}

		reducedArgs := make([]value.Value, arity)
		for i := 0; i < arity; i++ {
			rv, err := r.Reduce(args[i])
			if err != nil {
				return nil, err
			}
			reducedArgs[i] = rv
		}

		result, outcome, thrown := comb.Apply(reducedArgs)
		switch outcome {
		case value.Bottom:
			return nil, &BottomError{Combinator: comb.Name(), Args: reducedArgs}
		case value.Thrown:
			return nil, &Throw{Value: thrown}
		}

		rest := args[arity:]
		if len(rest) == 0 {
			v = result
			continue
		}
		// Rule 3: more arguments than the arity consumed — rewrite
		// head+args into the result, leave the extra arguments in
		// place, and keep reducing (the result may itself be callable).
		newElems := make([]value.Value, 0, 1+len(rest))
		newElems = append(newElems, result)
		newElems = append(newElems, rest...)
		v = &value.Array{Elems: newElems}
	}
}

// Apply extends a (possibly partially applied) callable value with
// additional arguments and reduces the result. This is what the
// compiled "function application" site does when the callee is not
// known to be fully saturated yet: it builds one flat spine rather than
// nesting arrays, matching the flat-spine shape invariant 3 requires.
func (r *Reducer) Apply(callee value.Value, args ...value.Value) (value.Value, error) {
	if len(args) == 0 {
		// A nullary combinator (a parameterless def, or a medadic native)
		// is saturated with no arguments, so it runs here.
		if c, ok := callee.(value.Combinator); ok && c.Arity() == 0 {
			result, outcome, thrown := c.Apply(nil)
			switch outcome {
			case value.Bottom:
				return nil, &BottomError{Combinator: c.Name()}
			case value.Thrown:
				return nil, &Throw{Value: thrown}
			}
			return r.Reduce(result)
		}
		return r.Reduce(callee)
	}
	switch c := callee.(type) {
	case value.Combinator:
		elems := make([]value.Value, 0, 1+len(args))
		elems = append(elems, c)
		elems = append(elems, args...)
		return r.Reduce(&value.Array{Elems: elems})
	case *value.Array:
		if c.IsSpine() {
			if _, ok := c.Elems[0].(value.Combinator); ok {
				elems := make([]value.Value, 0, len(c.Elems)+len(args))
				elems = append(elems, c.Elems...)
				elems = append(elems, args...)
				return r.Reduce(&value.Array{Elems: elems})
			}
		}
		// Applying a non-function tuple: spec's "applying a non-function
		// produces the spine itself as data" edge case, generalized to
		// extra arguments — the whole thing is data.
		elems := make([]value.Value, 0, len(c.Elems)+len(args))
		elems = append(elems, c.Elems...)
		elems = append(elems, args...)
		return &value.Array{Elems: elems}, nil
	default:
		elems := make([]value.Value, 0, 1+len(args))
		elems = append(elems, callee)
		elems = append(elems, args...)
		return &value.Array{Elems: elems}, nil
	}
}
