package stdlib

import (
	"math"
	"testing"

	"github.com/ilex-lang/ilex/internal/value"
)

func TestMathSqrtIsFloatDomainOnly(t *testing.T) {
	m, r := NewMachineWithPrelude()
	sqrt := findCombinator(t, Math{}.Exports(m, r), "sqrt")

	if _, out, _ := sqrt.Apply([]value.Value{value.Int(4)}); out != value.Bottom {
		t.Fatalf("Math.sqrt on an Integer should be Bottom, got %v", out)
	}
	v, out, _ := sqrt.Apply([]value.Value{value.Float(4.0)})
	if out != value.OK || v != value.Float(2.0) {
		t.Fatalf("Math.sqrt 4.0 = %v, %v, want 2.0, OK", v, out)
	}
}

func TestMathPowReadsBothArguments(t *testing.T) {
	m, r := NewMachineWithPrelude()
	pow := findCombinator(t, Math{}.Exports(m, r), "pow")

	v, out, _ := pow.Apply([]value.Value{value.Float(2.0), value.Float(10.0)})
	if out != value.OK || v != value.Float(1024.0) {
		t.Fatalf("Math.pow 2.0 10.0 = %v, %v, want 1024.0, OK", v, out)
	}
}

func TestMathMaxMinDistinguishArguments(t *testing.T) {
	m, r := NewMachineWithPrelude()
	combs := Math{}.Exports(m, r)
	max := findCombinator(t, combs, "max")
	min := findCombinator(t, combs, "min")

	if v, _, _ := max.Apply([]value.Value{value.Float(3.0), value.Float(7.0)}); v != value.Float(7.0) {
		t.Fatalf("Math.max 3.0 7.0 = %v, want 7.0", v)
	}
	if v, _, _ := min.Apply([]value.Value{value.Float(3.0), value.Float(7.0)}); v != value.Float(3.0) {
		t.Fatalf("Math.min 3.0 7.0 = %v, want 3.0", v)
	}
}

func TestMathPi(t *testing.T) {
	m, r := NewMachineWithPrelude()
	pi := findCombinator(t, Math{}.Exports(m, r), "pi")
	v, out, _ := pi.Apply(nil)
	if out != value.OK || v != value.Float(math.Pi) {
		t.Fatalf("Math.pi = %v, %v, want %v, OK", v, out, math.Pi)
	}
}
