package native

import (
	"testing"

	"github.com/ilex-lang/ilex/internal/value"
)

func TestArityClassMatchesDeclaredCount(t *testing.T) {
	cases := []struct {
		class ArityClass
		want  int
	}{
		{Medadic, 0}, {Monadic, 1}, {Dyadic, 2}, {Triadic, 3}, {BinaryPattern, 2},
	}
	for _, c := range cases {
		if got := c.class.Arity(); got != c.want {
			t.Fatalf("ArityClass(%d).Arity() = %d, want %d", c.class, got, c.want)
		}
	}
}

func TestApplyDispatchesToBody(t *testing.T) {
	n := New(1, "System", "toint", Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		t, ok := args[0].(value.Text)
		if !ok {
			return nil, value.Bottom, nil
		}
		return value.ConvertToInt(t), value.OK, nil
	})
	v, outcome, _ := n.Apply([]value.Value{value.Text("42")})
	if outcome != value.OK || v != value.Int(42) {
		t.Fatalf("Apply(\"42\") = %v, %v, want 42, OK", v, outcome)
	}
}

func TestApplyTagMismatchReturnsBottom(t *testing.T) {
	n := New(1, "System", "toint", Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		if _, ok := args[0].(value.Text); !ok {
			return nil, value.Bottom, nil
		}
		return value.Int(0), value.OK, nil
	})
	_, outcome, _ := n.Apply([]value.Value{value.Int(5)})
	if outcome != value.Bottom {
		t.Fatalf("expected Bottom outcome for a tag mismatch, got %v", outcome)
	}
}

func TestNameQualifiesWithNamespace(t *testing.T) {
	n := New(1, "Math", "sqrt", Monadic, nil)
	if n.Name() != "Math.sqrt" {
		t.Fatalf("Name() = %q, want Math.sqrt", n.Name())
	}
}
