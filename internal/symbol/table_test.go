package symbol

import "testing"

func TestEnterIsIdempotent(t *testing.T) {
	tbl := NewTable()
	id1 := tbl.Enter("System", "cons")
	id2 := tbl.Enter("System", "cons")
	if id1 != id2 {
		t.Fatalf("Enter should return the same id for the same name, got %d and %d", id1, id2)
	}
}

func TestEnterAllocatesDistinctIDs(t *testing.T) {
	tbl := NewTable()
	nil_ := tbl.Enter("System", "nil")
	cons := tbl.Enter("System", "cons")
	if nil_ == cons {
		t.Fatalf("distinct names must get distinct ids")
	}
}

func TestNameOfRoundTrips(t *testing.T) {
	tbl := NewTable()
	id := tbl.Enter("Math", "sqrt")
	n := tbl.NameOf(id)
	if n.Namespace != "Math" || n.Local != "sqrt" {
		t.Fatalf("NameOf(%d) = %+v, want Math.sqrt", id, n)
	}
}

func TestLookupMissing(t *testing.T) {
	tbl := NewTable()
	if _, ok := tbl.Lookup("System", "nope"); ok {
		t.Fatalf("Lookup of a never-entered name must report not-ok")
	}
}

func TestNameOfPanicsOnForeignID(t *testing.T) {
	tbl := NewTable()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an id this table never issued")
		}
	}()
	tbl.NameOf(42)
}
