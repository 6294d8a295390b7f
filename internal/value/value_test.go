package value

import "testing"

func TestCompareReflexiveAndAntisymmetric(t *testing.T) {
	vals := []Value{
		Int(3), Int(5), Float(1.5), Char('a'), Text("abc"), Text("abd"),
		NewArray(Int(1), Int(2)), NewArray(Int(1), Int(2), Int(3)),
	}
	for _, a := range vals {
		for _, b := range vals {
			if Compare(a, a) != 0 {
				t.Fatalf("compare(%v, %v) should be 0", a, a)
			}
			if Compare(a, b) != -Compare(b, a) {
				t.Fatalf("compare(%v,%v) = %d, -compare(b,a) = %d", a, b, Compare(a, b), -Compare(b, a))
			}
		}
	}
}

func TestCompareOrdersByTagFirst(t *testing.T) {
	if Compare(Int(1000000), Float(-5)) >= 0 {
		t.Fatalf("Integer must sort before Float regardless of payload")
	}
	if Compare(Text("z"), Data{Sym: 0}) >= 0 {
		t.Fatalf("Text must sort before Data regardless of payload")
	}
}

func TestCompareArraysElementwiseThenLength(t *testing.T) {
	short := NewArray(Int(1), Int(2))
	long := NewArray(Int(1), Int(2), Int(3))
	if Compare(short, long) >= 0 {
		t.Fatalf("a prefix array must compare less than its extension")
	}
	a := NewArray(Int(1), Int(9))
	b := NewArray(Int(1), Int(2), Int(0))
	if Compare(a, b) <= 0 {
		t.Fatalf("elementwise difference must dominate length")
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	in := Text("hello, 世界")
	if got := Pack(Unpack(in)); got != in {
		t.Fatalf("pack(unpack(%q)) = %q, want %q", in, got, in)
	}
}

func TestToIntToTextRoundTrip(t *testing.T) {
	n := Int(424242)
	if got := ConvertToInt(ConvertFromInt(n)); got != n {
		t.Fatalf("toint(totext(%d)) = %d", n, got)
	}
}

func TestConvertFailureIsZeroNotError(t *testing.T) {
	if got := ConvertToInt(Text("not a number")); got != 0 {
		t.Fatalf("ConvertToInt on garbage should yield 0, got %d", got)
	}
	if got := ConvertToFloat(Text("nope")); got != 0 {
		t.Fatalf("ConvertToFloat on garbage should yield 0.0, got %v", got)
	}
}

func TestArraySpineInvariant(t *testing.T) {
	spine := NewArray(Int(1), Int(2))
	if !spine.IsSpine() {
		t.Fatalf("a 2-element array must be considered a possible spine")
	}
	tuple := NewArray(Data{Sym: 0})
	if tuple.IsSpine() {
		t.Fatalf("a 1-element array must never be a spine (invariant 3)")
	}
}
