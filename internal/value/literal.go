package value

import "strconv"

// ConvertToInt parses Text as an Integer. On parse failure it returns
// Integer 0 — this is documented behavior, not an error.
func ConvertToInt(t Text) Int {
	n, err := strconv.ParseInt(string(t), 10, 64)
	if err != nil {
		return 0
	}
	return Int(n)
}

// ConvertToFloat parses Text as a Float. On parse failure it returns
// Float 0.0 — documented behavior, not an error.
func ConvertToFloat(t Text) Float {
	f, err := strconv.ParseFloat(string(t), 64)
	if err != nil {
		return 0
	}
	return Float(f)
}

// ConvertFromInt renders an Integer as Text.
func ConvertFromInt(i Int) Text { return Text(i.String()) }

// ConvertFromFloat renders a Float as Text.
func ConvertFromFloat(f Float) Text { return Text(f.String()) }

// Pack assembles Characters into Text. Walking the System.nil-terminated
// cons list those Characters come from lives in package stdlib (it needs
// the System.nil/System.cons symbols from a Machine); Pack here only
// assembles characters already extracted by the caller.
func Pack(chars []Char) Text {
	rs := make([]rune, len(chars))
	for i, c := range chars {
		rs[i] = rune(c)
	}
	return Text(string(rs))
}

// Unpack splits Text into its Characters, in order. The caller (package
// stdlib) wraps the result back into a System.cons/System.nil list.
func Unpack(t Text) []Char {
	rs := []rune(string(t))
	out := make([]Char, len(rs))
	for i, r := range rs {
		out[i] = Char(r)
	}
	return out
}
