package runtime

import "testing"

func TestStringConcat(t *testing.T) {
	gc := New()
	a := NewString(gc, "hello")
	b := NewString(gc, "bar")
	got := StringConcat(gc, a, b)
	if got.String() != "hellobar" {
		t.Fatalf("StringConcat = %q, want %q", got.String(), "hellobar")
	}

	// round-trip: concat with empty is byte-equal to the original (§8).
	empty := NewString(gc, "")
	if got := StringConcat(gc, a, empty); got.String() != a.String() {
		t.Fatalf("StringConcat(a, empty) = %q, want %q", got.String(), a.String())
	}
}

func TestStringSubstring(t *testing.T) {
	gc := New()
	s := NewString(gc, "abc")

	tests := []struct {
		name           string
		offset, length int64
		want           string
	}{
		{"negative offset", -1, 2, ""},
		{"zero length", 0, 0, ""},
		{"negative length", 1, -1, ""},
		{"offset past end", 5, 2, ""},
		{"length clamps to end", 1, 10, "bc"},
		{"whole string", 0, 3, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StringSubstring(gc, s, tt.offset, tt.length)
			if got.String() != tt.want {
				t.Errorf("substring(%d,%d) = %q, want %q", tt.offset, tt.length, got.String(), tt.want)
			}
		})
	}
}

func TestStringSearch(t *testing.T) {
	gc := New()
	s := NewString(gc, "hello world")
	empty := NewString(gc, "")

	if !StringStartsWith(s, empty) {
		t.Error("startsWith(empty) should be true")
	}
	if !StringEndsWith(s, empty) {
		t.Error("endsWith(empty) should be true")
	}
	if StringIndex(s, empty) != 0 {
		t.Error("index(empty) should be 0")
	}
	if !StringContains(s, NewString(gc, "wor")) {
		t.Error("contains(\"wor\") should be true")
	}
	if StringContains(s, NewString(gc, "xyz")) {
		t.Error("contains(\"xyz\") should be false")
	}
	if !StringStartsWith(s, NewString(gc, "hello")) {
		t.Error("startsWith(\"hello\") should be true")
	}
	if !StringEndsWith(s, NewString(gc, "world")) {
		t.Error("endsWith(\"world\") should be true")
	}
}

func TestCompareStrings(t *testing.T) {
	gc := New()
	a := NewString(gc, "foo")
	b := NewString(gc, "foo")
	c := NewString(gc, "bar")
	if !CompareStrings(a, b) {
		t.Error("equal strings should compare equal")
	}
	if CompareStrings(a, c) {
		t.Error("distinct strings should not compare equal")
	}
}

func TestStringCase(t *testing.T) {
	gc := New()
	s := NewString(gc, "MiXeD")
	if got := StringToLower(gc, s); got.String() != "mixed" {
		t.Errorf("toLower = %q", got.String())
	}
	if got := StringToUpper(gc, s); got.String() != "MIXED" {
		t.Errorf("toUpper = %q", got.String())
	}
}

func TestStringTrim(t *testing.T) {
	gc := New()
	s := NewString(gc, "  padded \t\n")
	if got := StringTrim(gc, s); got.String() != "padded" {
		t.Errorf("trim = %q, want %q", got.String(), "padded")
	}
}
