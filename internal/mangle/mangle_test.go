package mangle

import "testing"

func TestManglerSymbols(t *testing.T) {
	var m Mangler

	cases := []struct {
		name string
		got  string
		want string
	}{
		{"Class", m.Class("Animal"), "class.Animal"},
		{"Interface", m.Interface("Runnable"), "interface.Runnable"},
		{"Method", m.Method(m.Class("Animal"), "speak"), "class.Animal_speak"},
		{"HiddenMethod", m.HiddenMethod(m.Class("Animal"), "init"), "class.Animal.init"},
		{"InternalMethod", m.InternalMethod(m.Class("String"), "concat"), "x.class.String_concat"},
		{"StaticProp", m.StaticProp(m.Class("Counter"), "total"), "class.Counter_total"},
		{"InternalFunction", m.InternalFunction("die"), "x.die"},
		{"InternalSymbol", m.InternalSymbol("gc"), "x.gc"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, c.got, c.want)
		}
	}
}

func TestUnmangleClassRoundTrip(t *testing.T) {
	var m Mangler
	mangled := m.Class("Animal")
	if got := m.UnmangleClass(mangled); got != "Animal" {
		t.Fatalf("UnmangleClass(%q) = %q, want %q", mangled, got, "Animal")
	}
}

func TestHiddenMethodDoesNotCollideWithMethod(t *testing.T) {
	var m Mangler
	class := m.Class("Animal")
	if m.Method(class, "init") == m.HiddenMethod(class, "init") {
		t.Fatal("Method and HiddenMethod must mangle the same simple name to distinct symbols")
	}
}

func TestClassAndInterfaceNeverCollide(t *testing.T) {
	var m Mangler
	if m.Class("Shape") == m.Interface("Shape") {
		t.Fatal("Class and Interface must mangle the same source name to distinct symbols")
	}
}
