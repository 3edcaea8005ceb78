package types

import "testing"

func TestEqualsStructuralNotIdentity(t *testing.T) {
	a := NewArray(IntType)
	b := NewArray(IntType)
	if !a.Equals(b) {
		t.Fatal("two independently constructed array<int> values should be equal")
	}
	if a.Equals(NewArray(StringType)) {
		t.Fatal("array<int> must not equal array<string>")
	}
}

func TestEqualsClassComparesByName(t *testing.T) {
	if !NewClass("Animal").Equals(NewClass("Animal")) {
		t.Fatal("class<Animal> should equal another class<Animal>")
	}
	if NewClass("Animal").Equals(NewClass("Dog")) {
		t.Fatal("class<Animal> must not equal class<Dog>")
	}
}

func TestEqualsAcrossKindsIsFalse(t *testing.T) {
	if IntType.Equals(FloatType) {
		t.Fatal("int must not equal float under Equals (int->float is a promotion, not an equivalence)")
	}
}

func TestIsNumeric(t *testing.T) {
	for _, tc := range []struct {
		t    Type
		want bool
	}{
		{IntType, true},
		{FloatType, true},
		{BoolType, false},
		{StringType, false},
		{VoidType, false},
		{NewArray(IntType), false},
		{NewClass("Animal"), false},
	} {
		if got := tc.t.IsNumeric(); got != tc.want {
			t.Errorf("%s.IsNumeric() = %v, want %v", tc.t, got, tc.want)
		}
	}
}

func TestIsPointer(t *testing.T) {
	for _, tc := range []struct {
		t    Type
		want bool
	}{
		{StringType, true},
		{NewArray(IntType), true},
		{NewClass("Animal"), true},
		{IntType, false},
		{FloatType, false},
		{BoolType, false},
		{VoidType, false},
	} {
		if got := tc.t.IsPointer(); got != tc.want {
			t.Errorf("%s.IsPointer() = %v, want %v", tc.t, got, tc.want)
		}
	}
}

func TestStringRendering(t *testing.T) {
	for _, tc := range []struct {
		t    Type
		want string
	}{
		{IntType, "int"},
		{FloatType, "float"},
		{BoolType, "bool"},
		{StringType, "string"},
		{VoidType, "void"},
		{NewArray(IntType), "array<int>"},
		{NewArray(NewArray(StringType)), "array<array<string>>"},
		{NewClass("Animal"), "Animal"},
	} {
		if got := tc.t.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestSignatureEqual(t *testing.T) {
	a := Signature{Access: Public, ReturnType: IntType, ParamTypes: []Type{StringType}}
	b := Signature{Access: Public, ReturnType: IntType, ParamTypes: []Type{StringType}}
	if !a.Equal(b) {
		t.Fatal("identical signatures should be equal")
	}

	diffAccess := b
	diffAccess.Access = Private
	if a.Equal(diffAccess) {
		t.Fatal("signatures with different access modifiers must not be equal")
	}

	diffStatic := b
	diffStatic.IsStatic = true
	if a.Equal(diffStatic) {
		t.Fatal("signatures with different staticness must not be equal")
	}

	diffReturn := b
	diffReturn.ReturnType = FloatType
	if a.Equal(diffReturn) {
		t.Fatal("signatures with different return types must not be equal")
	}

	diffParamCount := Signature{Access: Public, ReturnType: IntType, ParamTypes: []Type{StringType, IntType}}
	if a.Equal(diffParamCount) {
		t.Fatal("signatures with a different parameter count must not be equal")
	}

	diffParamType := Signature{Access: Public, ReturnType: IntType, ParamTypes: []Type{IntType}}
	if a.Equal(diffParamType) {
		t.Fatal("signatures with a different parameter type must not be equal")
	}
}
