package ast

import "testing"

func TestExpressionStringRendersNestedSubtrees(t *testing.T) {
	for _, tc := range []struct {
		name string
		expr Expression
		want string
	}{
		{"int", &IntLiteral{Value: 42}, "42"},
		{"string escaped", &StringLiteral{Value: `say "hi"`}, `"say \"hi\""`},
		{"bool", &BoolLiteral{Value: true}, "true"},
		{"identifier", &Identifier{Name: "x"}, "x"},
		{"prefix unary", &UnaryOp{Op: "!", Operand: &Identifier{Name: "flag"}}, "!flag"},
		{"postfix unary", &UnaryOp{Op: "++", Operand: &Identifier{Name: "i"}, Postfix: true}, "i++"},
		{"binary nests parens", &BinaryOp{Op: "+", Left: &IntLiteral{Value: 1}, Right: &BinaryOp{Op: "*", Left: &IntLiteral{Value: 2}, Right: &IntLiteral{Value: 3}}}, "(1 + (2 * 3))"},
		{"call", &Call{Name: "max", Args: []Expression{&IntLiteral{Value: 1}, &IntLiteral{Value: 2}}}, "max(1, 2)"},
		{"fetch prop", &FetchProp{Object: &Identifier{Name: "self"}, Name: "label"}, "self.label"},
		{"fetch static prop", &FetchStaticProp{ClassName: "Config", Name: "version"}, "Config::version"},
		{"array literal", &ArrayLiteral{Elements: []Expression{&IntLiteral{Value: 1}, &IntLiteral{Value: 2}}}, "[1, 2]"},
		{"range open start", &RangeLiteral{Stop: &IntLiteral{Value: 9}}, "range(9)"},
		{"range with start", &RangeLiteral{Start: &IntLiteral{Value: 1}, Stop: &IntLiteral{Value: 9}}, "range(1, 9)"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.expr.String(); got != tc.want {
				t.Errorf("%s.String() = %q, want %q", tc.name, got, tc.want)
			}
		})
	}
}

func TestClassDeclStringIncludesParentOnlyWhenPresent(t *testing.T) {
	base := &ClassDecl{Name: "Animal"}
	if got := base.String(); got != "class Animal" {
		t.Errorf("ClassDecl.String() with no parent = %q, want %q", got, "class Animal")
	}

	derived := &ClassDecl{Name: "Dog", Parent: "Animal"}
	if got := derived.String(); got != "class Dog extends Animal" {
		t.Errorf("ClassDecl.String() with a parent = %q, want %q", got, "class Dog extends Animal")
	}
}

func TestProgramPosFallsBackThroughDeclarationKinds(t *testing.T) {
	classPos := Position{Line: 5, Column: 1}
	prog := &Program{Classes: []*ClassDecl{{Position: classPos, Name: "Only"}}}
	if got := prog.Pos(); got != classPos {
		t.Errorf("Program.Pos() with only a class = %+v, want %+v", got, classPos)
	}
}
