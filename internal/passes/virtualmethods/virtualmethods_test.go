package virtualmethods

import (
	"testing"

	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/ctruntime"
	"github.com/cwbudde/go-dws/internal/types"
)

func methodDef(name string, ret types.Type, isStatic bool, body ...ast.Statement) *ast.MethodDef {
	return &ast.MethodDef{
		Access:   types.Public,
		IsStatic: isStatic,
		Fn: &ast.FunctionDecl{
			Name:       name,
			ReturnType: ret,
			Body:       &ast.StatementList{Statements: body},
		},
	}
}

func ret(v ast.Expression) []ast.Statement { return []ast.Statement{&ast.Return{Value: v}} }

func TestDiscoverMarksOverriddenMethodVirtual(t *testing.T) {
	animal := &ast.ClassDecl{
		Name:       "Animal",
		MethodDefs: []*ast.MethodDef{methodDef("speak", types.StringType, false, ret(&ast.StringLiteral{Value: "..."})...)},
	}
	dog := &ast.ClassDecl{
		Name:       "Dog",
		Parent:     "Animal",
		MethodDefs: []*ast.MethodDef{methodDef("speak", types.StringType, false, ret(&ast.StringLiteral{Value: "woof"})...)},
	}

	rt := ctruntime.New()
	if err := Discover(&ast.Program{Classes: []*ast.ClassDecl{animal, dog}}, rt); err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if !rt.IsVirtual("Animal", "speak") {
		t.Fatal("Animal.speak should be marked virtual since Dog overrides it")
	}
}

func TestDiscoverConstructorNeverVirtual(t *testing.T) {
	animal := &ast.ClassDecl{
		Name: "Animal",
		MethodDefs: []*ast.MethodDef{
			methodDef(ast.ConstructorName, types.VoidType, false),
		},
	}
	dog := &ast.ClassDecl{
		Name:   "Dog",
		Parent: "Animal",
		MethodDefs: []*ast.MethodDef{
			methodDef(ast.ConstructorName, types.VoidType, false),
		},
	}

	rt := ctruntime.New()
	if err := Discover(&ast.Program{Classes: []*ast.ClassDecl{animal, dog}}, rt); err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if rt.IsVirtual("Animal", ast.ConstructorName) {
		t.Fatal("construct must never be marked virtual, regardless of subclass overrides")
	}
}

func TestDiscoverStaticMethodNeverVirtual(t *testing.T) {
	animal := &ast.ClassDecl{
		Name:       "Animal",
		MethodDefs: []*ast.MethodDef{methodDef("classify", types.StringType, true, ret(&ast.StringLiteral{Value: "base"})...)},
	}
	dog := &ast.ClassDecl{
		Name:       "Dog",
		Parent:     "Animal",
		MethodDefs: []*ast.MethodDef{methodDef("classify", types.StringType, true, ret(&ast.StringLiteral{Value: "sub"})...)},
	}

	rt := ctruntime.New()
	if err := Discover(&ast.Program{Classes: []*ast.ClassDecl{animal, dog}}, rt); err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if rt.IsVirtual("Animal", "classify") {
		t.Fatal("a static ancestor method must never be marked virtual")
	}
}

func TestDiscoverMethodWithoutOverrideStaysNonVirtual(t *testing.T) {
	animal := &ast.ClassDecl{
		Name: "Animal",
		MethodDefs: []*ast.MethodDef{
			methodDef("speak", types.StringType, false, ret(&ast.StringLiteral{Value: "..."})...),
			methodDef("breathe", types.VoidType, false),
		},
	}
	dog := &ast.ClassDecl{
		Name:       "Dog",
		Parent:     "Animal",
		MethodDefs: []*ast.MethodDef{methodDef("speak", types.StringType, false, ret(&ast.StringLiteral{Value: "woof"})...)},
	}

	rt := ctruntime.New()
	if err := Discover(&ast.Program{Classes: []*ast.ClassDecl{animal, dog}}, rt); err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if rt.IsVirtual("Animal", "breathe") {
		t.Fatal("breathe is never overridden by Dog and should not be marked virtual")
	}
}

func TestDiscoverIncompatibleOverrideSignatureFails(t *testing.T) {
	animal := &ast.ClassDecl{
		Name:       "Animal",
		MethodDefs: []*ast.MethodDef{methodDef("speak", types.StringType, false, ret(&ast.StringLiteral{Value: "..."})...)},
	}
	dog := &ast.ClassDecl{
		Name:       "Dog",
		Parent:     "Animal",
		MethodDefs: []*ast.MethodDef{methodDef("speak", types.IntType, false, ret(&ast.IntLiteral{Value: 1})...)},
	}

	rt := ctruntime.New()
	err := Discover(&ast.Program{Classes: []*ast.ClassDecl{animal, dog}}, rt)
	if err == nil {
		t.Fatal("expected an error: Dog.speak's return type is incompatible with Animal.speak's")
	}
}

// TestDiscoverMarksVirtualAcrossThreeLevels exercises the ancestor-walk
// loop beyond a single parent hop: a grandchild override must still mark
// the method virtual on the class that first declared it.
func TestDiscoverMarksVirtualAcrossThreeLevels(t *testing.T) {
	animal := &ast.ClassDecl{
		Name:       "Animal",
		MethodDefs: []*ast.MethodDef{methodDef("speak", types.StringType, false, ret(&ast.StringLiteral{Value: "..."})...)},
	}
	dog := &ast.ClassDecl{Name: "Dog", Parent: "Animal"}
	puppy := &ast.ClassDecl{
		Name:       "Puppy",
		Parent:     "Dog",
		MethodDefs: []*ast.MethodDef{methodDef("speak", types.StringType, false, ret(&ast.StringLiteral{Value: "yip"})...)},
	}

	rt := ctruntime.New()
	if err := Discover(&ast.Program{Classes: []*ast.ClassDecl{animal, dog, puppy}}, rt); err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if !rt.IsVirtual("Animal", "speak") {
		t.Fatal("Animal.speak should be marked virtual even though the override is two levels down, through Dog")
	}
}
