package typecheck

import (
	"testing"

	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/ctruntime"
	"github.com/cwbudde/go-dws/internal/types"
)

func mainFn(body ...ast.Statement) *ast.FunctionDecl {
	return &ast.FunctionDecl{
		Name:       "main",
		ReturnType: types.VoidType,
		Body:       &ast.StatementList{Statements: body},
	}
}

func checkProg(t *testing.T, prog *ast.Program) error {
	t.Helper()
	return Check(prog, ctruntime.New())
}

func TestCheckDivisionAlwaysResultsInFloat(t *testing.T) {
	div := &ast.BinaryOp{Op: "/", Left: &ast.IntLiteral{Value: 7}, Right: &ast.IntLiteral{Value: 2}}
	decl := &ast.VarDeclStatement{Name: "x", DeclaredType: types.FloatType, Init: div}
	prog := &ast.Program{Functions: []*ast.FunctionDecl{mainFn(decl)}}

	if err := checkProg(t, prog); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := div.ResolvedType; got.Kind() != types.Float {
		t.Fatalf("int / int resolved to %s, want float", got)
	}
}

func TestCheckExponentAlwaysResultsInFloat(t *testing.T) {
	exp := &ast.BinaryOp{Op: "**", Left: &ast.IntLiteral{Value: 2}, Right: &ast.IntLiteral{Value: 3}}
	decl := &ast.VarDeclStatement{Name: "x", DeclaredType: types.FloatType, Init: exp}
	prog := &ast.Program{Functions: []*ast.FunctionDecl{mainFn(decl)}}

	if err := checkProg(t, prog); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCheckIntPlusFloatPromotesToFloat(t *testing.T) {
	sum := &ast.BinaryOp{Op: "+", Left: &ast.IntLiteral{Value: 1}, Right: &ast.FloatLiteral{Value: 2.5}}
	decl := &ast.VarDeclStatement{Name: "x", DeclaredType: types.FloatType, Init: sum}
	prog := &ast.Program{Functions: []*ast.FunctionDecl{mainFn(decl)}}

	if err := checkProg(t, prog); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := sum.ResolvedType; got.Kind() != types.Float {
		t.Fatalf("int + float resolved to %s, want float", got)
	}
}

func TestCheckStringConcatenation(t *testing.T) {
	cat := &ast.BinaryOp{Op: "+", Left: &ast.StringLiteral{Value: "a"}, Right: &ast.StringLiteral{Value: "b"}}
	decl := &ast.VarDeclStatement{Name: "x", DeclaredType: types.StringType, Init: cat}
	prog := &ast.Program{Functions: []*ast.FunctionDecl{mainFn(decl)}}

	if err := checkProg(t, prog); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCheckEmptyArrayLiteralRejected(t *testing.T) {
	decl := &ast.VarDeclStatement{
		Name:         "xs",
		DeclaredType: types.NewArray(types.IntType),
		Init:         &ast.ArrayLiteral{},
	}
	prog := &ast.Program{Functions: []*ast.FunctionDecl{mainFn(decl)}}

	if err := checkProg(t, prog); err == nil {
		t.Fatal("expected an error: an empty array literal's element type cannot be inferred")
	}
}

func TestCheckArrayLiteralMixedElementTypesRejected(t *testing.T) {
	decl := &ast.VarDeclStatement{
		Name:         "xs",
		DeclaredType: types.NewArray(types.IntType),
		Init: &ast.ArrayLiteral{Elements: []ast.Expression{
			&ast.IntLiteral{Value: 1},
			&ast.StringLiteral{Value: "nope"},
		}},
	}
	prog := &ast.Program{Functions: []*ast.FunctionDecl{mainFn(decl)}}

	if err := checkProg(t, prog); err == nil {
		t.Fatal("expected an error: array literal elements must share one type")
	}
}

func TestCheckBareIdentifierResolvesLocalBeforeInstanceProperty(t *testing.T) {
	// A method-local "label" shadows the instance property of the same
	// name — varType walks the scope stack before ever consulting
	// classProps.
	class := &ast.ClassDecl{
		Name:       "Holder",
		Properties: []*ast.PropertyDecl{{Name: "label", Type: types.StringType, Access: types.Public}},
		MethodDefs: []*ast.MethodDef{
			{
				Access: types.Public,
				Fn: &ast.FunctionDecl{
					Name:       "shadow",
					ReturnType: types.IntType,
					Body: &ast.StatementList{Statements: []ast.Statement{
						&ast.VarDeclStatement{Name: "label", DeclaredType: types.IntType, Init: &ast.IntLiteral{Value: 9}},
						&ast.Return{Value: &ast.Identifier{Name: "label"}},
					}},
				},
			},
		},
	}
	prog := &ast.Program{Classes: []*ast.ClassDecl{class}}

	if err := checkProg(t, prog); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCheckBareIdentifierFallsBackToInstanceProperty(t *testing.T) {
	class := &ast.ClassDecl{
		Name:       "Holder",
		Properties: []*ast.PropertyDecl{{Name: "label", Type: types.StringType, Access: types.Public}},
		MethodDefs: []*ast.MethodDef{
			{
				Access: types.Public,
				Fn: &ast.FunctionDecl{
					Name:       "get",
					ReturnType: types.StringType,
					Body: &ast.StatementList{Statements: []ast.Statement{
						&ast.Return{Value: &ast.Identifier{Name: "label"}},
					}},
				},
			},
		},
	}
	prog := &ast.Program{Classes: []*ast.ClassDecl{class}}

	if err := checkProg(t, prog); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCheckInstancePropertyUnavailableInStaticMethod(t *testing.T) {
	class := &ast.ClassDecl{
		Name:       "Holder",
		Properties: []*ast.PropertyDecl{{Name: "label", Type: types.StringType, Access: types.Public}},
		MethodDefs: []*ast.MethodDef{
			{
				Access:   types.Public,
				IsStatic: true,
				Fn: &ast.FunctionDecl{
					Name:       "get",
					ReturnType: types.StringType,
					Body: &ast.StatementList{Statements: []ast.Statement{
						&ast.Return{Value: &ast.Identifier{Name: "label"}},
					}},
				},
			},
		},
	}
	prog := &ast.Program{Classes: []*ast.ClassDecl{class}}

	if err := checkProg(t, prog); err == nil {
		t.Fatal("expected an error: a static method must not resolve a bare identifier to an instance property")
	}
}

func TestCheckMethodCallResolvesThroughInheritedDefinition(t *testing.T) {
	animal := &ast.ClassDecl{
		Name: "Animal",
		MethodDefs: []*ast.MethodDef{
			{
				Access: types.Public,
				Fn: &ast.FunctionDecl{
					Name:       "speak",
					ReturnType: types.StringType,
					Body:       &ast.StatementList{Statements: []ast.Statement{&ast.Return{Value: &ast.StringLiteral{Value: "..."}}}},
				},
			},
		},
	}
	dog := &ast.ClassDecl{Name: "Dog", Parent: "Animal"}

	decl := &ast.VarDeclStatement{
		Name:         "d",
		DeclaredType: types.NewClass("Dog"),
		Init:         &ast.New{ClassName: "Dog"},
	}
	call := &ast.MethodCall{Object: &ast.Identifier{Name: "d"}, Name: "speak"}
	prog := &ast.Program{
		Classes:   []*ast.ClassDecl{animal, dog},
		Functions: []*ast.FunctionDecl{mainFn(decl, &ast.ExpressionStatement{Expr: call})},
	}

	if err := checkProg(t, prog); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCheckStaticMethodCallRejectsInstanceMethod(t *testing.T) {
	class := &ast.ClassDecl{
		Name: "Util",
		MethodDefs: []*ast.MethodDef{
			{
				Access: types.Public,
				Fn: &ast.FunctionDecl{
					Name:       "instanceOnly",
					ReturnType: types.VoidType,
					Body:       &ast.StatementList{},
				},
			},
		},
	}
	call := &ast.StaticMethodCall{ClassName: "Util", Name: "instanceOnly"}
	prog := &ast.Program{
		Classes:   []*ast.ClassDecl{class},
		Functions: []*ast.FunctionDecl{mainFn(&ast.ExpressionStatement{Expr: call})},
	}

	if err := checkProg(t, prog); err == nil {
		t.Fatal("expected an error: Util::instanceOnly() is not a static method")
	}
}

func TestCheckForInOverArrayBindsElementType(t *testing.T) {
	arr := &ast.VarDeclStatement{
		Name:         "xs",
		DeclaredType: types.NewArray(types.IntType),
		Init:         &ast.ArrayLiteral{Elements: []ast.Expression{&ast.IntLiteral{Value: 1}}},
	}
	loop := &ast.ForIn{
		ValueVar: "v",
		Iterable: &ast.Identifier{Name: "xs"},
		Body: &ast.StatementList{Statements: []ast.Statement{
			&ast.ExpressionStatement{Expr: &ast.UnaryOp{Op: "!", Operand: &ast.BoolLiteral{Value: true}}},
		}},
	}
	prog := &ast.Program{Functions: []*ast.FunctionDecl{mainFn(arr, loop)}}

	if err := checkProg(t, prog); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if loop.ElemType.Kind() != types.Int {
		t.Fatalf("ForIn.ElemType = %s, want int", loop.ElemType)
	}
}

func TestCheckForInOverNonIterableRejected(t *testing.T) {
	loop := &ast.ForIn{
		ValueVar: "v",
		Iterable: &ast.IntLiteral{Value: 1},
		Body:     &ast.StatementList{},
	}
	prog := &ast.Program{Functions: []*ast.FunctionDecl{mainFn(loop)}}

	if err := checkProg(t, prog); err == nil {
		t.Fatal("expected an error: an int is neither an array nor a range")
	}
}

func TestCheckCannotPrintClassOrArrayValue(t *testing.T) {
	decl := &ast.VarDeclStatement{
		Name:         "xs",
		DeclaredType: types.NewArray(types.IntType),
		Init:         &ast.ArrayLiteral{Elements: []ast.Expression{&ast.IntLiteral{Value: 1}}},
	}
	print := &ast.Println{Value: &ast.Identifier{Name: "xs"}}
	prog := &ast.Program{Functions: []*ast.FunctionDecl{mainFn(decl, print)}}

	if err := checkProg(t, prog); err == nil {
		t.Fatal("expected an error: println must reject an array-typed value")
	}
}

func TestCheckReturnTypeMismatchRejected(t *testing.T) {
	fn := &ast.FunctionDecl{
		Name:       "giveInt",
		ReturnType: types.IntType,
		Body: &ast.StatementList{Statements: []ast.Statement{
			&ast.Return{Value: &ast.StringLiteral{Value: "nope"}},
		}},
	}
	prog := &ast.Program{Functions: []*ast.FunctionDecl{fn}}

	if err := checkProg(t, prog); err == nil {
		t.Fatal("expected an error: returning a string where int is declared")
	}
}

func TestCheckCanCastClassToAncestorAndInterface(t *testing.T) {
	runnable := &ast.InterfaceDecl{
		Name:    "Runnable",
		Methods: []*ast.MethodDecl{{Access: types.Public, Fn: &ast.FunctionDecl{Name: "run", ReturnType: types.IntType}}},
	}
	animal := &ast.ClassDecl{Name: "Animal"}
	dog := &ast.ClassDecl{
		Name:       "Dog",
		Parent:     "Animal",
		Interfaces: []string{"Runnable"},
		MethodDefs: []*ast.MethodDef{
			{
				Access: types.Public,
				Fn: &ast.FunctionDecl{
					Name:       "run",
					ReturnType: types.IntType,
					Body:       &ast.StatementList{Statements: []ast.Statement{&ast.Return{Value: &ast.IntLiteral{Value: 1}}}},
				},
			},
		},
	}

	newDog := &ast.VarDeclStatement{Name: "d", DeclaredType: types.NewClass("Dog"), Init: &ast.New{ClassName: "Dog"}}
	upcast := &ast.VarDeclStatement{Name: "a", DeclaredType: types.NewClass("Animal"), Init: &ast.Identifier{Name: "d"}}
	asIface := &ast.VarDeclStatement{Name: "r", DeclaredType: types.NewClass("Runnable"), Init: &ast.Identifier{Name: "d"}}

	prog := &ast.Program{
		Interfaces: []*ast.InterfaceDecl{runnable},
		Classes:    []*ast.ClassDecl{animal, dog},
		Functions:  []*ast.FunctionDecl{mainFn(newDog, upcast, asIface)},
	}

	// interfacecheck would normally populate rt.ImplementedInterfaces
	// before typecheck runs; reproduce that here since this test drives
	// typecheck.Check in isolation rather than the whole pipeline.
	rt := ctruntime.New()
	rt.AddImplementedInterfaces("Dog", "Runnable")

	if err := Check(prog, rt); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCheckCannotAssignUnrelatedClassTypes(t *testing.T) {
	cat := &ast.ClassDecl{Name: "Cat"}
	dog := &ast.ClassDecl{Name: "Dog"}
	newCat := &ast.VarDeclStatement{Name: "c", DeclaredType: types.NewClass("Cat"), Init: &ast.New{ClassName: "Cat"}}
	badAssign := &ast.VarDeclStatement{Name: "d", DeclaredType: types.NewClass("Dog"), Init: &ast.Identifier{Name: "c"}}

	prog := &ast.Program{
		Classes:   []*ast.ClassDecl{cat, dog},
		Functions: []*ast.FunctionDecl{mainFn(newCat, badAssign)},
	}

	if err := checkProg(t, prog); err == nil {
		t.Fatal("expected an error: Cat and Dog share no ancestor/interface relationship")
	}
}
