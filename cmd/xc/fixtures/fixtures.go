// Package fixtures holds hand-built *ast.Program trees, one per end-to-end
// scenario the middle end needs to exercise start to finish: fold through
// checks through lowering through execution. There is no lexer/parser in
// this module to build these from source text, so each fixture is built
// directly as Go literals — the same shapes a parser would hand the
// pipeline.
package fixtures

import (
	"fmt"
	"sort"

	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/types"
)

// Fixture names a program and the buildable tree behind it.
type Fixture struct {
	Name        string
	Description string
	Build       func() *ast.Program
}

// registry holds every fixture, keyed by name, populated by init() below.
var registry = map[string]Fixture{}

func register(f Fixture) {
	if _, exists := registry[f.Name]; exists {
		panic(fmt.Sprintf("fixtures: duplicate fixture name %q", f.Name))
	}
	registry[f.Name] = f
}

// Get looks up a fixture by name.
func Get(name string) (Fixture, bool) {
	f, ok := registry[name]
	return f, ok
}

// Names returns every registered fixture name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func mainFn(body ...ast.Statement) *ast.FunctionDecl {
	return &ast.FunctionDecl{
		Name:       "main",
		Args:       nil,
		ReturnType: types.VoidType,
		Body:       &ast.StatementList{Statements: body},
	}
}

func str(s string) *ast.StringLiteral { return &ast.StringLiteral{Value: s} }
func intLit(n int64) *ast.IntLiteral  { return &ast.IntLiteral{Value: n} }

func println_(e ast.Expression) *ast.Println { return &ast.Println{Value: e} }

func init() {
	register(arithmeticFixture())
	register(rangeForInFixture())
	register(constructorFixture())
	register(interfaceDispatchFixture())
	register(constFoldFixture())
	register(arrayAppendGrowthFixture())
}

// arithmeticFixture prints the results of int and float arithmetic plus a
// string concatenation, exercising BinOp's numeric promotion and the
// ResultType==ir.Ptr string-concat special case in one straight-line body.
func arithmeticFixture() Fixture {
	return Fixture{
		Name:        "arithmetic",
		Description: "int and float arithmetic, string concatenation, println",
		Build: func() *ast.Program {
			sum := &ast.BinaryOp{Op: "+", Left: intLit(2), Right: intLit(3)}
			quot := &ast.BinaryOp{Op: "/", Left: &ast.FloatLiteral{Value: 7}, Right: &ast.FloatLiteral{Value: 2}}
			greeting := &ast.BinaryOp{Op: "+", Left: str("hello, "), Right: str("world")}

			return &ast.Program{
				Functions: []*ast.FunctionDecl{
					mainFn(
						println_(sum),
						println_(quot),
						println_(greeting),
					),
				},
			}
		},
	}
}

// rangeForInFixture sums a stepped range with a for-in loop, exercising
// RangeLiteral, ForIn lowering, and the rangeNew/rangeHasNext/rangeStep
// internal-call family.
func rangeForInFixture() Fixture {
	return Fixture{
		Name:        "range_for_in",
		Description: "for-in over a stepped range, accumulating a running total",
		Build: func() *ast.Program {
			total := &ast.VarDeclStatement{Name: "total", DeclaredType: types.IntType, Init: intLit(0)}
			loop := &ast.ForIn{
				ValueVar: "v",
				Iterable: &ast.RangeLiteral{
					Start: intLit(0),
					Stop:  intLit(10),
					Step:  intLit(2),
				},
				Body: &ast.StatementList{Statements: []ast.Statement{
					&ast.Assignment{
						Name:  "total",
						Value: &ast.BinaryOp{Op: "+", Left: &ast.Identifier{Name: "total"}, Right: &ast.Identifier{Name: "v"}},
					},
				}},
			}

			return &ast.Program{
				Functions: []*ast.FunctionDecl{
					mainFn(total, loop, println_(&ast.Identifier{Name: "total"})),
				},
			}
		},
	}
}

// constructorFixture builds a small two-class hierarchy (Animal -> Dog),
// exercising New, per-class constructor bodies, and a method call that
// resolves to a parent class's compiled body through a subclass instance.
func constructorFixture() Fixture {
	return Fixture{
		Name:        "constructor",
		Description: "single-inheritance construction chain with property initialization",
		Build: func() *ast.Program {
			// A bare identifier inside a method body resolves to a local,
			// then (failing that) the enclosing class's own instance
			// property — there is no `this` expression in this AST, so the
			// constructor argument is named distinctly from the property it
			// initializes ("n" vs "label") to avoid the argument shadowing
			// the property it's assigned into.
			animal := &ast.ClassDecl{
				Name: "Animal",
				Properties: []*ast.PropertyDecl{
					{Name: "label", Type: types.StringType, Access: types.Public},
				},
				MethodDefs: []*ast.MethodDef{
					{
						Access: types.Public,
						Fn: &ast.FunctionDecl{
							Name:       ast.ConstructorName,
							Args:       []*ast.Argument{{Name: "n", Type: types.StringType}},
							ReturnType: types.VoidType,
							Body: &ast.StatementList{Statements: []ast.Statement{
								&ast.Assignment{Name: "label", Value: &ast.Identifier{Name: "n"}},
							}},
						},
					},
					{
						Access: types.Public,
						Fn: &ast.FunctionDecl{
							Name:       "greet",
							ReturnType: types.StringType,
							Body: &ast.StatementList{Statements: []ast.Statement{
								&ast.Return{Value: &ast.Identifier{Name: "label"}},
							}},
						},
					},
				},
			}

			// Dog supplies its own construct (emitNew always dispatches to
			// the instantiated class's own mangled constructor, never an
			// inherited one) but inherits greet() unmodified, exercising a
			// method call resolved to the parent class's compiled body
			// through a Dog instance's flattened layout.
			dog := &ast.ClassDecl{
				Name:   "Dog",
				Parent: "Animal",
				MethodDefs: []*ast.MethodDef{
					{
						Access: types.Public,
						Fn: &ast.FunctionDecl{
							Name:       ast.ConstructorName,
							Args:       []*ast.Argument{{Name: "n", Type: types.StringType}},
							ReturnType: types.VoidType,
							Body: &ast.StatementList{Statements: []ast.Statement{
								&ast.Assignment{Name: "label", Value: &ast.Identifier{Name: "n"}},
							}},
						},
					},
				},
			}

			newDog := &ast.VarDeclStatement{
				Name:         "d",
				DeclaredType: types.NewClass("Dog"),
				Init:         &ast.New{ClassName: "Dog", Args: []ast.Expression{str("Rex")}},
			}

			return &ast.Program{
				Classes: []*ast.ClassDecl{animal, dog},
				Functions: []*ast.FunctionDecl{
					mainFn(
						newDog,
						println_(&ast.MethodCall{Object: &ast.Identifier{Name: "d"}, Name: "greet"}),
					),
				},
			}
		},
	}
}

// interfaceDispatchFixture builds one interface with one implementer and
// calls the implementation through the interface's static type, exercising
// virtual-method discovery, interface-table construction, and
// CallInterface's trampoline.
func interfaceDispatchFixture() Fixture {
	return Fixture{
		Name:        "interface_dispatch",
		Description: "a single implementer called through its interface type",
		Build: func() *ast.Program {
			runnable := &ast.InterfaceDecl{
				Name: "Runnable",
				Methods: []*ast.MethodDecl{
					{
						Access: types.Public,
						Fn:     &ast.FunctionDecl{Name: "run", ReturnType: types.IntType},
					},
				},
			}

			task := &ast.ClassDecl{
				Name:       "Task",
				Interfaces: []string{"Runnable"},
				MethodDefs: []*ast.MethodDef{
					{
						Access: types.Public,
						Fn: &ast.FunctionDecl{
							Name:       "run",
							ReturnType: types.IntType,
							Body: &ast.StatementList{Statements: []ast.Statement{
								&ast.Return{Value: intLit(42)},
							}},
						},
					},
				},
			}

			newTask := &ast.VarDeclStatement{
				Name:         "t",
				DeclaredType: types.NewClass("Task"),
				Init:         &ast.New{ClassName: "Task"},
			}

			return &ast.Program{
				Interfaces: []*ast.InterfaceDecl{runnable},
				Classes:    []*ast.ClassDecl{task},
				Functions: []*ast.FunctionDecl{
					mainFn(
						newTask,
						println_(&ast.MethodCall{Object: &ast.Identifier{Name: "t"}, Name: "run"}),
					),
				},
			}
		},
	}
}

// constFoldFixture concatenates three adjacent string literals, the shape
// foldconst.Fold collapses into a single StringLiteral before the checks
// ever see it. xc run --no-fold on this fixture still produces the same
// output (BinOp lowering handles string concat either way) but xc dump-ir
// with and without --no-fold differs in exactly this subtree.
func constFoldFixture() Fixture {
	return Fixture{
		Name:        "const_fold",
		Description: "adjacent string-literal concatenation, foldable at compile time",
		Build: func() *ast.Program {
			greeting := &ast.BinaryOp{
				Op:   "+",
				Left: &ast.BinaryOp{Op: "+", Left: str("go"), Right: str("od")},
				Right: str(" morning"),
			}

			return &ast.Program{
				Functions: []*ast.FunctionDecl{
					mainFn(println_(greeting)),
				},
			}
		},
	}
}

// arrayAppendGrowthFixture appends past the runtime array's 8-element
// first-growth threshold, exercising NewArray/ArrayAppend/ArrayLen lowering
// and the doubling-growth policy in the backing ArrayObj. The literal
// seeds one element (the element type can't be inferred from an empty
// literal) and the loop appends eleven more.
func arrayAppendGrowthFixture() Fixture {
	return Fixture{
		Name:        "array_append_growth",
		Description: "repeated append past the first growth threshold",
		Build: func() *ast.Program {
			decl := &ast.VarDeclStatement{
				Name:         "xs",
				DeclaredType: types.NewArray(types.IntType),
				Init:         &ast.ArrayLiteral{Elements: []ast.Expression{intLit(0)}},
			}

			var body []ast.Statement
			body = append(body, decl)
			for i := int64(1); i <= 11; i++ {
				body = append(body, &ast.ArrayAppend{
					Array: &ast.Identifier{Name: "xs"},
					Value: intLit(i),
				})
			}
			body = append(body, println_(&ast.MethodCall{Object: &ast.Identifier{Name: "xs"}, Name: "length"}))
			body = append(body, println_(&ast.IndexFetch{Array: &ast.Identifier{Name: "xs"}, Index: intLit(11)}))

			return &ast.Program{
				Functions: []*ast.FunctionDecl{mainFn(body...)},
			}
		},
	}
}
