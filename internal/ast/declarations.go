package ast

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-dws/internal/types"
)

// Argument is one parameter of a function/method declaration.
type Argument struct {
	Position Position
	Name     string
	Type     types.Type
}

func (a *Argument) String() string { return fmt.Sprintf("%s %s", a.Type, a.Name) }

// FunctionDecl is a global function declaration or definition (a
// definition is a declaration with a non-nil Body); it is also embedded —
// conceptually, not structurally — by MethodDecl/MethodDef, which add the
// class-member bits (access modifier, static flag, abstract flag).
type FunctionDecl struct {
	Position   Position
	Name       string
	Args       []*Argument
	ReturnType types.Type
	Body       *StatementList // nil for a declaration with no definition
}

func (d *FunctionDecl) statementNode()   {}
func (d *FunctionDecl) declarationNode() {}
func (d *FunctionDecl) Pos() Position    { return d.Position }
func (d *FunctionDecl) String() string {
	args := make([]string, len(d.Args))
	for i, a := range d.Args {
		args[i] = a.String()
	}
	sig := fmt.Sprintf("fn %s(%s) %s", d.Name, strings.Join(args, ", "), d.ReturnType)
	if d.Body == nil {
		return sig + ";"
	}
	return sig + " { " + d.Body.String() + " }"
}

// Signature extracts the part of the declaration that must match across
// abstract/override, interface/implementer, and base/virtual-override
// comparisons (§4.2–§4.4). access/isStatic come from the caller since a
// bare FunctionDecl (global function) carries neither.
func (d *FunctionDecl) Signature(access types.AccessModifier, isStatic bool) types.Signature {
	params := make([]types.Type, len(d.Args))
	for i, a := range d.Args {
		params[i] = a.Type
	}
	return types.Signature{
		Access:     access,
		IsStatic:   isStatic,
		ReturnType: d.ReturnType,
		ParamTypes: params,
	}
}

// PropertyDecl is an instance or static field declaration inside a class.
type PropertyDecl struct {
	Position Position
	Name     string
	Type     types.Type
	IsStatic bool
	Access   types.AccessModifier
	// Init is an optional initializer expression, evaluated at construction
	// time for instance properties or during __init for static ones.
	Init Expression
}

func (p *PropertyDecl) Pos() Position { return p.Position }
func (p *PropertyDecl) String() string {
	prefix := ""
	if p.IsStatic {
		prefix = "static "
	}
	return fmt.Sprintf("%s%s %s %s;", prefix, p.Access, p.Type, p.Name)
}

// MethodDecl is an abstract method declaration: no body, possibly static,
// with an access modifier.
type MethodDecl struct {
	Position   Position
	Fn         *FunctionDecl
	Access     types.AccessModifier
	IsStatic   bool
	IsAbstract bool
}

func (m *MethodDecl) Pos() Position { return m.Position }
func (m *MethodDecl) String() string {
	prefix := m.Access.String()
	if m.IsStatic {
		prefix += " static"
	}
	if m.IsAbstract {
		prefix += " abstract"
	}
	return prefix + " " + m.Fn.String()
}

// Signature is a convenience wrapper over Fn.Signature using this
// declaration's own access/static bits.
func (m *MethodDecl) Signature() types.Signature {
	return m.Fn.Signature(m.Access, m.IsStatic)
}

// MethodDef is a concrete method definition (Fn.Body != nil).
type MethodDef struct {
	Position Position
	Fn       *FunctionDecl
	Access   types.AccessModifier
	IsStatic bool
}

func (m *MethodDef) Pos() Position { return m.Position }
func (m *MethodDef) String() string {
	prefix := m.Access.String()
	if m.IsStatic {
		prefix += " static"
	}
	return prefix + " " + m.Fn.String()
}

func (m *MethodDef) Signature() types.Signature {
	return m.Fn.Signature(m.Access, m.IsStatic)
}

// ConstructorName is the reserved method name checked by §4.5
// ("A method named `construct`...").
const ConstructorName = "construct"
