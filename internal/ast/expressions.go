package ast

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-dws/internal/types"
)

// IntLiteral is a scalar int literal.
type IntLiteral struct {
	Position Position
	Value    int64
}

func (e *IntLiteral) expressionNode()  {}
func (e *IntLiteral) Pos() Position    { return e.Position }
func (e *IntLiteral) String() string   { return fmt.Sprintf("%d", e.Value) }

// FloatLiteral is a scalar float literal.
type FloatLiteral struct {
	Position Position
	Value    float64
}

func (e *FloatLiteral) expressionNode() {}
func (e *FloatLiteral) Pos() Position   { return e.Position }
func (e *FloatLiteral) String() string  { return fmt.Sprintf("%g", e.Value) }

// BoolLiteral is a scalar bool literal.
type BoolLiteral struct {
	Position Position
	Value    bool
}

func (e *BoolLiteral) expressionNode() {}
func (e *BoolLiteral) Pos() Position   { return e.Position }
func (e *BoolLiteral) String() string  { return fmt.Sprintf("%t", e.Value) }

// StringLiteral is a scalar string literal. Const-string folding (§4.1)
// rewrites adjacent string-literal `+` subtrees into a single node of this
// kind.
type StringLiteral struct {
	Position Position
	Value    string
}

func (e *StringLiteral) expressionNode() {}
func (e *StringLiteral) Pos() Position   { return e.Position }
func (e *StringLiteral) String() string  { return fmt.Sprintf("%q", e.Value) }

// ArrayLiteral is `[]T{e1, e2, ...}` or the element-typeless `[e1, e2, ...]`
// form; ElemType is filled in by the type inferrer once the element type is
// known (zero value beforehand).
type ArrayLiteral struct {
	Position Position
	Elements []Expression
	ElemType types.Type
}

func (e *ArrayLiteral) expressionNode() {}
func (e *ArrayLiteral) Pos() Position   { return e.Position }
func (e *ArrayLiteral) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// RangeLiteral is `range(stop)` / `range(start, stop)` / `range(start, stop, step)`.
type RangeLiteral struct {
	Position          Position
	Start, Stop, Step Expression // Start and Step may be nil (defaulted by the checker)
}

func (e *RangeLiteral) expressionNode() {}
func (e *RangeLiteral) Pos() Position   { return e.Position }
func (e *RangeLiteral) String() string {
	switch {
	case e.Start == nil:
		return fmt.Sprintf("range(%s)", e.Stop)
	case e.Step == nil:
		return fmt.Sprintf("range(%s, %s)", e.Start, e.Stop)
	default:
		return fmt.Sprintf("range(%s, %s, %s)", e.Start, e.Stop, e.Step)
	}
}

// Identifier is a variable reference.
type Identifier struct {
	Position Position
	Name     string
	// ResolvedType is filled in by the type inferrer.
	ResolvedType types.Type
}

func (e *Identifier) expressionNode() {}
func (e *Identifier) Pos() Position   { return e.Position }
func (e *Identifier) String() string  { return e.Name }

// UnaryOp is `++x`, `x++`, `--x`, `x--`, `!x`.
type UnaryOp struct {
	Position Position
	Op       string // "++", "--", "!"
	Operand  Expression
	Postfix  bool
}

func (e *UnaryOp) expressionNode() {}
func (e *UnaryOp) Pos() Position   { return e.Position }
func (e *UnaryOp) String() string {
	if e.Postfix {
		return e.Operand.String() + e.Op
	}
	return e.Op + e.Operand.String()
}

// BinaryOp is a binary expression with one of the operators in §3.
type BinaryOp struct {
	Position    Position
	Op          string
	Left, Right Expression
	// ResolvedType is filled in by the type inferrer (with int→float
	// promotion already applied per §4.5).
	ResolvedType types.Type
}

func (e *BinaryOp) expressionNode() {}
func (e *BinaryOp) Pos() Position   { return e.Position }
func (e *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// Call is `fn(args...)`, a call to a global function (or, inside a
// method body with no receiver, an instance/static method of the
// enclosing class — resolved by the type checker the same way a bare
// identifier resolves to a local, a property, or an enclosing function).
type Call struct {
	Position Position
	Name     string
	Args     []Expression
}

func (e *Call) expressionNode() {}
func (e *Call) Pos() Position   { return e.Position }
func (e *Call) String() string  { return fmt.Sprintf("%s(%s)", e.Name, joinExprs(e.Args)) }

// FetchProp is `e.name` (instance property read).
type FetchProp struct {
	Position Position
	Object   Expression
	Name     string
}

func (e *FetchProp) expressionNode() {}
func (e *FetchProp) Pos() Position   { return e.Position }
func (e *FetchProp) String() string  { return fmt.Sprintf("%s.%s", e.Object, e.Name) }

// FetchStaticProp is `ClassName::name`.
type FetchStaticProp struct {
	Position  Position
	ClassName string
	Name      string
}

func (e *FetchStaticProp) expressionNode() {}
func (e *FetchStaticProp) Pos() Position   { return e.Position }
func (e *FetchStaticProp) String() string  { return fmt.Sprintf("%s::%s", e.ClassName, e.Name) }

// MethodCall is `e.m(args...)`.
type MethodCall struct {
	Position Position
	Object   Expression
	Name     string
	Args     []Expression
}

func (e *MethodCall) expressionNode() {}
func (e *MethodCall) Pos() Position   { return e.Position }
func (e *MethodCall) String() string {
	return fmt.Sprintf("%s.%s(%s)", e.Object, e.Name, joinExprs(e.Args))
}

// StaticMethodCall is `ClassName::m(args...)`.
type StaticMethodCall struct {
	Position  Position
	ClassName string
	Name      string
	Args      []Expression
}

func (e *StaticMethodCall) expressionNode() {}
func (e *StaticMethodCall) Pos() Position   { return e.Position }
func (e *StaticMethodCall) String() string {
	return fmt.Sprintf("%s::%s(%s)", e.ClassName, e.Name, joinExprs(e.Args))
}

// IndexFetch is `e[i]`.
type IndexFetch struct {
	Position    Position
	Array       Expression
	Index       Expression
}

func (e *IndexFetch) expressionNode() {}
func (e *IndexFetch) Pos() Position   { return e.Position }
func (e *IndexFetch) String() string  { return fmt.Sprintf("%s[%s]", e.Array, e.Index) }

// New is `new ClassName(args...)`.
type New struct {
	Position  Position
	ClassName string
	Args      []Expression
}

func (e *New) expressionNode() {}
func (e *New) Pos() Position   { return e.Position }
func (e *New) String() string  { return fmt.Sprintf("new %s(%s)", e.ClassName, joinExprs(e.Args)) }

func joinExprs(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
