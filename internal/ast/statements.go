package ast

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-dws/internal/types"
)

// StatementList groups a sequence of statements that share a lexical scope
// (a block, a function body, a loop body).
type StatementList struct {
	Position   Position
	Statements []Statement
}

func (s *StatementList) statementNode() {}
func (s *StatementList) Pos() Position  { return s.Position }
func (s *StatementList) String() string {
	parts := make([]string, len(s.Statements))
	for i, st := range s.Statements {
		parts[i] = st.String()
	}
	return strings.Join(parts, "\n")
}

// VarDeclStatement is `Type name [= init];` or, with Type left as AutoType,
// `auto name = init;`.
type VarDeclStatement struct {
	Position    Position
	Name        string
	DeclaredType types.Type
	Init        Expression // nil if no initializer
}

func (s *VarDeclStatement) statementNode()   {}
func (s *VarDeclStatement) declarationNode() {}
func (s *VarDeclStatement) Pos() Position    { return s.Position }
func (s *VarDeclStatement) String() string {
	if s.Init != nil {
		return fmt.Sprintf("%s %s = %s;", s.DeclaredType, s.Name, s.Init)
	}
	return fmt.Sprintf("%s %s;", s.DeclaredType, s.Name)
}

// Assignment is `name = expr;`.
type Assignment struct {
	Position Position
	Name     string
	Value    Expression
}

func (s *Assignment) statementNode() {}
func (s *Assignment) Pos() Position  { return s.Position }
func (s *Assignment) String() string { return fmt.Sprintf("%s = %s;", s.Name, s.Value) }

// PropAssignment is `e.name = expr;`.
type PropAssignment struct {
	Position Position
	Object   Expression
	Name     string
	Value    Expression
}

func (s *PropAssignment) statementNode() {}
func (s *PropAssignment) Pos() Position  { return s.Position }
func (s *PropAssignment) String() string {
	return fmt.Sprintf("%s.%s = %s;", s.Object, s.Name, s.Value)
}

// StaticPropAssignment is `ClassName::name = expr;`.
type StaticPropAssignment struct {
	Position  Position
	ClassName string
	Name      string
	Value     Expression
}

func (s *StaticPropAssignment) statementNode() {}
func (s *StaticPropAssignment) Pos() Position  { return s.Position }
func (s *StaticPropAssignment) String() string {
	return fmt.Sprintf("%s::%s = %s;", s.ClassName, s.Name, s.Value)
}

// IndexAssignment is `e[i] = expr;`.
type IndexAssignment struct {
	Position Position
	Array    Expression
	Index    Expression
	Value    Expression
}

func (s *IndexAssignment) statementNode() {}
func (s *IndexAssignment) Pos() Position  { return s.Position }
func (s *IndexAssignment) String() string {
	return fmt.Sprintf("%s[%s] = %s;", s.Array, s.Index, s.Value)
}

// ArrayAppend is `e[] = expr;` (append to array).
type ArrayAppend struct {
	Position Position
	Array    Expression
	Value    Expression
}

func (s *ArrayAppend) statementNode() {}
func (s *ArrayAppend) Pos() Position  { return s.Position }
func (s *ArrayAppend) String() string { return fmt.Sprintf("%s[] = %s;", s.Array, s.Value) }

// ExpressionStatement wraps an expression evaluated for its side effects
// (a method or function call in statement position).
type ExpressionStatement struct {
	Position Position
	Expr     Expression
}

func (s *ExpressionStatement) statementNode() {}
func (s *ExpressionStatement) Pos() Position  { return s.Position }
func (s *ExpressionStatement) String() string { return s.Expr.String() + ";" }

// If is `if (cond) { then } [else { else }]`.
type If struct {
	Position Position
	Cond     Expression
	Then     *StatementList
	Else     *StatementList // nil if no else branch
}

func (s *If) statementNode() {}
func (s *If) Pos() Position  { return s.Position }
func (s *If) String() string {
	if s.Else != nil {
		return fmt.Sprintf("if (%s) { %s } else { %s }", s.Cond, s.Then, s.Else)
	}
	return fmt.Sprintf("if (%s) { %s }", s.Cond, s.Then)
}

// While is `while (cond) { body }`.
type While struct {
	Position Position
	Cond     Expression
	Body     *StatementList
}

func (s *While) statementNode() {}
func (s *While) Pos() Position  { return s.Position }
func (s *While) String() string { return fmt.Sprintf("while (%s) { %s }", s.Cond, s.Body) }

// ForIn is `for [i,] v in E { body }`.
type ForIn struct {
	Position  Position
	IndexVar  string // "" if the 1-variable form is used
	ValueVar  string
	Iterable  Expression
	Body      *StatementList
	// ElemType is filled in by the type inferrer: the value binding's type.
	ElemType types.Type
}

func (s *ForIn) statementNode() {}
func (s *ForIn) Pos() Position  { return s.Position }
func (s *ForIn) String() string {
	if s.IndexVar != "" {
		return fmt.Sprintf("for (%s, %s in %s) { %s }", s.IndexVar, s.ValueVar, s.Iterable, s.Body)
	}
	return fmt.Sprintf("for (%s in %s) { %s }", s.ValueVar, s.Iterable, s.Body)
}

// Break is `break;`.
type Break struct{ Position Position }

func (s *Break) statementNode() {}
func (s *Break) Pos() Position  { return s.Position }
func (s *Break) String() string { return "break;" }

// Continue is `continue;`.
type Continue struct{ Position Position }

func (s *Continue) statementNode() {}
func (s *Continue) Pos() Position  { return s.Position }
func (s *Continue) String() string { return "continue;" }

// Return is `return [expr];`.
type Return struct {
	Position Position
	Value    Expression // nil for a bare `return;`
}

func (s *Return) statementNode() {}
func (s *Return) Pos() Position  { return s.Position }
func (s *Return) String() string {
	if s.Value != nil {
		return fmt.Sprintf("return %s;", s.Value)
	}
	return "return;"
}

// Println is `println(expr);`.
type Println struct {
	Position Position
	Value    Expression
}

func (s *Println) statementNode() {}
func (s *Println) Pos() Position  { return s.Position }
func (s *Println) String() string { return fmt.Sprintf("println(%s);", s.Value) }

// Comment is a source comment kept only so a pretty-printer could round
// trip it; it carries no semantic weight and every pass skips over it.
type Comment struct {
	Position Position
	Text     string
}

func (s *Comment) statementNode() {}
func (s *Comment) Pos() Position  { return s.Position }
func (s *Comment) String() string { return "// " + s.Text }
