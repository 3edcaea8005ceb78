// Package ast defines the Abstract Syntax Tree node types for the X
// language's middle end. The lexer and parser that produce this tree are
// external collaborators (out of scope for this module); every node type
// here is exactly what §3 of the spec describes, shaped so a hand-written
// parser — or a hand-written test — can build one directly.
package ast

import "fmt"

// Position is a source location, kept deliberately small since there is no
// lexer/token type in this module to borrow one from.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is the base interface for all AST nodes.
type Node interface {
	Pos() Position
	String() string
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action but doesn't produce a value.
type Statement interface {
	Node
	statementNode()
}

// Declaration is a top-level construct: a class, an interface, a global
// function, or a global variable declaration (§3 "top level").
type Declaration interface {
	Statement
	declarationNode()
}

// Program is the root node: a flat list of top-level statements, already
// partitioned by the parser into the four buckets §3 requires. Keeping all
// four as typed slices (rather than re-deriving them by a type switch over
// Statements) matches the spec's explicit statement that the top level is
// "a statement list partitioned into four buckets... everything else
// rejected at top level" — the partitioning is part of the data model, not
// an incidental convenience.
type Program struct {
	Classes     []*ClassDecl
	Interfaces  []*InterfaceDecl
	Functions   []*FunctionDecl
	Globals     []*VarDeclStatement
}

func (p *Program) Pos() Position {
	switch {
	case len(p.Classes) > 0:
		return p.Classes[0].Pos()
	case len(p.Interfaces) > 0:
		return p.Interfaces[0].Pos()
	case len(p.Functions) > 0:
		return p.Functions[0].Pos()
	case len(p.Globals) > 0:
		return p.Globals[0].Pos()
	default:
		return Position{Line: 1, Column: 1}
	}
}

func (p *Program) String() string {
	return fmt.Sprintf("Program{classes=%d interfaces=%d functions=%d globals=%d}",
		len(p.Classes), len(p.Interfaces), len(p.Functions), len(p.Globals))
}
