package ast

import (
	"fmt"
	"strings"
)

// ClassDecl is a class definition: name, optional parent, zero or more
// implemented interfaces, an abstract flag, properties, and methods. A
// class with any abstract method must set IsAbstract (enforced by
// internal/passes/abstractcheck, not by this type).
type ClassDecl struct {
	Position      Position
	Name          string
	Parent        string // "" if no parent
	Interfaces    []string
	IsAbstract    bool
	Properties    []*PropertyDecl
	MethodDecls   []*MethodDecl // abstract method declarations (no body)
	MethodDefs    []*MethodDef  // concrete method definitions
}

func (c *ClassDecl) statementNode()   {}
func (c *ClassDecl) declarationNode() {}
func (c *ClassDecl) Pos() Position    { return c.Position }

func (c *ClassDecl) String() string {
	var sb strings.Builder
	sb.WriteString("class ")
	sb.WriteString(c.Name)
	if c.Parent != "" {
		sb.WriteString(" extends ")
		sb.WriteString(c.Parent)
	}
	if len(c.Interfaces) > 0 {
		sb.WriteString(" implements ")
		sb.WriteString(strings.Join(c.Interfaces, ", "))
	}
	if c.IsAbstract {
		sb.WriteString(" abstract")
	}
	sb.WriteString(" {\n")
	for _, p := range c.Properties {
		fmt.Fprintf(&sb, "  %s\n", p)
	}
	for _, m := range c.MethodDecls {
		fmt.Fprintf(&sb, "  %s\n", m)
	}
	for _, m := range c.MethodDefs {
		fmt.Fprintf(&sb, "  %s\n", m)
	}
	sb.WriteString("}")
	return sb.String()
}

// AbstractMethodNames returns the names declared abstract directly on this
// class (not inherited); used by internal/passes/abstractcheck to build
// the accumulated unimplemented-method set.
func (c *ClassDecl) AbstractMethodNames() []string {
	names := make([]string, 0, len(c.MethodDecls))
	for _, m := range c.MethodDecls {
		if m.IsAbstract {
			names = append(names, m.Fn.Name)
		}
	}
	return names
}

// AllMethodDefs returns a name→def map of this class's own concrete method
// definitions (constructor included), the shape every pass that walks
// "does this class implement method M" wants.
func (c *ClassDecl) AllMethodDefs() map[string]*MethodDef {
	out := make(map[string]*MethodDef, len(c.MethodDefs))
	for _, m := range c.MethodDefs {
		out[m.Fn.Name] = m
	}
	return out
}

func (c *ClassDecl) HasParent() bool { return c.Parent != "" }
