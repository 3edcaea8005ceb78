// Package abstractcheck implements the abstract-class check pass (§4.2):
// every non-abstract class must supply a signature-compatible concrete
// override for each abstract method in its transitive parent chain.
package abstractcheck

import (
	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/errors"
)

// unimplemented is the per-class accumulated "still owes an
// implementation for this method" set, method name -> the abstract
// declaration it must match.
type unimplemented = map[string]*ast.MethodDecl

// Check walks prog's classes in declaration order and returns the first
// error raised, or nil if every class satisfies its abstract obligations.
// Declaration order matters: a class's parent must appear earlier in
// prog.Classes, exactly as the lexer/parser that built prog is expected
// to guarantee (forward-declared parents are rejected upstream of this
// module).
func Check(prog *ast.Program) error {
	c := &checker{
		classesByName: make(map[string]*ast.ClassDecl, len(prog.Classes)),
		accumulated:   make(map[string]unimplemented, len(prog.Classes)),
	}
	for _, class := range prog.Classes {
		c.classesByName[class.Name] = class
	}
	for _, class := range prog.Classes {
		if err := c.checkClass(class); err != nil {
			return err
		}
	}
	return nil
}

type checker struct {
	classesByName map[string]*ast.ClassDecl
	accumulated   map[string]unimplemented
}

func (c *checker) checkClass(class *ast.ClassDecl) error {
	abstractNames := class.AbstractMethodNames()

	if len(abstractNames) > 0 && !class.IsAbstract {
		return errors.NewAbstractClassError(class.Pos(), "class %s must be declared abstract", class.Name)
	}

	if class.IsAbstract {
		if _, exists := c.accumulated[class.Name]; exists {
			return errors.NewAbstractClassError(class.Pos(), "class %s already exists", class.Name)
		}

		set := make(unimplemented)
		if class.HasParent() {
			for name, decl := range c.accumulated[class.Parent] {
				set[name] = decl
			}
		}
		declByName := make(map[string]*ast.MethodDecl, len(class.MethodDecls))
		for _, m := range class.MethodDecls {
			declByName[m.Fn.Name] = m
		}
		for _, name := range abstractNames {
			set[name] = declByName[name]
		}
		c.accumulated[class.Name] = set
		return nil
	}

	if !class.HasParent() {
		return nil
	}
	parentUnimplemented := c.accumulated[class.Parent]
	if len(parentUnimplemented) == 0 {
		return nil
	}

	concreteMethods := class.AllMethodDefs()
	for name, decl := range parentUnimplemented {
		def, ok := concreteMethods[name]
		if !ok {
			return errors.NewAbstractClassError(class.Pos(), "abstract method %s::%s must be implemented", class.Parent, name)
		}
		if !decl.Signature().Equal(def.Signature()) {
			return errors.NewAbstractClassError(def.Pos(), "declaration of %s::%s must be compatible with abstract class %s", class.Name, name, class.Parent)
		}
	}
	return nil
}
