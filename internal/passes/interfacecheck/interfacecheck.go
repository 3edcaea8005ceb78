// Package interfacecheck implements the interface check pass (§4.3):
// builds each interface's transitive method map, then for every class
// computes the set of interfaces it must fully satisfy and validates
// every method is present with an identical signature, regardless of
// abstract-ness recording the implemented-interfaces closure in the
// shared ctruntime.Runtime.
package interfacecheck

import (
	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/ctruntime"
	"github.com/cwbudde/go-dws/internal/errors"
	"github.com/cwbudde/go-dws/internal/types"
)

// Check processes prog.Interfaces (registering each one's transitive
// method map and recording its own implemented-interfaces closure in rt),
// then prog.Classes, validating implementers and recording their
// closures too. Interfaces must be processed before classes since a class
// may implement any of them.
func Check(prog *ast.Program, rt *ctruntime.Runtime) error {
	c := &checker{
		rt:                rt,
		classesByName:     make(map[string]*ast.ClassDecl, len(prog.Classes)),
		classAbstract:     make(map[string]bool, len(prog.Classes)),
		classOwnMethods:   make(map[string]map[string]types.Signature, len(prog.Classes)),
	}
	for _, class := range prog.Classes {
		c.classesByName[class.Name] = class
	}

	for _, iface := range prog.Interfaces {
		if err := c.addInterface(iface); err != nil {
			return err
		}
	}
	for _, class := range prog.Classes {
		if err := c.checkClass(class); err != nil {
			return err
		}
	}
	return nil
}

type checker struct {
	rt              *ctruntime.Runtime
	classesByName   map[string]*ast.ClassDecl
	classAbstract   map[string]bool
	// classOwnMethods accumulates, per class (including inherited), the
	// name->signature map used to validate interface satisfaction —
	// merged from the parent the same way the original implementation
	// merges classMethods before interface checks run (§4.3).
	classOwnMethods map[string]map[string]types.Signature
}

func (c *checker) addInterface(iface *ast.InterfaceDecl) error {
	if _, exists := c.rt.InterfaceMethods[iface.Name]; exists {
		return errors.NewInterfaceError(iface.Pos(), "interface %s already declared", iface.Name)
	}
	// Reserve the name immediately so two empty interfaces with the same
	// name are still caught.
	c.rt.InterfaceMethods[iface.Name] = make(map[string]*ast.MethodDecl)

	if iface.HasParents() {
		for _, parent := range iface.Parents {
			parentMethods, ok := c.rt.InterfaceMethods[parent]
			if !ok {
				return errors.NewInterfaceError(iface.Pos(), "interface %s not found", parent)
			}
			for _, decl := range parentMethods {
				if err := c.addMethodToInterface(iface.Name, decl); err != nil {
					return err
				}
			}
			c.rt.AddImplementedInterfaceSet(iface.Name, c.rt.ImplementedInterfaces[parent])
			c.rt.AddImplementedInterfaces(iface.Name, parent)
		}
	}

	for _, decl := range iface.Methods {
		if err := c.addMethodToInterface(iface.Name, decl); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) addMethodToInterface(ifaceName string, decl *ast.MethodDecl) error {
	if decl.Access != types.Public {
		return errors.NewInterfaceError(decl.Pos(), "interface method %s::%s must be public", ifaceName, decl.Fn.Name)
	}
	if decl.IsStatic {
		return errors.NewInterfaceError(decl.Pos(), "interface method %s::%s must be public", ifaceName, decl.Fn.Name)
	}

	methods := c.rt.InterfaceMethods[ifaceName]
	if existing, ok := methods[decl.Fn.Name]; ok {
		if !existing.Signature().Equal(decl.Signature()) {
			return errors.NewInterfaceError(decl.Pos(), "interface method %s::%s is incompatible", ifaceName, decl.Fn.Name)
		}
		return nil
	}
	methods[decl.Fn.Name] = decl
	return nil
}

func (c *checker) checkClass(class *ast.ClassDecl) error {
	ownMethods := make(map[string]types.Signature)
	for name, def := range class.AllMethodDefs() {
		ownMethods[name] = def.Signature()
	}

	interfacesToImplement := make(map[string]struct{}, len(class.Interfaces))
	for _, n := range class.Interfaces {
		interfacesToImplement[n] = struct{}{}
	}

	if class.HasParent() {
		for name, sig := range c.classOwnMethods[class.Parent] {
			if _, exists := ownMethods[name]; !exists {
				ownMethods[name] = sig
			}
		}
		c.rt.AddImplementedInterfaceSet(class.Name, c.rt.ImplementedInterfaces[class.Parent])

		if c.classAbstract[class.Parent] {
			for iface := range c.rt.ImplementedInterfaces[class.Parent] {
				interfacesToImplement[iface] = struct{}{}
			}
		}
	}

	if class.IsAbstract {
		c.classAbstract[class.Name] = true
	}

	for ifaceName := range interfacesToImplement {
		methods, ok := c.rt.InterfaceMethods[ifaceName]
		if !ok {
			return errors.NewInterfaceError(class.Pos(), "interface %s not found", ifaceName)
		}

		if !class.IsAbstract {
			for methodName, decl := range methods {
				sig, exists := ownMethods[methodName]
				if !exists {
					return errors.NewInterfaceError(class.Pos(), "interface method %s::%s must be implemented", ifaceName, methodName)
				}
				if !sig.Equal(decl.Signature()) {
					return errors.NewInterfaceError(class.Pos(), "declaration of %s::%s must be compatible with interface %s", class.Name, methodName, ifaceName)
				}
			}
		}

		c.rt.AddImplementedInterfaceSet(class.Name, c.rt.ImplementedInterfaces[ifaceName])
		c.rt.AddImplementedInterfaces(class.Name, ifaceName)
	}

	c.classOwnMethods[class.Name] = ownMethods
	return nil
}
