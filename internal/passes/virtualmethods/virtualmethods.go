// Package virtualmethods implements the virtual-method discovery pass
// (§4.4): for every class and its transitive parent chain, any method
// name shared with a non-static, non-constructor ancestor method is
// recorded as virtual on the ancestor that first declared it — the slot
// vtable synthesis (internal/lower) will later allocate.
package virtualmethods

import (
	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/ctruntime"
	"github.com/cwbudde/go-dws/internal/errors"
)

// Discover walks prog.Classes and populates rt.VirtualMethods.
func Discover(prog *ast.Program, rt *ctruntime.Runtime) error {
	classesByName := make(map[string]*ast.ClassDecl, len(prog.Classes))
	for _, class := range prog.Classes {
		classesByName[class.Name] = class
	}

	for _, class := range prog.Classes {
		if !class.HasParent() {
			continue
		}

		classMethods := class.AllMethodDefs()
		current, ok := classesByName[class.Parent]
		if !ok {
			return errors.NewVirtualMethodError(class.Pos(), "class %s not found", class.Parent)
		}

		for {
			for name, ancestorDef := range current.AllMethodDefs() {
				if ancestorDef.IsStatic || name == ast.ConstructorName {
					continue
				}
				classDef, exists := classMethods[name]
				if !exists {
					continue
				}
				if !ancestorDef.Signature().Equal(classDef.Signature()) {
					return errors.NewVirtualMethodError(classDef.Pos(),
						"declaration of %s::%s must be compatible with %s::%s",
						class.Name, name, current.Name, name)
				}
				rt.MarkVirtual(current.Name, name)
			}

			if !current.HasParent() {
				break
			}
			next, ok := classesByName[current.Parent]
			if !ok {
				return errors.NewVirtualMethodError(current.Pos(), "class %s not found", current.Parent)
			}
			current = next
		}
	}
	return nil
}
