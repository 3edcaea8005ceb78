package lower

import (
	"sort"

	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/ir"
)

// classVTable is one class's virtual dispatch table layout: the ordered
// slot names (method names) extended from the parent and the per-class
// vtable constant's mangled symbol.
type classVTable struct {
	slotOrder []string
	slotIndex map[string]int
	symbol    string
}

// buildVTables assigns slots extending the parent's table (§4.6 "vtable
// synthesis"): inherited slots keep their index, newly-virtual methods
// (recorded by internal/passes/virtualmethods against the ancestor that
// first declares them) get the next index, in sorted name order within a
// class for a deterministic layout.
func (l *Lowerer) buildVTables(classes []*ast.ClassDecl) {
	for _, class := range classes {
		vt := &classVTable{slotIndex: make(map[string]int)}
		if class.HasParent() {
			parent := l.vtables[class.Parent]
			vt.slotOrder = append(vt.slotOrder, parent.slotOrder...)
			for name, idx := range parent.slotIndex {
				vt.slotIndex[name] = idx
			}
		}

		own := l.rt.VirtualMethodNames(class.Name)
		sort.Strings(own)
		for _, name := range own {
			if _, exists := vt.slotIndex[name]; exists {
				continue
			}
			vt.slotIndex[name] = len(vt.slotOrder)
			vt.slotOrder = append(vt.slotOrder, name)
		}

		l.vtables[class.Name] = vt

		if !l.layouts[class.Name].HasVTableSlot {
			continue
		}
		vt.symbol = l.mangler.InternalSymbol(class.Name + ".vtable")
		funcs := make([]ir.Value, len(vt.slotOrder))
		for i, name := range vt.slotOrder {
			owner := l.findMethodOwner(class.Name, name)
			funcs[i] = ir.FuncRef(l.mangler.Method(l.mangler.Class(owner), name))
		}
		l.module.DeclareGlobal(vt.symbol, ir.Ptr, ir.ConstArray{Elem: ir.Ptr, Elems: funcs})
	}
}

// findMethodOwner walks className's ancestor chain (closest first) for
// the nearest class that concretely defines methodName, grounded on
// codegen.cpp's findMethod walk.
func (l *Lowerer) findMethodOwner(className, methodName string) string {
	for cur := className; cur != ""; {
		class := l.classesByName[cur]
		if class == nil {
			break
		}
		if _, ok := class.AllMethodDefs()[methodName]; ok {
			return cur
		}
		cur = class.Parent
	}
	return className
}

// buildInterfaceVTables computes, for every (class, interface) pair the
// class implements, the mangled symbol of a vtable ordered by the
// interface's method list — the per-call-site trampoline constant used
// when casting a concrete value to an interface-typed slot (§4.6
// "Interface instantiation").
func (l *Lowerer) buildInterfaceVTables(classes []*ast.ClassDecl) {
	for _, class := range classes {
		for _, ifaceName := range l.rt.ImplementedInterfaceNames(class.Name) {
			methods := l.interfaceMethodOrder(ifaceName)
			symbol := l.mangler.InternalSymbol(class.Name + ".itable." + ifaceName)
			funcs := make([]ir.Value, len(methods))
			for i, name := range methods {
				owner := l.findMethodOwner(class.Name, name)
				funcs[i] = ir.FuncRef(l.mangler.Method(l.mangler.Class(owner), name))
			}
			l.module.DeclareGlobal(symbol, ir.Ptr, ir.ConstArray{Elem: ir.Ptr, Elems: funcs})
			l.ifaceVTableSymbol[ifaceVTableKey{class.Name, ifaceName}] = symbol
			l.ifaceSlotIndex[ifaceName] = indexOf(methods)
		}
	}
}

func indexOf(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[n] = i
	}
	return m
}

// interfaceMethodOrder returns ifaceName's full transitive method list in
// a stable order: each parent's own order (declaration order, dedup) then
// this interface's own methods, also dedup.
func (l *Lowerer) interfaceMethodOrder(ifaceName string) []string {
	iface, ok := l.interfacesByName[ifaceName]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var order []string
	for _, parent := range iface.Parents {
		for _, name := range l.interfaceMethodOrder(parent) {
			if !seen[name] {
				seen[name] = true
				order = append(order, name)
			}
		}
	}
	for _, m := range iface.Methods {
		if !seen[m.Fn.Name] {
			seen[m.Fn.Name] = true
			order = append(order, m.Fn.Name)
		}
	}
	return order
}
