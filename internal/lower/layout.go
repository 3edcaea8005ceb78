package lower

import (
	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/types"
)

// classLayout is the object layout computed for one class (§4.6 decl
// phase step 4, §9 "Design Notes"): the parent's entire field list is
// copied in at slot 0 rather than referenced through a pointer, so a
// pointer to this class's struct is bit-compatible with a pointer to its
// parent's — an inherited field keeps the exact slot index it had in the
// declaring ancestor's own struct, and a method prologue can address it
// with a plain FieldAddr against its own struct type, no indirection.
// HasVTableSlot/VTableSlot likewise describe a single inherited slot
// shared by every level, not one re-declared per class.
type classLayout struct {
	Struct *ir.StructType

	HasParentSlot bool
	HasVTableSlot bool
	VTableSlot    int // -1 if HasVTableSlot is false

	// propSlot maps an instance property name this class itself declares
	// to its slot index in Struct.
	propSlot   map[string]int
	propType   map[string]types.Type
	propAccess map[string]types.AccessModifier
}

// buildLayouts computes every class's layout in declaration order (a
// class's parent always appears earlier, per the same invariant
// internal/passes/abstractcheck relies on).
func (l *Lowerer) buildLayouts(classes []*ast.ClassDecl) {
	for _, class := range classes {
		layout := &classLayout{
			propSlot:   make(map[string]int),
			propType:   make(map[string]types.Type),
			propAccess: make(map[string]types.AccessModifier),
			VTableSlot: -1,
		}

		var fields []ir.Field
		if class.HasParent() {
			parentLayout := l.layouts[class.Parent]
			layout.HasParentSlot = true
			// Flatten: the parent's own (already fully flattened) fields
			// become this class's leading fields, at the same indices.
			fields = append(fields, parentLayout.Struct.Fields...)
			if parentLayout.HasVTableSlot {
				layout.HasVTableSlot = true
				layout.VTableSlot = parentLayout.VTableSlot
			}
		}
		if !layout.HasVTableSlot && len(l.rt.VirtualMethodNames(class.Name)) > 0 {
			layout.HasVTableSlot = true
			layout.VTableSlot = len(fields)
			fields = append(fields, ir.Field{Name: "__vtable", Type: ir.Ptr})
		}

		for _, prop := range class.Properties {
			if prop.IsStatic {
				continue
			}
			layout.propSlot[prop.Name] = len(fields)
			layout.propType[prop.Name] = prop.Type
			layout.propAccess[prop.Name] = prop.Access
			fields = append(fields, ir.Field{
				Name:   prop.Name,
				Type:   irType(prop.Type),
				Traced: prop.Type.IsPointer(),
			})
		}

		layout.Struct = l.module.DeclareStruct(l.mangler.Class(class.Name))
		layout.Struct.SetBody(fields)
		if class.HasParent() {
			layout.Struct.Parent = l.mangler.Class(class.Parent)
		}
		l.layouts[class.Name] = layout
	}
}

// resolveProp finds which ancestor (possibly class itself) declares
// propName, returning its owning class, slot index, type and access
// modifier. The slot returned is valid against fromClass's own struct
// too: buildLayouts copies every ancestor's fields in at matching
// indices, so the owner's slot is the same slot in any descendant.
func (l *Lowerer) resolveProp(className, propName string) (owner string, slot int, typ types.Type, access types.AccessModifier, ok bool) {
	for cur := className; cur != ""; {
		layout := l.layouts[cur]
		if idx, found := layout.propSlot[propName]; found {
			return cur, idx, layout.propType[propName], layout.propAccess[propName], true
		}
		decl, exists := l.classesByName[cur]
		if !exists {
			return "", 0, types.Type{}, types.Public, false
		}
		cur = decl.Parent
	}
	return "", 0, types.Type{}, types.Public, false
}

// fieldAddr computes the address of slot directly against a pointer of
// fromClass's own struct type. No ancestor walk is needed: buildLayouts
// flattens every ancestor's fields into fromClass's own StructType at the
// same indices they have in the declaring ancestor's struct (§4.6 step 4,
// §9 "Design Notes" bit-compatible layout), so an inherited field is
// already present in fromClass's own memory layout.
func (l *Lowerer) fieldAddr(obj ir.Value, fromClass string, slot int) ir.Value {
	return l.builder.FieldAddr(obj, l.layouts[fromClass].Struct, slot)
}

// irType lowers a source Type to its IR representation: ints/bools are
// unboxed scalars, floats are f64, everything else (string/array/class/
// interface) is an opaque pointer (§4.6 "Per-node emission" policies).
func irType(t types.Type) ir.Type {
	switch t.Kind() {
	case types.Int:
		return ir.I64
	case types.Float:
		return ir.F64
	case types.Bool:
		return ir.Bool
	case types.Void:
		return ir.Void
	default:
		return ir.Ptr
	}
}
