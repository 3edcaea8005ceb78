// Package refbackend is a direct interpreter over internal/ir.Module,
// standing in for the concrete JIT backend §1 names as an external
// collaborator. It exists only so the lowerer's output is exercisable
// end-to-end in tests (SPEC_FULL.md §4.11) — it is deliberately a plain
// tree/graph walk over the typed IR, not an optimizing or compiling
// backend.
package refbackend

import (
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/runtime"
)

// Value is anything the interpreter can hold in a register, local, global,
// field, or array element: int64, float64, bool, one of the
// internal/runtime heap pointer types, *Instance, *Trampoline, or nil (a
// not-yet-assigned pointer-typed slot).
type Value = any

// Instance is a class object: the struct layout the lowerer built for one
// class, plus one Value per field in declaration order. The layout is
// already flattened (internal/lower/layout.go's buildLayouts copies every
// ancestor's fields in at their original slots), so one Instance with one
// Fields slice is the whole object — an ancestor's field lives at the
// same index it would in an Instance built directly against the
// ancestor's own struct, giving upcast access and virtual dispatch for
// free without a separate linked sub-object per level.
type Instance struct {
	Struct *ir.StructType
	Fields []Value
}

// Trace implements runtime.Heap: the GC walks every field the lowerer
// marked Traced (string/array/class-typed fields) — the "__vtable" slot
// is never traced, since it holds a vtable symbol name, not a heap
// pointer.
func (in *Instance) Trace() []runtime.Heap {
	var out []runtime.Heap
	for i, f := range in.Struct.Fields {
		if !f.Traced {
			continue
		}
		if h, ok := asHeap(in.Fields[i]); ok {
			out = append(out, h)
		}
	}
	return out
}

// Trampoline is the {vtable-ptr, object-ptr, gc-meta-ptr} triple of §4.6
// "Interface instantiation": VTable names the mangled per-(class,
// interface) vtable global, Object is the concrete instance being viewed
// through the interface, GCMeta is that instance's own class's mangled
// name (the GC "descends through the object-ptr" per §6's metadata node
// description — here that's simply Trace returning Object directly).
type Trampoline struct {
	VTable string
	Object *Instance
	GCMeta string
}

func (t *Trampoline) Trace() []runtime.Heap {
	return []runtime.Heap{t.Object}
}

// asHeap reports whether v holds one of the interpreter's heap pointer
// types, unwrapping the nil case (an unset pointer-typed field or local)
// so the GC never tries to trace through a typed-nil interface value.
func asHeap(v Value) (runtime.Heap, bool) {
	if v == nil {
		return nil, false
	}
	h, ok := v.(runtime.Heap)
	if !ok || h == nil {
		return nil, false
	}
	return h, true
}
