package refbackend

import (
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/runtime"
)

// cell is an addressable storage location: what Alloca/FieldAddr/ElemAddr
// produce and Load/Store consume. Two concrete shapes exist because the
// GC's AddRoot/AddGlobalRoot (internal/runtime/gc.go) take a *runtime.Heap,
// not a *Value — a pointer-typed local or global must be backed by a real
// *runtime.Heap box so registering it as a root observes later
// reassignment, exactly as §5(b) requires ("every pointer-typed local...
// registered by storing its address").
type cell interface {
	Load() Value
	Store(Value)
}

// scalarCell backs a non-pointer local, global, struct field, or array
// element: ints, floats, bools, and also struct-field/array-element slots
// of pointer kind (fields and elements are never directly rooted — the GC
// reaches them transitively through their owning Instance's/ArrayObj's
// Trace(), per §6's GC metadata node).
type scalarCell struct{ v *Value }

func (c scalarCell) Load() Value    { return *c.v }
func (c scalarCell) Store(v Value)  { *c.v = v }

// ptrCell backs a pointer-typed Alloca'd local or a pointer-typed global/
// static property — the only two places the lowerer ever calls
// AddRoot/AddGlobalRoot (gcroots.go's rootLocal, emit_init.go's global-root
// loop), so these are the only cells that need a real *runtime.Heap box.
type ptrCell struct{ v *runtime.Heap }

func (c ptrCell) Load() Value {
	if *c.v == nil {
		return nil
	}
	return *c.v
}

func (c ptrCell) Store(v Value) {
	if v == nil {
		*c.v = nil
		return
	}
	h, ok := v.(runtime.Heap)
	if !ok {
		panic("refbackend: storing a non-heap value into a pointer-typed slot")
	}
	*c.v = h
}

// registerAsRoot hands this cell's backing *runtime.Heap box to add (the
// GC's AddRoot or AddGlobalRoot), letting the GC observe every later
// Store through the same Alloca/global — exactly the "register the
// slot's address, not its current value" contract AddRoot/AddGlobalRoot
// (internal/runtime/gc.go) require.
func (c ptrCell) registerAsRoot(add func(*runtime.Heap)) { add(c.v) }

// newCell allocates an Alloca's backing storage: a ptrCell for a
// pointer-typed local (the only kind AddRoot ever targets), a scalarCell
// zero-initialized per t otherwise.
func newCell(t ir.Type) cell {
	if t == ir.Ptr {
		return ptrCell{v: new(runtime.Heap)}
	}
	v := new(Value)
	switch t {
	case ir.I64:
		*v = int64(0)
	case ir.F64:
		*v = float64(0)
	case ir.Bool:
		*v = false
	}
	return scalarCell{v: v}
}

// arrayElemCell addresses one element of an ArrayObj, reusing the
// runtime's own bounds-checked accessors (array.go) rather than indexing
// Elems directly, so an out-of-range ElemAddr load/store raises the same
// RuntimeAbort a real backend's generated bounds check would.
type arrayElemCell struct {
	arr *runtime.ArrayObj
	idx int64
}

func (c arrayElemCell) Load() Value    { return runtime.ArrayGet(c.arr, c.idx) }
func (c arrayElemCell) Store(v Value)  { runtime.ArraySet(c.arr, c.idx, v) }
