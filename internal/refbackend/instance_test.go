package refbackend

import (
	"io"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/runtime"
)

// dumpOnFailure spew.Sdumps v and fails the test with msg — *Instance and
// *Trampoline self-reference through mangled vtable symbol strings,
// which %+v renders as an unreadable wall of pointer addresses;
// spew.Sdump instead walks the structure by value.
func dumpOnFailure(t *testing.T, msg string, v any) {
	t.Helper()
	t.Fatalf("%s\n%s", msg, spew.Sdump(v))
}

// TestAllocInstanceBuildsSingleFlatAllocation exercises allocInstance
// white-box (same package as calls.go), asserting the exact shape
// layout.go's buildLayouts relies on: a Derived instance is a single flat
// Instance whose Fields already include Base's (inherited at the same
// index), and the one "__vtable" field carries the most-derived vtable
// symbol — no nested Instance for Base anywhere.
func TestAllocInstanceBuildsSingleFlatAllocation(t *testing.T) {
	mod := ir.NewModule()

	baseStruct := mod.DeclareStruct("class.Base")
	baseStruct.SetBody([]ir.Field{{Name: "__vtable", Type: ir.Ptr}})

	// buildLayouts flattens: Derived's own struct already carries Base's
	// fields at their original indices, not a pointer to a separate Base
	// sub-object.
	derivedStruct := mod.DeclareStruct("class.Derived")
	derivedStruct.SetBody([]ir.Field{
		{Name: "__vtable", Type: ir.Ptr},
		{Name: "extra", Type: ir.I64},
	})
	derivedStruct.Parent = "class.Base"

	in := &Interp{
		module:  mod,
		gc:      runtime.New(),
		printer: runtime.NewPrinter(io.Discard),
		globals: map[string]cell{},
	}

	inst := in.allocInstance(derivedStruct, "x.Derived.vtable")

	if inst.Struct != derivedStruct {
		dumpOnFailure(t, "instance should be built against the Derived struct", inst)
	}
	vtIdx := derivedStruct.FieldIndex("__vtable")
	if got := inst.Fields[vtIdx]; got != "x.Derived.vtable" {
		dumpOnFailure(t, "the inherited __vtable slot should hold the most-derived vtable symbol", inst)
	}
	if vtIdx != baseStruct.FieldIndex("__vtable") {
		dumpOnFailure(t, "__vtable should sit at the same slot index it has in Base's own struct", inst)
	}

	// A single Instance with one Fields slice is the whole object: no
	// separate parent sub-object is reachable through any field.
	for i, f := range derivedStruct.Fields {
		if _, ok := inst.Fields[i].(*Instance); ok {
			dumpOnFailure(t, "no field should hold a nested *Instance for "+f.Name, inst)
		}
	}

	if got := in.gc.Live(); got != 1 {
		dumpOnFailure(t, "allocInstance should register exactly one GC allocation", in.gc)
	}
}

// TestTrampolineTracePassesThroughToObject exercises Trampoline.Trace's
// one-hop delegation, the mechanism that lets the GC reach a class
// instance viewed only through an interface-typed value.
func TestTrampolineTracePassesThroughToObject(t *testing.T) {
	st := ir.NewModule().DeclareStruct("class.Task")
	st.SetBody([]ir.Field{{Name: "__vtable", Type: ir.Ptr}})
	obj := &Instance{Struct: st, Fields: []Value{"x.Task.vtable"}}
	tr := &Trampoline{VTable: "x.Task.itable.Runnable", Object: obj, GCMeta: "Task"}

	traced := tr.Trace()
	if len(traced) != 1 || traced[0] != runtime.Heap(obj) {
		dumpOnFailure(t, "Trampoline.Trace() should return exactly the wrapped object", tr)
	}
}
