package refbackend

import (
	"fmt"

	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/runtime"
)

// allocInstance builds the single flat allocation a NewObject installs
// (SPEC_FULL.md §4.11): st already holds every ancestor's fields flattened
// in at their original slots (internal/lower/layout.go's buildLayouts),
// so one Instance with one Fields slice covers the whole object — there
// is no separate parent sub-object to allocate. The one "__vtable" field,
// wherever it sits in the flattened layout, is set to vtableSym — the
// most-derived class's vtable — so a virtual call made through any
// ancestor method's "this" still resolves to the override.
func (in *Interp) allocInstance(st *ir.StructType, vtableSym string) *Instance {
	inst := &Instance{Struct: st, Fields: make([]Value, len(st.Fields))}
	for i, f := range st.Fields {
		if f.Name == "__vtable" {
			inst.Fields[i] = vtableSym
		} else {
			inst.Fields[i] = zeroValue(f.Type)
		}
	}
	in.gc.Alloc(inst)
	return inst
}

// vtableSlot resolves slot in the vtable constant named sym to the
// mangled function symbol it holds — vtable/interface-vtable globals are
// read directly off their compile-time ConstArray rather than through a
// cell, since §4.6 builds them once as immutable constants and nothing
// ever Loads them through an ir.GlobalRef.
func (in *Interp) vtableSlot(sym string, slot int) string {
	arr := in.module.Globals[sym].Init.(ir.ConstArray)
	return string(arr.Elems[slot].(ir.FuncRef))
}

func (in *Interp) execCallVirtual(fr *frame, i ir.CallVirtual) Value {
	obj := in.val(fr, i.Object).(*Instance)
	vtIdx := obj.Struct.FieldIndex("__vtable")
	vtSym := obj.Fields[vtIdx].(string)
	fn := in.vtableSlot(vtSym, i.Slot)
	args := append([]Value{obj}, in.valAll(fr, i.Args)...)
	return in.call(fn, args)
}

func (in *Interp) execCallInterface(fr *frame, i ir.CallInterface) Value {
	t := in.val(fr, i.Trampoline).(*Trampoline)
	fn := in.vtableSlot(t.VTable, i.Slot)
	args := append([]Value{t.Object}, in.valAll(fr, i.Args)...)
	return in.call(fn, args)
}

// callInternal implements every mangled "x."-prefixed symbol the lowerer
// emits a Call to but never declares a body for: the runtime's String/
// Range method table (emit_dispatch.go's emitBuiltinMethodCall) and the
// range-iteration/die helpers (emit_stmt.go's emitForIn, emit_expr.go's
// emitRangeLiteral, emit_dispatch.go's emitCall "die" special case).
func (in *Interp) callInternal(name string, args []Value) Value {
	switch name {
	case "x.die":
		runtime.Die(args[0].(*runtime.StringObj).String())
		return nil

	case "x.rangeNew":
		return runtime.NewRange(in.gc, args[0].(int64), args[1].(int64), args[2].(int64))
	case "x.rangeStep":
		return args[0].(*runtime.RangeObj).Step
	case "x.rangeStop":
		return args[0].(*runtime.RangeObj).Stop
	case "x.rangeStart":
		return args[0].(*runtime.RangeObj).Start
	case "x.rangeHasNext":
		return runtime.RangeHasNext(args[0].(int64), args[1].(int64), args[2].(int64))

	case "x.class.Range_length":
		return runtime.RangeLength(args[0].(*runtime.RangeObj))

	case "x.class.String_concat":
		return runtime.StringConcat(in.gc, args[0].(*runtime.StringObj), args[1].(*runtime.StringObj))
	case "x.class.String_length":
		return runtime.StringLength(args[0].(*runtime.StringObj))
	case "x.class.String_isEmpty":
		return runtime.StringIsEmpty(args[0].(*runtime.StringObj))
	case "x.class.String_trim":
		return runtime.StringTrim(in.gc, args[0].(*runtime.StringObj))
	case "x.class.String_toLower":
		return runtime.StringToLower(in.gc, args[0].(*runtime.StringObj))
	case "x.class.String_toUpper":
		return runtime.StringToUpper(in.gc, args[0].(*runtime.StringObj))
	case "x.class.String_index":
		return runtime.StringIndex(args[0].(*runtime.StringObj), args[1].(*runtime.StringObj))
	case "x.class.String_contains":
		return runtime.StringContains(args[0].(*runtime.StringObj), args[1].(*runtime.StringObj))
	case "x.class.String_startsWith":
		return runtime.StringStartsWith(args[0].(*runtime.StringObj), args[1].(*runtime.StringObj))
	case "x.class.String_endsWith":
		return runtime.StringEndsWith(args[0].(*runtime.StringObj), args[1].(*runtime.StringObj))
	case "x.class.String_substring":
		return runtime.StringSubstring(in.gc, args[0].(*runtime.StringObj), args[1].(int64), args[2].(int64))

	default:
		panic(fmt.Sprintf("refbackend: call to undeclared function %q", name))
	}
}
