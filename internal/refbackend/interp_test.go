package refbackend

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/cwbudde/go-dws/internal/errors"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/runtime"
)

func TestExecuteArithmeticAndStringPrint(t *testing.T) {
	mod := ir.NewModule()
	main := mod.DeclareFunction("main", nil, nil, ir.Void)
	b := ir.NewBuilder(main)

	sum := b.BinOp("+", ir.ConstInt(2), ir.ConstInt(3), ir.I64)
	b.Print(sum)

	fsum := b.BinOp("+", ir.ConstFloat(1.5), ir.ConstFloat(2.5), ir.F64)
	b.Print(fsum)

	cat := b.BinOp("+", ir.ConstString("foo"), ir.ConstString("bar"), ir.Ptr)
	b.Print(cat)

	b.Ret(nil)

	var out bytes.Buffer
	if err := Execute(mod, &out); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got, want := out.String(), "5\n4\nfoobar\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestExecuteArrayAppendAndLen(t *testing.T) {
	mod := ir.NewModule()
	main := mod.DeclareFunction("main", nil, nil, ir.Void)
	b := ir.NewBuilder(main)

	arr := b.ArrayLiteral(ir.I64, []ir.Value{ir.ConstInt(1), ir.ConstInt(2)})
	arr = b.ArrayAppend(arr, ir.ConstInt(3))
	b.Print(b.ArrayLen(arr))

	elemAddr := b.ElemAddr(arr, ir.ConstInt(2), ir.I64)
	b.Print(b.Load(elemAddr))

	b.Ret(nil)

	var out bytes.Buffer
	if err := Execute(mod, &out); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got, want := out.String(), "3\n3\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestExecuteArrayOutOfRangeAbortsAndRecovers(t *testing.T) {
	mod := ir.NewModule()
	main := mod.DeclareFunction("main", nil, nil, ir.Void)
	b := ir.NewBuilder(main)

	arr := b.ArrayLiteral(ir.I64, []ir.Value{ir.ConstInt(1), ir.ConstInt(2)})
	addr := b.ElemAddr(arr, ir.ConstInt(5), ir.I64)
	b.Load(addr)
	b.Ret(nil)

	err := Execute(mod, io.Discard)
	if err == nil {
		t.Fatal("expected an error from an out-of-range array access")
	}
	ce, ok := err.(*errors.CompilerError)
	if !ok {
		t.Fatalf("error is %T, want *errors.CompilerError", err)
	}
	if ce.Kind != errors.RuntimeAbortKind {
		t.Fatalf("Kind = %v, want RuntimeAbort", ce.Kind)
	}
}

func TestExecuteDieAbortsAndRecovers(t *testing.T) {
	mod := ir.NewModule()
	main := mod.DeclareFunction("main", nil, nil, ir.Void)
	b := ir.NewBuilder(main)

	b.Call("x.die", []ir.Value{ir.ConstString("boom")}, true)
	b.Ret(nil)

	err := Execute(mod, io.Discard)
	if err == nil {
		t.Fatal("expected die() to abort execution")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error %q does not mention the die() message", err.Error())
	}
}

// TestVirtualDispatchThroughFlattenedHierarchy builds a two-level class
// hierarchy the way layout.go's buildLayouts would: Base declares its own
// "__vtable" slot (it has a virtual method), Derived inherits that same
// slot at the same index rather than re-declaring one of its own
// (parentLayout.HasVTableSlot's inheritance rule, flattened). Base_callFoo
// — compiled against Base's own struct type — invokes the virtual slot
// through whatever object it's handed; calling it with a Derived instance
// must still reach Derived_foo, proving CallVirtual resolves the vtable
// off the actual runtime object rather than the static receiver type at
// the call site.
func TestVirtualDispatchThroughFlattenedHierarchy(t *testing.T) {
	mod := ir.NewModule()

	baseStruct := mod.DeclareStruct("class.Base")
	baseStruct.SetBody([]ir.Field{{Name: "__vtable", Type: ir.Ptr}})

	derivedStruct := mod.DeclareStruct("class.Derived")
	derivedStruct.SetBody([]ir.Field{{Name: "__vtable", Type: ir.Ptr}})
	derivedStruct.Parent = "class.Base"

	mod.DeclareGlobal("x.Base.vtable", ir.Ptr, ir.ConstArray{
		Elem: ir.Ptr, Elems: []ir.Value{ir.FuncRef("x.class.Base_foo")},
	})
	mod.DeclareGlobal("x.Derived.vtable", ir.Ptr, ir.ConstArray{
		Elem: ir.Ptr, Elems: []ir.Value{ir.FuncRef("x.class.Derived_foo")},
	})

	baseFoo := mod.DeclareFunction("x.class.Base_foo", []string{"this"}, []ir.Type{ir.Ptr}, ir.I64)
	ir.NewBuilder(baseFoo).Ret(ir.ConstInt(1))

	derivedFoo := mod.DeclareFunction("x.class.Derived_foo", []string{"this"}, []ir.Type{ir.Ptr}, ir.I64)
	ir.NewBuilder(derivedFoo).Ret(ir.ConstInt(2))

	baseCallFoo := mod.DeclareFunction("x.class.Base_callFoo", []string{"this"}, []ir.Type{ir.Ptr}, ir.I64)
	bcf := ir.NewBuilder(baseCallFoo)
	res := bcf.CallVirtual(ir.ParamRef(0), baseStruct, 0, nil, false)
	bcf.Ret(res)

	main := mod.DeclareFunction("main", nil, nil, ir.Void)
	b := ir.NewBuilder(main)
	obj := b.NewObject("Derived", derivedStruct, "x.Derived.vtable")
	b.Print(b.Call("x.class.Base_callFoo", []ir.Value{obj}, false))
	b.Ret(nil)

	var out bytes.Buffer
	if err := Execute(mod, &out); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got, want := out.String(), "2\n"; got != want {
		t.Fatalf("virtual dispatch through a base method = %q, want %q (the override)", got, want)
	}
}

func TestInterfaceDispatchThroughTrampoline(t *testing.T) {
	mod := ir.NewModule()

	derivedStruct := mod.DeclareStruct("class.Derived")
	derivedStruct.SetBody([]ir.Field{{Name: "__vtable", Type: ir.Ptr}})

	mod.DeclareGlobal("x.Derived.vtable", ir.Ptr, ir.ConstArray{
		Elem: ir.Ptr, Elems: []ir.Value{ir.FuncRef("x.class.Derived_run")},
	})
	mod.DeclareGlobal("x.Derived.itable.Runnable", ir.Ptr, ir.ConstArray{
		Elem: ir.Ptr, Elems: []ir.Value{ir.FuncRef("x.class.Derived_run")},
	})

	run := mod.DeclareFunction("x.class.Derived_run", []string{"this"}, []ir.Type{ir.Ptr}, ir.I64)
	ir.NewBuilder(run).Ret(ir.ConstInt(42))

	main := mod.DeclareFunction("main", nil, nil, ir.Void)
	b := ir.NewBuilder(main)
	obj := b.NewObject("Derived", derivedStruct, "x.Derived.vtable")
	tr := b.NewTrampoline(obj, "x.Derived.itable.Runnable", "Derived")
	b.Print(b.CallInterface(tr, 0, nil, false))
	b.Ret(nil)

	var out bytes.Buffer
	if err := Execute(mod, &out); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got, want := out.String(), "42\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

// TestGCRootPrecisionThroughPtrCell exercises AddRoot's actual contract —
// registering a slot's address, not its current value — the way ptrCell
// wires it to runtime.GC. White-box (same package) since Interp has no
// exported constructor outside Execute.
func TestGCRootPrecisionThroughPtrCell(t *testing.T) {
	mod := ir.NewModule()
	in := &Interp{
		module:  mod,
		gc:      runtime.New(),
		printer: runtime.NewPrinter(io.Discard),
		globals: map[string]cell{},
	}
	fr := &frame{regs: make(map[ir.Reg]any)}

	fr.regs[0] = in.execInstr(fr, ir.Alloca{Result: 0, Type: ir.Ptr})
	in.gc.PushStackFrame()
	in.execInstr(fr, ir.AddRoot{Slot: ir.RegValue(0), Meta: "string"})

	in.execInstr(fr, ir.Store{Ptr: ir.RegValue(0), Val: ir.ConstString("hi")})
	in.gc.Run()
	if got := in.gc.Live(); got != 1 {
		t.Fatalf("live after storing a rooted string = %d, want 1", got)
	}

	in.execInstr(fr, ir.Store{Ptr: ir.RegValue(0), Val: ir.ConstNull{}})
	in.gc.Run()
	if got := in.gc.Live(); got != 0 {
		t.Fatalf("live after nulling the rooted slot = %d, want 0 (the string is now unreachable)", got)
	}

	in.gc.PopStackFrame()
}

func TestCallInternalBuiltinStringMethods(t *testing.T) {
	mod := ir.NewModule()
	main := mod.DeclareFunction("main", nil, nil, ir.Void)
	b := ir.NewBuilder(main)

	s := ir.ConstString(" Hello ")
	trimmed := b.Call("x.class.String_trim", []ir.Value{s}, false)
	upper := b.Call("x.class.String_toUpper", []ir.Value{trimmed}, false)
	b.Print(upper)
	b.Print(b.Call("x.class.String_length", []ir.Value{upper}, false))
	b.Ret(nil)

	var out bytes.Buffer
	if err := Execute(mod, &out); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got, want := out.String(), "HELLO\n5\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestCallInternalRangeHelpers(t *testing.T) {
	mod := ir.NewModule()
	main := mod.DeclareFunction("main", nil, nil, ir.Void)
	b := ir.NewBuilder(main)

	r := b.Call("x.rangeNew", []ir.Value{ir.ConstInt(0), ir.ConstInt(6), ir.ConstInt(2)}, false)
	b.Print(b.Call("x.class.Range_length", []ir.Value{r}, false))
	b.Print(b.Call("x.rangeStart", []ir.Value{r}, false))
	b.Print(b.Call("x.rangeStop", []ir.Value{r}, false))
	b.Print(b.Call("x.rangeStep", []ir.Value{r}, false))
	b.Ret(nil)

	var out bytes.Buffer
	if err := Execute(mod, &out); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got, want := out.String(), "3\n0\n6\n2\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestExecuteRunsEntryFuncBeforeMain(t *testing.T) {
	mod := ir.NewModule()

	g := mod.DeclareGlobal("x.counter", ir.I64, ir.ConstInt(0))
	_ = g

	init := mod.DeclareFunction("x.init", nil, nil, ir.Void)
	ib := ir.NewBuilder(init)
	ib.Store(ir.GlobalRef("x.counter"), ir.ConstInt(7))
	ib.Ret(nil)
	mod.EntryFunc = "x.init"

	main := mod.DeclareFunction("main", nil, nil, ir.Void)
	mb := ir.NewBuilder(main)
	mb.Print(mb.Load(ir.GlobalRef("x.counter")))
	mb.Ret(nil)

	var out bytes.Buffer
	if err := Execute(mod, &out); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got, want := out.String(), "7\n"; got != want {
		t.Fatalf("output = %q, want %q (main must observe x.init's global store)", got, want)
	}
}
