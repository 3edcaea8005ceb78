package refbackend

import (
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/runtime"
)

// execInstr runs one non-terminating instruction, returning whatever its
// Dest register should hold (nil for a void instruction, never read back
// since Dest() reports false for those).
func (in *Interp) execInstr(fr *frame, instr ir.Instr) any {
	switch i := instr.(type) {
	case ir.BinOp:
		return in.execBinOp(fr, i)
	case ir.ICmp:
		return execICmp(i.Op, in.val(fr, i.LHS), in.val(fr, i.RHS))
	case ir.Not:
		return !in.val(fr, i.Operand).(bool)
	case ir.Convert:
		return float64(in.val(fr, i.Value).(int64))
	case ir.CompareStrings:
		lhs := in.val(fr, i.LHS).(*runtime.StringObj)
		rhs := in.val(fr, i.RHS).(*runtime.StringObj)
		eq := runtime.CompareStrings(lhs, rhs)
		if i.Negate {
			return !eq
		}
		return eq

	case ir.Alloca:
		return newCell(i.Type)
	case ir.Load:
		return in.addr(fr, i.Ptr).Load()
	case ir.Store:
		in.addr(fr, i.Ptr).Store(in.val(fr, i.Val))
		return nil

	case ir.FieldAddr:
		obj := in.val(fr, i.Struct).(*Instance)
		return scalarCell{v: &obj.Fields[i.FieldIndex]}
	case ir.ElemAddr:
		arr := in.val(fr, i.Array).(*runtime.ArrayObj)
		idx := in.val(fr, i.Index).(int64)
		return arrayElemCell{arr: arr, idx: idx}

	case ir.ArrayLen:
		return runtime.ArrayLength(in.val(fr, i.Array).(*runtime.ArrayObj))
	case ir.ArrayAppend:
		arr := in.val(fr, i.Array).(*runtime.ArrayObj)
		runtime.ArrayAppend(arr, in.val(fr, i.Val))
		return arr
	case ir.NewArray:
		return runtime.NewArray(in.gc, i.Elem == ir.Ptr)
	case ir.ArrayLiteral:
		return runtime.NewArrayLiteral(in.gc, i.Elem == ir.Ptr, in.valAll(fr, i.Elems))

	case ir.NewObject:
		return in.allocInstance(i.Struct, i.VTable)
	case ir.NewTrampoline:
		obj := in.val(fr, i.Object).(*Instance)
		t := &Trampoline{VTable: i.InterfaceVTable, Object: obj, GCMeta: i.GCMeta}
		in.gc.Alloc(t)
		return t

	case ir.Call:
		return in.call(i.Func, in.valAll(fr, i.Args))
	case ir.CallVirtual:
		return in.execCallVirtual(fr, i)
	case ir.CallInterface:
		return in.execCallInterface(fr, i)

	case ir.Print:
		in.execPrint(fr, i)
		return nil

	case ir.PushFrame:
		in.gc.PushStackFrame()
		return nil
	case ir.PopFrame:
		in.gc.PopStackFrame()
		return nil
	case ir.AddRoot:
		in.addr(fr, i.Slot).(ptrCell).registerAsRoot(in.gc.AddRoot)
		return nil
	case ir.AddGlobalRoot:
		in.addr(fr, i.Global).(ptrCell).registerAsRoot(in.gc.AddGlobalRoot)
		return nil

	default:
		panic("refbackend: unhandled ir.Instr")
	}
}

func (in *Interp) execBinOp(fr *frame, i ir.BinOp) Value {
	lhs, rhs := in.val(fr, i.LHS), in.val(fr, i.RHS)

	if i.ResultType == ir.Ptr {
		return runtime.StringConcat(in.gc, lhs.(*runtime.StringObj), rhs.(*runtime.StringObj))
	}
	if i.ResultType == ir.F64 {
		a, b := lhs.(float64), rhs.(float64)
		switch i.Op {
		case "+":
			return a + b
		case "-":
			return a - b
		case "*":
			return a * b
		case "/":
			return a / b
		}
		panic("refbackend: unhandled float BinOp " + i.Op)
	}

	a, b := lhs.(int64), rhs.(int64)
	switch i.Op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "%":
		return a % b
	}
	panic("refbackend: unhandled int BinOp " + i.Op)
}

func execICmp(op string, lhs, rhs Value) bool {
	switch a := lhs.(type) {
	case int64:
		b := rhs.(int64)
		switch op {
		case "==":
			return a == b
		case "!=":
			return a != b
		case "<":
			return a < b
		case "<=":
			return a <= b
		case ">":
			return a > b
		case ">=":
			return a >= b
		}
	case float64:
		b := rhs.(float64)
		switch op {
		case "==":
			return a == b
		case "!=":
			return a != b
		case "<":
			return a < b
		case "<=":
			return a <= b
		case ">":
			return a > b
		case ">=":
			return a >= b
		}
	case bool:
		b := rhs.(bool)
		switch op {
		case "==":
			return a == b
		case "!=":
			return a != b
		}
	}
	panic("refbackend: unhandled ICmp operand/op combination")
}

// execPrint infers which of the four scalar tags v carries from its
// dynamic Go type, since the IR's Print instruction (unlike the ABI
// table's print(tag, value) it lowers to) carries no tag of its own —
// the type checker having already rejected every value kind println
// cannot handle (§4.5) is what makes this inference safe. Print always
// carries full `println` semantics: the value followed by a newline,
// matching emit_stmt.go's Println case, which never emits a separate
// newline instruction.
func (in *Interp) execPrint(fr *frame, i ir.Print) {
	v := in.val(fr, i.Value)
	switch vv := v.(type) {
	case int64:
		in.printer.Print(runtime.TagInt, vv)
	case float64:
		in.printer.Print(runtime.TagFloat, vv)
	case bool:
		in.printer.Print(runtime.TagBool, vv)
	case *runtime.StringObj:
		in.printer.Print(runtime.TagString, vv)
	default:
		panic("refbackend: print of unsupported value kind")
	}
	in.printer.PrintNewline()
}
