package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Dump renders m as readable text — structs, globals, and every
// function's basic blocks in source order — the way the teacher's
// ast.Program.String() renders a parsed program. Keys are sorted for
// determinism since m.Structs/Globals/Functions are maps, not slices:
// a module printed twice from the same build must print identically,
// which cmd/xc's golden tests rely on.
func (m *Module) Dump() string {
	var sb strings.Builder

	for _, name := range sortedKeys(m.Structs) {
		dumpStruct(&sb, m.Structs[name])
	}
	for _, name := range sortedKeys(m.Globals) {
		dumpGlobal(&sb, m.Globals[name])
	}
	if m.EntryFunc != "" {
		fmt.Fprintf(&sb, "entry: %s\n\n", m.EntryFunc)
	}
	for _, name := range sortedKeys(m.Functions) {
		dumpFunction(&sb, m.Functions[name])
	}

	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dumpStruct(sb *strings.Builder, st *StructType) {
	fmt.Fprintf(sb, "struct %s", st.Name)
	if st.Parent != "" {
		fmt.Fprintf(sb, " : %s", st.Parent)
	}
	sb.WriteString(" {\n")
	for _, f := range st.Fields {
		fmt.Fprintf(sb, "  %s %s", f.Name, f.Type)
		if f.Traced {
			sb.WriteString(" traced")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")
}

func dumpGlobal(sb *strings.Builder, g *Global) {
	fmt.Fprintf(sb, "global %s %s", g.Name, g.Type)
	if g.Init != nil {
		fmt.Fprintf(sb, " = %s", g.Init)
	}
	sb.WriteString("\n")
}

func dumpFunction(sb *strings.Builder, fn *Function) {
	fmt.Fprintf(sb, "\nfunc %s(", fn.Name)
	for i, name := range fn.ParamNames {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "%s %s", name, fn.ParamTypes[i])
	}
	fmt.Fprintf(sb, ") %s {\n", fn.RetType)

	if fn.Blocks == nil {
		sb.WriteString("  ; declaration only\n}\n")
		return
	}

	for _, blk := range fn.Blocks {
		fmt.Fprintf(sb, "%s:\n", blk.Label)
		for _, instr := range blk.Instrs {
			fmt.Fprintf(sb, "  %s\n", dumpInstr(instr))
		}
		fmt.Fprintf(sb, "  %s\n", dumpTerm(blk.Term))
	}
	sb.WriteString("}\n")
}

func dumpInstr(instr Instr) string {
	reg, hasDest := instr.Dest()
	prefix := ""
	if hasDest {
		prefix = fmt.Sprintf("%%%d = ", int(reg))
	}

	switch i := instr.(type) {
	case BinOp:
		return fmt.Sprintf("%sbinop %q %s, %s : %s", prefix, i.Op, i.LHS, i.RHS, i.ResultType)
	case ICmp:
		return fmt.Sprintf("%sicmp %q %s, %s", prefix, i.Op, i.LHS, i.RHS)
	case Not:
		return fmt.Sprintf("%snot %s", prefix, i.Operand)
	case Convert:
		return fmt.Sprintf("%sconvert %s to %s", prefix, i.Value, i.To)
	case CompareStrings:
		return fmt.Sprintf("%scomparestrings %s, %s negate=%t", prefix, i.LHS, i.RHS, i.Negate)
	case Alloca:
		return fmt.Sprintf("%salloca %s %q", prefix, i.Type, i.Name)
	case Load:
		return fmt.Sprintf("%sload %s", prefix, i.Ptr)
	case Store:
		return fmt.Sprintf("store %s, %s", i.Ptr, i.Val)
	case FieldAddr:
		return fmt.Sprintf("%sfieldaddr %s[%d] (%s)", prefix, i.Struct, i.FieldIndex, i.StructType.Name)
	case ElemAddr:
		return fmt.Sprintf("%selemaddr %s[%s]", prefix, i.Array, i.Index)
	case ArrayLen:
		return fmt.Sprintf("%sarraylen %s", prefix, i.Array)
	case ArrayAppend:
		return fmt.Sprintf("%sarrayappend %s, %s", prefix, i.Array, i.Val)
	case NewArray:
		return fmt.Sprintf("%snewarray %s", prefix, i.Elem)
	case ArrayLiteral:
		return fmt.Sprintf("%sarrayliteral %s %v", prefix, i.Elem, i.Elems)
	case NewObject:
		return fmt.Sprintf("%snewobject %s vtable=%s", prefix, i.ClassName, i.VTable)
	case NewTrampoline:
		return fmt.Sprintf("%snewtrampoline %s vtable=%s meta=%s", prefix, i.Object, i.InterfaceVTable, i.GCMeta)
	case Call:
		return fmt.Sprintf("%scall %s(%v) void=%t", prefix, i.Func, i.Args, i.Void)
	case CallVirtual:
		return fmt.Sprintf("%scallvirtual %s.%s[%d](%v) void=%t", prefix, i.Object, i.Struct.Name, i.Slot, i.Args, i.Void)
	case CallInterface:
		return fmt.Sprintf("%scallinterface %s[%d](%v) void=%t", prefix, i.Trampoline, i.Slot, i.Args, i.Void)
	case Print:
		return fmt.Sprintf("print %s", i.Value)
	case PushFrame:
		return "pushframe"
	case PopFrame:
		return "popframe"
	case AddRoot:
		return fmt.Sprintf("addroot %s meta=%s", i.Slot, i.Meta)
	case AddGlobalRoot:
		return fmt.Sprintf("addglobalroot %s meta=%s", i.Global, i.Meta)
	default:
		return fmt.Sprintf("<unknown instr %T>", instr)
	}
}

func dumpTerm(term Terminator) string {
	switch t := term.(type) {
	case Br:
		return fmt.Sprintf("br %s", t.Target)
	case CondBr:
		return fmt.Sprintf("condbr %s, %s, %s", t.Cond, t.Then, t.Else)
	case Ret:
		if t.Value == nil {
			return "ret void"
		}
		return fmt.Sprintf("ret %s", t.Value)
	case Unreachable:
		return "unreachable"
	default:
		return fmt.Sprintf("<unknown terminator %T>", term)
	}
}
