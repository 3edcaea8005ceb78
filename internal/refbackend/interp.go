package refbackend

import (
	"io"

	"github.com/cwbudde/go-dws/internal/errors"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/runtime"
)

// frame is one function activation: its parameter values (args[0] is the
// implicit receiver for an instance method/constructor) and the registers
// its instructions have produced so far. A register holds either a Value
// (BinOp, Load, Call, ...) or a cell (Alloca, FieldAddr, ElemAddr) — never
// both, since the lowerer never feeds an addressable instruction's result
// into an operand position expecting a plain value without an intervening
// Load.
type frame struct {
	args []Value
	regs map[ir.Reg]any
}

// Interp holds everything one Execute run shares across every function
// activation: the module being walked, the GC every heap value is
// allocated through, the printer println lowers to, and each global's
// storage cell.
type Interp struct {
	module     *ir.Module
	gc         *runtime.GC
	printer    *runtime.Printer
	globals    map[string]cell
	blockIndex map[string]map[string]*ir.Block
}

// Execute runs module's entry function (x.init) then its `main`, the way
// the spec's assumed external JIT backend would after linking and
// before process exit. A *errors.CompilerError panic raised by
// internal/runtime (an out-of-range array/string access, a zero range
// step, a die() call) is recovered here and returned as err instead of
// unwinding the host process — the one substitution internal/refbackend
// makes for testability (SPEC_FULL.md §4.11); any other panic is a bug in
// this interpreter or in the module it was handed, and is left to
// propagate. After `main` returns normally, Execute runs one final
// gc.Run() sweep (§5's end-of-program collection).
//
// onGCSweep, if given, is called once with the live-object count
// immediately before and immediately after that final sweep — cmd/xc's
// --trace-gc flag is the only caller that passes one.
func Execute(module *ir.Module, out io.Writer, onGCSweep ...func(before, after int)) (err error) {
	in := &Interp{
		module:     module,
		gc:         runtime.New(),
		printer:    runtime.NewPrinter(out),
		globals:    make(map[string]cell, len(module.Globals)),
		blockIndex: make(map[string]map[string]*ir.Block, len(module.Functions)),
	}
	for name, g := range module.Globals {
		in.globals[name] = newGlobalCell(g)
	}
	for name, fn := range module.Functions {
		if fn.Blocks == nil {
			continue
		}
		idx := make(map[string]*ir.Block, len(fn.Blocks))
		for _, b := range fn.Blocks {
			idx[b.Label] = b
		}
		in.blockIndex[name] = idx
	}

	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*errors.CompilerError); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()

	if module.EntryFunc != "" {
		in.call(module.EntryFunc, nil)
	}
	in.call("main", nil)

	if len(onGCSweep) > 0 {
		before := in.gc.Live()
		in.gc.Run()
		onGCSweep[0](before, in.gc.Live())
		return nil
	}
	in.gc.Run()
	return nil
}

// newGlobalCell allocates a global's backing storage, holding the zero
// value of its type (its Init constant is not read) — a pointer-typed
// global gets a ptrCell (it is
// exactly the kind of slot AddGlobalRoot registers), everything else a
// scalarCell. Vtable/interface-vtable constants are also Globals but are
// never reached through this map: CallVirtual/CallInterface resolve them
// straight off module.Globals[sym].Init instead of through a cell, since
// they are immutable and never addressed via an ir.GlobalRef.
func newGlobalCell(g *ir.Global) cell {
	if g.Type == ir.Ptr {
		return ptrCell{v: new(runtime.Heap)}
	}
	c := scalarCell{v: new(Value)}
	c.Store(zeroValue(g.Type))
	return c
}

func zeroValue(t ir.Type) Value {
	switch t {
	case ir.I64:
		return int64(0)
	case ir.F64:
		return float64(0)
	case ir.Bool:
		return false
	default:
		return nil
	}
}

// call dispatches to a declared module function when one exists, and
// otherwise to a runtime-implemented builtin (string/array/range methods,
// die, the range-iteration helpers) — these never appear in
// module.Functions since they have no IR body of their own, only a
// mangled name the lowerer emits a Call to.
func (in *Interp) call(name string, args []Value) Value {
	if fn, ok := in.module.Functions[name]; ok && fn.Blocks != nil {
		return in.runFunction(fn, args)
	}
	return in.callInternal(name, args)
}

func (in *Interp) runFunction(fn *ir.Function, args []Value) Value {
	fr := &frame{args: args, regs: make(map[ir.Reg]any)}
	blocks := in.blockIndex[fn.Name]
	cur := fn.Blocks[0]

	for {
		for _, instr := range cur.Instrs {
			res := in.execInstr(fr, instr)
			if reg, ok := instr.Dest(); ok {
				fr.regs[reg] = res
			}
		}

		switch term := cur.Term.(type) {
		case ir.Br:
			cur = blocks[term.Target]
		case ir.CondBr:
			if in.val(fr, term.Cond).(bool) {
				cur = blocks[term.Then]
			} else {
				cur = blocks[term.Else]
			}
		case ir.Ret:
			if term.Value == nil {
				return nil
			}
			return in.val(fr, term.Value)
		case ir.Unreachable:
			panic("refbackend: control reached an Unreachable block in " + fn.Name)
		default:
			panic("refbackend: block with no terminator in " + fn.Name)
		}
	}
}

// val evaluates an ir.Value to the Go value it denotes: a constant folds
// to its Go-native representation (a ConstString allocates a fresh heap
// string each time it is evaluated, exactly as a real backend would
// materialize a string literal at its use site), a register/param/global
// reference reads through to whatever is currently stored there.
func (in *Interp) val(fr *frame, v ir.Value) Value {
	switch vv := v.(type) {
	case ir.RegValue:
		return fr.regs[ir.Reg(vv)]
	case ir.ConstInt:
		return int64(vv)
	case ir.ConstFloat:
		return float64(vv)
	case ir.ConstBool:
		return bool(vv)
	case ir.ConstString:
		return runtime.NewString(in.gc, string(vv))
	case ir.ConstNull:
		return nil
	case ir.ParamRef:
		return fr.args[int(vv)]
	case ir.GlobalRef:
		return in.globals[string(vv)].Load()
	case ir.FuncRef:
		return string(vv)
	default:
		panic("refbackend: unhandled ir.Value in val()")
	}
}

func (in *Interp) valAll(fr *frame, vs []ir.Value) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = in.val(fr, v)
	}
	return out
}

// addr resolves an ir.Value that must denote an address (Load/Store's
// Ptr, AddRoot/AddGlobalRoot's Slot) to its backing cell.
func (in *Interp) addr(fr *frame, v ir.Value) cell {
	switch vv := v.(type) {
	case ir.RegValue:
		c, ok := fr.regs[ir.Reg(vv)].(cell)
		if !ok {
			panic("refbackend: register does not hold an addressable cell")
		}
		return c
	case ir.GlobalRef:
		return in.globals[string(vv)]
	default:
		panic("refbackend: value is not addressable")
	}
}
