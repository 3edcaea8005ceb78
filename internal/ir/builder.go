package ir

// Builder incrementally emits a single Function's basic blocks, assigning
// fresh Regs to every value-producing instruction in order — the role
// the teacher's bytecode.Compiler plays while it walks a function body,
// generalized from "append an opcode" to "append a typed instruction to
// the current block".
type Builder struct {
	fn      *Function
	cur     *Block
	nextReg Reg
}

// NewBuilder starts building fn's body at a fresh entry block.
func NewBuilder(fn *Function) *Builder {
	b := &Builder{fn: fn}
	b.cur = b.Block("entry")
	return b
}

// Block creates a new, empty basic block in the function and makes it the
// current insertion point.
func (b *Builder) Block(label string) *Block {
	blk := &Block{Label: label}
	b.fn.Blocks = append(b.fn.Blocks, blk)
	b.cur = blk
	return blk
}

// SetBlock switches the insertion point to an already-created block
// (used when finishing one branch of an if/while and returning to emit
// the merge block).
func (b *Builder) SetBlock(blk *Block) { b.cur = blk }

// Current returns the block instructions are currently appended to.
func (b *Builder) Current() *Block { return b.cur }

func (b *Builder) reg() Reg {
	r := b.nextReg
	b.nextReg++
	return r
}

func (b *Builder) emit(instr Instr) Value {
	b.cur.Instrs = append(b.cur.Instrs, instr)
	if r, ok := instr.Dest(); ok {
		return RegValue(r)
	}
	return nil
}

func (b *Builder) BinOp(op string, lhs, rhs Value, resultType Type) Value {
	r := b.reg()
	return b.emit(BinOp{Result: r, Op: op, LHS: lhs, RHS: rhs, ResultType: resultType})
}

func (b *Builder) ICmp(op string, lhs, rhs Value) Value {
	r := b.reg()
	return b.emit(ICmp{Result: r, Op: op, LHS: lhs, RHS: rhs})
}

func (b *Builder) Not(v Value) Value {
	r := b.reg()
	return b.emit(Not{Result: r, Operand: v})
}

func (b *Builder) Convert(v Value, to Type) Value {
	r := b.reg()
	return b.emit(Convert{Result: r, Value: v, To: to})
}

func (b *Builder) CompareStrings(lhs, rhs Value, negate bool) Value {
	r := b.reg()
	return b.emit(CompareStrings{Result: r, LHS: lhs, RHS: rhs, Negate: negate})
}

func (b *Builder) Alloca(t Type, name string) Value {
	r := b.reg()
	return b.emit(Alloca{Result: r, Type: t, Name: name})
}

func (b *Builder) Load(ptr Value) Value {
	r := b.reg()
	return b.emit(Load{Result: r, Ptr: ptr})
}

func (b *Builder) Store(ptr, val Value) { b.emit(Store{Ptr: ptr, Val: val}) }

func (b *Builder) FieldAddr(structPtr Value, st *StructType, fieldIndex int) Value {
	r := b.reg()
	return b.emit(FieldAddr{Result: r, Struct: structPtr, StructType: st, FieldIndex: fieldIndex})
}

func (b *Builder) ElemAddr(array, index Value, elem Type) Value {
	r := b.reg()
	return b.emit(ElemAddr{Result: r, Array: array, Index: index, Elem: elem})
}

func (b *Builder) ArrayLen(array Value) Value {
	r := b.reg()
	return b.emit(ArrayLen{Result: r, Array: array})
}

func (b *Builder) ArrayAppend(array, val Value) Value {
	r := b.reg()
	return b.emit(ArrayAppend{Result: r, Array: array, Val: val})
}

func (b *Builder) NewArray(elem Type) Value {
	r := b.reg()
	return b.emit(NewArray{Result: r, Elem: elem})
}

func (b *Builder) ArrayLiteral(elem Type, elems []Value) Value {
	r := b.reg()
	return b.emit(ArrayLiteral{Result: r, Elem: elem, Elems: elems})
}

func (b *Builder) NewObject(className string, st *StructType, vtable string) Value {
	r := b.reg()
	return b.emit(NewObject{Result: r, ClassName: className, Struct: st, VTable: vtable})
}

func (b *Builder) NewTrampoline(obj Value, ifaceVTable, gcMeta string) Value {
	r := b.reg()
	return b.emit(NewTrampoline{Result: r, Object: obj, InterfaceVTable: ifaceVTable, GCMeta: gcMeta})
}

func (b *Builder) Call(fn string, args []Value, void bool) Value {
	r := b.reg()
	return b.emit(Call{Result: r, Func: fn, Args: args, Void: void})
}

func (b *Builder) CallVirtual(obj Value, st *StructType, slot int, args []Value, void bool) Value {
	r := b.reg()
	return b.emit(CallVirtual{Result: r, Object: obj, Struct: st, Slot: slot, Args: args, Void: void})
}

func (b *Builder) CallInterface(trampoline Value, slot int, args []Value, void bool) Value {
	r := b.reg()
	return b.emit(CallInterface{Result: r, Trampoline: trampoline, Slot: slot, Args: args, Void: void})
}

func (b *Builder) Print(v Value) { b.emit(Print{Value: v}) }

func (b *Builder) PushFrame()                 { b.emit(PushFrame{}) }
func (b *Builder) PopFrame()                  { b.emit(PopFrame{}) }
func (b *Builder) AddRoot(slot Value, meta string) {
	b.emit(AddRoot{Slot: slot, Meta: meta})
}
func (b *Builder) AddGlobalRoot(g Value, meta string) {
	b.emit(AddGlobalRoot{Global: g, Meta: meta})
}

func (b *Builder) Br(target *Block)              { b.cur.Term = Br{Target: target.Label} }
func (b *Builder) CondBr(cond Value, then, els *Block) {
	b.cur.Term = CondBr{Cond: cond, Then: then.Label, Else: els.Label}
}
func (b *Builder) Ret(v Value)        { b.cur.Term = Ret{Value: v} }
func (b *Builder) Unreachable()        { b.cur.Term = Unreachable{} }

// Terminated reports whether the current block already has a terminator
// (a break/continue/return already emitted); the lowerer uses this to
// skip emitting the implicit fall-through branch §4.6 calls for.
func (b *Builder) Terminated() bool { return b.cur.Term != nil }
