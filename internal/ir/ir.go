// Package ir is the data model the lowerer (internal/lower) emits into and
// a concrete backend consumes — the role the teacher's internal/bytecode
// package plays for its Compiler/Chunk/VM split, generalized from a flat
// byte-packed instruction stream to a typed, basic-block-structured
// module, since §4.6 requires "basic blocks with explicit merge points"
// rather than jump-offset bytecode.
//
// A Module is pure data: the lowerer (the producer, like bytecode.Compiler)
// builds one with a Builder, and any consumer — the spec's externally
// assumed concrete JIT backend, or this repo's supplemental
// internal/refbackend (the stand-in for bytecode.VM) — walks it to do
// real work. Nothing in this package executes anything.
package ir

import "fmt"

// Type is an IR-level value type. Class/interface struct layouts are
// represented as named StructTypes; every pointer-bearing source type
// (string, array, class, interface) lowers to Ptr.
type Type int

const (
	Invalid Type = iota
	I64
	F64
	Bool
	Ptr
	Void
)

func (t Type) String() string {
	switch t {
	case I64:
		return "i64"
	case F64:
		return "f64"
	case Bool:
		return "bool"
	case Ptr:
		return "ptr"
	case Void:
		return "void"
	default:
		return "invalid"
	}
}

// Field is one member of a StructType: name (for debugging/GEP-by-name in
// the reference backend), type, and — for Ptr fields — whether the GC
// must trace through it (mirrors §4.6's GC layout metadata, computed from
// the same field list rather than duplicated).
type Field struct {
	Name    string
	Type    Type
	Traced  bool
}

// StructType is a class or interface's object layout, or the interface
// trampoline's fixed 3-field shape. Structs are forward-declared opaque
// (Fields == nil) during the decl phase's first pass and given a body
// once every class/interface's existence is known (§4.6 decl phase).
type StructType struct {
	Name   string
	Fields []Field
	// Parent is the mangled name of the struct this one's fields were
	// flattened from (buildLayouts copies the parent's entire field list
	// in at matching indices, bit-compatible-layout style per §9), or ""
	// if this struct has no parent. It names which ancestor struct a
	// pointer to this one can be reinterpreted as; it is not needed to
	// reconstruct Fields, which already holds every inherited field.
	Parent string
}

func (s *StructType) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Global is a static property's backing storage, or a vtable constant.
type Global struct {
	Name string
	Type Type
	// Init, if non-nil, is a constant initializer (used for vtable
	// constants and zero-valued static props); runtime-computed static
	// props are left nil here and assigned inside __init instead.
	Init Value
}

// Function is a declared or defined function/method. Params includes the
// implicit receiver for instance methods, by convention always named
// "this" at index 0 — the lowerer is responsible for that convention, not
// this package.
type Function struct {
	Name       string
	ParamNames []string
	ParamTypes []Type
	RetType    Type
	// Blocks is nil for a declaration with no body (an abstract method
	// slot reserved purely so its mangled name exists as a call target).
	Blocks []*Block
}

// Block is one basic block: a label, a straight-line instruction list,
// and exactly one terminator.
type Block struct {
	Label  string
	Instrs []Instr
	Term   Terminator
}

// Reg identifies an instruction's result within its function, SSA-style:
// every instruction that produces a value is assigned the next Reg in
// sequence by the Builder.
type Reg int

// Value is anything an instruction can consume: a register result, a
// constant, or a reference to a global/function by name.
type Value interface {
	isValue()
	String() string
}

type RegValue Reg

func (RegValue) isValue()        {}
func (v RegValue) String() string { return fmt.Sprintf("%%%d", int(v)) }

type ConstInt int64

func (ConstInt) isValue()        {}
func (v ConstInt) String() string { return fmt.Sprintf("%d", int64(v)) }

type ConstFloat float64

func (ConstFloat) isValue()        {}
func (v ConstFloat) String() string { return fmt.Sprintf("%g", float64(v)) }

type ConstBool bool

func (ConstBool) isValue()        {}
func (v ConstBool) String() string { return fmt.Sprintf("%t", bool(v)) }

type ConstString string

func (ConstString) isValue()        {}
func (v ConstString) String() string { return fmt.Sprintf("%q", string(v)) }

// ConstNull is the nil pointer constant: the lowerer's zero value for a
// pointer-typed global or static property and for an uninitialized
// string, class or interface local (an uninitialized array local gets a
// fresh NewArray instead).
type ConstNull struct{}

func (ConstNull) isValue()        {}
func (ConstNull) String() string   { return "null" }

// ConstArray is a compile-time-constant array of values — used for vtable
// and interface-vtable constants, never for a language-level array value
// (those are always heap-allocated via NewArray/ArrayLiteral).
type ConstArray struct {
	Elem Type
	Elems []Value
}

func (ConstArray) isValue() {}
func (v ConstArray) String() string { return "constarray" }

// ParamRef names one of the current Function's own parameters by index —
// index 0 is the implicit "this" receiver for an instance method.
type ParamRef int

func (ParamRef) isValue()         {}
func (v ParamRef) String() string { return fmt.Sprintf("$%d", int(v)) }

// GlobalRef names a Global by its mangled symbol.
type GlobalRef string

func (GlobalRef) isValue()        {}
func (v GlobalRef) String() string { return "@" + string(v) }

// FuncRef names a Function by its mangled symbol, used both as a direct
// call target and as a function-pointer value (vtable slot constants).
type FuncRef string

func (FuncRef) isValue()        {}
func (v FuncRef) String() string { return "@" + string(v) }
