// Package types defines the value types of the X language's type system.
//
// A Type is a small, structurally-compared value: a Kind tag plus, for the
// two composite kinds, a child. Types are compared by shape, never by
// pointer identity, so two independently constructed array<int> values are
// equal. Class and interface types carry only a name; the declarations
// they refer to live in the class/interface registries built by the
// semantic passes (see internal/ctruntime and internal/passes/typecheck).
package types

import "fmt"

// Kind identifies which of the fixed set of X types a Type value denotes.
type Kind int

const (
	// Invalid is the zero value of Kind; a Type should never be left at it.
	Invalid Kind = iota
	Int
	Float
	Bool
	String
	Void
	// Auto is a placeholder that must be resolved away by the type
	// inferrer before lowering ever sees it.
	Auto
	// Self is a placeholder resolved to the enclosing class at the
	// declaration site; it never survives decl processing.
	Self
	Array
	Class
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Void:
		return "void"
	case Auto:
		return "auto"
	case Self:
		return "self"
	case Array:
		return "array"
	case Class:
		return "class"
	default:
		return "invalid"
	}
}

// Type is a source-level type. It is a plain value: copy it, compare it
// with Equals, never mutate one in place.
type Type struct {
	kind Kind
	// elem is the element type for Array; nil otherwise.
	elem *Type
	// name is the class/interface name for Class; empty otherwise.
	name string
}

func primitive(k Kind) Type { return Type{kind: k} }

// Int is the 64-bit signed integer type.
var IntType = primitive(Int)

// FloatType is the 64-bit float type.
var FloatType = primitive(Float)

// BoolType is the boolean type.
var BoolType = primitive(Bool)

// StringType is the opaque byte-string type.
var StringType = primitive(String)

// VoidType marks the absence of a value (function/method return type only).
var VoidType = primitive(Void)

// AutoType is the "not yet inferred" placeholder.
var AutoType = primitive(Auto)

// SelfType is the "enclosing class" placeholder.
var SelfType = primitive(Self)

// NewArray builds array<elem>. elem must not itself be Array; callers are
// expected to have rejected multi-dimensional arrays already (see
// internal/passes/typecheck), but NewArray does not re-check this since it
// is also used internally by the lowerer on already-validated types.
func NewArray(elem Type) Type {
	e := elem
	return Type{kind: Array, elem: &e}
}

// NewClass builds class<name> (also used for interface types — the two are
// distinguished only by which registry the name resolves in).
func NewClass(name string) Type {
	return Type{kind: Class, name: name}
}

// Kind returns the type's tag.
func (t Type) Kind() Kind { return t.kind }

// ClassName returns the class/interface name; valid only when Kind() == Class.
func (t Type) ClassName() string { return t.name }

// Elem returns the array element type; valid only when Kind() == Array.
func (t Type) Elem() Type {
	if t.elem == nil {
		return Type{}
	}
	return *t.elem
}

// IsNumeric reports whether t is int or float.
func (t Type) IsNumeric() bool { return t.kind == Int || t.kind == Float }

// IsPointer reports whether values of this type are heap pointers from the
// GC's point of view: strings, arrays, and class/interface instances.
func (t Type) IsPointer() bool {
	switch t.kind {
	case String, Array, Class:
		return true
	default:
		return false
	}
}

// Equals compares two types structurally: same Kind, and for Array the
// element types recursively equal, for Class the same name.
func (t Type) Equals(other Type) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case Array:
		return t.Elem().Equals(other.Elem())
	case Class:
		return t.name == other.name
	default:
		return true
	}
}

// String renders the type the way source code would spell it.
func (t Type) String() string {
	switch t.kind {
	case Array:
		return fmt.Sprintf("array<%s>", t.Elem().String())
	case Class:
		return t.name
	default:
		return t.kind.String()
	}
}
