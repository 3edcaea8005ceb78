// Package mangle implements the X language's name-mangling scheme: the
// pure mapping from source-level names (classes, interfaces, methods,
// static properties) to the unique textual symbols the lowerer declares in
// the IR module and the runtime ABI exposes to generated code (§6).
package mangle

import "strings"

// internalPrefix marks symbols owned by the runtime rather than by any
// user class or function (the "x." prefix in §6's ABI table).
const internalPrefix = "x."

// Mangler is stateless; every method is a pure string transform. It is a
// zero-size type so callers can use the zero value directly.
type Mangler struct{}

// Class returns the mangled name of a class or interface's IR struct type.
func (Mangler) Class(name string) string {
	return "class." + name
}

// Interface returns the mangled name of an interface's IR trampoline
// struct type — kept distinct from Class so a class and an interface can
// never collide even if (hypothetically) named the same, though §3's
// invariant that class/interface names share one namespace already rules
// that out; the distinct prefix documents the two layouts are unrelated.
func (Mangler) Interface(name string) string {
	return "interface." + name
}

// Method returns the mangled name of mangledClassName's method methodName:
// the symbol the lowerer declares a function under and per-node emission
// calls by name for statically-resolved dispatch.
func (Mangler) Method(mangledClassName, methodName string) string {
	return mangledClassName + "_" + methodName
}

// HiddenMethod returns the mangled name of a slot that must not collide
// with a user-declared method of the same simple name — used for
// compiler-synthesized per-class helpers (e.g. a class's field
// initializer, kept separate from any user method named the same).
func (Mangler) HiddenMethod(mangledClassName, methodName string) string {
	return mangledClassName + "." + methodName
}

// InternalMethod returns the mangled name of a runtime-owned method on a
// built-in receiver type (String/Array/Range), e.g. "x.class.String_concat".
func (Mangler) InternalMethod(mangledClassName, methodName string) string {
	return internalPrefix + Mangler{}.Method(mangledClassName, methodName)
}

// StaticProp returns the mangled name of mangledClassName's static
// property propName — a global symbol in the IR module.
func (Mangler) StaticProp(mangledClassName, propName string) string {
	return mangledClassName + "_" + propName
}

// InternalFunction returns the mangled name of a runtime helper function
// callable from generated code (gcAlloc, print, die, ...).
func (Mangler) InternalFunction(fnName string) string {
	return internalPrefix + fnName
}

// InternalSymbol returns the mangled name of a runtime-owned global (the
// process-wide GC instance, "gc").
func (Mangler) InternalSymbol(symbol string) string {
	return internalPrefix + symbol
}

// UnmangleClass reverses Class, for diagnostics that want to print the
// source-level class name back out of a mangled symbol.
func (Mangler) UnmangleClass(mangled string) string {
	return strings.TrimPrefix(mangled, "class.")
}
