package types

// Built-in runtime class names shared by the type checker (method lookup
// on string/array/range receivers) and the lowerer/runtime packages that
// generate the actual vtables and GC metadata for them.
const (
	StringClassName = "String"
	ArrayClassName  = "Array"
	RangeClassName  = "Range"
)
