package runtime

import "github.com/cwbudde/go-dws/internal/errors"

// Die implements the source language's `die(msg)` builtin (§6
// x.die(cstr)): terminates the whole process with msg. Implemented as a
// panic carrying a *errors.CompilerError (RuntimeAbortKind) rather than a
// direct os.Exit so a host — internal/refbackend's Execute, or a test —
// can recover it and decide how to surface the abort, matching how
// RuntimeAbort already flows for out-of-range array/string/range
// operations (array.go, range.go).
func Die(msg string) {
	panic(errors.NewRuntimeAbort("%s", msg))
}
