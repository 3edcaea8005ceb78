package lower

import (
	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/types"
)

// gcMeta names the GC metadata node a pointer-typed slot's Meta field
// refers to (§6 "GC metadata node"). Strings and arrays share a runtime
// node per element shape; a class or interface uses its own mangled
// metadata symbol, built once by buildGCMetadata (layout.go) and looked
// up here by declared type rather than duplicated.
func (l *Lowerer) gcMeta(t types.Type) string {
	switch t.Kind() {
	case types.String:
		return "string"
	case types.Array:
		return "array"
	case types.Class:
		return l.mangler.Class(t.ClassName())
	default:
		return ""
	}
}

// isPointerKind reports whether t lowers to ir.Ptr and therefore needs a
// GC root when held in a local slot.
func isPointerKind(t types.Type) bool {
	switch t.Kind() {
	case types.String, types.Array, types.Class:
		return true
	default:
		return false
	}
}

// needsFrame scans a function/method's declared parameter types and its
// body for any pointer-typed binding, deciding whether a stack frame must
// be pushed at all (§5: "a stack... pushed on entry to each generated
// function that owns at least one pointer-typed local"). A non-static
// method always needs one since `this` is pointer-typed.
func needsFrame(hasThis bool, args []*ast.Argument, body *ast.StatementList) bool {
	if hasThis {
		return true
	}
	for _, a := range args {
		if isPointerKind(a.Type) {
			return true
		}
	}
	return bodyHasPointerLocal(body)
}

func bodyHasPointerLocal(body *ast.StatementList) bool {
	if body == nil {
		return false
	}
	for _, s := range body.Statements {
		if statementHasPointerLocal(s) {
			return true
		}
	}
	return false
}

func statementHasPointerLocal(s ast.Statement) bool {
	switch st := s.(type) {
	case *ast.VarDeclStatement:
		return isPointerKind(st.DeclaredType)
	case *ast.If:
		if bodyHasPointerLocal(st.Then) {
			return true
		}
		return bodyHasPointerLocal(st.Else)
	case *ast.While:
		return bodyHasPointerLocal(st.Body)
	case *ast.ForIn:
		return isPointerKind(st.ElemType) || bodyHasPointerLocal(st.Body)
	default:
		return false
	}
}

// pushFrameIfNeeded emits the PushFrame prologue and records whether this
// function owns one, for emitReturn to pair with a PopFrame.
func (l *Lowerer) pushFrameIfNeeded(need bool) {
	l.framePushed = need
	if need {
		l.builder.PushFrame()
	}
}

// rootLocal registers slot (an Alloca result just stored into) as a root
// when its declared type is pointer-kind; a no-op otherwise. Called right
// after every local/param/loop-binding Alloca so the frame's root set
// always matches what it owns per §5.
func (l *Lowerer) rootLocal(slot ir.Value, t types.Type) {
	if !l.framePushed || !isPointerKind(t) {
		return
	}
	l.builder.AddRoot(slot, l.gcMeta(t))
}

// emitReturn pops the current frame (if one was pushed) immediately
// before the terminating Ret, keeping push/pop strictly paired on every
// exit path (§5 "popped before each return").
func (l *Lowerer) emitReturn(v ir.Value) {
	if l.framePushed {
		l.builder.PopFrame()
	}
	l.builder.Ret(v)
}
