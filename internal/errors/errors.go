// Package errors implements the middle end's error taxonomy (§7): one
// named Kind per pass, each CompilerError formatted with source context
// and a caret pointing at the offending position, the way the front end
// would report a parse error.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-dws/internal/ast"
)

// Kind names which pass raised an error; every compile-time error aborts
// the pipeline at the raising pass (§4.7) and carries exactly one Kind.
type Kind int

const (
	_ Kind = iota
	ParseErrorKind
	AbstractClassErrorKind
	InterfaceErrorKind
	VirtualMethodErrorKind
	TypeErrorKind
	LoweringErrorKind
	RuntimeAbortKind
)

func (k Kind) String() string {
	switch k {
	case ParseErrorKind:
		return "ParseError"
	case AbstractClassErrorKind:
		return "AbstractClassError"
	case InterfaceErrorKind:
		return "InterfaceError"
	case VirtualMethodErrorKind:
		return "VirtualMethodError"
	case TypeErrorKind:
		return "TypeError"
	case LoweringErrorKind:
		return "LoweringError"
	case RuntimeAbortKind:
		return "RuntimeAbort"
	default:
		return "Error"
	}
}

// CompilerError is a single, named, positioned compile-time error. Every
// pass in this module returns its first error wrapped as one of these
// rather than a bare error string, so a caller can always recover Kind and
// Pos without parsing the message.
type CompilerError struct {
	Kind    Kind
	Message string
	Pos     ast.Position
	Source  string // full source text, for Format's caret rendering; may be empty
	File    string
}

func New(kind Kind, pos ast.Position, format string, args ...any) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error with a source-context line and caret, the way
// a front-end parse error would be shown; color adds ANSI highlighting.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatErrors renders a batch of errors (used by a driver that collects
// more than one, even though every pass here aborts at its first).
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "compilation failed with %d error(s):\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&sb, "[%d/%d] %s", i+1, len(errs), e.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// Constructors below give each pass a one-line way to raise its kind of
// error without repeating the Kind literal at every call site.

func NewAbstractClassError(pos ast.Position, format string, args ...any) *CompilerError {
	return New(AbstractClassErrorKind, pos, format, args...)
}

func NewInterfaceError(pos ast.Position, format string, args ...any) *CompilerError {
	return New(InterfaceErrorKind, pos, format, args...)
}

func NewVirtualMethodError(pos ast.Position, format string, args ...any) *CompilerError {
	return New(VirtualMethodErrorKind, pos, format, args...)
}

func NewTypeError(pos ast.Position, format string, args ...any) *CompilerError {
	return New(TypeErrorKind, pos, format, args...)
}

func NewLoweringError(pos ast.Position, format string, args ...any) *CompilerError {
	return New(LoweringErrorKind, pos, format, args...)
}

// NewRuntimeAbort builds a RuntimeAbort (§7): unlike every other kind,
// these are raised during execution, not at a source position, so Pos is
// always zero — a runtime abort names the failing operation, not a line.
func NewRuntimeAbort(format string, args ...any) *CompilerError {
	return New(RuntimeAbortKind, ast.Position{}, format, args...)
}
