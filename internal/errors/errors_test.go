package errors

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-dws/internal/ast"
)

func TestKindStringNames(t *testing.T) {
	for _, tc := range []struct {
		k    Kind
		want string
	}{
		{ParseErrorKind, "ParseError"},
		{AbstractClassErrorKind, "AbstractClassError"},
		{InterfaceErrorKind, "InterfaceError"},
		{VirtualMethodErrorKind, "VirtualMethodError"},
		{TypeErrorKind, "TypeError"},
		{LoweringErrorKind, "LoweringError"},
		{RuntimeAbortKind, "RuntimeAbort"},
		{Kind(0), "Error"},
	} {
		if got := tc.k.String(); got != tc.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tc.k, got, tc.want)
		}
	}
}

func TestFormatWithoutSourceOmitsCaretLine(t *testing.T) {
	e := NewTypeError(ast.Position{Line: 3, Column: 5}, "cannot assign %s to %s", "String", "int")
	out := e.Format(false)
	if !strings.Contains(out, "TypeError at 3:5") {
		t.Fatalf("expected a position header, got %q", out)
	}
	if strings.Contains(out, "^") {
		t.Fatalf("no Source was set; Format should not render a caret line: %q", out)
	}
	if !strings.Contains(out, "cannot assign String to int") {
		t.Fatalf("expected the formatted message, got %q", out)
	}
}

func TestFormatWithSourceRendersCaretAtColumn(t *testing.T) {
	e := NewTypeError(ast.Position{Line: 2, Column: 7}, "boom")
	e.Source = "var x = 1;\nvar y = x + ;\n"
	out := e.Format(false)

	lines := strings.Split(out, "\n")
	var sourceLineIdx, caretLineIdx = -1, -1
	for i, l := range lines {
		if strings.Contains(l, "var y = x + ;") {
			sourceLineIdx = i
		}
		if strings.Contains(l, "^") {
			caretLineIdx = i
		}
	}
	if sourceLineIdx == -1 || caretLineIdx != sourceLineIdx+1 {
		t.Fatalf("expected the caret line to immediately follow the source line, got:\n%s", out)
	}
	caretCol := strings.Index(lines[caretLineIdx], "^")
	sourceCol := strings.Index(lines[sourceLineIdx], "var y")
	if caretCol != sourceCol+e.Pos.Column-1 {
		t.Fatalf("caret at column %d, want %d (source text starts at %d, Pos.Column=%d)", caretCol, sourceCol+e.Pos.Column-1, sourceCol, e.Pos.Column)
	}
}

func TestFormatWithFileNameIncludesFileAndLine(t *testing.T) {
	e := NewLoweringError(ast.Position{Line: 10, Column: 1}, "unsupported")
	e.File = "main.x"
	out := e.Format(false)
	if !strings.Contains(out, "LoweringError in main.x:10:1") {
		t.Fatalf("expected file-qualified header, got %q", out)
	}
}

func TestFormatColorWrapsCaretAndMessage(t *testing.T) {
	e := NewTypeError(ast.Position{Line: 1, Column: 1}, "bad")
	e.Source = "x"
	out := e.Format(true)
	if !strings.Contains(out, "\033[1;31m^\033[0m") {
		t.Fatalf("expected a color-wrapped caret, got %q", out)
	}
	if !strings.Contains(out, "\033[1mbad\033[0m") {
		t.Fatalf("expected a color-wrapped message, got %q", out)
	}
}

func TestSourceLineOutOfRangeIsIgnored(t *testing.T) {
	e := NewTypeError(ast.Position{Line: 99, Column: 1}, "bad")
	e.Source = "only one line"
	if got := e.sourceLine(99); got != "" {
		t.Fatalf("sourceLine with an out-of-range line should return empty, got %q", got)
	}
	if strings.Contains(e.Format(false), "^") {
		t.Fatal("Format must not render a caret when the requested line doesn't exist")
	}
}

func TestRuntimeAbortHasZeroPosition(t *testing.T) {
	e := NewRuntimeAbort("division by zero")
	if e.Kind != RuntimeAbortKind {
		t.Fatalf("NewRuntimeAbort should raise RuntimeAbortKind, got %v", e.Kind)
	}
	if e.Pos != (ast.Position{}) {
		t.Fatalf("a runtime abort names the failing operation, not a line; want zero Position, got %+v", e.Pos)
	}
}

func TestErrorInterfaceDelegatesToFormat(t *testing.T) {
	e := NewTypeError(ast.Position{Line: 1, Column: 1}, "mismatch")
	if e.Error() != e.Format(false) {
		t.Fatal("Error() should be equivalent to Format(false)")
	}
}

func TestFormatErrorsEmptyAndSingle(t *testing.T) {
	if got := FormatErrors(nil, false); got != "" {
		t.Fatalf("FormatErrors(nil) = %q, want empty", got)
	}
	single := NewTypeError(ast.Position{Line: 1, Column: 1}, "oops")
	if got := FormatErrors([]*CompilerError{single}, false); got != single.Format(false) {
		t.Fatal("FormatErrors with exactly one error should equal that error's own Format output")
	}
}

func TestFormatErrorsMultipleAreNumberedAndSeparated(t *testing.T) {
	a := NewTypeError(ast.Position{Line: 1, Column: 1}, "first")
	b := NewInterfaceError(ast.Position{Line: 2, Column: 1}, "second")
	out := FormatErrors([]*CompilerError{a, b}, false)

	if !strings.Contains(out, "compilation failed with 2 error(s)") {
		t.Fatalf("expected a summary line, got %q", out)
	}
	if !strings.Contains(out, "[1/2]") || !strings.Contains(out, "[2/2]") {
		t.Fatalf("expected both errors to be numbered, got %q", out)
	}
	if idx1, idx2 := strings.Index(out, "first"), strings.Index(out, "second"); idx1 == -1 || idx2 == -1 || idx1 > idx2 {
		t.Fatalf("expected \"first\" to appear before \"second\", got %q", out)
	}
}
