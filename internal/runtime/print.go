package runtime

import (
	"fmt"
	"io"
)

// Tag identifies which scalar kind a Print call carries — the `{int,
// float, bool, string, array(subtag,…)}` set named in §6's ABI table.
// Only the four scalar tags are ever actually emitted: the type checker
// rejects `println` on a class, array, or void value (§4.5), so the
// array(subtag,…) shape the ABI table reserves has no caller today (§9
// Open Question 1) — Tag still names it so a future backend extending
// println to arrays has a slot to target without renumbering.
type Tag int

const (
	TagInt Tag = iota
	TagFloat
	TagBool
	TagString
	TagArray
)

// Printer writes println output the way generated code's x.print/
// x.printNewline pair would, to an injected io.Writer rather than a
// hardcoded os.Stdout so tests can capture output.
type Printer struct {
	Out io.Writer
}

func NewPrinter(out io.Writer) *Printer { return &Printer{Out: out} }

// Print renders one scalar value per its tag, with no trailing newline
// (println adds that separately via PrintNewline, mirroring the two
// distinct ABI symbols).
func (p *Printer) Print(tag Tag, v any) {
	switch tag {
	case TagInt:
		fmt.Fprintf(p.Out, "%d", v.(int64))
	case TagFloat:
		fmt.Fprintf(p.Out, "%v", formatFloat(v.(float64)))
	case TagBool:
		fmt.Fprintf(p.Out, "%t", v.(bool))
	case TagString:
		fmt.Fprintf(p.Out, "%s", v.(*StringObj).String())
	default:
		panic(fmt.Sprintf("runtime: print of unsupported tag %d (class/array printing is unreachable — rejected by the type checker)", tag))
	}
}

func (p *Printer) PrintNewline() { fmt.Fprint(p.Out, "\n") }

// formatFloat renders a float with Go's %g verb (§8: `-2 ** -2` →
// `"0.25"`). Whole numbers are not special-cased, so a float holding 4.0
// prints as `4`, with no trailing ".0".
func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
