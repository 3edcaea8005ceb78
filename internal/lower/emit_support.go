package lower

import (
	"fmt"

	"github.com/cwbudde/go-dws/internal/ir"
)

// nextLabel returns a fresh, function-unique block label built from base.
func (l *Lowerer) nextLabel(base string) string {
	l.labelCounter++
	return fmt.Sprintf("%s.%d", base, l.labelCounter)
}

// labelRef builds a placeholder *ir.Block carrying only a label, used to
// pass a forward reference to a block that hasn't been created yet into a
// Builder terminator method (Br/CondBr only ever read target.Label). The
// real block is created later via Builder.Block with the same label.
func labelRef(label string) *ir.Block { return &ir.Block{Label: label} }
