package lower

import (
	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/types"
)

// checkAccess enforces §4.6's access rule: outside the declaring class,
// only PUBLIC members are reachable; inside the declaring class or a
// subclass, PROTECTED is also reachable; PRIVATE is reachable only from
// the declaring class itself. Unlike the type checker's passes, this
// check happens here rather than in internal/passes/typecheck, matching
// the original's codegen-time access enforcement.
func (l *Lowerer) checkAccess(pos ast.Position, access types.AccessModifier, declaringClass, memberName string) error {
	switch access {
	case types.Public:
		return nil
	case types.Protected:
		if l.currentClass != "" && (l.currentClass == declaringClass || l.rt.IsSubclass(declaringClass, l.currentClass)) {
			return nil
		}
		return internalErr(pos, "%s.%s is protected and not reachable from %s", declaringClass, memberName, l.describeCurrent())
	default: // Private
		if l.currentClass == declaringClass {
			return nil
		}
		return internalErr(pos, "%s.%s is private and not reachable from %s", declaringClass, memberName, l.describeCurrent())
	}
}

// registerExtendedClasses populates l.rt.ExtendedClasses with every
// (ancestor, class) pair so checkAccess's PROTECTED branch can recognize
// a genuine subclass. AddExtendedClass records only the one pair it's
// given — it does not transitively close itself — so each class walks
// its own full parent chain and records itself against every ancestor,
// not just its direct parent.
func (l *Lowerer) registerExtendedClasses(classes []*ast.ClassDecl) {
	for _, class := range classes {
		for cur := class.Parent; cur != ""; {
			l.rt.AddExtendedClass(cur, class.Name)
			parent, ok := l.classesByName[cur]
			if !ok {
				break
			}
			cur = parent.Parent
		}
	}
}

func (l *Lowerer) describeCurrent() string {
	if l.currentClass == "" {
		return "a global function"
	}
	return l.currentClass
}
