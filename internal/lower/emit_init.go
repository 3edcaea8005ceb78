package lower

import (
	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/ir"
)

// emitInit builds the compiler-synthesized entry function (§4.6 decl phase
// step 6): every top-level `global` variable's initializer, then every
// class's static property initializers in declaration order, run once
// before any user code (the spec's assumed-external JIT calls this first).
func (l *Lowerer) emitInit(prog *ast.Program) error {
	name := l.mangler.InternalFunction("init")
	fn := l.module.DeclareFunction(name, nil, nil, ir.Void)
	l.module.EntryFunc = name

	l.builder = ir.NewBuilder(fn)
	l.locals = make(map[string]localVar)
	l.currentClass = ""
	l.breakBlocks = nil
	l.continueBlocks = nil
	l.framePushed = false // globals are roots in their own right, not frame-scoped

	// §5(a) Global roots: one entry per pointer-typed global/static prop,
	// registered once here before any initializer can run.
	for _, g := range prog.Globals {
		if isPointerKind(g.DeclaredType) {
			sym := l.globalVarSymbol[g.Name]
			l.builder.AddGlobalRoot(ir.GlobalRef(sym), l.gcMeta(g.DeclaredType))
		}
	}
	for _, class := range prog.Classes {
		for _, prop := range class.Properties {
			if !prop.IsStatic || !isPointerKind(prop.Type) {
				continue
			}
			sym := l.mangler.StaticProp(l.mangler.Class(class.Name), prop.Name)
			l.builder.AddGlobalRoot(ir.GlobalRef(sym), l.gcMeta(prop.Type))
		}
	}

	for _, g := range prog.Globals {
		if g.Init == nil {
			continue
		}
		val, valType, err := l.emitExpr(g.Init)
		if err != nil {
			return err
		}
		sym := l.globalVarSymbol[g.Name]
		l.builder.Store(ir.GlobalRef(sym), l.convertAssign(val, valType, g.DeclaredType))
	}

	for _, class := range prog.Classes {
		l.currentClass = class.Name
		for _, prop := range class.Properties {
			if !prop.IsStatic || prop.Init == nil {
				continue
			}
			val, valType, err := l.emitExpr(prop.Init)
			if err != nil {
				return err
			}
			sym := l.mangler.StaticProp(l.mangler.Class(class.Name), prop.Name)
			l.builder.Store(ir.GlobalRef(sym), l.convertAssign(val, valType, prop.Type))
		}
	}
	l.currentClass = ""

	if !l.builder.Terminated() {
		l.builder.Ret(nil)
	}
	return nil
}
