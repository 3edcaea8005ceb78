package cmd

import (
	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/ctruntime"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/lower"
	"github.com/cwbudde/go-dws/internal/passes/abstractcheck"
	"github.com/cwbudde/go-dws/internal/passes/foldconst"
	"github.com/cwbudde/go-dws/internal/passes/interfacecheck"
	"github.com/cwbudde/go-dws/internal/passes/typecheck"
	"github.com/cwbudde/go-dws/internal/passes/virtualmethods"
)

// buildModule runs every pass up to and including lowering against prog,
// in the fixed order §2 and §4 require: fold (skippable via --no-fold),
// abstract-class check, interface check, virtual-method discovery, type
// check, then lower. rt is threaded through the passes that need it the
// way lower.Lower's own doc comment describes, and returned so a caller
// (dump-ir, in particular) can inspect it after the fact.
func buildModule(prog *ast.Program) (*ir.Module, *ctruntime.Runtime, error) {
	if !noFold {
		prog = foldconst.Fold(prog)
	}

	if err := abstractcheck.Check(prog); err != nil {
		return nil, nil, err
	}

	rt := ctruntime.New()

	if err := interfacecheck.Check(prog, rt); err != nil {
		return nil, nil, err
	}
	if err := virtualmethods.Discover(prog, rt); err != nil {
		return nil, nil, err
	}
	if err := typecheck.Check(prog, rt); err != nil {
		return nil, nil, err
	}

	module, err := lower.Lower(prog, rt)
	if err != nil {
		return nil, nil, err
	}
	return module, rt, nil
}
