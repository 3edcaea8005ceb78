package lower

import (
	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/types"
)

// emitExpr lowers one expression node to an IR value and its static type,
// per §4.6 "per-node emission".
func (l *Lowerer) emitExpr(expr ast.Expression) (ir.Value, types.Type, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return ir.ConstInt(e.Value), types.IntType, nil
	case *ast.FloatLiteral:
		return ir.ConstFloat(e.Value), types.FloatType, nil
	case *ast.BoolLiteral:
		return ir.ConstBool(e.Value), types.BoolType, nil
	case *ast.StringLiteral:
		return ir.ConstString(e.Value), types.StringType, nil

	case *ast.ArrayLiteral:
		return l.emitArrayLiteral(e)
	case *ast.RangeLiteral:
		return l.emitRangeLiteral(e)

	case *ast.Identifier:
		return l.loadLValue(e)
	case *ast.FetchProp:
		return l.loadLValue(e)
	case *ast.FetchStaticProp:
		return l.loadLValue(e)

	case *ast.UnaryOp:
		return l.emitUnaryOp(e)
	case *ast.BinaryOp:
		return l.emitBinaryOp(e)

	case *ast.Call:
		return l.emitCall(e)
	case *ast.MethodCall:
		return l.emitMethodCall(e)
	case *ast.StaticMethodCall:
		return l.emitStaticMethodCall(e)

	case *ast.IndexFetch:
		return l.emitIndexFetch(e)
	case *ast.New:
		return l.emitNew(e)

	default:
		return nil, types.Type{}, internalErr(expr.Pos(), "lower: unhandled expression %T", expr)
	}
}

// loadLValue resolves expr's address via lvalueAddr and loads through it —
// used for every expression node that is also a valid assignment target.
func (l *Lowerer) loadLValue(expr ast.Expression) (ir.Value, types.Type, error) {
	addr, typ, err := l.lvalueAddr(expr)
	if err != nil {
		return nil, types.Type{}, err
	}
	return l.builder.Load(addr), typ, nil
}

// lvalueAddr resolves an Identifier/FetchProp/FetchStaticProp to the IR
// address backing it: a local's alloca, a field addressed directly off
// the object's own struct type (fieldAddr — inherited fields live at the
// same slot in every descendant's flattened layout, so no ancestor walk
// is needed), or a static property's/global's GlobalRef.
func (l *Lowerer) lvalueAddr(expr ast.Expression) (ir.Value, types.Type, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if lv, ok := l.locals[e.Name]; ok {
			return lv.slot, lv.typ, nil
		}
		if l.currentClass != "" {
			if owner, slot, typ, access, ok := l.resolveProp(l.currentClass, e.Name); ok {
				if err := l.checkAccess(e.Pos(), access, owner, e.Name); err != nil {
					return nil, types.Type{}, err
				}
				thisVal := l.builder.Load(l.locals["this"].slot)
				return l.fieldAddr(thisVal, l.currentClass, slot), typ, nil
			}
			if owner, typ, ok := l.resolveStaticProp(l.currentClass, e.Name); ok {
				sym := l.mangler.StaticProp(l.mangler.Class(owner), e.Name)
				return ir.GlobalRef(sym), typ, nil
			}
		}
		if sym, ok := l.globalVarSymbol[e.Name]; ok {
			return ir.GlobalRef(sym), l.globalVarType[e.Name], nil
		}
		return nil, types.Type{}, internalErr(e.Pos(), "unresolved identifier %q", e.Name)

	case *ast.FetchProp:
		objVal, objType, err := l.emitExpr(e.Object)
		if err != nil {
			return nil, types.Type{}, err
		}
		className := l.receiverClassName(objType)
		owner, slot, typ, access, ok := l.resolveProp(className, e.Name)
		if !ok {
			return nil, types.Type{}, internalErr(e.Pos(), "unresolved property %q on %s", e.Name, className)
		}
		if err := l.checkAccess(e.Pos(), access, owner, e.Name); err != nil {
			return nil, types.Type{}, err
		}
		return l.fieldAddr(objVal, className, slot), typ, nil

	case *ast.FetchStaticProp:
		className := l.resolveSelfClassName(e.ClassName)
		owner, typ, ok := l.resolveStaticProp(className, e.Name)
		if !ok {
			return nil, types.Type{}, internalErr(e.Pos(), "unresolved static property %q on %s", e.Name, className)
		}
		sym := l.mangler.StaticProp(l.mangler.Class(owner), e.Name)
		return ir.GlobalRef(sym), typ, nil

	default:
		return nil, types.Type{}, internalErr(expr.Pos(), "expression is not assignable")
	}
}

func (l *Lowerer) emitArrayLiteral(e *ast.ArrayLiteral) (ir.Value, types.Type, error) {
	elemIR := irType(e.ElemType)
	if len(e.Elements) == 0 {
		return l.builder.NewArray(elemIR), types.NewArray(e.ElemType), nil
	}
	elems := make([]ir.Value, len(e.Elements))
	for i, el := range e.Elements {
		v, t, err := l.emitExpr(el)
		if err != nil {
			return nil, types.Type{}, err
		}
		elems[i] = l.convertAssign(v, t, e.ElemType)
	}
	return l.builder.ArrayLiteral(elemIR, elems), types.NewArray(e.ElemType), nil
}

func (l *Lowerer) emitRangeLiteral(e *ast.RangeLiteral) (ir.Value, types.Type, error) {
	start := ir.Value(ir.ConstInt(0))
	if e.Start != nil {
		v, _, err := l.emitExpr(e.Start)
		if err != nil {
			return nil, types.Type{}, err
		}
		start = v
	}
	stop, _, err := l.emitExpr(e.Stop)
	if err != nil {
		return nil, types.Type{}, err
	}
	step := ir.Value(ir.ConstInt(1))
	if e.Step != nil {
		v, _, err := l.emitExpr(e.Step)
		if err != nil {
			return nil, types.Type{}, err
		}
		step = v
	}
	val := l.builder.Call(l.mangler.InternalFunction("rangeNew"), []ir.Value{start, stop, step}, false)
	return val, types.NewClass(types.RangeClassName), nil
}

func (l *Lowerer) emitUnaryOp(e *ast.UnaryOp) (ir.Value, types.Type, error) {
	if e.Op == "!" {
		v, t, err := l.emitExpr(e.Operand)
		if err != nil {
			return nil, types.Type{}, err
		}
		return l.builder.Not(v), t, nil
	}

	// "++"/"--": the operand must be an assignable int or float lvalue.
	addr, typ, err := l.lvalueAddr(e.Operand)
	if err != nil {
		return nil, types.Type{}, err
	}
	old := l.builder.Load(addr)
	var one ir.Value = ir.ConstInt(1)
	if typ.Kind() == types.Float {
		one = ir.ConstFloat(1)
	}
	op := "+"
	if e.Op == "--" {
		op = "-"
	}
	updated := l.builder.BinOp(op, old, one, irType(typ))
	l.builder.Store(addr, updated)
	if e.Postfix {
		return old, typ, nil
	}
	return updated, typ, nil
}

func (l *Lowerer) emitBinaryOp(e *ast.BinaryOp) (ir.Value, types.Type, error) {
	switch e.Op {
	case "&&":
		return l.emitLogicalAnd(e.Left, e.Right)
	case "||":
		return l.emitLogicalOr(e.Left, e.Right)
	}

	lhs, lhsType, err := l.emitExpr(e.Left)
	if err != nil {
		return nil, types.Type{}, err
	}
	rhs, rhsType, err := l.emitExpr(e.Right)
	if err != nil {
		return nil, types.Type{}, err
	}

	if lhsType.Kind() == types.String && rhsType.Kind() == types.String {
		switch e.Op {
		case "==":
			return l.builder.CompareStrings(lhs, rhs, false), types.BoolType, nil
		case "!=":
			return l.builder.CompareStrings(lhs, rhs, true), types.BoolType, nil
		case "+":
			return l.builder.BinOp("+", lhs, rhs, ir.Ptr), types.StringType, nil
		}
	}

	lhs, rhs = l.promoteNumericPair(lhs, lhsType, rhs, rhsType)

	switch e.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		return l.builder.ICmp(e.Op, lhs, rhs), types.BoolType, nil
	default:
		return l.builder.BinOp(e.Op, lhs, rhs, irType(e.ResolvedType)), e.ResolvedType, nil
	}
}

// promoteNumericPair widens an int operand to float when the other operand
// is float (§4.5's int→float promotion, applied here since the checker
// only records the result type, not which side needed the Convert).
func (l *Lowerer) promoteNumericPair(lhs ir.Value, lhsType types.Type, rhs ir.Value, rhsType types.Type) (ir.Value, ir.Value) {
	if lhsType.Kind() == types.Int && rhsType.Kind() == types.Float {
		lhs = l.builder.Convert(lhs, ir.F64)
	}
	if rhsType.Kind() == types.Int && lhsType.Kind() == types.Float {
		rhs = l.builder.Convert(rhs, ir.F64)
	}
	return lhs, rhs
}

// emitLogicalAnd/Or short-circuit via a stack-allocated bool temporary
// rather than a phi node — this IR has no Phi instruction, so branching
// values are always threaded back through an Alloca/Store/Load instead
// (the same technique used by every branch-with-result construct below).
func (l *Lowerer) emitLogicalAnd(left, right ast.Expression) (ir.Value, types.Type, error) {
	lhsVal, _, err := l.emitExpr(left)
	if err != nil {
		return nil, types.Type{}, err
	}
	resultSlot := l.builder.Alloca(ir.Bool, "and.result")
	l.builder.Store(resultSlot, lhsVal)
	preBlk := l.builder.Current()

	rhsLabel := l.nextLabel("and_rhs")
	mergeLabel := l.nextLabel("and_merge")
	rhsRef, mergeRef := labelRef(rhsLabel), labelRef(mergeLabel)

	l.builder.Block(rhsLabel)
	rhsVal, _, err := l.emitExpr(right)
	if err != nil {
		return nil, types.Type{}, err
	}
	l.builder.Store(resultSlot, rhsVal)
	rhsEnd := l.builder.Current()

	mergeBlk := l.builder.Block(mergeLabel)

	l.builder.SetBlock(preBlk)
	l.builder.CondBr(lhsVal, rhsRef, mergeRef)
	if rhsEnd.Term == nil {
		l.builder.SetBlock(rhsEnd)
		l.builder.Br(mergeRef)
	}
	l.builder.SetBlock(mergeBlk)
	return l.builder.Load(resultSlot), types.BoolType, nil
}

func (l *Lowerer) emitLogicalOr(left, right ast.Expression) (ir.Value, types.Type, error) {
	lhsVal, _, err := l.emitExpr(left)
	if err != nil {
		return nil, types.Type{}, err
	}
	resultSlot := l.builder.Alloca(ir.Bool, "or.result")
	l.builder.Store(resultSlot, lhsVal)
	preBlk := l.builder.Current()

	rhsLabel := l.nextLabel("or_rhs")
	mergeLabel := l.nextLabel("or_merge")
	rhsRef, mergeRef := labelRef(rhsLabel), labelRef(mergeLabel)

	l.builder.Block(rhsLabel)
	rhsVal, _, err := l.emitExpr(right)
	if err != nil {
		return nil, types.Type{}, err
	}
	l.builder.Store(resultSlot, rhsVal)
	rhsEnd := l.builder.Current()

	mergeBlk := l.builder.Block(mergeLabel)

	l.builder.SetBlock(preBlk)
	l.builder.CondBr(lhsVal, mergeRef, rhsRef)
	if rhsEnd.Term == nil {
		l.builder.SetBlock(rhsEnd)
		l.builder.Br(mergeRef)
	}
	l.builder.SetBlock(mergeBlk)
	return l.builder.Load(resultSlot), types.BoolType, nil
}

func (l *Lowerer) emitIndexFetch(e *ast.IndexFetch) (ir.Value, types.Type, error) {
	arrVal, arrType, err := l.emitExpr(e.Array)
	if err != nil {
		return nil, types.Type{}, err
	}
	idxVal, _, err := l.emitExpr(e.Index)
	if err != nil {
		return nil, types.Type{}, err
	}
	elemType := arrType.Elem()
	addr := l.builder.ElemAddr(arrVal, idxVal, irType(elemType))
	return l.builder.Load(addr), elemType, nil
}

func (l *Lowerer) emitNew(e *ast.New) (ir.Value, types.Type, error) {
	layout := l.layouts[e.ClassName]
	vtableSym := ""
	if layout.HasVTableSlot {
		vtableSym = l.vtables[e.ClassName].symbol
	}
	objVal := l.builder.NewObject(e.ClassName, layout.Struct, vtableSym)

	ctor := l.classMethods[e.ClassName][ast.ConstructorName]
	args, err := l.emitArgs(e.Args, ctor.ParamTypes)
	if err != nil {
		return nil, types.Type{}, err
	}
	mangled := l.mangler.Method(l.mangler.Class(e.ClassName), ast.ConstructorName)
	fullArgs := append([]ir.Value{objVal}, args...)
	l.builder.Call(mangled, fullArgs, true)

	return objVal, types.NewClass(e.ClassName), nil
}
