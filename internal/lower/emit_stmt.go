package lower

import (
	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/types"
)

// emitFunctionBody lowers a global function's or an ordinary (non-
// constructor) method's body: param allocas (with the implicit "this"
// receiver at slot 0 for an instance method), then the statement list,
// then an implicit `return;`/Unreachable if the body falls off the end.
func (l *Lowerer) emitFunctionBody(fn *ir.Function, args []*ast.Argument, body *ast.StatementList, class *ast.ClassDecl, isStatic bool) error {
	l.builder = ir.NewBuilder(fn)
	l.locals = make(map[string]localVar)
	l.breakBlocks = nil
	l.continueBlocks = nil

	l.pushFrameIfNeeded(needsFrame(class != nil && !isStatic, args, body))

	paramIdx := l.bindThis(class, isStatic)
	l.bindParams(args, paramIdx)

	if body != nil {
		if err := l.emitStatementList(body); err != nil {
			return err
		}
	}
	if !l.builder.Terminated() {
		if fn.RetType == ir.Void {
			l.emitReturn(nil)
		} else {
			l.builder.Unreachable()
		}
	}
	return nil
}

// emitConstructorBody lowers a `construct` method: the implicit parent-
// constructor call (only when the parent's own constructor takes no
// arguments; a parent constructor with parameters is not called), each own
// instance property's initializer in declaration order, then the user's
// body.
func (l *Lowerer) emitConstructorBody(fn *ir.Function, args []*ast.Argument, body *ast.StatementList, class *ast.ClassDecl) error {
	l.builder = ir.NewBuilder(fn)
	l.locals = make(map[string]localVar)
	l.breakBlocks = nil
	l.continueBlocks = nil

	l.pushFrameIfNeeded(true) // `this` is always pointer-typed

	l.bindThis(class, false)
	l.bindParams(args, 1)

	thisVal := l.builder.Load(l.locals["this"].slot)

	if class.HasParent() {
		parentCtor := l.classMethods[class.Parent][ast.ConstructorName]
		if len(parentCtor.ParamTypes) == 0 {
			// thisVal is bit-compatible with a pointer to the parent's
			// struct (its fields are flattened in at the same offsets),
			// so the parent constructor runs directly against it — no
			// separate parent sub-object to address into.
			mangled := l.mangler.Method(l.mangler.Class(class.Parent), ast.ConstructorName)
			l.builder.Call(mangled, []ir.Value{thisVal}, true)
		}
	}

	layout := l.layouts[class.Name]
	for _, prop := range class.Properties {
		if prop.IsStatic || prop.Init == nil {
			continue
		}
		slot := layout.propSlot[prop.Name]
		addr := l.builder.FieldAddr(thisVal, layout.Struct, slot)
		val, valType, err := l.emitExpr(prop.Init)
		if err != nil {
			return err
		}
		l.builder.Store(addr, l.convertAssign(val, valType, prop.Type))
	}

	if body != nil {
		if err := l.emitStatementList(body); err != nil {
			return err
		}
	}
	if !l.builder.Terminated() {
		l.emitReturn(nil)
	}
	return nil
}

// bindThis allocates and binds the implicit receiver for an instance
// method/constructor, returning the index of the first explicit parameter
// (1 if bound, 0 for a static method/global function).
func (l *Lowerer) bindThis(class *ast.ClassDecl, isStatic bool) int {
	if class == nil || isStatic {
		return 0
	}
	slot := l.builder.Alloca(ir.Ptr, "this")
	l.builder.Store(slot, ir.ParamRef(0))
	l.locals["this"] = localVar{slot: slot, typ: types.NewClass(class.Name)}
	l.rootLocal(slot, types.NewClass(class.Name))
	return 1
}

func (l *Lowerer) bindParams(args []*ast.Argument, startIdx int) {
	for i, a := range args {
		slot := l.builder.Alloca(irType(a.Type), a.Name)
		l.builder.Store(slot, ir.ParamRef(startIdx+i))
		l.locals[a.Name] = localVar{slot: slot, typ: a.Type}
		l.rootLocal(slot, a.Type)
	}
}

func (l *Lowerer) emitStatementList(list *ast.StatementList) error {
	for _, s := range list.Statements {
		if l.builder.Terminated() {
			break
		}
		if err := l.emitStatement(s); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) emitStatement(s ast.Statement) error {
	switch st := s.(type) {
	case *ast.Comment:
		return nil

	case *ast.VarDeclStatement:
		return l.emitVarDecl(st)

	case *ast.Assignment:
		addr, typ, err := l.lvalueAddr(&ast.Identifier{Position: st.Position, Name: st.Name})
		if err != nil {
			return err
		}
		val, valType, err := l.emitExpr(st.Value)
		if err != nil {
			return err
		}
		l.builder.Store(addr, l.convertAssign(val, valType, typ))
		return nil

	case *ast.PropAssignment:
		addr, typ, err := l.lvalueAddr(&ast.FetchProp{Position: st.Position, Object: st.Object, Name: st.Name})
		if err != nil {
			return err
		}
		val, valType, err := l.emitExpr(st.Value)
		if err != nil {
			return err
		}
		l.builder.Store(addr, l.convertAssign(val, valType, typ))
		return nil

	case *ast.StaticPropAssignment:
		addr, typ, err := l.lvalueAddr(&ast.FetchStaticProp{Position: st.Position, ClassName: st.ClassName, Name: st.Name})
		if err != nil {
			return err
		}
		val, valType, err := l.emitExpr(st.Value)
		if err != nil {
			return err
		}
		l.builder.Store(addr, l.convertAssign(val, valType, typ))
		return nil

	case *ast.IndexAssignment:
		arrVal, arrType, err := l.emitExpr(st.Array)
		if err != nil {
			return err
		}
		idxVal, _, err := l.emitExpr(st.Index)
		if err != nil {
			return err
		}
		elemType := arrType.Elem()
		addr := l.builder.ElemAddr(arrVal, idxVal, irType(elemType))
		val, valType, err := l.emitExpr(st.Value)
		if err != nil {
			return err
		}
		l.builder.Store(addr, l.convertAssign(val, valType, elemType))
		return nil

	case *ast.ArrayAppend:
		arrVal, _, err := l.emitExpr(st.Array)
		if err != nil {
			return err
		}
		val, _, err := l.emitExpr(st.Value)
		if err != nil {
			return err
		}
		l.builder.ArrayAppend(arrVal, val)
		return nil

	case *ast.ExpressionStatement:
		_, _, err := l.emitExpr(st.Expr)
		return err

	case *ast.If:
		return l.emitIf(st)
	case *ast.While:
		return l.emitWhile(st)
	case *ast.ForIn:
		return l.emitForIn(st)

	case *ast.Break:
		if len(l.breakBlocks) == 0 {
			return internalErr(st.Pos(), "break outside a loop")
		}
		l.builder.Br(l.breakBlocks[len(l.breakBlocks)-1])
		return nil

	case *ast.Continue:
		if len(l.continueBlocks) == 0 {
			return internalErr(st.Pos(), "continue outside a loop")
		}
		l.builder.Br(l.continueBlocks[len(l.continueBlocks)-1])
		return nil

	case *ast.Return:
		if st.Value == nil {
			l.emitReturn(nil)
			return nil
		}
		val, _, err := l.emitExpr(st.Value)
		if err != nil {
			return err
		}
		l.emitReturn(val)
		return nil

	case *ast.Println:
		val, _, err := l.emitExpr(st.Value)
		if err != nil {
			return err
		}
		l.builder.Print(val)
		return nil

	default:
		return internalErr(s.Pos(), "lower: unhandled statement %T", s)
	}
}

func (l *Lowerer) emitVarDecl(s *ast.VarDeclStatement) error {
	slot := l.builder.Alloca(irType(s.DeclaredType), s.Name)
	l.locals[s.Name] = localVar{slot: slot, typ: s.DeclaredType}
	l.rootLocal(slot, s.DeclaredType)
	if s.Init == nil {
		if s.DeclaredType.Kind() == types.Array {
			l.builder.Store(slot, l.builder.NewArray(irType(s.DeclaredType.Elem())))
			return nil
		}
		l.builder.Store(slot, zeroConst(s.DeclaredType))
		return nil
	}
	val, valType, err := l.emitExpr(s.Init)
	if err != nil {
		return err
	}
	l.builder.Store(slot, l.convertAssign(val, valType, s.DeclaredType))
	return nil
}

func (l *Lowerer) emitIf(s *ast.If) error {
	condVal, _, err := l.emitExpr(s.Cond)
	if err != nil {
		return err
	}

	thenLabel := l.nextLabel("if_then")
	mergeLabel := l.nextLabel("if_merge")
	thenRef, mergeRef := labelRef(thenLabel), labelRef(mergeLabel)

	if s.Else == nil {
		l.builder.CondBr(condVal, thenRef, mergeRef)

		l.builder.Block(thenLabel)
		if err := l.emitStatementList(s.Then); err != nil {
			return err
		}
		thenEnd := l.builder.Current()

		mergeBlk := l.builder.Block(mergeLabel)
		if thenEnd.Term == nil {
			l.builder.SetBlock(thenEnd)
			l.builder.Br(mergeRef)
		}
		l.builder.SetBlock(mergeBlk)
		return nil
	}

	elseLabel := l.nextLabel("if_else")
	elseRef := labelRef(elseLabel)
	l.builder.CondBr(condVal, thenRef, elseRef)

	l.builder.Block(thenLabel)
	if err := l.emitStatementList(s.Then); err != nil {
		return err
	}
	thenEnd := l.builder.Current()

	l.builder.Block(elseLabel)
	if err := l.emitStatementList(s.Else); err != nil {
		return err
	}
	elseEnd := l.builder.Current()

	mergeBlk := l.builder.Block(mergeLabel)
	if thenEnd.Term == nil {
		l.builder.SetBlock(thenEnd)
		l.builder.Br(mergeRef)
	}
	if elseEnd.Term == nil {
		l.builder.SetBlock(elseEnd)
		l.builder.Br(mergeRef)
	}
	l.builder.SetBlock(mergeBlk)
	return nil
}

func (l *Lowerer) emitWhile(s *ast.While) error {
	condLabel := l.nextLabel("while_cond")
	bodyLabel := l.nextLabel("while_body")
	mergeLabel := l.nextLabel("while_merge")
	condRef, bodyRef, mergeRef := labelRef(condLabel), labelRef(bodyLabel), labelRef(mergeLabel)

	l.builder.Br(condRef)
	l.builder.Block(condLabel)
	condVal, _, err := l.emitExpr(s.Cond)
	if err != nil {
		return err
	}
	condEnd := l.builder.Current()
	l.builder.SetBlock(condEnd)
	l.builder.CondBr(condVal, bodyRef, mergeRef)

	l.breakBlocks = append(l.breakBlocks, mergeRef)
	l.continueBlocks = append(l.continueBlocks, condRef)

	l.builder.Block(bodyLabel)
	if err := l.emitStatementList(s.Body); err != nil {
		return err
	}
	bodyEnd := l.builder.Current()

	l.breakBlocks = l.breakBlocks[:len(l.breakBlocks)-1]
	l.continueBlocks = l.continueBlocks[:len(l.continueBlocks)-1]

	mergeBlk := l.builder.Block(mergeLabel)
	if bodyEnd.Term == nil {
		l.builder.SetBlock(bodyEnd)
		l.builder.Br(condRef)
	}
	l.builder.SetBlock(mergeBlk)
	return nil
}

// emitForIn lowers both forms: iteration over an array walks indices
// [0, length) via ElemAddr; iteration over a Range walks
// [rangeStart, rangeStop) by rangeStep, delegating the has-more check and
// the direction implied by a (possibly negative) step to the runtime's
// rangeHasNext helper.
func (l *Lowerer) emitForIn(s *ast.ForIn) error {
	iterVal, iterType, err := l.emitExpr(s.Iterable)
	if err != nil {
		return err
	}
	isRange := iterType.Kind() == types.Class && iterType.ClassName() == types.RangeClassName

	condLabel := l.nextLabel("forin_cond")
	bodyLabel := l.nextLabel("forin_body")
	incLabel := l.nextLabel("forin_inc")
	mergeLabel := l.nextLabel("forin_merge")
	condRef, bodyRef, incRef, mergeRef := labelRef(condLabel), labelRef(bodyLabel), labelRef(incLabel), labelRef(mergeLabel)

	idxSlot := l.builder.Alloca(ir.I64, "forin.idx")
	var stopVal, stepVal ir.Value
	if isRange {
		stepVal = l.builder.Call(l.mangler.InternalFunction("rangeStep"), []ir.Value{iterVal}, false)
		stopVal = l.builder.Call(l.mangler.InternalFunction("rangeStop"), []ir.Value{iterVal}, false)
		startVal := l.builder.Call(l.mangler.InternalFunction("rangeStart"), []ir.Value{iterVal}, false)
		l.builder.Store(idxSlot, startVal)
	} else {
		l.builder.Store(idxSlot, ir.ConstInt(0))
	}

	l.builder.Br(condRef)
	l.builder.Block(condLabel)
	idxVal := l.builder.Load(idxSlot)
	var condVal ir.Value
	if isRange {
		condVal = l.builder.Call(l.mangler.InternalFunction("rangeHasNext"), []ir.Value{idxVal, stopVal, stepVal}, false)
	} else {
		lenVal := l.builder.ArrayLen(iterVal)
		condVal = l.builder.ICmp("<", idxVal, lenVal)
	}
	l.builder.CondBr(condVal, bodyRef, mergeRef)

	l.breakBlocks = append(l.breakBlocks, mergeRef)
	l.continueBlocks = append(l.continueBlocks, incRef)

	l.builder.Block(bodyLabel)
	idxForBody := l.builder.Load(idxSlot)
	if s.IndexVar != "" {
		idxLocalSlot := l.builder.Alloca(ir.I64, s.IndexVar)
		l.builder.Store(idxLocalSlot, idxForBody)
		l.locals[s.IndexVar] = localVar{slot: idxLocalSlot, typ: types.IntType}
	}
	if isRange {
		valSlot := l.builder.Alloca(ir.I64, s.ValueVar)
		l.builder.Store(valSlot, idxForBody)
		l.locals[s.ValueVar] = localVar{slot: valSlot, typ: types.IntType}
	} else {
		elemAddr := l.builder.ElemAddr(iterVal, idxForBody, irType(s.ElemType))
		valSlot := l.builder.Alloca(irType(s.ElemType), s.ValueVar)
		l.builder.Store(valSlot, l.builder.Load(elemAddr))
		l.locals[s.ValueVar] = localVar{slot: valSlot, typ: s.ElemType}
		l.rootLocal(valSlot, s.ElemType)
	}
	if err := l.emitStatementList(s.Body); err != nil {
		return err
	}
	bodyEnd := l.builder.Current()

	l.breakBlocks = l.breakBlocks[:len(l.breakBlocks)-1]
	l.continueBlocks = l.continueBlocks[:len(l.continueBlocks)-1]

	if bodyEnd.Term == nil {
		l.builder.SetBlock(bodyEnd)
		l.builder.Br(incRef)
	}

	l.builder.Block(incLabel)
	step := stepVal
	if !isRange {
		step = ir.ConstInt(1)
	}
	newIdx := l.builder.BinOp("+", l.builder.Load(idxSlot), step, ir.I64)
	l.builder.Store(idxSlot, newIdx)
	l.builder.Br(condRef)

	l.builder.Block(mergeLabel)
	return nil
}
