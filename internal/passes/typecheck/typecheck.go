// Package typecheck implements the type inferrer/checker pass (§4.5): the
// last and largest semantic pass, run after virtual-method discovery. It
// declares every function/class/interface signature up front (so forward
// references between classes type-check), then walks every function and
// method body assigning a Type to each expression and validating every
// rule in §4.5.
package typecheck

import (
	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/ctruntime"
	"github.com/cwbudde/go-dws/internal/errors"
	"github.com/cwbudde/go-dws/internal/types"
)

// methodEntry is a class-owned method's signature plus the staticness bit
// call sites must match against (mirrors MethodType in the original
// implementation's type inferrer).
type methodEntry struct {
	Sig types.Signature
}

// propEntry is a class-owned property's type plus the staticness bit call
// sites must match against.
type propEntry struct {
	Type     types.Type
	IsStatic bool
}

// scope is one lexical variable scope; scopes nest as a slice-backed stack
// on Checker, innermost last.
type scope map[string]types.Type

// Checker carries everything the pass needs: the scope stack, the three
// signature tables (functions, per-class properties, per-class methods),
// and the "where am I" bits that change the meaning of a bare identifier
// or a bare call (§4.5 "current-class, current-this-availability, current
// expected return type").
type Checker struct {
	rt *ctruntime.Runtime

	classesByName    map[string]*ast.ClassDecl
	interfacesByName map[string]*ast.InterfaceDecl

	fnSigs      map[string]types.Signature
	classProps  map[string]map[string]propEntry
	classMethods map[string]map[string]methodEntry

	scopes []scope

	currentClass  string // "" outside any class
	thisAvailable bool   // true while checking a non-static method body
	expectedReturn types.Type
}

// Check runs the full pass over prog: decl phase (functions, classes,
// interfaces, globals) followed by body checking of every function,
// method, and global initializer. It returns the first error raised.
func Check(prog *ast.Program, rt *ctruntime.Runtime) error {
	c := &Checker{
		rt:               rt,
		classesByName:    make(map[string]*ast.ClassDecl, len(prog.Classes)),
		interfacesByName: make(map[string]*ast.InterfaceDecl, len(prog.Interfaces)),
		fnSigs:           make(map[string]types.Signature, len(prog.Functions)),
		classProps:       make(map[string]map[string]propEntry, len(prog.Classes)),
		classMethods:     make(map[string]map[string]methodEntry, len(prog.Classes)),
	}
	c.seedBuiltins()

	for _, class := range prog.Classes {
		c.classesByName[class.Name] = class
	}
	for _, iface := range prog.Interfaces {
		c.interfacesByName[iface.Name] = iface
	}

	if err := c.declClasses(prog); err != nil {
		return err
	}
	if err := c.declMethods(prog); err != nil {
		return err
	}
	if err := c.declFuncs(prog); err != nil {
		return err
	}

	c.pushScope()
	for _, g := range prog.Globals {
		if err := c.checkVarDecl(g); err != nil {
			return err
		}
	}
	c.popScope()

	for _, fn := range prog.Functions {
		if fn.Body == nil {
			continue
		}
		if err := c.checkFunctionBody(fn, types.VoidType, false); err != nil {
			return err
		}
	}

	for _, class := range prog.Classes {
		c.currentClass = class.Name
		for _, def := range class.MethodDefs {
			c.thisAvailable = !def.IsStatic
			retType := def.Fn.ReturnType
			if err := c.checkFunctionBody(def.Fn, retType, def.IsStatic); err != nil {
				return err
			}
		}
		c.currentClass = ""
		c.thisAvailable = false
	}

	return nil
}

// seedBuiltins registers the built-in String/Array/Range method tables
// (§4.5 "Seeds with built-in String, Array, Range method signatures").
// Array's element-dependent methods (length/isEmpty) don't actually
// depend on the element type, so one generic entry per name suffices;
// per-element-type specialization is the lowerer's concern, not the
// checker's.
func (c *Checker) seedBuiltins() {
	str := func(args []types.Type, ret types.Type) methodEntry {
		return methodEntry{Sig: types.Signature{Access: types.Public, ParamTypes: args, ReturnType: ret}}
	}

	c.classMethods[types.StringClassName] = map[string]methodEntry{
		"concat":     str([]types.Type{types.StringType}, types.StringType),
		"length":     str(nil, types.IntType),
		"isEmpty":    str(nil, types.BoolType),
		"trim":       str(nil, types.StringType),
		"toLower":    str(nil, types.StringType),
		"toUpper":    str(nil, types.StringType),
		"index":      str([]types.Type{types.StringType}, types.IntType),
		"contains":   str([]types.Type{types.StringType}, types.BoolType),
		"startsWith": str([]types.Type{types.StringType}, types.BoolType),
		"endsWith":   str([]types.Type{types.StringType}, types.BoolType),
		"substring":  str([]types.Type{types.IntType, types.IntType}, types.StringType),
	}
	c.classMethods[types.ArrayClassName] = map[string]methodEntry{
		"length":  str(nil, types.IntType),
		"isEmpty": str(nil, types.BoolType),
	}
	c.classMethods[types.RangeClassName] = map[string]methodEntry{
		"length": str(nil, types.IntType),
	}

	// die is a callable runtime primitive (§9.1 supplement, grounded on
	// original_source's die()), not a statement-level construct like
	// println — it is seeded here exactly like a global function so an
	// ordinary inferCall resolves it.
	c.fnSigs["die"] = types.Signature{Access: types.Public, ReturnType: types.VoidType, ParamTypes: []types.Type{types.StringType}}
}

func (c *Checker) pushScope() { c.scopes = append(c.scopes, scope{}) }
func (c *Checker) popScope()  { c.scopes = c.scopes[:len(c.scopes)-1] }
func (c *Checker) top() scope { return c.scopes[len(c.scopes)-1] }

// --- decl phase --------------------------------------------------------

func (c *Checker) declClasses(prog *ast.Program) error {
	for _, class := range prog.Classes {
		props := make(map[string]propEntry)
		if class.HasParent() {
			parentProps, ok := c.classProps[class.Parent]
			if !ok {
				return errors.NewTypeError(class.Pos(), "class %s not found", class.Parent)
			}
			for name, p := range parentProps {
				props[name] = p
			}
		}
		for _, prop := range class.Properties {
			if err := c.checkLvalueType(prop.Pos(), prop.Type); err != nil {
				return err
			}
			props[prop.Name] = propEntry{Type: prop.Type, IsStatic: prop.IsStatic}
		}
		c.classProps[class.Name] = props
	}
	return nil
}

func (c *Checker) declMethods(prog *ast.Program) error {
	for _, class := range prog.Classes {
		methods := make(map[string]methodEntry)
		if class.HasParent() {
			parentMethods, ok := c.classMethods[class.Parent]
			if !ok {
				return errors.NewTypeError(class.Pos(), "class %s not found", class.Parent)
			}
			for name, m := range parentMethods {
				methods[name] = m
			}
		}

		for _, decl := range class.MethodDecls {
			sig, err := c.declSignature(decl.Fn, decl.Access, decl.IsStatic, class.Name)
			if err != nil {
				return err
			}
			methods[decl.Fn.Name] = methodEntry{Sig: sig}
		}
		for _, def := range class.MethodDefs {
			sig, err := c.declSignature(def.Fn, def.Access, def.IsStatic, class.Name)
			if err != nil {
				return err
			}
			if def.Fn.Name == ast.ConstructorName {
				if def.Access != types.Public || def.IsStatic || def.Fn.ReturnType.Kind() != types.Void {
					return errors.NewTypeError(def.Pos(), "method %s::construct must be public, non-static and return void", class.Name)
				}
			}
			methods[def.Fn.Name] = methodEntry{Sig: sig}
		}

		if _, exists := methods[ast.ConstructorName]; !exists {
			methods[ast.ConstructorName] = methodEntry{Sig: types.Signature{Access: types.Public, ReturnType: types.VoidType}}
		}

		c.classMethods[class.Name] = methods
	}
	return nil
}

// declSignature validates a method's argument/return types (resolving a
// `self` return type to class<className>) and builds its Signature.
func (c *Checker) declSignature(fn *ast.FunctionDecl, access types.AccessModifier, isStatic bool, className string) (types.Signature, error) {
	params := make([]types.Type, len(fn.Args))
	for i, arg := range fn.Args {
		if err := c.checkArgType(arg.Type); err != nil {
			return types.Signature{}, errors.NewTypeError(arg.Position, "%s", err.Error())
		}
		params[i] = arg.Type
	}
	if fn.ReturnType.Kind() == types.Self {
		fn.ReturnType = types.NewClass(className)
	}
	if err := c.checkValidType(fn.ReturnType); err != nil {
		return types.Signature{}, errors.NewTypeError(fn.Pos(), "%s", err.Error())
	}
	return types.Signature{Access: access, IsStatic: isStatic, ReturnType: fn.ReturnType, ParamTypes: params}, nil
}

func (c *Checker) declFuncs(prog *ast.Program) error {
	for _, fn := range prog.Functions {
		params := make([]types.Type, len(fn.Args))
		for i, arg := range fn.Args {
			if err := c.checkArgType(arg.Type); err != nil {
				return errors.NewTypeError(arg.Position, "%s", err.Error())
			}
			params[i] = arg.Type
		}
		if err := c.checkValidType(fn.ReturnType); err != nil {
			return errors.NewTypeError(fn.Pos(), "%s", err.Error())
		}
		c.fnSigs[fn.Name] = types.Signature{Access: types.Public, ReturnType: fn.ReturnType, ParamTypes: params}
	}
	return nil
}

// --- type validity -------------------------------------------------------

// checkValidType rejects array<void>, auto, and self appearing anywhere a
// resolved type is required (§4.5's implicit "every declared type must be
// concrete").
func (c *Checker) checkValidType(t types.Type) error {
	if t.Kind() == types.Array && t.Elem().Kind() == types.Void {
		return errors.New(errors.TypeErrorKind, ast.Position{}, "array element type must not be void")
	}
	if t.Kind() == types.Array && t.Elem().Kind() == types.Array {
		return errors.New(errors.TypeErrorKind, ast.Position{}, "multi-dimensional arrays are not supported")
	}
	if t.Kind() == types.Auto || t.Kind() == types.Self {
		return errors.New(errors.TypeErrorKind, ast.Position{}, "type must be resolved")
	}
	return nil
}

func (c *Checker) checkLvalueType(pos ast.Position, t types.Type) error {
	if t.Kind() == types.Void {
		return errors.NewTypeError(pos, "variable type must not be void")
	}
	if t.Kind() == types.Class {
		_, isClass := c.classesByName[t.ClassName()]
		_, isIface := c.interfacesByName[t.ClassName()]
		if !isClass && !isIface {
			return errors.NewTypeError(pos, "class %s not found", t.ClassName())
		}
	}
	if err := c.checkValidType(t); err != nil {
		return errors.NewTypeError(pos, "%s", err.Error())
	}
	return nil
}

func (c *Checker) checkArgType(t types.Type) error {
	if t.Kind() == types.Void {
		return errors.New(errors.TypeErrorKind, ast.Position{}, "argument type must not be void")
	}
	return c.checkValidType(t)
}

// --- assignability -------------------------------------------------------

// canCastTo implements the assignable-to/castable-to relation (§4.5):
// identity; int→float; class C → class D iff D is an ancestor of C or an
// interface in C's implemented-interfaces closure.
func (c *Checker) canCastTo(from, to types.Type) bool {
	if from.Equals(to) {
		return true
	}
	if from.Kind() == types.Int && to.Kind() == types.Float {
		return true
	}
	if from.Kind() == types.Class && to.Kind() == types.Class {
		return c.isAncestorOf(to.ClassName(), from.ClassName()) || c.rt.Implements(from.ClassName(), to.ClassName())
	}
	return false
}

// isAncestorOf reports whether ancestor is base or a transitive parent of
// class. Walked directly off classesByName's parent pointers rather than
// ctruntime.ExtendedClasses, which records the opposite direction
// (base → subclasses, for the lowerer's access checks).
func (c *Checker) isAncestorOf(ancestor, class string) bool {
	for cur := class; cur != ""; {
		if cur == ancestor {
			return true
		}
		decl, ok := c.classesByName[cur]
		if !ok {
			return false
		}
		cur = decl.Parent
	}
	return false
}

func isVoidOrClass(t types.Type) bool { return t.Kind() == types.Void || t.Kind() == types.Class }

// --- body checking ---------------------------------------------------

func (c *Checker) checkFunctionBody(fn *ast.FunctionDecl, retType types.Type, isStatic bool) error {
	c.pushScope()
	for _, arg := range fn.Args {
		c.top()[arg.Name] = arg.Type
	}
	prevRet := c.expectedReturn
	c.expectedReturn = retType
	err := c.checkStatementList(fn.Body)
	c.expectedReturn = prevRet
	c.popScope()
	return err
}

func (c *Checker) checkStatementList(list *ast.StatementList) error {
	for _, stmt := range list.Statements {
		if err := c.checkStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.StatementList:
		return c.checkStatementList(s)
	case *ast.VarDeclStatement:
		return c.checkVarDecl(s)
	case *ast.Assignment:
		exprType, err := c.inferExpr(s.Value)
		if err != nil {
			return err
		}
		varType, err := c.varType(s.Pos(), s.Name)
		if err != nil {
			return err
		}
		if !c.canCastTo(exprType, varType) {
			return errors.NewTypeError(s.Pos(), "cannot assign %s to %s", exprType, varType)
		}
		return nil
	case *ast.PropAssignment:
		return c.checkPropAssignment(s)
	case *ast.StaticPropAssignment:
		return c.checkStaticPropAssignment(s)
	case *ast.IndexAssignment:
		return c.checkIndexAssignment(s)
	case *ast.ArrayAppend:
		return c.checkArrayAppend(s)
	case *ast.ExpressionStatement:
		_, err := c.inferExpr(s.Expr)
		return err
	case *ast.If:
		condType, err := c.inferExpr(s.Cond)
		if err != nil {
			return err
		}
		if isVoidOrClass(condType) {
			return errors.NewTypeError(s.Pos(), "if condition must not be void or class")
		}
		if err := c.checkStatementList(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return c.checkStatementList(s.Else)
		}
		return nil
	case *ast.While:
		condType, err := c.inferExpr(s.Cond)
		if err != nil {
			return err
		}
		if isVoidOrClass(condType) {
			return errors.NewTypeError(s.Pos(), "while condition must not be void or class")
		}
		return c.checkStatementList(s.Body)
	case *ast.ForIn:
		return c.checkForIn(s)
	case *ast.Break, *ast.Continue, *ast.Comment:
		return nil
	case *ast.Return:
		return c.checkReturn(s)
	case *ast.Println:
		t, err := c.inferExpr(s.Value)
		if err != nil {
			return err
		}
		if t.Kind() == types.Void || t.Kind() == types.Class || t.Kind() == types.Array {
			return errors.NewTypeError(s.Pos(), "cannot print value of type %s", t)
		}
		return nil
	default:
		return errors.NewTypeError(stmt.Pos(), "unsupported statement in type checker")
	}
}

func (c *Checker) checkVarDecl(s *ast.VarDeclStatement) error {
	if s.DeclaredType.Kind() == types.Auto {
		if s.Init == nil {
			return errors.NewTypeError(s.Pos(), "auto declaration %s requires an initializer", s.Name)
		}
		exprType, err := c.inferExpr(s.Init)
		if err != nil {
			return err
		}
		if err := c.checkLvalueType(s.Pos(), exprType); err != nil {
			return err
		}
		s.DeclaredType = exprType
		c.top()[s.Name] = exprType
		return nil
	}

	if err := c.checkLvalueType(s.Pos(), s.DeclaredType); err != nil {
		return err
	}
	if s.Init != nil {
		exprType, err := c.inferExpr(s.Init)
		if err != nil {
			return err
		}
		if !c.canCastTo(exprType, s.DeclaredType) {
			return errors.NewTypeError(s.Pos(), "cannot assign %s to %s %s", exprType, s.DeclaredType, s.Name)
		}
	}
	c.top()[s.Name] = s.DeclaredType
	return nil
}

func (c *Checker) checkPropAssignment(s *ast.PropAssignment) error {
	objType, err := c.inferExpr(s.Object)
	if err != nil {
		return err
	}
	if objType.Kind() != types.Class {
		return errors.NewTypeError(s.Pos(), "cannot access property %s of non-class type %s", s.Name, objType)
	}
	propType, err := c.instancePropType(s.Pos(), objType.ClassName(), s.Name)
	if err != nil {
		return err
	}
	exprType, err := c.inferExpr(s.Value)
	if err != nil {
		return err
	}
	if !c.canCastTo(exprType, propType) {
		return errors.NewTypeError(s.Pos(), "cannot assign %s to %s.%s", exprType, objType.ClassName(), s.Name)
	}
	return nil
}

func (c *Checker) checkStaticPropAssignment(s *ast.StaticPropAssignment) error {
	className := c.resolveSelfClassName(s.ClassName)
	propType, err := c.staticPropType(s.Pos(), className, s.Name)
	if err != nil {
		return err
	}
	exprType, err := c.inferExpr(s.Value)
	if err != nil {
		return err
	}
	if !c.canCastTo(exprType, propType) {
		return errors.NewTypeError(s.Pos(), "cannot assign %s to %s::%s", exprType, className, s.Name)
	}
	return nil
}

func (c *Checker) checkIndexAssignment(s *ast.IndexAssignment) error {
	arrType, err := c.inferExpr(s.Array)
	if err != nil {
		return err
	}
	if arrType.Kind() != types.Array {
		return errors.NewTypeError(s.Pos(), "cannot index non-array type %s", arrType)
	}
	idxType, err := c.inferExpr(s.Index)
	if err != nil {
		return err
	}
	if idxType.Kind() != types.Int {
		return errors.NewTypeError(s.Pos(), "array index must be int")
	}
	exprType, err := c.inferExpr(s.Value)
	if err != nil {
		return err
	}
	if !c.canCastTo(exprType, arrType.Elem()) {
		return errors.NewTypeError(s.Pos(), "cannot assign %s to element of %s", exprType, arrType)
	}
	return nil
}

func (c *Checker) checkArrayAppend(s *ast.ArrayAppend) error {
	arrType, err := c.inferExpr(s.Array)
	if err != nil {
		return err
	}
	if arrType.Kind() != types.Array {
		return errors.NewTypeError(s.Pos(), "cannot append to non-array type %s", arrType)
	}
	exprType, err := c.inferExpr(s.Value)
	if err != nil {
		return err
	}
	if !c.canCastTo(exprType, arrType.Elem()) {
		return errors.NewTypeError(s.Pos(), "cannot append %s to %s", exprType, arrType)
	}
	return nil
}

func (c *Checker) checkForIn(s *ast.ForIn) error {
	iterType, err := c.inferExpr(s.Iterable)
	if err != nil {
		return err
	}
	isRange := iterType.Kind() == types.Class && iterType.ClassName() == types.RangeClassName
	if iterType.Kind() != types.Array && !isRange {
		return errors.NewTypeError(s.Pos(), "for expression must be array or range")
	}

	c.pushScope()
	if s.IndexVar != "" {
		c.top()[s.IndexVar] = types.IntType
	}
	elemType := types.IntType
	if iterType.Kind() == types.Array {
		elemType = iterType.Elem()
	}
	s.ElemType = elemType
	c.top()[s.ValueVar] = elemType

	err = c.checkStatementList(s.Body)
	c.popScope()
	return err
}

func (c *Checker) checkReturn(s *ast.Return) error {
	if s.Value == nil {
		if c.expectedReturn.Kind() != types.Void {
			return errors.NewTypeError(s.Pos(), "function must return a value of type %s", c.expectedReturn)
		}
		return nil
	}
	retType, err := c.inferExpr(s.Value)
	if err != nil {
		return err
	}
	if retType.Kind() == types.Void {
		return errors.NewTypeError(s.Pos(), "cannot return a void value")
	}
	if !c.canCastTo(retType, c.expectedReturn) {
		return errors.NewTypeError(s.Pos(), "cannot return %s, function returns %s", retType, c.expectedReturn)
	}
	return nil
}

// --- expressions -------------------------------------------------------

func (c *Checker) inferExpr(expr ast.Expression) (types.Type, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return types.IntType, nil
	case *ast.FloatLiteral:
		return types.FloatType, nil
	case *ast.BoolLiteral:
		return types.BoolType, nil
	case *ast.StringLiteral:
		return types.StringType, nil
	case *ast.ArrayLiteral:
		return c.inferArrayLiteral(e)
	case *ast.RangeLiteral:
		return c.inferRangeLiteral(e)
	case *ast.Identifier:
		t, err := c.varType(e.Pos(), e.Name)
		if err != nil {
			return types.Type{}, err
		}
		e.ResolvedType = t
		return t, nil
	case *ast.UnaryOp:
		return c.inferUnary(e)
	case *ast.BinaryOp:
		return c.inferBinary(e)
	case *ast.FetchProp:
		return c.inferFetchProp(e)
	case *ast.FetchStaticProp:
		className := c.resolveSelfClassName(e.ClassName)
		return c.staticPropType(e.Pos(), className, e.Name)
	case *ast.MethodCall:
		return c.inferMethodCall(e)
	case *ast.StaticMethodCall:
		return c.inferStaticMethodCall(e)
	case *ast.Call:
		return c.inferCall(e)
	case *ast.IndexFetch:
		return c.inferIndexFetch(e)
	case *ast.New:
		return c.inferNew(e)
	default:
		return types.Type{}, errors.NewTypeError(expr.Pos(), "unsupported expression in type checker")
	}
}

func (c *Checker) inferArrayLiteral(e *ast.ArrayLiteral) (types.Type, error) {
	if len(e.Elements) == 0 {
		return types.Type{}, errors.NewTypeError(e.Pos(), "empty array literal element type cannot be determined")
	}
	first, err := c.inferExpr(e.Elements[0])
	if err != nil {
		return types.Type{}, err
	}
	for _, el := range e.Elements[1:] {
		t, err := c.inferExpr(el)
		if err != nil {
			return types.Type{}, err
		}
		if !t.Equals(first) {
			return types.Type{}, errors.NewTypeError(el.Pos(), "all array elements must be the same type")
		}
	}
	e.ElemType = first
	return types.NewArray(first), nil
}

func (c *Checker) inferRangeLiteral(e *ast.RangeLiteral) (types.Type, error) {
	check := func(expr ast.Expression, label string) error {
		if expr == nil {
			return nil
		}
		t, err := c.inferExpr(expr)
		if err != nil {
			return err
		}
		if t.Kind() != types.Int {
			return errors.NewTypeError(expr.Pos(), "range %s argument must be int", label)
		}
		return nil
	}
	if err := check(e.Start, "start"); err != nil {
		return types.Type{}, err
	}
	if err := check(e.Stop, "stop"); err != nil {
		return types.Type{}, err
	}
	if err := check(e.Step, "step"); err != nil {
		return types.Type{}, err
	}
	return types.NewClass(types.RangeClassName), nil
}

func (c *Checker) inferUnary(e *ast.UnaryOp) (types.Type, error) {
	operandType, err := c.inferExpr(e.Operand)
	if err != nil {
		return types.Type{}, err
	}
	switch e.Op {
	case "++", "--":
		if !operandType.IsNumeric() {
			return types.Type{}, errors.NewTypeError(e.Pos(), "%s operand must be int or float", e.Op)
		}
		return operandType, nil
	case "!":
		if isVoidOrClass(operandType) {
			return types.Type{}, errors.NewTypeError(e.Pos(), "! operand must not be void or class")
		}
		return types.BoolType, nil
	default:
		return types.Type{}, errors.NewTypeError(e.Pos(), "invalid unary operator %s", e.Op)
	}
}

func (c *Checker) inferBinary(e *ast.BinaryOp) (types.Type, error) {
	lhs, err := c.inferExpr(e.Left)
	if err != nil {
		return types.Type{}, err
	}
	rhs, err := c.inferExpr(e.Right)
	if err != nil {
		return types.Type{}, err
	}

	result, err := c.binaryResultType(e.Pos(), e.Op, lhs, rhs)
	if err != nil {
		return types.Type{}, err
	}
	e.ResolvedType = result
	return result, nil
}

func (c *Checker) binaryResultType(pos ast.Position, op string, lhs, rhs types.Type) (types.Type, error) {
	switch op {
	case "&&", "||":
		if isVoidOrClass(lhs) || isVoidOrClass(rhs) {
			return types.Type{}, errors.NewTypeError(pos, "%s operands must not be void or class", op)
		}
		return types.BoolType, nil
	case "==", "!=":
		if isVoidOrClass(lhs) || isVoidOrClass(rhs) {
			return types.Type{}, errors.NewTypeError(pos, "%s operands must not be void or class", op)
		}
		if !lhs.Equals(rhs) {
			return types.Type{}, errors.NewTypeError(pos, "incompatible types %s and %s", lhs, rhs)
		}
		return types.BoolType, nil
	case "+":
		if lhs.Kind() == types.String && rhs.Kind() == types.String {
			return types.StringType, nil
		}
		return numericPromote(pos, lhs, rhs)
	case "-", "*", "%":
		return numericPromote(pos, lhs, rhs)
	case "/", "**":
		if !lhs.IsNumeric() || !rhs.IsNumeric() {
			return types.Type{}, errors.NewTypeError(pos, "%s operands must be numeric", op)
		}
		return types.FloatType, nil
	case "<", "<=", ">", ">=":
		if !lhs.IsNumeric() || !rhs.IsNumeric() {
			return types.Type{}, errors.NewTypeError(pos, "%s operands must be numeric", op)
		}
		return types.BoolType, nil
	default:
		return types.Type{}, errors.NewTypeError(pos, "invalid binary operator %s", op)
	}
}

func numericPromote(pos ast.Position, lhs, rhs types.Type) (types.Type, error) {
	if !lhs.IsNumeric() || !rhs.IsNumeric() {
		return types.Type{}, errors.NewTypeError(pos, "operands must be numeric")
	}
	if lhs.Kind() == types.Float || rhs.Kind() == types.Float {
		return types.FloatType, nil
	}
	return types.IntType, nil
}

func (c *Checker) inferFetchProp(e *ast.FetchProp) (types.Type, error) {
	objType, err := c.inferExpr(e.Object)
	if err != nil {
		return types.Type{}, err
	}
	if objType.Kind() != types.Class {
		return types.Type{}, errors.NewTypeError(e.Pos(), "cannot access property %s of non-class type %s", e.Name, objType)
	}
	return c.instancePropType(e.Pos(), objType.ClassName(), e.Name)
}

func (c *Checker) inferMethodCall(e *ast.MethodCall) (types.Type, error) {
	objType, err := c.inferExpr(e.Object)
	if err != nil {
		return types.Type{}, err
	}
	className, err := c.receiverClassName(e.Pos(), objType)
	if err != nil {
		return types.Type{}, err
	}
	entry, err := c.lookupMethod(e.Pos(), className, e.Name, false)
	if err != nil {
		return types.Type{}, err
	}
	if err := c.checkCallArgs(e.Pos(), entry.Sig.ParamTypes, e.Args); err != nil {
		return types.Type{}, err
	}
	return entry.Sig.ReturnType, nil
}

func (c *Checker) inferStaticMethodCall(e *ast.StaticMethodCall) (types.Type, error) {
	className := c.resolveSelfClassName(e.ClassName)
	entry, err := c.lookupMethod(e.Pos(), className, e.Name, true)
	if err != nil {
		return types.Type{}, err
	}
	if err := c.checkCallArgs(e.Pos(), entry.Sig.ParamTypes, e.Args); err != nil {
		return types.Type{}, err
	}
	return entry.Sig.ReturnType, nil
}

// inferCall resolves a bare `fn(args)` call: a global function first, then
// (inside a class) the enclosing class's own instance/static method —
// mirroring getFnType's fallback in the original implementation.
func (c *Checker) inferCall(e *ast.Call) (types.Type, error) {
	if sig, ok := c.fnSigs[e.Name]; ok {
		if err := c.checkCallArgs(e.Pos(), sig.ParamTypes, e.Args); err != nil {
			return types.Type{}, err
		}
		return sig.ReturnType, nil
	}
	if c.currentClass != "" {
		if entry, ok := c.classMethods[c.currentClass][e.Name]; ok && (c.thisAvailable || entry.Sig.IsStatic) {
			if err := c.checkCallArgs(e.Pos(), entry.Sig.ParamTypes, e.Args); err != nil {
				return types.Type{}, err
			}
			return entry.Sig.ReturnType, nil
		}
	}
	return types.Type{}, errors.NewTypeError(e.Pos(), "function %s not found", e.Name)
}

func (c *Checker) inferIndexFetch(e *ast.IndexFetch) (types.Type, error) {
	arrType, err := c.inferExpr(e.Array)
	if err != nil {
		return types.Type{}, err
	}
	if arrType.Kind() != types.Array {
		return types.Type{}, errors.NewTypeError(e.Pos(), "cannot index non-array type %s", arrType)
	}
	idxType, err := c.inferExpr(e.Index)
	if err != nil {
		return types.Type{}, err
	}
	if idxType.Kind() != types.Int {
		return types.Type{}, errors.NewTypeError(e.Pos(), "array index must be int")
	}
	return arrType.Elem(), nil
}

func (c *Checker) inferNew(e *ast.New) (types.Type, error) {
	if _, ok := c.classesByName[e.ClassName]; !ok {
		return types.Type{}, errors.NewTypeError(e.Pos(), "class %s not found", e.ClassName)
	}
	entry, err := c.lookupMethod(e.Pos(), e.ClassName, ast.ConstructorName, false)
	if err != nil {
		return types.Type{}, err
	}
	if err := c.checkCallArgs(e.Pos(), entry.Sig.ParamTypes, e.Args); err != nil {
		return types.Type{}, err
	}
	return types.NewClass(e.ClassName), nil
}

// --- lookup helpers ------------------------------------------------------

// varType resolves a bare identifier: innermost-to-outermost local scope,
// then (inside a class body) an instance property (if `this` is
// available) or static property.
func (c *Checker) varType(pos ast.Position, name string) (types.Type, error) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][name]; ok {
			return t, nil
		}
	}
	if c.currentClass != "" {
		if prop, ok := c.classProps[c.currentClass][name]; ok && (c.thisAvailable || prop.IsStatic) {
			return prop.Type, nil
		}
	}
	return types.Type{}, errors.NewTypeError(pos, "variable %s not found", name)
}

// resolveSelfClassName rewrites the literal "self" class qualifier (used
// in `self::m(...)` / `self::p` inside a class body) to the enclosing
// class's name.
func (c *Checker) resolveSelfClassName(className string) string {
	if className == "self" && c.currentClass != "" {
		return c.currentClass
	}
	return className
}

func (c *Checker) instancePropType(pos ast.Position, className, propName string) (types.Type, error) {
	props, ok := c.classProps[className]
	if !ok {
		return types.Type{}, errors.NewTypeError(pos, "class %s not found", className)
	}
	prop, ok := props[propName]
	if !ok {
		return types.Type{}, errors.NewTypeError(pos, "property %s::%s not found", className, propName)
	}
	if prop.IsStatic {
		return types.Type{}, errors.NewTypeError(pos, "cannot access static property %s::%s through an instance", className, propName)
	}
	return prop.Type, nil
}

func (c *Checker) staticPropType(pos ast.Position, className, propName string) (types.Type, error) {
	props, ok := c.classProps[className]
	if !ok {
		return types.Type{}, errors.NewTypeError(pos, "class %s not found", className)
	}
	prop, ok := props[propName]
	if !ok {
		return types.Type{}, errors.NewTypeError(pos, "property %s::%s not found", className, propName)
	}
	if !prop.IsStatic {
		return types.Type{}, errors.NewTypeError(pos, "cannot access instance property %s::%s statically", className, propName)
	}
	return prop.Type, nil
}

func (c *Checker) lookupMethod(pos ast.Position, className, methodName string, wantStatic bool) (methodEntry, error) {
	methods, ok := c.classMethods[className]
	if !ok {
		return methodEntry{}, errors.NewTypeError(pos, "class %s not found", className)
	}
	entry, ok := methods[methodName]
	if !ok {
		return methodEntry{}, errors.NewTypeError(pos, "method %s::%s not found", className, methodName)
	}
	if entry.Sig.IsStatic != wantStatic {
		return methodEntry{}, errors.NewTypeError(pos, "wrong method call %s::%s", className, methodName)
	}
	return entry, nil
}

func (c *Checker) receiverClassName(pos ast.Position, t types.Type) (string, error) {
	switch t.Kind() {
	case types.Class:
		return t.ClassName(), nil
	case types.String:
		return types.StringClassName, nil
	case types.Array:
		return types.ArrayClassName, nil
	default:
		return "", errors.NewTypeError(pos, "cannot call a method on type %s", t)
	}
}

func (c *Checker) checkCallArgs(pos ast.Position, params []types.Type, args []ast.Expression) error {
	if len(params) != len(args) {
		return errors.NewTypeError(pos, "call argument count mismatch: want %d, got %d", len(params), len(args))
	}
	for i, p := range params {
		argType, err := c.inferExpr(args[i])
		if err != nil {
			return err
		}
		if !c.canCastTo(argType, p) {
			return errors.NewTypeError(args[i].Pos(), "cannot pass %s as argument %d of type %s", argType, i+1, p)
		}
	}
	return nil
}
