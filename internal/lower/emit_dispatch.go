package lower

import (
	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/types"
)

// receiverClassName maps a value's static type to the class/interface name
// method calls and property fetches dispatch against. Range values carry
// Kind() == Class with ClassName() == types.RangeClassName already (see
// typecheck's inferRangeLiteral), so no separate Range branch is needed
// here.
func (l *Lowerer) receiverClassName(t types.Type) string {
	switch t.Kind() {
	case types.Class:
		return t.ClassName()
	case types.String:
		return types.StringClassName
	case types.Array:
		return types.ArrayClassName
	default:
		return ""
	}
}

// isVirtualMethod reports whether methodName has a vtable slot in
// className's table — true exactly when internal/passes/virtualmethods
// marked it virtual, since only virtual methods ever get a slot assigned
// (buildVTables).
func (l *Lowerer) isVirtualMethod(className, methodName string) (slot int, virtual bool) {
	vt, ok := l.vtables[className]
	if !ok {
		return 0, false
	}
	idx, ok := vt.slotIndex[methodName]
	return idx, ok
}

// resolveSelfClassName resolves the "self" keyword used in a
// ClassName::member reference to the class currently being lowered.
func (l *Lowerer) resolveSelfClassName(name string) string {
	if name == "self" {
		return l.currentClass
	}
	return name
}

// interfaceMethodReturnType searches ifaceName and its transitive parents
// for methodName's declared return type.
func (l *Lowerer) interfaceMethodReturnType(ifaceName, methodName string) (types.Type, bool) {
	iface, ok := l.interfacesByName[ifaceName]
	if !ok {
		return types.Type{}, false
	}
	for _, m := range iface.Methods {
		if m.Fn.Name == methodName {
			return m.Fn.ReturnType, true
		}
	}
	for _, parent := range iface.Parents {
		if t, ok := l.interfaceMethodReturnType(parent, methodName); ok {
			return t, true
		}
	}
	return types.Type{}, false
}

// emitArgs lowers a call's argument expressions, promoting each to the
// matching declared parameter type (int→float, concrete-class→interface).
func (l *Lowerer) emitArgs(args []ast.Expression, paramTypes []types.Type) ([]ir.Value, error) {
	out := make([]ir.Value, len(args))
	for i, a := range args {
		v, t, err := l.emitExpr(a)
		if err != nil {
			return nil, err
		}
		if i < len(paramTypes) {
			v = l.convertAssign(v, t, paramTypes[i])
		}
		out[i] = v
	}
	return out, nil
}

// convertAssign inserts the implicit conversion required when storing a
// value of type from into a slot declared as type to: int→float widening
// (§4.5), and wrapping a concrete class value in an interface trampoline
// when the destination is interface-typed (§4.6 "Interface instantiation",
// allocated lazily at the conversion point).
func (l *Lowerer) convertAssign(v ir.Value, from, to types.Type) ir.Value {
	if from.Kind() == types.Int && to.Kind() == types.Float {
		return l.builder.Convert(v, ir.F64)
	}
	if to.Kind() == types.Class {
		if _, toIsIface := l.interfacesByName[to.ClassName()]; toIsIface {
			if from.Kind() == types.Class {
				if _, fromIsIface := l.interfacesByName[from.ClassName()]; !fromIsIface {
					sym := l.ifaceVTableSymbol[ifaceVTableKey{from.ClassName(), to.ClassName()}]
					return l.builder.NewTrampoline(v, sym, l.mangler.Class(from.ClassName()))
				}
			}
		}
	}
	return v
}

// emitCall lowers a bare `name(args...)` call: a global function, or — with
// no explicit receiver, inside a method body — an instance/static method of
// the enclosing class, mirroring typecheck's own fallback resolution order.
func (l *Lowerer) emitCall(e *ast.Call) (ir.Value, types.Type, error) {
	if e.Name == "die" {
		args, err := l.emitArgs(e.Args, l.fnSigs["die"].ParamTypes)
		if err != nil {
			return nil, types.Type{}, err
		}
		l.builder.Call(l.mangler.InternalFunction("die"), args, true)
		return nil, types.VoidType, nil
	}

	if info, ok := l.fnSigs[e.Name]; ok {
		args, err := l.emitArgs(e.Args, info.ParamTypes)
		if err != nil {
			return nil, types.Type{}, err
		}
		void := info.RetType.Kind() == types.Void
		return l.builder.Call(e.Name, args, void), info.RetType, nil
	}

	if l.currentClass == "" {
		return nil, types.Type{}, internalErr(e.Pos(), "unresolved call %q", e.Name)
	}
	info, ok := l.classMethods[l.currentClass][e.Name]
	if !ok {
		return nil, types.Type{}, internalErr(e.Pos(), "unresolved call %q", e.Name)
	}
	owner := l.findMethodOwner(l.currentClass, e.Name)
	args, err := l.emitArgs(e.Args, info.ParamTypes)
	if err != nil {
		return nil, types.Type{}, err
	}
	void := info.RetType.Kind() == types.Void
	if info.IsStatic {
		mangled := l.mangler.Method(l.mangler.Class(owner), e.Name)
		return l.builder.Call(mangled, args, void), info.RetType, nil
	}

	thisVal := l.builder.Load(l.locals["this"].slot)
	if slot, virtual := l.isVirtualMethod(l.currentClass, e.Name); virtual {
		return l.builder.CallVirtual(thisVal, l.layouts[l.currentClass].Struct, slot, args, void), info.RetType, nil
	}
	mangled := l.mangler.Method(l.mangler.Class(owner), e.Name)
	fullArgs := append([]ir.Value{thisVal}, args...)
	return l.builder.Call(mangled, fullArgs, void), info.RetType, nil
}

// emitMethodCall lowers `obj.name(args...)`: a builtin String/Array/Range
// receiver routes to the runtime's own method table, an interface-typed
// receiver dispatches through its trampoline's slot, and a concrete class
// receiver dispatches virtually when name has a vtable slot and directly
// otherwise.
func (l *Lowerer) emitMethodCall(e *ast.MethodCall) (ir.Value, types.Type, error) {
	objVal, objType, err := l.emitExpr(e.Object)
	if err != nil {
		return nil, types.Type{}, err
	}
	className := l.receiverClassName(objType)

	switch className {
	case types.StringClassName:
		return l.emitBuiltinMethodCall(types.StringClassName, objVal, e.Name, e.Args, e.Pos())
	case types.ArrayClassName:
		return l.emitArrayMethodCall(objVal, e.Name, e.Args, e.Pos())
	case types.RangeClassName:
		return l.emitBuiltinMethodCall(types.RangeClassName, objVal, e.Name, e.Args, e.Pos())
	}

	if _, isIface := l.interfacesByName[className]; isIface {
		retType, ok := l.interfaceMethodReturnType(className, e.Name)
		if !ok {
			return nil, types.Type{}, internalErr(e.Pos(), "unresolved interface method %q on %s", e.Name, className)
		}
		slot := l.ifaceSlotIndex[className][e.Name]
		paramTypes := l.interfaceMethodParamTypes(className, e.Name)
		args, err := l.emitArgs(e.Args, paramTypes)
		if err != nil {
			return nil, types.Type{}, err
		}
		void := retType.Kind() == types.Void
		return l.builder.CallInterface(objVal, slot, args, void), retType, nil
	}

	info, ok := l.classMethods[className][e.Name]
	if !ok {
		return nil, types.Type{}, internalErr(e.Pos(), "unresolved method %q on %s", e.Name, className)
	}
	owner := l.findMethodOwner(className, e.Name)
	if err := l.checkAccess(e.Pos(), info.Access, owner, e.Name); err != nil {
		return nil, types.Type{}, err
	}
	args, err := l.emitArgs(e.Args, info.ParamTypes)
	if err != nil {
		return nil, types.Type{}, err
	}
	void := info.RetType.Kind() == types.Void
	if slot, virtual := l.isVirtualMethod(className, e.Name); virtual {
		return l.builder.CallVirtual(objVal, l.layouts[className].Struct, slot, args, void), info.RetType, nil
	}
	mangled := l.mangler.Method(l.mangler.Class(owner), e.Name)
	fullArgs := append([]ir.Value{objVal}, args...)
	return l.builder.Call(mangled, fullArgs, void), info.RetType, nil
}

func (l *Lowerer) interfaceMethodParamTypes(ifaceName, methodName string) []types.Type {
	iface, ok := l.interfacesByName[ifaceName]
	if !ok {
		return nil
	}
	for _, m := range iface.Methods {
		if m.Fn.Name == methodName {
			params := make([]types.Type, len(m.Fn.Args))
			for i, a := range m.Fn.Args {
				params[i] = a.Type
			}
			return params
		}
	}
	for _, parent := range iface.Parents {
		if params := l.interfaceMethodParamTypes(parent, methodName); params != nil {
			return params
		}
	}
	return nil
}

// emitStaticMethodCall lowers `ClassName::m(args...)` — always a direct,
// non-virtual call to the owning class's mangled symbol. The type checker
// accepts this form only for static methods, so the branch below that
// passes `this` for an instance method is not reached by checked programs.
func (l *Lowerer) emitStaticMethodCall(e *ast.StaticMethodCall) (ir.Value, types.Type, error) {
	className := l.resolveSelfClassName(e.ClassName)
	info, ok := l.classMethods[className][e.Name]
	if !ok {
		return nil, types.Type{}, internalErr(e.Pos(), "unresolved method %q on %s", e.Name, className)
	}
	owner := l.findMethodOwner(className, e.Name)
	if err := l.checkAccess(e.Pos(), info.Access, owner, e.Name); err != nil {
		return nil, types.Type{}, err
	}
	args, err := l.emitArgs(e.Args, info.ParamTypes)
	if err != nil {
		return nil, types.Type{}, err
	}
	void := info.RetType.Kind() == types.Void
	mangled := l.mangler.Method(l.mangler.Class(owner), e.Name)
	if info.IsStatic {
		return l.builder.Call(mangled, args, void), info.RetType, nil
	}
	thisVal := l.builder.Load(l.locals["this"].slot)
	fullArgs := append([]ir.Value{thisVal}, args...)
	return l.builder.Call(mangled, fullArgs, void), info.RetType, nil
}

// emitBuiltinMethodCall routes a String/Range method call to the runtime's
// own mangled entry point — these receivers have no IR struct layout of
// their own, only a runtime-provided implementation (internal/runtime).
func (l *Lowerer) emitBuiltinMethodCall(className string, recv ir.Value, name string, argExprs []ast.Expression, pos ast.Position) (ir.Value, types.Type, error) {
	info, ok := l.classMethods[className][name]
	if !ok {
		return nil, types.Type{}, internalErr(pos, "unresolved method %q on %s", name, className)
	}
	args, err := l.emitArgs(argExprs, info.ParamTypes)
	if err != nil {
		return nil, types.Type{}, err
	}
	mangled := l.mangler.InternalMethod(l.mangler.Class(className), name)
	fullArgs := append([]ir.Value{recv}, args...)
	void := info.RetType.Kind() == types.Void
	return l.builder.Call(mangled, fullArgs, void), info.RetType, nil
}

// emitArrayMethodCall special-cases the two Array methods the IR can
// express directly with its own ArrayLen instruction, rather than round
// tripping through a runtime call.
func (l *Lowerer) emitArrayMethodCall(recv ir.Value, name string, argExprs []ast.Expression, pos ast.Position) (ir.Value, types.Type, error) {
	switch name {
	case "length":
		return l.builder.ArrayLen(recv), types.IntType, nil
	case "isEmpty":
		lenVal := l.builder.ArrayLen(recv)
		return l.builder.ICmp("==", lenVal, ir.ConstInt(0)), types.BoolType, nil
	default:
		return nil, types.Type{}, internalErr(pos, "unresolved method %q on %s", name, types.ArrayClassName)
	}
}
