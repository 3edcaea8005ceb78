// Package lower implements the lowerer (§4.6): decl phase, GC layout
// metadata, vtable synthesis, interface trampoline instantiation, and
// per-node emission, consuming a *ast.Program already validated by every
// pass in internal/passes and producing an *ir.Module a backend — the
// supplemental internal/refbackend, or the spec's assumed-external
// concrete JIT — can consume.
package lower

import (
	"github.com/cwbudde/go-dws/internal/ast"
	"github.com/cwbudde/go-dws/internal/ctruntime"
	"github.com/cwbudde/go-dws/internal/errors"
	"github.com/cwbudde/go-dws/internal/ir"
	"github.com/cwbudde/go-dws/internal/mangle"
	"github.com/cwbudde/go-dws/internal/types"
)

type ifaceVTableKey struct {
	class     string
	interface_ string
}

// methodInfo is the slice of a method's signature the lowerer itself
// needs (separate from internal/passes/typecheck's own copy, since the
// two packages don't share state — each pass re-derives what it needs
// from the already-validated AST).
type methodInfo struct {
	ParamTypes []types.Type
	RetType    types.Type
	IsStatic   bool
	Access     types.AccessModifier
}

// Lowerer holds every cross-class table the decl phase and per-node
// emission consult, threaded explicitly the same way ctruntime.Runtime is
// (§9 "Global mutable state").
type Lowerer struct {
	module  *ir.Module
	mangler mangle.Mangler
	rt      *ctruntime.Runtime

	classesByName    map[string]*ast.ClassDecl
	interfacesByName map[string]*ast.InterfaceDecl

	layouts  map[string]*classLayout
	vtables  map[string]*classVTable

	ifaceVTableSymbol map[ifaceVTableKey]string
	ifaceSlotIndex    map[string]map[string]int

	classMethods       map[string]map[string]methodInfo
	classStaticProps   map[string]map[string]types.Type
	fnSigs             map[string]methodInfo

	globalVarSymbol map[string]string
	globalVarType   map[string]types.Type

	// currentClass/currentStatic describe the method body currently being
	// emitted, mirroring typecheck's currentClass/thisAvailable.
	currentClass  string
	currentStatic bool

	builder *ir.Builder
	locals  map[string]localVar

	breakBlocks    []*ir.Block
	continueBlocks []*ir.Block

	// framePushed records whether the function currently being emitted
	// pushed a GC stack frame (§5 per-frame roots), so emitReturn knows
	// whether to pair it with a pop.
	framePushed bool

	labelCounter int
}

type localVar struct {
	slot ir.Value // the Alloca result
	typ  types.Type
}

// Lower runs the full pass and returns the resulting module.
func Lower(prog *ast.Program, rt *ctruntime.Runtime) (*ir.Module, error) {
	l := &Lowerer{
		module:            ir.NewModule(),
		rt:                rt,
		classesByName:     make(map[string]*ast.ClassDecl, len(prog.Classes)),
		interfacesByName:  make(map[string]*ast.InterfaceDecl, len(prog.Interfaces)),
		layouts:           make(map[string]*classLayout, len(prog.Classes)),
		vtables:           make(map[string]*classVTable, len(prog.Classes)),
		ifaceVTableSymbol: make(map[ifaceVTableKey]string),
		ifaceSlotIndex:    make(map[string]map[string]int),
		classMethods:      make(map[string]map[string]methodInfo, len(prog.Classes)),
		classStaticProps:  make(map[string]map[string]types.Type, len(prog.Classes)),
		fnSigs:            make(map[string]methodInfo, len(prog.Functions)),
		globalVarSymbol:   make(map[string]string, len(prog.Globals)),
		globalVarType:     make(map[string]types.Type, len(prog.Globals)),
	}
	for _, c := range prog.Classes {
		l.classesByName[c.Name] = c
	}
	for _, i := range prog.Interfaces {
		l.interfacesByName[i.Name] = i
	}
	l.registerExtendedClasses(prog.Classes)

	l.declMethodTables(prog)
	l.buildLayouts(prog.Classes)
	l.buildVTables(prog.Classes)
	l.buildInterfaceVTables(prog.Classes)

	for _, class := range prog.Classes {
		l.declClassMethods(class)
	}
	for _, fn := range prog.Functions {
		l.declFunction(fn)
	}
	for _, class := range prog.Classes {
		statics := make(map[string]types.Type)
		if class.HasParent() {
			for name, t := range l.classStaticProps[class.Parent] {
				statics[name] = t
			}
		}
		for _, propDecl := range class.Properties {
			if propDecl.IsStatic {
				sym := l.mangler.StaticProp(l.mangler.Class(class.Name), propDecl.Name)
				l.module.DeclareGlobal(sym, irType(propDecl.Type), zeroConst(propDecl.Type))
				statics[propDecl.Name] = propDecl.Type
			}
		}
		l.classStaticProps[class.Name] = statics
	}

	for _, g := range prog.Globals {
		sym := mangledGlobal(g.Name)
		l.module.DeclareGlobal(sym, irType(g.DeclaredType), zeroConst(g.DeclaredType))
		l.globalVarSymbol[g.Name] = sym
		l.globalVarType[g.Name] = g.DeclaredType
	}

	if err := l.emitInit(prog); err != nil {
		return nil, err
	}

	for _, fn := range prog.Functions {
		if fn.Body == nil {
			continue
		}
		if err := l.emitFunctionBody(l.module.Functions[fn.Name], fn.Args, fn.Body, nil, false); err != nil {
			return nil, err
		}
	}
	for _, class := range prog.Classes {
		l.currentClass = class.Name

		ctorDef, hasCtor := class.AllMethodDefs()[ast.ConstructorName]
		var ctorArgs []*ast.Argument
		ctorBody := &ast.StatementList{}
		if hasCtor {
			ctorArgs = ctorDef.Fn.Args
			if ctorDef.Fn.Body != nil {
				ctorBody = ctorDef.Fn.Body
			}
		}
		l.currentStatic = false
		mangledCtor := l.mangler.Method(l.mangler.Class(class.Name), ast.ConstructorName)
		if err := l.emitConstructorBody(l.module.Functions[mangledCtor], ctorArgs, ctorBody, class); err != nil {
			return nil, err
		}

		for _, def := range class.MethodDefs {
			if def.Fn.Name == ast.ConstructorName {
				continue
			}
			l.currentStatic = def.IsStatic
			mangled := l.mangler.Method(l.mangler.Class(class.Name), def.Fn.Name)
			if err := l.emitFunctionBody(l.module.Functions[mangled], def.Fn.Args, def.Fn.Body, class, def.IsStatic); err != nil {
				return nil, err
			}
		}
		l.currentClass = ""
	}

	return l.module, nil
}

// declMethodTables mirrors typecheck's decl phase (own copy, since
// passes don't share structures): property/method signature tables used
// by emission to decide int→float promotion at call sites and to type
// local allocas.
func (l *Lowerer) declMethodTables(prog *ast.Program) {
	for _, class := range prog.Classes {
		methods := make(map[string]methodInfo)
		if class.HasParent() {
			for name, m := range l.classMethods[class.Parent] {
				methods[name] = m
			}
		}
		for _, def := range class.MethodDefs {
			methods[def.Fn.Name] = toMethodInfo(def.Fn, def.IsStatic, def.Access)
		}
		for _, decl := range class.MethodDecls {
			methods[decl.Fn.Name] = toMethodInfo(decl.Fn, decl.IsStatic, decl.Access)
		}
		if _, ok := methods[ast.ConstructorName]; !ok {
			methods[ast.ConstructorName] = methodInfo{RetType: types.VoidType, Access: types.Public}
		}
		l.classMethods[class.Name] = methods
	}
	l.classMethods[types.StringClassName] = builtinStringMethods()
	l.classMethods[types.ArrayClassName] = builtinArrayMethods()
	l.classMethods[types.RangeClassName] = builtinRangeMethods()

	for _, fn := range prog.Functions {
		l.fnSigs[fn.Name] = toMethodInfo(fn, false, types.Public)
	}

	// die is a runtime primitive with no user-visible body (§9.1
	// supplement); seed its signature the same way the builtin String/
	// Array/Range methods are seeded, so emitCall's fnSigs lookup resolves
	// it like any other global function call.
	l.fnSigs["die"] = methodInfo{ParamTypes: []types.Type{types.StringType}, RetType: types.VoidType, Access: types.Public}
}

func toMethodInfo(fn *ast.FunctionDecl, isStatic bool, access types.AccessModifier) methodInfo {
	params := make([]types.Type, len(fn.Args))
	for i, a := range fn.Args {
		params[i] = a.Type
	}
	return methodInfo{ParamTypes: params, RetType: fn.ReturnType, IsStatic: isStatic, Access: access}
}

// declClassMethods declares every method's mangled function symbol
// (§4.6 decl phase step 3), synthesizing the default constructor if the
// class has none.
func (l *Lowerer) declClassMethods(class *ast.ClassDecl) {
	mangledClass := l.mangler.Class(class.Name)

	declare := func(fn *ast.FunctionDecl, isStatic bool) {
		mangled := l.mangler.Method(mangledClass, fn.Name)
		names := make([]string, 0, len(fn.Args)+1)
		paramTypes := make([]ir.Type, 0, len(fn.Args)+1)
		if !isStatic {
			names = append(names, "this")
			paramTypes = append(paramTypes, ir.Ptr)
		}
		for _, a := range fn.Args {
			names = append(names, a.Name)
			paramTypes = append(paramTypes, irType(a.Type))
		}
		l.module.DeclareFunction(mangled, names, paramTypes, irType(fn.ReturnType))
	}

	for _, decl := range class.MethodDecls {
		declare(decl.Fn, decl.IsStatic)
	}
	for _, def := range class.MethodDefs {
		declare(def.Fn, def.IsStatic)
	}
	if _, hasCtor := class.AllMethodDefs()[ast.ConstructorName]; !hasCtor {
		declare(&ast.FunctionDecl{Name: ast.ConstructorName, ReturnType: types.VoidType}, false)
	}
}

func (l *Lowerer) declFunction(fn *ast.FunctionDecl) {
	names := make([]string, len(fn.Args))
	paramTypes := make([]ir.Type, len(fn.Args))
	for i, a := range fn.Args {
		names[i] = a.Name
		paramTypes[i] = irType(a.Type)
	}
	l.module.DeclareFunction(fn.Name, names, paramTypes, irType(fn.ReturnType))
}

func zeroConst(t types.Type) ir.Value {
	switch t.Kind() {
	case types.Int:
		return ir.ConstInt(0)
	case types.Float:
		return ir.ConstFloat(0)
	case types.Bool:
		return ir.ConstBool(false)
	default:
		return ir.ConstNull{}
	}
}

func internalErr(pos ast.Position, format string, args ...any) error {
	return errors.NewLoweringError(pos, format, args...)
}

// mangledGlobal returns the IR symbol for a top-level `global` variable —
// distinct from a static property's StaticProp symbol since a global
// belongs to no class.
func mangledGlobal(name string) string { return "global$" + name }

// resolveStaticProp walks className's ancestor chain for the nearest
// class that directly declares a static property named propName,
// returning the declaring class (so its mangled StaticProp symbol can be
// reconstructed) and the property's type.
func (l *Lowerer) resolveStaticProp(className, propName string) (owner string, typ types.Type, ok bool) {
	for cur := className; cur != ""; {
		decl, exists := l.classesByName[cur]
		if !exists {
			break
		}
		if t, found := directStaticProp(decl, propName); found {
			return cur, t, true
		}
		cur = decl.Parent
	}
	return "", types.Type{}, false
}

func directStaticProp(class *ast.ClassDecl, name string) (types.Type, bool) {
	for _, p := range class.Properties {
		if p.IsStatic && p.Name == name {
			return p.Type, true
		}
	}
	return types.Type{}, false
}
