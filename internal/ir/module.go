package ir

// Module is the whole program's IR: every struct layout, global, and
// function the lowerer produced, keyed by mangled name the way the
// mangler (internal/mangle) spells them — this is the unit a concrete
// backend (or internal/refbackend) consumes as a whole.
type Module struct {
	Structs   map[string]*StructType
	Globals   map[string]*Global
	Functions map[string]*Function
	// EntryFunc is the compiler-synthesized __init function's mangled
	// name (§4.6 decl phase step 6), run once before any user code.
	EntryFunc string
}

// NewModule returns an empty module ready for a Builder to populate.
func NewModule() *Module {
	return &Module{
		Structs:   make(map[string]*StructType),
		Globals:   make(map[string]*Global),
		Functions: make(map[string]*Function),
	}
}

// DeclareStruct reserves an opaque struct type (§4.6 decl phase steps
// 1–2): callers fill in Fields later via SetBody once every class and
// interface name is known.
func (m *Module) DeclareStruct(name string) *StructType {
	st := &StructType{Name: name}
	m.Structs[name] = st
	return st
}

// SetBody fills in a previously declared struct's fields.
func (st *StructType) SetBody(fields []Field) { st.Fields = fields }

// DeclareGlobal registers a static property's (or a vtable constant's)
// backing storage.
func (m *Module) DeclareGlobal(name string, t Type, init Value) *Global {
	g := &Global{Name: name, Type: t, Init: init}
	m.Globals[name] = g
	return g
}

// DeclareFunction registers a function/method by mangled name with no
// body yet (used for forward declarations and abstract-method slots).
func (m *Module) DeclareFunction(name string, paramNames []string, paramTypes []Type, ret Type) *Function {
	fn := &Function{Name: name, ParamNames: paramNames, ParamTypes: paramTypes, RetType: ret}
	m.Functions[name] = fn
	return fn
}
