// Package ctruntime holds the compile-time runtime data shared across the
// semantic passes and consumed by the lowerer (§2 component 3, §9 "Global
// mutable state"): virtual-method sets, interface method maps,
// implemented-interface closures, and extended-class closures. It is a
// single struct threaded explicitly through every pass that reads or
// writes it — there is no package-level mutable state.
package ctruntime

import "github.com/cwbudde/go-dws/internal/ast"

// stringSet is the map[string]struct{} idiom used throughout for a set of
// names — virtual method names, interface names, and so on.
type stringSet = map[string]struct{}

func newSet(names ...string) stringSet {
	s := make(stringSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Runtime is the shared table. Every pass that needs cross-class
// information reads and writes through one of these, never through a
// package-level variable.
type Runtime struct {
	// VirtualMethods maps a class name to the set of its own method names
	// that some subclass overrides (§4.4). Populated by
	// internal/passes/virtualmethods.
	VirtualMethods map[string]stringSet

	// InterfaceMethods maps an interface name to its full transitive
	// method-declaration map (own + inherited from parent interfaces),
	// keyed by method name (§4.3). Populated by
	// internal/passes/interfacecheck.
	InterfaceMethods map[string]map[string]*ast.MethodDecl

	// ImplementedInterfaces maps a class OR interface name to the set of
	// interface names it is a subtype of: for a class, every interface it
	// implements plus their parents plus (if its parent class is
	// abstract) the parent's own closure; for an interface, its own
	// parents' closures plus the parents themselves (§4.3, §9
	// "Implemented-interfaces closure"). Always transitively closed.
	ImplementedInterfaces map[string]stringSet

	// ExtendedClasses maps a class name to the set of all classes that
	// (transitively) extend it — the inverse of the parent-pointer chain,
	// useful for access checks ("inside the declaring class or a
	// subclass") without re-walking every class's ancestry each time.
	ExtendedClasses map[string]stringSet
}

// New returns an empty, ready-to-use Runtime.
func New() *Runtime {
	return &Runtime{
		VirtualMethods:        make(map[string]stringSet),
		InterfaceMethods:      make(map[string]map[string]*ast.MethodDecl),
		ImplementedInterfaces: make(map[string]stringSet),
		ExtendedClasses:       make(map[string]stringSet),
	}
}

// MarkVirtual records that class's own method name is virtual (overridden
// by at least one subclass).
func (r *Runtime) MarkVirtual(class, method string) {
	set, ok := r.VirtualMethods[class]
	if !ok {
		set = newSet()
		r.VirtualMethods[class] = set
	}
	set[method] = struct{}{}
}

// IsVirtual reports whether class's own method name was recorded virtual.
func (r *Runtime) IsVirtual(class, method string) bool {
	_, ok := r.VirtualMethods[class][method]
	return ok
}

// VirtualMethodNames returns class's virtual method names, in no
// particular order; callers that need a stable slot order (the lowerer's
// vtable synthesis) sort it themselves.
func (r *Runtime) VirtualMethodNames(class string) []string {
	set := r.VirtualMethods[class]
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	return names
}

// AddImplementedInterfaces merges names into owner's implemented-interface
// closure (owner is a class or interface name).
func (r *Runtime) AddImplementedInterfaces(owner string, names ...string) {
	set, ok := r.ImplementedInterfaces[owner]
	if !ok {
		set = newSet()
		r.ImplementedInterfaces[owner] = set
	}
	for _, n := range names {
		set[n] = struct{}{}
	}
}

// AddImplementedInterfaceSet merges an entire set into owner's closure —
// used when copying a parent's already-closed set wholesale.
func (r *Runtime) AddImplementedInterfaceSet(owner string, names stringSet) {
	if len(names) == 0 {
		return
	}
	set, ok := r.ImplementedInterfaces[owner]
	if !ok {
		set = newSet()
		r.ImplementedInterfaces[owner] = set
	}
	for n := range names {
		set[n] = struct{}{}
	}
}

// Implements reports whether owner's closure contains iface.
func (r *Runtime) Implements(owner, iface string) bool {
	_, ok := r.ImplementedInterfaces[owner][iface]
	return ok
}

// ImplementedInterfaceNames returns owner's closure as a slice.
func (r *Runtime) ImplementedInterfaceNames(owner string) []string {
	set := r.ImplementedInterfaces[owner]
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	return names
}

// AddExtendedClass records that sub (transitively) extends base.
func (r *Runtime) AddExtendedClass(base, sub string) {
	set, ok := r.ExtendedClasses[base]
	if !ok {
		set = newSet()
		r.ExtendedClasses[base] = set
	}
	set[sub] = struct{}{}
}

// IsSubclass reports whether sub (transitively) extends base.
func (r *Runtime) IsSubclass(base, sub string) bool {
	_, ok := r.ExtendedClasses[base][sub]
	return ok
}
