// Package runtime is the small runtime the JIT-compiled program links
// against: the mark-and-sweep GC (§5/§6) and the built-in String, Array,
// and Range types plus print/die, exposed to generated code under the
// mangled "x." symbols internal/mangle produces. Grounded on
// original_source/src/runtime/gc/gc.cpp (the C++ GC this file translates)
// and original_source/src/runtime/{string,array,range}.cpp for exact
// edge-case behavior.
//
// One idiomatic departure from the C++ original: instead of a
// classId -> pointer-list table looked up by the GC at mark time
// (compilerRuntime.classPointerLists), every heap value here implements
// Trace itself. Go already gives each heap object its own concrete type,
// so there is no reason to re-derive its shape from a side table the way
// the C++ GC must when everything is a raw void*.
package runtime

// Heap is implemented by every GC-managed value: strings, arrays, class
// instances, and interface trampolines. Trace returns the value's direct
// pointer-typed children, the GC's stand-in for walking a "GC metadata
// node"'s pointer-list (§6).
type Heap interface {
	Trace() []Heap
}

// root is one registered stack-frame or global slot: a pointer to the Go
// interface variable holding the current value, mirroring the spec's
// `ptr**` root shape (§6 gcAddRoot) — reading through it always observes
// reassignment.
type root struct {
	slot *Heap
}

// GC is a stop-the-world mark-and-sweep collector (§5). It is not safe
// for concurrent use — nothing in this system is (§5 "strictly
// single-threaded").
type GC struct {
	allocs      map[Heap]bool
	stackFrames [][]root
	globalRoots []root
}

// New returns a GC with no live allocations and no roots.
func New() *GC {
	return &GC{allocs: make(map[Heap]bool)}
}

// Alloc registers h as a live allocation, returning it unmodified — the
// Go equivalent of x.gcAlloc, since Go already zero-initializes new
// values; this just starts tracking h for the next Run.
func (g *GC) Alloc(h Heap) Heap {
	g.allocs[h] = false
	return h
}

// PushStackFrame begins a new frame's root list (§5(b)); must be paired
// with a PopStackFrame on every exit path of the owning function.
func (g *GC) PushStackFrame() {
	g.stackFrames = append(g.stackFrames, nil)
}

// PopStackFrame discards the top frame's roots.
func (g *GC) PopStackFrame() {
	g.stackFrames = g.stackFrames[:len(g.stackFrames)-1]
}

// AddRoot registers slot in the current (top) frame.
func (g *GC) AddRoot(slot *Heap) {
	top := len(g.stackFrames) - 1
	g.stackFrames[top] = append(g.stackFrames[top], root{slot})
}

// AddGlobalRoot registers slot in the global root list (§5(a)) —
// unlike a frame root this is never popped; globals and static
// properties live for the process's whole lifetime.
func (g *GC) AddGlobalRoot(slot *Heap) {
	g.globalRoots = append(g.globalRoots, root{slot})
}

// Run performs one full mark-and-sweep cycle.
func (g *GC) Run() {
	g.mark()
	g.sweep()
}

// Live reports the number of tracked allocations: those the last Run kept
// plus any allocated since (every allocation, if Run has never been
// called) — used by tests asserting GC root-precision (§8).
func (g *GC) Live() int { return len(g.allocs) }

func (g *GC) mark() {
	for h := range g.allocs {
		g.allocs[h] = false
	}

	var stack []Heap
	push := func(r root) {
		if r.slot != nil && *r.slot != nil {
			stack = append(stack, *r.slot)
		}
	}
	for _, frame := range g.stackFrames {
		for _, r := range frame {
			push(r)
		}
	}
	for _, r := range g.globalRoots {
		push(r)
	}

	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == nil {
			continue
		}
		marked, known := g.allocs[h]
		if !known || marked {
			continue
		}
		g.allocs[h] = true
		stack = append(stack, h.Trace()...)
	}
}

func (g *GC) sweep() {
	for h, marked := range g.allocs {
		if marked {
			g.allocs[h] = false
		} else {
			delete(g.allocs, h)
		}
	}
}
