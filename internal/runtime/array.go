package runtime

import "github.com/cwbudde/go-dws/internal/errors"

// ArrayObj is the runtime representation of `array<T>`: a growable
// element buffer with an independent capacity, `{elements-ptr, length,
// capacity}` per §6. Traced records whether the element kind itself needs
// tracing (string/array/class/interface elements do; int/float/bool
// elements don't), since Array<T> has no static element type in Go the
// way the IR's StructType.Field.Traced flag captures it for classes.
type ArrayObj struct {
	Elems     []any
	Traced    bool
}

// Trace reports every non-nil element when the element kind is itself
// pointer-typed; an array of a scalar kind has nothing to trace.
func (a *ArrayObj) Trace() []Heap {
	if !a.Traced {
		return nil
	}
	out := make([]Heap, 0, len(a.Elems))
	for _, v := range a.Elems {
		if h, ok := v.(Heap); ok && h != nil {
			out = append(out, h)
		}
	}
	return out
}

// minGrowthCap is the first-growth floor (§8 boundary case: "capacity ≥ 8
// minimum for the first growth").
const minGrowthCap = 8

// NewArray allocates an empty array (§9 Open Question 2: a declaration
// with no initializer gets a zero-length, zero-capacity array, not a
// rejected empty literal).
func NewArray(gc *GC, traced bool) *ArrayObj {
	obj := &ArrayObj{Traced: traced}
	gc.Alloc(obj)
	return obj
}

// NewArrayLiteral allocates an array pre-populated with elems (a `[]T{...}`
// literal, already validated non-empty by the type checker).
func NewArrayLiteral(gc *GC, traced bool, elems []any) *ArrayObj {
	obj := &ArrayObj{Elems: elems, Traced: traced}
	gc.Alloc(obj)
	return obj
}

func ArrayLength(a *ArrayObj) int64 { return int64(len(a.Elems)) }

func ArrayIsEmpty(a *ArrayObj) bool { return len(a.Elems) == 0 }

// ArrayGet bounds-checks then returns the element at idx; out-of-range
// (including negative) aborts the process (§7 RuntimeAbort, grounded on
// array.cpp's addGetter bounds check).
func ArrayGet(a *ArrayObj, idx int64) any {
	if idx < 0 || idx >= int64(len(a.Elems)) {
		panic(errors.NewRuntimeAbort("array index %d out of range (length %d)", idx, len(a.Elems)))
	}
	return a.Elems[idx]
}

// ArraySet bounds-checks then overwrites the element at idx.
func ArraySet(a *ArrayObj, idx int64, val any) {
	if idx < 0 || idx >= int64(len(a.Elems)) {
		panic(errors.NewRuntimeAbort("array index %d out of range (length %d)", idx, len(a.Elems)))
	}
	a.Elems[idx] = val
}

// ArrayAppend grows a, doubling capacity (minGrowthCap on the first
// growth) whenever length has caught up with capacity, then appends val
// (§8 boundary case, §4.6's ArrayAppend instruction). The growth policy
// is implemented explicitly rather than left to Go's own slice append,
// since the spec pins an exact doubling/8-minimum contract callers can
// observe through Cap — relying on Go's own (different, version-varying)
// growth factor would silently break that contract.
func ArrayAppend(a *ArrayObj, val any) {
	if len(a.Elems) == cap(a.Elems) {
		newCap := cap(a.Elems) * 2
		if newCap < minGrowthCap {
			newCap = minGrowthCap
		}
		grown := make([]any, len(a.Elems), newCap)
		copy(grown, a.Elems)
		a.Elems = grown
	}
	a.Elems = append(a.Elems, val)
}

// Cap reports the array's current backing capacity — exercised directly
// by tests asserting the doubling/8-minimum growth contract (§8).
func (a *ArrayObj) Cap() int { return cap(a.Elems) }
