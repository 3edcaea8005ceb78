package runtime

import (
	"math"

	"github.com/cwbudde/go-dws/internal/errors"
)

// RangeObj is the runtime representation of the built-in Range class:
// `{start, stop, step}` (§6), grounded on
// original_source/src/runtime/range.cpp.
type RangeObj struct {
	Start, Stop, Step int64
}

// Trace reports no children: a Range holds only scalar fields.
func (*RangeObj) Trace() []Heap { return nil }

// NewRange validates step != 0 (zero step aborts — §7 RuntimeAbort,
// "zero range step") then allocates.
func NewRange(gc *GC, start, stop, step int64) *RangeObj {
	if step == 0 {
		panic(errors.NewRuntimeAbort("range step must not be zero"))
	}
	obj := &RangeObj{Start: start, Stop: stop, Step: step}
	gc.Alloc(obj)
	return obj
}

// RangeLength mirrors Range_length: the number of values a for-in loop
// over this range would visit, zero when stop is unreachable from start
// in the given step's direction (§8: `range(1,0)` and `range(0)` both
// iterate zero times).
func RangeLength(r *RangeObj) int64 {
	dist := r.Stop - r.Start
	if (dist > 0 && r.Step < 0) || (dist < 0 && r.Step > 0) {
		return 0
	}
	return int64(math.Ceil(float64(dist) / float64(r.Step)))
}

// RangeGet mirrors Range_get: the idx-th value in the sequence,
// idx*step + start, with no bounds check. The lowerer does not call it:
// a for-in loop over a range advances its loop value by step and tests
// it with RangeHasNext instead of indexing with RangeGet.
func RangeGet(r *RangeObj, idx int64) int64 {
	return r.Start + r.Step*idx
}

// RangeHasNext implements the for-in loop condition directly: whether
// idx (the next candidate value, already advanced by step) still lies
// within [start, stop) in the step's direction. Used by the lowerer's
// "x.rangeHasNext" internal call instead of re-deriving RangeLength on
// every iteration.
func RangeHasNext(idx, stop, step int64) bool {
	if step > 0 {
		return idx < stop
	}
	return idx > stop
}
