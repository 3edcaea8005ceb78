package runtime

import "testing"

func TestArrayAppendGrowth(t *testing.T) {
	gc := New()
	a := NewArray(gc, false)

	for i := int64(0); i < 9; i++ {
		ArrayAppend(a, i)
	}

	if got := ArrayLength(a); got != 9 {
		t.Fatalf("length = %d, want 9", got)
	}
	// first growth floors at 8, second growth doubles it to 16.
	if got := a.Cap(); got != 16 {
		t.Fatalf("cap after 9 appends = %d, want 16", got)
	}
}

func TestArrayLengthInvariantAcrossSet(t *testing.T) {
	gc := New()
	a := NewArrayLiteral(gc, false, []any{int64(1), int64(2), int64(3)})
	before := ArrayLength(a)
	ArraySet(a, 1, int64(99))
	if after := ArrayLength(a); after != before {
		t.Fatalf("length changed across set[]: %d -> %d", before, after)
	}
	if got := ArrayGet(a, 1); got != int64(99) {
		t.Fatalf("get(1) = %v, want 99", got)
	}
}

func TestArrayGetOutOfRangeAborts(t *testing.T) {
	gc := New()
	a := NewArrayLiteral(gc, false, []any{int64(1), int64(2)})

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for out-of-range access")
		}
	}()
	ArrayGet(a, 2)
}

func TestArrayGetNegativeIndexAborts(t *testing.T) {
	gc := New()
	a := NewArrayLiteral(gc, false, []any{int64(1)})

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for negative index")
		}
	}()
	ArrayGet(a, -1)
}

func TestArrayTraceOnlyWhenTracedIsSet(t *testing.T) {
	gc := New()
	s := NewString(gc, "x")

	untraced := NewArrayLiteral(gc, false, []any{s})
	if got := untraced.Trace(); got != nil {
		t.Fatalf("untraced array should report no children, got %v", got)
	}

	traced := NewArrayLiteral(gc, true, []any{s})
	children := traced.Trace()
	if len(children) != 1 || children[0] != Heap(s) {
		t.Fatalf("traced array should report its one string child, got %v", children)
	}
}
