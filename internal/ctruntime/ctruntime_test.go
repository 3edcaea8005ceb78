package ctruntime

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sortedStrings() cmp.Option {
	return cmpopts.SortSlices(func(a, b string) bool { return a < b })
}

func TestMarkVirtualAndIsVirtual(t *testing.T) {
	rt := New()
	if rt.IsVirtual("Animal", "speak") {
		t.Fatal("a fresh Runtime should report nothing virtual")
	}

	rt.MarkVirtual("Animal", "speak")
	rt.MarkVirtual("Animal", "eat")
	if !rt.IsVirtual("Animal", "speak") {
		t.Fatal("speak should be virtual after MarkVirtual")
	}
	if rt.IsVirtual("Animal", "sleep") {
		t.Fatal("sleep was never marked virtual")
	}

	want := []string{"eat", "speak"}
	got := rt.VirtualMethodNames("Animal")
	if diff := cmp.Diff(want, got, sortedStrings()); diff != "" {
		t.Fatalf("VirtualMethodNames mismatch (-want +got):\n%s", diff)
	}

	if got := rt.VirtualMethodNames("NoSuchClass"); len(got) != 0 {
		t.Fatalf("an unknown class should have no virtual methods, got %v", got)
	}
}

func TestImplementedInterfacesMergeAndClosure(t *testing.T) {
	rt := New()
	rt.AddImplementedInterfaces("Task", "Runnable")
	rt.AddImplementedInterfaces("Task", "Named")

	if !rt.Implements("Task", "Runnable") || !rt.Implements("Task", "Named") {
		t.Fatal("Task should implement both interfaces added so far")
	}
	if rt.Implements("Task", "Comparable") {
		t.Fatal("Task was never given Comparable")
	}

	want := []string{"Named", "Runnable"}
	got := rt.ImplementedInterfaceNames("Task")
	if diff := cmp.Diff(want, got, sortedStrings()); diff != "" {
		t.Fatalf("ImplementedInterfaceNames mismatch (-want +got):\n%s", diff)
	}
}

func TestAddImplementedInterfaceSetMergesWholesale(t *testing.T) {
	rt := New()
	rt.AddImplementedInterfaces("Base", "Runnable", "Named")

	// Simulate a subclass inheriting its parent's already-closed set.
	rt.AddImplementedInterfaceSet("Sub", rt.ImplementedInterfaces["Base"])
	rt.AddImplementedInterfaces("Sub", "Extra")

	want := []string{"Extra", "Named", "Runnable"}
	got := rt.ImplementedInterfaceNames("Sub")
	if diff := cmp.Diff(want, got, sortedStrings()); diff != "" {
		t.Fatalf("Sub's merged closure mismatch (-want +got):\n%s", diff)
	}

	// An empty set merges to a no-op rather than creating a spurious entry.
	rt.AddImplementedInterfaceSet("NeverTouched", nil)
	if _, ok := rt.ImplementedInterfaces["NeverTouched"]; ok {
		t.Fatal("AddImplementedInterfaceSet with an empty set should not create an entry")
	}
}

func TestExtendedClassesInverseChain(t *testing.T) {
	rt := New()
	rt.AddExtendedClass("Animal", "Dog")
	rt.AddExtendedClass("Animal", "Cat")
	rt.AddExtendedClass("Dog", "Puppy")

	if !rt.IsSubclass("Animal", "Dog") || !rt.IsSubclass("Animal", "Cat") {
		t.Fatal("Dog and Cat should both be recorded as extending Animal")
	}
	if rt.IsSubclass("Animal", "Puppy") {
		t.Fatal("ExtendedClasses only records direct entries made via AddExtendedClass, not transitive closure — Puppy was only added under Dog")
	}
	if !rt.IsSubclass("Dog", "Puppy") {
		t.Fatal("Puppy should be recorded as extending Dog")
	}
}
