package vm

import "testing"

func TestCollectGarbageFreesUnreachableObject(t *testing.T) {
	vm := New()
	before := vm.bytesAllocated
	vm.NewList() // allocated, but never rooted anywhere
	if vm.bytesAllocated <= before {
		t.Fatal("allocating a list should increase bytesAllocated")
	}
	vm.collectGarbage()
	if vm.bytesAllocated != before {
		t.Errorf("unreachable list should be freed by collectGarbage: bytesAllocated = %d, want %d", vm.bytesAllocated, before)
	}
}

func TestCollectGarbageKeepsStackRootedObject(t *testing.T) {
	vm := New()
	list := vm.NewList()
	vm.push(ObjectVal(list))
	before := vm.bytesAllocated

	vm.collectGarbage()

	if vm.bytesAllocated != before {
		t.Errorf("stack-rooted list should survive collectGarbage: bytesAllocated = %d, want %d", vm.bytesAllocated, before)
	}
	if got := vm.pop(); got.Obj.(*List) != list {
		t.Error("the surviving object should be the same pointer, not a copy")
	}
}

func TestCollectGarbageKeepsGlobalRootedObject(t *testing.T) {
	vm := New()
	name := vm.InternString("g")
	list := vm.NewList()
	vm.globals.Set(name, ObjectVal(list))

	vm.collectGarbage()

	val, ok := vm.globals.Get(name)
	if !ok || val.Obj.(*List) != list {
		t.Error("a global-rooted object must survive collectGarbage")
	}
}

func TestCollectGarbageTracesThroughContainer(t *testing.T) {
	vm := New()
	inner := vm.NewList()
	outer := vm.NewList()
	outer.Items = []Value{ObjectVal(inner)}
	vm.push(ObjectVal(outer))

	vm.collectGarbage()

	if outer.Items[0].Obj.(*List) != inner {
		t.Error("an object reachable only via a container's fields must survive collectGarbage")
	}
	vm.pop()
}

func TestCollectGarbageGrowsThreshold(t *testing.T) {
	vm := New()
	vm.NewList()
	vm.collectGarbage()
	want := vm.bytesAllocated * GrowFactor
	if want == 0 {
		want = 1024
	}
	if vm.nextGC != want {
		t.Errorf("nextGC = %d, want %d", vm.nextGC, want)
	}
}

func TestGCStressModeCollectsOnEveryAllocation(t *testing.T) {
	vm := New(WithGCStress(true))
	// With nothing rooted, each allocation should immediately become
	// collectible garbage on the very next allocation under stress mode.
	before := vm.bytesAllocated
	vm.NewList()
	vm.NewList()
	if vm.bytesAllocated != before+24 {
		t.Errorf("bytesAllocated = %d, want %d (stress mode should have swept the first list)", vm.bytesAllocated, before+24)
	}
}
