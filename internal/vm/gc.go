package vm

import "log/slog"

// GrowFactor is how much the allocation threshold grows after each GC
// cycle: next_gc = bytes_allocated * GrowFactor.
const GrowFactor = 2

// registerObject links a freshly built object onto the VM's heap list and
// accounts for its size, running a collection first if the allocation
// would cross the threshold. Because the object isn't linked in (and isn't
// reachable from any root) until after this call returns, it is safe for a
// GC triggered here to run before the object exists as far as the
// collector is concerned — sweep only ever touches objects already on the
// list.
func (vm *VM) registerObject(o Object, size int) {
	vm.bytesAllocated += size
	if vm.bytesAllocated > vm.nextGC || vm.gcStressMode {
		vm.collectGarbage()
	}
	o.setHeapNext(vm.objects)
	vm.objects = o
}

// reallocate accounts for growing or shrinking an existing allocation (a
// List's backing array, a Table's entries) without creating a new Object.
func (vm *VM) reallocate(oldSize, newSize int) {
	vm.bytesAllocated += newSize - oldSize
	if newSize > oldSize && (vm.bytesAllocated > vm.nextGC || vm.gcStressMode) {
		vm.collectGarbage()
	}
}

// collectGarbage runs one tri-color mark-sweep cycle: mark roots, trace
// until the gray worklist is empty, drop weak string-table references to
// now-unmarked strings, then sweep the heap list.
func (vm *VM) collectGarbage() {
	before := vm.bytesAllocated

	vm.markRoots()
	vm.traceReferences()
	vm.strings.removeWeak()
	swept := vm.sweep()

	vm.nextGC = vm.bytesAllocated * GrowFactor
	if vm.nextGC == 0 {
		vm.nextGC = 1024
	}

	vm.logger().Debug("gc cycle",
		"session", vm.sessionID,
		"bytes_before", before,
		"bytes_after", vm.bytesAllocated,
		"objects_swept", swept,
		"next_gc", vm.nextGC,
	)
}

func (vm *VM) markRoots() {
	for i := 0; i < vm.stackTop; i++ {
		vm.markValue(vm.stack[i])
	}
	for i := 0; i < vm.frameCount; i++ {
		vm.markObject(vm.frames[i].closure)
	}
	for uv := vm.openUpvalues; uv != nil; uv = uv.Next {
		vm.markObject(uv)
	}
	vm.globals.ForEach(func(key *ObjString, val Value) {
		vm.markObject(key)
		vm.markValue(val)
	})
	vm.markObject(vm.initString)
	for _, v := range vm.compilerRoots {
		vm.markValue(v)
	}
}

func (vm *VM) markValue(v Value) {
	if v.Kind == KindObject {
		vm.markObject(v.Obj)
	}
}

func (vm *VM) markObject(o Object) {
	// A nil pointer of a concrete type (initString before New sets it, the
	// script Function's Name, a closure upvalue not yet filled) arrives as a
	// non-nil interface value, so those types are checked for nil here.
	switch obj := o.(type) {
	case *ObjString:
		if obj == nil {
			return
		}
	case *Upvalue:
		if obj == nil {
			return
		}
	}
	if o == nil || o.isMarked() {
		return
	}
	o.mark()
	vm.grayStack = append(vm.grayStack, o)
}

// traceReferences pops objects off the gray worklist, marking black, and
// pushes every object-valued reference each one holds.
func (vm *VM) traceReferences() {
	for len(vm.grayStack) > 0 {
		o := vm.grayStack[len(vm.grayStack)-1]
		vm.grayStack = vm.grayStack[:len(vm.grayStack)-1]
		vm.blacken(o)
	}
}

func (vm *VM) blacken(o Object) {
	switch obj := o.(type) {
	case *ObjString:
		// no references
	case *Function:
		vm.markObject(obj.Name)
		for _, c := range obj.Chunk.Constants {
			vm.markValue(c)
		}
	case *Closure:
		vm.markObject(obj.Function)
		for _, uv := range obj.Upvalues {
			vm.markObject(uv)
		}
	case *Upvalue:
		if !obj.isOpen() {
			vm.markValue(obj.Closed)
		}
	case *Class:
		vm.markObject(obj.Name)
		obj.Methods.ForEach(func(key *ObjString, val Value) {
			vm.markObject(key)
			vm.markValue(val)
		})
	case *Instance:
		vm.markObject(obj.Class)
		obj.Fields.ForEach(func(key *ObjString, val Value) {
			vm.markObject(key)
			vm.markValue(val)
		})
	case *BoundMethod:
		vm.markValue(obj.Receiver)
		vm.markObject(obj.Method)
	case *Native:
		// no references
	case *List:
		for _, v := range obj.Items {
			vm.markValue(v)
		}
	}
}

// sweep walks the heap list, unlinking and freeing unmarked objects and
// clearing the mark flag on survivors. Returns the number of objects freed.
func (vm *VM) sweep() int {
	var previous Object
	current := vm.objects
	freed := 0
	for current != nil {
		if current.isMarked() {
			current.unmark()
			previous = current
			current = current.heapNext()
			continue
		}
		unreached := current
		current = current.heapNext()
		if previous != nil {
			previous.setHeapNext(current)
		} else {
			vm.objects = current
		}
		freed++
		vm.bytesAllocated -= objectSize(unreached)
	}
	return freed
}

func objectSize(o Object) int {
	switch obj := o.(type) {
	case *ObjString:
		return len(obj.Chars) + 16
	case *List:
		return len(obj.Items)*24 + 24
	default:
		return 48
	}
}

func (vm *VM) logger() *slog.Logger {
	if vm.log != nil {
		return vm.log
	}
	return slog.Default()
}
