package vm

// callValue dispatches a call instruction against whatever kind of callee
// sits on the stack: a closure, a native, a class (construction), or a
// bound method.
func (vm *VM) callValue(callee Value, argCount int) error {
	kind, ok := callee.ObjectKind()
	if !ok {
		return vm.runtimeErrorf("Can only call functions and classes.")
	}
	switch kind {
	case ObjKindClosure:
		return vm.callClosure(callee.Obj.(*Closure), argCount)
	case ObjKindNative:
		native := callee.Obj.(*Native)
		args := vm.stack[vm.stackTop-argCount : vm.stackTop]
		result, err := native.Fn(vm, args)
		if err != nil {
			return vm.runtimeErrorf("%s", err.Error())
		}
		vm.stackTop -= argCount + 1
		vm.push(result)
		return nil
	case ObjKindClass:
		class := callee.Obj.(*Class)
		instance := vm.NewInstance(class)
		vm.stack[vm.stackTop-argCount-1] = ObjectVal(instance)
		if initializer, ok := class.Methods.Get(vm.initString); ok {
			return vm.callClosure(initializer.Obj.(*Closure), argCount)
		}
		if argCount != 0 {
			return vm.runtimeErrorf("Expected 0 arguments but got %d.", argCount)
		}
		return nil
	case ObjKindBoundMethod:
		bound := callee.Obj.(*BoundMethod)
		vm.stack[vm.stackTop-argCount-1] = bound.Receiver
		return vm.callClosure(bound.Method, argCount)
	default:
		return vm.runtimeErrorf("Can only call functions and classes.")
	}
}

// callClosure installs a new CallFrame for closure, checking arity and the
// frame-stack depth first.
func (vm *VM) callClosure(closure *Closure, argCount int) error {
	if argCount != closure.Function.Arity {
		return vm.runtimeErrorf("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
	}
	if vm.frameCount == FramesMax {
		return vm.runtimeErrorf("Stack overflow.")
	}
	frame := &vm.frames[vm.frameCount]
	frame.closure = closure
	frame.ip = 0
	frame.slots = vm.stackTop - argCount - 1
	vm.frameCount++
	return nil
}

// invoke implements the OP_INVOKE fast path: a field holding a callable
// shadows a same-named method, so the field table is checked before the
// class's method table.
func (vm *VM) invoke(name *ObjString, argCount int) error {
	receiver := vm.peek(argCount)
	instance, ok := receiver.Obj.(*Instance)
	if !receiver.IsObject() || !ok {
		return vm.runtimeErrorf("Only instances have methods.")
	}
	if field, ok := instance.Fields.Get(name); ok {
		vm.stack[vm.stackTop-argCount-1] = field
		return vm.callValue(field, argCount)
	}
	return vm.invokeFromClass(instance.Class, name, argCount)
}

func (vm *VM) invokeFromClass(class *Class, name *ObjString, argCount int) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeErrorf("Undefined property '%s'.", name.Chars)
	}
	return vm.callClosure(method.Obj.(*Closure), argCount)
}

// bindMethod resolves name on class, pops the receiver sitting at peek(0),
// and pushes a BoundMethod in its place.
func (vm *VM) bindMethod(class *Class, name *ObjString) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeErrorf("Undefined property '%s'.", name.Chars)
	}
	receiver := vm.peek(0)
	bound := vm.NewBoundMethod(receiver, method.Obj.(*Closure))
	vm.pop()
	vm.push(ObjectVal(bound))
	return nil
}

// captureUpvalue returns the open upvalue aliasing stack slot, creating one
// if none exists yet. The open list is kept sorted by strictly descending
// Location so lookup and closeUpvalues can both stop early.
func (vm *VM) captureUpvalue(slot int) *Upvalue {
	var prev *Upvalue
	upvalue := vm.openUpvalues
	for upvalue != nil && upvalue.Location > slot {
		prev = upvalue
		upvalue = upvalue.Next
	}
	if upvalue != nil && upvalue.Location == slot {
		return upvalue
	}
	created := vm.NewUpvalue(slot)
	created.Next = upvalue
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues closes every open upvalue whose slot is at or above last,
// copying the stack value in before the owning frame's locals go away.
func (vm *VM) closeUpvalues(last int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Location >= last {
		uv := vm.openUpvalues
		uv.Closed = vm.stack[uv.Location]
		uv.Location = -1
		vm.openUpvalues = uv.Next
	}
}
