package vm

import "fmt"

// run is the decode/dispatch loop: fetch the current frame, decode one
// instruction from its chunk, execute it, repeat. A frame pointer is
// refetched at the top of every iteration because calls and returns swap
// out the active frame underneath the loop.
func (vm *VM) run() error {
	for {
		frame := vm.currentFrame()
		op := OpCode(frame.chunk().Code[frame.ip])
		frame.ip++

		switch op {
		case OpConstant:
			idx := frame.chunk().Code[frame.ip]
			frame.ip++
			vm.push(frame.chunk().Constants[idx])

		case OpNil:
			vm.push(Nil())
		case OpTrue:
			vm.push(BoolVal(true))
		case OpFalse:
			vm.push(BoolVal(false))
		case OpPop:
			vm.pop()

		case OpGetLocal:
			slot := frame.chunk().Code[frame.ip]
			frame.ip++
			vm.push(vm.stack[frame.slots+int(slot)])
		case OpSetLocal:
			slot := frame.chunk().Code[frame.ip]
			frame.ip++
			vm.stack[frame.slots+int(slot)] = vm.peek(0)

		case OpDefineGlobal:
			name := vm.readConstantString(frame)
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case OpGetGlobal:
			name := vm.readConstantString(frame)
			val, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeErrorf("Undefined symbol '%s'.", name.Chars)
			}
			vm.push(val)
		case OpSetGlobal:
			name := vm.readConstantString(frame)
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return vm.runtimeErrorf("Undefined variable '%s'.", name.Chars)
			}

		case OpGetUpvalue:
			slot := frame.chunk().Code[frame.ip]
			frame.ip++
			uv := frame.closure.Upvalues[slot]
			if uv.isOpen() {
				vm.push(vm.stack[uv.Location])
			} else {
				vm.push(uv.Closed)
			}
		case OpSetUpvalue:
			slot := frame.chunk().Code[frame.ip]
			frame.ip++
			uv := frame.closure.Upvalues[slot]
			if uv.isOpen() {
				vm.stack[uv.Location] = vm.peek(0)
			} else {
				uv.Closed = vm.peek(0)
			}

		case OpGetProperty:
			name := vm.readConstantString(frame)
			receiver := vm.peek(0)
			instance, ok := receiver.Obj.(*Instance)
			if !receiver.IsObject() || !ok {
				return vm.runtimeErrorf("Only instances have properties.")
			}
			if val, ok := instance.Fields.Get(name); ok {
				vm.pop()
				vm.push(val)
			} else if err := vm.bindMethod(instance.Class, name); err != nil {
				return err
			}
		case OpSetProperty:
			name := vm.readConstantString(frame)
			value := vm.peek(0)
			receiver := vm.peek(1)
			instance, ok := receiver.Obj.(*Instance)
			if !receiver.IsObject() || !ok {
				return vm.runtimeErrorf("Only instances have fields.")
			}
			instance.Fields.Set(name, value)
			vm.pop()
			vm.pop()
			vm.push(value)

		case OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(BoolVal(a.Equal(b)))
		case OpGreater:
			if err := vm.numericComparison(func(a, b float64) bool { return a > b }); err != nil {
				return err
			}
		case OpLess:
			if err := vm.numericComparison(func(a, b float64) bool { return a < b }); err != nil {
				return err
			}

		case OpAdd:
			if err := vm.execAdd(); err != nil {
				return err
			}
		case OpSubtract:
			if err := vm.numericBinary(func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}
		case OpMultiply:
			if err := vm.numericBinary(func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}
		case OpDivide:
			if err := vm.numericBinary(func(a, b float64) float64 { return a / b }); err != nil {
				return err
			}
		case OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeErrorf("Operand must be a number")
			}
			vm.push(NumberVal(-vm.pop().Num))
		case OpNot:
			vm.push(BoolVal(!vm.pop().Truthy()))

		case OpPrint:
			fmt.Fprint(vm.out, vm.pop().Print())
		case OpPrintln:
			fmt.Fprintln(vm.out, vm.pop().Print())

		case OpJump:
			offset := vm.readShort(frame)
			frame.ip += offset
		case OpJumpIfFalse:
			offset := vm.readShort(frame)
			if !vm.peek(0).Truthy() {
				frame.ip += offset
			}
		case OpLoop:
			offset := vm.readShort(frame)
			frame.ip -= offset

		case OpCall:
			argCount := int(frame.chunk().Code[frame.ip])
			frame.ip++
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}
		case OpInvoke:
			name := vm.readConstantString(frame)
			argCount := int(frame.chunk().Code[frame.ip])
			frame.ip++
			if err := vm.invoke(name, argCount); err != nil {
				return err
			}
		case OpSuperInvoke:
			name := vm.readConstantString(frame)
			argCount := int(frame.chunk().Code[frame.ip])
			frame.ip++
			superclass := vm.pop().Obj.(*Class)
			if err := vm.invokeFromClass(superclass, name, argCount); err != nil {
				return err
			}

		case OpClosure:
			fn := frame.chunk().Constants[frame.chunk().Code[frame.ip]].Obj.(*Function)
			frame.ip++
			closure := vm.NewClosure(fn)
			vm.push(ObjectVal(closure))
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := frame.chunk().Code[frame.ip]
				frame.ip++
				index := int(frame.chunk().Code[frame.ip])
				frame.ip++
				if isLocal == 1 {
					closure.Upvalues[i] = vm.captureUpvalue(frame.slots + index)
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}
		case OpCloseUpvalue:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case OpClass:
			name := vm.readConstantString(frame)
			vm.push(ObjectVal(vm.NewClass(name)))
		case OpInherit:
			superVal := vm.peek(1)
			superclass, ok := superVal.Obj.(*Class)
			if !superVal.IsObject() || !ok {
				return vm.runtimeErrorf("Superclass must be a class.")
			}
			subclass := vm.peek(0).Obj.(*Class)
			superclass.Methods.AppendAll(subclass.Methods)
			vm.pop()
		case OpMethod:
			name := vm.readConstantString(frame)
			method := vm.peek(0)
			class := vm.peek(1).Obj.(*Class)
			class.Methods.Set(name, method)
			vm.pop()
		case OpGetSuper:
			name := vm.readConstantString(frame)
			superclass := vm.pop().Obj.(*Class)
			if err := vm.bindMethod(superclass, name); err != nil {
				return err
			}

		case OpListInit:
			count := int(frame.chunk().Code[frame.ip])
			frame.ip++
			items := make([]Value, count)
			copy(items, vm.stack[vm.stackTop-count:vm.stackTop])
			list := vm.NewList()
			list.Items = items
			vm.stackTop -= count
			vm.push(ObjectVal(list))
		case OpListGetIdx:
			index := vm.pop()
			target := vm.pop()
			kind, ok := target.ObjectKind()
			if !ok || kind != ObjKindList {
				return vm.runtimeErrorf("Invalid type to index into.")
			}
			if !index.IsNumber() {
				return vm.runtimeErrorf("List index is not a number.")
			}
			list := target.Obj.(*List)
			idx := int(index.Num)
			if idx < 0 || idx >= len(list.Items) {
				return vm.runtimeErrorf("List index out of range")
			}
			vm.push(list.Items[idx])
		case OpListSetIdx:
			value := vm.pop()
			index := vm.pop()
			target := vm.pop()
			kind, ok := target.ObjectKind()
			if !ok || kind != ObjKindList {
				return vm.runtimeErrorf("Invalid type to index into.")
			}
			if !index.IsNumber() {
				return vm.runtimeErrorf("List index is not a number.")
			}
			list := target.Obj.(*List)
			idx := int(index.Num)
			if idx < 0 || idx >= len(list.Items) {
				return vm.runtimeErrorf("List index out of range")
			}
			list.Items[idx] = value
			vm.push(value)

		case OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.slots)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop()
				return nil
			}
			vm.stackTop = frame.slots
			vm.push(result)

		default:
			return vm.runtimeErrorf("Unknown opcode %d.", byte(op))
		}
	}
}

func (vm *VM) readConstantString(frame *CallFrame) *ObjString {
	idx := frame.chunk().Code[frame.ip]
	frame.ip++
	return frame.chunk().Constants[idx].Obj.(*ObjString)
}

func (vm *VM) readShort(frame *CallFrame) int {
	hi := frame.chunk().Code[frame.ip]
	lo := frame.chunk().Code[frame.ip+1]
	frame.ip += 2
	return int(hi)<<8 | int(lo)
}

func (vm *VM) numericBinary(op func(a, b float64) float64) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeErrorf("Operands must be numbers.")
	}
	b := vm.pop().Num
	a := vm.pop().Num
	vm.push(NumberVal(op(a, b)))
	return nil
}

func (vm *VM) numericComparison(op func(a, b float64) bool) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeErrorf("Operands must be numbers.")
	}
	b := vm.pop().Num
	a := vm.pop().Num
	vm.push(BoolVal(op(a, b)))
	return nil
}

// execAdd implements OP_ADD: numeric addition, or string concatenation
// when both operands are strings.
func (vm *VM) execAdd() error {
	bKind, bIsObj := vm.peek(0).ObjectKind()
	aKind, aIsObj := vm.peek(1).ObjectKind()
	if aIsObj && bIsObj && aKind == ObjKindString && bKind == ObjKindString {
		b := vm.pop().Obj.(*ObjString)
		a := vm.pop().Obj.(*ObjString)
		result := vm.InternString(a.Chars + b.Chars)
		vm.push(ObjectVal(result))
		return nil
	}
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeErrorf("Operands must be two numbers or two strings.")
	}
	b := vm.pop().Num
	a := vm.pop().Num
	vm.push(NumberVal(a + b))
	return nil
}
