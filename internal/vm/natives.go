package vm

import (
	"fmt"
	"time"
)

// registerNatives installs the four built-in functions every VM instance
// exposes: clock, length, append, delete.
func (vm *VM) registerNatives() {
	vm.DefineNative("clock", nativeClock)
	vm.DefineNative("length", nativeLength)
	vm.DefineNative("append", nativeAppend)
	vm.DefineNative("delete", nativeDelete)
}

func nativeClock(vm *VM, args []Value) (Value, error) {
	if len(args) != 0 {
		return Nil(), fmt.Errorf("clock() takes no arguments.")
	}
	return NumberVal(float64(time.Now().UnixNano()) / 1e9), nil
}

func nativeLength(vm *VM, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil(), fmt.Errorf("length() takes exactly 1 argument.")
	}
	kind, ok := args[0].ObjectKind()
	if !ok || kind != ObjKindList {
		return Nil(), fmt.Errorf("length() expects a list.")
	}
	return NumberVal(float64(len(args[0].Obj.(*List).Items))), nil
}

func nativeAppend(vm *VM, args []Value) (Value, error) {
	if len(args) != 2 {
		return Nil(), fmt.Errorf("append() takes exactly 2 arguments.")
	}
	kind, ok := args[0].ObjectKind()
	if !ok || kind != ObjKindList {
		return Nil(), fmt.Errorf("append() expects a list as its first argument.")
	}
	list := args[0].Obj.(*List)
	before := len(list.Items) * 24
	list.Items = append(list.Items, args[1])
	vm.reallocate(before, len(list.Items)*24)
	return Nil(), nil
}

func nativeDelete(vm *VM, args []Value) (Value, error) {
	if len(args) != 2 {
		return Nil(), fmt.Errorf("delete() takes exactly 2 arguments.")
	}
	kind, ok := args[0].ObjectKind()
	if !ok || kind != ObjKindList {
		return Nil(), fmt.Errorf("delete() expects a list as its first argument.")
	}
	if !args[1].IsNumber() {
		return Nil(), fmt.Errorf("delete() expects a number index.")
	}
	list := args[0].Obj.(*List)
	idx := int(args[1].Num)
	if idx < 0 || idx >= len(list.Items) {
		return Nil(), fmt.Errorf("List index out of range.")
	}
	list.Items = append(list.Items[:idx], list.Items[idx+1:]...)
	return Nil(), nil
}
