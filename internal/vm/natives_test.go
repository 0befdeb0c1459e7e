package vm

import "testing"

func TestNativeLengthRejectsString(t *testing.T) {
	vm := New()
	s := vm.InternString("hello")
	if _, err := nativeLength(vm, []Value{ObjectVal(s)}); err == nil {
		t.Fatal("expected an error for a non-list argument")
	}
}

func TestNativeLengthList(t *testing.T) {
	vm := New()
	list := vm.NewList()
	list.Items = []Value{NumberVal(1), NumberVal(2)}
	v, err := nativeLength(vm, []Value{ObjectVal(list)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num != 2 {
		t.Errorf("got %v, want 2", v.Num)
	}
}

func TestNativeLengthWrongArgCount(t *testing.T) {
	vm := New()
	if _, err := nativeLength(vm, nil); err == nil {
		t.Fatal("expected an error for zero arguments")
	}
}

func TestNativeAppend(t *testing.T) {
	vm := New()
	list := vm.NewList()
	result, err := nativeAppend(vm, []Value{ObjectVal(list), NumberVal(7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsNil() {
		t.Errorf("append() should return nil, got %+v", result)
	}
	if len(list.Items) != 1 || list.Items[0].Num != 7 {
		t.Errorf("got %+v", list.Items)
	}
}

func TestNativeAppendRejectsNonList(t *testing.T) {
	vm := New()
	if _, err := nativeAppend(vm, []Value{NumberVal(1), NumberVal(2)}); err == nil {
		t.Fatal("expected an error when the first argument is not a list")
	}
}

func TestNativeDelete(t *testing.T) {
	vm := New()
	list := vm.NewList()
	list.Items = []Value{NumberVal(10), NumberVal(20), NumberVal(30)}
	result, err := nativeDelete(vm, []Value{ObjectVal(list), NumberVal(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsNil() {
		t.Errorf("delete() should return nil, got %+v", result)
	}
	if len(list.Items) != 2 || list.Items[0].Num != 10 || list.Items[1].Num != 30 {
		t.Errorf("remaining items = %+v", list.Items)
	}
}

func TestNativeDeleteOutOfRange(t *testing.T) {
	vm := New()
	list := vm.NewList()
	list.Items = []Value{NumberVal(1)}
	if _, err := nativeDelete(vm, []Value{ObjectVal(list), NumberVal(5)}); err == nil {
		t.Fatal("expected an error for an out-of-range index")
	}
}

func TestNativeClockTakesNoArguments(t *testing.T) {
	vm := New()
	if _, err := nativeClock(vm, []Value{NumberVal(1)}); err == nil {
		t.Fatal("expected an error when an argument is passed")
	}
	v, err := nativeClock(vm, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsNumber() {
		t.Error("clock() should return a number")
	}
}

func TestRegisterNativesDefinesGlobals(t *testing.T) {
	vm := New()
	for _, name := range []string{"clock", "length", "append", "delete"} {
		if _, ok := vm.globals.Get(vm.InternString(name)); !ok {
			t.Errorf("expected native %q to be registered as a global", name)
		}
	}
}
