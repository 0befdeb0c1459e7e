package vm

import "testing"

func TestValueTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Nil(), false},
		{BoolVal(false), false},
		{BoolVal(true), true},
		{NumberVal(0), true},
		{NumberVal(-1), true},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Errorf("Truthy(%+v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestValueEqual(t *testing.T) {
	if !NumberVal(3).Equal(NumberVal(3)) {
		t.Error("equal numbers should compare equal")
	}
	if NumberVal(3).Equal(NumberVal(4)) {
		t.Error("unequal numbers should not compare equal")
	}
	if NumberVal(3).Equal(BoolVal(true)) {
		t.Error("values of different kinds should not compare equal")
	}
	if !Nil().Equal(Nil()) {
		t.Error("nil should equal nil")
	}
}

func TestValueEqualStringIdentity(t *testing.T) {
	vm := New()
	a := vm.InternString("hello")
	b := vm.InternString("hello")
	if a != b {
		t.Fatal("InternString should return the same pointer for equal content")
	}
	if !ObjectVal(a).Equal(ObjectVal(b)) {
		t.Error("interned strings with equal content should compare equal")
	}
}

func TestValuePrint(t *testing.T) {
	if NumberVal(1.5).Print() != "1.5" {
		t.Errorf("got %q", NumberVal(1.5).Print())
	}
	if BoolVal(true).Print() != "true" {
		t.Errorf("got %q", BoolVal(true).Print())
	}
	if Nil().Print() != "nil" {
		t.Errorf("got %q", Nil().Print())
	}
}
