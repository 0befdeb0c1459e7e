package compiler

import (
	"strconv"
	"testing"

	"github.com/emberlox/emberlox/internal/vm"
)

func TestCompileValidProgram(t *testing.T) {
	m := vm.New()
	fn, err := Compile(m, `print 1 + 1;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn == nil {
		t.Fatal("expected a non-nil Function")
	}
}

func TestCompileSyntaxError(t *testing.T) {
	m := vm.New()
	_, err := Compile(m, `var = 1;`)
	if err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestCompileRedeclaredLocal(t *testing.T) {
	m := vm.New()
	_, err := Compile(m, `{ var a = 1; var a = 2; }`)
	if err == nil {
		t.Fatal("expected an error for redeclaring a local in the same scope")
	}
}

func TestCompileReturnOutsideFunction(t *testing.T) {
	m := vm.New()
	_, err := Compile(m, `return 1;`)
	if err == nil {
		t.Fatal("expected an error for return at top level")
	}
}

func TestCompileThisOutsideClass(t *testing.T) {
	m := vm.New()
	_, err := Compile(m, `print this;`)
	if err == nil {
		t.Fatal("expected an error for 'this' outside a class")
	}
}

func TestCompileSuperWithoutSuperclass(t *testing.T) {
	m := vm.New()
	_, err := Compile(m, `class A { foo() { super.foo(); } }`)
	if err == nil {
		t.Fatal("expected an error for 'super' in a class with no superclass")
	}
}

func TestCompileClassInheritingFromItself(t *testing.T) {
	m := vm.New()
	_, err := Compile(m, `class A < A {}`)
	if err == nil {
		t.Fatal("expected an error for a class inheriting from itself")
	}
}

func TestCompileAnonymousFunctionExpression(t *testing.T) {
	m := vm.New()
	_, err := Compile(m, `var f = fun(a, b) { return a + b; };`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCompileTooManyParameters(t *testing.T) {
	m := vm.New()
	params := ""
	for i := 0; i < 256; i++ {
		if i > 0 {
			params += ", "
		}
		params += "p" + strconv.Itoa(i)
	}
	_, err := Compile(m, `fun f(`+params+`) {}`)
	if err == nil {
		t.Fatal("expected an error for more than 255 parameters")
	}
}
