package vm_test

import (
	"strings"
	"testing"

	"github.com/emberlox/emberlox/internal/vm"
)

// TestEndToEndScenarios exercises the six canonical scripts verbatim,
// checking exact stdout.
func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"arithmetic", `print 1 + 2;`, "3"},
		{"string concat", `var a = "he"; var b = "llo"; print a + b;`, "hello"},
		{"nested closure", `fun mk(n) { fun inner() { return n; } return inner; } print mk(7)();`, "7"},
		{"inherited method", `class A { greet() { print "hi"; } } class B < A {} B().greet();`, "hi"},
		{"list natives", `var xs = [10,20,30]; append(xs, 40); delete(xs, 0); print xs[1]; print length(xs);`, "303"},
		{"mutable upvalue counter", `fun c() { var i = 0; fun next() { i = i + 1; return i; } return next; } var n = c(); print n(); print n(); print n();`, "123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, errOut, result := run(t, tc.source)
			if result != vm.InterpretOK {
				t.Fatalf("result = %v, stderr = %q", result, errOut)
			}
			if strings.TrimRight(out, "\n") != tc.want {
				t.Fatalf("out = %q, want %q", out, tc.want)
			}
		})
	}
}
