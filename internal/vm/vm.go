package vm

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// FramesMax bounds call-stack depth; StackMax bounds the operand stack.
const (
	FramesMax = 256
	StackMax  = FramesMax * 256
)

// InterpretResult is the outcome of a call to Interpret.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

// CompileFunc is the external collaborator spec.md delegates bytecode
// generation to: given source text it returns a Function ready to be
// wrapped in a Closure and run. internal/compiler implements one.
type CompileFunc func(vm *VM, source string) (*Function, error)

// VM is the execution core: one operand stack, one call-frame stack, the
// heap, and the collector that tends it.
type VM struct {
	stack    [StackMax]Value
	stackTop int

	frames     [FramesMax]CallFrame
	frameCount int

	globals      *Table
	openUpvalues *Upvalue

	objects         Object
	bytesAllocated  int
	nextGC          int
	grayStack       []Object
	strings         internTable
	initString      *ObjString
	gcStressMode    bool
	compilerRoots   []Value

	compile CompileFunc

	out    io.Writer
	errOut io.Writer
	log    *slog.Logger

	sessionID string
}

// Option configures a VM at construction time.
type Option func(*VM)

func WithCompiler(fn CompileFunc) Option { return func(vm *VM) { vm.compile = fn } }
func WithOutput(w io.Writer) Option      { return func(vm *VM) { vm.out = w } }
func WithErrorOutput(w io.Writer) Option { return func(vm *VM) { vm.errOut = w } }
func WithLogger(l *slog.Logger) Option   { return func(vm *VM) { vm.log = l } }
func WithGCStress(on bool) Option        { return func(vm *VM) { vm.gcStressMode = on } }

// WithTuning overrides the initial GC threshold; the default is 1MiB,
// matching the original implementation's literal constant.
func WithTuning(initialThreshold int, growFactorUnused float64) Option {
	return func(vm *VM) { vm.nextGC = initialThreshold }
}

// New constructs a VM with globals initialized, the init-method name
// interned, and the four built-in natives registered.
func New(opts ...Option) *VM {
	vm := &VM{
		globals:   &Table{},
		nextGC:    1024 * 1024,
		out:       os.Stdout,
		errOut:    os.Stderr,
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.initString = vm.InternString("init")
	vm.registerNatives()
	return vm
}

// --- stack helpers -------------------------------------------------------

func (vm *VM) push(v Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[vm.stackTop-1-distance]
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
}

func (vm *VM) currentFrame() *CallFrame { return &vm.frames[vm.frameCount-1] }

// --- allocation API for the compiler and the dispatch loop ---------------

func (vm *VM) NewFunction() *Function {
	f := &Function{Chunk: NewChunk()}
	vm.registerObject(f, 64)
	return f
}

func (vm *VM) NewClosure(fn *Function) *Closure {
	c := &Closure{Function: fn, Upvalues: make([]*Upvalue, fn.UpvalueCount)}
	vm.registerObject(c, 32+fn.UpvalueCount*8)
	return c
}

func (vm *VM) NewClass(name *ObjString) *Class {
	c := &Class{Name: name, Methods: &Table{}}
	vm.registerObject(c, 48)
	return c
}

func (vm *VM) NewInstance(class *Class) *Instance {
	i := &Instance{Class: class, Fields: &Table{}}
	vm.registerObject(i, 48)
	return i
}

func (vm *VM) NewBoundMethod(receiver Value, method *Closure) *BoundMethod {
	b := &BoundMethod{Receiver: receiver, Method: method}
	vm.registerObject(b, 32)
	return b
}

func (vm *VM) NewNative(name string, fn NativeFn) *Native {
	n := &Native{Name: name, Fn: fn}
	vm.registerObject(n, 32)
	return n
}

func (vm *VM) NewList() *List {
	l := &List{}
	vm.registerObject(l, 24)
	return l
}

func (vm *VM) NewUpvalue(location int) *Upvalue {
	u := &Upvalue{Location: location}
	vm.registerObject(u, 24)
	return u
}

// PushCompilerRoot publishes a value (typically a Function mid-construction)
// as a GC root for the duration of compilation.
func (vm *VM) PushCompilerRoot(v Value) { vm.compilerRoots = append(vm.compilerRoots, v) }

// PopCompilerRoot retires the most recently published compiler root.
func (vm *VM) PopCompilerRoot() {
	if len(vm.compilerRoots) > 0 {
		vm.compilerRoots = vm.compilerRoots[:len(vm.compilerRoots)-1]
	}
}

// DefineNative registers fn under name in the global table.
func (vm *VM) DefineNative(name string, fn NativeFn) {
	nameObj := vm.InternString(name)
	vm.push(ObjectVal(nameObj))
	native := vm.NewNative(name, fn)
	vm.push(ObjectVal(native))
	vm.globals.Set(nameObj, vm.peek(0))
	vm.pop()
	vm.pop()
}

// --- entry point -----------------------------------------------------------

// Interpret compiles source via the registered CompileFunc, wraps the
// result in a Closure, installs it as the bottom call frame, and runs the
// dispatch loop to completion.
func (vm *VM) Interpret(source string) InterpretResult {
	if vm.compile == nil {
		fmt.Fprintln(vm.errOut, "no compiler registered with this VM")
		return InterpretCompileError
	}
	fn, err := vm.compile(vm, source)
	if err != nil {
		fmt.Fprintln(vm.errOut, err.Error())
		return InterpretCompileError
	}

	vm.push(ObjectVal(fn))
	closure := vm.NewClosure(fn)
	vm.pop()
	vm.push(ObjectVal(closure))
	if err := vm.callClosure(closure, 0); err != nil {
		vm.reportRuntimeError(err)
		return InterpretRuntimeError
	}

	if err := vm.run(); err != nil {
		vm.reportRuntimeError(err)
		return InterpretRuntimeError
	}
	return InterpretOK
}

// --- error reporting --------------------------------------------------------

type runtimeError struct {
	message string
}

func (e *runtimeError) Error() string { return e.message }

func (vm *VM) runtimeErrorf(format string, args ...interface{}) error {
	return &runtimeError{message: fmt.Sprintf(format, args...)}
}

// reportRuntimeError prints the error message followed by a stack trace
// (innermost frame first) and resets the stacks.
func (vm *VM) reportRuntimeError(err error) {
	fmt.Fprintln(vm.errOut, err.Error())
	for i := vm.frameCount - 1; i >= 0; i-- {
		frame := &vm.frames[i]
		fn := frame.closure.Function
		line := 0
		if frame.ip-1 >= 0 && frame.ip-1 < len(fn.Chunk.Lines) {
			line = fn.Chunk.Lines[frame.ip-1]
		}
		if fn.Name == nil {
			fmt.Fprintf(vm.errOut, "[line %d] in script\n", line)
		} else {
			fmt.Fprintf(vm.errOut, "[line %d] in %s()\n", line, fn.Name.Chars)
		}
	}
	vm.resetStack()
}
