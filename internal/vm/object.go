package vm

import "fmt"

// ObjectKind tags each heap object variant.
type ObjectKind uint8

const (
	ObjKindString ObjectKind = iota
	ObjKindFunction
	ObjKindClosure
	ObjKindUpvalue
	ObjKindClass
	ObjKindInstance
	ObjKindBoundMethod
	ObjKindNative
	ObjKindList
)

// Object is implemented by every heap-allocated variant. Every Object
// carries a common header (mark flag + intrusive next-pointer) so the
// collector can walk the VM's single heap list without a side table.
type Object interface {
	Kind() ObjectKind
	Inspect() string

	isMarked() bool
	mark()
	unmark()
	heapNext() Object
	setHeapNext(Object)
}

type objHeader struct {
	marked bool
	next   Object
}

func (h *objHeader) isMarked() bool      { return h.marked }
func (h *objHeader) mark()               { h.marked = true }
func (h *objHeader) unmark()             { h.marked = false }
func (h *objHeader) heapNext() Object    { return h.next }
func (h *objHeader) setHeapNext(o Object) { h.next = o }

// ObjString is an immutable, interned byte sequence.
type ObjString struct {
	objHeader
	Chars string
	Hash  uint32
}

func (s *ObjString) Kind() ObjectKind { return ObjKindString }
func (s *ObjString) Inspect() string  { return s.Chars }

// Function is the compiled body of a function or the top-level script.
// Name is nil for the top-level script.
type Function struct {
	objHeader
	Arity        int
	UpvalueCount int
	Chunk        *Chunk
	Name         *ObjString
}

func (f *Function) Kind() ObjectKind { return ObjKindFunction }
func (f *Function) Inspect() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// Closure pairs a Function with its captured environment.
type Closure struct {
	objHeader
	Function *Function
	Upvalues []*Upvalue
}

func (c *Closure) Kind() ObjectKind { return ObjKindClosure }
func (c *Closure) Inspect() string  { return c.Function.Inspect() }

// Upvalue is the indirection a closure uses to read/write a variable
// declared in an enclosing scope. It is open (aliasing a live stack slot)
// until the frame that owns that slot returns, at which point it closes
// exactly once, copying the value in.
type Upvalue struct {
	objHeader
	Location int // stack slot index while open; -1 once closed
	Closed   Value
	Next     *Upvalue // link in the VM's open-upvalue list, sorted by descending Location
}

func (u *Upvalue) Kind() ObjectKind { return ObjKindUpvalue }
func (u *Upvalue) Inspect() string  { return "<upvalue>" }

func (u *Upvalue) isOpen() bool { return u.Location >= 0 }

// Class carries a name and a method table shared by all its instances.
type Class struct {
	objHeader
	Name    *ObjString
	Methods *Table
}

func (c *Class) Kind() ObjectKind { return ObjKindClass }
func (c *Class) Inspect() string  { return c.Name.Chars }

// Instance is a Class plus its own field table.
type Instance struct {
	objHeader
	Class  *Class
	Fields *Table
}

func (i *Instance) Kind() ObjectKind { return ObjKindInstance }
func (i *Instance) Inspect() string  { return fmt.Sprintf("<instance of %s>", i.Class.Name.Chars) }

// BoundMethod is a receiver Value paired with the Closure to call on it.
type BoundMethod struct {
	objHeader
	Receiver Value
	Method   *Closure
}

func (b *BoundMethod) Kind() ObjectKind { return ObjKindBoundMethod }
func (b *BoundMethod) Inspect() string  { return b.Method.Inspect() }

// NativeFn is the fixed signature every host-provided function matches.
type NativeFn func(vm *VM, args []Value) (Value, error)

// Native wraps a host function so the VM can call it like any other value.
type Native struct {
	objHeader
	Name string
	Fn   NativeFn
}

func (n *Native) Kind() ObjectKind { return ObjKindNative }
func (n *Native) Inspect() string  { return "<native fn>" }

// List is a growable ordered sequence of Values.
type List struct {
	objHeader
	Items []Value
}

func (l *List) Kind() ObjectKind { return ObjKindList }
func (l *List) Inspect() string {
	s := "["
	for i, v := range l.Items {
		if i > 0 {
			s += ", "
		}
		s += v.Print()
	}
	return s + "]"
}
