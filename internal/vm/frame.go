package vm

// CallFrame is the activation record for one in-progress call. slots is the
// frame's base offset into the VM's value stack: slots[0] is the callee
// (the receiver, for methods), slots[1:] are arguments followed by locals
// and temporaries.
type CallFrame struct {
	closure *Closure
	ip      int
	slots   int
}

func (f *CallFrame) chunk() *Chunk { return f.closure.Function.Chunk }
