// Package vm implements the execution core: the value/object model, the
// instruction decode/dispatch loop, and the tracing garbage collector.
package vm

// OpCode is a single VM instruction. Operands are encoded inline after the
// opcode byte, per spec: a 1-byte constant-pool index, a 1-byte stack/
// upvalue-slot index, a 2-byte big-endian jump offset, or (for CLOSURE)
// 2 bytes per upvalue.
type OpCode byte

const (
	OpConstant OpCode = iota
	OpNil
	OpTrue
	OpFalse
	OpPop

	OpGetLocal
	OpSetLocal
	OpDefineGlobal
	OpGetGlobal
	OpSetGlobal
	OpGetUpvalue
	OpSetUpvalue

	OpGetProperty
	OpSetProperty

	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNegate
	OpNot

	OpPrint
	OpPrintln

	OpJump
	OpJumpIfFalse
	OpLoop

	OpCall
	OpInvoke
	OpSuperInvoke

	OpClosure
	OpCloseUpvalue

	OpClass
	OpInherit
	OpMethod
	OpGetSuper

	OpListInit
	OpListGetIdx
	OpListSetIdx

	OpReturn
)

var opcodeNames = map[OpCode]string{
	OpConstant:     "CONSTANT",
	OpNil:          "NIL",
	OpTrue:         "TRUE",
	OpFalse:        "FALSE",
	OpPop:          "POP",
	OpGetLocal:     "GET_LOCAL",
	OpSetLocal:     "SET_LOCAL",
	OpDefineGlobal: "DEFINE_GLOBAL",
	OpGetGlobal:    "GET_GLOBAL",
	OpSetGlobal:    "SET_GLOBAL",
	OpGetUpvalue:   "GET_UPVALUE",
	OpSetUpvalue:   "SET_UPVALUE",
	OpGetProperty:  "GET_PROPERTY",
	OpSetProperty:  "SET_PROPERTY",
	OpEqual:        "EQUAL",
	OpGreater:      "GREATER",
	OpLess:         "LESS",
	OpAdd:          "ADD",
	OpSubtract:     "SUBTRACT",
	OpMultiply:     "MULTIPLY",
	OpDivide:       "DIVIDE",
	OpNegate:       "NEGATE",
	OpNot:          "NOT",
	OpPrint:        "PRINT",
	OpPrintln:      "PRINTLN",
	OpJump:         "JUMP",
	OpJumpIfFalse:  "JUMP_IF_FALSE",
	OpLoop:         "LOOP",
	OpCall:         "CALL",
	OpInvoke:       "INVOKE",
	OpSuperInvoke:  "SUPER_INVOKE",
	OpClosure:      "CLOSURE",
	OpCloseUpvalue: "CLOSE_UPVALUE",
	OpClass:        "CLASS",
	OpInherit:      "INHERIT",
	OpMethod:       "METHOD",
	OpGetSuper:     "GET_SUPER",
	OpListInit:     "LIST_INIT",
	OpListGetIdx:   "LIST_GETIDX",
	OpListSetIdx:   "LIST_SETIDX",
	OpReturn:       "RETURN",
}

func (op OpCode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}
