package compiler

import (
	"fmt"

	"github.com/emberlox/emberlox/internal/vm"
)

// FunctionType distinguishes the top-level script from a user-defined
// function, a method, and a class initializer — the initializer implicitly
// returns `this` rather than whatever the return statement's expression was.
type FunctionType int

const (
	FuncTypeScript FunctionType = iota
	FuncTypeFunction
	FuncTypeMethod
	FuncTypeInitializer
)

const maxConstants = 256
const maxLocals = 256

type local struct {
	name       string
	depth      int
	isCaptured bool
}

type upvalueRef struct {
	index   byte
	isLocal bool
}

// funcState is one nested compilation scope: one per function body,
// chained to its lexically enclosing scope so upvalue capture can walk
// outward.
type funcState struct {
	enclosing  *funcState
	function   *vm.Function
	funcType   FunctionType
	locals     []local
	scopeDepth int
	upvalues   []upvalueRef
}

type classState struct {
	enclosing     *classState
	hasSuperclass bool
}

// Parser drives the scanner and emits bytecode directly as it recognizes
// each construct — there is no intermediate AST.
type Parser struct {
	vm      *vm.VM
	scanner *Scanner

	current  Token
	previous Token

	hadError  bool
	panicMode bool
	errs      []string

	fc  *funcState
	cls *classState
}

// Compile implements vm.CompileFunc: parse source top to bottom, emitting
// into one implicit top-level Function.
func Compile(vmInstance *vm.VM, source string) (*vm.Function, error) {
	p := &Parser{vm: vmInstance, scanner: NewScanner(source)}
	p.beginFunction(FuncTypeScript, "")

	p.advance()
	for !p.match(TokenEOF) {
		p.declaration()
	}

	fn, _ := p.endFunction()
	if p.hadError {
		return nil, fmt.Errorf("%s", joinErrors(p.errs))
	}
	return fn, nil
}

func joinErrors(errs []string) string {
	out := ""
	for i, e := range errs {
		if i > 0 {
			out += "\n"
		}
		out += e
	}
	return out
}

// --- token stream ---------------------------------------------------------

func (p *Parser) advance() {
	p.previous = p.current
	for {
		p.current = p.scanner.Next()
		if p.current.Type != TokenError {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *Parser) check(t TokenType) bool { return p.current.Type == t }

func (p *Parser) match(t TokenType) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(t TokenType, msg string) {
	if p.current.Type == t {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *Parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *Parser) error(msg string)          { p.errorAt(p.previous, msg) }

func (p *Parser) errorAt(tok Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true
	where := ""
	switch tok.Type {
	case TokenEOF:
		where = " at end"
	case TokenError:
		// lexical error: message is already descriptive
	default:
		where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}
	p.errs = append(p.errs, fmt.Sprintf("[line %d] Error%s: %s", tok.Line, where, msg))
}

// synchronize skips tokens until a likely statement boundary, so one parse
// error doesn't cascade into a wall of spurious ones.
func (p *Parser) synchronize() {
	p.panicMode = false
	for p.current.Type != TokenEOF {
		if p.previous.Type == TokenSemicolon {
			return
		}
		switch p.current.Type {
		case TokenClass, TokenFun, TokenVar, TokenFor, TokenIf, TokenWhile, TokenPrint, TokenPrintln, TokenReturn:
			return
		}
		p.advance()
	}
}

// --- emission --------------------------------------------------------------

func (p *Parser) chunk() *vm.Chunk { return p.fc.function.Chunk }

func (p *Parser) emitByte(b byte) { p.chunk().Write(b, p.previous.Line) }

func (p *Parser) emitOp(op vm.OpCode) { p.chunk().WriteOp(op, p.previous.Line) }

func (p *Parser) emitBytes(op vm.OpCode, operand byte) {
	p.emitOp(op)
	p.emitByte(operand)
}

func (p *Parser) emitConstant(v vm.Value) {
	idx := p.chunk().AddConstant(v)
	if idx >= maxConstants {
		p.error("Too many constants in one chunk.")
		idx = 0
	}
	p.emitBytes(vm.OpConstant, byte(idx))
}

// emitJump writes a jump opcode with a placeholder 2-byte offset and
// returns the offset of that placeholder, for patchJump to fill in later.
func (p *Parser) emitJump(op vm.OpCode) int {
	p.emitOp(op)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return len(p.chunk().Code) - 2
}

func (p *Parser) patchJump(offset int) {
	jump := len(p.chunk().Code) - offset - 2
	if jump > 0xffff {
		p.error("Too much code to jump over.")
	}
	p.chunk().Code[offset] = byte(jump >> 8)
	p.chunk().Code[offset+1] = byte(jump)
}

func (p *Parser) emitLoop(loopStart int) {
	p.emitOp(vm.OpLoop)
	offset := len(p.chunk().Code) - loopStart + 2
	if offset > 0xffff {
		p.error("Loop body too large.")
	}
	p.emitByte(byte(offset >> 8))
	p.emitByte(byte(offset))
}

func (p *Parser) emitReturn() {
	if p.fc.funcType == FuncTypeInitializer {
		p.emitBytes(vm.OpGetLocal, 0)
	} else {
		p.emitOp(vm.OpNil)
	}
	p.emitOp(vm.OpReturn)
}

// --- function scopes --------------------------------------------------------

func (p *Parser) beginFunction(funcType FunctionType, name string) {
	fn := p.vm.NewFunction()
	p.vm.PushCompilerRoot(vm.ObjectVal(fn))
	if name != "" {
		fn.Name = p.vm.InternString(name)
	}

	fc := &funcState{enclosing: p.fc, function: fn, funcType: funcType}
	// Slot 0 is reserved for the receiver (methods/initializers) or the
	// function value itself (plain calls); it is never a user-addressable
	// local, so every scope starts with it pre-declared.
	receiverName := ""
	if funcType == FuncTypeMethod || funcType == FuncTypeInitializer {
		receiverName = "this"
	}
	fc.locals = append(fc.locals, local{name: receiverName, depth: 0})
	p.fc = fc
}

func (p *Parser) endFunction() (*vm.Function, []upvalueRef) {
	p.emitReturn()
	fn := p.fc.function
	upvalues := p.fc.upvalues
	fn.UpvalueCount = len(upvalues)
	p.vm.PopCompilerRoot()
	p.fc = p.fc.enclosing
	return fn, upvalues
}

func (p *Parser) beginScope() { p.fc.scopeDepth++ }

func (p *Parser) endScope() {
	p.fc.scopeDepth--
	for len(p.fc.locals) > 0 && p.fc.locals[len(p.fc.locals)-1].depth > p.fc.scopeDepth {
		last := p.fc.locals[len(p.fc.locals)-1]
		if last.isCaptured {
			p.emitOp(vm.OpCloseUpvalue)
		} else {
			p.emitOp(vm.OpPop)
		}
		p.fc.locals = p.fc.locals[:len(p.fc.locals)-1]
	}
}

// --- variable resolution -----------------------------------------------------

func (p *Parser) identifierConstant(name string) byte {
	idx := p.chunk().AddConstant(vm.ObjectVal(p.vm.InternString(name)))
	if idx >= maxConstants {
		p.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (p *Parser) declareVariable(name string) {
	if p.fc.scopeDepth == 0 {
		return
	}
	for i := len(p.fc.locals) - 1; i >= 0; i-- {
		l := p.fc.locals[i]
		if l.depth != -1 && l.depth < p.fc.scopeDepth {
			break
		}
		if l.name == name {
			p.error("Already a variable with this name in this scope.")
		}
	}
	p.addLocal(name)
}

func (p *Parser) addLocal(name string) {
	if len(p.fc.locals) >= maxLocals {
		p.error("Too many local variables in function.")
		return
	}
	p.fc.locals = append(p.fc.locals, local{name: name, depth: -1})
}

func (p *Parser) markInitialized() {
	if p.fc.scopeDepth == 0 {
		return
	}
	p.fc.locals[len(p.fc.locals)-1].depth = p.fc.scopeDepth
}

func resolveLocal(fc *funcState, name string) int {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		if fc.locals[i].name == name {
			return i
		}
	}
	return -1
}

func resolveUpvalue(fc *funcState, name string) int {
	if fc.enclosing == nil {
		return -1
	}
	if local := resolveLocal(fc.enclosing, name); local != -1 {
		fc.enclosing.locals[local].isCaptured = true
		return addUpvalue(fc, byte(local), true)
	}
	if up := resolveUpvalue(fc.enclosing, name); up != -1 {
		return addUpvalue(fc, byte(up), false)
	}
	return -1
}

func addUpvalue(fc *funcState, index byte, isLocal bool) int {
	for i, u := range fc.upvalues {
		if u.index == index && u.isLocal == isLocal {
			return i
		}
	}
	fc.upvalues = append(fc.upvalues, upvalueRef{index: index, isLocal: isLocal})
	return len(fc.upvalues) - 1
}
