package compiler

import "github.com/emberlox/emberlox/internal/vm"

func (p *Parser) declaration() {
	switch {
	case p.match(TokenClass):
		p.classDeclaration()
	case p.match(TokenFun):
		p.funDeclaration()
	case p.match(TokenVar):
		p.varDeclaration()
	default:
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *Parser) statement() {
	switch {
	case p.match(TokenPrint):
		p.printStatement()
	case p.match(TokenPrintln):
		p.printlnStatement()
	case p.match(TokenIf):
		p.ifStatement()
	case p.match(TokenWhile):
		p.whileStatement()
	case p.match(TokenFor):
		p.forStatement()
	case p.match(TokenReturn):
		p.returnStatement()
	case p.match(TokenLeftBrace):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *Parser) block() {
	for !p.check(TokenRightBrace) && !p.check(TokenEOF) {
		p.declaration()
	}
	p.consume(TokenRightBrace, "Expect '}' after block.")
}

func (p *Parser) varDeclaration() {
	p.consume(TokenIdentifier, "Expect variable name.")
	name := p.previous.Lexeme
	p.declareVariable(name)
	global := byte(0)
	isGlobal := p.fc.scopeDepth == 0
	if isGlobal {
		global = p.identifierConstant(name)
	}

	if p.match(TokenEqual) {
		p.expression()
	} else {
		p.emitOp(vm.OpNil)
	}
	p.consume(TokenSemicolon, "Expect ';' after variable declaration.")

	if isGlobal {
		p.emitBytes(vm.OpDefineGlobal, global)
	} else {
		p.markInitialized()
	}
}

func (p *Parser) expressionStatement() {
	p.expression()
	p.consume(TokenSemicolon, "Expect ';' after expression.")
	p.emitOp(vm.OpPop)
}

func (p *Parser) printStatement() {
	p.expression()
	p.consume(TokenSemicolon, "Expect ';' after value.")
	p.emitOp(vm.OpPrint)
}

func (p *Parser) printlnStatement() {
	p.expression()
	p.consume(TokenSemicolon, "Expect ';' after value.")
	p.emitOp(vm.OpPrintln)
}

func (p *Parser) returnStatement() {
	if p.fc.funcType == FuncTypeScript {
		p.error("Can't return from top-level code.")
	}
	if p.match(TokenSemicolon) {
		p.emitReturn()
		return
	}
	if p.fc.funcType == FuncTypeInitializer {
		p.error("Can't return a value from an initializer.")
	}
	p.expression()
	p.consume(TokenSemicolon, "Expect ';' after return value.")
	p.emitOp(vm.OpReturn)
}

func (p *Parser) ifStatement() {
	p.consume(TokenLeftParen, "Expect '(' after 'if'.")
	p.expression()
	p.consume(TokenRightParen, "Expect ')' after condition.")

	thenJump := p.emitJump(vm.OpJumpIfFalse)
	p.emitOp(vm.OpPop)
	p.statement()

	elseJump := p.emitJump(vm.OpJump)
	p.patchJump(thenJump)
	p.emitOp(vm.OpPop)

	if p.match(TokenElse) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *Parser) whileStatement() {
	loopStart := len(p.chunk().Code)
	p.consume(TokenLeftParen, "Expect '(' after 'while'.")
	p.expression()
	p.consume(TokenRightParen, "Expect ')' after condition.")

	exitJump := p.emitJump(vm.OpJumpIfFalse)
	p.emitOp(vm.OpPop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(vm.OpPop)
}

func (p *Parser) forStatement() {
	p.beginScope()
	p.consume(TokenLeftParen, "Expect '(' after 'for'.")

	if p.match(TokenSemicolon) {
		// no initializer
	} else if p.match(TokenVar) {
		p.varDeclaration()
	} else {
		p.expressionStatement()
	}

	loopStart := len(p.chunk().Code)
	exitJump := -1
	if !p.match(TokenSemicolon) {
		p.expression()
		p.consume(TokenSemicolon, "Expect ';' after loop condition.")
		exitJump = p.emitJump(vm.OpJumpIfFalse)
		p.emitOp(vm.OpPop)
	}

	if !p.match(TokenRightParen) {
		bodyJump := p.emitJump(vm.OpJump)
		incrementStart := len(p.chunk().Code)
		p.expression()
		p.emitOp(vm.OpPop)
		p.consume(TokenRightParen, "Expect ')' after for clauses.")

		p.emitLoop(loopStart)
		loopStart = incrementStart
		p.patchJump(bodyJump)
	}

	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(vm.OpPop)
	}
	p.endScope()
}

func (p *Parser) funDeclaration() {
	p.consume(TokenIdentifier, "Expect function name.")
	name := p.previous.Lexeme
	p.declareVariable(name)
	global := byte(0)
	isGlobal := p.fc.scopeDepth == 0
	if isGlobal {
		global = p.identifierConstant(name)
	} else {
		p.markInitialized()
	}

	p.function(FuncTypeFunction, name)

	if isGlobal {
		p.emitBytes(vm.OpDefineGlobal, global)
	}
}

func (p *Parser) function(funcType FunctionType, name string) {
	p.beginFunction(funcType, name)
	p.beginScope()

	p.consume(TokenLeftParen, "Expect '(' after function name.")
	if !p.check(TokenRightParen) {
		for {
			p.fc.function.Arity++
			if p.fc.function.Arity > 255 {
				p.error("Can't have more than 255 parameters.")
			}
			p.consume(TokenIdentifier, "Expect parameter name.")
			p.declareVariable(p.previous.Lexeme)
			p.markInitialized()
			if !p.match(TokenComma) {
				break
			}
		}
	}
	p.consume(TokenRightParen, "Expect ')' after parameters.")
	p.consume(TokenLeftBrace, "Expect '{' before function body.")
	p.block()

	fn, upvalues := p.endFunction()

	idx := p.chunk().AddConstant(vm.ObjectVal(fn))
	if idx >= maxConstants {
		p.error("Too many constants in one chunk.")
		idx = 0
	}
	p.emitBytes(vm.OpClosure, byte(idx))
	for _, u := range upvalues {
		if u.isLocal {
			p.emitByte(1)
		} else {
			p.emitByte(0)
		}
		p.emitByte(u.index)
	}
}

func (p *Parser) classDeclaration() {
	p.consume(TokenIdentifier, "Expect class name.")
	name := p.previous.Lexeme
	nameConst := p.identifierConstant(name)
	p.declareVariable(name)

	p.emitBytes(vm.OpClass, nameConst)
	if p.fc.scopeDepth == 0 {
		p.emitBytes(vm.OpDefineGlobal, nameConst)
	} else {
		p.markInitialized()
	}

	cls := &classState{enclosing: p.cls}
	p.cls = cls

	if p.match(TokenLess) {
		p.consume(TokenIdentifier, "Expect superclass name.")
		p.variable(false)
		if p.previous.Lexeme == name {
			p.error("A class can't inherit from itself.")
		}

		p.beginScope()
		p.addLocal("super")
		p.markInitialized()

		p.namedVariable(name, false)
		p.emitOp(vm.OpInherit)
		cls.hasSuperclass = true
	}

	p.namedVariable(name, false)
	p.consume(TokenLeftBrace, "Expect '{' before class body.")
	for !p.check(TokenRightBrace) && !p.check(TokenEOF) {
		p.method()
	}
	p.consume(TokenRightBrace, "Expect '}' after class body.")
	p.emitOp(vm.OpPop)

	if cls.hasSuperclass {
		p.endScope()
	}
	p.cls = cls.enclosing
}

func (p *Parser) method() {
	p.consume(TokenIdentifier, "Expect method name.")
	name := p.previous.Lexeme
	nameConst := p.identifierConstant(name)

	funcType := FuncTypeMethod
	if name == "init" {
		funcType = FuncTypeInitializer
	}
	p.function(funcType, name)
	p.emitBytes(vm.OpMethod, nameConst)
}
