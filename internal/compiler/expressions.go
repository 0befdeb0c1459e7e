package compiler

import (
	"strconv"

	"github.com/emberlox/emberlox/internal/vm"
)

type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . () []
	precPrimary
)

type parseFn func(p *Parser, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

var rules map[TokenType]parseRule

func init() {
	rules = map[TokenType]parseRule{
		TokenLeftParen:    {prefix: (*Parser).grouping, infix: (*Parser).call, precedence: precCall},
		TokenLeftBracket:  {prefix: (*Parser).listLiteral, infix: (*Parser).subscript, precedence: precCall},
		TokenDot:          {infix: (*Parser).dot, precedence: precCall},
		TokenMinus:        {prefix: (*Parser).unary, infix: (*Parser).binary, precedence: precTerm},
		TokenPlus:         {infix: (*Parser).binary, precedence: precTerm},
		TokenSlash:        {infix: (*Parser).binary, precedence: precFactor},
		TokenStar:         {infix: (*Parser).binary, precedence: precFactor},
		TokenBang:         {prefix: (*Parser).unary},
		TokenBangEqual:    {infix: (*Parser).binary, precedence: precEquality},
		TokenEqualEqual:   {infix: (*Parser).binary, precedence: precEquality},
		TokenGreater:      {infix: (*Parser).binary, precedence: precComparison},
		TokenGreaterEqual: {infix: (*Parser).binary, precedence: precComparison},
		TokenLess:         {infix: (*Parser).binary, precedence: precComparison},
		TokenLessEqual:    {infix: (*Parser).binary, precedence: precComparison},
		TokenIdentifier:   {prefix: (*Parser).variableExpr},
		TokenString:       {prefix: (*Parser).stringExpr},
		TokenNumber:       {prefix: (*Parser).numberExpr},
		TokenAnd:          {infix: (*Parser).and, precedence: precAnd},
		TokenOr:           {infix: (*Parser).or, precedence: precOr},
		TokenFalse:        {prefix: (*Parser).literal},
		TokenTrue:         {prefix: (*Parser).literal},
		TokenNil:          {prefix: (*Parser).literal},
		TokenThis:         {prefix: (*Parser).this},
		TokenSuper:        {prefix: (*Parser).super},
		TokenFun:          {prefix: (*Parser).functionExpr},
	}
}

// functionExpr compiles an anonymous `fun(params) { ... }` appearing in
// expression position — a closure value with no bound name.
func (p *Parser) functionExpr(canAssign bool) { p.function(FuncTypeFunction, "") }

func (p *Parser) getRule(t TokenType) parseRule { return rules[t] }

func (p *Parser) expression() { p.parsePrecedence(precAssignment) }

func (p *Parser) parsePrecedence(prec precedence) {
	p.advance()
	rule := p.getRule(p.previous.Type)
	if rule.prefix == nil {
		p.error("Expect expression.")
		return
	}
	canAssign := prec <= precAssignment
	rule.prefix(p, canAssign)

	for prec <= p.getRule(p.current.Type).precedence {
		p.advance()
		infix := p.getRule(p.previous.Type).infix
		infix(p, canAssign)
	}
}

func (p *Parser) numberExpr(canAssign bool) {
	n, _ := strconv.ParseFloat(p.previous.Lexeme, 64)
	p.emitConstant(vm.NumberVal(n))
}

func (p *Parser) stringExpr(canAssign bool) {
	s := p.vm.InternString(p.previous.Literal)
	p.emitConstant(vm.ObjectVal(s))
}

func (p *Parser) literal(canAssign bool) {
	switch p.previous.Type {
	case TokenFalse:
		p.emitOp(vm.OpFalse)
	case TokenTrue:
		p.emitOp(vm.OpTrue)
	case TokenNil:
		p.emitOp(vm.OpNil)
	}
}

func (p *Parser) grouping(canAssign bool) {
	p.expression()
	p.consume(TokenRightParen, "Expect ')' after expression.")
}

func (p *Parser) unary(canAssign bool) {
	opType := p.previous.Type
	p.parsePrecedence(precUnary)
	switch opType {
	case TokenBang:
		p.emitOp(vm.OpNot)
	case TokenMinus:
		p.emitOp(vm.OpNegate)
	}
}

func (p *Parser) binary(canAssign bool) {
	opType := p.previous.Type
	rule := p.getRule(opType)
	p.parsePrecedence(rule.precedence + 1)

	switch opType {
	case TokenPlus:
		p.emitOp(vm.OpAdd)
	case TokenMinus:
		p.emitOp(vm.OpSubtract)
	case TokenStar:
		p.emitOp(vm.OpMultiply)
	case TokenSlash:
		p.emitOp(vm.OpDivide)
	case TokenBangEqual:
		p.emitOp(vm.OpEqual)
		p.emitOp(vm.OpNot)
	case TokenEqualEqual:
		p.emitOp(vm.OpEqual)
	case TokenGreater:
		p.emitOp(vm.OpGreater)
	case TokenGreaterEqual:
		p.emitOp(vm.OpLess)
		p.emitOp(vm.OpNot)
	case TokenLess:
		p.emitOp(vm.OpLess)
	case TokenLessEqual:
		p.emitOp(vm.OpGreater)
		p.emitOp(vm.OpNot)
	}
}

func (p *Parser) and(canAssign bool) {
	endJump := p.emitJump(vm.OpJumpIfFalse)
	p.emitOp(vm.OpPop)
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

func (p *Parser) or(canAssign bool) {
	elseJump := p.emitJump(vm.OpJumpIfFalse)
	endJump := p.emitJump(vm.OpJump)

	p.patchJump(elseJump)
	p.emitOp(vm.OpPop)

	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

func (p *Parser) call(canAssign bool) {
	argCount := p.argumentList()
	p.emitBytes(vm.OpCall, argCount)
}

func (p *Parser) argumentList() byte {
	count := 0
	if !p.check(TokenRightParen) {
		for {
			p.expression()
			if count == 255 {
				p.error("Can't have more than 255 arguments.")
			}
			count++
			if !p.match(TokenComma) {
				break
			}
		}
	}
	p.consume(TokenRightParen, "Expect ')' after arguments.")
	return byte(count)
}

func (p *Parser) dot(canAssign bool) {
	p.consume(TokenIdentifier, "Expect property name after '.'.")
	name := p.identifierConstant(p.previous.Lexeme)

	if canAssign && p.match(TokenEqual) {
		p.expression()
		p.emitBytes(vm.OpSetProperty, name)
	} else if p.match(TokenLeftParen) {
		argCount := p.argumentList()
		p.emitBytes(vm.OpInvoke, name)
		p.emitByte(argCount)
	} else {
		p.emitBytes(vm.OpGetProperty, name)
	}
}

func (p *Parser) listLiteral(canAssign bool) {
	count := 0
	if !p.check(TokenRightBracket) {
		for {
			p.expression()
			if count == 255 {
				p.error("Can't have more than 255 elements in a list literal.")
			}
			count++
			if !p.match(TokenComma) {
				break
			}
		}
	}
	p.consume(TokenRightBracket, "Expect ']' after list elements.")
	p.emitBytes(vm.OpListInit, byte(count))
}

func (p *Parser) subscript(canAssign bool) {
	p.expression()
	p.consume(TokenRightBracket, "Expect ']' after index.")

	if canAssign && p.match(TokenEqual) {
		p.expression()
		p.emitOp(vm.OpListSetIdx)
	} else {
		p.emitOp(vm.OpListGetIdx)
	}
}

func (p *Parser) this(canAssign bool) {
	if p.cls == nil {
		p.error("Can't use 'this' outside of a class.")
		return
	}
	p.variableExpr(false)
}

func (p *Parser) super(canAssign bool) {
	if p.cls == nil {
		p.error("Can't use 'super' outside of a class.")
	} else if !p.cls.hasSuperclass {
		p.error("Can't use 'super' in a class with no superclass.")
	}

	p.consume(TokenDot, "Expect '.' after 'super'.")
	p.consume(TokenIdentifier, "Expect superclass method name.")
	name := p.identifierConstant(p.previous.Lexeme)

	p.namedVariable("this", false)
	if p.match(TokenLeftParen) {
		argCount := p.argumentList()
		p.namedVariable("super", false)
		p.emitBytes(vm.OpSuperInvoke, name)
		p.emitByte(argCount)
	} else {
		p.namedVariable("super", false)
		p.emitBytes(vm.OpGetSuper, name)
	}
}

func (p *Parser) variableExpr(canAssign bool) { p.namedVariable(p.previous.Lexeme, canAssign) }

func (p *Parser) variable(canAssign bool) { p.namedVariable(p.previous.Lexeme, canAssign) }

func (p *Parser) namedVariable(name string, canAssign bool) {
	getOp, setOp := vm.OpGetGlobal, vm.OpSetGlobal
	var arg int

	if slot := resolveLocal(p.fc, name); slot != -1 {
		getOp, setOp = vm.OpGetLocal, vm.OpSetLocal
		arg = slot
	} else if slot := resolveUpvalue(p.fc, name); slot != -1 {
		getOp, setOp = vm.OpGetUpvalue, vm.OpSetUpvalue
		arg = slot
	} else {
		arg = int(p.identifierConstant(name))
	}

	if canAssign && p.match(TokenEqual) {
		p.expression()
		p.emitBytes(setOp, byte(arg))
	} else {
		p.emitBytes(getOp, byte(arg))
	}
}
