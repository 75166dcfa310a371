package loxc

import (
	"github.com/reusee/tailox/loxscan"
	"github.com/reusee/tailox/loxvm"
)

type precedence uint8

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

type parseFn func(c *compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

var rules [loxscan.NumTokenTypes]parseRule

func init() {
	rules[loxscan.TokenLeftParen] = parseRule{(*compiler).grouping, (*compiler).call, precCall}
	rules[loxscan.TokenMinus] = parseRule{(*compiler).unary, (*compiler).binary, precTerm}
	rules[loxscan.TokenPlus] = parseRule{nil, (*compiler).binary, precTerm}
	rules[loxscan.TokenSlash] = parseRule{nil, (*compiler).binary, precFactor}
	rules[loxscan.TokenStar] = parseRule{nil, (*compiler).binary, precFactor}
	rules[loxscan.TokenBang] = parseRule{(*compiler).unary, nil, precNone}
	rules[loxscan.TokenBangEqual] = parseRule{nil, (*compiler).binary, precEquality}
	rules[loxscan.TokenEqualEqual] = parseRule{nil, (*compiler).binary, precEquality}
	rules[loxscan.TokenGreater] = parseRule{nil, (*compiler).binary, precComparison}
	rules[loxscan.TokenGreaterEqual] = parseRule{nil, (*compiler).binary, precComparison}
	rules[loxscan.TokenLess] = parseRule{nil, (*compiler).binary, precComparison}
	rules[loxscan.TokenLessEqual] = parseRule{nil, (*compiler).binary, precComparison}
	rules[loxscan.TokenIdentifier] = parseRule{(*compiler).variable, nil, precNone}
	rules[loxscan.TokenString] = parseRule{(*compiler).stringLiteral, nil, precNone}
	rules[loxscan.TokenNumber] = parseRule{(*compiler).number, nil, precNone}
	rules[loxscan.TokenAnd] = parseRule{nil, (*compiler).and, precAnd}
	rules[loxscan.TokenOr] = parseRule{nil, (*compiler).or, precOr}
	rules[loxscan.TokenFalse] = parseRule{(*compiler).literal, nil, precNone}
	rules[loxscan.TokenTrue] = parseRule{(*compiler).literal, nil, precNone}
	rules[loxscan.TokenNil] = parseRule{(*compiler).literal, nil, precNone}
}

func (c *compiler) expression() {
	c.parsePrecedence(precAssignment)
}

func (c *compiler) parsePrecedence(prec precedence) {
	c.advance()
	prefix := rules[c.previous.Type].prefix
	if prefix == nil {
		c.error("Expect expression")
		return
	}
	// only the outermost level may consume '='
	canAssign := prec <= precAssignment
	prefix(c, canAssign)

	for prec <= rules[c.current.Type].precedence {
		c.advance()
		rules[c.previous.Type].infix(c, canAssign)
	}

	if canAssign && c.match(loxscan.TokenEqual) {
		c.error("Invalid assignment target")
	}
}

func (c *compiler) grouping(_ bool) {
	c.expression()
	c.consume(loxscan.TokenRightParen, "Expect ')' after expression")
}

func (c *compiler) number(_ bool) {
	n, err := c.previous.Number()
	if err != nil {
		c.error("Invalid number")
		return
	}
	c.emitConstant(loxvm.Number(n))
}

func (c *compiler) stringLiteral(_ bool) {
	c.emitConstant(loxvm.NewString(c.previous.StringValue()))
}

func (c *compiler) literal(_ bool) {
	switch c.previous.Type {
	case loxscan.TokenFalse:
		c.emit(loxvm.OpFalse)
	case loxscan.TokenTrue:
		c.emit(loxvm.OpTrue)
	case loxscan.TokenNil:
		c.emit(loxvm.OpNil)
	}
}

func (c *compiler) unary(_ bool) {
	operator := c.previous.Type
	c.parsePrecedence(precUnary)
	switch operator {
	case loxscan.TokenBang:
		c.emit(loxvm.OpNot)
	case loxscan.TokenMinus:
		c.emit(loxvm.OpNegate)
	}
}

func (c *compiler) binary(_ bool) {
	operator := c.previous.Type
	c.parsePrecedence(rules[operator].precedence + 1)
	switch operator {
	case loxscan.TokenBangEqual:
		c.emit(loxvm.OpEqual)
		c.emit(loxvm.OpNot)
	case loxscan.TokenEqualEqual:
		c.emit(loxvm.OpEqual)
	case loxscan.TokenGreater:
		c.emit(loxvm.OpGreater)
	case loxscan.TokenGreaterEqual:
		c.emit(loxvm.OpLess)
		c.emit(loxvm.OpNot)
	case loxscan.TokenLess:
		c.emit(loxvm.OpLess)
	case loxscan.TokenLessEqual:
		c.emit(loxvm.OpGreater)
		c.emit(loxvm.OpNot)
	case loxscan.TokenPlus:
		c.emit(loxvm.OpAdd)
	case loxscan.TokenMinus:
		c.emit(loxvm.OpSubtract)
	case loxscan.TokenStar:
		c.emit(loxvm.OpMultiply)
	case loxscan.TokenSlash:
		c.emit(loxvm.OpDivide)
	}
}

func (c *compiler) and(_ bool) {
	endJump := c.emitJump(loxvm.OpJumpIfFalse)
	c.emit(loxvm.OpPop)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

func (c *compiler) or(_ bool) {
	elseJump := c.emitJump(loxvm.OpJumpIfFalse)
	endJump := c.emitJump(loxvm.OpJump)
	c.patchJump(elseJump)
	c.emit(loxvm.OpPop)
	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

func (c *compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

func (c *compiler) namedVariable(name loxscan.Token, canAssign bool) {
	var getOp, setOp loxvm.OpCode
	arg := c.resolveLocal(c.ctx(), name)
	if arg != -1 {
		getOp, setOp = loxvm.OpGetLocal, loxvm.OpSetLocal
	} else {
		arg = c.identifierConstant(name)
		getOp, setOp = loxvm.OpGetGlobal, loxvm.OpSetGlobal
	}
	if canAssign && c.match(loxscan.TokenEqual) {
		c.expression()
		c.emit(setOp.With(arg))
		return
	}
	c.emit(getOp.With(arg))
}

func (c *compiler) call(_ bool) {
	argc := c.argumentList()
	c.emit(loxvm.OpCall.With(argc))
}

func (c *compiler) argumentList() int {
	argc := 0
	if !c.check(loxscan.TokenRightParen) {
		for {
			c.expression()
			if argc == maxParams {
				c.error("Can't have more than 255 arguments")
			}
			argc++
			if !c.match(loxscan.TokenComma) {
				break
			}
		}
	}
	c.consume(loxscan.TokenRightParen, "Expect ')' after arguments")
	return argc
}
