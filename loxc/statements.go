package loxc

import (
	"github.com/reusee/tailox/loxscan"
	"github.com/reusee/tailox/loxvm"
)

func (c *compiler) declaration() {
	switch {
	case c.match(loxscan.TokenFun):
		c.funDeclaration()
	case c.match(loxscan.TokenVar):
		c.varDeclaration()
	default:
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *compiler) funDeclaration() {
	global := c.parseVariable("Expect function name")
	// a function may refer to itself
	c.markInitialized()
	c.function(kindFunction)
	c.defineVariable(global)
}

func (c *compiler) function(kind funcKind) {
	c.pushContext(kind, c.previous.Text)
	c.beginScope()

	c.consume(loxscan.TokenLeftParen, "Expect '(' after function name")
	if !c.check(loxscan.TokenRightParen) {
		for {
			fn := c.ctx().function
			fn.Arity++
			if fn.Arity > maxParams {
				c.errorAtCurrent("Can't have more than 255 parameters")
			}
			constant := c.parseVariable("Expect parameter name")
			c.defineVariable(constant)
			if !c.match(loxscan.TokenComma) {
				break
			}
		}
	}
	c.consume(loxscan.TokenRightParen, "Expect ')' after parameters")
	c.consume(loxscan.TokenLeftBrace, "Expect '{' before function body")
	c.block()

	// locals die with the frame, no endScope
	fn := c.popContext()
	c.emitConstant(fn)
}

func (c *compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name")
	if c.match(loxscan.TokenEqual) {
		c.expression()
	} else {
		c.emit(loxvm.OpNil)
	}
	c.consume(loxscan.TokenSemicolon, "Expect ';' after variable declaration")
	c.defineVariable(global)
}

func (c *compiler) statement() {
	switch {
	case c.match(loxscan.TokenPrint):
		c.printStatement()
	case c.match(loxscan.TokenIf):
		c.ifStatement()
	case c.match(loxscan.TokenWhile):
		c.whileStatement()
	case c.match(loxscan.TokenFor):
		c.forStatement()
	case c.match(loxscan.TokenReturn):
		c.returnStatement()
	case c.match(loxscan.TokenLeftBrace):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *compiler) block() {
	for !c.check(loxscan.TokenRightBrace) && !c.check(loxscan.TokenEOF) {
		c.declaration()
	}
	c.consume(loxscan.TokenRightBrace, "Expect '}' after block")
}

func (c *compiler) printStatement() {
	c.expression()
	c.consume(loxscan.TokenSemicolon, "Expect ';' after value")
	c.emit(loxvm.OpPrint)
}

func (c *compiler) expressionStatement() {
	c.expression()
	c.consume(loxscan.TokenSemicolon, "Expect ';' after expression")
	c.emit(loxvm.OpPop)
}

func (c *compiler) returnStatement() {
	if c.ctx().kind == kindScript {
		c.error("Can't return from top-level code")
	}
	if c.match(loxscan.TokenSemicolon) {
		c.emitReturn()
		return
	}
	c.expression()
	c.consume(loxscan.TokenSemicolon, "Expect ';' after return value")
	c.emit(loxvm.OpReturn)
}

func (c *compiler) ifStatement() {
	c.consume(loxscan.TokenLeftParen, "Expect '(' after 'if'")
	c.expression()
	c.consume(loxscan.TokenRightParen, "Expect ')' after condition")

	thenJump := c.emitJump(loxvm.OpJumpIfFalse)
	c.emit(loxvm.OpPop)
	c.statement()
	elseJump := c.emitJump(loxvm.OpJump)

	c.patchJump(thenJump)
	c.emit(loxvm.OpPop)
	if c.match(loxscan.TokenElse) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *compiler) whileStatement() {
	loopStart := c.chunk().Len()
	c.consume(loxscan.TokenLeftParen, "Expect '(' after 'while'")
	c.expression()
	c.consume(loxscan.TokenRightParen, "Expect ')' after condition")

	exitJump := c.emitJump(loxvm.OpJumpIfFalse)
	c.emit(loxvm.OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emit(loxvm.OpPop)
}

func (c *compiler) forStatement() {
	c.beginScope()
	c.consume(loxscan.TokenLeftParen, "Expect '(' after 'for'")
	switch {
	case c.match(loxscan.TokenSemicolon):
	case c.match(loxscan.TokenVar):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := c.chunk().Len()
	exitJump := -1
	if !c.match(loxscan.TokenSemicolon) {
		c.expression()
		c.consume(loxscan.TokenSemicolon, "Expect ';' after loop condition")
		exitJump = c.emitJump(loxvm.OpJumpIfFalse)
		c.emit(loxvm.OpPop)
	}

	if !c.match(loxscan.TokenRightParen) {
		// the increment is emitted here but runs after the body
		bodyJump := c.emitJump(loxvm.OpJump)
		incrementStart := c.chunk().Len()
		c.expression()
		c.emit(loxvm.OpPop)
		c.consume(loxscan.TokenRightParen, "Expect ')' after for clauses")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emit(loxvm.OpPop)
	}
	c.endScope()
}
