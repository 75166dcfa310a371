package loxc

import (
	"fmt"
	"math"

	"github.com/reusee/tailox/loxscan"
	"github.com/reusee/tailox/loxvm"
)

const (
	maxLocals = 256
	maxJump   = math.MaxUint16
	maxParams = 255
)

type funcKind uint8

const (
	kindScript funcKind = iota
	kindFunction
)

type local struct {
	name  loxscan.Token
	depth int // -1 until the initializer is compiled
}

type funcContext struct {
	function   *loxvm.Function
	kind       funcKind
	locals     []local
	scopeDepth int
}

type compiler struct {
	scanner     *loxscan.Scanner
	current     loxscan.Token
	previous    loxscan.Token
	hadError    bool
	panicMode   bool
	diagnostics []Diagnostic
	contexts    []*funcContext
}

func newCompiler(source []byte) *compiler {
	c := &compiler{
		scanner: loxscan.NewScanner(source),
	}
	c.pushContext(kindScript, "")
	return c
}

func (c *compiler) compile() bool {
	c.advance()
	for !c.match(loxscan.TokenEOF) {
		c.declaration()
	}
	return !c.hadError
}

func (c *compiler) pushContext(kind funcKind, name string) {
	ctx := &funcContext{
		function: loxvm.NewFunction(name),
		kind:     kind,
	}
	// slot 0 holds the callee
	ctx.locals = append(ctx.locals, local{
		depth: 0,
	})
	c.contexts = append(c.contexts, ctx)
}

// popContext finishes the current function and makes its parent current.
func (c *compiler) popContext() *loxvm.Function {
	if len(c.contexts) == 0 {
		panic("pop empty compiler context stack")
	}
	c.emitReturn()
	ctx := c.contexts[len(c.contexts)-1]
	c.contexts = c.contexts[:len(c.contexts)-1]
	return ctx.function
}

func (c *compiler) ctx() *funcContext {
	return c.contexts[len(c.contexts)-1]
}

func (c *compiler) chunk() *loxvm.Chunk {
	return c.ctx().function.Chunk
}

// tokens

func (c *compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.Next()
		if c.current.Type != loxscan.TokenError {
			break
		}
		c.errorAtCurrent(c.current.Text)
	}
}

func (c *compiler) consume(typ loxscan.TokenType, message string) {
	if c.current.Type == typ {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

func (c *compiler) check(typ loxscan.TokenType) bool {
	return c.current.Type == typ
}

func (c *compiler) match(typ loxscan.TokenType) bool {
	if !c.check(typ) {
		return false
	}
	c.advance()
	return true
}

// errors

func (c *compiler) error(message string) {
	c.errorAt(c.previous, message)
}

func (c *compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

func (c *compiler) errorAt(token loxscan.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	d := Diagnostic{
		Line:    token.Line,
		Message: message,
	}
	switch token.Type {
	case loxscan.TokenEOF:
		d.Where = "at end"
	case loxscan.TokenError:
	default:
		d.Where = "at '" + token.Text + "'"
	}
	c.diagnostics = append(c.diagnostics, d)
}

func (c *compiler) synchronize() {
	c.panicMode = false
	for c.current.Type != loxscan.TokenEOF {
		if c.previous.Type == loxscan.TokenSemicolon {
			return
		}
		switch c.current.Type {
		case loxscan.TokenClass,
			loxscan.TokenFun,
			loxscan.TokenVar,
			loxscan.TokenFor,
			loxscan.TokenIf,
			loxscan.TokenWhile,
			loxscan.TokenPrint,
			loxscan.TokenReturn:
			return
		}
		c.advance()
	}
}

// emitting

func (c *compiler) emit(op loxvm.OpCode) int {
	return c.chunk().Write(op, c.previous.Line)
}

func (c *compiler) emitReturn() {
	c.emit(loxvm.OpNil)
	c.emit(loxvm.OpReturn)
}

func (c *compiler) makeConstant(value loxvm.Value) int {
	idx := c.chunk().AddConstant(value)
	if idx > loxvm.MaxArg {
		c.error("Too many constants in one chunk")
		return 0
	}
	return idx
}

func (c *compiler) emitConstant(value loxvm.Value) {
	c.emit(loxvm.OpConstant.With(c.makeConstant(value)))
}

// emitJump emits a jump with a zero offset and returns its position for patchJump.
func (c *compiler) emitJump(op loxvm.OpCode) int {
	return c.emit(op.With(0))
}

func (c *compiler) patchJump(pos int) {
	chunk := c.chunk()
	op := chunk.Code[pos].Op()
	if op != loxvm.OpJump && op != loxvm.OpJumpIfFalse {
		panic(fmt.Errorf("patch jump at %d: not a jump: %v", pos, op))
	}
	offset := chunk.Len() - (pos + 1)
	if offset > maxJump {
		c.error("Too much code to jump over")
		return
	}
	chunk.Replace(pos, op.With(offset))
}

func (c *compiler) emitLoop(loopStart int) {
	// the VM has already stepped past the loop instruction when it subtracts
	offset := c.chunk().Len() + 1 - loopStart
	if offset > maxJump {
		c.error("Loop body too large")
		offset = 0
	}
	c.emit(loxvm.OpLoop.With(offset))
}

// scopes and variables

func (c *compiler) beginScope() {
	c.ctx().scopeDepth++
}

func (c *compiler) endScope() {
	ctx := c.ctx()
	ctx.scopeDepth--
	for len(ctx.locals) > 0 && ctx.locals[len(ctx.locals)-1].depth > ctx.scopeDepth {
		c.emit(loxvm.OpPop)
		ctx.locals = ctx.locals[:len(ctx.locals)-1]
	}
}

func (c *compiler) identifierConstant(name loxscan.Token) int {
	return c.makeConstant(loxvm.NewString(name.Text))
}

func (c *compiler) resolveLocal(ctx *funcContext, name loxscan.Token) int {
	for i := len(ctx.locals) - 1; i >= 0; i-- {
		l := ctx.locals[i]
		if l.name.Text != name.Text {
			continue
		}
		if l.depth == -1 {
			c.error("Can't read local variable in its own initializer")
		}
		return i
	}
	return -1
}

func (c *compiler) addLocal(name loxscan.Token) {
	ctx := c.ctx()
	if len(ctx.locals) == maxLocals {
		c.error("Too many local variables in function")
		return
	}
	ctx.locals = append(ctx.locals, local{
		name:  name,
		depth: -1,
	})
}

func (c *compiler) declareVariable() {
	ctx := c.ctx()
	if ctx.scopeDepth == 0 {
		return
	}
	name := c.previous
	for i := len(ctx.locals) - 1; i >= 0; i-- {
		l := ctx.locals[i]
		if l.depth != -1 && l.depth < ctx.scopeDepth {
			break
		}
		if l.name.Text == name.Text {
			c.error("Already a variable with this name in this scope")
		}
	}
	c.addLocal(name)
}

// parseVariable returns the name constant for a global, or 0 for a local.
func (c *compiler) parseVariable(message string) int {
	c.consume(loxscan.TokenIdentifier, message)
	c.declareVariable()
	if c.ctx().scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.previous)
}

func (c *compiler) markInitialized() {
	ctx := c.ctx()
	if ctx.scopeDepth == 0 {
		return
	}
	ctx.locals[len(ctx.locals)-1].depth = ctx.scopeDepth
}

func (c *compiler) defineVariable(global int) {
	if c.ctx().scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emit(loxvm.OpDefineGlobal.With(global))
}
