package loxvm

import (
	"io"
	"os"
)

const (
	DefaultMaxFrames = 64
	initialStackSize = 256
)

type Frame struct {
	Fun  *Function
	IP   int
	Base int // operand stack index of slot 0
}

type VM struct {
	Frames       []Frame
	OperandStack []Value
	SP           int
	Globals      map[string]Value
	Stdout       io.Writer
	MaxFrames    int

	// Result holds the value returned by the outermost frame of the last successful run.
	Result Value
}

func NewVM(main *Function) *VM {
	v := &VM{
		OperandStack: make([]Value, initialStackSize),
		Globals:      make(map[string]Value),
		Stdout:       os.Stdout,
		MaxFrames:    DefaultMaxFrames,
	}
	v.Load(main)
	return v
}

// Load prepares the VM to run main from its first instruction. Globals are kept.
func (v *VM) Load(main *Function) {
	v.resetStack()
	v.Result = nil
	v.push(main)
	v.Frames = append(v.Frames, Frame{
		Fun: main,
	})
}

func (v *VM) Get(name string) (Value, bool) {
	val, ok := v.Globals[name]
	return val, ok
}

// Def defines or overwrites a global.
func (v *VM) Def(name string, val Value) {
	v.Globals[name] = val
}

func (v *VM) DefineNative(name string, arity int, fn func(args []Value) (Value, error)) {
	v.Def(name, &NativeFunc{
		Name:  name,
		Arity: arity,
		Func:  fn,
	})
}

// Stack returns the live part of the operand stack.
func (v *VM) Stack() []Value {
	return v.OperandStack[:v.SP]
}

func (v *VM) push(val Value) {
	if v.SP >= len(v.OperandStack) {
		v.growOperandStack()
	}
	v.OperandStack[v.SP] = val
	v.SP++
}

func (v *VM) growOperandStack() {
	newCap := len(v.OperandStack) * 2
	if newCap == 0 {
		newCap = 8
	}
	newStack := make([]Value, newCap)
	copy(newStack, v.OperandStack)
	v.OperandStack = newStack
}

func (v *VM) pop() Value {
	v.SP--
	val := v.OperandStack[v.SP]
	v.OperandStack[v.SP] = nil
	return val
}

func (v *VM) peek(distance int) Value {
	return v.OperandStack[v.SP-1-distance]
}

func (v *VM) drop(n int) {
	for i := v.SP - n; i < v.SP; i++ {
		v.OperandStack[i] = nil
	}
	v.SP -= n
}

func (v *VM) resetStack() {
	clear(v.OperandStack[:v.SP])
	v.SP = 0
	v.Frames = v.Frames[:0]
}
