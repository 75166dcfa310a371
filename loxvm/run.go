package loxvm

import (
	"fmt"
)

// Step describes the instruction about to be executed.
type Step struct {
	Function    *Function
	Offset      int
	Instruction OpCode
	Stack       []Value
}

// Run executes the loaded function.
// A Step is yielded before each instruction; a runtime error is yielded once with a zero Step and ends the run.
func (v *VM) Run(yield func(Step, error) bool) {
	for {
		if len(v.Frames) == 0 {
			return
		}
		frame := &v.Frames[len(v.Frames)-1]
		code := frame.Fun.Chunk.Code
		if frame.IP < 0 || frame.IP >= len(code) {
			return
		}

		inst := code[frame.IP]
		if !yield(Step{
			Function:    frame.Fun,
			Offset:      frame.IP,
			Instruction: inst,
			Stack:       v.OperandStack[:v.SP],
		}, nil) {
			return
		}
		frame.IP++

		switch inst.Op() {

		case OpConstant:
			v.push(frame.Fun.Chunk.Constants[inst.Arg()])

		case OpNil:
			v.push(Nil{})

		case OpTrue:
			v.push(Bool(true))

		case OpFalse:
			v.push(Bool(false))

		case OpPop:
			v.pop()

		case OpGetLocal:
			v.push(v.OperandStack[frame.Base+inst.Arg()])

		case OpSetLocal:
			// assignment is an expression, the value stays on the stack
			v.OperandStack[frame.Base+inst.Arg()] = v.peek(0)

		case OpGetGlobal:
			name := v.constantName(frame, inst)
			val, ok := v.Globals[name]
			if !ok {
				yield(Step{}, v.runtimeError("Undefined variable '%s'", name))
				return
			}
			v.push(val)

		case OpDefineGlobal:
			name := v.constantName(frame, inst)
			v.Globals[name] = v.peek(0)
			v.pop()

		case OpSetGlobal:
			name := v.constantName(frame, inst)
			if _, ok := v.Globals[name]; !ok {
				yield(Step{}, v.runtimeError("Undefined variable '%s'", name))
				return
			}
			v.Globals[name] = v.peek(0)

		case OpEqual:
			b := v.pop()
			a := v.pop()
			v.push(Bool(Equal(a, b)))

		case OpGreater, OpLess, OpSubtract, OpMultiply, OpDivide:
			a, aok := v.peek(1).(Number)
			b, bok := v.peek(0).(Number)
			if !aok || !bok {
				yield(Step{}, v.runtimeError("Operands must be numbers"))
				return
			}
			v.drop(2)
			switch inst.Op() {
			case OpGreater:
				v.push(Bool(a > b))
			case OpLess:
				v.push(Bool(a < b))
			case OpSubtract:
				v.push(a - b)
			case OpMultiply:
				v.push(a * b)
			case OpDivide:
				v.push(a / b)
			}

		case OpAdd:
			switch a := v.peek(1).(type) {
			case Number:
				if b, ok := v.peek(0).(Number); ok {
					v.drop(2)
					v.push(a + b)
					continue
				}
			case *String:
				if b, ok := v.peek(0).(*String); ok {
					v.drop(2)
					v.push(NewString(a.Chars + b.Chars))
					continue
				}
			}
			yield(Step{}, v.runtimeError("Operands must be two numbers or two strings"))
			return

		case OpNot:
			v.push(Bool(!Truthy(v.pop())))

		case OpNegate:
			n, ok := v.peek(0).(Number)
			if !ok {
				yield(Step{}, v.runtimeError("Operand must be a number"))
				return
			}
			v.OperandStack[v.SP-1] = -n

		case OpPrint:
			val := v.pop()
			if _, err := fmt.Fprintln(v.Stdout, val.String()); err != nil {
				yield(Step{}, v.runtimeError("print: %v", err))
				return
			}

		case OpJump:
			frame.IP += inst.Arg()

		case OpJumpIfFalse:
			// the condition is left for an explicit OpPop
			if !Truthy(v.peek(0)) {
				frame.IP += inst.Arg()
			}

		case OpLoop:
			frame.IP -= inst.Arg()

		case OpCall:
			if err := v.callValue(inst.Arg()); err != nil {
				yield(Step{}, err)
				return
			}

		case OpReturn:
			result := v.pop()
			v.Frames = v.Frames[:len(v.Frames)-1]
			if len(v.Frames) == 0 {
				// pop the script slot only; anything left below it is a leak and stays visible in SP
				v.pop()
				v.Result = result
				return
			}
			v.drop(v.SP - frame.Base)
			v.push(result)

		default:
			yield(Step{}, v.runtimeError("Unknown opcode %d", inst.Op()))
			return
		}
	}
}

func (v *VM) constantName(frame *Frame, inst OpCode) string {
	return frame.Fun.Chunk.Constants[inst.Arg()].(*String).Chars
}

func (v *VM) callValue(argc int) error {
	callee := v.peek(argc)
	switch callee := callee.(type) {

	case *Function:
		if argc != callee.Arity {
			return v.runtimeError("Expected %d arguments but got %d", callee.Arity, argc)
		}
		maxFrames := v.MaxFrames
		if maxFrames <= 0 {
			maxFrames = DefaultMaxFrames
		}
		if len(v.Frames) >= maxFrames {
			return v.runtimeError("Stack overflow")
		}
		v.Frames = append(v.Frames, Frame{
			Fun:  callee,
			Base: v.SP - argc - 1,
		})
		return nil

	case *NativeFunc:
		if callee.Arity >= 0 && argc != callee.Arity {
			return v.runtimeError("Expected %d arguments but got %d", callee.Arity, argc)
		}
		args := make([]Value, argc)
		copy(args, v.OperandStack[v.SP-argc:v.SP])
		result, err := callee.Call(args)
		if err != nil {
			return v.runtimeError("%s: %v", callee.Name, err)
		}
		if result == nil {
			result = Nil{}
		}
		v.drop(argc + 1)
		v.push(result)
		return nil
	}

	return v.runtimeError("Can only call functions")
}
