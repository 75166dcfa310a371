package loxvm

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildFunction(name string, constants []Value, code ...OpCode) *Function {
	fn := NewFunction(name)
	fn.Chunk.Constants = constants
	for _, op := range code {
		fn.Chunk.Write(op, 1)
	}
	return fn
}

func run(t *testing.T, vm *VM) error {
	t.Helper()
	for _, err := range vm.Run {
		if err != nil {
			return err
		}
	}
	return nil
}

func TestVM_Negate(t *testing.T) {
	main := buildFunction("", []Value{Number(1.2)},
		OpConstant.With(0),
		OpNegate,
		OpReturn,
	)
	vm := NewVM(main)
	if err := run(t, vm); err != nil {
		t.Fatal(err)
	}
	if vm.Result != Number(-1.2) {
		t.Fatalf("got %v", vm.Result)
	}
	if vm.SP != 0 {
		t.Fatalf("stack not balanced: %d", vm.SP)
	}
}

func TestVM_BasicSum(t *testing.T) {
	// -(1.2 + 3.4 / 5.6)
	main := buildFunction("", []Value{Number(1.2), Number(3.4), Number(5.6)},
		OpConstant.With(0),
		OpConstant.With(1),
		OpConstant.With(2),
		OpDivide,
		OpAdd,
		OpNegate,
		OpReturn,
	)
	vm := NewVM(main)
	if err := run(t, vm); err != nil {
		t.Fatal(err)
	}
	a, b, c := 1.2, 3.4, 5.6
	expected := -(a + b/c)
	if vm.Result != Number(expected) {
		t.Fatalf("expected %v, got %v", expected, vm.Result)
	}
}

func TestVM_Print(t *testing.T) {
	main := buildFunction("", []Value{NewString("foo"), NewString("bar"), Number(3)},
		OpConstant.With(0),
		OpConstant.With(1),
		OpAdd,
		OpPrint,
		OpConstant.With(2),
		OpPrint,
		OpNil,
		OpPrint,
		OpTrue,
		OpNot,
		OpPrint,
		OpNil,
		OpReturn,
	)
	vm := NewVM(main)
	buf := new(bytes.Buffer)
	vm.Stdout = buf
	if err := run(t, vm); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "foobar\n3\nnil\nfalse\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestVM_Globals(t *testing.T) {
	main := buildFunction("", []Value{NewString("a"), Number(1), Number(2)},
		OpConstant.With(1),
		OpDefineGlobal.With(0),
		OpConstant.With(2),
		OpSetGlobal.With(0),
		OpPop,
		OpGetGlobal.With(0),
		OpReturn,
	)
	vm := NewVM(main)
	if err := run(t, vm); err != nil {
		t.Fatal(err)
	}
	if vm.Result != Number(2) {
		t.Fatalf("got %v", vm.Result)
	}
	a, ok := vm.Get("a")
	if !ok || a != Number(2) {
		t.Fatalf("got %v", a)
	}
}

func TestVM_UndefinedGlobal(t *testing.T) {
	for _, op := range []OpCode{OpGetGlobal, OpSetGlobal} {
		main := buildFunction("", []Value{NewString("nope")},
			OpNil,
			op.With(0),
			OpReturn,
		)
		vm := NewVM(main)
		err := run(t, vm)
		var rtErr *RuntimeError
		if !errors.As(err, &rtErr) {
			t.Fatalf("%v: expected runtime error, got %v", op, err)
		}
		if rtErr.Message != "Undefined variable 'nope'" {
			t.Fatalf("got %q", rtErr.Message)
		}
		if rtErr.Line != 1 {
			t.Fatalf("got line %d", rtErr.Line)
		}
		if vm.SP != 0 || len(vm.Frames) != 0 {
			t.Fatal("stack should be reset")
		}
	}
}

func TestVM_Locals(t *testing.T) {
	main := buildFunction("", []Value{Number(1), Number(2)},
		OpConstant.With(0), // slot 1
		OpConstant.With(1), // slot 2
		OpGetLocal.With(1),
		OpSetLocal.With(2),
		OpPop,
		OpGetLocal.With(2),
		OpPrint,
		OpPop,
		OpPop,
		OpNil,
		OpReturn,
	)
	vm := NewVM(main)
	buf := new(bytes.Buffer)
	vm.Stdout = buf
	if err := run(t, vm); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "1\n" {
		t.Fatalf("got %q", buf.String())
	}
	if vm.SP != 0 {
		t.Fatalf("got sp %d", vm.SP)
	}
}

func TestVM_Jumps(t *testing.T) {
	// if false: print 1 else print 2
	main := buildFunction("", []Value{Number(1), Number(2)},
		OpFalse,               // 0
		OpJumpIfFalse.With(4), // 1 -> 6
		OpPop,                 // 2
		OpConstant.With(0),    // 3
		OpPrint,               // 4
		OpJump.With(4),        // 5 -> 10
		OpPop,                 // 6
		OpConstant.With(1),    // 7
		OpPrint,               // 8
		OpJump.With(0),        // 9
		OpNil,                 // 10
		OpReturn,              // 11
	)
	vm := NewVM(main)
	buf := new(bytes.Buffer)
	vm.Stdout = buf
	if err := run(t, vm); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "2\n" {
		t.Fatalf("got %q", buf.String())
	}
	if vm.SP != 0 {
		t.Fatalf("got sp %d", vm.SP)
	}
}

func TestVM_Loop(t *testing.T) {
	// i = 0; while (i < 3) { print i; i = i + 1; }
	main := buildFunction("", []Value{Number(0), Number(3), Number(1)},
		OpConstant.With(0),    // 0: slot 1
		OpGetLocal.With(1),    // 1: loop start
		OpConstant.With(1),    // 2
		OpLess,                // 3
		OpJumpIfFalse.With(9), // 4 -> 14
		OpPop,                 // 5
		OpGetLocal.With(1),    // 6
		OpPrint,               // 7
		OpGetLocal.With(1),    // 8
		OpConstant.With(2),    // 9
		OpAdd,                 // 10
		OpSetLocal.With(1),    // 11
		OpPop,                 // 12
		OpLoop.With(13),       // 13 -> 1
		OpPop,                 // 14
		OpPop,                 // 15
		OpNil,                 // 16
		OpReturn,              // 17
	)
	vm := NewVM(main)
	buf := new(bytes.Buffer)
	vm.Stdout = buf
	if err := run(t, vm); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "0\n1\n2\n" {
		t.Fatalf("got %q", buf.String())
	}
	if vm.SP != 0 {
		t.Fatalf("got sp %d", vm.SP)
	}
}

func TestVM_TypeErrors(t *testing.T) {
	cases := []struct {
		code []OpCode
		msg  string
	}{
		{[]OpCode{OpTrue, OpNegate}, "Operand must be a number"},
		{[]OpCode{OpTrue, OpNil, OpLess}, "Operands must be numbers"},
		{[]OpCode{OpTrue, OpNil, OpSubtract}, "Operands must be numbers"},
		{[]OpCode{OpConstant.With(0), OpConstant.With(1), OpAdd}, "Operands must be two numbers or two strings"},
		{[]OpCode{OpConstant.With(0), OpCall.With(0)}, "Can only call functions"},
	}
	for _, c := range cases {
		main := buildFunction("", []Value{Number(1), NewString("a")}, c.code...)
		vm := NewVM(main)
		err := run(t, vm)
		var rtErr *RuntimeError
		if !errors.As(err, &rtErr) {
			t.Fatalf("expected runtime error, got %v", err)
		}
		if rtErr.Message != c.msg {
			t.Fatalf("expected %q, got %q", c.msg, rtErr.Message)
		}
	}
}

func TestVM_Equal(t *testing.T) {
	main := buildFunction("", []Value{NewString("a"), NewString("a"), Number(1)},
		OpConstant.With(0),
		OpConstant.With(1),
		OpEqual,
		OpPrint,
		OpNil,
		OpFalse,
		OpEqual,
		OpPrint,
		OpConstant.With(2),
		OpConstant.With(0),
		OpEqual,
		OpPrint,
		OpNil,
		OpReturn,
	)
	vm := NewVM(main)
	buf := new(bytes.Buffer)
	vm.Stdout = buf
	if err := run(t, vm); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "true\nfalse\nfalse\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestVM_EqualMixedTypes(t *testing.T) {
	for _, c := range []struct {
		a, b Value
		want bool
	}{
		{Nil{}, Bool(false), false},
		{Nil{}, Nil{}, true},
		{Bool(false), Number(0), false},
		{Number(1), NewString("1"), false},
		{NewString("1"), NewString("1"), true},
	} {
		main := buildFunction("", []Value{c.a, c.b},
			OpConstant.With(0),
			OpConstant.With(1),
			OpEqual,
			OpReturn,
		)
		vm := NewVM(main)
		if err := run(t, vm); err != nil {
			t.Fatalf("%v == %v: %v", c.a, c.b, err)
		}
		if vm.Result != Bool(c.want) {
			t.Fatalf("%v == %v: got %v", c.a, c.b, vm.Result)
		}
	}
}

func TestVM_Call(t *testing.T) {
	// fun add(a, b) { return a + b; }
	add := buildFunction("add", nil,
		OpGetLocal.With(1),
		OpGetLocal.With(2),
		OpAdd,
		OpReturn,
	)
	add.Arity = 2
	main := buildFunction("", []Value{add, Number(1), Number(2)},
		OpConstant.With(0),
		OpConstant.With(1),
		OpConstant.With(2),
		OpCall.With(2),
		OpReturn,
	)
	vm := NewVM(main)
	if err := run(t, vm); err != nil {
		t.Fatal(err)
	}
	if vm.Result != Number(3) {
		t.Fatalf("got %v", vm.Result)
	}
	if vm.SP != 0 {
		t.Fatalf("got sp %d", vm.SP)
	}
}

func TestVM_Arity(t *testing.T) {
	f := buildFunction("f", nil, OpNil, OpReturn)
	f.Arity = 1
	main := buildFunction("", []Value{f},
		OpConstant.With(0),
		OpCall.With(0),
		OpReturn,
	)
	vm := NewVM(main)
	err := run(t, vm)
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("got %v", err)
	}
	if rtErr.Message != "Expected 1 arguments but got 0" {
		t.Fatalf("got %q", rtErr.Message)
	}
}

func TestVM_StackOverflow(t *testing.T) {
	// fun f() { f(); }
	f := buildFunction("f", []Value{NewString("f")},
		OpGetGlobal.With(0),
		OpCall.With(0),
		OpPop,
		OpNil,
		OpReturn,
	)
	main := buildFunction("", []Value{f, NewString("f")},
		OpConstant.With(0),
		OpDefineGlobal.With(1),
		OpGetGlobal.With(1),
		OpCall.With(0),
		OpReturn,
	)
	vm := NewVM(main)
	vm.MaxFrames = 10
	err := run(t, vm)
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("got %v", err)
	}
	if rtErr.Message != "Stack overflow" {
		t.Fatalf("got %q", rtErr.Message)
	}
	if len(rtErr.Trace) != 10 {
		t.Fatalf("got %d trace lines", len(rtErr.Trace))
	}
	if rtErr.Trace[0] != "[line 1] in f()" {
		t.Fatalf("got %q", rtErr.Trace[0])
	}
	if rtErr.Trace[9] != "[line 1] in script" {
		t.Fatalf("got %q", rtErr.Trace[9])
	}
	if !strings.HasPrefix(err.Error(), "Stack overflow\n[line 1] in f()") {
		t.Fatalf("got %q", err.Error())
	}
}

func TestVM_NativeFunc(t *testing.T) {
	main := buildFunction("", []Value{NewString("twice"), Number(21)},
		OpGetGlobal.With(0),
		OpConstant.With(1),
		OpCall.With(1),
		OpReturn,
	)
	vm := NewVM(main)
	vm.DefineNative("twice", 1, func(args []Value) (Value, error) {
		return args[0].(Number) * 2, nil
	})
	if err := run(t, vm); err != nil {
		t.Fatal(err)
	}
	if vm.Result != Number(42) {
		t.Fatalf("got %v", vm.Result)
	}
	if vm.SP != 0 {
		t.Fatalf("got sp %d", vm.SP)
	}
}

func TestVM_NativeFuncError(t *testing.T) {
	main := buildFunction("", []Value{NewString("fail")},
		OpGetGlobal.With(0),
		OpCall.With(0),
		OpReturn,
	)
	vm := NewVM(main)
	vm.DefineNative("fail", 0, func(args []Value) (Value, error) {
		return nil, errors.New("boom")
	})
	err := run(t, vm)
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("got %v", err)
	}
	if rtErr.Message != "fail: boom" {
		t.Fatalf("got %q", rtErr.Message)
	}
}

func TestVM_StackGrowth(t *testing.T) {
	var code []OpCode
	for range 1000 {
		code = append(code, OpTrue)
	}
	for range 1000 {
		code = append(code, OpPop)
	}
	code = append(code, OpNil, OpReturn)
	vm := NewVM(buildFunction("", nil, code...))
	if err := run(t, vm); err != nil {
		t.Fatal(err)
	}
	if len(vm.OperandStack) < 1001 {
		t.Fatalf("stack did not grow: %d", len(vm.OperandStack))
	}
	if vm.SP != 0 {
		t.Fatalf("got sp %d", vm.SP)
	}
}

func TestVM_LeakVisible(t *testing.T) {
	main := buildFunction("", nil,
		OpTrue,
		OpNil,
		OpReturn,
	)
	vm := NewVM(main)
	if err := run(t, vm); err != nil {
		t.Fatal(err)
	}
	if vm.SP != 1 {
		t.Fatalf("expected the leaked value to remain, got sp %d", vm.SP)
	}
}

func TestVM_Steps(t *testing.T) {
	main := buildFunction("", []Value{Number(1)},
		OpConstant.With(0),
		OpReturn,
	)
	vm := NewVM(main)
	var offsets []int
	var depths []int
	for step, err := range vm.Run {
		if err != nil {
			t.Fatal(err)
		}
		offsets = append(offsets, step.Offset)
		depths = append(depths, len(step.Stack))
	}
	if len(offsets) != 2 || offsets[0] != 0 || offsets[1] != 1 {
		t.Fatalf("got %v", offsets)
	}
	if depths[0] != 1 || depths[1] != 2 {
		t.Fatalf("got %v", depths)
	}
}

func TestVM_Reload(t *testing.T) {
	vm := NewVM(buildFunction("", []Value{NewString("x"), Number(5)},
		OpConstant.With(1),
		OpDefineGlobal.With(0),
		OpNil,
		OpReturn,
	))
	if err := run(t, vm); err != nil {
		t.Fatal(err)
	}
	vm.Load(buildFunction("", []Value{NewString("x")},
		OpGetGlobal.With(0),
		OpReturn,
	))
	if err := run(t, vm); err != nil {
		t.Fatal(err)
	}
	if vm.Result != Number(5) {
		t.Fatalf("got %v", vm.Result)
	}
}
