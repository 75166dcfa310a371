package loxc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/reusee/tailox/loxvm"
)

// Exec compiles src and runs it on vm. Globals defined by earlier runs stay visible.
func Exec(vm *loxvm.VM, src any) (loxvm.Value, error) {
	return ExecContext(context.Background(), vm, src, nil)
}

// ExecContext is Exec bounded by ctx. Execution is traced to logger at debug level if logger is not nil.
func ExecContext(ctx context.Context, vm *loxvm.VM, src any, logger *slog.Logger) (loxvm.Value, error) {
	var srcBytes []byte
	switch s := src.(type) {
	case string:
		srcBytes = []byte(s)
	case []byte:
		srcBytes = s
	case io.Reader:
		b, err := io.ReadAll(s)
		if err != nil {
			return nil, err
		}
		srcBytes = b
	default:
		srcBytes = []byte(fmt.Sprint(s))
	}

	fn, err := compileBytes("exec", srcBytes)
	if err != nil {
		return nil, err
	}
	vm.Load(fn)
	if err := Run(ctx, vm, logger); err != nil {
		return nil, err
	}
	return vm.Result, nil
}

const checkInterval = 1024

// Run drives vm until the loaded function returns, a runtime error occurs or ctx is done.
func Run(ctx context.Context, vm *loxvm.VM, logger *slog.Logger) error {
	trace := logger != nil && logger.Enabled(ctx, slog.LevelDebug)
	steps := 0
	for step, err := range vm.Run {
		if err != nil {
			return err
		}
		steps++
		if steps%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("interrupted after %d steps: %w", steps, err)
			}
		}
		if trace {
			logger.DebugContext(ctx, "step",
				"function", step.Function.String(),
				"offset", step.Offset,
				"instruction", step.Instruction.String(),
				"arg", step.Instruction.Arg(),
				"stack", formatStack(step.Stack),
			)
		}
	}
	return nil
}

func formatStack(stack []loxvm.Value) string {
	var b strings.Builder
	for _, v := range stack {
		b.WriteString("[ ")
		b.WriteString(v.String())
		b.WriteString(" ]")
	}
	return b.String()
}

// Output runs src on a fresh VM and returns everything it printed.
func Output(name string, src string) (string, error) {
	buf := new(bytes.Buffer)
	vm, err := NewVM(name, strings.NewReader(src), &Options{
		Stdout: buf,
	})
	if err != nil {
		return "", err
	}
	err = Run(context.Background(), vm, nil)
	return buf.String(), err
}
