package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/reusee/tailox/debugs"
	"github.com/reusee/tailox/logs"
	"github.com/reusee/tailox/loxc"
	"github.com/reusee/tailox/loxconfigs"
	"github.com/reusee/tailox/loxvm"
)

// Runner holds the settings shared by every way of running a program.
type Runner struct {
	Logger    logs.Logger
	Trace     bool
	Dump      bool
	MaxFrames int
	Timeout   time.Duration
	// Tap is registered as the native tap() if not nil
	Tap debugs.TapVM
	// NewSpan starts a span per program or REPL line if not nil
	NewSpan logs.NewSpan
	Stdout  io.Writer
	Stderr  io.Writer
}

func (Module) Runner(
	logger logs.Logger,
	trace loxconfigs.TraceExecution,
	dump loxconfigs.DumpBytecode,
	maxFrames loxconfigs.MaxFrames,
	timeout loxconfigs.Timeout,
	tap debugs.TapVM,
	newSpan logs.NewSpan,
) *Runner {
	if trace {
		logs.SetLevel(slog.LevelDebug)
	}
	r := &Runner{
		Logger:    logger,
		Trace:     bool(trace),
		Dump:      bool(dump),
		MaxFrames: int(maxFrames),
		Timeout:   time.Duration(timeout),
		NewSpan:   newSpan,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
	if *tapSwitch {
		r.Tap = tap
	}
	return r
}

func (r *Runner) traceLogger() *slog.Logger {
	if r.Trace {
		return r.Logger
	}
	return nil
}

func (r *Runner) span(ctx context.Context, args ...any) context.Context {
	if r.NewSpan != nil {
		ctx, _ = r.NewSpan(ctx, "", args...)
	}
	return ctx
}

// wrapError tags host errors with the span. Lox errors are shown as is.
func wrapError(ctx context.Context, err error) error {
	if err == nil || exitCode(err) != exitIOErr {
		return err
	}
	return logs.WrapSpan(ctx, err)
}

func (r *Runner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout > 0 {
		return context.WithTimeout(ctx, r.Timeout)
	}
	return context.WithCancel(ctx)
}

func (r *Runner) NewVM(ctx context.Context, name string, source io.Reader) (*loxvm.VM, error) {
	vm, err := loxc.NewVM(name, source, &loxc.Options{
		Stdout:    r.Stdout,
		Logger:    r.traceLogger(),
		MaxFrames: r.MaxFrames,
	})
	if err != nil {
		return nil, err
	}
	if r.Tap != nil {
		r.Tap.Register(ctx, vm)
	}
	return vm, nil
}

// Run compiles and runs one program.
func (r *Runner) Run(ctx context.Context, name string, source io.Reader) error {
	ctx = r.span(ctx, "script", name)
	vm, err := r.NewVM(ctx, name, source)
	if err != nil {
		return err
	}
	if r.Dump {
		main := vm.Frames[0].Fun
		if err := loxvm.Disassemble(r.Stderr, main); err != nil {
			return err
		}
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return wrapError(ctx, loxc.Run(ctx, vm, r.traceLogger()))
}

// Exec runs source on an existing VM.
func (r *Runner) Exec(ctx context.Context, vm *loxvm.VM, source string) (loxvm.Value, error) {
	ctx = r.span(ctx, "line", source)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	value, err := loxc.ExecContext(ctx, vm, source, r.traceLogger())
	return value, wrapError(ctx, err)
}

// Disassemble compiles source and prints the listing of every function in it.
func (r *Runner) Disassemble(name string, source io.Reader) error {
	fn, err := loxc.Compile(name, source)
	if err != nil {
		return err
	}
	return loxvm.Disassemble(r.Stdout, fn)
}

func openSource(path string) (name string, source io.ReadCloser, err error) {
	if path == "-" {
		return "stdin", io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	return path, f, nil
}
