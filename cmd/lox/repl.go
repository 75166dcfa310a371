package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
)

func runREPL(ctx context.Context, runner *Runner, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		HistoryFile: historyFile,
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	return evalLines(ctx, runner, rl.Readline)
}

// evalLines runs each line on one VM until readLine fails. Errors are reported and the session continues.
func evalLines(ctx context.Context, runner *Runner, readLine func() (string, error)) error {
	vm, err := runner.NewVM(ctx, "repl", strings.NewReader(""))
	if err != nil {
		return err
	}
	for {
		line, err := readLine()
		if err != nil { // Ctrl-C or Ctrl-D
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := runner.Exec(ctx, vm, line); err != nil {
			fmt.Fprintln(runner.Stderr, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
