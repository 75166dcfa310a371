package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/tailox/cmds"
	"github.com/reusee/tailox/conformance"
	"github.com/reusee/tailox/logs"
	"github.com/reusee/tailox/loxconfigs"
	"github.com/reusee/tailox/loxserve"
	"github.com/reusee/tailox/modes"
	"golang.org/x/term"
)

var (
	runFile      = cmds.Var[string]("run", "run a file, - for stdin")
	disFile      = cmds.Var[string]("dis", "disassemble a file")
	evalSource   = cmds.Var[string]("eval", "run source from the argument")
	replSwitch   = cmds.Switch("repl", "interactive session")
	serveSwitch  = cmds.Switch("serve", "websocket playground")
	tokenSubject = cmds.Var[string]("token", "issue a playground token for a subject")
	tokenTTL     = cmds.Var[time.Duration]("-ttl", "token lifetime")
	suiteDir     = cmds.Var[string]("conformance", "run suites in a directory, or builtin")
	tapSwitch    = cmds.Switch("-tap", "define tap() to inspect the VM")
)

func main() {
	cmds.Execute(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)
	scope, err := loxconfigs.ScriptFork(scope)
	exit(err)

	scope.Call(func(
		logger logs.Logger,
		runner *Runner,
		server *loxserve.Server,
		addr loxconfigs.ServeAddr,
		secret loxconfigs.ServeSecret,
		historyFile loxconfigs.HistoryFile,
	) {
		switch {

		case *tokenSubject != "":
			token, err := issueToken(secret, *tokenSubject, *tokenTTL)
			exit(err)
			fmt.Println(token)

		case *suiteDir != "":
			os.Exit(runConformance(logger, *suiteDir))

		case *serveSwitch:
			ce(server.Serve(ctx, string(addr), nil))

		case *disFile != "":
			name, source, err := openSource(*disFile)
			exit(err)
			defer source.Close()
			exit(runner.Disassemble(name, source))

		case *evalSource != "":
			exit(runner.Run(ctx, "eval", strings.NewReader(*evalSource)))

		case *runFile != "":
			name, source, err := openSource(*runFile)
			exit(err)
			defer source.Close()
			exit(runner.Run(ctx, name, source))

		case *replSwitch || term.IsTerminal(int(os.Stdin.Fd())):
			ce(runREPL(ctx, runner, string(historyFile)))

		default:
			exit(runner.Run(ctx, "stdin", os.Stdin))

		}
	})
}

// runConformance runs the suites in dir, or the bundled suites if dir is "builtin".
func runConformance(logger logs.Logger, dir string) int {
	var cases []conformance.LoadedCase
	var err error
	if dir == "builtin" {
		cases, err = conformance.LoadBuiltin()
	} else {
		cases, err = conformance.LoadAll(os.DirFS(dir))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOErr
	}
	results := conformance.NewRunner(logger).RunAll(cases)
	for _, result := range results {
		if !result.Passed && !result.Skipped {
			fmt.Printf("FAIL %s/%s: %v\n", result.Case.File, result.Case.Case.Name, result.Error)
		}
	}
	stats := conformance.ComputeStats(results)
	fmt.Println(conformance.FormatStats(stats))
	if stats.Failed > 0 {
		return 1
	}
	return 0
}

func issueToken(secret loxconfigs.ServeSecret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("serve_secret is not configured")
	}
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return loxserve.SignToken([]byte(secret), subject, ttl)
}
