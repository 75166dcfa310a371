package conformance

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/reusee/tailox/loxc"
	"github.com/reusee/tailox/loxvm"
	"github.com/reusee/tailox/syncs"
)

type Result struct {
	Case       LoadedCase
	Passed     bool
	Skipped    bool
	SkipReason string
	Output     string
	Error      error
}

type Runner struct {
	Logger *slog.Logger // optional, receives instruction traces
	// Parallel is the number of cases run at once. Zero means one per CPU.
	Parallel int
}

func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{
		Logger: logger,
	}
}

func (r *Runner) Run(loaded LoadedCase) (result Result) {
	result.Case = loaded
	if skip, reason := loaded.Case.IsSkipped(); skip {
		result.Skipped = true
		result.SkipReason = reason
		return
	}

	src := loaded.Case.Source
	if loaded.Suite != nil && loaded.Suite.Setup != "" {
		src = loaded.Suite.Setup + "\n" + src
	}

	out := new(strings.Builder)
	vm, err := loxc.NewVM(loaded.File+":"+loaded.Case.Name, strings.NewReader(src), &loxc.Options{
		Stdout:    out,
		MaxFrames: loaded.Case.MaxFrames,
		Logger:    r.Logger,
	})
	if err == nil {
		err = loxc.Run(context.Background(), vm, r.Logger)
	}
	result.Output = out.String()

	if checkErr := check(loaded.Case.Expect, result.Output, err); checkErr != nil {
		result.Error = checkErr
		return
	}
	result.Passed = true
	return
}

// RunAll runs cases concurrently. Results are in the order of cases.
func (r *Runner) RunAll(cases []LoadedCase) []Result {
	results := make([]Result, len(cases))
	sem := syncs.NewSemaphore(cmp.Or(r.Parallel, runtime.NumCPU()))
	wg := new(sync.WaitGroup)
	for i, c := range cases {
		sem.Go(wg, func() {
			results[i] = r.Run(c)
		})
	}
	wg.Wait()
	return results
}

// ErrorKind classifies an error returned by compiling or running a program.
func ErrorKind(err error) string {
	var compileErr *loxc.CompileError
	if errors.As(err, &compileErr) {
		return KindCompile
	}
	var runtimeErr *loxvm.RuntimeError
	if errors.As(err, &runtimeErr) {
		return KindRuntime
	}
	return ""
}

func check(expect Expectation, output string, err error) error {
	if expect.Kind == "" && expect.Error == "" {
		if err != nil {
			return fmt.Errorf("unexpected error: %w", err)
		}
	} else {
		if err == nil {
			return fmt.Errorf("expected %s error, got none", expect.Kind)
		}
		if expect.Kind != "" {
			if kind := ErrorKind(err); kind != expect.Kind {
				return fmt.Errorf("expected %s error, got %q: %w", expect.Kind, kind, err)
			}
		}
		if expect.Error != "" && strings.TrimSpace(expect.Error) != err.Error() {
			return fmt.Errorf("expected error %q, got %q", strings.TrimSpace(expect.Error), err.Error())
		}
	}

	if expect.Output != nil && *expect.Output != output {
		return fmt.Errorf("expected output %q, got %q", *expect.Output, output)
	}
	if expect.Match != "" {
		re, reErr := regexp.Compile(expect.Match)
		if reErr != nil {
			return fmt.Errorf("bad match pattern: %w", reErr)
		}
		if !re.MatchString(output) {
			return fmt.Errorf("output %q does not match %s", output, expect.Match)
		}
	}
	return nil
}

type SummaryStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

func ComputeStats(results []Result) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Skipped:
			stats.Skipped++
		case r.Passed:
			stats.Passed++
		default:
			stats.Failed++
		}
	}
	return stats
}

func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		stats.Passed, stats.Failed, stats.Skipped, stats.Total)
}
