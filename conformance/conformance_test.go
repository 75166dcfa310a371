package conformance

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/reusee/tailox/loxc"
)

func TestConformance(t *testing.T) {
	cases, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("load suites: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("no cases loaded")
	}

	runner := NewRunner(nil)
	results := runner.RunAll(cases)

	byFile := make(map[string][]Result)
	for _, result := range results {
		byFile[result.Case.File] = append(byFile[result.Case.File], result)
	}
	for file, fileResults := range byFile {
		t.Run(file, func(t *testing.T) {
			for _, result := range fileResults {
				t.Run(result.Case.Case.Name, func(t *testing.T) {
					if result.Skipped {
						t.Skipf("skipped: %s", result.SkipReason)
					}
					if !result.Passed {
						t.Errorf("%v\nsource:\n%s", result.Error, result.Case.Case.Source)
					}
				})
			}
		})
	}

	stats := ComputeStats(results)
	t.Logf("%s", FormatStats(stats))
	if stats.Failed > 0 {
		t.Fatalf("%d cases failed", stats.Failed)
	}
}

func TestLoadAll(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": &fstest.MapFile{
			Data: []byte(`
name: a
setup: var x = 1;
tests:
  - name: read_setup
    source: print x;
    expect:
      output: "1\n"
  - name: skipped
    skip: not ready
    source: print y;
`),
		},
		"notes.txt": &fstest.MapFile{
			Data: []byte("ignored"),
		},
	}
	cases, err := LoadAll(fsys)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) != 2 {
		t.Fatalf("got %d", len(cases))
	}
	if cases[0].File != "a.yaml" || cases[0].Suite.Name != "a" {
		t.Fatalf("got %+v", cases[0])
	}

	results := NewRunner(nil).RunAll(cases)
	if !results[0].Passed {
		t.Fatalf("got %v", results[0].Error)
	}
	if !results[1].Skipped || results[1].SkipReason != "not ready" {
		t.Fatalf("got %+v", results[1])
	}
	stats := ComputeStats(results)
	if stats.Passed != 1 || stats.Skipped != 1 || stats.Total != 2 {
		t.Fatalf("got %+v", stats)
	}
	if FormatStats(stats) != "1 passed, 0 failed, 1 skipped (2 total)" {
		t.Fatalf("got %s", FormatStats(stats))
	}
}

func TestLoadAllBadYAML(t *testing.T) {
	_, err := LoadAll(fstest.MapFS{
		"bad.yaml": &fstest.MapFile{
			Data: []byte("tests: [\n"),
		},
	})
	if err == nil {
		t.Fatal("should fail")
	}
	if !strings.Contains(err.Error(), "bad.yaml") {
		t.Fatalf("got %v", err)
	}
}

func TestCheck(t *testing.T) {
	out := "1\n"
	if err := check(Expectation{Output: &out}, "2\n", nil); err == nil {
		t.Fatal("should fail on output mismatch")
	}
	if err := check(Expectation{Kind: KindRuntime}, "", nil); err == nil {
		t.Fatal("should fail on missing error")
	}
	compileErr := &loxc.CompileError{
		Diagnostics: []loxc.Diagnostic{
			{Line: 1, Where: "at end", Message: "Expect ';' after value"},
		},
	}
	if err := check(Expectation{Kind: KindRuntime}, "", compileErr); err == nil {
		t.Fatal("should fail on kind mismatch")
	}
	if err := check(Expectation{Kind: KindCompile}, "", compileErr); err != nil {
		t.Fatal(err)
	}
	if err := check(Expectation{}, "", errors.New("boom")); err == nil {
		t.Fatal("should fail on unexpected error")
	}
	if err := check(Expectation{Match: `^\d+\n$`}, "42\n", nil); err != nil {
		t.Fatal(err)
	}
	if ErrorKind(errors.New("other")) != "" {
		t.Fatal("plain errors have no kind")
	}
}
