package configs

import (
	"strings"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/tailox/loxvm"
)

type testName string

func (testName) ConfigName() string {
	return "name"
}

type testLimit int

func (testLimit) ConfigName() string {
	return "limit"
}

type testVerbose bool

func (testVerbose) ConfigName() string {
	return "verbose"
}

type testRatio float64

func (testRatio) ConfigName() string {
	return "ratio"
}

func testScope() dscope.Scope {
	return dscope.New(
		dscope.Provide(testName("default")),
		dscope.Provide(testLimit(1)),
		dscope.Provide(testVerbose(false)),
		dscope.Provide(testRatio(0.5)),
	)
}

func TestLoxFork(t *testing.T) {
	scope, err := LoxFork(testScope(), map[string]loxvm.Value{
		"name":    loxvm.NewString("lox"),
		"limit":   loxvm.Number(42),
		"verbose": loxvm.Bool(true),
		"other":   loxvm.Nil{},
	})
	if err != nil {
		t.Fatal(err)
	}
	scope.Call(func(
		name testName,
		limit testLimit,
		verbose testVerbose,
		ratio testRatio,
	) {
		if name != "lox" {
			t.Fatalf("got %v", name)
		}
		if limit != 42 {
			t.Fatalf("got %v", limit)
		}
		if !verbose {
			t.Fatal("should be verbose")
		}
		if ratio != 0.5 {
			t.Fatalf("got %v", ratio)
		}
	})
}

func TestLoxForkNothing(t *testing.T) {
	scope, err := LoxFork(testScope(), nil)
	if err != nil {
		t.Fatal(err)
	}
	scope.Call(func(name testName) {
		if name != "default" {
			t.Fatalf("got %v", name)
		}
	})
}

func TestLoxForkBadValue(t *testing.T) {
	for _, c := range []struct {
		globals  map[string]loxvm.Value
		expected string
	}{
		{map[string]loxvm.Value{"name": loxvm.Number(1)}, "expecting string"},
		{map[string]loxvm.Value{"limit": loxvm.Number(1.5)}, "not a valid"},
		{map[string]loxvm.Value{"limit": loxvm.NewString("")}, "expecting number"},
	} {
		_, err := LoxFork(testScope(), c.globals)
		if err == nil {
			t.Fatal("should error")
		}
		if !strings.Contains(err.Error(), c.expected) {
			t.Fatalf("got %v", err)
		}
	}
}
