package debugs

import (
	"context"
	"strings"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/tailox/logs"
	"github.com/reusee/tailox/loxc"
	"github.com/reusee/tailox/loxvm"
	"go.starlark.net/starlark"
)

func TestTapVM(t *testing.T) {
	var tapped []map[string]any
	dscope.New(
		new(Module),
		new(logs.Module),
	).Fork(
		dscope.Provide(Tap(func(ctx context.Context, what string, globals map[string]any) {
			if what != "tap()" {
				t.Fatalf("got %s", what)
			}
			tapped = append(tapped, globals)
		})),
	).Call(func(
		tapVM TapVM,
	) {
		vm, err := loxc.NewVM("test", strings.NewReader(`
fun f(a) {
  tap();
  return a;
}
var x = "foo";
f(42);
`), &loxc.Options{})
		if err != nil {
			t.Fatal(err)
		}
		tapVM.Register(t.Context(), vm)
		if err := loxc.Run(t.Context(), vm, nil); err != nil {
			t.Fatal(err)
		}
	})

	if len(tapped) != 1 {
		t.Fatalf("got %d", len(tapped))
	}
	globals := tapped[0]

	if s, ok := globals["x"].(*loxvm.String); !ok || s.Chars != "foo" {
		t.Fatalf("got %v", globals["x"])
	}
	frames := globals["frames"].([]string)
	if len(frames) != 2 {
		t.Fatalf("got %v", frames)
	}
	if !strings.HasPrefix(frames[0], "<fn f>") ||
		!strings.HasSuffix(frames[0], "line=3") {
		t.Fatalf("got %v", frames[0])
	}
	if !strings.HasPrefix(frames[1], "<script>") {
		t.Fatalf("got %v", frames[1])
	}

	dis := globals["dis"].(func(string) (string, error))
	listing, err := dis("f")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(listing, "== <fn f> ==") {
		t.Fatalf("got %s", listing)
	}
	if _, err := dis("x"); err == nil {
		t.Fatal("should fail")
	}
	if _, err := dis("nope"); err == nil {
		t.Fatal("should fail")
	}

	// the whole map must be convertible
	for name, value := range globals {
		if toStarlarkValue(value) == nil {
			t.Fatalf("%s not converted", name)
		}
	}
	stack := toStarlarkValue(globals["stack"]).(*starlark.List)
	if stack.Len() == 0 {
		t.Fatal("stack should not be empty")
	}
}

func TestDescribeFrames(t *testing.T) {
	fn := loxvm.NewFunction("g")
	fn.Chunk.Write(loxvm.OpNil, 7)
	frames := describeFrames([]loxvm.Frame{
		{Fun: fn, IP: 1, Base: 3},
	})
	if frames[0] != "<fn g> ip=1 base=3 line=7" {
		t.Fatalf("got %v", frames)
	}
	frames = describeFrames([]loxvm.Frame{
		{Fun: fn},
	})
	if frames[0] != "<fn g> ip=0 base=0 line=0" {
		t.Fatalf("got %v", frames)
	}
}

func TestRegister(t *testing.T) {
	vm, err := loxc.NewVM("test", strings.NewReader("tap(); tap();"), nil)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	TapVM(func(ctx context.Context, what string, vm *loxvm.VM) {
		n++
	}).Register(context.Background(), vm)
	if err := loxc.Run(context.Background(), vm, nil); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("got %d", n)
	}
}
