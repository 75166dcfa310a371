package debugs

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/reusee/tailox/loxvm"
)

// TapVM opens a Tap over the live state of vm.
// Besides the Lox globals, the session has stack, frames and dis(name).
type TapVM func(ctx context.Context, what string, vm *loxvm.VM)

func (Module) TapVM(
	tap Tap,
) TapVM {
	return func(ctx context.Context, what string, vm *loxvm.VM) {
		tap(ctx, what, vmGlobals(vm))
	}
}

func vmGlobals(vm *loxvm.VM) map[string]any {
	globals := make(map[string]any, len(vm.Globals)+3)
	for name, value := range vm.Globals {
		globals[name] = value
	}
	globals["stack"] = vm.Stack()
	globals["frames"] = describeFrames(vm.Frames)
	globals["dis"] = func(name string) (string, error) {
		return disassembleGlobal(vm, name)
	}
	return globals
}

func describeFrames(frames []loxvm.Frame) []string {
	ret := make([]string, 0, len(frames))
	for i := len(frames) - 1; i >= 0; i-- {
		frame := frames[i]
		line := 0
		if frame.IP > 0 && frame.IP <= len(frame.Fun.Chunk.Lines) {
			line = frame.Fun.Chunk.Lines[frame.IP-1]
		}
		ret = append(ret, fmt.Sprintf("%s ip=%d base=%d line=%d", frame.Fun, frame.IP, frame.Base, line))
	}
	return ret
}

func disassembleGlobal(vm *loxvm.VM, name string) (string, error) {
	value, ok := vm.Get(name)
	if !ok {
		return "", fmt.Errorf("undefined global: %s (have %v)", name, slices.Sorted(maps.Keys(vm.Globals)))
	}
	fn, ok := value.(*loxvm.Function)
	if !ok {
		return "", fmt.Errorf("%s is %s, not a function", name, loxvm.TypeName(value))
	}
	buf := new(strings.Builder)
	if err := loxvm.Disassemble(buf, fn); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Register defines a native tap() in vm that pauses the program and opens the tap.
func (t TapVM) Register(ctx context.Context, vm *loxvm.VM) {
	vm.DefineNative("tap", 0, func(args []loxvm.Value) (loxvm.Value, error) {
		t(ctx, "tap()", vm)
		return loxvm.Nil{}, nil
	})
}
