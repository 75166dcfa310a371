package loxc

import (
	"time"

	"github.com/reusee/tailox/loxvm"
)

func registerBuiltins(vm *loxvm.VM) {
	start := time.Now()

	vm.DefineNative("clock", 0, func(args []loxvm.Value) (loxvm.Value, error) {
		return loxvm.Number(time.Since(start).Seconds()), nil
	})

}
