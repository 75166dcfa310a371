package loxc

import (
	"io"

	"github.com/reusee/tailox/loxvm"
)

// NewVM compiles source and returns a VM ready to run it.
func NewVM(name string, source io.Reader, options *Options) (*loxvm.VM, error) {
	mainFunc, err := Compile(name, source)
	if err != nil {
		return nil, err
	}
	vm := loxvm.NewVM(mainFunc)
	registerBuiltins(vm)
	if options != nil {
		if options.Stdout != nil {
			vm.Stdout = options.Stdout
		}
		if options.MaxFrames > 0 {
			vm.MaxFrames = options.MaxFrames
		}
		for key, val := range options.Globals {
			vm.Def(key, val)
		}
		if options.Logger != nil {
			options.Logger.Debug("compiled",
				"name", name,
				"instructions", mainFunc.Chunk.Len(),
				"constants", len(mainFunc.Chunk.Constants),
			)
		}
	}
	return vm, nil
}
