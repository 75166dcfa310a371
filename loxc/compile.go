package loxc

import (
	"fmt"
	"io"

	"github.com/reusee/tailox/loxvm"
)

// Compile compiles a whole program into its top-level function.
// name identifies the source in errors.
func Compile(name string, source io.Reader) (*loxvm.Function, error) {
	src, err := io.ReadAll(source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return compileBytes(name, src)
}

func compileBytes(name string, src []byte) (*loxvm.Function, error) {
	c := newCompiler(src)
	ok := c.compile()
	fn := c.popContext()
	if !ok {
		return nil, &CompileError{
			Source:      name,
			Diagnostics: c.diagnostics,
		}
	}
	return fn, nil
}
