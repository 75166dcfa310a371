package loxvm

import "fmt"

// Function is a compiled function. The top-level script has an empty Name.
type Function struct {
	Name  string
	Arity int
	Chunk *Chunk
}

func NewFunction(name string) *Function {
	return &Function{
		Name:  name,
		Chunk: NewChunk(),
	}
}

func (f *Function) String() string {
	if f.Name == "" {
		return "<script>"
	}
	return "<fn " + f.Name + ">"
}

// NativeFunc is a function implemented by the host.
// Arity < 0 accepts any number of arguments.
type NativeFunc struct {
	Name  string
	Arity int
	Func  func(args []Value) (Value, error)
}

func (n *NativeFunc) String() string {
	return "<native fn>"
}

func (n *NativeFunc) Call(args []Value) (Value, error) {
	if n.Func == nil {
		return nil, fmt.Errorf("native function %s is missing", n.Name)
	}
	return n.Func(args)
}
