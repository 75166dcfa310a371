package loxvm

import "fmt"

// Chunk is an instruction sequence with its constant pool.
// Instruction indexes are the program counter space; Lines is parallel to Code.
type Chunk struct {
	Code      []OpCode
	Constants []Value
	Lines     []int
}

func NewChunk() *Chunk {
	return &Chunk{}
}

// Write appends an instruction and returns its index.
func (c *Chunk) Write(op OpCode, line int) int {
	c.Code = append(c.Code, op)
	c.Lines = append(c.Lines, line)
	return len(c.Code) - 1
}

// AddConstant appends to the pool and returns the new index. Duplicates are kept.
func (c *Chunk) AddConstant(value Value) int {
	c.Constants = append(c.Constants, value)
	return len(c.Constants) - 1
}

// Replace overwrites an already emitted instruction.
func (c *Chunk) Replace(index int, op OpCode) {
	if index < 0 || index >= len(c.Code) {
		panic(fmt.Errorf("replace instruction %d: out of range [0, %d)", index, len(c.Code)))
	}
	c.Code[index] = op
}

func (c *Chunk) Len() int {
	return len(c.Code)
}

func (c *Chunk) line(index int) int {
	if index < 0 || index >= len(c.Lines) {
		return 0
	}
	return c.Lines[index]
}
