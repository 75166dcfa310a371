package loxvm

import (
	"fmt"
	"io"
)

// Disassemble writes a listing of fn and of every function found in its constant pools.
func Disassemble(w io.Writer, fn *Function) error {
	visited := make(map[*Function]bool)
	var walk func(fn *Function) error
	walk = func(fn *Function) error {
		if visited[fn] {
			return nil
		}
		visited[fn] = true
		if err := DisassembleChunk(w, fn.Chunk, fn.String()); err != nil {
			return err
		}
		for _, c := range fn.Chunk.Constants {
			if child, ok := c.(*Function); ok {
				if err := walk(child); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(fn)
}

func DisassembleChunk(w io.Writer, chunk *Chunk, name string) error {
	if _, err := fmt.Fprintf(w, "== %s ==\n", name); err != nil {
		return err
	}
	for offset := 0; offset < len(chunk.Code); offset++ {
		if err := DisassembleInstruction(w, chunk, offset); err != nil {
			return err
		}
	}
	return nil
}

// DisassembleInstruction writes one line: OFFSET MNEMONIC [operand ['value']].
func DisassembleInstruction(w io.Writer, chunk *Chunk, offset int) (err error) {
	inst := chunk.Code[offset]
	arg := inst.Arg()
	switch inst.Op() {

	case OpConstant, OpGetGlobal, OpDefineGlobal, OpSetGlobal:
		var value string
		if arg < len(chunk.Constants) {
			value = chunk.Constants[arg].String()
		} else {
			value = "<invalid>"
		}
		_, err = fmt.Fprintf(w, "%04d %-16s %4d '%s'\n", offset, inst, arg, value)

	case OpGetLocal, OpSetLocal, OpCall:
		_, err = fmt.Fprintf(w, "%04d %-16s %4d\n", offset, inst, arg)

	case OpJump, OpJumpIfFalse:
		_, err = fmt.Fprintf(w, "%04d %-16s %4d -> %d\n", offset, inst, arg, offset+1+arg)

	case OpLoop:
		_, err = fmt.Fprintf(w, "%04d %-16s %4d -> %d\n", offset, inst, arg, offset+1-arg)

	default:
		_, err = fmt.Fprintf(w, "%04d %s\n", offset, inst)
	}
	return
}
