package loxvm

import (
	"fmt"
	"strings"
)

type RuntimeError struct {
	Message string
	Line    int
	// Trace has one entry per active frame, innermost first.
	Trace []string
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, line := range e.Trace {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

func (v *VM) runtimeError(format string, args ...any) *RuntimeError {
	err := &RuntimeError{
		Message: fmt.Sprintf(format, args...),
	}
	for i := len(v.Frames) - 1; i >= 0; i-- {
		frame := v.Frames[i]
		line := frame.Fun.Chunk.line(frame.IP - 1)
		if i == len(v.Frames)-1 {
			err.Line = line
		}
		where := "script"
		if frame.Fun.Name != "" {
			where = frame.Fun.Name + "()"
		}
		err.Trace = append(err.Trace, fmt.Sprintf("[line %d] in %s", line, where))
	}
	v.resetStack()
	return err
}
