package loxc

import (
	"fmt"
	"strings"
)

type Diagnostic struct {
	Line int
	// Where is "at 'lexeme'", "at end", or empty for scanner errors.
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	if d.Where == "" {
		return fmt.Sprintf("[line %d] Error: %s", d.Line, d.Message)
	}
	return fmt.Sprintf("[line %d] Error %s: %s", d.Line, d.Where, d.Message)
}

// CompileError collects every diagnostic reported by one compilation.
type CompileError struct {
	Source      string
	Diagnostics []Diagnostic
}

func (e *CompileError) Error() string {
	lines := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}
