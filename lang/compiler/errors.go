package compiler

import "fmt"

// CompileError is a single compile-time diagnostic. The compiler
// accumulates these across panic-mode recovery rather than stopping at
// the first one, so a single Compile call can report every syntax error
// found in the source.
type CompileError struct {
	Line    int
	Where   string // the quoted offending lexeme, "end" at EOF, or "" for a scanner error
	Message string
}

func (e CompileError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("[line %d] Error at %s: %s", e.Line, e.Where, e.Message)
}
