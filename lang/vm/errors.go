package vm

import (
	"fmt"
	"strings"
)

// EvalError is a failed VM.Interpret's diagnostic: the offending
// message plus a top-down frame trace ("[line L] in <name>()" per live
// frame, innermost first), constructed at the point of failure since
// the VM unwinds its own frame stack rather than Go's. Named EvalError
// rather than RuntimeError to avoid colliding with the RuntimeError
// InterpretResult constant in result.go.
type EvalError struct {
	Message string
	Trace   []string
}

func (e *EvalError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, line := range e.Trace {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return b.String()
}

func newEvalError(format string, args ...any) *EvalError {
	return &EvalError{Message: fmt.Sprintf(format, args...)}
}
