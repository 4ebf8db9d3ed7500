package types

import (
	"fmt"

	"github.com/mna/ember/lang/chunk"
)

// Chunk is the bytecode container instantiated for ember's concrete
// constant value type. See package chunk for why this is generic.
type Chunk = chunk.Chunk[Value]

// Function is a compiled function: its arity, how many upvalues its
// closures must capture, its bytecode, and an optional name (nil for the
// implicit top-level script function).
type Function struct {
	Name         *String // nil for the top-level script
	Arity        int
	UpvalueCount int
	Chunk        *Chunk
}

var _ Value = (*Function)(nil)

// NewFunction returns an empty function ready for the compiler to emit
// bytecode into via Chunk.
func NewFunction(name *String) *Function {
	return &Function{Name: name, Chunk: chunk.New[Value]()}
}

func (fn *Function) Type() string { return "function" }

func (fn *Function) String() string {
	if fn.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", fn.Name.Go())
}
