package vm

import "github.com/mna/ember/lang/types"

// callFrame is one live call: the closure being run, its instruction
// pointer into that closure's chunk, and the base index into the VM's
// operand stack where its locals begin (slot 0 is always the callee
// closure itself).
type callFrame struct {
	closure *types.Closure
	ip      int
	slots   int
}
