package compiler_test

import (
	"testing"

	"github.com/mna/ember/lang/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassembleListsOpcodesByName(t *testing.T) {
	fn, errs := compiler.Compile("print 1 + 2;", newFakeInterner())
	require.Empty(t, errs)

	out := compiler.Disassemble(fn.Chunk, "test")
	assert.Contains(t, out, "== test ==")
	assert.Contains(t, out, "OP_CONSTANT")
	assert.Contains(t, out, "OP_ADD")
	assert.Contains(t, out, "OP_PRINT")
	assert.Contains(t, out, "OP_RETURN")
}
