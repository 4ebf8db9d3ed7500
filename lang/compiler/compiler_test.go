package compiler_test

import (
	"testing"

	"github.com/mna/ember/lang/compiler"
	"github.com/mna/ember/lang/intern"
	"github.com/mna/ember/lang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInterner struct{ m map[string]*types.String }

func newFakeInterner() *fakeInterner { return &fakeInterner{m: map[string]*types.String{}} }

func (f *fakeInterner) Intern(s string) *types.String {
	if v, ok := f.m[s]; ok {
		return v
	}
	v := types.NewString(s, intern.FNV1a(s))
	f.m[s] = v
	return v
}

func TestCompileArithmeticExpression(t *testing.T) {
	fn, errs := compiler.Compile("print 1 + 2;", newFakeInterner())
	require.Empty(t, errs)
	require.NotNil(t, fn)

	code := fn.Chunk.Code
	// CONSTANT 0, CONSTANT 1, ADD, PRINT, NIL, RETURN
	assert.Equal(t, byte(compiler.OpConstant), code[0])
	assert.Equal(t, byte(compiler.OpConstant), code[2])
	assert.Equal(t, byte(compiler.OpAdd), code[4])
	assert.Equal(t, byte(compiler.OpPrint), code[5])
	assert.Equal(t, byte(compiler.OpNil), code[6])
	assert.Equal(t, byte(compiler.OpReturn), code[7])
	require.Len(t, fn.Chunk.Constants, 2)
	assert.Equal(t, types.Number(1), fn.Chunk.Constants[0])
	assert.Equal(t, types.Number(2), fn.Chunk.Constants[1])
}

func TestCompileGlobalVarDeclaration(t *testing.T) {
	fn, errs := compiler.Compile(`var a = "st";`, newFakeInterner())
	require.Empty(t, errs)
	code := fn.Chunk.Code
	assert.Equal(t, byte(compiler.OpConstant), code[0])
	assert.Equal(t, byte(compiler.OpDefineGlobal), code[2])
}

func TestCompileLocalsUseSlotsNotGlobals(t *testing.T) {
	fn, errs := compiler.Compile(`{ var a = 1; print a; }`, newFakeInterner())
	require.Empty(t, errs)
	code := fn.Chunk.Code
	// CONSTANT 1 (push initializer), then GET_LOCAL for the print, never
	// a DEFINE_GLOBAL/GET_GLOBAL anywhere in this chunk.
	assert.Contains(t, code, byte(compiler.OpGetLocal))
	assert.NotContains(t, code, byte(compiler.OpDefineGlobal))
}

func TestCompileClosureCapturesUpvalue(t *testing.T) {
	src := `fun make() { var x = 0; fun inc() { x = x + 1; return x; } return inc; }`
	fn, errs := compiler.Compile(src, newFakeInterner())
	require.Empty(t, errs)
	require.Len(t, fn.Chunk.Constants, 2) // "make"'s global name, then the make Function itself
	makeFn, ok := fn.Chunk.Constants[1].(*types.Function)
	require.True(t, ok)
	// make's body declares inc as a nested closure capturing x
	assert.Contains(t, makeFn.Chunk.Code, byte(compiler.OpClosure))
}

func TestCompileSyntaxErrorRecovered(t *testing.T) {
	fn, errs := compiler.Compile("var ;\nprint 1;", newFakeInterner())
	assert.Nil(t, fn)
	require.NotEmpty(t, errs)
	assert.Equal(t, 1, errs[0].Line)
}

func TestCompileReturnAtTopLevelIsError(t *testing.T) {
	_, errs := compiler.Compile("return 1;", newFakeInterner())
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "Can't return from top-level code.")
}

func TestCompileJumpsForIfElse(t *testing.T) {
	fn, errs := compiler.Compile(`if (true) { print 1; } else { print 2; }`, newFakeInterner())
	require.Empty(t, errs)
	assert.Contains(t, fn.Chunk.Code, byte(compiler.OpJumpIfFalse))
	assert.Contains(t, fn.Chunk.Code, byte(compiler.OpJump))
}
