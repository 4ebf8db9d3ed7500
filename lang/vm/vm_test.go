package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mna/ember/internal/config"
	"github.com/mna/ember/lang/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, source string) (string, vm.InterpretResult) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	m := vm.New(config.Default())
	m.Stdout = &stdout
	m.Stderr = &stderr
	result := m.Interpret(source)
	if result == vm.RuntimeError {
		return stderr.String(), result
	}
	return stdout.String(), result
}

func TestArithmeticAndPrint(t *testing.T) {
	out, result := run(t, "print 1 + 2;")
	require.Equal(t, vm.OK, result)
	assert.Equal(t, "3\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, result := run(t, `var a = "st"; var b = "r"; print a + b + "ing";`)
	require.Equal(t, vm.OK, result)
	assert.Equal(t, "string\n", out)
}

func TestClosureCapturesAndAdvancesSharedUpvalue(t *testing.T) {
	src := `
fun make() {
  var x = 0;
  fun inc() {
    x = x + 1;
    return x;
  }
  return inc;
}
var c = make();
print c();
print c();
print c();
`
	out, result := run(t, src)
	require.Equal(t, vm.OK, result)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestForLoop(t *testing.T) {
	out, result := run(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.Equal(t, vm.OK, result)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	out, result := run(t, `print undefined;`)
	require.Equal(t, vm.RuntimeError, result)
	assert.True(t, strings.HasPrefix(out, "Undefined variable 'undefined'."))
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	out, result := run(t, `fun f(a,b){return a;} print f(1);`)
	require.Equal(t, vm.RuntimeError, result)
	assert.True(t, strings.HasPrefix(out, "Expected 2 arguments but got 1."))
}

func TestBooleanAndNilPrintForms(t *testing.T) {
	out, result := run(t, `print true; print false; print nil;`)
	require.Equal(t, vm.OK, result)
	assert.Equal(t, "true\nfalse\nnil\n", out)
}

func TestCompileErrorDoesNotRun(t *testing.T) {
	out, result := run(t, `print ;`)
	require.Equal(t, vm.CompileError, result)
	assert.Empty(t, out)
}

func TestGlobalReassignmentRequiresPriorDeclaration(t *testing.T) {
	out, result := run(t, `x = 1;`)
	require.Equal(t, vm.RuntimeError, result)
	assert.True(t, strings.HasPrefix(out, "Undefined variable 'x'."))
}

func TestNativeClockReturnsNumber(t *testing.T) {
	out, result := run(t, `print clock() >= 0;`)
	require.Equal(t, vm.OK, result)
	assert.Equal(t, "true\n", out)
}
