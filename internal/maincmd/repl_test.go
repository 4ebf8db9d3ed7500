package maincmd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"

	"github.com/mna/ember/internal/config"
	"github.com/mna/ember/internal/maincmd"
)

func TestREPLPersistsGlobalsAcrossLines(t *testing.T) {
	in := strings.NewReader("var x = 1;\nprint x;\n")
	var stdout, stderr bytes.Buffer
	code := maincmd.REPL(mainer.Stdio{Stdin: in, Stdout: &stdout, Stderr: &stderr}, config.Default())
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "1\n")
}

func TestREPLContinuesAfterRuntimeError(t *testing.T) {
	in := strings.NewReader("print undefined;\nprint 1;\n")
	var stdout, stderr bytes.Buffer
	code := maincmd.REPL(mainer.Stdio{Stdin: in, Stdout: &stdout, Stderr: &stderr}, config.Default())
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "1\n")
	assert.Contains(t, stderr.String(), "Undefined variable 'undefined'.")
}
