package maincmd

import (
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/ember/internal/config"
	"github.com/mna/ember/lang/vm"
)

// RunFile reads path, compiles and runs it on a fresh VM, and returns
// the exit status the embedding contract's CLI surface specifies for
// the outcome.
func RunFile(stdio mainer.Stdio, cfg config.Config, path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return exitIOFailure
	}

	m := vm.New(cfg)
	m.Stdout = stdio.Stdout
	m.Stderr = stdio.Stderr

	switch m.Interpret(string(src)) {
	case vm.OK:
		return exitOK
	case vm.CompileError:
		return exitCompileError
	default:
		return exitRuntimeError
	}
}
