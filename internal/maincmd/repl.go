package maincmd

import (
	"bufio"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/ember/internal/config"
	"github.com/mna/ember/lang/vm"
)

// REPL reads one line of source at a time from stdio.Stdin, interpreting
// each as its own program against one long-lived VM. Globals and the
// intern table persist across lines; a compile or runtime error on a
// line is reported to stdio.Stderr and the session continues.
func REPL(stdio mainer.Stdio, cfg config.Config) int {
	m := vm.New(cfg)
	m.Stdout = stdio.Stdout
	m.Stderr = stdio.Stderr

	in := bufio.NewScanner(stdio.Stdin)
	fmt.Fprint(stdio.Stdout, "> ")
	for in.Scan() {
		m.Interpret(in.Text())
		fmt.Fprint(stdio.Stdout, "> ")
	}
	fmt.Fprintln(stdio.Stdout)
	return exitOK
}
