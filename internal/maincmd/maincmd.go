// Package maincmd implements the ember CLI's mainer.Cmd: the process
// entry point for both the interactive REPL and the one-shot file
// runner.
package maincmd

import (
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/ember/internal/config"
)

const binName = "ember"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<path>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<path>]
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and virtual machine for the ember scripting language.

With no <path>, %[1]s reads and evaluates one line of source at a time
from standard input; a compile or runtime error on a line is reported
but does not end the session. With a <path>, %[1]s compiles and runs the
named source file and exits with one of the status codes below.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

Exit status when running a file:
       0   the program ran to completion
       65  a compile-time error was reported
       70  a runtime error was reported
       74  the file could not be read
`, binName)
)

// exit codes for file-running mode, per the embedding contract's
// CLI surface.
const (
	exitOK           = 0
	exitCompileError = 65
	exitRuntimeError = 70
	exitIOFailure    = 74
)

// Cmd is ember's mainer.Cmd implementation. Zero positional arguments
// starts the REPL; exactly one runs that file and exits with a status
// reflecting the interpret result.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args []string
}

func (c *Cmd) SetArgs(args []string)    { c.args = args }
func (c *Cmd) SetFlags(map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 1 {
		return fmt.Errorf("at most one file path may be given, got %d", len(c.args))
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(exitIOFailure)
	}

	if len(c.args) == 0 {
		return mainer.ExitCode(REPL(stdio, cfg))
	}
	return mainer.ExitCode(RunFile(stdio, cfg, c.args[0]))
}
