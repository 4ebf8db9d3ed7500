// Package vm implements ember's stack-based bytecode interpreter: the
// dispatch loop, call frames, globals table, and open-upvalue list that
// closures capture through.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/dolthub/swiss"

	"github.com/mna/ember/internal/config"
	"github.com/mna/ember/lang/compiler"
	"github.com/mna/ember/lang/intern"
	"github.com/mna/ember/lang/types"
)

// VM is ember's bytecode interpreter. It owns exactly one operand stack
// and one frame stack (single-threaded, no suspension), the
// global-variable table, the string intern table, and the open-upvalue
// list. Construct one per interpret session (a file run, or a whole REPL
// session) rather than sharing a process-wide singleton, and never share
// its intern table with another VM.
type VM struct {
	// Stdout and Stderr are the standard I/O abstractions for this VM. If
	// nil, os.Stdout and os.Stderr are used, respectively.
	Stdout io.Writer
	Stderr io.Writer

	stack    []types.Value
	stackTop int

	frames     []callFrame
	frameCount int

	globals *swiss.Map[*types.String, types.Value]
	strings *intern.Table[*types.String]

	openUpvalues   []*types.Upvalue // sorted by descending Slot
	openUpvalueIdx *swiss.Map[int, *types.Upvalue]

	stdout io.Writer
	stderr io.Writer
}

var _ compiler.Interner = (*VM)(nil)

// New returns a freshly initialized VM sized per cfg, with built-in
// natives already registered.
func New(cfg config.Config) *VM {
	vm := &VM{
		stack:          make([]types.Value, cfg.StackSize()),
		frames:         make([]callFrame, cfg.MaxFrames),
		globals:        swiss.NewMap[*types.String, types.Value](8),
		strings:        intern.NewTable[*types.String](),
		openUpvalueIdx: swiss.NewMap[int, *types.Upvalue](8),
	}
	vm.defineNative("clock", nativeClock)
	return vm
}

// init resolves the public Stdout/Stderr fields against their os.*
// defaults. Called at the top of every Interpret rather than cached in
// New, since callers (the REPL, RunFile, tests) commonly set the public
// fields after construction but before the first Interpret call.
func (vm *VM) init() {
	if vm.Stdout != nil {
		vm.stdout = vm.Stdout
	} else {
		vm.stdout = os.Stdout
	}
	if vm.Stderr != nil {
		vm.stderr = vm.Stderr
	} else {
		vm.stderr = os.Stderr
	}
}

// Free drops every root the VM holds, making every heap object the VM
// reached unreachable so the garbage collector can reclaim it.
func (vm *VM) Free() {
	vm.stack = nil
	vm.frames = nil
	vm.globals = nil
	vm.strings = nil
	vm.openUpvalues = nil
	vm.openUpvalueIdx = nil
}

// Intern satisfies compiler.Interner: it returns the single canonical
// *types.String for s, creating and storing it on first use.
func (vm *VM) Intern(s string) *types.String {
	hash := intern.FNV1a(s)
	if v, ok := vm.strings.Get(s, hash); ok {
		return v
	}
	v := types.NewString(s, hash)
	vm.strings.Set(s, hash, v)
	return v
}

// Interpret compiles source and runs it to completion, reporting which
// of the two error domains (if any) it failed in.
func (vm *VM) Interpret(source string) InterpretResult {
	vm.init()

	fn, errs := compiler.Compile(source, vm)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(vm.stderr, e.Error())
		}
		return CompileError
	}

	vm.resetStacks()
	closure := types.NewClosure(fn)
	vm.push(closure)
	if err := vm.call(closure, 0); err != nil {
		fmt.Fprintln(vm.stderr, err.Error())
		vm.resetStacks()
		return RuntimeError
	}

	if err := vm.run(); err != nil {
		fmt.Fprintln(vm.stderr, err.Error())
		vm.resetStacks()
		return RuntimeError
	}
	return OK
}

func (vm *VM) resetStacks() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
	vm.openUpvalueIdx = swiss.NewMap[int, *types.Upvalue](8)
}

func (vm *VM) push(v types.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() types.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) types.Value {
	return vm.stack[vm.stackTop-1-distance]
}

// call pushes a new frame invoking closure with the argCount values
// already sitting on top of the operand stack (the closure itself one
// slot below them).
func (vm *VM) call(closure *types.Closure, argCount int) *EvalError {
	if argCount != closure.Fn.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", closure.Fn.Arity, argCount)
	}
	if vm.frameCount >= len(vm.frames) {
		return vm.runtimeError("Stack overflow.")
	}
	vm.frames[vm.frameCount] = callFrame{closure: closure, slots: vm.stackTop - argCount - 1}
	vm.frameCount++
	return nil
}

// callValue invokes whatever value is being called with argCount
// arguments already on the stack; only closures and natives are
// callable.
func (vm *VM) callValue(callee types.Value, argCount int) *EvalError {
	switch c := callee.(type) {
	case *types.Closure:
		return vm.call(c, argCount)
	case *types.Native:
		args := vm.stack[vm.stackTop-argCount : vm.stackTop]
		result, err := c.Fn(argCount, args)
		if err != nil {
			return vm.runtimeError("%s", err.Error())
		}
		vm.stackTop -= argCount + 1
		vm.push(result)
		return nil
	default:
		return vm.runtimeError("Can only call functions and classes.")
	}
}

// runtimeError builds an EvalError carrying the current call stack's
// trace, innermost frame first.
func (vm *VM) runtimeError(format string, args ...any) *EvalError {
	e := newEvalError(format, args...)
	for i := vm.frameCount - 1; i >= 0; i-- {
		fr := &vm.frames[i]
		fn := fr.closure.Fn
		line := fn.Chunk.LineFor(fr.ip - 1)
		name := "script"
		if fn.Name != nil {
			name = fn.Name.Go() + "()"
		}
		e.Trace = append(e.Trace, fmt.Sprintf("[line %d] in %s", line, name))
	}
	return e
}
