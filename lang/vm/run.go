package vm

import (
	"fmt"

	"github.com/mna/ember/lang/compiler"
	"github.com/mna/ember/lang/types"
)

// run executes instructions from the current (innermost) frame until
// the call stack unwinds to nothing (a normal OP_RETURN out of the
// top-level script) or a runtime error occurs.
func (vm *VM) run() *EvalError {
	for {
		frame := &vm.frames[vm.frameCount-1]
		op := compiler.OpCode(vm.readByte(frame))

		switch op {
		case compiler.OpConstant:
			vm.push(vm.readConstant(frame))
		case compiler.OpNil:
			vm.push(types.Nil)
		case compiler.OpTrue:
			vm.push(types.Bool(true))
		case compiler.OpFalse:
			vm.push(types.Bool(false))
		case compiler.OpPop:
			vm.pop()

		case compiler.OpGetLocal:
			slot := int(vm.readByte(frame))
			vm.push(vm.stack[frame.slots+slot])
		case compiler.OpSetLocal:
			slot := int(vm.readByte(frame))
			vm.stack[frame.slots+slot] = vm.peek(0)

		case compiler.OpGetGlobal:
			name := vm.readConstant(frame).(*types.String)
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.Go())
			}
			vm.push(v)
		case compiler.OpDefineGlobal:
			name := vm.readConstant(frame).(*types.String)
			vm.globals.Put(name, vm.peek(0))
			vm.pop()
		case compiler.OpSetGlobal:
			name := vm.readConstant(frame).(*types.String)
			if !vm.globals.Has(name) {
				return vm.runtimeError("Undefined variable '%s'.", name.Go())
			}
			vm.globals.Put(name, vm.peek(0))

		case compiler.OpGetUpvalue:
			slot := int(vm.readByte(frame))
			vm.push(frame.closure.Upvalues[slot].Get(vm.stack))
		case compiler.OpSetUpvalue:
			slot := int(vm.readByte(frame))
			frame.closure.Upvalues[slot].Set(vm.stack, vm.peek(0))

		case compiler.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(types.Bool(types.Equal(a, b)))
		case compiler.OpNotEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(types.Bool(!types.Equal(a, b)))
		case compiler.OpGreater:
			if err := vm.binaryNumberOp(func(a, b float64) types.Value { return types.Bool(a > b) }); err != nil {
				return err
			}
		case compiler.OpGreaterEqual:
			if err := vm.binaryNumberOp(func(a, b float64) types.Value { return types.Bool(a >= b) }); err != nil {
				return err
			}
		case compiler.OpLess:
			if err := vm.binaryNumberOp(func(a, b float64) types.Value { return types.Bool(a < b) }); err != nil {
				return err
			}
		case compiler.OpLessEqual:
			if err := vm.binaryNumberOp(func(a, b float64) types.Value { return types.Bool(a <= b) }); err != nil {
				return err
			}

		case compiler.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case compiler.OpSubtract:
			if err := vm.binaryNumberOp(func(a, b float64) types.Value { return types.Number(a - b) }); err != nil {
				return err
			}
		case compiler.OpMultiply:
			if err := vm.binaryNumberOp(func(a, b float64) types.Value { return types.Number(a * b) }); err != nil {
				return err
			}
		case compiler.OpDivide:
			if err := vm.binaryNumberOp(func(a, b float64) types.Value { return types.Number(a / b) }); err != nil {
				return err
			}

		case compiler.OpNot:
			vm.push(types.Bool(!types.Truthy(vm.pop())))
		case compiler.OpNegate:
			n, ok := vm.peek(0).(types.Number)
			if !ok {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.pop()
			vm.push(-n)

		case compiler.OpPrint:
			fmt.Fprintln(vm.stdout, vm.pop().String())

		case compiler.OpJump:
			offset := vm.readShort(frame)
			frame.ip += int(offset)
		case compiler.OpJumpIfFalse:
			offset := vm.readShort(frame)
			if !types.Truthy(vm.peek(0)) {
				frame.ip += int(offset)
			}
		case compiler.OpLoop:
			offset := vm.readShort(frame)
			frame.ip -= int(offset)

		case compiler.OpCall:
			argCount := int(vm.readByte(frame))
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}

		case compiler.OpClosure:
			fn := vm.readConstant(frame).(*types.Function)
			closure := types.NewClosure(fn)
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := vm.readByte(frame)
				index := int(vm.readByte(frame))
				if isLocal == 1 {
					closure.Upvalues[i] = vm.captureUpvalue(frame.slots + index)
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}
			vm.push(closure)

		case compiler.OpCloseUpvalue:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case compiler.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.slots)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop() // the finished script closure itself
				return nil
			}
			vm.stackTop = frame.slots
			vm.push(result)

		default:
			return vm.runtimeError("unknown opcode %s", op)
		}
	}
}

func (vm *VM) readByte(frame *callFrame) byte {
	b := frame.closure.Fn.Chunk.Code[frame.ip]
	frame.ip++
	return b
}

func (vm *VM) readShort(frame *callFrame) uint16 {
	hi := vm.readByte(frame)
	lo := vm.readByte(frame)
	return uint16(hi)<<8 | uint16(lo)
}

func (vm *VM) readConstant(frame *callFrame) types.Value {
	idx := vm.readByte(frame)
	return frame.closure.Fn.Chunk.Constants[idx]
}

// binaryNumberOp pops two numeric operands and pushes fn's result, or
// fails with a runtime error if either operand is not a number.
func (vm *VM) binaryNumberOp(fn func(a, b float64) types.Value) *EvalError {
	bv, bok := vm.peek(0).(types.Number)
	av, aok := vm.peek(1).(types.Number)
	if !aok || !bok {
		return vm.runtimeError("Operands must be numbers.")
	}
	vm.pop()
	vm.pop()
	vm.push(fn(float64(av), float64(bv)))
	return nil
}

// add implements OP_ADD's dual numeric/string overload: number+number is
// IEEE-754 addition, string+string is byte concatenation (interned, so
// the result keeps the language's identical-bytes-means-equal
// guarantee), and any other pairing is a runtime error.
func (vm *VM) add() *EvalError {
	b := vm.peek(0)
	a := vm.peek(1)

	switch av := a.(type) {
	case types.Number:
		bv, ok := b.(types.Number)
		if !ok {
			return vm.runtimeError("Operands must be two numbers or two strings.")
		}
		vm.pop()
		vm.pop()
		vm.push(av + bv)
	case *types.String:
		bv, ok := b.(*types.String)
		if !ok {
			return vm.runtimeError("Operands must be two numbers or two strings.")
		}
		vm.pop()
		vm.pop()
		vm.push(vm.Intern(av.Go() + bv.Go()))
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
	return nil
}
