package compiler

import (
	"fmt"
	"strings"

	"github.com/mna/ember/lang/types"
)

// Disassemble renders chunk as a human-readable instruction listing,
// one line per instruction. It is debug-only: nothing in Compile or
// the VM's dispatch loop calls it, and it lives in this package
// (rather than as a Chunk method) because opcode names are compiler
// concepts, while chunk.Chunk is intentionally generic and
// dependency-free.
func Disassemble(chunk *types.Chunk, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		offset = disassembleInstruction(&b, chunk, offset)
	}
	return b.String()
}

func disassembleInstruction(b *strings.Builder, chunk *types.Chunk, offset int) int {
	fmt.Fprintf(b, "%04d %4d ", offset, chunk.LineFor(offset))

	op := OpCode(chunk.Code[offset])
	switch op {
	case OpConstant, OpGetGlobal, OpDefineGlobal, OpSetGlobal:
		return constantInstruction(b, op, chunk, offset)
	case OpGetLocal, OpSetLocal, OpGetUpvalue, OpSetUpvalue, OpCall:
		return byteInstruction(b, op, chunk, offset)
	case OpJump, OpJumpIfFalse, OpLoop:
		return jumpInstruction(b, op, chunk, offset)
	case OpClosure:
		return closureInstruction(b, chunk, offset)
	default:
		fmt.Fprintf(b, "%s\n", op)
		return offset + 1
	}
}

func constantInstruction(b *strings.Builder, op OpCode, chunk *types.Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	fmt.Fprintf(b, "%-16s %4d '%s'\n", op, idx, chunk.Constants[idx])
	return offset + 2
}

func byteInstruction(b *strings.Builder, op OpCode, chunk *types.Chunk, offset int) int {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(b, "%-16s %4d\n", op, slot)
	return offset + 2
}

func jumpInstruction(b *strings.Builder, op OpCode, chunk *types.Chunk, offset int) int {
	jump := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	sign := 1
	if op == OpLoop {
		sign = -1
	}
	fmt.Fprintf(b, "%-16s %4d -> %d\n", op, offset, offset+3+sign*jump)
	return offset + 3
}

func closureInstruction(b *strings.Builder, chunk *types.Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	fmt.Fprintf(b, "%-16s %4d '%s'\n", OpClosure, idx, chunk.Constants[idx])
	offset += 2

	if fn, ok := chunk.Constants[idx].(*types.Function); ok {
		for i := 0; i < fn.UpvalueCount; i++ {
			isLocal := chunk.Code[offset]
			index := chunk.Code[offset+1]
			kind := "upvalue"
			if isLocal == 1 {
				kind = "local"
			}
			fmt.Fprintf(b, "%04d      |                     %s %d\n", offset, kind, index)
			offset += 2
		}
	}
	return offset
}
