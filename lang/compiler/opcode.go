package compiler

import "fmt"

// OpCode identifies a single VM instruction. Operand-bearing opcodes are
// documented with their operand width in parentheses; all multi-byte
// operands are big-endian.
type OpCode uint8

//nolint:revive
const (
	OpConstant      OpCode = iota // (1: const idx)
	OpNil                         // -
	OpTrue                        // -
	OpFalse                       // -
	OpPop                         // -
	OpGetLocal                    // (1: slot)
	OpSetLocal                    // (1: slot)
	OpGetGlobal                   // (1: name const idx)
	OpDefineGlobal                // (1: name const idx)
	OpSetGlobal                   // (1: name const idx)
	OpGetUpvalue                  // (1: upvalue idx)
	OpSetUpvalue                  // (1: upvalue idx)
	OpEqual                       // -
	OpNotEqual                    // -
	OpGreater                     // -
	OpGreaterEqual                // -
	OpLess                        // -
	OpLessEqual                   // -
	OpAdd                         // -
	OpSubtract                    // -
	OpMultiply                    // -
	OpDivide                      // -
	OpNot                         // -
	OpNegate                      // -
	OpPrint                       // -
	OpJump                        // (2: offset)
	OpJumpIfFalse                 // (2: offset)
	OpLoop                        // (2: offset)
	OpCall                        // (1: arg count)
	OpClosure                     // (1: fn const idx) + 2*N: (isLocal byte, index byte)
	OpCloseUpvalue                // -
	OpReturn                      // -

	opCodeMax
)

var opcodeNames = [...]string{
	OpConstant:      "OP_CONSTANT",
	OpNil:           "OP_NIL",
	OpTrue:          "OP_TRUE",
	OpFalse:         "OP_FALSE",
	OpPop:           "OP_POP",
	OpGetLocal:      "OP_GET_LOCAL",
	OpSetLocal:      "OP_SET_LOCAL",
	OpGetGlobal:     "OP_GET_GLOBAL",
	OpDefineGlobal:  "OP_DEFINE_GLOBAL",
	OpSetGlobal:     "OP_SET_GLOBAL",
	OpGetUpvalue:    "OP_GET_UPVALUE",
	OpSetUpvalue:    "OP_SET_UPVALUE",
	OpEqual:         "OP_EQUAL",
	OpNotEqual:      "OP_NOT_EQUAL",
	OpGreater:       "OP_GREATER",
	OpGreaterEqual:  "OP_GREATER_EQUAL",
	OpLess:          "OP_LESS",
	OpLessEqual:     "OP_LESS_EQUAL",
	OpAdd:           "OP_ADD",
	OpSubtract:      "OP_SUBTRACT",
	OpMultiply:      "OP_MULTIPLY",
	OpDivide:        "OP_DIVIDE",
	OpNot:           "OP_NOT",
	OpNegate:        "OP_NEGATE",
	OpPrint:         "OP_PRINT",
	OpJump:          "OP_JUMP",
	OpJumpIfFalse:   "OP_JUMP_IF_FALSE",
	OpLoop:          "OP_LOOP",
	OpCall:          "OP_CALL",
	OpClosure:       "OP_CLOSURE",
	OpCloseUpvalue:  "OP_CLOSE_UPVALUE",
	OpReturn:        "OP_RETURN",
}

func (op OpCode) String() string {
	if int(op) >= len(opcodeNames) || opcodeNames[op] == "" {
		return fmt.Sprintf("OP_UNKNOWN(%d)", byte(op))
	}
	return opcodeNames[op]
}
