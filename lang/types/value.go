// Package types implements ember's tagged Value model: the scalar
// variants (nil, bool, number) and the heap object kinds (string,
// function, closure, native, upvalue) that a compiled program can
// manipulate at run time.
package types

// Value is the interface implemented by every value the VM can push onto
// its operand stack, store in a local slot, or hold as a constant.
type Value interface {
	// String returns the value's display form, as printed by OP_PRINT and
	// shown in diagnostics.
	String() string
	// Type names the value's kind, such as "number" or "closure".
	Type() string
}

// Equal implements the language's equality operator. nil equals only
// nil; booleans and numbers compare by payload using Go's built-in ==
// (so NaN != NaN, matching IEEE-754); every other value compares by
// identity, which for *String is safe because all strings are interned
// and therefore equal content always shares one object. Go's interface
// equality already implements exactly this rule for our concrete
// (comparable) value types, so Equal is just a named wrapper around it.
func Equal(a, b Value) bool {
	return a == b
}

// Truthy reports whether v is truthy. The only falsey values are nil and
// false; every other value, including 0 and the empty string, is truthy.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case NilType:
		return false
	case Bool:
		return bool(x)
	default:
		return true
	}
}
