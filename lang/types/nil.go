package types

// NilType is the type of Nil, the language's only nil value. It is
// represented as an empty struct, not an untyped placeholder, so that
// Nil is a valid, comparable Value like every other variant.
type NilType struct{}

// Nil is the language's nil value.
var Nil = NilType{}

var _ Value = Nil

func (NilType) String() string { return "nil" }
func (NilType) Type() string   { return "nil" }
