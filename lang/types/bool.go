package types

// Bool is the type of the boolean literals true and false.
type Bool bool

var _ Value = Bool(false)

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (Bool) Type() string { return "bool" }
