package types

// String is ember's string value: an immutable byte sequence plus its
// precomputed FNV-1a hash. Every String
// value in a running program is obtained through the VM's intern table,
// so two strings with identical bytes are always the same *String, and
// string equality reduces to pointer identity (see Equal).
type String struct {
	chars string
	hash  uint32
}

var _ Value = (*String)(nil)

// NewString wraps chars with its precomputed hash. Callers outside the
// intern table should not call this directly; use the VM's Intern
// method, which guarantees the one-object-per-byte-sequence invariant.
func NewString(chars string, hash uint32) *String {
	return &String{chars: chars, hash: hash}
}

// Go returns the string's raw Go string value.
func (s *String) Go() string { return s.chars }

// Hash returns the string's precomputed FNV-1a hash.
func (s *String) Hash() uint32 { return s.hash }

// Len returns the string's length in bytes.
func (s *String) Len() int { return len(s.chars) }

func (s *String) String() string { return s.chars }
func (s *String) Type() string   { return "string" }
