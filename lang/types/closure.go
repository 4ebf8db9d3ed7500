package types

// Closure pairs a Function with the upvalues it captured at creation
// time (OP_CLOSURE). Its Upvalues slice length always equals
// Fn.UpvalueCount, populated once when the closure is built.
type Closure struct {
	Fn       *Function
	Upvalues []*Upvalue
}

var _ Value = (*Closure)(nil)

// NewClosure allocates a closure over fn with an empty upvalue array
// sized to fn.UpvalueCount, ready to be populated by OP_CLOSURE.
func NewClosure(fn *Function) *Closure {
	return &Closure{Fn: fn, Upvalues: make([]*Upvalue, fn.UpvalueCount)}
}

func (c *Closure) Type() string { return "closure" }

// String mirrors the underlying function's print form, so a closure
// prints as its function's name.
func (c *Closure) String() string {
	return c.Fn.String()
}
