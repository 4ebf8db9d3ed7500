package compiler

import (
	"errors"
	"fmt"

	"github.com/mna/ember/lang/types"
	"golang.org/x/exp/slices"
)

var errTooManyUpvalues = errors.New("Too many closure variables in function.")

const (
	maxLocals   = 256
	maxUpvalues = 256
	maxParams   = 255
)

type funcKind int

const (
	kindScript funcKind = iota
	kindFunction
)

// local records one declared local variable's name, its scope depth (-1
// while declared but not yet initialized), and whether any nested
// function captures it as an upvalue.
type local struct {
	name       string
	depth      int
	isCaptured bool
}

// upvalueRef is one entry of a function's upvalue table: either a
// reference to a local slot in the immediately enclosing function
// (isLocal true) or to one of that function's own upvalues (false).
type upvalueRef struct {
	index   uint8
	isLocal bool
}

// funcScope is the compiler's per-function compilation context. The
// compiler keeps a stack of these, one per function currently being
// compiled, linked through enclosing.
type funcScope struct {
	enclosing *funcScope
	fn        *types.Function
	kind      funcKind

	locals     []local
	upvalues   []upvalueRef
	scopeDepth int
}

func newFuncScope(enclosing *funcScope, kind funcKind, fn *types.Function) *funcScope {
	fs := &funcScope{enclosing: enclosing, kind: kind, fn: fn}
	// Slot 0 is reserved for the callee itself (the running closure),
	// never addressable by source-level names.
	fs.locals = append(fs.locals, local{name: "", depth: 0})
	return fs
}

// resolveLocal scans locals top-down (innermost first) for name. It
// returns -1, nil if name is not a local in this scope. A match whose
// depth is -1 (declared but not yet initialized) is a compile error:
// reading a local in its own initializer.
func (fs *funcScope) resolveLocal(name string) (int, error) {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		l := &fs.locals[i]
		if l.name != name {
			continue
		}
		if l.depth == -1 {
			return -1, fmt.Errorf("Can't read local variable %q in its own initializer.", name)
		}
		return i, nil
	}
	return -1, nil
}

// addUpvalue records that this function captures either a local slot of
// its immediately enclosing function (isLocal true) or one of that
// function's own upvalues (isLocal false), deduplicating on
// (index, isLocal) so repeated captures of the same variable share one
// slot.
func (fs *funcScope) addUpvalue(index uint8, isLocal bool) (int, error) {
	if i := slices.IndexFunc(fs.upvalues, func(u upvalueRef) bool {
		return u.index == index && u.isLocal == isLocal
	}); i >= 0 {
		return i, nil
	}
	if len(fs.upvalues) >= maxUpvalues {
		return 0, errTooManyUpvalues
	}
	fs.upvalues = append(fs.upvalues, upvalueRef{index: index, isLocal: isLocal})
	fs.fn.UpvalueCount = len(fs.upvalues)
	return len(fs.upvalues) - 1, nil
}

// resolveUpvalue recursively looks for name in enclosing function
// scopes. If found as a local there, that local is marked captured and
// an upvalue referencing it is added to every scope along the path back
// to fs; if found as an upvalue there, the reference is propagated the
// same way.
func (fs *funcScope) resolveUpvalue(name string) (int, bool, error) {
	if fs.enclosing == nil {
		return -1, false, nil
	}

	if slot, err := fs.enclosing.resolveLocal(name); err != nil {
		return -1, false, err
	} else if slot >= 0 {
		fs.enclosing.locals[slot].isCaptured = true
		idx, err := fs.addUpvalue(uint8(slot), true)
		return idx, true, err
	}

	idx, found, err := fs.enclosing.resolveUpvalue(name)
	if err != nil || !found {
		return -1, found, err
	}
	i, err := fs.addUpvalue(uint8(idx), false)
	return i, true, err
}
