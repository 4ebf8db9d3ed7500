package vm

import (
	"golang.org/x/exp/slices"

	"github.com/mna/ember/lang/types"
)

// captureUpvalue returns the open upvalue aliasing stack slot, creating
// one if none exists yet. vm.openUpvalues is kept sorted by descending
// slot. The swiss-backed index gives the common case, a local already
// captured once (for example by repeated closures over the same loop
// variable), an O(1) lookup instead of a scan.
func (vm *VM) captureUpvalue(slot int) *types.Upvalue {
	if up, ok := vm.openUpvalueIdx.Get(slot); ok {
		return up
	}

	idx := slices.IndexFunc(vm.openUpvalues, func(u *types.Upvalue) bool { return u.Slot <= slot })
	up := types.NewOpenUpvalue(slot)
	if idx < 0 {
		vm.openUpvalues = append(vm.openUpvalues, up)
	} else {
		vm.openUpvalues = slices.Insert(vm.openUpvalues, idx, up)
	}
	vm.openUpvalueIdx.Put(slot, up)
	return up
}

// closeUpvalues drains every open upvalue whose slot is at or above
// limit, copying its current stack value into its own closed storage so
// it outlives the frame that limit belongs to.
func (vm *VM) closeUpvalues(limit int) {
	for len(vm.openUpvalues) > 0 {
		up := vm.openUpvalues[0]
		if up.Slot < limit {
			break
		}
		up.Close(vm.stack)
		vm.openUpvalueIdx.Delete(up.Slot)
		vm.openUpvalues = vm.openUpvalues[1:]
	}
}
