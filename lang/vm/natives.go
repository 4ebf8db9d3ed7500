package vm

import (
	"time"

	"github.com/mna/ember/lang/types"
)

// processStart anchors clock(): callers only need a monotonically
// nondecreasing count of seconds since an unspecified epoch, so the
// process's own start time serves as that epoch.
var processStart = time.Now()

func nativeClock(int, []types.Value) (types.Value, error) {
	return types.Number(time.Since(processStart).Seconds()), nil
}

// defineNative registers a host-implemented callable as a global.
func (vm *VM) defineNative(name string, fn types.NativeFn) {
	n := vm.Intern(name)
	vm.globals.Put(n, &types.Native{Name: name, Fn: fn})
}
