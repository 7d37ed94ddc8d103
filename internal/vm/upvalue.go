package vm

import "slate/internal/value"

// captureUpvalue returns the open upvalue for absolute stack slot,
// creating and registering one if this is the first closure to capture
// it, so sibling closures over the same local share a single Upvalue
// (spec §3.4).
func (vm *VM) captureUpvalue(slot int) *value.Upvalue {
	if uv, ok := vm.openUpvalues[slot]; ok {
		return uv
	}
	uv := value.NewOpenUpvalue(&vm.stack[slot])
	vm.openUpvalues[slot] = uv
	return uv
}

// closeUpvaluesFrom snapshots every open upvalue at or above base into
// its Closed form, called when the frame that owns those stack slots is
// about to return (spec §3.4: "a value captured by a closure from an
// enclosing lexical scope" must outlive the frame).
func (vm *VM) closeUpvaluesFrom(base int) {
	for slot, uv := range vm.openUpvalues {
		if slot >= base {
			uv.Close()
			delete(vm.openUpvalues, slot)
			// The map held the creation-time strong reference (spec
			// §3.1's per-payload count); once closed, every remaining
			// owner is a closure that retained its own reference in
			// OpClosure, so the map's reference is released here.
			uv.Release()
		}
	}
}
