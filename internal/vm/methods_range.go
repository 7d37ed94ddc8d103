package vm

import (
	"slate/internal/container"
	"slate/internal/value"
)

// registerRangeMethods exposes a range's own start/end/step alongside
// toArray, which materializes the same sequence iterator(r) walks one
// step at a time (spec §8's array-vs-iterator equivalence property).
func registerRangeMethods(cls *value.Class) {
	defineMethod(cls, "start", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Retain(recv.AsRange().Start), nil
	})
	defineMethod(cls, "end", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Retain(recv.AsRange().End), nil
	})
	defineMethod(cls, "step", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Retain(recv.AsRange().Step), nil
	})
	defineMethod(cls, "toArray", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		it := value.NewRangeIterator(recv.AsRange())
		defer it.Release()
		var elems []value.ArrayValue
		for it.HasNext() {
			elems = append(elems, it.Next())
		}
		return value.Array(container.NewArrayFromSlice(elems, value.Retain, value.Release)), nil
	})
}
