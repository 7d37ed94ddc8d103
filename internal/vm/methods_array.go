package vm

import (
	"strings"

	"slate/internal/container"
	"slate/internal/errors"
	"slate/internal/value"
)

// registerArrayMethods grounds testable property 6 (push/pop are
// inverses; reverse is an involution) against container.Array's
// already-implemented primitives (internal/container/array.go).
func registerArrayMethods(cls *value.Class) {
	defineMethod(cls, "push", 1, 1, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		// Array.Push retains its own copy (container.Array's retainFn),
		// so args[0]'s ownership is unaffected here; callNative releases
		// the caller's copy once this method returns.
		recv.AsArray().Push(args[0])
		return value.Undefined(), nil
	})
	defineMethod(cls, "pop", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		arr := recv.AsArray()
		if arr.Len() == 0 {
			return value.Value{}, errors.New(errors.RangeError, vm.hostLoc(), "pop on an empty array")
		}
		return arr.Pop(), nil
	})
	defineMethod(cls, "length", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Int32(int32(recv.AsArray().Len())), nil
	})
	defineMethod(cls, "isEmpty", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Bool(recv.AsArray().Len() == 0), nil
	})
	defineMethod(cls, "reverse", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		recv.AsArray().Reverse()
		return value.Undefined(), nil
	})
	defineMethod(cls, "sort", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		arr := recv.AsArray()
		var sortErr error
		arr.Sort(func(x, y value.Value) bool {
			if sortErr != nil || !value.Comparable(x, y) {
				if sortErr == nil {
					sortErr = errors.New(errors.TypeError, vm.hostLoc(), "array elements are not comparable")
				}
				return false
			}
			return value.Compare(x, y) < 0
		})
		if sortErr != nil {
			return value.Value{}, sortErr
		}
		return value.Undefined(), nil
	})
	defineMethod(cls, "join", 0, 1, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		sep := ","
		if len(args) == 1 {
			s, ok := requireString(args[0])
			if !ok {
				return typeErr(vm, "join expects a string separator")
			}
			sep = s.Value()
		}
		arr := recv.AsArray()
		parts := make([]string, arr.Len())
		for i := 0; i < arr.Len(); i++ {
			parts[i] = displayString(arr.Get(i))
		}
		return value.Str(container.NewString(strings.Join(parts, sep))), nil
	})
	defineMethod(cls, "get", 1, 1, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		arr := recv.AsArray()
		i := int(args[0].AsInt32())
		if i < 0 || i >= arr.Len() {
			return value.Value{}, errors.New(errors.RangeError, vm.hostLoc(), "array index %d out of range (length %d)", i, arr.Len())
		}
		return value.Retain(arr.Get(i)), nil
	})
}
