package vm

import (
	"slate/internal/container"
	"slate/internal/errors"
	"slate/internal/value"
)

// registerStringMethods grounds spec §8 scenario S2 ("Hello,
// World".toUpper().substring(7, 5) -> "WORLD") and the companion
// testable property ("s.toUpper().length() == s.length()" for ASCII
// input): each method returns a fresh *container.String, consistent with
// strings being immutable (spec §3.2).
func registerStringMethods(cls *value.Class) {
	defineMethod(cls, "toUpper", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Str(recv.AsString().Upper()), nil
	})
	defineMethod(cls, "toLower", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Str(recv.AsString().Lower()), nil
	})
	defineMethod(cls, "length", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Int32(int32(recv.AsString().LenCodepoints())), nil
	})
	defineMethod(cls, "lengthBytes", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Int32(int32(recv.AsString().LenBytes())), nil
	})
	defineMethod(cls, "isEmpty", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Bool(recv.AsString().IsEmpty()), nil
	})
	defineMethod(cls, "find", 1, 1, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		sub, ok := requireString(args[0])
		if !ok {
			return typeErr(vm, "find expects a string argument")
		}
		return value.Int32(int32(recv.AsString().Find(sub.Value()))), nil
	})
	defineMethod(cls, "replace", 2, 2, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		old, ok1 := requireString(args[0])
		repl, ok2 := requireString(args[1])
		if !ok1 || !ok2 {
			return typeErr(vm, "replace expects two string arguments")
		}
		return value.Str(recv.AsString().Replace(old.Value(), repl.Value())), nil
	})
	// substring(start, length) slices by codepoint index, matching S2's
	// substring(7, 5) over the upper-cased "HELLO, WORLD" -> "WORLD".
	defineMethod(cls, "substring", 1, 2, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		s := recv.AsString()
		start := int(args[0].AsInt32())
		end := s.LenCodepoints()
		if len(args) == 2 {
			end = start + int(args[1].AsInt32())
		}
		if start < 0 || end > s.LenCodepoints() || start > end {
			return value.Value{}, vm.runtimeErr(errors.RangeError, "substring(%d, %d) out of range for length %d", start, end-start, s.LenCodepoints())
		}
		return value.Str(s.Slice(start, end)), nil
	})
}

func requireString(v value.Value) (*container.String, bool) {
	if v.Kind != value.KindString {
		return nil, false
	}
	return v.AsString(), true
}
