package vm

import (
	"slate/internal/container"
	"slate/internal/value"
)

// registerObjectMethods registers the universal fallback every object
// value (plain map or class instance) answers GET_PROPERTY through once
// its own property map and class chain miss (spec §4.5: getProperty's
// KindObject branch consults pc.object last).
func registerObjectMethods(cls *value.Class) {
	defineMethod(cls, "keys", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		obj := recv.AsObject()
		elems := make([]value.ArrayValue, 0, obj.Count())
		obj.Iterate(func(key *container.InternedKey, _ value.Value) bool {
			elems = append(elems, value.Str(container.NewString(key.String())))
			return true
		})
		return value.Array(container.NewArrayFromSlice(elems, value.Retain, value.Release)), nil
	})
	defineMethod(cls, "has", 1, 1, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		s, ok := requireString(args[0])
		if !ok {
			return typeErr(vm, "has expects a string key")
		}
		return value.Bool(recv.AsObject().Has(container.Intern(s.Value()))), nil
	})
	defineMethod(cls, "count", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Int32(int32(recv.AsObject().Count())), nil
	})
}
