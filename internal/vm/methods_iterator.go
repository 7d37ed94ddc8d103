package vm

import (
	"slate/internal/errors"
	"slate/internal/value"
)

// registerIteratorMethods supplies has_next/next, the two property-
// resolved calls the compiler's for-in lowering emits (internal/compiler,
// VisitForInStmt: "iterator(expr); loop: has_next() -> JumpIfFalse; next()
// -> bind loop var"), grounded on value.Iterator's already-implemented
// HasNext/Next (spec §8 scenario S4).
func registerIteratorMethods(cls *value.Class) {
	defineMethod(cls, "has_next", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Bool(recv.AsIterator().HasNext()), nil
	})
	defineMethod(cls, "next", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		it := recv.AsIterator()
		if !it.HasNext() {
			return value.Value{}, errors.New(errors.RangeError, vm.hostLoc(), "next() called past the end of the iterator")
		}
		return it.Next(), nil
	})
}
