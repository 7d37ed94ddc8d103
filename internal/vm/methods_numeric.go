package vm

import "slate/internal/value"

// registerNumericMethods exposes the bitwise/shift family (spec §4.2)
// as instance methods on the numeric primitive class: the compiled
// instruction set (internal/bytecode's OpCode enum) has no ADD/SUB-style
// opcode slot for them, unlike the arithmetic operators spec §4.4 ties to
// dedicated opcodes, so they are reached the same way any other library
// function is — through GET_PROPERTY and CALL, consistent with spec
// §6.3's native-registration mechanism.
func registerNumericMethods(cls *value.Class) {
	binBit := func(fn func(a, b value.Value, loc *value.DebugLoc) (value.Value, error)) methodFn {
		return func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
			if !value.IsNumeric(args[0]) {
				return typeErr(vm, "expected a numeric argument")
			}
			return fn(recv, args[0], vm.debugLoc())
		}
	}
	defineMethod(cls, "bitAnd", 1, 1, binBit(value.BitAnd))
	defineMethod(cls, "bitOr", 1, 1, binBit(value.BitOr))
	defineMethod(cls, "bitXor", 1, 1, binBit(value.BitXor))
	defineMethod(cls, "shl", 1, 1, binBit(value.Shl))
	defineMethod(cls, "shr", 1, 1, binBit(value.Shr))
	defineMethod(cls, "ushr", 1, 1, binBit(value.UShr))
	defineMethod(cls, "bitNot", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.BitNot(recv, vm.debugLoc())
	})
}
