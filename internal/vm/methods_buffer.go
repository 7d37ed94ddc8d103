package vm

import (
	"math/big"

	"slate/internal/container"
	"slate/internal/errors"
	"slate/internal/value"
)

// uintValue lifts a read width's raw integer into int32 when it fits, or
// a Bignum otherwise (spec §3.1's numeric lattice: "a value that no
// longer fits its current representation is promoted"), since a u32/u64
// read can exceed int32 range.
func uintValue(u uint64) value.Value {
	if u <= 0x7fffffff {
		return value.Int32(int32(u))
	}
	return value.Bignum(container.NewBignum(new(big.Int).SetUint64(u)))
}

func hostErr(vm *VM, err error) (value.Value, error) {
	return value.Value{}, errors.FromHost(err, vm.hostLoc())
}

// registerBufferMethods spans all three buffer variants (read-only
// Buffer, append-only BufferBuilder, positional BufferReader; spec §3.6)
// on the single shared class returned by forKind, type-switching on
// recv.Kind since Buffer/BufferBuilder/BufferReader share no Go
// interface.
func registerBufferMethods(cls *value.Class) {
	defineMethod(cls, "length", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		switch recv.Kind {
		case value.KindBuffer:
			return value.Int32(int32(recv.AsBuffer().Len())), nil
		case value.KindBufferBuilder:
			return value.Int32(int32(recv.AsBufferBuilder().Len())), nil
		default:
			return typeErr(vm, "length is not defined on a buffer reader")
		}
	})
	defineMethod(cls, "hex", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		if recv.Kind != value.KindBuffer {
			return typeErr(vm, "hex is only defined on a buffer")
		}
		return value.Str(container.NewString(recv.AsBuffer().Hex())), nil
	})
	defineMethod(cls, "slice", 2, 2, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		if recv.Kind != value.KindBuffer {
			return typeErr(vm, "slice is only defined on a buffer")
		}
		return value.Buffer(recv.AsBuffer().Slice(int(args[0].AsInt32()), int(args[1].AsInt32()))), nil
	})
	defineMethod(cls, "concat", 1, 1, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		if recv.Kind != value.KindBuffer || args[0].Kind != value.KindBuffer {
			return typeErr(vm, "concat expects two buffers")
		}
		return value.Buffer(recv.AsBuffer().Concat(args[0].AsBuffer())), nil
	})

	readU8 := func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		v, err := recv.AsBuffer().ReadU8(int(args[0].AsInt32()))
		if err != nil {
			return hostErr(vm, err)
		}
		return value.Int32(int32(v)), nil
	}
	readU16LE := func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		v, err := recv.AsBuffer().ReadU16LE(int(args[0].AsInt32()))
		if err != nil {
			return hostErr(vm, err)
		}
		return value.Int32(int32(v)), nil
	}
	readU32LE := func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		v, err := recv.AsBuffer().ReadU32LE(int(args[0].AsInt32()))
		if err != nil {
			return hostErr(vm, err)
		}
		return uintValue(uint64(v)), nil
	}
	readU64LE := func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		v, err := recv.AsBuffer().ReadU64LE(int(args[0].AsInt32()))
		if err != nil {
			return hostErr(vm, err)
		}
		return uintValue(v), nil
	}
	readF64LE := func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		v, err := recv.AsBuffer().ReadF64LE(int(args[0].AsInt32()))
		if err != nil {
			return hostErr(vm, err)
		}
		return value.Float64(v), nil
	}
	defineMethod(cls, "readU8", 1, 1, readU8)
	defineMethod(cls, "readU16LE", 1, 1, readU16LE)
	defineMethod(cls, "readU32LE", 1, 1, readU32LE)
	defineMethod(cls, "readU64LE", 1, 1, readU64LE)
	defineMethod(cls, "readF64LE", 1, 1, readF64LE)

	defineMethod(cls, "writeU8", 1, 1, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		recv.AsBufferBuilder().WriteU8(uint8(args[0].AsInt32()))
		return value.Undefined(), nil
	})
	defineMethod(cls, "writeU16LE", 1, 1, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		recv.AsBufferBuilder().WriteU16LE(uint16(args[0].AsInt32()))
		return value.Undefined(), nil
	})
	defineMethod(cls, "writeU32LE", 1, 1, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		recv.AsBufferBuilder().WriteU32LE(uint32(args[0].AsInt32()))
		return value.Undefined(), nil
	})
	defineMethod(cls, "writeBytes", 1, 1, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		if args[0].Kind != value.KindBuffer {
			return typeErr(vm, "writeBytes expects a buffer")
		}
		recv.AsBufferBuilder().WriteBytes(args[0].AsBuffer().Bytes())
		return value.Undefined(), nil
	})
	defineMethod(cls, "finalize", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Buffer(recv.AsBufferBuilder().Finalize()), nil
	})

	defineMethod(cls, "position", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Int32(int32(recv.AsBufferReader().Position())), nil
	})
	defineMethod(cls, "remaining", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		return value.Int32(int32(recv.AsBufferReader().Remaining())), nil
	})
	defineMethod(cls, "readerU8", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		v, err := recv.AsBufferReader().ReadU8()
		if err != nil {
			return hostErr(vm, err)
		}
		return value.Int32(int32(v)), nil
	})
	defineMethod(cls, "readerU32LE", 0, 0, func(vm *VM, recv value.Value, args []value.Value) (value.Value, error) {
		v, err := recv.AsBufferReader().ReadU32LE()
		if err != nil {
			return hostErr(vm, err)
		}
		return uintValue(uint64(v)), nil
	})
}
