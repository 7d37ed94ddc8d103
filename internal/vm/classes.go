package vm

import (
	"slate/internal/container"
	"slate/internal/errors"
	"slate/internal/value"
)

// primitiveClasses is the eagerly initialized registry backing method
// dispatch on every non-object, non-class value (spec §9's resolved Open
// Question: "initialize it eagerly at VM creation" rather than lazily on
// first use, as the teacher's vmregister package did). Each field holds an
// ordinary *value.Class whose Instance map is populated with natives; no
// instance of these classes is ever constructed via NewInstance, they
// exist purely to anchor LookupInstance chains for GET_PROPERTY.
type primitiveClasses struct {
	str      *value.Class
	array    *value.Class
	object   *value.Class
	rng      *value.Class
	iterator *value.Class
	numeric  *value.Class
	buffer   *value.Class
	function *value.Class
}

func newPrimitiveClasses() primitiveClasses {
	pc := primitiveClasses{
		str:      value.NewClass("String"),
		array:    value.NewClass("Array"),
		object:   value.NewClass("Object"),
		rng:      value.NewClass("Range"),
		iterator: value.NewClass("Iterator"),
		numeric:  value.NewClass("Number"),
		buffer:   value.NewClass("Buffer"),
		function: value.NewClass("Function"),
	}
	registerStringMethods(pc.str)
	registerArrayMethods(pc.array)
	registerObjectMethods(pc.object)
	registerRangeMethods(pc.rng)
	registerIteratorMethods(pc.iterator)
	registerNumericMethods(pc.numeric)
	registerBufferMethods(pc.buffer)
	return pc
}

// release drops the registry's references at VM teardown (spec §5: the
// class-registry values are released at teardown, never mutated after
// initialization).
func (pc *primitiveClasses) release() {
	for _, cls := range []*value.Class{
		pc.str, pc.array, pc.object, pc.rng, pc.iterator, pc.numeric, pc.buffer, pc.function,
	} {
		cls.Release()
	}
}

// forKind maps a Value's Kind to the primitive class that answers its
// GET_PROPERTY lookups (spec §4.5); KindObject and KindClass are handled
// separately by getProperty since they carry their own class pointer.
func (pc *primitiveClasses) forKind(k value.Kind) *value.Class {
	switch k {
	case value.KindString:
		return pc.str
	case value.KindArray:
		return pc.array
	case value.KindRange:
		return pc.rng
	case value.KindIterator:
		return pc.iterator
	case value.KindInt32, value.KindBigint, value.KindFloat32, value.KindFloat64:
		return pc.numeric
	case value.KindBuffer, value.KindBufferBuilder, value.KindBufferReader:
		return pc.buffer
	case value.KindNative, value.KindClosure, value.KindBoundMethod:
		return pc.function
	default:
		return nil
	}
}

// methodFn is a primitive instance method's implementation: recv is the
// already-unwrapped receiver (args[0] stripped off by the bound-native
// call path), args holds only the user-supplied arguments.
type methodFn func(vm *VM, recv value.Value, args []value.Value) (value.Value, error)

// defineMethod registers a bound-only native on cls.Instance under name.
// userMin/userMax count the user-supplied arguments only; callNative adds
// 1 for the bound receiver before checking arity, so registering
// (minArgs: 0, maxArgs: 1) here yields an effective native MinArgs/MaxArgs
// of 1/2.
func defineMethod(cls *value.Class, name string, userMin, userMax int, fn methodFn) {
	max := userMax
	if max >= 0 {
		max++
	}
	n := &value.Native{
		Name:    cls.Name + "." + name,
		MinArgs: userMin + 1,
		MaxArgs: max,
		Fn: func(rawVM interface{}, args []value.Value) (value.Value, error) {
			vm := rawVM.(*VM)
			return fn(vm, args[0], args[1:])
		},
	}
	key := container.Intern(name)
	cls.Instance.Set(key, value.NativeValue(n))
}

func argErr(vm *VM, format string, args ...interface{}) (value.Value, error) {
	return value.Value{}, errors.New(errors.ArityError, vm.hostLoc(), format, args...)
}

func typeErr(vm *VM, format string, args ...interface{}) (value.Value, error) {
	return value.Value{}, errors.New(errors.TypeError, vm.hostLoc(), format, args...)
}

// hostLoc gives a native method a source location for errors it raises,
// matching the location the VM would have attached had the failure
// occurred in the calling frame.
func (vm *VM) hostLoc() errors.Location {
	return errors.Location{File: vm.file, Line: vm.frame().line()}
}
