package vm

import (
	"strconv"

	"slate/internal/container"
	"slate/internal/errors"
	"slate/internal/value"
)

// getProperty implements GET_PROPERTY's resolution order (spec §4.5): an
// instance's own property map, then its class chain, then (for any object,
// classed or not) the universal Object primitive class; everything else
// consults the primitive class registry keyed by kind. A native or closure
// resolved for an object or a primitive receiver is wrapped as a bound
// method, matching the compiler's "push r, GET_PROPERTY" method-call
// lowering; a class's static is returned unbound, since statics take no
// receiver (Object.create(proto) reaches the native with one argument).
func (vm *VM) getProperty(recv value.Value, key *container.InternedKey) (value.Value, error) {
	switch recv.Kind {
	case value.KindObject:
		if v, ok := recv.AsObject().Get(key); ok {
			return vm.bindIfCallable(v, recv), nil
		}
		if recv.Class != nil {
			if v, ok := recv.Class.LookupInstance(key); ok {
				return vm.bindIfCallable(v, recv), nil
			}
		}
		if v, ok := vm.classes.object.LookupInstance(key); ok {
			return vm.bindIfCallable(v, recv), nil
		}
		return value.Undefined(), nil
	case value.KindClass:
		cls := recv.AsClass()
		if v, ok := cls.LookupStatic(key); ok {
			return value.Retain(v), nil
		}
		return value.Undefined(), nil
	default:
		cls := vm.classes.forKind(recv.Kind)
		if cls == nil {
			return value.Undefined(), nil
		}
		if v, ok := cls.LookupInstance(key); ok {
			return vm.bindIfCallable(v, recv), nil
		}
		return value.Undefined(), nil
	}
}

// bindIfCallable wraps a resolved native or closure in a bound method
// pairing it with recv, per spec §4.4's method-call lowering; any other
// resolved kind is returned as a plain retained value. NewBoundMethod
// retains both recv and v, since the caller (OpGetProperty) releases its
// own popped copy of recv immediately after this returns and the
// property map keeps its own reference to v.
func (vm *VM) bindIfCallable(v value.Value, recv value.Value) value.Value {
	if v.Kind == value.KindNative || v.Kind == value.KindClosure {
		return value.BoundMethodValue(value.NewBoundMethod(recv, v))
	}
	return value.Retain(v)
}

// setProperty implements SET_PROPERTY: only objects (plain maps and class
// instances alike) own a settable property map; anything else is a
// TypeError (spec §4.5: "fail if r is not an object").
func (vm *VM) setProperty(recv value.Value, key *container.InternedKey, v value.Value) error {
	if recv.Kind != value.KindObject {
		return vm.runtimeErr(errors.TypeError, "cannot set a property on a non-object value")
	}
	recv.AsObject().Set(key, v)
	return nil
}

func (vm *VM) indexInt(idx value.Value) (int, error) {
	if idx.Kind != value.KindInt32 {
		return 0, vm.runtimeErr(errors.TypeError, "index must be an int32")
	}
	return int(idx.AsInt32()), nil
}

// getIndex implements GET_INDEX (spec §4.5): bounds-checked array access,
// object access by a coerced string key, and single-codepoint string
// access.
func (vm *VM) getIndex(obj, idx value.Value) (value.Value, error) {
	switch obj.Kind {
	case value.KindArray:
		arr := obj.AsArray()
		i, err := vm.indexInt(idx)
		if err != nil {
			return value.Value{}, err
		}
		if i < 0 || i >= arr.Len() {
			return value.Value{}, vm.runtimeErr(errors.RangeError, "array index %d out of range (length %d)", i, arr.Len())
		}
		return value.Retain(arr.Get(i)), nil
	case value.KindObject:
		key, err := vm.coerceKey(idx)
		if err != nil {
			return value.Value{}, err
		}
		if v, ok := obj.AsObject().Get(key); ok {
			return value.Retain(v), nil
		}
		return value.Undefined(), nil
	case value.KindString:
		s := obj.AsString()
		i, err := vm.indexInt(idx)
		if err != nil {
			return value.Value{}, err
		}
		cps := s.Codepoints()
		if i < 0 || i >= len(cps) {
			return value.Value{}, vm.runtimeErr(errors.RangeError, "string index %d out of range (length %d)", i, len(cps))
		}
		return value.Str(container.NewString(string(cps[i]))), nil
	default:
		return value.Value{}, vm.runtimeErr(errors.TypeError, "value is not indexable")
	}
}

// setIndex implements SET_INDEX (spec §4.5); only arrays and objects
// support index assignment.
func (vm *VM) setIndex(obj, idx, v value.Value) error {
	switch obj.Kind {
	case value.KindArray:
		arr := obj.AsArray()
		i, err := vm.indexInt(idx)
		if err != nil {
			return err
		}
		if i < 0 || i >= arr.Len() {
			return vm.runtimeErr(errors.RangeError, "array index %d out of range (length %d)", i, arr.Len())
		}
		arr.Set(i, v)
		return nil
	case value.KindObject:
		key, err := vm.coerceKey(idx)
		if err != nil {
			return err
		}
		obj.AsObject().Set(key, v)
		return nil
	default:
		return vm.runtimeErr(errors.TypeError, "value does not support index assignment")
	}
}

// coerceKey implements "for objects, any value coerced to string key"
// (spec §4.5) by rendering v's canonical textual form and interning it.
func (vm *VM) coerceKey(v value.Value) (*container.InternedKey, error) {
	switch v.Kind {
	case value.KindString:
		return container.Intern(v.AsString().Value()), nil
	case value.KindNull:
		return container.Intern("null"), nil
	case value.KindUndefined:
		return container.Intern("undefined"), nil
	case value.KindBool:
		return container.Intern(strconv.FormatBool(v.AsBool())), nil
	case value.KindInt32:
		return container.Intern(strconv.FormatInt(int64(v.AsInt32()), 10)), nil
	case value.KindBigint:
		return container.Intern(v.AsBignum().String()), nil
	case value.KindFloat32:
		return container.Intern(strconv.FormatFloat(float64(v.AsFloat32()), 'g', -1, 32)), nil
	case value.KindFloat64:
		return container.Intern(strconv.FormatFloat(v.AsFloat64(), 'g', -1, 64)), nil
	default:
		return nil, vm.runtimeErr(errors.TypeError, "value of this kind cannot be used as a property key")
	}
}
