package vm

import (
	"fmt"

	"slate/internal/container"
	"slate/internal/errors"
	"slate/internal/value"
)

// RegisterBuiltin installs a global native function under name (spec
// §6.3's "the host registers a Go function under a name, callable from
// script exactly like a declared function"), exported so an embedder
// extending this VM (see builtins_demo.go) uses the same path the
// standard library does.
func RegisterBuiltin(vm *VM, name string, fn value.NativeFn, minArgs, maxArgs int) {
	n := &value.Native{Name: name, Fn: fn, MinArgs: minArgs, MaxArgs: maxArgs}
	vm.globals.Set(container.Intern(name), value.NativeValue(n))
}

// registerBuiltins installs every global the compiler's lowering depends
// on by name (__make_range, __make_class, iterator) alongside the small
// standard library spec §6.1 calls for.
func (vm *VM) registerBuiltins() {
	RegisterBuiltin(vm, "print", builtinPrint, 0, -1)
	RegisterBuiltin(vm, "iterator", builtinIterator, 1, 1)
	RegisterBuiltin(vm, "__make_range", builtinMakeRange, 4, 4)
	RegisterBuiltin(vm, "__make_class", builtinMakeClass, 4, 4)
	vm.registerObjectGlobal()
	vm.registerDemoBuiltins()
}

func builtinPrint(rawVM interface{}, args []value.Value) (value.Value, error) {
	for i, a := range args {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(displayString(a))
	}
	fmt.Println()
	return value.Undefined(), nil
}

// builtinIterator implements the for-in lowering's entry point
// (internal/compiler's VisitForInStmt emits "push the iterable; CALL
// iterator"), dispatching on kind to the variant value.Iterator wraps
// (spec §3.5, §8 scenario S4).
func builtinIterator(rawVM interface{}, args []value.Value) (value.Value, error) {
	vm := rawVM.(*VM)
	switch args[0].Kind {
	case value.KindArray:
		return value.IteratorValue(value.NewArrayIterator(args[0].AsArray())), nil
	case value.KindRange:
		return value.IteratorValue(value.NewRangeIterator(args[0].AsRange())), nil
	case value.KindString:
		return value.IteratorValue(value.NewStringIterator(args[0].AsString())), nil
	case value.KindIterator:
		return value.Retain(args[0]), nil
	default:
		return value.Value{}, errors.New(errors.TypeError, vm.hostLoc(), "value is not iterable")
	}
}

// builtinMakeRange backs the range-literal lowering (internal/compiler's
// VisitRangeExpr: "push start, end, step-or-1, exclusive; CALL
// __make_range 4"), spec §8 scenario S4's `1..10`.
func builtinMakeRange(rawVM interface{}, args []value.Value) (value.Value, error) {
	vm := rawVM.(*VM)
	if args[3].Kind != value.KindBool {
		return value.Value{}, errors.New(errors.TypeError, vm.hostLoc(), "__make_range's exclusive flag must be a bool")
	}
	r, err := value.NewRange(args[0], args[1], args[2], args[3].AsBool(), vm.debugLoc())
	if err != nil {
		return value.Value{}, err
	}
	return value.RangeValue(r), nil
}

// builtinMakeClass backs class-declaration lowering (internal/compiler's
// VisitClassStmt: "push name, superclass-or-null, methods-object,
// fields-array; CALL __make_class 4"). It builds the Class value and a
// companion factory native that, on Class(args...), allocates a fresh
// instance and binds args positionally onto cls.Fields (spec §3.3: the
// language has no constructor method or `this` expression, so the
// factory performs the field assignment the source can't express).
func builtinMakeClass(rawVM interface{}, args []value.Value) (value.Value, error) {
	vm := rawVM.(*VM)
	nameStr, ok := requireString(args[0])
	if !ok {
		return typeErr(vm, "__make_class expects a string name")
	}

	cls := value.NewClass(nameStr.Value())
	switch args[1].Kind {
	case value.KindNull, value.KindUndefined:
	case value.KindClass:
		cls.Superclass = args[1].AsClass().Retain()
	default:
		return typeErr(vm, "superclass must be a class or null")
	}

	if args[2].Kind != value.KindObject {
		return typeErr(vm, "__make_class expects a methods object")
	}
	args[2].AsObject().Iterate(func(key *container.InternedKey, v value.Value) bool {
		cls.Instance.Set(key, v)
		return true
	})

	if args[3].Kind != value.KindArray {
		return typeErr(vm, "__make_class expects a fields array")
	}
	fieldsArr := args[3].AsArray()
	fields := make([]string, fieldsArr.Len())
	for i := 0; i < fieldsArr.Len(); i++ {
		s, ok := requireString(fieldsArr.Get(i))
		if !ok {
			return typeErr(vm, "field names must be strings")
		}
		fields[i] = s.Value()
	}
	cls.Fields = fields

	factory := classFactory(cls)
	factoryVal := value.NativeValue(factory)
	cls.Factory = &factoryVal

	return value.ClassValue(cls), nil
}

// classFactory builds the native Class(args...) invokes: a fresh
// instance whose own property map is pre-populated with cls.Fields bound
// to args by position (spec §3.3), walking Superclass for the combined
// field list so a subclass's factory also accepts its ancestors' fields.
func classFactory(cls *value.Class) *value.Native {
	allFields := collectFields(cls)
	return &value.Native{
		Name:    cls.Name,
		MinArgs: len(allFields),
		MaxArgs: len(allFields),
		Fn: func(rawVM interface{}, args []value.Value) (value.Value, error) {
			inst := value.NewInstance(cls)
			obj := inst.AsObject()
			for i, name := range allFields {
				obj.Set(container.Intern(name), args[i])
			}
			return inst, nil
		},
	}
}

// collectFields walks a class's superclass chain root-first, so a
// subclass's positional constructor arguments list ancestor fields
// before its own, matching normal field-declaration order.
func collectFields(cls *value.Class) []string {
	if cls == nil {
		return nil
	}
	fields := collectFields(cls.Superclass)
	return append(fields, cls.Fields...)
}

// registerObjectGlobal installs the Object class value with a static
// create method implementing prototype-based instantiation (spec §8
// scenario S5: `Object.create(proto); o.greet("slate")` -> "hi slate").
// create builds a fresh anonymous class whose Instance map is proto's own
// retained property map, so instance lookup on the returned object walks
// directly into proto.
func (vm *VM) registerObjectGlobal() {
	objectClass := value.NewClass("Object")
	create := &value.Native{
		Name:    "Object.create",
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(rawVM interface{}, args []value.Value) (value.Value, error) {
			vm := rawVM.(*VM)
			if args[0].Kind != value.KindObject {
				return typeErr(vm, "Object.create expects an object prototype")
			}
			proto := value.NewClass("")
			proto.Instance.Release()
			proto.Instance = args[0].AsObject().Retain()
			return value.NewInstance(proto), nil
		},
	}
	objectClass.Static.Set(container.Intern("create"), value.NativeValue(create))
	ocv := value.ClassValue(objectClass)
	vm.globals.Set(container.Intern("Object"), ocv)
	value.Release(ocv)
}
