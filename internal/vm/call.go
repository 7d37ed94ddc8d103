package vm

import (
	"slate/internal/errors"
	"slate/internal/value"
)

// call implements CALL argc (spec §4.5): the callee sits argc slots below
// the current top. Each of the four callee kinds the spec names gets its
// own dispatch; bound methods and class factories resolve to one of the
// other two and recurse.
func (vm *VM) call(argc int) error {
	calleeIdx := vm.stackTop - argc - 1
	callee := vm.stack[calleeIdx]
	switch callee.Kind {
	case value.KindNative:
		return vm.callNative(callee.AsNative(), value.Value{}, false, calleeIdx, argc)
	case value.KindClosure:
		return vm.callClosure(callee.AsClosure(), calleeIdx, argc)
	case value.KindBoundMethod:
		return vm.callBoundMethod(callee.AsBoundMethod(), calleeIdx, argc)
	case value.KindClass:
		return vm.callClass(callee.AsClass(), calleeIdx, argc)
	default:
		return vm.runtimeErr(errors.TypeError, "value is not callable")
	}
}

// callBoundMethod threads the bound receiver as an implicit first argument
// (spec §4.5). A bound native receives the receiver at args[0]; a bound
// closure has no `this`-like expression to read it through (see
// value.Class.Fields), so the bound method itself stays in the frame's
// reserved, never-named slot 0 — keeping both halves alive for the
// duration of the call — and argc matches the method's declared parameter
// count exactly, as the compiler's VisitMethodCallExpr emits CALL with
// argc equal to the source argument count, never argc+1.
func (vm *VM) callBoundMethod(bm *value.BoundMethod, calleeIdx, argc int) error {
	switch bm.Callee.Kind {
	case value.KindNative:
		return vm.callNative(bm.Callee.AsNative(), bm.Receiver, true, calleeIdx, argc)
	case value.KindClosure:
		return vm.callClosure(bm.Callee.AsClosure(), calleeIdx, argc)
	default:
		return vm.runtimeErr(errors.TypeError, "bound callee is not callable")
	}
}

// callNative invokes a host function (spec §6.2): it receives a retained
// argument slice and must return a retained value. bound/receiver let a
// method dispatch thread the receiver in as args[0] without the unbound
// call path paying for an extra slice element.
func (vm *VM) callNative(n *value.Native, receiver value.Value, bound bool, calleeIdx, argc int) error {
	total := argc
	if bound {
		total++
	}
	if total < n.MinArgs || (n.MaxArgs >= 0 && total > n.MaxArgs) {
		return vm.runtimeErr(errors.ArityError, "%s expects %s, got %d", n.Name, arityDesc(n), total)
	}
	args := make([]value.Value, 0, total)
	if bound {
		// The bound method owns the receiver reference; args needs one of
		// its own, since the loop below releases every element.
		args = append(args, value.Retain(receiver))
	}
	args = append(args, vm.stack[calleeIdx+1:calleeIdx+1+argc]...)
	callee := vm.stack[calleeIdx]
	vm.stackTop = calleeIdx

	result, err := n.Fn(vm, args)
	for _, a := range args {
		value.Release(a)
	}
	value.Release(callee)
	if err != nil {
		return vm.wrapNativeErr(err)
	}
	return vm.push(result)
}

func arityDesc(n *value.Native) string {
	if n.MaxArgs < 0 {
		if n.MinArgs == 0 {
			return "any number of arguments"
		}
		return "at least " + itoa(n.MinArgs) + " argument(s)"
	}
	if n.MinArgs == n.MaxArgs {
		return "exactly " + itoa(n.MinArgs) + " argument(s)"
	}
	return "between " + itoa(n.MinArgs) + " and " + itoa(n.MaxArgs) + " argument(s)"
}

func (vm *VM) wrapNativeErr(err error) error {
	if se, ok := err.(*errors.SlateError); ok {
		return vm.attachBacktrace(se)
	}
	loc := errors.Location{File: vm.file, Line: vm.frame().line()}
	return vm.attachBacktrace(errors.FromHost(err, loc))
}

// callClosure pushes a new frame based at calleeIdx (spec §4.5): slot 0
// is whatever the caller left there (the closure itself for a plain
// call, the bound method for a method call), params occupy slots
// 1..argc, and any further declared locals materialize as the body
// pushes their initializers — slot numbering and stack position stay in
// lockstep, so no padding slots are written here. LocalCount bounds the
// frame's eventual window for the overflow pre-check.
func (vm *VM) callClosure(cl *value.Closure, calleeIdx, argc int) error {
	fn := cl.Function
	if argc != len(fn.Params) {
		return vm.runtimeErr(errors.ArityError, "%s expects %d argument(s), got %d", fnLabel(fn), len(fn.Params), argc)
	}
	if vm.frameCount >= vm.maxFrames {
		return vm.runtimeErr(errors.StackOverflowError, "call stack overflow")
	}
	if calleeIdx+int(fn.LocalCount) > vm.maxStack {
		return vm.runtimeErr(errors.StackOverflowError, "value stack overflow")
	}

	vm.frames[vm.frameCount] = CallFrame{closure: cl, ip: 0, base: calleeIdx}
	vm.frameCount++
	return nil
}

func fnLabel(fn *value.Function) string {
	if fn.Name == "" {
		return "<anonymous>"
	}
	return fn.Name
}

// callClass invokes a class's factory on Class(args...) (spec §4.5),
// erroring if none was registered (__make_class always registers one, so
// this only fires for classes assembled some other way by an embedder).
func (vm *VM) callClass(cls *value.Class, calleeIdx, argc int) error {
	if cls.Factory == nil {
		return vm.runtimeErr(errors.ArityError, "class %s has no factory", cls.Name)
	}
	factory := value.Retain(*cls.Factory)
	value.Release(vm.stack[calleeIdx])
	vm.stack[calleeIdx] = factory
	return vm.call(argc)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
