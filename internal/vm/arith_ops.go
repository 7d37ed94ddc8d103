package vm

import (
	"slate/internal/bytecode"
	"slate/internal/errors"
	"slate/internal/value"
)

const upvalueFlag = uint16(1) << 15

type binFn func(a, b value.Value) value.Value

func opAdd(a, b value.Value) value.Value { return value.Add(a, b) }
func opSub(a, b value.Value) value.Value { return value.Sub(a, b) }
func opMul(a, b value.Value) value.Value { return value.Mul(a, b) }

// binOp executes ADD/SUB/MUL. ADD additionally means string
// concatenation when both operands are strings (spec §4.4's comment
// that interpolation folds parts together with ADD rather than a
// separate CONCAT opcode — the same rule applies to the source-level
// `+` operator on two strings).
func (vm *VM) binOp(fn binFn) error {
	b, a := vm.pop(), vm.pop()
	defer func() {
		value.Release(a)
		value.Release(b)
	}()
	if a.Is(value.KindString) && b.Is(value.KindString) {
		return vm.push(value.Str(a.AsString().Append(b.AsString())))
	}
	if !value.IsNumeric(a) || !value.IsNumeric(b) {
		return vm.runtimeErr(errors.TypeError, "operator requires numeric or string operands")
	}
	return vm.push(fn(a, b))
}

type binErrFn func(a, b value.Value, loc *value.DebugLoc) (value.Value, error)

func (vm *VM) binOpErr(fn binErrFn) error {
	b, a := vm.pop(), vm.pop()
	loc := vm.debugLoc()
	r, err := fn(a, b, loc)
	value.Release(a)
	value.Release(b)
	if err != nil {
		return vm.wrapTypeErr(err)
	}
	return vm.push(r)
}

// compareOp executes LT/LE/GT/GE, valid only within the numeric lattice
// and for strings (spec §4.2).
func (vm *VM) compareOp(op bytecode.OpCode) error {
	b, a := vm.pop(), vm.pop()
	defer func() {
		value.Release(a)
		value.Release(b)
	}()
	if !value.Comparable(a, b) {
		return vm.runtimeErr(errors.TypeError, "values are not comparable")
	}
	c := value.Compare(a, b)
	var result bool
	switch op {
	case bytecode.OpLt:
		result = c < 0
	case bytecode.OpLe:
		result = c <= 0
	case bytecode.OpGt:
		result = c > 0
	case bytecode.OpGe:
		result = c >= 0
	}
	return vm.push(value.Bool(result))
}
