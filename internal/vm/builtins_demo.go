package vm

import (
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/kr/pretty"

	"slate/internal/container"
	"slate/internal/errors"
	"slate/internal/value"
)

// registerDemoBuiltins installs a small host-provided standard library on
// top of the language core (spec §6.3's "embedders are expected to
// register additional natives for I/O, time, and formatting"), exercising
// the temporal and numeric helpers already implemented in
// internal/value/temporal.go and internal/container/bignum.go.
func (vm *VM) registerDemoBuiltins() {
	RegisterBuiltin(vm, "now", builtinNow, 0, 0)
	RegisterBuiltin(vm, "format", builtinFormat, 2, 2)
	RegisterBuiltin(vm, "humanize", builtinHumanize, 1, 1)
	RegisterBuiltin(vm, "bignum", builtinBignum, 1, 1)
	RegisterBuiltin(vm, "uuid", builtinUUID, 0, 0)
	RegisterBuiltin(vm, "inspect", builtinInspect, 1, 1)
}

// now() returns the current instant (spec §3.1's instant type), the one
// builtin in this file whose result is inherently non-deterministic,
// matching the teacher's own RegisterBuiltin("now", ...) treatment of
// wall-clock time as a host capability rather than part of the core
// language.
func builtinNow(rawVM interface{}, args []value.Value) (value.Value, error) {
	return value.Instant(time.Now().UnixMilli()), nil
}

// format(temporalValue, layout) renders a local_date, local_time,
// local_datetime, date or instant through go-strftime
// (value.FormatTemporal); zone, duration and period values are not
// supported.
func builtinFormat(rawVM interface{}, args []value.Value) (value.Value, error) {
	vm := rawVM.(*VM)
	layout, ok := requireString(args[1])
	if !ok {
		return typeErr(vm, "format's second argument must be a string layout")
	}
	s, err := value.FormatTemporal(args[0], layout.Value())
	if err != nil {
		return value.Value{}, errors.FromHost(err, vm.hostLoc())
	}
	return value.Str(container.NewString(s)), nil
}

// humanize(value) renders a duration or period in relative/comma form
// via go-humanize (value.HumanizeDuration/HumanizePeriod).
func builtinHumanize(rawVM interface{}, args []value.Value) (value.Value, error) {
	vm := rawVM.(*VM)
	switch args[0].Kind {
	case value.KindDuration:
		return value.Str(container.NewString(value.HumanizeDuration(args[0]))), nil
	case value.KindPeriod:
		return value.Str(container.NewString(value.HumanizePeriod(args[0]))), nil
	default:
		return typeErr(vm, "humanize expects a duration or period")
	}
}

// bignum(s) parses a decimal string straight to the arbitrary-precision
// representation (spec §3.1's "bigint escapes int32 overflow"), useful
// for literals too large for the compiler's own int32-vs-bigint promotion
// in value/arith.go to ever need to run.
func builtinBignum(rawVM interface{}, args []value.Value) (value.Value, error) {
	vm := rawVM.(*VM)
	s, ok := requireString(args[0])
	if !ok {
		return typeErr(vm, "bignum expects a string")
	}
	n, ok := new(big.Int).SetString(s.Value(), 10)
	if !ok {
		return value.Value{}, errors.New(errors.ArithmeticError, vm.hostLoc(), "%q is not a valid integer literal", s.Value())
	}
	return value.Bignum(container.NewBignum(n)), nil
}

// uuid() mints a random (v4) identifier, a capability no part of the
// core language needs but that demo scripts touching record identity
// commonly reach for.
func builtinUUID(rawVM interface{}, args []value.Value) (value.Value, error) {
	return value.Str(container.NewString(uuid.NewString())), nil
}

// inspect(x) renders a Go-level debug view of x via kr/pretty, useful
// during script development when a value's displayString is too terse to
// diagnose a failing test from.
func builtinInspect(rawVM interface{}, args []value.Value) (value.Value, error) {
	return value.Str(container.NewString(pretty.Sprint(describeForInspect(args[0])))), nil
}

// describeForInspect projects a Value into a plain Go value kr/pretty can
// walk meaningfully; Value itself carries unexported fields pretty would
// otherwise print as opaque zero values.
func describeForInspect(v value.Value) interface{} {
	switch v.Kind {
	case value.KindArray:
		arr := v.AsArray()
		out := make([]interface{}, arr.Len())
		for i := 0; i < arr.Len(); i++ {
			out[i] = describeForInspect(arr.Get(i))
		}
		return out
	case value.KindObject:
		out := map[string]interface{}{}
		v.AsObject().Iterate(func(key *container.InternedKey, val value.Value) bool {
			out[key.String()] = describeForInspect(val)
			return true
		})
		return out
	default:
		return displayString(v)
	}
}
