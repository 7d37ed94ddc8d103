package vm

import "slate/internal/value"

// CallFrame pins a closure, its instruction pointer, and the base index
// into vm.stack where its locals begin (spec §4.5's execution state:
// "each frame stores its closure, its instruction pointer, and a base
// index into the value stack"). Slot 0 of a frame's local window is the
// callee/receiver itself (spec §4.4), so base is the stack index the
// callee value occupied at call time, not base+1.
type CallFrame struct {
	closure *value.Closure
	ip      int
	base    int
}

func (f *CallFrame) function() *value.Function { return f.closure.Function }

// line reports the source line the instruction at f.ip belongs to, used
// to attribute runtime errors and backtraces (spec §6.4).
func (f *CallFrame) line() int {
	lines := f.function().Lines
	if f.ip < 0 || f.ip >= len(lines) {
		if len(lines) == 0 {
			return 0
		}
		return lines[len(lines)-1]
	}
	return lines[f.ip]
}
