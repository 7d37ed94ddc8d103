// Package errors defines Slate's runtime and compile-time error taxonomy.
package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Kind identifies which member of the spec's error taxonomy an error belongs to.
type Kind string

const (
	CompileError       Kind = "CompileError"
	TypeError          Kind = "TypeError"
	ArityError         Kind = "ArityError"
	NameError          Kind = "NameError"
	RangeError         Kind = "RangeError"
	ArithmeticError    Kind = "ArithmeticError"
	StackOverflowError Kind = "StackOverflowError"
	RuntimeError       Kind = "RuntimeError"
)

// Location pinpoints a source position an error is attributed to.
type Location struct {
	File   string
	Line   int
	Column int
}

// Frame is a single entry in a reported backtrace (spec §6.4).
type Frame struct {
	Function string
	Location Location
}

// SlateError is the single error type every Slate subsystem raises.
// Compile errors carry only a Location; runtime errors additionally carry
// the unwound call stack at the point of failure.
type SlateError struct {
	Kind     Kind
	Message  string
	Location Location
	Stack    []Frame

	// VM identifies which interpreter instance raised the error, for
	// hosts embedding more than one (spec §6.4).
	VM string

	cause error
}

func (e *SlateError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", e.Kind, e.Message)
	if e.Location.Line > 0 {
		fmt.Fprintf(&sb, " (at %s:%d:%d)", e.Location.File, e.Location.Line, e.Location.Column)
	}
	if e.VM != "" {
		fmt.Fprintf(&sb, " [vm %s]", e.VM)
	}
	for _, f := range e.Stack {
		fmt.Fprintf(&sb, "\n  at %s (%s:%d:%d)", f.Function, f.Location.File, f.Location.Line, f.Location.Column)
	}
	return sb.String()
}

// Unwrap exposes the wrapped cause, if any, so callers can use errors.Is/As.
func (e *SlateError) Unwrap() error { return e.cause }

// New creates an error of the given kind at the given location.
func New(kind Kind, loc Location, format string, args ...interface{}) *SlateError {
	return &SlateError{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}
}

// WithStack attaches a call-stack snapshot (§6.4's "backtrace of frame names").
func (e *SlateError) WithStack(stack []Frame) *SlateError {
	e.Stack = stack
	return e
}

// WithVM tags the error with the raising interpreter's identity.
func (e *SlateError) WithVM(id string) *SlateError {
	e.VM = id
	return e
}

// FromHost wraps an error escaping a native built-in (§7's "native-asserted
// invariant violation routed through the host assertion hook") as a
// RuntimeError, preserving the cause chain via pkg/errors so the host can
// still inspect the original failure.
func FromHost(err error, loc Location) *SlateError {
	wrapped := pkgerrors.WithStack(err)
	return &SlateError{
		Kind:     RuntimeError,
		Message:  err.Error(),
		Location: loc,
		cause:    wrapped,
	}
}

// Cause unwraps a pkg/errors-wrapped cause back to its root, mirroring
// pkgerrors.Cause for callers that only have the SlateError in hand.
func Cause(e *SlateError) error {
	if e.cause == nil {
		return nil
	}
	return pkgerrors.Cause(e.cause)
}
