// Package value implements the tagged-union runtime value that every
// other component above internal/container operates on (spec §3.1,
// §4.2). Unlike the teacher's NaN-boxed 64-bit encoding
// (internal/vmregister.Value), this is a plain discriminated struct: the
// spec's explicit per-payload reference counting needs a real strong
// count living on each shared payload, which a NaN-boxed pointer stashed
// in a "never collected" global slice cannot give us. The discriminator
// and the fast-path dispatch shape are kept; the boxing scheme is not.
package value

import (
	"slate/internal/container"
)

type Kind byte

const (
	KindNull Kind = iota
	KindUndefined
	KindBool
	KindInt32
	KindBigint
	KindFloat32
	KindFloat64
	KindString
	KindStringBuilder
	KindArray
	KindObject
	KindClass
	KindRange
	KindIterator
	KindBuffer
	KindBufferBuilder
	KindBufferReader
	KindFunction
	KindClosure
	KindNative
	KindBoundMethod
	KindLocalDate
	KindLocalTime
	KindLocalDateTime
	KindZone
	KindDate
	KindInstant
	KindDuration
	KindPeriod
)

// DebugLoc is the optional debug-location annotation spec §3.1 allows on
// any value.
type DebugLoc struct {
	File   string
	Line   int
	Column int
}

// Value is the tagged union every runtime operation above the container
// layer passes by value. obj holds every payload whose kind needs a
// pointer-sized slot (*container.String, *container.Array[Value], a
// *Class, a *Range, *Bignum, the temporal handles, etc.) — retain/release
// type-switch on it so primitive kinds (null, undefined, bool, int32,
// float32, float64, instant) never touch obj and are no-ops, matching
// spec §3.1's ownership invariant exactly.
type Value struct {
	Kind Kind

	i32     int32
	f32     float32
	f64     float64
	b       bool
	instant int64

	obj interface{}

	Class *Class
	Loc   *DebugLoc
}

func Null() Value      { return Value{Kind: KindNull} }
func Undefined() Value { return Value{Kind: KindUndefined} }

func Bool(b bool) Value { return Value{Kind: KindBool, b: b} }
func Int32(i int32) Value { return Value{Kind: KindInt32, i32: i} }
func Float32(f float32) Value { return Value{Kind: KindFloat32, f32: f} }
func Float64(f float64) Value { return Value{Kind: KindFloat64, f64: f} }

// Bignum wraps an already-retained *container.Bignum.
func Bignum(b *container.Bignum) Value { return Value{Kind: KindBigint, obj: b} }

func Str(s *container.String) Value { return Value{Kind: KindString, obj: s} }

func StringBuilder(b *container.StringBuilder) Value {
	return Value{Kind: KindStringBuilder, obj: b}
}

// ArrayValue is the concrete element type container.Array[ArrayValue] is
// instantiated with: an alias of Value. container.Array is generic over
// its element type, so the container package never imports this one.
type ArrayValue = Value

func Array(a *container.Array[ArrayValue]) Value { return Value{Kind: KindArray, obj: a} }

func Object(o *container.Object[Value]) Value { return Value{Kind: KindObject, obj: o} }

func ClassValue(c *Class) Value { return Value{Kind: KindClass, obj: c, Class: c} }

func RangeValue(r *Range) Value { return Value{Kind: KindRange, obj: r} }

func IteratorValue(it *Iterator) Value { return Value{Kind: KindIterator, obj: it} }

func Buffer(b *container.Buffer) Value { return Value{Kind: KindBuffer, obj: b} }

func BufferBuilder(b *container.BufferBuilder) Value {
	return Value{Kind: KindBufferBuilder, obj: b}
}

func BufferReader(b *container.BufferReader) Value {
	return Value{Kind: KindBufferReader, obj: b}
}

func FunctionValue(f *Function) Value { return Value{Kind: KindFunction, obj: f} }

func ClosureValue(c *Closure) Value { return Value{Kind: KindClosure, obj: c} }

func NativeValue(n *Native) Value { return Value{Kind: KindNative, obj: n} }

func BoundMethodValue(bm *BoundMethod) Value { return Value{Kind: KindBoundMethod, obj: bm} }

// WithLoc returns a copy of v annotated with loc, per spec §4.2's
// "each constructor has a debug-location variant" requirement.
func (v Value) WithLoc(loc *DebugLoc) Value {
	v.Loc = loc
	return v
}

// Is reports whether v holds the given kind.
func (v Value) Is(k Kind) bool { return v.Kind == k }

func (v Value) AsBool() bool       { return v.b }
func (v Value) AsInt32() int32     { return v.i32 }
func (v Value) AsFloat32() float32 { return v.f32 }
func (v Value) AsFloat64() float64 { return v.f64 }
func (v Value) AsInstant() int64   { return v.instant }

func (v Value) AsBignum() *container.Bignum        { return v.obj.(*container.Bignum) }
func (v Value) AsString() *container.String        { return v.obj.(*container.String) }
func (v Value) AsStringBuilder() *container.StringBuilder { return v.obj.(*container.StringBuilder) }
func (v Value) AsArray() *container.Array[ArrayValue]     { return v.obj.(*container.Array[ArrayValue]) }
func (v Value) AsObject() *container.Object[Value]        { return v.obj.(*container.Object[Value]) }
func (v Value) AsClass() *Class                           { return v.obj.(*Class) }
func (v Value) AsRange() *Range                           { return v.obj.(*Range) }
func (v Value) AsIterator() *Iterator                     { return v.obj.(*Iterator) }
func (v Value) AsBuffer() *container.Buffer               { return v.obj.(*container.Buffer) }
func (v Value) AsBufferBuilder() *container.BufferBuilder { return v.obj.(*container.BufferBuilder) }
func (v Value) AsBufferReader() *container.BufferReader   { return v.obj.(*container.BufferReader) }
func (v Value) AsFunction() *Function                     { return v.obj.(*Function) }
func (v Value) AsClosure() *Closure                       { return v.obj.(*Closure) }
func (v Value) AsNative() *Native                          { return v.obj.(*Native) }
func (v Value) AsBoundMethod() *BoundMethod                { return v.obj.(*BoundMethod) }

// Retain returns a logical copy of v, incrementing any shared payload's
// strong count (spec §4.2). Primitive kinds pass through unchanged.
func Retain(v Value) Value {
	switch p := v.obj.(type) {
	case *container.Bignum:
		p.Retain()
	case *container.String:
		p.Retain()
	case *container.StringBuilder:
		p.Retain()
	case *container.Array[ArrayValue]:
		p.Retain()
	case *container.Object[Value]:
		p.Retain()
	case *Class:
		p.Retain()
	case *Range:
		p.Retain()
	case *Iterator:
		p.Retain()
	case *container.Buffer:
		p.Retain()
	case *container.BufferBuilder:
		p.Retain()
	case *container.BufferReader:
		p.Retain()
	case *Closure:
		p.Retain()
	case *BoundMethod:
		p.Retain()
	case *Function, *Native, *ZonedDate, *Period:
		// immutable once constructed; no separate strong count is
		// tracked (spec §3.1 only requires counting shared *mutable or
		// interned* payloads — these are copied by value semantics at
		// the language level regardless of Go's pointer representation).
	}
	return v
}

// Release conceptually drops one reference to v; primitive kinds are
// no-ops (spec §4.2).
func Release(v Value) {
	switch p := v.obj.(type) {
	case *container.Bignum:
		p.Release()
	case *container.String:
		p.Release()
	case *container.StringBuilder:
		p.Release()
	case *container.Array[ArrayValue]:
		p.Release()
	case *container.Object[Value]:
		p.Release()
	case *Class:
		p.Release()
	case *Range:
		p.Release()
	case *Iterator:
		p.Release()
	case *container.Buffer:
		p.Release()
	case *container.BufferBuilder:
		p.Release()
	case *container.BufferReader:
		p.Release()
	case *Closure:
		p.Release()
	case *BoundMethod:
		p.Release()
	}
}

// IsTruthy implements spec §4.2: false, null, undefined, numeric zero of
// any kind, the empty string, and the empty array are falsy.
func IsTruthy(v Value) bool {
	switch v.Kind {
	case KindNull, KindUndefined:
		return false
	case KindBool:
		return v.b
	case KindInt32:
		return v.i32 != 0
	case KindFloat32:
		return v.f32 != 0
	case KindFloat64:
		return v.f64 != 0
	case KindBigint:
		return !v.AsBignum().IsZero()
	case KindString:
		return !v.AsString().IsEmpty()
	case KindArray:
		return v.AsArray().Len() != 0
	default:
		return true
	}
}

func IsFalsy(v Value) bool { return !IsTruthy(v) }
