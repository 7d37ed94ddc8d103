package value

import "strings"

// Equals implements spec §4.2: numeric equality crosses the lattice;
// strings compare by contents; null == undefined is false; containers
// compare by identity of the shared handle; ranges compare structurally;
// classes compare by identity.
func Equals(a, b Value) bool {
	switch {
	case isNumeric(a) && isNumeric(b):
		return numericEquals(a, b)
	case a.Kind == KindNull && b.Kind == KindNull:
		return true
	case a.Kind == KindUndefined && b.Kind == KindUndefined:
		return true
	case a.Kind == KindNull || a.Kind == KindUndefined || b.Kind == KindNull || b.Kind == KindUndefined:
		return false
	case a.Kind == KindBool && b.Kind == KindBool:
		return a.b == b.b
	case a.Kind == KindString && b.Kind == KindString:
		return a.AsString().Equal(b.AsString())
	case a.Kind == KindRange && b.Kind == KindRange:
		ra, rb := a.AsRange(), b.AsRange()
		return Equals(ra.Start, rb.Start) && Equals(ra.End, rb.End) &&
			Equals(ra.Step, rb.Step) && ra.Exclusive == rb.Exclusive
	case a.Kind != b.Kind:
		return false
	default:
		// shared handles (array, object, class, closure, native,
		// buffer*, iterator, function, bound_method, temporal handles)
		// compare by identity.
		return identityEqual(a, b)
	}
}

func numericEquals(a, b Value) bool {
	if a.Kind == KindInt32 && b.Kind == KindInt32 {
		return a.i32 == b.i32
	}
	if (a.Kind == KindBigint || a.Kind == KindInt32) && (b.Kind == KindBigint || b.Kind == KindInt32) {
		return toBignum(a).Cmp(toBignum(b)) == 0
	}
	return ToFloat64(a) == ToFloat64(b)
}

func identityEqual(a, b Value) bool {
	switch a.Kind {
	case KindArray:
		return a.AsArray() == b.AsArray()
	case KindObject:
		return a.AsObject() == b.AsObject()
	case KindClass:
		return a.AsClass() == b.AsClass()
	case KindClosure:
		return a.AsClosure() == b.AsClosure()
	case KindFunction:
		return a.AsFunction() == b.AsFunction()
	case KindNative:
		return a.AsNative() == b.AsNative()
	case KindBoundMethod:
		return a.AsBoundMethod() == b.AsBoundMethod()
	case KindBuffer:
		return a.AsBuffer() == b.AsBuffer()
	case KindBufferBuilder:
		return a.AsBufferBuilder() == b.AsBufferBuilder()
	case KindBufferReader:
		return a.AsBufferReader() == b.AsBufferReader()
	case KindIterator:
		return a.AsIterator() == b.AsIterator()
	case KindStringBuilder:
		return a.AsStringBuilder() == b.AsStringBuilder()
	case KindInstant:
		return a.instant == b.instant
	default:
		return temporalEqual(a, b)
	}
}

// Compare is defined only within the numeric lattice and for strings
// (spec §4.2); callers must raise a TypeError themselves for any other
// pairing (compare's contract here is "caller decides", matching the
// spec's "otherwise the caller must signal a type error").
func Compare(a, b Value) int {
	if isNumeric(a) && isNumeric(b) {
		if (a.Kind == KindBigint || a.Kind == KindInt32) && (b.Kind == KindBigint || b.Kind == KindInt32) {
			return toBignum(a).Cmp(toBignum(b))
		}
		fa, fb := ToFloat64(a), ToFloat64(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	if a.Kind == KindString && b.Kind == KindString {
		return a.AsString().Compare(b.AsString())
	}
	return strings.Compare("", "") // unreachable for well-typed callers; see Comparable
}

// Comparable reports whether Compare(a, b) is meaningful.
func Comparable(a, b Value) bool {
	if isNumeric(a) && isNumeric(b) {
		return true
	}
	return a.Kind == KindString && b.Kind == KindString
}
