package container

import "sort"

// Array is a mutable, reference-counted, element-size-parametric vector
// (spec §4.1). It is generic over the element type so this package never
// needs to import the value model — the VM supplies retain/release
// callbacks that dispatch to value.Retain/value.Release, satisfying
// "the container's per-element retain/release hooks must dispatch to the
// value retain/release operation."
type Array[T any] struct {
	refcount
	elems   []T
	retainFn  func(T) T
	releaseFn func(T)
}

// NewArray creates an empty array. retainFn/releaseFn may be nil for
// element types with no ownership semantics (e.g. plain Go scalars used
// in container-internal tests).
func NewArray[T any](retainFn func(T) T, releaseFn func(T)) *Array[T] {
	return &Array[T]{refcount: newRefcount(), retainFn: retainFn, releaseFn: releaseFn}
}

// NewArrayFromSlice takes ownership of elems directly (no per-element
// retain — callers that already hold retained elements, e.g. BUILD_ARRAY
// popping retained stack values, use this to avoid a redundant retain/release
// pair).
func NewArrayFromSlice[T any](elems []T, retainFn func(T) T, releaseFn func(T)) *Array[T] {
	return &Array[T]{refcount: newRefcount(), elems: elems, retainFn: retainFn, releaseFn: releaseFn}
}

func (a *Array[T]) Retain() *Array[T] {
	a.retain()
	return a
}

// Release drops one strong reference; at zero it releases every contained
// element (spec §3.1's recursive-drop invariant for composite payloads).
func (a *Array[T]) Release() {
	if a.release() {
		if a.releaseFn != nil {
			for _, e := range a.elems {
				a.releaseFn(e)
			}
		}
	}
}

func (a *Array[T]) Len() int { return len(a.elems) }

func (a *Array[T]) Get(i int) T { return a.elems[i] }

func (a *Array[T]) Set(i int, v T) {
	if a.releaseFn != nil {
		a.releaseFn(a.elems[i])
	}
	a.elems[i] = a.retain1(v)
}

func (a *Array[T]) retain1(v T) T {
	if a.retainFn != nil {
		return a.retainFn(v)
	}
	return v
}

func (a *Array[T]) Push(v T) {
	a.elems = append(a.elems, a.retain1(v))
}

func (a *Array[T]) Pop() T {
	n := len(a.elems)
	v := a.elems[n-1]
	a.elems = a.elems[:n-1]
	return v
}

func (a *Array[T]) Insert(i int, v T) {
	a.elems = append(a.elems, v)
	copy(a.elems[i+1:], a.elems[i:])
	a.elems[i] = a.retain1(v)
}

func (a *Array[T]) Remove(i int) T {
	v := a.elems[i]
	copy(a.elems[i:], a.elems[i+1:])
	a.elems = a.elems[:len(a.elems)-1]
	return v
}

func (a *Array[T]) Reserve(n int) {
	if cap(a.elems) >= n {
		return
	}
	grown := make([]T, len(a.elems), n)
	copy(grown, a.elems)
	a.elems = grown
}

func (a *Array[T]) Resize(n int, zero T) {
	if n <= len(a.elems) {
		if a.releaseFn != nil {
			for _, e := range a.elems[n:] {
				a.releaseFn(e)
			}
		}
		a.elems = a.elems[:n]
		return
	}
	for len(a.elems) < n {
		a.elems = append(a.elems, a.retain1(zero))
	}
}

func (a *Array[T]) Filter(keep func(T) bool) *Array[T] {
	out := make([]T, 0, len(a.elems))
	for _, e := range a.elems {
		if keep(e) {
			out = append(out, a.retain1(e))
		}
	}
	return NewArrayFromSlice(out, a.retainFn, a.releaseFn)
}

func (a *Array[T]) Map(transform func(T) T) *Array[T] {
	out := make([]T, len(a.elems))
	for i, e := range a.elems {
		out[i] = transform(e)
	}
	return NewArrayFromSlice(out, a.retainFn, a.releaseFn)
}

func (a *Array[T]) Reduce(initial T, combine func(acc, elem T) T) T {
	acc := initial
	for _, e := range a.elems {
		acc = combine(acc, e)
	}
	return acc
}

func (a *Array[T]) Sort(less func(x, y T) bool) {
	sort.SliceStable(a.elems, func(i, j int) bool {
		return less(a.elems[i], a.elems[j])
	})
}

func (a *Array[T]) Reverse() {
	for i, j := 0, len(a.elems)-1; i < j; i, j = i+1, j-1 {
		a.elems[i], a.elems[j] = a.elems[j], a.elems[i]
	}
}

// Slice returns the live backing slice. Callers must not retain it beyond
// the array's lifetime without their own retain.
func (a *Array[T]) Slice() []T { return a.elems }
