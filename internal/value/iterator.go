package value

import "slate/internal/container"

// iteratorVariant selects which collection an Iterator walks (spec §3.5:
// "An iterator is one of: array iterator, range iterator"). A string
// iterator is modeled as a third variant over decoded codepoints, per
// spec §4.5's "returns an iterator wrapping an array, range, or string
// (by codepoints)".
type iteratorVariant byte

const (
	iterArray iteratorVariant = iota
	iterRange
	iterString
)

// Iterator wraps exactly one of an array, a range, or a string's
// codepoints, grounded on the teacher's IteratorObj (vmregister/value.go)
// generalized with a range variant the teacher never had.
type Iterator struct {
	refcountEmbed
	variant iteratorVariant

	arr   *container.Array[ArrayValue]
	index int

	rng      *Range
	cur      Value
	finished bool

	codepoints []rune
	strIndex   int
}

func NewArrayIterator(a *container.Array[ArrayValue]) *Iterator {
	it := &Iterator{variant: iterArray, arr: a.Retain()}
	it.init()
	return it
}

func NewRangeIterator(r *Range) *Iterator {
	it := &Iterator{variant: iterRange, rng: r.Retain(), cur: Retain(r.Start)}
	it.finished = r.finished(it.cur)
	it.init()
	return it
}

func NewStringIterator(s *container.String) *Iterator {
	it := &Iterator{variant: iterString, codepoints: s.Codepoints()}
	it.init()
	return it
}

func (it *Iterator) Retain() *Iterator { it.retain(); return it }

func (it *Iterator) Release() {
	if it.release() {
		switch it.variant {
		case iterArray:
			it.arr.Release()
		case iterRange:
			it.rng.Release()
			Release(it.cur)
		}
	}
}

func (it *Iterator) HasNext() bool {
	switch it.variant {
	case iterArray:
		return it.index < it.arr.Len()
	case iterRange:
		return !it.finished
	case iterString:
		return it.strIndex < len(it.codepoints)
	}
	return false
}

// Next produces the next value; callers must check HasNext first. The
// returned value is retained per the ownership convention every other
// value-producing operation follows.
func (it *Iterator) Next() Value {
	switch it.variant {
	case iterArray:
		v := Retain(it.arr.Get(it.index))
		it.index++
		return v
	case iterRange:
		out := Retain(it.cur)
		stepped := Add(it.cur, it.rng.Step)
		Release(it.cur)
		it.cur = stepped
		it.finished = it.rng.finished(it.cur)
		return out
	case iterString:
		r := it.codepoints[it.strIndex]
		it.strIndex++
		return Str(container.NewString(string(r)))
	}
	return Undefined()
}
