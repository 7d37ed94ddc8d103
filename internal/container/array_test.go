package container

import "testing"

// plain int elements need no retain/release callbacks.
func newIntArray(elems ...int) *Array[int] {
	return NewArrayFromSlice(append([]int{}, elems...), nil, nil)
}

func TestArrayPushPopRestoresLengthAndContent(t *testing.T) {
	a := newIntArray(1, 2, 3)
	a.Push(4)
	if a.Len() != 4 {
		t.Fatalf("expected length 4, got %d", a.Len())
	}
	got := a.Pop()
	if got != 4 {
		t.Fatalf("expected popped 4, got %d", got)
	}
	if a.Len() != 3 {
		t.Fatalf("expected length restored to 3, got %d", a.Len())
	}
	for i, want := range []int{1, 2, 3} {
		if a.Get(i) != want {
			t.Errorf("index %d: want %d got %d", i, want, a.Get(i))
		}
	}
}

func TestArrayReverseIsSelfInverse(t *testing.T) {
	a := newIntArray(1, 2, 3, 4, 5)
	a.Reverse()
	a.Reverse()
	for i, want := range []int{1, 2, 3, 4, 5} {
		if a.Get(i) != want {
			t.Errorf("index %d: want %d got %d", i, want, a.Get(i))
		}
	}
}

func TestArrayInsertRemove(t *testing.T) {
	a := newIntArray(1, 2, 4)
	a.Insert(2, 3)
	for i, want := range []int{1, 2, 3, 4} {
		if a.Get(i) != want {
			t.Errorf("after insert, index %d: want %d got %d", i, want, a.Get(i))
		}
	}
	removed := a.Remove(0)
	if removed != 1 {
		t.Fatalf("expected removed 1, got %d", removed)
	}
	if a.Len() != 3 || a.Get(0) != 2 {
		t.Fatalf("unexpected state after remove: len=%d first=%d", a.Len(), a.Get(0))
	}
}

func TestArrayFilterMapReduce(t *testing.T) {
	a := newIntArray(1, 2, 3, 4, 5)
	evens := a.Filter(func(v int) bool { return v%2 == 0 })
	if evens.Len() != 2 || evens.Get(0) != 2 || evens.Get(1) != 4 {
		t.Fatalf("unexpected filter result: %v", evens.Slice())
	}
	doubled := a.Map(func(v int) int { return v * 2 })
	for i, want := range []int{2, 4, 6, 8, 10} {
		if doubled.Get(i) != want {
			t.Errorf("doubled index %d: want %d got %d", i, want, doubled.Get(i))
		}
	}
	sum := a.Reduce(0, func(acc, elem int) int { return acc + elem })
	if sum != 15 {
		t.Fatalf("expected reduce sum 15, got %d", sum)
	}
}

func TestArraySort(t *testing.T) {
	a := newIntArray(5, 3, 1, 4, 2)
	a.Sort(func(x, y int) bool { return x < y })
	for i, want := range []int{1, 2, 3, 4, 5} {
		if a.Get(i) != want {
			t.Errorf("sorted index %d: want %d got %d", i, want, a.Get(i))
		}
	}
}

func TestArrayReleaseFiresCallbackOnElements(t *testing.T) {
	released := make([]int, 0, 3)
	a := NewArray[int](nil, func(v int) { released = append(released, v) })
	a.Push(1)
	a.Push(2)
	a.Push(3)
	a.Release()
	if len(released) != 3 {
		t.Fatalf("expected 3 elements released, got %d", len(released))
	}
}

func TestArrayRetainSharesBackingSlice(t *testing.T) {
	a := newIntArray(1, 2, 3)
	b := a.Retain()
	if a.Len() != b.Len() {
		t.Fatalf("retained handle should share length")
	}
	a.Set(0, 99)
	if b.Get(0) != 99 {
		t.Fatalf("retain should alias the same backing array")
	}
}
