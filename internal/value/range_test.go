package value

import (
	"testing"

	"slate/internal/container"
)

func TestRangeStepZeroIsRejected(t *testing.T) {
	_, err := NewRange(Int32(1), Int32(10), Int32(0), false, nil)
	if err == nil {
		t.Fatal("expected step-zero range construction to error")
	}
}

func TestRangeIterationMatchesMaterializedArray(t *testing.T) {
	// spec testable property 7: range(a, b, step, excl) produces the same
	// sequence whether iterated forward by iterator protocol or by
	// index-based access on a materialized array.
	r, err := NewRange(Int32(1), Int32(10), Int32(1), false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var viaIterator []int32
	it := NewRangeIterator(r)
	for it.HasNext() {
		v := it.Next()
		viaIterator = append(viaIterator, v.AsInt32())
	}

	var materialized []int32
	for cur := Int32(1); !r.finished(cur); cur = Add(cur, Int32(1)) {
		materialized = append(materialized, cur.AsInt32())
	}

	if len(viaIterator) != len(materialized) {
		t.Fatalf("length mismatch: iterator=%d materialized=%d", len(viaIterator), len(materialized))
	}
	for i := range viaIterator {
		if viaIterator[i] != materialized[i] {
			t.Errorf("index %d: iterator=%d materialized=%d", i, viaIterator[i], materialized[i])
		}
	}
	if len(viaIterator) != 10 {
		t.Fatalf("expected inclusive range 1..10 to produce 10 values, got %d", len(viaIterator))
	}
}

func TestRangeSumMatchesScenarioS4(t *testing.T) {
	r, err := NewRange(Int32(1), Int32(10), Int32(1), false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := NewRangeIterator(r)
	total := Int32(0)
	for it.HasNext() {
		total = Add(total, it.Next())
	}
	if total.Kind != KindInt32 || total.AsInt32() != 55 {
		t.Fatalf("expected sum 55, got %v", total)
	}
}

func TestRangeExclusiveExcludesEnd(t *testing.T) {
	r, err := NewRange(Int32(1), Int32(5), Int32(1), true, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := NewRangeIterator(r)
	var got []int32
	for it.HasNext() {
		got = append(got, it.Next().AsInt32())
	}
	want := []int32{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestRangeNegativeStep(t *testing.T) {
	r, err := NewRange(Int32(5), Int32(1), Int32(-1), false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := NewRangeIterator(r)
	var got []int32
	for it.HasNext() {
		got = append(got, it.Next().AsInt32())
	}
	want := []int32{5, 4, 3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestArrayIteratorWalksInOrder(t *testing.T) {
	arr := container.NewArrayFromSlice([]ArrayValue{Int32(10), Int32(20), Int32(30)}, Retain, Release)
	it := NewArrayIterator(arr)
	var got []int32
	for it.HasNext() {
		got = append(got, it.Next().AsInt32())
	}
	if len(got) != 3 || got[0] != 10 || got[1] != 20 || got[2] != 30 {
		t.Fatalf("unexpected array iteration: %v", got)
	}
	arr.Release()
}

func TestStringIteratorWalksCodepoints(t *testing.T) {
	s := container.NewString("héllo")
	it := NewStringIterator(s)
	var got []string
	for it.HasNext() {
		got = append(got, it.Next().AsString().Value())
	}
	want := []string{"h", "é", "l", "l", "o"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestRangeEqualityIsStructural(t *testing.T) {
	r1, _ := NewRange(Int32(1), Int32(10), Int32(1), false, nil)
	r2, _ := NewRange(Int32(1), Int32(10), Int32(1), false, nil)
	if !Equals(RangeValue(r1), RangeValue(r2)) {
		t.Fatal("expected structurally identical ranges to compare equal")
	}
	r3, _ := NewRange(Int32(1), Int32(11), Int32(1), false, nil)
	if Equals(RangeValue(r1), RangeValue(r3)) {
		t.Fatal("expected ranges with different end to compare unequal")
	}
}
