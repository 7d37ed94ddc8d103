package container

import "testing"

func TestObjectGetSetHasDelete(t *testing.T) {
	o := NewObject[int](nil, nil)
	k1, k2 := Intern("a"), Intern("b")
	o.Set(k1, 1)
	o.Set(k2, 2)

	if v, ok := o.Get(k1); !ok || v != 1 {
		t.Fatalf("expected a=1, got %v ok=%v", v, ok)
	}
	if !o.Has(k2) {
		t.Fatalf("expected Has(b) true")
	}
	if o.Count() != 2 {
		t.Fatalf("expected count 2, got %d", o.Count())
	}
	if !o.Delete(k1) {
		t.Fatalf("expected delete of present key to succeed")
	}
	if o.Has(k1) {
		t.Fatalf("expected a to be gone after delete")
	}
	if o.Delete(k1) {
		t.Fatalf("expected delete of absent key to report false")
	}
}

func TestObjectPromotesPastThreshold(t *testing.T) {
	o := NewObject[int](nil, nil)
	keys := make([]*InternedKey, 0, 10)
	for i := 0; i < 10; i++ {
		k := Intern(string(rune('a' + i)))
		keys = append(keys, k)
		o.Set(k, i)
	}
	// Past the >=8 promotion threshold (spec §4.1), lookups must still
	// resolve correctly whether served by the linear scan or the index.
	for i, k := range keys {
		v, ok := o.Get(k)
		if !ok || v != i {
			t.Fatalf("key %d: expected %d, got %v ok=%v", i, i, v, ok)
		}
	}
}

func TestObjectSetOverwritesAndReleasesOldValue(t *testing.T) {
	var released []int
	o := NewObject[int](nil, func(v int) { released = append(released, v) })
	k := Intern("x")
	o.Set(k, 1)
	o.Set(k, 2)
	if o.Count() != 1 {
		t.Fatalf("expected count to stay 1 on overwrite, got %d", o.Count())
	}
	if len(released) != 1 || released[0] != 1 {
		t.Fatalf("expected old value 1 released once, got %v", released)
	}
	v, _ := o.Get(k)
	if v != 2 {
		t.Fatalf("expected current value 2, got %d", v)
	}
}

func TestObjectIterateVisitsEveryEntry(t *testing.T) {
	o := NewObject[int](nil, nil)
	o.Set(Intern("a"), 1)
	o.Set(Intern("b"), 2)
	o.Set(Intern("c"), 3)
	seen := map[string]int{}
	o.Iterate(func(key *InternedKey, val int) bool {
		seen[key.String()] = val
		return true
	})
	if len(seen) != 3 || seen["a"] != 1 || seen["b"] != 2 || seen["c"] != 3 {
		t.Fatalf("unexpected iteration result: %v", seen)
	}
}

func TestInternReturnsSamePointerForEqualContent(t *testing.T) {
	a := Intern("duplicate")
	b := Intern("duplicate")
	if a != b {
		t.Fatalf("expected Intern to return the same pointer for equal content")
	}
}
