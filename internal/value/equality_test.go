package value

import "testing"

func TestNullUndefinedEqualityIsFalse(t *testing.T) {
	// Open question resolved in spec §9: null == undefined is false.
	if Equals(Null(), Undefined()) {
		t.Fatal("expected Null() != Undefined()")
	}
	if !Equals(Null(), Null()) {
		t.Fatal("expected Null() == Null()")
	}
	if !Equals(Undefined(), Undefined()) {
		t.Fatal("expected Undefined() == Undefined()")
	}
}

func TestNumericEqualityCrossesLattice(t *testing.T) {
	if !Equals(Int32(2), Float64(2.0)) {
		t.Fatal("expected int32 2 == float64 2.0")
	}
	if !Equals(Int32(3), Float32(3)) {
		t.Fatal("expected int32 3 == float32 3")
	}
}

func TestEqCompareAgreeForComparableTypes(t *testing.T) {
	pairs := [][2]Value{
		{Int32(5), Int32(5)},
		{Int32(5), Float64(6)},
		{Float64(1.5), Float64(1.5)},
	}
	for _, p := range pairs {
		eq := Equals(p[0], p[1])
		cmpZero := Compare(p[0], p[1]) == 0
		if eq != cmpZero {
			t.Errorf("eq/compare disagreement for %v, %v: eq=%v cmp==0=%v", p[0], p[1], eq, cmpZero)
		}
	}
}

func TestStringEqualityByContent(t *testing.T) {
	a := mkstr("hello")
	b := mkstr("hello")
	if !Equals(a, b) {
		t.Fatal("expected equal strings with same contents to compare equal")
	}
	c := mkstr("world")
	if Equals(a, c) {
		t.Fatal("expected different strings to compare unequal")
	}
}

func TestArrayEqualityByIdentity(t *testing.T) {
	a := mkarray()
	b := mkarray()
	if Equals(a, b) {
		t.Fatal("expected two distinct arrays to compare unequal by identity")
	}
	if !Equals(a, a) {
		t.Fatal("expected an array to equal itself")
	}
}

func TestIsTruthyFalsyValues(t *testing.T) {
	falsy := []Value{Bool(false), Null(), Undefined(), Int32(0), Float64(0), Float32(0), mkstr(""), mkarray()}
	for i, v := range falsy {
		if IsTruthy(v) {
			t.Errorf("case %d: expected falsy, kind=%v", i, v.Kind)
		}
	}
	truthy := []Value{Bool(true), Int32(1), Float64(0.1), mkstr("x")}
	for i, v := range truthy {
		if !IsTruthy(v) {
			t.Errorf("case %d: expected truthy, kind=%v", i, v.Kind)
		}
	}
}
