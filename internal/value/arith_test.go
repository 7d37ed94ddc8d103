package value

import (
	"math"
	"testing"

	"slate/internal/container"
)

func TestAddInt32OverflowPromotesToBignum(t *testing.T) {
	a := Int32(2_000_000_000)
	b := Int32(2_000_000_000)
	sum := Add(a, b)
	if sum.Kind != KindBigint {
		t.Fatalf("expected overflow to promote to bigint, got kind %v", sum.Kind)
	}
	if sum.AsBignum().String() != "4000000000" {
		t.Fatalf("expected 4000000000, got %s", sum.AsBignum().String())
	}
}

func TestAddNoOverflowStaysInt32(t *testing.T) {
	r := Add(Int32(2), Int32(3))
	if r.Kind != KindInt32 || r.AsInt32() != 5 {
		t.Fatalf("expected int32 5, got kind=%v val=%v", r.Kind, r)
	}
}

func TestAddIdentityAcrossLattice(t *testing.T) {
	// add(x, zero_of(kind(x))) == x for every numeric kind (testable
	// property 4).
	cases := []Value{Int32(7), Float32(1.5), Float64(2.5), Bignum(container.NewBignumFromInt64(9))}
	zeros := []Value{Int32(0), Float32(0), Float64(0), Bignum(container.NewBignumFromInt64(0))}
	for i, x := range cases {
		r := Add(x, zeros[i])
		if !Equals(r, x) {
			t.Errorf("case %d: add(x, zero) != x: %v vs %v", i, r, x)
		}
	}
}

func TestMulIdentityAcrossLattice(t *testing.T) {
	cases := []Value{Int32(7), Float32(1.5), Float64(2.5)}
	ones := []Value{Int32(1), Float32(1), Float64(1)}
	for i, x := range cases {
		r := Mul(x, ones[i])
		if !Equals(r, x) {
			t.Errorf("case %d: mul(x, one) != x: %v vs %v", i, r, x)
		}
	}
}

func TestDivExactIntegersStayIntegral(t *testing.T) {
	r, err := Div(Int32(10), Int32(2), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Kind != KindInt32 || r.AsInt32() != 5 {
		t.Fatalf("expected exact int division to stay int32, got %v", r)
	}
}

func TestDivInexactIntegersPromoteToFloat64(t *testing.T) {
	r, err := Div(Int32(7), Int32(2), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Kind != KindFloat64 {
		t.Fatalf("expected inexact int division to produce float64, got kind %v", r.Kind)
	}
	if r.AsFloat64() != 3.5 {
		t.Fatalf("expected 3.5, got %v", r.AsFloat64())
	}
}

func TestDivByIntegerZeroIsArithmeticError(t *testing.T) {
	_, err := Div(Int32(1), Int32(0), nil)
	if err == nil {
		t.Fatal("expected division by zero to error")
	}
}

func TestFloatDivisionByZeroYieldsInfOrNaN(t *testing.T) {
	r, err := Div(Float64(1), Float64(0), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsInf(r.AsFloat64(), 1) {
		t.Fatalf("expected +Inf, got %v", r.AsFloat64())
	}
	r2, _ := Div(Float64(0), Float64(0), nil)
	if !math.IsNaN(r2.AsFloat64()) {
		t.Fatalf("expected NaN, got %v", r2.AsFloat64())
	}
}

func TestModFollowsDivisorSign(t *testing.T) {
	r, err := Mod(Int32(-7), Int32(2), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.AsInt32() != 1 {
		t.Fatalf("expected -7 mod 2 == 1, got %d", r.AsInt32())
	}
	r2, err := Mod(Int32(7), Int32(-2), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r2.AsInt32() != -1 {
		t.Fatalf("expected 7 mod -2 == -1, got %d", r2.AsInt32())
	}
}

func TestFloorDivStaysIntegral(t *testing.T) {
	r, err := FloorDiv(Int32(7), Int32(2), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Kind != KindInt32 || r.AsInt32() != 3 {
		t.Fatalf("expected floor div 3, got %v", r)
	}
}

func TestMixedRankPromotesToFloat(t *testing.T) {
	r := Add(Int32(2), Float64(0.5))
	if r.Kind != KindFloat64 || r.AsFloat64() != 2.5 {
		t.Fatalf("expected float64 2.5, got %v", r)
	}
}

func TestNegInt32MinPromotesToBignum(t *testing.T) {
	r, err := Neg(Int32(math.MinInt32), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Kind != KindBigint {
		t.Fatalf("expected negating MinInt32 to promote to bigint, got %v", r.Kind)
	}
}
