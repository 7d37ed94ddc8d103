package container

import (
	"math/big"
	"testing"
)

func TestBignumArithmetic(t *testing.T) {
	a := NewBignumFromInt64(2_000_000_000)
	b := NewBignumFromInt64(2_000_000_000)
	sum := a.Add(b)
	if sum.String() != "4000000000" {
		t.Fatalf("expected 4000000000, got %s", sum.String())
	}
	doubled := sum.Mul(NewBignumFromInt64(2))
	if doubled.String() != "8000000000" {
		t.Fatalf("expected 8000000000, got %s", doubled.String())
	}
}

func TestBignumFloorDivAndModFollowDivisorSign(t *testing.T) {
	// -7 // 2 == -4, -7 % 2 == 1 (sign follows the divisor, Python
	// semantics per spec §4.2).
	a := NewBignumFromInt64(-7)
	b := NewBignumFromInt64(2)
	if q := a.FloorDiv(b); q.String() != "-4" {
		t.Fatalf("expected floor div -4, got %s", q.String())
	}
	if m := a.FloorMod(b); m.String() != "1" {
		t.Fatalf("expected floor mod 1, got %s", m.String())
	}
}

func TestBignumFitsInt32(t *testing.T) {
	small := NewBignum(big.NewInt(42))
	if !small.FitsInt32() {
		t.Fatalf("expected 42 to fit in int32")
	}
	huge := NewBignum(new(big.Int).Lsh(big.NewInt(1), 40))
	if huge.FitsInt32() {
		t.Fatalf("expected 2^40 not to fit in int32")
	}
}

func TestBignumFloat64Conversion(t *testing.T) {
	b := NewBignumFromInt64(12345)
	if got := b.Float64(); got != 12345.0 {
		t.Fatalf("expected 12345.0, got %v", got)
	}
}
