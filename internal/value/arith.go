package value

import (
	"math"
	"math/big"

	"slate/internal/container"
	"slate/internal/errors"
)

// numericRank orders the promotion lattice int32 ⊂ bigint ⊂ float64,
// float32 ⊂ float64 (spec §3.2). Binary arithmetic uses the smallest
// type containing both operands.
type numericRank int

const (
	rankNone numericRank = iota
	rankInt32
	rankBigint
	rankFloat32
	rankFloat64
)

func rankOf(v Value) numericRank {
	switch v.Kind {
	case KindInt32:
		return rankInt32
	case KindBigint:
		return rankBigint
	case KindFloat32:
		return rankFloat32
	case KindFloat64:
		return rankFloat64
	default:
		return rankNone
	}
}

func isNumeric(v Value) bool { return rankOf(v) != rankNone }

// IsNumeric reports whether v is any kind in the numeric lattice (spec
// §3.2); exported so internal/vm can decide when ADD means string
// concatenation vs. arithmetic without duplicating the lattice here.
func IsNumeric(v Value) bool { return isNumeric(v) }

// ToFloat64 widens any numeric value to float64, used by comparisons and
// range-step sign checks.
func ToFloat64(v Value) float64 {
	switch v.Kind {
	case KindInt32:
		return float64(v.i32)
	case KindBigint:
		return v.AsBignum().Float64()
	case KindFloat32:
		return float64(v.f32)
	case KindFloat64:
		return v.f64
	}
	return math.NaN()
}

func toBignum(v Value) *container.Bignum {
	switch v.Kind {
	case KindInt32:
		return container.NewBignumFromInt64(int64(v.i32))
	case KindBigint:
		return v.AsBignum()
	}
	panic("value: toBignum on non-integer kind")
}

func combinedRank(a, b Value) numericRank {
	ra, rb := rankOf(a), rankOf(b)
	if ra > rb {
		return ra
	}
	return rb
}

// arith applies op at the combined rank of a and b, promoting int32
// overflow to bigint and never wrapping (spec §3.2, §4.2).
func arith(a, b Value, loc *DebugLoc, op func(rank numericRank, a, b Value) (Value, error)) (Value, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return Value{}, errors.New(errors.TypeError, locOf(loc), "arithmetic requires numeric operands")
	}
	return op(combinedRank(a, b), a, b)
}

func Add(a, b Value) Value {
	v, err := arith(a, b, nil, func(rank numericRank, a, b Value) (Value, error) {
		switch rank {
		case rankInt32:
			result := int64(a.i32) + int64(b.i32)
			if result != int64(int32(result)) {
				return Bignum(toBignum(a).Add(toBignum(b))), nil
			}
			return Int32(int32(result)), nil
		case rankBigint:
			return Bignum(toBignum(a).Add(toBignum(b))), nil
		case rankFloat32:
			return Float32(a.f32 + b.f32), nil
		case rankFloat64:
			return Float64(ToFloat64(a) + ToFloat64(b)), nil
		}
		return Value{}, nil
	})
	if err != nil {
		return Undefined()
	}
	return v
}

func Sub(a, b Value) Value {
	v, _ := arith(a, b, nil, func(rank numericRank, a, b Value) (Value, error) {
		switch rank {
		case rankInt32:
			result := int64(a.i32) - int64(b.i32)
			if result != int64(int32(result)) {
				return Bignum(toBignum(a).Sub(toBignum(b))), nil
			}
			return Int32(int32(result)), nil
		case rankBigint:
			return Bignum(toBignum(a).Sub(toBignum(b))), nil
		case rankFloat32:
			return Float32(a.f32 - b.f32), nil
		case rankFloat64:
			return Float64(ToFloat64(a) - ToFloat64(b)), nil
		}
		return Value{}, nil
	})
	return v
}

func Mul(a, b Value) Value {
	v, _ := arith(a, b, nil, func(rank numericRank, a, b Value) (Value, error) {
		switch rank {
		case rankInt32:
			result := int64(a.i32) * int64(b.i32)
			if result != int64(int32(result)) {
				return Bignum(toBignum(a).Mul(toBignum(b))), nil
			}
			return Int32(int32(result)), nil
		case rankBigint:
			return Bignum(toBignum(a).Mul(toBignum(b))), nil
		case rankFloat32:
			return Float32(a.f32 * b.f32), nil
		case rankFloat64:
			return Float64(ToFloat64(a) * ToFloat64(b)), nil
		}
		return Value{}, nil
	})
	return v
}

// Div implements spec §3.2/§4.2: division of two integers whose result is
// not exact yields float64; float division by zero yields ±Inf/NaN;
// integer division by exact zero is an ArithmeticError.
func Div(a, b Value, loc *DebugLoc) (Value, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return Value{}, errors.New(errors.TypeError, locOf(loc), "arithmetic requires numeric operands")
	}
	rank := combinedRank(a, b)
	switch rank {
	case rankInt32, rankBigint:
		bb := toBignum(b)
		if bb.IsZero() {
			return Value{}, errors.New(errors.ArithmeticError, locOf(loc), "integer division by zero")
		}
		ab := toBignum(a)
		q := ab.FloorDiv(bb)
		// exact iff q*b == a
		if q.Mul(bb).Cmp(ab) == 0 {
			return demote(q), nil
		}
		return Float64(ab.Float64() / bb.Float64()), nil
	case rankFloat32:
		return Float32(a.f32 / b.f32), nil
	case rankFloat64:
		return Float64(ToFloat64(a) / ToFloat64(b)), nil
	}
	return Value{}, nil
}

// FloorDiv implements `//`, which always stays integral.
func FloorDiv(a, b Value, loc *DebugLoc) (Value, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return Value{}, errors.New(errors.TypeError, locOf(loc), "arithmetic requires numeric operands")
	}
	rank := combinedRank(a, b)
	switch rank {
	case rankInt32, rankBigint:
		bb := toBignum(b)
		if bb.IsZero() {
			return Value{}, errors.New(errors.ArithmeticError, locOf(loc), "integer division by zero")
		}
		return demote(toBignum(a).FloorDiv(bb)), nil
	case rankFloat32:
		return Float32(float32(math.Floor(float64(a.f32 / b.f32)))), nil
	default:
		return Float64(math.Floor(ToFloat64(a) / ToFloat64(b))), nil
	}
}

// Mod implements Python-sign floor-mod (spec §4.2): the result's sign
// follows the divisor.
func Mod(a, b Value, loc *DebugLoc) (Value, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return Value{}, errors.New(errors.TypeError, locOf(loc), "arithmetic requires numeric operands")
	}
	rank := combinedRank(a, b)
	switch rank {
	case rankInt32, rankBigint:
		bb := toBignum(b)
		if bb.IsZero() {
			return Value{}, errors.New(errors.ArithmeticError, locOf(loc), "integer modulo by zero")
		}
		return demote(toBignum(a).FloorMod(bb)), nil
	case rankFloat32:
		return Float32(float32(math.Mod(math.Mod(float64(a.f32), float64(b.f32))+float64(b.f32), float64(b.f32)))), nil
	default:
		af, bf := ToFloat64(a), ToFloat64(b)
		return Float64(math.Mod(math.Mod(af, bf)+bf, bf)), nil
	}
}

// Pow raises a to the power of b, result ranked the same as the other
// arithmetic ops; negative integer exponents force a float result.
func Pow(a, b Value, loc *DebugLoc) (Value, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return Value{}, errors.New(errors.TypeError, locOf(loc), "arithmetic requires numeric operands")
	}
	rank := combinedRank(a, b)
	if rank == rankInt32 || rank == rankBigint {
		bb := toBignum(b)
		if bb.Int().Sign() >= 0 && bb.Int().IsInt64() {
			result := new(big.Int).Exp(toBignum(a).Int(), bb.Int(), nil)
			return demote(container.NewBignum(result)), nil
		}
		return Float64(math.Pow(ToFloat64(a), ToFloat64(b))), nil
	}
	if rank == rankFloat32 {
		return Float32(float32(math.Pow(float64(a.f32), float64(b.f32)))), nil
	}
	return Float64(math.Pow(ToFloat64(a), ToFloat64(b))), nil
}

func Neg(a Value, loc *DebugLoc) (Value, error) {
	switch a.Kind {
	case KindInt32:
		if a.i32 == math.MinInt32 {
			return demote(container.NewBignumFromInt64(-int64(a.i32))), nil
		}
		return Int32(-a.i32), nil
	case KindBigint:
		return demote(a.AsBignum().Neg()), nil
	case KindFloat32:
		return Float32(-a.f32), nil
	case KindFloat64:
		return Float64(-a.f64), nil
	}
	return Value{}, errors.New(errors.TypeError, locOf(loc), "negation requires a numeric operand")
}

// demote returns the smallest representation of b: int32 when it fits,
// bigint otherwise. Arithmetic never leaves a bigint oversized for its
// own value, matching "overflow promotes, never wraps" without also
// permanently pinning every small result to the bignum representation.
func demote(b *container.Bignum) Value {
	if b.FitsInt32() {
		return Int32(b.Int32())
	}
	return Bignum(b)
}

// ZeroOf and OneOf produce the identity elements spec testable property 4
// checks (add(x, zero_of(kind(x))) == x, mul(x, one_of(kind(x))) == x).
func ZeroOf(kind Kind) Value {
	switch kind {
	case KindFloat32:
		return Float32(0)
	case KindFloat64:
		return Float64(0)
	case KindBigint:
		return Bignum(container.NewBignumFromInt64(0))
	default:
		return Int32(0)
	}
}

func OneOf(kind Kind) Value {
	switch kind {
	case KindFloat32:
		return Float32(1)
	case KindFloat64:
		return Float64(1)
	case KindBigint:
		return Bignum(container.NewBignumFromInt64(1))
	default:
		return Int32(1)
	}
}

// Bitwise operators are defined only on integer-kind values (spec §4.2).
func bitwiseInt32(v Value, loc *DebugLoc) (int32, error) {
	switch v.Kind {
	case KindInt32:
		return v.i32, nil
	case KindBigint:
		bi := v.AsBignum()
		if !bi.FitsInt32() {
			return 0, errors.New(errors.TypeError, locOf(loc), "bitwise operand out of int32 range")
		}
		return bi.Int32(), nil
	}
	return 0, errors.New(errors.TypeError, locOf(loc), "bitwise operators require integer operands")
}

func BitAnd(a, b Value, loc *DebugLoc) (Value, error) {
	x, err := bitwiseInt32(a, loc)
	if err != nil {
		return Value{}, err
	}
	y, err := bitwiseInt32(b, loc)
	if err != nil {
		return Value{}, err
	}
	return Int32(x & y), nil
}

func BitOr(a, b Value, loc *DebugLoc) (Value, error) {
	x, err := bitwiseInt32(a, loc)
	if err != nil {
		return Value{}, err
	}
	y, err := bitwiseInt32(b, loc)
	if err != nil {
		return Value{}, err
	}
	return Int32(x | y), nil
}

func BitXor(a, b Value, loc *DebugLoc) (Value, error) {
	x, err := bitwiseInt32(a, loc)
	if err != nil {
		return Value{}, err
	}
	y, err := bitwiseInt32(b, loc)
	if err != nil {
		return Value{}, err
	}
	return Int32(x ^ y), nil
}

func BitNot(a Value, loc *DebugLoc) (Value, error) {
	x, err := bitwiseInt32(a, loc)
	if err != nil {
		return Value{}, err
	}
	return Int32(^x), nil
}

func Shl(a, b Value, loc *DebugLoc) (Value, error) {
	x, err := bitwiseInt32(a, loc)
	if err != nil {
		return Value{}, err
	}
	y, err := bitwiseInt32(b, loc)
	if err != nil {
		return Value{}, err
	}
	return Int32(x << (uint32(y) & 31)), nil
}

func Shr(a, b Value, loc *DebugLoc) (Value, error) {
	x, err := bitwiseInt32(a, loc)
	if err != nil {
		return Value{}, err
	}
	y, err := bitwiseInt32(b, loc)
	if err != nil {
		return Value{}, err
	}
	return Int32(x >> (uint32(y) & 31)), nil
}

// UShr is `>>>`: a logical right-shift over the 32-bit two's-complement
// representation (spec §4.2).
func UShr(a, b Value, loc *DebugLoc) (Value, error) {
	x, err := bitwiseInt32(a, loc)
	if err != nil {
		return Value{}, err
	}
	y, err := bitwiseInt32(b, loc)
	if err != nil {
		return Value{}, err
	}
	return Int32(int32(uint32(x) >> (uint32(y) & 31))), nil
}
