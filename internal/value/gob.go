package value

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/big"

	"slate/internal/container"
)

// GobEncode/GobDecode make Value itself the unit gob serializes (spec
// §6.1's on-disk Function layout embeds `constants: [Value]` directly).
// Value's payload fields are unexported by design — arithmetic and
// equality are the only code that should ever read v.i32/v.obj directly
// — so gob's normal exported-field walk would silently encode an empty
// struct. Only the literal kinds a constant pool can actually hold
// (what the compiler folds into PUSH_CONSTANT slots: null, undefined,
// bool, int32, float32, float64, bigint, string) are given a wire form;
// any other kind reaching GobEncode is a compiler bug, not a format gap.
type gobValue struct {
	Kind Kind
	I32  int32
	F32  float32
	F64  float64
	B    bool
	Str  string
	Big  []byte // big.Int.GobEncode output, for KindBigint
}

func (v Value) GobEncode() ([]byte, error) {
	g := gobValue{Kind: v.Kind}
	switch v.Kind {
	case KindNull, KindUndefined:
	case KindBool:
		g.B = v.b
	case KindInt32:
		g.I32 = v.i32
	case KindFloat32:
		g.F32 = v.f32
	case KindFloat64:
		g.F64 = v.f64
	case KindString:
		g.Str = v.AsString().Value()
	case KindBigint:
		enc, err := v.AsBignum().Int().GobEncode()
		if err != nil {
			return nil, err
		}
		g.Big = enc
	default:
		return nil, fmt.Errorf("value: kind %d is not constant-pool serializable", v.Kind)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) GobDecode(data []byte) error {
	var g gobValue
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	switch g.Kind {
	case KindNull:
		*v = Null()
	case KindUndefined:
		*v = Undefined()
	case KindBool:
		*v = Bool(g.B)
	case KindInt32:
		*v = Int32(g.I32)
	case KindFloat32:
		*v = Float32(g.F32)
	case KindFloat64:
		*v = Float64(g.F64)
	case KindString:
		*v = Str(container.NewString(g.Str))
	case KindBigint:
		bi := new(big.Int)
		if err := bi.GobDecode(g.Big); err != nil {
			return err
		}
		*v = Bignum(container.NewBignum(bi))
	default:
		return fmt.Errorf("value: kind %d is not constant-pool serializable", g.Kind)
	}
	return nil
}
