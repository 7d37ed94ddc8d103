package vm

import (
	"fmt"
	"strconv"
	"strings"

	"slate/internal/value"
)

// displayString renders v for print() and Array.join (spec §6.1's
// "built-in functions for I/O"), not a reparseable literal form.
func displayString(v value.Value) string {
	switch v.Kind {
	case value.KindNull:
		return "null"
	case value.KindUndefined:
		return "undefined"
	case value.KindBool:
		return strconv.FormatBool(v.AsBool())
	case value.KindInt32:
		return strconv.FormatInt(int64(v.AsInt32()), 10)
	case value.KindBigint:
		return v.AsBignum().String()
	case value.KindFloat32:
		return strconv.FormatFloat(float64(v.AsFloat32()), 'g', -1, 32)
	case value.KindFloat64:
		return strconv.FormatFloat(v.AsFloat64(), 'g', -1, 64)
	case value.KindString:
		return v.AsString().Value()
	case value.KindArray:
		arr := v.AsArray()
		parts := make([]string, arr.Len())
		for i := 0; i < arr.Len(); i++ {
			parts[i] = displayString(arr.Get(i))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case value.KindObject:
		return "<object>"
	case value.KindClass:
		return "<class " + v.AsClass().Name + ">"
	case value.KindRange:
		return "<range>"
	case value.KindFunction, value.KindClosure, value.KindNative, value.KindBoundMethod:
		return "<function>"
	default:
		return fmt.Sprintf("%v", v.Kind)
	}
}
