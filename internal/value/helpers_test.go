package value

import "slate/internal/container"

func mkstr(s string) Value {
	return Str(container.NewString(s))
}

func mkarray(elems ...Value) Value {
	return Array(container.NewArrayFromSlice(elems, Retain, Release))
}
