//go:build !slate_atomic_refcount

package container

// refcount is the non-atomic strong-count header embedded in every
// container payload. Built when the slate_atomic_refcount tag is absent
// (the default): a single VM instance, single-threaded per spec §5.
type refcount struct {
	n int32
}

func newRefcount() refcount {
	return refcount{n: 1}
}

// retain records one more live reference.
func (r *refcount) retain() {
	r.n++
}

// release drops one live reference and reports whether the count reached
// zero (the payload should be considered dead and its contents dropped).
func (r *refcount) release() bool {
	r.n--
	return r.n <= 0
}

func (r *refcount) count() int32 {
	return r.n
}
