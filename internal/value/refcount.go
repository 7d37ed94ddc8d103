package value

import "sync/atomic"

// refcountEmbed backs the handful of value-layer payload types (Class,
// Range, Iterator, Closure, Upvalue, BoundMethod) that need their own
// strong count but live above internal/container and so cannot embed its
// unexported refcount type. Atomic unconditionally: these payloads are exactly the ones spec
// §5 calls out as crossing VM instances ("data produced by one VM safely
// dropped by another").
type refcountEmbed struct {
	n atomic.Int32
}

func (r *refcountEmbed) init() { r.n.Store(1) }

func (r *refcountEmbed) retain() { r.n.Add(1) }

// release reports whether this was the last reference.
func (r *refcountEmbed) release() bool { return r.n.Add(-1) == 0 }
