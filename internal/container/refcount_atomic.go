//go:build slate_atomic_refcount

package container

import "sync/atomic"

// refcount is the atomic strong-count header, compiled in under the
// slate_atomic_refcount build tag for embedders that move values produced
// by one VM instance into another (spec §5: "Shared container handles use
// atomic reference counts (compile-time option) so that data produced by
// one VM can be safely dropped by another").
type refcount struct {
	n atomic.Int32
}

func newRefcount() refcount {
	var r refcount
	r.n.Store(1)
	return r
}

func (r *refcount) retain() {
	r.n.Add(1)
}

func (r *refcount) release() bool {
	return r.n.Add(-1) <= 0
}

func (r *refcount) count() int32 {
	return r.n.Load()
}
