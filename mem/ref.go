package mem

import "sync/atomic"

type refControl[V any] struct {
	refs    atomic.Int64
	value   V
	release func(V) error
}

// Ref is a reference-counted handle to a value with a single release action.
//
// Clone adds a reference, Move transfers the caller's reference to a new
// handle, and Release drops it. The release action runs exactly once, when
// the last reference is released. Counts are atomic, so handles may be cloned
// and released from different goroutines.
//
// The zero Ref is empty: Value returns the zero V and Release is a no-op.
type Ref[V any] struct {
	ctl *refControl[V]
}

// NewRef creates a handle holding one reference to v.
func NewRef[V any](v V, release func(V) error) *Ref[V] {
	ctl := &refControl[V]{value: v, release: release}
	ctl.refs.Store(1)
	return &Ref[V]{ctl: ctl}
}

// Value returns the referenced value.
func (r *Ref[V]) Value() V {
	if r == nil || r.ctl == nil {
		var zero V
		return zero
	}
	return r.ctl.value
}

// Valid reports whether the handle holds a reference.
func (r *Ref[V]) Valid() bool {
	return r != nil && r.ctl != nil
}

// Refs returns the number of live references (0 for an empty handle).
func (r *Ref[V]) Refs() int64 {
	if r == nil || r.ctl == nil {
		return 0
	}
	return r.ctl.refs.Load()
}

// Clone returns a new handle sharing the value and increments the count.
// Cloning an empty handle returns an empty handle.
func (r *Ref[V]) Clone() *Ref[V] {
	if r == nil || r.ctl == nil {
		return &Ref[V]{}
	}
	r.ctl.refs.Add(1)
	return &Ref[V]{ctl: r.ctl}
}

// Move transfers the reference to a new handle without touching the count.
// r is left empty.
func (r *Ref[V]) Move() *Ref[V] {
	if r == nil || r.ctl == nil {
		return &Ref[V]{}
	}
	ctl := r.ctl
	r.ctl = nil
	return &Ref[V]{ctl: ctl}
}

// Release drops the reference held by r and leaves it empty.
// When the last reference is dropped, the release action runs and its error
// is returned. Releasing an empty handle is a no-op.
func (r *Ref[V]) Release() error {
	if r == nil || r.ctl == nil {
		return nil
	}
	ctl := r.ctl
	r.ctl = nil

	switch n := ctl.refs.Add(-1); {
	case n > 0:
		return nil
	case n < 0:
		// Unreachable through the public API: every handle releases at most once.
		panic("mem: negative reference count")
	}

	if ctl.release == nil {
		return nil
	}
	err := ctl.release(ctl.value)
	var zero V
	ctl.value = zero
	return err
}
