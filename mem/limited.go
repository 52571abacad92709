package mem

import (
	"github.com/hupe1980/carray/internal/conv"
	"github.com/hupe1980/carray/internal/resource"
)

// LimitedAllocator enforces a byte budget on another allocator.
//
// Requests that would exceed the budget fail immediately with an error
// wrapping ErrAllocationFailure. The budget counts requested sizes, not
// alignment padding.
type LimitedAllocator struct {
	inner Allocator
	ctrl  *resource.Controller
}

// NewLimitedAllocator wraps inner with a budget of limit bytes.
// A limit of 0 only tracks usage.
func NewLimitedAllocator(inner Allocator, limit int64) *LimitedAllocator {
	if inner == nil {
		inner = Default
	}
	return &LimitedAllocator{
		inner: inner,
		ctrl:  resource.NewController(resource.Config{MemoryLimitBytes: limit}),
	}
}

// Allocate implements Allocator.
func (a *LimitedAllocator) Allocate(align, size int) (*Block, error) {
	if err := validate(align, size); err != nil {
		return nil, err
	}

	n := conv.IntToInt64(size)
	if err := a.ctrl.AcquireMemory(n); err != nil {
		return nil, allocationError(align, size, err)
	}

	b, err := a.inner.Allocate(align, size)
	if err != nil {
		a.ctrl.ReleaseMemory(n)
		return nil, err
	}
	b.claim(a)
	return b, nil
}

// Free implements Allocator.
func (a *LimitedAllocator) Free(b *Block) error {
	if b == nil {
		return nil
	}
	if !b.claimedBy(a) {
		return ErrForeignBlock
	}
	n := conv.IntToInt64(b.Len())
	if err := a.inner.Free(b); err != nil {
		return err
	}
	a.ctrl.ReleaseMemory(n)
	return nil
}

// Usage returns the bytes currently allocated through this allocator.
func (a *LimitedAllocator) Usage() int64 {
	return a.ctrl.MemoryUsage()
}

// Peak returns the highest usage observed.
func (a *LimitedAllocator) Peak() int64 {
	return a.ctrl.PeakUsage()
}

// Limit returns the configured budget (0 if unlimited).
func (a *LimitedAllocator) Limit() int64 {
	return a.ctrl.MemoryLimit()
}
