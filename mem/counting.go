package mem

import (
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/carray/internal/conv"
)

// Stats is a snapshot of CountingAllocator state.
//
// Note on semantics:
//   - LiveBlocks / LiveBytes: currently allocated and not yet freed
//   - Allocs / Frees: cumulative successful operations
//   - Failures: allocation requests that returned an error
//   - BadFrees: Free calls rejected (double free, foreign block)
type Stats struct {
	LiveBlocks int64
	LiveBytes  int64
	Allocs     int64
	Frees      int64
	Failures   int64
	BadFrees   int64
}

type atomicStats struct {
	LiveBlocks atomic.Int64
	LiveBytes  atomic.Int64
	Allocs     atomic.Int64
	Frees      atomic.Int64
	Failures   atomic.Int64
	BadFrees   atomic.Int64
}

// CountingAllocator wraps another allocator and counts blocks and bytes.
//
// It is the accounting harness for verifying that every allocated block is
// released exactly once.
type CountingAllocator struct {
	inner Allocator
	stats atomicStats
}

// NewCountingAllocator wraps inner. A nil inner uses Default.
func NewCountingAllocator(inner Allocator) *CountingAllocator {
	if inner == nil {
		inner = Default
	}
	return &CountingAllocator{inner: inner}
}

// Allocate implements Allocator.
func (a *CountingAllocator) Allocate(align, size int) (*Block, error) {
	b, err := a.inner.Allocate(align, size)
	if err != nil {
		a.stats.Failures.Add(1)
		return nil, err
	}
	b.claim(a)
	a.stats.Allocs.Add(1)
	a.stats.LiveBlocks.Add(1)
	a.stats.LiveBytes.Add(conv.IntToInt64(b.Len()))
	return b, nil
}

// Free implements Allocator.
func (a *CountingAllocator) Free(b *Block) error {
	if b == nil {
		return nil
	}
	if !b.claimedBy(a) {
		a.stats.BadFrees.Add(1)
		return ErrForeignBlock
	}
	n := conv.IntToInt64(b.Len())
	if err := a.inner.Free(b); err != nil {
		a.stats.BadFrees.Add(1)
		return err
	}
	a.stats.Frees.Add(1)
	a.stats.LiveBlocks.Add(-1)
	a.stats.LiveBytes.Add(-n)
	return nil
}

// Stats returns the current statistics.
func (a *CountingAllocator) Stats() Stats {
	return Stats{
		LiveBlocks: a.stats.LiveBlocks.Load(),
		LiveBytes:  a.stats.LiveBytes.Load(),
		Allocs:     a.stats.Allocs.Load(),
		Frees:      a.stats.Frees.Load(),
		Failures:   a.stats.Failures.Load(),
		BadFrees:   a.stats.BadFrees.Load(),
	}
}

func (a *CountingAllocator) String() string {
	s := a.Stats()
	return fmt.Sprintf(
		"CountingAllocator{live: %d blocks / %d bytes, allocs: %d, frees: %d, failures: %d, bad frees: %d}",
		s.LiveBlocks, s.LiveBytes, s.Allocs, s.Frees, s.Failures, s.BadFrees,
	)
}
