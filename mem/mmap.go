package mem

import (
	"github.com/hupe1980/carray/internal/conv"
	"github.com/hupe1980/carray/internal/mmap"
)

// Advice is an access-pattern hint for off-heap blocks.
type Advice = mmap.AccessPattern

const (
	// AdviceNormal applies no specific advice.
	AdviceNormal = mmap.AccessDefault
	// AdviceSequential expects sequential access (flat iteration).
	AdviceSequential = mmap.AccessSequential
	// AdviceRandom expects random access (nested indexing).
	AdviceRandom = mmap.AccessRandom
	// AdviceWillNeed expects access in the near future.
	AdviceWillNeed = mmap.AccessWillNeed
	// AdviceDontNeed lets the kernel drop pages until they are first written.
	AdviceDontNeed = mmap.AccessDontNeed
)

// MmapAllocator allocates aligned blocks from anonymous memory mappings.
//
// Blocks live outside the Go heap and are returned to the operating system on
// Free. Mappings are page-aligned; larger alignments are emulated by
// over-mapping and keeping the whole mapping as recovery metadata.
// Every block occupies at least one page, so it suits large arrays.
type MmapAllocator struct {
	advice Advice
}

// MmapOption configures an MmapAllocator.
type MmapOption func(*MmapAllocator)

// WithAdvice sets the access-pattern hint applied to every new mapping.
func WithAdvice(advice Advice) MmapOption {
	return func(a *MmapAllocator) {
		a.advice = advice
	}
}

// NewMmapAllocator creates a new MmapAllocator.
func NewMmapAllocator(optFns ...MmapOption) *MmapAllocator {
	a := &MmapAllocator{advice: AdviceNormal}
	for _, fn := range optFns {
		fn(a)
	}
	return a
}

// Allocate implements Allocator.
func (a *MmapAllocator) Allocate(align, size int) (*Block, error) {
	if err := validate(align, size); err != nil {
		return nil, err
	}

	n := max(size, 1)
	if align > mmap.PageSize() {
		var err error
		if n, err = conv.AddInt(n, align); err != nil {
			return nil, allocationError(align, size, err)
		}
	}

	m, err := mmap.MapAnon(n)
	if err != nil {
		return nil, allocationError(align, size, err)
	}

	if a.advice != AdviceNormal {
		// Advice is a hint; a rejected hint does not fail the allocation.
		_ = m.Advise(a.advice)
	}

	addr, data := alignedView(m.Bytes(), align, size)

	return &Block{
		data:    data,
		addr:    addr,
		align:   align,
		owner:   a,
		mapping: m,
	}, nil
}

// Free implements Allocator.
func (a *MmapAllocator) Free(b *Block) error {
	if b == nil {
		return nil
	}
	if err := b.release(a); err != nil {
		return err
	}
	m := b.mapping
	b.mapping = nil
	return m.Close()
}
