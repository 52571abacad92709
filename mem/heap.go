package mem

import (
	"fmt"
	"runtime"

	"github.com/hupe1980/carray/internal/conv"
)

const minSlot = 16

// HeapAllocator allocates aligned blocks from the Go heap.
//
// It over-allocates size+align bytes and returns the view starting at the first
// aligned offset. The raw slice is kept on the block so the backing array stays
// reachable until Free.
type HeapAllocator struct{}

// NewHeapAllocator creates a new HeapAllocator.
func NewHeapAllocator() *HeapAllocator { return &HeapAllocator{} }

// Allocate implements Allocator.
func (a *HeapAllocator) Allocate(align, size int) (*Block, error) {
	if err := validate(align, size); err != nil {
		return nil, err
	}

	// Small blocks keep minSlot bytes past the aligned start so a typed
	// pointer to an empty block still lies inside one allocation.
	n, err := conv.AddInt(max(size, minSlot), align)
	if err != nil {
		return nil, allocationError(align, size, err)
	}

	raw, err := makeBytes(n)
	if err != nil {
		return nil, allocationError(align, size, err)
	}

	addr, data := alignedView(raw, align, size)

	return &Block{
		data:  data,
		addr:  addr,
		align: align,
		owner: a,
		raw:   raw,
	}, nil
}

// Free implements Allocator.
func (a *HeapAllocator) Free(b *Block) error {
	if b == nil {
		return nil
	}
	return b.release(a)
}

// makeBytes turns a runtime out-of-memory panic for absurd sizes into an error.
// The runtime aborts the process on a genuine heap exhaustion; this only covers
// the "len out of range" class of failures.
func makeBytes(n int) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(runtime.Error); ok {
				err = re
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	return make([]byte, n), nil
}
