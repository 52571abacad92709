package mem

import (
	"slices"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/carray/internal/mmap"
)

// Block is one aligned allocation.
//
// A Block is produced by an Allocator and must be released through the same
// Allocator. After release, Bytes returns nil and the address must not be used.
type Block struct {
	data  []byte         // aligned view, len == requested size
	addr  unsafe.Pointer // aligned start; non-nil even for zero-length blocks
	align int
	owner Allocator

	// Wrapping allocators that handed the block out, innermost first.
	// Written only before Allocate returns.
	wrappers []Allocator

	// Recovery metadata for the true allocation.
	raw     []byte        // heap backing
	mapping *mmap.Mapping // off-heap backing

	released atomic.Bool
}

// Bytes returns the aligned bytes of the block.
// The slice is valid only until the block is freed.
func (b *Block) Bytes() []byte {
	if b == nil || b.released.Load() {
		return nil
	}
	return b.data
}

// Pointer returns the aligned start address.
// For zero-length blocks the address is valid but must not be dereferenced.
func (b *Block) Pointer() unsafe.Pointer {
	if b == nil || b.released.Load() {
		return nil
	}
	return b.addr
}

// Addr returns the aligned start address as an integer.
func (b *Block) Addr() uintptr {
	return uintptr(b.Pointer())
}

// Len returns the usable size in bytes.
func (b *Block) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Align returns the alignment the block was allocated with.
func (b *Block) Align() int {
	if b == nil {
		return 0
	}
	return b.align
}

// Released reports whether the block has been freed.
func (b *Block) Released() bool {
	return b == nil || b.released.Load()
}

// claim records a wrapping allocator as an owner of the block.
func (b *Block) claim(a Allocator) {
	b.wrappers = append(b.wrappers, a)
}

// claimedBy reports whether a wrapping allocator handed out the block.
func (b *Block) claimedBy(a Allocator) bool {
	return slices.Contains(b.wrappers, a)
}

// release marks the block freed and drops its backing references.
func (b *Block) release(owner Allocator) error {
	if b.owner != owner {
		return ErrForeignBlock
	}
	if !b.released.CompareAndSwap(false, true) {
		return ErrDoubleFree
	}
	b.data = nil
	b.raw = nil
	return nil
}

// alignedView returns the first align-aligned offset in buf and the view of size bytes.
// The caller guarantees len(buf) >= size + align - 1 and len(buf) > 0.
func alignedView(buf []byte, align, size int) (unsafe.Pointer, []byte) {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf))) //nolint:gosec // unsafe is required for memory alignment
	mask := uintptr(align - 1)
	offset := int((uintptr(align) - (base & mask)) & mask)

	return unsafe.Pointer(&buf[offset]), buf[offset : offset+size : offset+size] //nolint:gosec // unsafe is required for memory alignment
}
