// Package mem provides aligned memory allocation and ownership handles.
//
// # Aligned Allocation
//
// An Allocator hands out Blocks whose start address is divisible by a
// caller-specified power-of-two alignment. Zero-length requests succeed and
// return a Block with a valid, aligned address that must never be
// dereferenced.
//
//	b, err := mem.Default.Allocate(64, 4096)
//	if err != nil { ... } // wraps mem.ErrAllocationFailure
//	defer mem.Default.Free(b)
//
// Backends:
//
//   - HeapAllocator: Go heap, over-allocates and slices at the first aligned offset
//   - MmapAllocator: off-heap anonymous mappings (no GC pressure)
//   - LimitedAllocator: enforces a byte budget on another allocator
//   - CountingAllocator: tracks live blocks and bytes of another allocator
//
// # Ownership
//
// Blocks must be released through the allocator that produced them. The
// ownership handles bind a block to its allocator so release always routes
// to the matching Free:
//
//   - NewUnique / NewUniqueSlice: exclusive ownership, Move transfers it
//   - NewShared / NewSharedSlice: shared ownership, Clone adds a reference
//
// Ref is the underlying reference-counted handle; it binds any value to a
// single release action that runs when the last reference is released.
//
// # Garbage Collector Visibility
//
// Block memory is not scanned by the garbage collector. Values stored in it
// must not be the only reference keeping a Go heap object alive.
package mem
