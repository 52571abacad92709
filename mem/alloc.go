package mem

import (
	"unsafe"

	"golang.org/x/sys/cpu"

	"github.com/hupe1980/carray/internal/conv"
)

// DefaultAlignment is the default byte alignment (one cache line, AVX-512 friendly).
const DefaultAlignment = 64

// Allocator requests and releases aligned memory.
//
// Implementations must be safe for concurrent use.
type Allocator interface {
	// Allocate returns a block of size bytes whose address is divisible by align.
	// align must be a power of two. A zero size yields a valid zero-length block.
	Allocate(align, size int) (*Block, error)

	// Free releases a block obtained from Allocate on the same allocator.
	Free(b *Block) error
}

// Default is the allocator used when none is configured.
var Default Allocator = NewHeapAllocator()

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// AlignUp rounds n up to the next multiple of align (a power of two).
func AlignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// IsAligned reports whether p is divisible by align.
func IsAligned(p unsafe.Pointer, align int) bool {
	return uintptr(p)&uintptr(align-1) == 0
}

// CacheLineSize returns the cache line size of the running platform.
func CacheLineSize() int {
	return int(unsafe.Sizeof(cpu.CacheLinePad{}))
}

func validate(align, size int) error {
	if !IsPowerOfTwo(align) {
		return ErrInvalidAlignment
	}
	if size < 0 {
		return ErrInvalidSize
	}
	return nil
}

// ElementAlign returns align raised to at least the natural alignment of T.
func ElementAlign[T any](align int) int {
	var zero T
	if a := int(unsafe.Alignof(zero)); a > align {
		return a
	}
	return align
}

// SizeOf returns the number of bytes needed for count values of type T.
func SizeOf[T any](count int) (int, error) {
	var zero T
	size, err := conv.MulInt(count, int(unsafe.Sizeof(zero)))
	if err != nil {
		return 0, ErrInvalidSize
	}
	return size, nil
}

// Allocate requests count values of type T at the given alignment.
// The alignment is raised to the natural alignment of T.
func Allocate[T any](a Allocator, align, count int) (*Block, []T, error) {
	if !IsPowerOfTwo(align) {
		return nil, nil, ErrInvalidAlignment
	}
	if count < 0 {
		return nil, nil, ErrInvalidSize
	}

	size, err := SizeOf[T](count)
	if err != nil {
		return nil, nil, err
	}

	b, err := a.Allocate(ElementAlign[T](align), size)
	if err != nil {
		return nil, nil, err
	}

	return b, unsafe.Slice((*T)(b.addr), count), nil //nolint:gosec // unsafe is required for typed views
}
