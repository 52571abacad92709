package mem

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocationFailure is returned when an allocator cannot satisfy a request.
	ErrAllocationFailure = errors.New("mem: allocation failure")
	// ErrInvalidAlignment is returned when the alignment is not a positive power of two.
	ErrInvalidAlignment = errors.New("mem: alignment must be a power of two")
	// ErrInvalidSize is returned for negative or overflowing sizes.
	ErrInvalidSize = errors.New("mem: invalid size")
	// ErrDoubleFree is returned when a block is freed more than once.
	ErrDoubleFree = errors.New("mem: block already freed")
	// ErrForeignBlock is returned when a block is freed by an allocator that did not produce it.
	ErrForeignBlock = errors.New("mem: block belongs to a different allocator")
)

// AllocationError describes a failed allocation.
//
// It matches ErrAllocationFailure via errors.Is. The underlying cause (if any)
// can be accessed via errors.Unwrap.
type AllocationError struct {
	Align int
	Size  int
	cause error
}

func (e *AllocationError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("mem: allocation failure (size=%d, align=%d): %v", e.Size, e.Align, e.cause)
	}
	return fmt.Sprintf("mem: allocation failure (size=%d, align=%d)", e.Size, e.Align)
}

func (e *AllocationError) Unwrap() error { return e.cause }

// Is reports whether target is ErrAllocationFailure.
func (e *AllocationError) Is(target error) bool {
	return target == ErrAllocationFailure
}

func allocationError(align, size int, cause error) error {
	return &AllocationError{Align: align, Size: size, cause: cause}
}
