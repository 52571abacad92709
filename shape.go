package carray

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hupe1980/carray/internal/conv"
)

// MaxRank is the highest supported rank.
const MaxRank = 3

// Element is the set of element types an array can hold.
//
// Only pointer-free scalar types are allowed: array memory may live outside the
// Go heap (see mem.MmapAllocator) where the garbage collector does not scan it.
type Element interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 | ~complex64 | ~complex128 | ~bool
}

// Shape is the ordered list of extents of an array, outermost first.
type Shape []int

// Rank returns the number of dimensions.
func (s Shape) Rank() int { return len(s) }

// Len returns the number of elements (product of extents).
// It returns 0 for invalid shapes.
func (s Shape) Len() int {
	n, err := conv.Product(s...)
	if err != nil {
		return 0
	}
	return n
}

// Equal reports whether two shapes have identical extents.
func (s Shape) Equal(o Shape) bool {
	return slices.Equal(s, o)
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	return slices.Clone(s)
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, e := range s {
		parts[i] = fmt.Sprint(e)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// Validate checks the shape for an array of the given rank and returns the
// element count.
func (s Shape) Validate(rank int) (int, error) {
	if rank < 1 || rank > MaxRank {
		return 0, &ContractError{Op: "validate", Detail: fmt.Sprintf("unsupported rank %d (supported: 1..%d)", rank, MaxRank)}
	}
	if len(s) != rank {
		return 0, &ContractError{Op: "validate", Detail: fmt.Sprintf("shape %v has %d extents, rank is %d", s, len(s), rank)}
	}
	for i, e := range s {
		if e < 0 {
			return 0, &ContractError{Op: "validate", Detail: fmt.Sprintf("extent %d is negative (%d)", i, e)}
		}
	}
	// Leading products size the index blocks and must fit even when a
	// trailing zero extent makes the total zero.
	for k := 1; k <= len(s); k++ {
		if _, err := conv.Product(s[:k]...); err != nil {
			return 0, &ContractError{Op: "validate", Detail: fmt.Sprintf("shape %v overflows the element count", s), cause: err}
		}
	}
	return conv.Product(s...)
}
