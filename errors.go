package carray

import (
	"errors"
	"fmt"

	"github.com/hupe1980/carray/mem"
)

var (
	// ErrContractViolation is returned for invalid construction arguments:
	// unsupported rank, extent count mismatch, negative extents, element count
	// overflow or a non-power-of-two alignment. It is always reported before
	// any memory is allocated.
	ErrContractViolation = errors.New("contract violation")

	// ErrAllocationFailure is returned when the allocator cannot satisfy a request.
	ErrAllocationFailure = mem.ErrAllocationFailure

	// ErrOutOfBounds is returned by the checked accessors (Get, Put) only.
	// The unchecked accessors (At, Ptr, Set) do not detect it.
	ErrOutOfBounds = errors.New("index out of bounds")
)

// ContractError describes a construction-time contract violation.
//
// It matches ErrContractViolation via errors.Is. The original underlying error
// (if any) can be accessed via errors.Unwrap.
type ContractError struct {
	Op     string
	Detail string
	cause  error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrContractViolation, e.Op, e.Detail)
}

func (e *ContractError) Unwrap() error { return e.cause }

// Is reports whether target is ErrContractViolation.
func (e *ContractError) Is(target error) bool {
	return target == ErrContractViolation
}

// IndexError describes an out-of-range index passed to a checked accessor.
type IndexError struct {
	Index []int
	Shape Shape
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %v for shape %v", ErrOutOfBounds, e.Index, e.Shape)
}

// Is reports whether target is ErrOutOfBounds.
func (e *IndexError) Is(target error) bool {
	return target == ErrOutOfBounds
}

func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mem.ErrInvalidAlignment) {
		return &ContractError{Op: op, Detail: "alignment must be a power of two", cause: err}
	}
	if errors.Is(err, mem.ErrInvalidSize) {
		return &ContractError{Op: op, Detail: "element count exceeds addressable memory", cause: err}
	}
	if errors.Is(err, mem.ErrAllocationFailure) {
		return fmt.Errorf("carray: %s: %w", op, err)
	}

	return err
}

func checkIndex(shape Shape, idx ...int) error {
	if len(shape) != len(idx) {
		return &IndexError{Index: idx, Shape: shape}
	}
	for i, v := range idx {
		if v < 0 || v >= shape[i] {
			return &IndexError{Index: idx, Shape: shape}
		}
	}
	return nil
}
