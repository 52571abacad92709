package carray

import (
	"unsafe"

	"github.com/hupe1980/carray/mem"
)

// Vector is a rank 1 array.
//
// The zero Vector is empty. A Vector is not safe for concurrent mutation;
// distinct handles returned by Share may be released from different goroutines.
type Vector[T Element] struct {
	handle[T]
	base unsafe.Pointer
}

// NewVector allocates a vector of n elements.
func NewVector[T Element](n int, opts ...Option) (*Vector[T], error) {
	ref, err := newStorage[T](1, Shape{n}, applyOptions(opts))
	if err != nil {
		return nil, err
	}
	return newVector(ref), nil
}

func newVector[T Element](ref *mem.Ref[*storage[T]]) *Vector[T] {
	s := ref.Value()
	return &Vector[T]{
		handle: handle[T]{ref: ref},
		base:   s.buf.Pointer(),
	}
}

// Rank returns 1.
func (v *Vector[T]) Rank() int { return 1 }

// At returns element i. Out-of-range indices are not detected.
func (v *Vector[T]) At(i int) T {
	return *v.Ptr(i)
}

// Ptr returns the address of element i. Out-of-range indices are not detected.
func (v *Vector[T]) Ptr(i int) *T {
	return (*T)(unsafe.Add(v.base, uintptr(i)*sizeOf[T]())) //nolint:gosec // unchecked by contract
}

// Set stores x at element i. Out-of-range indices are not detected.
func (v *Vector[T]) Set(i int, x T) {
	*v.Ptr(i) = x
}

// Get returns element i or ErrOutOfBounds.
func (v *Vector[T]) Get(i int) (T, error) {
	if err := checkIndex(v.extents(), i); err != nil {
		var zero T
		return zero, err
	}
	return v.At(i), nil
}

// Put stores x at element i or returns ErrOutOfBounds.
func (v *Vector[T]) Put(i int, x T) error {
	if err := checkIndex(v.extents(), i); err != nil {
		return err
	}
	v.Set(i, x)
	return nil
}

// Share returns a new handle to the same elements.
func (v *Vector[T]) Share() *Vector[T] {
	return &Vector[T]{handle: handle[T]{ref: v.ref.Clone()}, base: v.base}
}

// Move transfers ownership to a new handle and leaves v empty.
func (v *Vector[T]) Move() *Vector[T] {
	m := &Vector[T]{handle: handle[T]{ref: v.ref.Move()}, base: v.base}
	*v = Vector[T]{}
	return m
}

// Release drops this handle. The last release frees the array.
func (v *Vector[T]) Release() error {
	if v == nil {
		return nil
	}
	ref := v.ref
	*v = Vector[T]{}
	return ref.Release()
}

// Clone returns a deep copy in a new allocation with the same options.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	ref, err := v.cloneStorage()
	if err != nil {
		return nil, err
	}
	return newVector(ref), nil
}
