package carray

import (
	"unsafe"

	"github.com/hupe1980/carray/mem"
)

// Matrix is a rank 2 array. Element (i, j) is reached through the row pointer
// table: rows[i][j].
type Matrix[T Element] struct {
	handle[T]
	rows unsafe.Pointer // **T
	r, c int
}

// NewMatrix allocates a rows x cols matrix.
func NewMatrix[T Element](rows, cols int, opts ...Option) (*Matrix[T], error) {
	ref, err := newStorage[T](2, Shape{rows, cols}, applyOptions(opts))
	if err != nil {
		return nil, err
	}
	return newMatrix(ref), nil
}

func newMatrix[T Element](ref *mem.Ref[*storage[T]]) *Matrix[T] {
	s := ref.Value()
	return &Matrix[T]{
		handle: handle[T]{ref: ref},
		rows:   s.rows.Pointer(),
		r:      s.shape[0],
		c:      s.shape[1],
	}
}

// Rank returns 2.
func (m *Matrix[T]) Rank() int { return 2 }

// Rows returns the first extent.
func (m *Matrix[T]) Rows() int { return m.r }

// Cols returns the second extent.
func (m *Matrix[T]) Cols() int { return m.c }

func (m *Matrix[T]) row(i int) *T {
	return *(**T)(unsafe.Add(m.rows, uintptr(i)*ptrSize)) //nolint:gosec // unchecked by contract
}

// At returns element (i, j). Out-of-range indices are not detected.
func (m *Matrix[T]) At(i, j int) T {
	return *m.Ptr(i, j)
}

// Ptr returns the address of element (i, j). Out-of-range indices are not detected.
func (m *Matrix[T]) Ptr(i, j int) *T {
	return (*T)(unsafe.Add(unsafe.Pointer(m.row(i)), uintptr(j)*sizeOf[T]())) //nolint:gosec // unchecked by contract
}

// Set stores x at (i, j). Out-of-range indices are not detected.
func (m *Matrix[T]) Set(i, j int, x T) {
	*m.Ptr(i, j) = x
}

// Row returns row i as a slice aliasing the matrix.
// Out-of-range indices are not detected.
func (m *Matrix[T]) Row(i int) []T {
	return unsafe.Slice(m.row(i), m.c)
}

// Get returns element (i, j) or ErrOutOfBounds.
func (m *Matrix[T]) Get(i, j int) (T, error) {
	if err := checkIndex(m.extents(), i, j); err != nil {
		var zero T
		return zero, err
	}
	return m.At(i, j), nil
}

// Put stores x at (i, j) or returns ErrOutOfBounds.
func (m *Matrix[T]) Put(i, j int, x T) error {
	if err := checkIndex(m.extents(), i, j); err != nil {
		return err
	}
	m.Set(i, j, x)
	return nil
}

// Share returns a new handle to the same elements.
func (m *Matrix[T]) Share() *Matrix[T] {
	return &Matrix[T]{handle: handle[T]{ref: m.ref.Clone()}, rows: m.rows, r: m.r, c: m.c}
}

// Move transfers ownership to a new handle and leaves m empty.
func (m *Matrix[T]) Move() *Matrix[T] {
	n := &Matrix[T]{handle: handle[T]{ref: m.ref.Move()}, rows: m.rows, r: m.r, c: m.c}
	*m = Matrix[T]{}
	return n
}

// Release drops this handle. The last release frees the row table and the
// element buffer.
func (m *Matrix[T]) Release() error {
	if m == nil {
		return nil
	}
	ref := m.ref
	*m = Matrix[T]{}
	return ref.Release()
}

// Clone returns a deep copy in a new allocation with the same options.
func (m *Matrix[T]) Clone() (*Matrix[T], error) {
	ref, err := m.cloneStorage()
	if err != nil {
		return nil, err
	}
	return newMatrix(ref), nil
}
