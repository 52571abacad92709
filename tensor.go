package carray

import (
	"unsafe"

	"github.com/hupe1980/carray/mem"
)

// Tensor is a rank 3 array. Element (i, j, k) is reached through two pointer
// hops: planes[i][j][k].
type Tensor[T Element] struct {
	handle[T]
	planes  unsafe.Pointer // ***T
	p, r, c int
}

// NewTensor allocates a planes x rows x cols tensor.
func NewTensor[T Element](planes, rows, cols int, opts ...Option) (*Tensor[T], error) {
	ref, err := newStorage[T](3, Shape{planes, rows, cols}, applyOptions(opts))
	if err != nil {
		return nil, err
	}
	return newTensor(ref), nil
}

func newTensor[T Element](ref *mem.Ref[*storage[T]]) *Tensor[T] {
	s := ref.Value()
	return &Tensor[T]{
		handle: handle[T]{ref: ref},
		planes: s.planes.Pointer(),
		p:      s.shape[0],
		r:      s.shape[1],
		c:      s.shape[2],
	}
}

// Rank returns 3.
func (t *Tensor[T]) Rank() int { return 3 }

// Planes returns the first extent.
func (t *Tensor[T]) Planes() int { return t.p }

// Rows returns the second extent.
func (t *Tensor[T]) Rows() int { return t.r }

// Cols returns the third extent.
func (t *Tensor[T]) Cols() int { return t.c }

// Plane returns a view of plane i. The view aliases the tensor and is valid
// only while the tensor is alive. Out-of-range indices are not detected.
func (t *Tensor[T]) Plane(i int) Plane[T] {
	rows := *(***T)(unsafe.Add(t.planes, uintptr(i)*ptrSize)) //nolint:gosec // unchecked by contract
	return Plane[T]{rows: unsafe.Pointer(rows), r: t.r, c: t.c}
}

// At returns element (i, j, k). Out-of-range indices are not detected.
func (t *Tensor[T]) At(i, j, k int) T {
	return *t.Ptr(i, j, k)
}

// Ptr returns the address of element (i, j, k). Out-of-range indices are not detected.
func (t *Tensor[T]) Ptr(i, j, k int) *T {
	return t.Plane(i).Ptr(j, k)
}

// Set stores x at (i, j, k). Out-of-range indices are not detected.
func (t *Tensor[T]) Set(i, j, k int, x T) {
	*t.Ptr(i, j, k) = x
}

// Row returns row j of plane i as a slice aliasing the tensor.
// Out-of-range indices are not detected.
func (t *Tensor[T]) Row(i, j int) []T {
	return t.Plane(i).Row(j)
}

// Get returns element (i, j, k) or ErrOutOfBounds.
func (t *Tensor[T]) Get(i, j, k int) (T, error) {
	if err := checkIndex(t.extents(), i, j, k); err != nil {
		var zero T
		return zero, err
	}
	return t.At(i, j, k), nil
}

// Put stores x at (i, j, k) or returns ErrOutOfBounds.
func (t *Tensor[T]) Put(i, j, k int, x T) error {
	if err := checkIndex(t.extents(), i, j, k); err != nil {
		return err
	}
	t.Set(i, j, k, x)
	return nil
}

// Share returns a new handle to the same elements.
func (t *Tensor[T]) Share() *Tensor[T] {
	return &Tensor[T]{handle: handle[T]{ref: t.ref.Clone()}, planes: t.planes, p: t.p, r: t.r, c: t.c}
}

// Move transfers ownership to a new handle and leaves t empty.
func (t *Tensor[T]) Move() *Tensor[T] {
	n := &Tensor[T]{handle: handle[T]{ref: t.ref.Move()}, planes: t.planes, p: t.p, r: t.r, c: t.c}
	*t = Tensor[T]{}
	return n
}

// Release drops this handle. The last release frees the row table, the plane
// table and the element buffer, in that order.
func (t *Tensor[T]) Release() error {
	if t == nil {
		return nil
	}
	ref := t.ref
	*t = Tensor[T]{}
	return ref.Release()
}

// Clone returns a deep copy in a new allocation with the same options.
func (t *Tensor[T]) Clone() (*Tensor[T], error) {
	ref, err := t.cloneStorage()
	if err != nil {
		return nil, err
	}
	return newTensor(ref), nil
}

// Plane is a rows x cols view of one plane of a Tensor.
type Plane[T Element] struct {
	rows unsafe.Pointer // **T
	r, c int
}

// Rows returns the number of rows in the plane.
func (p Plane[T]) Rows() int { return p.r }

// Cols returns the number of columns in the plane.
func (p Plane[T]) Cols() int { return p.c }

func (p Plane[T]) row(j int) *T {
	return *(**T)(unsafe.Add(p.rows, uintptr(j)*ptrSize)) //nolint:gosec // unchecked by contract
}

// At returns element (j, k) of the plane.
func (p Plane[T]) At(j, k int) T {
	return *p.Ptr(j, k)
}

// Ptr returns the address of element (j, k) of the plane.
func (p Plane[T]) Ptr(j, k int) *T {
	return (*T)(unsafe.Add(unsafe.Pointer(p.row(j)), uintptr(k)*sizeOf[T]())) //nolint:gosec // unchecked by contract
}

// Set stores x at (j, k) of the plane.
func (p Plane[T]) Set(j, k int, x T) {
	*p.Ptr(j, k) = x
}

// Row returns row j of the plane.
func (p Plane[T]) Row(j int) []T {
	return unsafe.Slice(p.row(j), p.c)
}

// Data returns the plane's elements in row-major order.
func (p Plane[T]) Data() []T {
	if p.r == 0 {
		return nil
	}
	return unsafe.Slice(p.row(0), p.r*p.c)
}
