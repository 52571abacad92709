package mem

import "unsafe"

// Unique is an exclusive-ownership handle to an aligned allocation holding
// count values of T, accessed through a pointer to the first value.
type Unique[T any] struct {
	alloc Allocator
	blk   *Block
	ptr   *T
	n     int
}

// NewUnique allocates count values of T at align and returns an exclusive handle.
func NewUnique[T any](a Allocator, align, count int) (*Unique[T], error) {
	if a == nil {
		a = Default
	}
	b, s, err := Allocate[T](a, align, count)
	if err != nil {
		return nil, err
	}
	return &Unique[T]{alloc: a, blk: b, ptr: (*T)(b.addr), n: len(s)}, nil //nolint:gosec // unsafe is required for typed views
}

// Get returns the pointer to the first value. Nil for an empty handle.
// For a zero-count allocation the pointer must not be dereferenced.
func (u *Unique[T]) Get() *T {
	if u == nil {
		return nil
	}
	return u.ptr
}

// Len returns the number of values.
func (u *Unique[T]) Len() int {
	if u == nil {
		return 0
	}
	return u.n
}

// Block returns the underlying block.
func (u *Unique[T]) Block() *Block {
	if u == nil {
		return nil
	}
	return u.blk
}

// Move transfers ownership to a new handle and leaves u empty.
func (u *Unique[T]) Move() *Unique[T] {
	if u == nil {
		return &Unique[T]{}
	}
	m := *u
	*u = Unique[T]{}
	return &m
}

// Release frees the allocation through the allocator that produced it.
// Releasing an empty handle is a no-op.
func (u *Unique[T]) Release() error {
	if u == nil || u.blk == nil {
		return nil
	}
	a, b := u.alloc, u.blk
	*u = Unique[T]{}
	return a.Free(b)
}

// UniqueSlice is an exclusive-ownership handle to an aligned array of T.
type UniqueSlice[T any] struct {
	alloc Allocator
	blk   *Block
	s     []T
}

// NewUniqueSlice allocates count values of T at align and returns an exclusive handle.
func NewUniqueSlice[T any](a Allocator, align, count int) (*UniqueSlice[T], error) {
	if a == nil {
		a = Default
	}
	b, s, err := Allocate[T](a, align, count)
	if err != nil {
		return nil, err
	}
	return &UniqueSlice[T]{alloc: a, blk: b, s: s}, nil
}

// Slice returns the owned values. The slice is valid only until Release.
func (u *UniqueSlice[T]) Slice() []T {
	if u == nil {
		return nil
	}
	return u.s
}

// Pointer returns the aligned base address. For an empty allocation it is
// valid but must not be dereferenced.
func (u *UniqueSlice[T]) Pointer() unsafe.Pointer {
	if u == nil || u.blk == nil {
		return nil
	}
	return u.blk.addr
}

// Len returns the number of values.
func (u *UniqueSlice[T]) Len() int {
	if u == nil {
		return 0
	}
	return len(u.s)
}

// Block returns the underlying block.
func (u *UniqueSlice[T]) Block() *Block {
	if u == nil {
		return nil
	}
	return u.blk
}

// Move transfers ownership to a new handle and leaves u empty.
func (u *UniqueSlice[T]) Move() *UniqueSlice[T] {
	if u == nil {
		return &UniqueSlice[T]{}
	}
	m := *u
	*u = UniqueSlice[T]{}
	return &m
}

// Release frees the allocation through the allocator that produced it.
// Releasing an empty handle is a no-op.
func (u *UniqueSlice[T]) Release() error {
	if u == nil || u.blk == nil {
		return nil
	}
	a, b := u.alloc, u.blk
	*u = UniqueSlice[T]{}
	return a.Free(b)
}
