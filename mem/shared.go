package mem

import "unsafe"

func freeFunc(a Allocator) func(*Block) error {
	return func(b *Block) error { return a.Free(b) }
}

// Shared is a shared-ownership handle to an aligned allocation holding count
// values of T, accessed through a pointer to the first value.
type Shared[T any] struct {
	ref *Ref[*Block]
	ptr *T
	n   int
}

// NewShared allocates count values of T at align and returns a shared handle
// holding one reference.
func NewShared[T any](a Allocator, align, count int) (*Shared[T], error) {
	if a == nil {
		a = Default
	}
	b, s, err := Allocate[T](a, align, count)
	if err != nil {
		return nil, err
	}
	return &Shared[T]{ref: NewRef(b, freeFunc(a)), ptr: (*T)(b.addr), n: len(s)}, nil //nolint:gosec // unsafe is required for typed views
}

// Get returns the pointer to the first value. Nil for an empty handle.
func (s *Shared[T]) Get() *T {
	if s == nil {
		return nil
	}
	return s.ptr
}

// Len returns the number of values.
func (s *Shared[T]) Len() int {
	if s == nil {
		return 0
	}
	return s.n
}

// Block returns the underlying block.
func (s *Shared[T]) Block() *Block {
	if s == nil {
		return nil
	}
	return s.ref.Value()
}

// Refs returns the number of handles sharing the allocation.
func (s *Shared[T]) Refs() int64 {
	if s == nil {
		return 0
	}
	return s.ref.Refs()
}

// Clone returns a new handle to the same allocation.
func (s *Shared[T]) Clone() *Shared[T] {
	if s == nil || !s.ref.Valid() {
		return &Shared[T]{}
	}
	return &Shared[T]{ref: s.ref.Clone(), ptr: s.ptr, n: s.n}
}

// Move transfers the reference to a new handle and leaves s empty.
func (s *Shared[T]) Move() *Shared[T] {
	if s == nil {
		return &Shared[T]{}
	}
	m := &Shared[T]{ref: s.ref.Move(), ptr: s.ptr, n: s.n}
	*s = Shared[T]{}
	return m
}

// Release drops this handle's reference. The allocation is freed when the
// last handle is released.
func (s *Shared[T]) Release() error {
	if s == nil {
		return nil
	}
	ref := s.ref
	*s = Shared[T]{}
	return ref.Release()
}

// SharedSlice is a shared-ownership handle to an aligned array of T.
type SharedSlice[T any] struct {
	ref *Ref[*Block]
	s   []T
}

// NewSharedSlice allocates count values of T at align and returns a shared
// handle holding one reference.
func NewSharedSlice[T any](a Allocator, align, count int) (*SharedSlice[T], error) {
	if a == nil {
		a = Default
	}
	b, s, err := Allocate[T](a, align, count)
	if err != nil {
		return nil, err
	}
	return &SharedSlice[T]{ref: NewRef(b, freeFunc(a)), s: s}, nil
}

// Slice returns the shared values. The slice is valid only while at least one
// handle is alive.
func (s *SharedSlice[T]) Slice() []T {
	if s == nil {
		return nil
	}
	return s.s
}

// Pointer returns the aligned base address.
func (s *SharedSlice[T]) Pointer() unsafe.Pointer {
	return s.Block().Pointer()
}

// Len returns the number of values.
func (s *SharedSlice[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.s)
}

// Block returns the underlying block.
func (s *SharedSlice[T]) Block() *Block {
	if s == nil {
		return nil
	}
	return s.ref.Value()
}

// Refs returns the number of handles sharing the allocation.
func (s *SharedSlice[T]) Refs() int64 {
	if s == nil {
		return 0
	}
	return s.ref.Refs()
}

// Clone returns a new handle to the same allocation.
func (s *SharedSlice[T]) Clone() *SharedSlice[T] {
	if s == nil || !s.ref.Valid() {
		return &SharedSlice[T]{}
	}
	return &SharedSlice[T]{ref: s.ref.Clone(), s: s.s}
}

// Move transfers the reference to a new handle and leaves s empty.
func (s *SharedSlice[T]) Move() *SharedSlice[T] {
	if s == nil {
		return &SharedSlice[T]{}
	}
	m := &SharedSlice[T]{ref: s.ref.Move(), s: s.s}
	*s = SharedSlice[T]{}
	return m
}

// Release drops this handle's reference. The allocation is freed when the
// last handle is released.
func (s *SharedSlice[T]) Release() error {
	if s == nil {
		return nil
	}
	ref := s.ref
	*s = SharedSlice[T]{}
	return ref.Release()
}
