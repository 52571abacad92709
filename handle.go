package carray

import (
	"iter"

	"github.com/hupe1980/carray/mem"
)

// handle is the ownership part shared by Vector, Matrix and Tensor.
type handle[T Element] struct {
	ref *mem.Ref[*storage[T]]
}

func (h *handle[T]) storage() *storage[T] {
	return h.ref.Value()
}

// Shape returns a copy of the extents. Nil for an empty handle.
func (h *handle[T]) Shape() Shape {
	if s := h.storage(); s != nil {
		return s.shape.Clone()
	}
	return nil
}

func (h *handle[T]) extents() Shape {
	if s := h.storage(); s != nil {
		return s.shape
	}
	return nil
}

// Len returns the number of elements. Zero for an empty handle.
func (h *handle[T]) Len() int {
	return len(h.Data())
}

// Alignment returns the byte alignment of the element buffer.
func (h *handle[T]) Alignment() int {
	if s := h.storage(); s != nil {
		return s.alignment()
	}
	return 0
}

// Refs returns the number of handles sharing the array.
func (h *handle[T]) Refs() int64 {
	return h.ref.Refs()
}

// Data returns all elements in row-major order.
// The slice aliases the array and is valid only while the array is alive.
func (h *handle[T]) Data() []T {
	if s := h.storage(); s != nil {
		return s.buf.Slice()
	}
	return nil
}

// All iterates over the flat index and value of every element in row-major order.
func (h *handle[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range h.Data() {
			if !yield(i, v) {
				return
			}
		}
	}
}

func (h *handle[T]) cloneStorage() (*mem.Ref[*storage[T]], error) {
	s := h.storage()
	if s == nil {
		return nil, &ContractError{Op: "clone", Detail: "empty handle"}
	}
	return s.clone()
}
