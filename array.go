package carray

import (
	"context"
	"fmt"
	"iter"
)

// Array is the rank-independent view of a Vector, Matrix or Tensor.
type Array[T Element] interface {
	Rank() int
	Shape() Shape
	Len() int
	Alignment() int
	Refs() int64
	Data() []T
	All() iter.Seq2[int, T]
	Release() error
}

var (
	_ Array[float32] = (*Vector[float32])(nil)
	_ Array[float32] = (*Matrix[float32])(nil)
	_ Array[float32] = (*Tensor[float32])(nil)
)

// New allocates an array whose rank is the length of shape.
// The concrete type is *Vector[T], *Matrix[T] or *Tensor[T].
func New[T Element](shape Shape, opts ...Option) (Array[T], error) {
	// Each case returns an untyped nil on failure, never a nil *Vector etc.
	switch len(shape) {
	case 1:
		v, err := NewVector[T](shape[0], opts...)
		if err != nil {
			return nil, err
		}
		return v, nil
	case 2:
		m, err := NewMatrix[T](shape[0], shape[1], opts...)
		if err != nil {
			return nil, err
		}
		return m, nil
	case 3:
		t, err := NewTensor[T](shape[0], shape[1], shape[2], opts...)
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	err := &ContractError{Op: "new", Detail: fmt.Sprintf("unsupported rank %d (supported: 1..%d)", len(shape), MaxRank)}
	o := applyOptions(opts)
	o.metricsCollector.RecordConstruct(len(shape), 0, 0, err)
	o.logger.LogConstruct(context.Background(), shape, o.alignment, 0, err)
	return nil, err
}
