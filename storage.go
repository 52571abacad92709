package carray

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/hupe1980/carray/internal/conv"
	"github.com/hupe1980/carray/mem"
)

const ptrSize = unsafe.Sizeof(uintptr(0))

func sizeOf[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// storage owns the element buffer and the index hierarchy of one array.
//
// Rank 2 holds one rows block: rows[i] = base + i*e1.
// Rank 3 holds a rows block of e0*e1 entries, rows[i*e1+j] = base + (i*e1+j)*e2,
// and a planes block of e0 entries, planes[i] = &rows[i*e1].
// All blocks come from the same allocator at the same alignment and are
// released together by release, index blocks first.
type storage[T Element] struct {
	shape  Shape
	opts   options
	buf    *mem.UniqueSlice[T]
	rows   *mem.UniqueSlice[*T]
	planes *mem.UniqueSlice[**T]
}

// newStorage validates the shape, allocates and wires all blocks, and returns
// the storage behind a reference-counted handle.
func newStorage[T Element](rank int, shape Shape, o options) (*mem.Ref[*storage[T]], error) {
	ctx := context.Background()
	shape = shape.Clone()

	total, err := shape.Validate(rank)
	if err == nil && !mem.IsPowerOfTwo(o.alignment) {
		err = &ContractError{Op: "construct", Detail: fmt.Sprintf("alignment %d is not a power of two", o.alignment)}
	}
	if err != nil {
		o.metricsCollector.RecordConstruct(rank, 0, 0, err)
		o.logger.LogConstruct(ctx, shape, o.alignment, 0, err)
		return nil, err
	}

	start := time.Now()
	s := &storage[T]{shape: shape, opts: o}
	err = s.allocate(total)

	bytes := s.bufferBytes()
	o.metricsCollector.RecordConstruct(rank, conv.IntToInt64(bytes), time.Since(start), err)
	o.logger.LogConstruct(ctx, shape, s.alignment(), bytes, err)
	if err != nil {
		return nil, err
	}

	return mem.NewRef(s, (*storage[T]).release), nil
}

func (s *storage[T]) allocate(total int) error {
	buf, err := mem.NewUniqueSlice[T](s.opts.allocator, s.opts.alignment, total)
	if err != nil {
		return translateError("allocate buffer", err)
	}
	if s.opts.zeroFill {
		clear(buf.Slice())
	}
	s.buf = buf

	switch len(s.shape) {
	case 2:
		err = s.wireRows(s.shape[0], s.shape[1])
	case 3:
		err = s.wireTensor()
	}
	if err != nil {
		// A partially built hierarchy is released before reporting the failure.
		if ferr := s.free(); ferr != nil {
			err = errors.Join(err, ferr)
		}
		return err
	}
	return nil
}

// wireRows allocates n row pointers with a stride of width elements.
func (s *storage[T]) wireRows(n, width int) error {
	rows, err := mem.NewUniqueSlice[*T](s.opts.allocator, s.opts.alignment, n)
	if err != nil {
		return translateError("allocate rows", err)
	}
	s.rows = rows

	base := s.buf.Pointer()
	stride := uintptr(width) * sizeOf[T]()
	r := rows.Slice()
	for i := range r {
		r[i] = (*T)(unsafe.Add(base, uintptr(i)*stride)) //nolint:gosec // offsets stay within the buffer
	}
	return nil
}

func (s *storage[T]) wireTensor() error {
	e0, e1, e2 := s.shape[0], s.shape[1], s.shape[2]

	if err := s.wireRows(e0*e1, e2); err != nil {
		return err
	}

	planes, err := mem.NewUniqueSlice[**T](s.opts.allocator, s.opts.alignment, e0)
	if err != nil {
		return translateError("allocate planes", err)
	}
	s.planes = planes

	rowsBase := s.rows.Pointer()
	p := planes.Slice()
	for i := range p {
		p[i] = (**T)(unsafe.Add(rowsBase, uintptr(i*e1)*ptrSize)) //nolint:gosec // offsets stay within the rows block
	}
	return nil
}

// free releases rows, then planes, then the buffer.
func (s *storage[T]) free() error {
	var errs []error
	if err := s.rows.Release(); err != nil {
		errs = append(errs, err)
	}
	if err := s.planes.Release(); err != nil {
		errs = append(errs, err)
	}
	if err := s.buf.Release(); err != nil {
		errs = append(errs, err)
	}
	s.rows, s.planes, s.buf = nil, nil, nil
	return errors.Join(errs...)
}

// release is the single release action bound to the storage's reference.
func (s *storage[T]) release() error {
	bytes, blocks := s.bufferBytes(), s.blocks()

	err := s.free()

	s.opts.metricsCollector.RecordRelease(len(s.shape), conv.IntToInt64(bytes), err)
	s.opts.logger.LogRelease(context.Background(), s.shape, blocks, err)
	return err
}

func (s *storage[T]) blocks() int {
	n := 0
	if s.buf != nil {
		n++
	}
	if s.rows != nil {
		n++
	}
	if s.planes != nil {
		n++
	}
	return n
}

func (s *storage[T]) bufferBytes() int {
	return s.buf.Block().Len()
}

func (s *storage[T]) alignment() int {
	if a := s.buf.Block().Align(); a > 0 {
		return a
	}
	return s.opts.alignment
}

// clone allocates a new storage with the same shape and options and copies
// the elements.
func (s *storage[T]) clone() (*mem.Ref[*storage[T]], error) {
	ref, err := newStorage[T](len(s.shape), s.shape, s.opts)
	if err != nil {
		return nil, err
	}
	copy(ref.Value().buf.Slice(), s.buf.Slice())
	return ref, nil
}
