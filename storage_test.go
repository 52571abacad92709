package carray

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/carray/mem"
)

var testAlignments = []int{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048, 4096}

func TestStorage_Alignment(t *testing.T) {
	for _, align := range testAlignments {
		t.Run(fmt.Sprintf("align=%d", align), func(t *testing.T) {
			for _, shape := range []Shape{{5}, {4, 3}, {4, 3, 2}} {
				ref, err := newStorage[float64](len(shape), shape, applyOptions([]Option{WithAlignment(align)}))
				require.NoError(t, err)

				s := ref.Value()
				want := max(align, 8)
				assert.Equal(t, want, s.alignment())
				assert.True(t, mem.IsAligned(s.buf.Pointer(), want))
				if s.rows != nil {
					assert.True(t, mem.IsAligned(s.rows.Pointer(), want))
					assert.Equal(t, want, s.rows.Block().Align())
				}
				if s.planes != nil {
					assert.True(t, mem.IsAligned(s.planes.Pointer(), want))
				}

				require.NoError(t, ref.Release())
			}
		})
	}
}

func TestStorage_ByteAlignment(t *testing.T) {
	ptrAlign := int(ptrSize)

	for _, align := range testAlignments {
		t.Run(fmt.Sprintf("align=%d", align), func(t *testing.T) {
			for _, shape := range []Shape{{5}, {4, 3}, {4, 3, 2}} {
				ref, err := newStorage[uint8](len(shape), shape, applyOptions([]Option{WithAlignment(align)}))
				require.NoError(t, err)

				// One-byte elements keep the requested alignment unchanged.
				s := ref.Value()
				assert.Equal(t, align, s.alignment())
				assert.True(t, mem.IsAligned(s.buf.Pointer(), align))
				if s.rows != nil {
					assert.True(t, mem.IsAligned(s.rows.Pointer(), max(align, ptrAlign)))
				}
				if s.planes != nil {
					assert.True(t, mem.IsAligned(s.planes.Pointer(), max(align, ptrAlign)))
				}

				require.NoError(t, ref.Release())
			}
		})
	}
}

func TestStorage_Hierarchy(t *testing.T) {
	ref, err := newStorage[int32](3, Shape{4, 3, 2}, defaultOptions())
	require.NoError(t, err)
	defer ref.Release()

	s := ref.Value()
	data := s.buf.Slice()
	rows := s.rows.Slice()
	planes := s.planes.Slice()

	require.Len(t, data, 24)
	require.Len(t, rows, 12)
	require.Len(t, planes, 4)

	for i := range rows {
		assert.Same(t, &data[i*2], rows[i])
	}
	for i := range planes {
		assert.Same(t, &rows[i*3], planes[i])
	}
}

func TestStorage_BlocksAreReleased(t *testing.T) {
	for _, shape := range []Shape{{5}, {4, 3}, {4, 3, 2}, {0}, {0, 3}, {4, 0}, {2, 0, 3}, {0, 0, 0}} {
		t.Run(shape.String(), func(t *testing.T) {
			alloc := mem.NewCountingAllocator(nil)

			ref, err := newStorage[uint16](len(shape), shape, applyOptions([]Option{WithAllocator(alloc)}))
			require.NoError(t, err)
			assert.Equal(t, int64(len(shape)), alloc.Stats().LiveBlocks)

			require.NoError(t, ref.Release())

			st := alloc.Stats()
			assert.Zero(t, st.LiveBlocks)
			assert.Zero(t, st.LiveBytes)
			assert.Equal(t, st.Allocs, st.Frees)
			assert.Zero(t, st.BadFrees)
		})
	}
}

func TestStorage_PartialFailureDoesNotLeak(t *testing.T) {
	tests := []struct {
		name   string
		shape  Shape
		budget int64
		allocs int64
	}{
		// 12 byte buffer fits, the 32 byte rows block does not.
		{"matrix rows", Shape{4, 3}, 20, 1},
		// 24 + 48 bytes fit, the 16 byte planes block does not.
		{"tensor planes", Shape{2, 3, 4}, 80, 2},
		{"buffer", Shape{4, 3}, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limited := mem.NewLimitedAllocator(nil, tt.budget)
			alloc := mem.NewCountingAllocator(limited)

			ref, err := newStorage[uint8](len(tt.shape), tt.shape, applyOptions([]Option{WithAllocator(alloc)}))
			require.Error(t, err)
			assert.Nil(t, ref)
			assert.ErrorIs(t, err, ErrAllocationFailure)

			st := alloc.Stats()
			assert.Equal(t, tt.allocs, st.Allocs)
			assert.Equal(t, tt.allocs, st.Frees)
			assert.Equal(t, int64(1), st.Failures)
			assert.Zero(t, st.LiveBlocks)
			assert.Zero(t, limited.Usage())
		})
	}
}

func TestStorage_ContractViolationAllocatesNothing(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		opts  []Option
	}{
		{"negative extent", Shape{-1, 3}, nil},
		{"bad alignment", Shape{4, 3}, []Option{WithAlignment(3)}},
		{"zero alignment", Shape{4}, []Option{WithAlignment(0)}},
		{"overflow", Shape{math.MaxInt, 2}, nil},
		{"byte size overflow", Shape{math.MaxInt / 2}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := mem.NewCountingAllocator(nil)
			opts := append([]Option{WithAllocator(alloc)}, tt.opts...)

			_, err := newStorage[float64](len(tt.shape), tt.shape, applyOptions(opts))
			assert.ErrorIs(t, err, ErrContractViolation)
			assert.Zero(t, alloc.Stats().Allocs)
		})
	}
}

func TestStorage_ZeroFill(t *testing.T) {
	ref, err := newStorage[int64](1, Shape{16}, applyOptions([]Option{WithZeroFill(true)}))
	require.NoError(t, err)
	defer ref.Release()

	for _, v := range ref.Value().buf.Slice() {
		assert.Zero(t, v)
	}
}

func TestStorage_Clone(t *testing.T) {
	ref, err := newStorage[int16](2, Shape{2, 3}, defaultOptions())
	require.NoError(t, err)
	defer ref.Release()

	for i := range ref.Value().buf.Slice() {
		ref.Value().buf.Slice()[i] = int16(i)
	}

	c, err := ref.Value().clone()
	require.NoError(t, err)
	defer c.Release()

	assert.Equal(t, ref.Value().buf.Slice(), c.Value().buf.Slice())
	assert.NotEqual(t, ref.Value().buf.Pointer(), c.Value().buf.Pointer())
	assert.True(t, c.Value().shape.Equal(Shape{2, 3}))
}
