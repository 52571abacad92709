package mem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapAllocator_Alignment(t *testing.T) {
	a := NewHeapAllocator()
	sizes := []int{0, 1, 10, 63, 64, 65, 100, 1024}

	for _, align := range testAlignments {
		for _, size := range sizes {
			b, err := a.Allocate(align, size)
			require.NoError(t, err)

			assert.Len(t, b.Bytes(), size)
			assert.Equal(t, size, b.Len())
			assert.Equal(t, align, b.Align())
			assert.NotNil(t, b.Pointer())
			assert.Zero(t, b.Addr()%uintptr(align), "addr %x not aligned to %d (size %d)", b.Addr(), align, size)

			require.NoError(t, a.Free(b))
		}
	}
}

func TestHeapAllocator_ZeroFilled(t *testing.T) {
	a := NewHeapAllocator()
	b, err := a.Allocate(64, 256)
	require.NoError(t, err)
	defer a.Free(b)

	for i, v := range b.Bytes() {
		if v != 0 {
			t.Fatalf("byte at index %d not zero: %d", i, v)
		}
	}
}

func TestHeapAllocator_Free(t *testing.T) {
	a := NewHeapAllocator()

	b, err := a.Allocate(64, 32)
	require.NoError(t, err)

	require.NoError(t, a.Free(b))
	assert.True(t, b.Released())
	assert.Nil(t, b.Bytes())
	assert.Nil(t, b.Pointer())

	assert.ErrorIs(t, a.Free(b), ErrDoubleFree)
	assert.NoError(t, a.Free(nil))
}

func TestHeapAllocator_ForeignBlock(t *testing.T) {
	heap := NewHeapAllocator()
	off := NewMmapAllocator()

	b, err := off.Allocate(64, 32)
	require.NoError(t, err)

	assert.ErrorIs(t, heap.Free(b), ErrForeignBlock)
	assert.False(t, b.Released())
	require.NoError(t, off.Free(b))
}

func TestHeapAllocator_Invalid(t *testing.T) {
	a := NewHeapAllocator()

	_, err := a.Allocate(48, 16)
	assert.ErrorIs(t, err, ErrInvalidAlignment)

	_, err = a.Allocate(64, -1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestHeapAllocator_Exhausted(t *testing.T) {
	a := NewHeapAllocator()

	_, err := a.Allocate(64, math.MaxInt-128)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllocationFailure)

	var ae *AllocationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 64, ae.Align)
	assert.Equal(t, math.MaxInt-128, ae.Size)

	// Padding for the alignment overflows int.
	_, err = a.Allocate(4096, math.MaxInt-100)
	assert.ErrorIs(t, err, ErrAllocationFailure)
}
