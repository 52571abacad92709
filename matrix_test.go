package carray

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/carray/mem"
)

func TestMatrix(t *testing.T) {
	m, err := NewMatrix[float32](4, 3, WithAlignment(64))
	require.NoError(t, err)
	defer m.Release()

	assert.Equal(t, 2, m.Rank())
	assert.Equal(t, Shape{4, 3}, m.Shape())
	assert.Equal(t, 4, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 12, m.Len())
	assert.True(t, mem.IsAligned(unsafe.Pointer(&m.Data()[0]), 64))

	for i := range 4 {
		for j := range 3 {
			m.Set(i, j, float32(i*10+j))
		}
	}

	// Row-major and contiguous.
	data := m.Data()
	for i := range 4 {
		for j := range 3 {
			assert.Equal(t, float32(i*10+j), m.At(i, j))
			assert.Same(t, &data[i*3+j], m.Ptr(i, j))
		}
		assert.Equal(t, []float32{float32(i * 10), float32(i*10 + 1), float32(i*10 + 2)}, m.Row(i))
	}

	// Rows alias the buffer.
	m.Row(2)[1] = -1
	assert.Equal(t, float32(-1), m.At(2, 1))
}

func TestMatrix_ByteElements(t *testing.T) {
	m, err := NewMatrix[uint8](4, 3, WithAlignment(64))
	require.NoError(t, err)
	defer m.Release()

	base := unsafe.Pointer(m.Ptr(0, 0))
	assert.True(t, mem.IsAligned(base, 64))
	assert.Equal(t, 64, m.Alignment())
	assert.Equal(t, uintptr(base)+7, uintptr(unsafe.Pointer(m.Ptr(2, 1))))
	assert.Same(t, &m.Data()[7], m.Ptr(2, 1))

	m.Set(2, 1, 0xAB)
	assert.Equal(t, uint8(0xAB), m.Data()[7])
}

func TestMatrix_Checked(t *testing.T) {
	m, err := NewMatrix[int](2, 2)
	require.NoError(t, err)

	require.NoError(t, m.Put(1, 1, 5))
	x, err := m.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, x)

	tests := [][2]int{{2, 0}, {0, 2}, {-1, 0}, {0, -1}}
	for _, idx := range tests {
		_, err := m.Get(idx[0], idx[1])
		assert.ErrorIs(t, err, ErrOutOfBounds, "index %v", idx)
		assert.ErrorIs(t, m.Put(idx[0], idx[1], 0), ErrOutOfBounds)
	}

	require.NoError(t, m.Release())
	_, err = m.Get(0, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestMatrix_Share(t *testing.T) {
	alloc := mem.NewCountingAllocator(nil)

	m, err := NewMatrix[int64](4, 3, WithAllocator(alloc))
	require.NoError(t, err)

	s := m.Share()
	assert.Same(t, m.Ptr(0, 0), s.Ptr(0, 0))
	assert.Equal(t, int64(2), s.Refs())

	s.Set(3, 2, 11)
	assert.Equal(t, int64(11), m.At(3, 2))

	require.NoError(t, m.Release())
	assert.Equal(t, int64(2), alloc.Stats().LiveBlocks)
	assert.Equal(t, int64(11), s.At(3, 2))

	require.NoError(t, s.Release())
	assert.Zero(t, alloc.Stats().LiveBlocks)
	assert.Equal(t, int64(2), alloc.Stats().Frees)
}

func TestMatrix_ShareAcrossGoroutines(t *testing.T) {
	alloc := mem.NewCountingAllocator(nil)

	m, err := NewMatrix[uint32](8, 8, WithAllocator(alloc))
	require.NoError(t, err)

	handles := make([]*Matrix[uint32], 16)
	for i := range handles {
		handles[i] = m.Share()
	}
	require.NoError(t, m.Release())

	done := make(chan error, len(handles))
	for _, h := range handles {
		go func() { done <- h.Release() }()
	}
	for range handles {
		assert.NoError(t, <-done)
	}

	assert.Zero(t, alloc.Stats().LiveBlocks)
	assert.Zero(t, alloc.Stats().BadFrees)
}

func TestMatrix_Move(t *testing.T) {
	m, err := NewMatrix[uint8](2, 3)
	require.NoError(t, err)
	m.Set(1, 2, 9)
	p := m.Ptr(1, 2)

	n := m.Move()
	defer n.Release()

	assert.Zero(t, m.Len())
	assert.Nil(t, m.Data())
	assert.Zero(t, m.Rows())
	assert.NoError(t, m.Release())

	assert.Same(t, p, n.Ptr(1, 2))
	assert.Equal(t, uint8(9), n.At(1, 2))
	assert.Equal(t, int64(1), n.Refs())
}

func TestMatrix_Clone(t *testing.T) {
	m, err := NewMatrix[float64](2, 2)
	require.NoError(t, err)
	defer m.Release()
	copy(m.Data(), []float64{1, 2, 3, 4})

	c, err := m.Clone()
	require.NoError(t, err)
	defer c.Release()

	assert.Equal(t, m.Data(), c.Data())
	assert.Equal(t, m.Shape(), c.Shape())
	assert.NotSame(t, m.Ptr(1, 1), c.Ptr(1, 1))
	assert.Equal(t, 4.0, c.At(1, 1))
}

func TestMatrix_ZeroExtents(t *testing.T) {
	for _, shape := range [][2]int{{0, 3}, {4, 0}, {0, 0}} {
		t.Run(fmt.Sprint(shape), func(t *testing.T) {
			alloc := mem.NewCountingAllocator(nil)

			m, err := NewMatrix[float64](shape[0], shape[1], WithAllocator(alloc))
			require.NoError(t, err)

			assert.Zero(t, m.Len())
			assert.Empty(t, m.Data())
			for i := range m.Rows() {
				assert.Empty(t, m.Row(i))
			}

			require.NoError(t, m.Release())
			assert.Zero(t, alloc.Stats().LiveBlocks)
		})
	}
}

func TestMatrix_MmapAllocator(t *testing.T) {
	alloc := mem.NewCountingAllocator(mem.NewMmapAllocator())

	m, err := NewMatrix[float32](64, 64, WithAllocator(alloc), WithAlignment(4096))
	require.NoError(t, err)

	assert.True(t, mem.IsAligned(unsafe.Pointer(&m.Data()[0]), 4096))
	m.Set(63, 63, 1)
	assert.Equal(t, float32(1), m.Data()[64*64-1])

	require.NoError(t, m.Release())
	assert.Zero(t, alloc.Stats().LiveBlocks)
}

func BenchmarkMatrix_At(b *testing.B) {
	m, err := NewMatrix[float32](256, 256)
	require.NoError(b, err)
	defer m.Release()

	b.ReportAllocs()

	var sum float32
	for b.Loop() {
		for i := range 256 {
			for j := range 256 {
				sum += m.At(i, j)
			}
		}
	}
	_ = sum
}

func BenchmarkMatrix_Row(b *testing.B) {
	m, err := NewMatrix[float32](256, 256)
	require.NoError(b, err)
	defer m.Release()

	b.ReportAllocs()

	var sum float32
	for b.Loop() {
		for i := range 256 {
			for _, x := range m.Row(i) {
				sum += x
			}
		}
	}
	_ = sum
}

func BenchmarkNewMatrix(b *testing.B) {
	b.ReportAllocs()

	for b.Loop() {
		m, err := NewMatrix[float64](64, 64)
		if err != nil {
			b.Fatal(err)
		}
		_ = m.Release()
	}
}
