package mem

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_CloneRelease(t *testing.T) {
	released := 0
	r := NewRef("value", func(string) error {
		released++
		return nil
	})
	assert.Equal(t, int64(1), r.Refs())

	c := r.Clone()
	assert.Equal(t, int64(2), r.Refs())
	assert.Equal(t, "value", c.Value())

	require.NoError(t, r.Release())
	assert.False(t, r.Valid())
	assert.Zero(t, r.Refs())
	assert.Empty(t, r.Value())
	assert.Equal(t, 0, released)
	assert.Equal(t, int64(1), c.Refs())

	// Releasing an empty handle twice is a no-op.
	require.NoError(t, r.Release())

	require.NoError(t, c.Release())
	assert.Equal(t, 1, released)
}

func TestRef_Move(t *testing.T) {
	released := 0
	r := NewRef(42, func(int) error {
		released++
		return nil
	})

	m := r.Move()
	assert.False(t, r.Valid())
	assert.True(t, m.Valid())
	assert.Equal(t, int64(1), m.Refs())
	assert.Equal(t, 42, m.Value())

	require.NoError(t, r.Release())
	assert.Equal(t, 0, released)

	require.NoError(t, m.Release())
	assert.Equal(t, 1, released)

	// Moving or cloning an empty handle yields an empty handle.
	assert.False(t, r.Move().Valid())
	assert.False(t, r.Clone().Valid())
}

func TestRef_ReleaseError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRef(1, func(int) error { return boom })
	c := r.Clone()

	require.NoError(t, r.Release())
	assert.ErrorIs(t, c.Release(), boom)
}

func TestRef_Concurrent(t *testing.T) {
	var mu sync.Mutex
	released := 0
	r := NewRef(struct{}{}, func(struct{}) error {
		mu.Lock()
		released++
		mu.Unlock()
		return nil
	})

	clones := make([]*Ref[struct{}], 64)
	for i := range clones {
		clones[i] = r.Clone()
	}

	var wg sync.WaitGroup
	for _, c := range clones {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), r.Refs())
	assert.Equal(t, 0, released)
	require.NoError(t, r.Release())
	assert.Equal(t, 1, released)
}

func TestRef_NilSafe(t *testing.T) {
	var r *Ref[int]
	assert.False(t, r.Valid())
	assert.Zero(t, r.Refs())
	assert.Zero(t, r.Value())
	assert.NoError(t, r.Release())
}
