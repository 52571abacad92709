// Package carray provides aligned, contiguous multi-dimensional arrays of
// rank 1 to 3 with C-style pointer indexing.
//
// Every array stores its elements in one aligned, row-major buffer. Matrices
// and tensors additionally carry an index hierarchy of pointer tables so that
// an element is reached by pointer hops instead of stride arithmetic:
//
//	rank 2:  rows[i]   -> &data[i*cols]
//	rank 3:  planes[i] -> &rows[i*rows']
//	         rows[i*rows'+j] -> &data[(i*rows'+j)*cols]
//
// The buffer and all pointer tables come from the same mem.Allocator at the
// same alignment and are released together by one release action.
//
// # Quick Start
//
//	m, err := carray.NewMatrix[float32](4, 3)
//	if err != nil {
//	    return err
//	}
//	defer m.Release()
//
//	m.Set(1, 2, 7)
//	fmt.Println(m.At(1, 2), m.Row(1), m.Data())
//
// # Indexing
//
// At, Ptr and Set are unchecked: an out-of-range index is undefined behaviour.
// Get and Put check every index against the shape and return ErrOutOfBounds.
//
//	v, err := m.Get(4, 0) // errors.Is(err, carray.ErrOutOfBounds)
//
// # Ownership
//
// Handles are reference counted:
//
//	s := m.Share()   // second handle, same memory
//	n := m.Move()    // m is now empty
//	_ = s.Release()
//	_ = n.Release()  // last release frees rows, planes, then the buffer
//
// Clone makes a deep copy in a fresh allocation.
//
// # Allocation
//
// The default allocator is a Go heap allocator with 64-byte alignment.
// Off-heap memory, budgets and accounting are available in package mem:
//
//	alloc := mem.NewCountingAllocator(mem.NewLimitedAllocator(mem.NewMmapAllocator(), 1<<30))
//	t, err := carray.NewTensor[float64](8, 256, 256,
//	    carray.WithAllocator(alloc),
//	    carray.WithAlignment(4096),
//	)
//
// Element types are restricted to pointer-free scalars (see Element) because
// array memory may not be scanned by the garbage collector.
//
// # Observability
//
// WithLogger and WithMetricsCollector attach a slog-based Logger and a
// MetricsCollector. Both default to no-ops.
package carray
