// Package conv provides safe integer conversion and arithmetic utilities.
//
// These functions perform bounds checking to prevent integer overflow when
// converting between integer types or multiplying element counts.
//
// Use cases:
//   - Computing the element count of a shape (product of extents)
//   - Converting element counts into byte sizes for the allocator
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
