package conv

import (
	"fmt"
	"math"
	"math/bits"
)

// IntToInt64 converts int to int64. It never fails on supported platforms
// but keeps call sites uniform.
func IntToInt64(v int) int64 {
	return int64(v)
}

// MulInt multiplies two non-negative ints and reports overflow.
func MulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("integer overflow: %d * %d (negative operand)", a, b)
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d * %d exceeds int", a, b)
	}
	return int(lo), nil
}

// AddInt adds two non-negative ints and reports overflow.
func AddInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("integer overflow: %d + %d (negative operand)", a, b)
	}
	if a > math.MaxInt-b {
		return 0, fmt.Errorf("integer overflow: %d + %d exceeds int", a, b)
	}
	return a + b, nil
}

// Product returns the product of the given non-negative ints.
// The product of an empty list is 1. A zero factor short-circuits to 0.
func Product(vs ...int) (int, error) {
	p := 1
	for _, v := range vs {
		if v < 0 {
			return 0, fmt.Errorf("integer overflow: negative factor %d", v)
		}
		if v == 0 {
			return 0, nil
		}
	}
	for _, v := range vs {
		var err error
		if p, err = MulInt(p, v); err != nil {
			return 0, err
		}
	}
	return p, nil
}
