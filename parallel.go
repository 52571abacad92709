package carray

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

func forEach(ctx context.Context, n, workers int, fn func(i int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// ForEachRow calls fn for every row of m with at most workers calls in
// flight (GOMAXPROCS when workers <= 0). Rows are disjoint, so fn may write
// to its row. The first error cancels the remaining rows and is returned.
func ForEachRow[T Element](ctx context.Context, m *Matrix[T], workers int, fn func(i int, row []T) error) error {
	return forEach(ctx, m.Rows(), workers, func(i int) error {
		return fn(i, m.Row(i))
	})
}

// ForEachPlane calls fn for every plane of t with at most workers calls in
// flight. It behaves like ForEachRow.
func ForEachPlane[T Element](ctx context.Context, t *Tensor[T], workers int, fn func(i int, p Plane[T]) error) error {
	return forEach(ctx, t.Planes(), workers, func(i int) error {
		return fn(i, t.Plane(i))
	})
}
