package estimate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/matfree/operator"
	"github.com/katalvlaran/matfree/probe"
)

// forEachProbe runs fn for every probe index with at most workers goroutines.
// The first error cancels the probes that have not started yet.
func forEachProbe(workers, n int, fn func(ctx context.Context, i int) error) error {
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := fn(ctx, i); err != nil {
				return fmt.Errorf("probe %d: %w", i, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// checkBatch validates b and, for a shaped operator, its dimension.
func checkBatch(op *operator.LinearOperator, b *probe.Batch) error {
	if b == nil || b.Len() == 0 {
		return ErrEmptyBatch
	}
	rows, cols := op.Dims()
	if cols != 0 && rows != cols {
		return ErrNotSquare
	}
	if cols != 0 && cols != b.Dim {
		return &operator.ShapeError{Op: "probe", Expected: cols, Actual: b.Dim}
	}

	return nil
}

// forEachChunk splits [0, n) into at most workers contiguous chunks and runs
// fn on each chunk concurrently.
func forEachChunk(workers, n int, fn func(ctx context.Context, lo, hi int) error) error {
	if n == 0 {
		return nil
	}
	size := (n + workers - 1) / workers
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += size {
		lo, hi := lo, min(lo+size, n)
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := fn(ctx, lo, hi); err != nil {
				return fmt.Errorf("probes [%d,%d): %w", lo, hi, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// applySquareBatch returns A·xs[i] for every i through the operator's batch
// path and rejects rectangular outputs of inferred operators.
func applySquareBatch(op *operator.LinearOperator, xs [][]float64) ([][]float64, error) {
	ys, err := op.ApplyBatch(xs)
	if err != nil {
		return nil, err
	}
	for i := range ys {
		if len(ys[i]) != len(xs[i]) {
			return nil, ErrNotSquare
		}
	}

	return ys, nil
}
