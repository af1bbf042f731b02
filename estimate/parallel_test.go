package estimate_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/matfree/estimate"
	"github.com/katalvlaran/matfree/operator"
	"github.com/katalvlaran/matfree/probe"
)

// batchedDiagonal is a symmetric diagonal operator whose single-vector and
// batch callbacks count their invocations separately.
func batchedDiagonal(t *testing.T, d []float64) (op *operator.LinearOperator, single, batches *atomic.Int64) {
	t.Helper()
	single, batches = new(atomic.Int64), new(atomic.Int64)
	mul := func(x []float64) []float64 {
		y := make([]float64, len(x))
		floats.MulTo(y, d, x)
		return y
	}
	op, err := operator.New(
		func(x []float64) []float64 {
			single.Add(1)
			return mul(x)
		},
		operator.WithDim(len(d)),
		operator.WithSymmetric(),
		operator.WithBatch(func(xs [][]float64) [][]float64 {
			batches.Add(1)
			ys := make([][]float64, len(xs))
			for i, x := range xs {
				ys[i] = mul(x)
			}
			return ys
		}),
	)
	require.NoError(t, err)
	return op, single, batches
}

func TestTrace_AppliesProbesThroughBatchCallback(t *testing.T) {
	d := []float64{1, 2, 3, 4, 5, 6}
	op, single, batches := batchedDiagonal(t, d)
	b := sample(t, probe.Rademacher, 16, len(d), 3)

	res, err := estimate.Trace(op, b, estimate.WithWorkers(4))
	require.NoError(t, err)
	assert.InDelta(t, floats.Sum(d), res.Value, 1e-12)
	assert.Equal(t, int64(4), batches.Load())
	assert.Zero(t, single.Load())
}

func TestDiagonal_AppliesProbesThroughBatchCallback(t *testing.T) {
	d := []float64{1, 2, 3, 4, 5, 6}
	op, single, batches := batchedDiagonal(t, d)
	b := sample(t, probe.Rademacher, 16, len(d), 4)

	res, err := estimate.Diagonal(op, b, estimate.WithWorkers(3))
	require.NoError(t, err)
	assert.InDeltaSlice(t, d, res.Vector, 1e-12)
	// 16 probes in chunks of 6: three batch calls.
	assert.Equal(t, int64(3), batches.Load())
	assert.Zero(t, single.Load())
}

func TestHutchPlusPlus_AppliesEveryStageThroughBatchCallback(t *testing.T) {
	d := []float64{1, 2, 3, 4, 5, 6}
	op, single, batches := batchedDiagonal(t, d)
	b := sample(t, probe.Rademacher, 9, len(d), 5)

	res, err := estimate.Trace(op, b, estimate.WithWorkers(1), estimate.WithStrategy(estimate.HutchPlusPlus{}))
	require.NoError(t, err)
	assert.Equal(t, 9, res.NumProbes)
	// Sketch, exact part and deflated remainder: one chunk each.
	assert.Equal(t, int64(3), batches.Load())
	assert.Zero(t, single.Load())
}

func TestTrace_BatchedResultsMatchAcrossChunkings(t *testing.T) {
	d := []float64{0.5, -1, 2, 7, 3}
	b := sample(t, probe.Gaussian, 23, len(d), 6)

	var want *estimate.Result
	for _, workers := range []int{1, 2, 5, 23} {
		op, _, _ := batchedDiagonal(t, d)
		got, err := estimate.Trace(op, b, estimate.WithWorkers(workers))
		require.NoError(t, err)
		if want == nil {
			want = got
			continue
		}
		assert.Equal(t, want.Samples, got.Samples, "workers=%d", workers)
		assert.Equal(t, want.Value, got.Value, "workers=%d", workers)
	}
}
