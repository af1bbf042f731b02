// SPDX-License-Identifier: MIT

package estimate

import (
	"context"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/matfree/operator"
	"github.com/katalvlaran/matfree/probe"
)

const opDiagonal = "Diagonal"

// Diagonal estimates diag(A) as Σᵢ vᵢ⊙A·vᵢ / Σᵢ vᵢ⊙vᵢ (elementwise).
// With Rademacher probes the denominator is the probe count, so A = I is
// recovered exactly; with Gaussian probes this is the normalized estimator.
//
// Vector holds the estimate and VectorVariance the per-entry sample variance
// of the products vᵢ⊙A·vᵢ. The scalar fields describe the Hutchinson trace of
// the same products (Samples[i] = vᵢᵀA·vᵢ), available at no extra cost.
//
// Errors: ErrEmptyBatch, ErrNotSquare, *operator.ShapeError.
// Complexity: batch.Len() matvecs (one ApplyBatch per worker chunk) + O(m·n).
func Diagonal(op *operator.LinearOperator, b *probe.Batch, opts ...Option) (*Result, error) {
	// Stage 1 (Validate)
	if err := checkBatch(op, b); err != nil {
		return nil, estimateErrorf(opDiagonal, err)
	}
	s := gatherSettings(opts)

	// Stage 2 (Products): one row of v⊙Av per probe, stored by index.
	var (
		m     = b.Len()
		n     = b.Dim
		prods = make([][]float64, m)
	)
	err := forEachChunk(s.workers, m, func(_ context.Context, lo, hi int) error {
		ys, err := applySquareBatch(op, b.Vectors[lo:hi])
		if err != nil {
			return err
		}
		for i, y := range ys {
			floats.Mul(y, b.Vectors[lo+i])
			prods[lo+i] = y
		}
		return nil
	})
	if err != nil {
		return nil, estimateErrorf(opDiagonal, err)
	}

	// Stage 3 (Reduce in probe order)
	var (
		num     = make([]float64, n)
		den     = make([]float64, n)
		stats   = make([]Stats, n)
		samples = make([]float64, m)
		i, j    int
		v       []float64
	)
	for i = 0; i < m; i++ {
		v = b.Vectors[i]
		floats.Add(num, prods[i])
		for j = 0; j < n; j++ {
			den[j] += v[j] * v[j]
			stats[j].Push(prods[i][j])
		}
		samples[i] = floats.Sum(prods[i])
	}

	res := &Result{
		Vector:         make([]float64, n),
		VectorVariance: make([]float64, n),
		Samples:        samples,
		Termination:    FixedBatch,
	}
	for j = 0; j < n; j++ {
		if den[j] != 0 {
			res.Vector[j] = num[j] / den[j]
		}
		res.VectorVariance[j] = stats[j].Variance()
	}
	res.summarize()
	s.logger.WithEstimator("diagonal").WithDim(n).
		LogEstimate(context.Background(), m, res.Value, res.StdErr, true, res.Termination.String())

	return res, nil
}
