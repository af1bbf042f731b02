package estimate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/matfree/estimate"
	"github.com/katalvlaran/matfree/funm"
	"github.com/katalvlaran/matfree/operator"
	"github.com/katalvlaran/matfree/probe"
)

func TestAdaptive_ConstantSamplesStopAfterFirstRound(t *testing.T) {
	id, err := operator.Identity(9)
	require.NoError(t, err)

	res, err := estimate.Adaptive(id, estimate.HutchinsonSampler(), 1e-6, 1000)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, estimate.ToleranceMet, res.Termination)
	assert.Equal(t, estimate.DefaultInitialRound, res.NumProbes)
	assert.Len(t, res.Rounds, 1)
	assert.Equal(t, 9.0, res.Value)
}

func TestAdaptive_BudgetExhausted(t *testing.T) {
	op := denseOperator(t, randomSymmetric(t, 16, 0, 3), true)

	res, err := estimate.Adaptive(op, estimate.HutchinsonSampler(), 1e-9, 40)
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, estimate.ProbeBudgetExhausted, res.Termination)
	assert.Equal(t, 40, res.NumProbes)

	totals := make([]int, len(res.Rounds))
	for i, r := range res.Rounds {
		totals[i] = r.Probes
		assert.Equal(t, i+1, r.Round)
	}
	assert.Equal(t, []int{8, 16, 32, 40}, totals)

	mean, variance := stat.MeanVariance(res.Samples, nil)
	assert.InDelta(t, mean, res.Value, 1e-12)
	assert.InDelta(t, variance, res.Variance, 1e-9)
	assert.InDelta(t, math.Sqrt(variance/40), res.StdErr, 1e-9)
}

func TestAdaptive_ExtendsTheSampledStream(t *testing.T) {
	op := denseOperator(t, randomSymmetric(t, 12, 1, 6), true)

	res, err := estimate.Adaptive(op, estimate.HutchinsonSampler(), 1e-9, 24,
		estimate.WithSeed(5), estimate.WithDistribution(probe.Gaussian))
	require.NoError(t, err)

	fixed, err := estimate.Trace(op, sample(t, probe.Gaussian, 24, 12, 5))
	require.NoError(t, err)
	assert.Equal(t, fixed.Samples, res.Samples)
	assert.InDelta(t, fixed.Value, res.Value, 1e-12)
}

func TestAdaptive_ConvergesToTolerance(t *testing.T) {
	op := denseOperator(t, randomSymmetric(t, 20, 3, 8), true)

	res, err := estimate.Adaptive(op, estimate.HutchinsonSampler(), 0.5, 1<<14, estimate.WithInitialRound(4))
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.LessOrEqual(t, res.StdErr, 0.5)
	assert.Equal(t, 4, res.Rounds[0].Probes)
	last := res.Rounds[len(res.Rounds)-1]
	assert.Equal(t, res.NumProbes, last.Probes)
}

func TestAdaptive_SLQSampler(t *testing.T) {
	d := []float64{1, 2, 4, 8}
	res, err := estimate.Adaptive(diagonal(t, d), estimate.SLQSampler(4, funm.Log), 1e-8, 64)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 6*math.Ln2, res.Value, 1e-9)
	assert.Len(t, res.Probes, res.NumProbes)
}

func TestAdaptive_Validation(t *testing.T) {
	op := diagonal(t, []float64{1, 2})

	_, err := estimate.Adaptive(op, nil, 1, 10)
	require.ErrorIs(t, err, estimate.ErrNotScalar)
	_, err = estimate.Adaptive(op, estimate.HutchinsonSampler(), 0, 10)
	require.ErrorIs(t, err, estimate.ErrTolerance)
	_, err = estimate.Adaptive(op, estimate.HutchinsonSampler(), math.NaN(), 10)
	require.ErrorIs(t, err, estimate.ErrTolerance)
	_, err = estimate.Adaptive(op, estimate.HutchinsonSampler(), 1, 1)
	require.ErrorIs(t, err, estimate.ErrBudget)

	lazy, err := operator.New(func(x []float64) []float64 { return x })
	require.NoError(t, err)
	_, err = estimate.Adaptive(lazy, estimate.HutchinsonSampler(), 1, 10)
	require.ErrorIs(t, err, estimate.ErrUnknownDim)

	noSamples := func(op *operator.LinearOperator, b *probe.Batch, _ ...estimate.Option) (*estimate.Result, error) {
		return &estimate.Result{Vector: make([]float64, b.Dim)}, nil
	}
	_, err = estimate.Adaptive(op, noSamples, 1, 10)
	require.ErrorIs(t, err, estimate.ErrNotScalar)
}

func TestStats_MatchesBatchStatistics(t *testing.T) {
	xs := []float64{3, -1, 4, 1, -5, 9, 2, 6}
	var s estimate.Stats
	assert.True(t, math.IsInf(s.Variance(), 1))
	for _, x := range xs {
		s.Push(x)
	}
	mean, variance := stat.MeanVariance(xs, nil)
	assert.Equal(t, len(xs), s.N())
	assert.InDelta(t, mean, s.Mean(), 1e-12)
	assert.InDelta(t, variance, s.Variance(), 1e-12)
	assert.InDelta(t, math.Sqrt(variance/8), s.StdErr(), 1e-12)
}

func TestTermination_String(t *testing.T) {
	assert.Equal(t, "fixed-batch", estimate.FixedBatch.String())
	assert.Equal(t, "tolerance-met", estimate.ToleranceMet.String())
	assert.Equal(t, "probe-budget-exhausted", estimate.ProbeBudgetExhausted.String())
	assert.Equal(t, "Termination(9)", estimate.Termination(9).String())
}
