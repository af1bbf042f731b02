package matfree_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/matfree"
	"github.com/katalvlaran/matfree/estimate"
	"github.com/katalvlaran/matfree/funm"
	"github.com/katalvlaran/matfree/krylov"
	"github.com/katalvlaran/matfree/operator"
)

func diag(t *testing.T, d []float64) *operator.LinearOperator {
	t.Helper()
	op, err := operator.Diagonal(d)
	require.NoError(t, err)
	return op
}

func TestTrace_FixedAndAdaptive(t *testing.T) {
	d := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	op := diag(t, d)

	fixed, err := matfree.Trace(op, matfree.WithMaxProbes(10))
	require.NoError(t, err)
	assert.InDelta(t, 36, fixed.Value, 1e-12)
	assert.Equal(t, 10, fixed.NumProbes)
	assert.Equal(t, estimate.FixedBatch, fixed.Termination)

	adaptive, err := matfree.Trace(op, matfree.WithTolerance(1e-6), matfree.WithMaxProbes(100))
	require.NoError(t, err)
	assert.True(t, adaptive.Converged)
	assert.InDelta(t, 36, adaptive.Value, 1e-12)

	// A sketch of n probes spans the whole space: Hutch++ is exact.
	pp, err := matfree.Trace(op, matfree.WithHutchPlusPlus(), matfree.WithTolerance(1e-6), matfree.WithMaxProbes(24))
	require.NoError(t, err)
	assert.InDelta(t, 36, pp.Value, 1e-9)
	assert.Equal(t, estimate.FixedBatch, pp.Termination)
}

func TestDiagonal_Identity(t *testing.T) {
	id, err := operator.Identity(6)
	require.NoError(t, err)
	res, err := matfree.Diagonal(id, matfree.WithMaxProbes(3))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1}, res.Vector)
}

func TestLogDet_DeclaredByConfig(t *testing.T) {
	m, err := operator.NewDense(3, 3, []float64{
		2, 0, 0,
		0, 3, 0,
		0, 0, 5,
	})
	require.NoError(t, err)
	op, err := m.Operator(false)
	require.NoError(t, err)

	_, err = matfree.LogDet(op)
	require.ErrorIs(t, err, krylov.ErrNotSymmetric)

	res, err := matfree.LogDet(op, matfree.WithSymmetric(), matfree.WithMaxProbes(4))
	require.NoError(t, err)
	assert.InDelta(t, math.Log(30), res.Value, 1e-9)
}

func TestFunctionTrace_Adaptive(t *testing.T) {
	d := []float64{1, 4, 9, 16}
	res, err := matfree.FunctionTrace(diag(t, d), funm.Sqrt, matfree.WithTolerance(1e-8), matfree.WithMaxProbes(32))
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 10, res.Value, 1e-9)
}

func TestFunctionAction(t *testing.T) {
	d := []float64{0.5, 1, 2}
	x := []float64{1, 1, 1}
	y, err := matfree.FunctionAction(diag(t, d), funm.Exp, x)
	require.NoError(t, err)
	for i := range d {
		assert.InDelta(t, math.Exp(d[i]), y[i], 1e-10)
	}
}

func TestEigenvalues_Extremal(t *testing.T) {
	d := make([]float64, 50)
	for i := range d {
		d[i] = float64(i + 1)
	}
	d[48], d[49] = 100, 200

	pair, err := matfree.Eigenvalues(diag(t, d), matfree.WithMaxDepth(30))
	require.NoError(t, err)
	require.Len(t, pair.Values, 30)
	assert.InDelta(t, 200, pair.Values[29], 1e-8)
	assert.InDelta(t, 100, pair.Values[28], 1e-6)
	assert.InDelta(t, 1, pair.Values[0], 1e-2)
}

func TestSingularValues_FullDepth(t *testing.T) {
	data := []float64{
		1, 2, 0, 1,
		0, 1, 3, 0,
		2, 0, 1, 1,
		1, 1, 1, 4,
		0, 2, 0, 1,
		3, 0, 1, 0,
	}
	m, err := operator.NewDense(6, 4, data)
	require.NoError(t, err)
	op, err := m.Operator(false)
	require.NoError(t, err)

	got, err := matfree.SingularValues(op)
	require.NoError(t, err)

	var svd mat.SVD
	require.True(t, svd.Factorize(mat.NewDense(6, 4, data), mat.SVDNone))
	assert.InDeltaSlice(t, svd.Values(nil), got.Values, 1e-10)
}

func TestEntryPoints_UnknownDimension(t *testing.T) {
	lazy, err := operator.New(func(x []float64) []float64 { return x })
	require.NoError(t, err)

	_, err = matfree.Trace(lazy)
	require.ErrorIs(t, err, matfree.ErrUnknownDim)
	_, err = matfree.Eigenvalues(lazy)
	require.ErrorIs(t, err, matfree.ErrUnknownDim)
	_, err = matfree.SingularValues(lazy)
	require.ErrorIs(t, err, matfree.ErrUnknownDim)
}

func TestEntryPoints_Deterministic(t *testing.T) {
	d := make([]float64, 40)
	for i := range d {
		d[i] = 1 + float64(i%7)
	}
	op := diag(t, d)

	// Seven distinct eigenvalues: every probe breaks down at depth 7, where
	// the quadrature is exact.
	a, err := matfree.LogDet(op, matfree.WithSeed(3), matfree.WithWorkers(1), matfree.WithMaxDepth(10))
	require.ErrorIs(t, err, krylov.ErrBreakdown)
	require.NotNil(t, a)
	b, err := matfree.LogDet(op, matfree.WithSeed(3), matfree.WithWorkers(8), matfree.WithMaxDepth(10))
	require.ErrorIs(t, err, krylov.ErrBreakdown)
	require.NotNil(t, b)
	assert.Equal(t, a.Samples, b.Samples)
	assert.Equal(t, a.Value, b.Value)

	var want float64
	for _, x := range d {
		want += math.Log(x)
	}
	assert.Equal(t, 7, a.Probes[0].Achieved)
	assert.InDelta(t, want, a.Value, 1e-9)
	assert.InDelta(t, want, floats.Sum(a.Samples)/float64(len(a.Samples)), 1e-9)
}
