package estimate_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matfree/operator"
	"github.com/katalvlaran/matfree/probe"
)

// randomSymmetric returns an n×n symmetric matrix with entries in [-1, 1)
// plus shift on the diagonal.
func randomSymmetric(t testing.TB, n int, shift float64, seed int64) *operator.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := 2*rng.Float64() - 1
			if i == j {
				v += shift
			}
			data[i*n+j] = v
			data[j*n+i] = v
		}
	}
	m, err := operator.NewDense(n, n, data)
	require.NoError(t, err)
	return m
}

func denseOperator(t testing.TB, m *operator.Dense, symmetric bool) *operator.LinearOperator {
	t.Helper()
	op, err := m.Operator(symmetric)
	require.NoError(t, err)
	return op
}

func diagonal(t testing.TB, d []float64) *operator.LinearOperator {
	t.Helper()
	op, err := operator.Diagonal(d)
	require.NoError(t, err)
	return op
}

func sample(t testing.TB, kind probe.Kind, count, dim int, seed int64) *probe.Batch {
	t.Helper()
	b, err := probe.Sample(kind, count, dim, seed)
	require.NoError(t, err)
	return b
}
