package krylov_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/matfree/operator"
)

// randomOrthogonal returns an n×n orthogonal matrix from the QR factor of a
// seeded Gaussian matrix.
func randomOrthogonal(n int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	g := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			g.Set(i, j, rng.NormFloat64())
		}
	}
	var qr mat.QR
	qr.Factorize(g)
	var q mat.Dense
	qr.QTo(&q)
	return &q
}

// symmetricFromEigenvalues builds Q·diag(eigs)·Qᵀ, symmetrized exactly.
// Test oracle only.
func symmetricFromEigenvalues(t *testing.T, eigs []float64, seed int64) *operator.Dense {
	t.Helper()
	n := len(eigs)
	q := randomOrthogonal(n, seed)
	var a mat.Dense
	a.Mul(q, mat.NewDiagDense(n, eigs))
	a.Mul(&a, q.T())

	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			data[i*n+j] = 0.5 * (a.At(i, j) + a.At(j, i))
		}
	}
	d, err := operator.NewDense(n, n, data)
	require.NoError(t, err)
	return d
}

// randomDense returns a seeded Gaussian rows×cols matrix.
func randomDense(t *testing.T, rows, cols int, seed int64) *operator.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	d, err := operator.NewDense(rows, cols, data)
	require.NoError(t, err)
	return d
}

// randomVector returns a seeded Gaussian vector.
func randomVector(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	return v
}

// projected returns QAQᵀ for the basis rows of Q.
func projected(t *testing.T, op *operator.LinearOperator, basis [][]float64) *mat.Dense {
	t.Helper()
	k := len(basis)
	p := mat.NewDense(k, k, nil)
	for j := 0; j < k; j++ {
		aq, err := op.Apply(basis[j])
		require.NoError(t, err)
		for i := 0; i < k; i++ {
			p.Set(i, j, floats.Dot(basis[i], aq))
		}
	}
	return p
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	floats.Span(out, lo, hi)
	return out
}
