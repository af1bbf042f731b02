package krylov

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/matfree/operator"
)

// Ritz returns the eigenvalues (ascending) and eigenvectors (columns of a k×k
// matrix) of the Lanczos tridiagonal T. These are the Ritz values of A on the
// Krylov space and, in the first row of the eigenvector matrix, the Gauss
// quadrature weights of stochastic Lanczos quadrature.
//
// Complexity: O(k³) on the small projection.
func Ritz(d *Decomposition) ([]float64, *mat.Dense, error) {
	if d == nil || d.Tridiagonal == nil || d.Tridiagonal.Order() == 0 {
		return nil, nil, fmt.Errorf("Ritz: %w", ErrNoProjection)
	}

	var es mat.EigenSym
	if ok := es.Factorize(d.Tridiagonal.Sym(), true); !ok {
		return nil, nil, fmt.Errorf("Ritz: order %d: %w", d.Tridiagonal.Order(), ErrEigenFailed)
	}
	values := es.Values(nil)
	var vectors mat.Dense
	es.VectorsTo(&vectors)

	return values, &vectors, nil
}

// EigenPair is a Ritz pair lifted to the operator's space.
type EigenPair struct {
	Values []float64
	// Vectors is n×k; column i approximates the eigenvector of Values[i].
	Vectors *mat.Dense
	// Residuals[i] = |β_k·s_{k,i}|, the standard Lanczos bound ‖A·y − θ·y‖.
	Residuals []float64
	// Decomposition is the Lanczos run the pairs were extracted from.
	Decomposition *Decomposition
}

// EigenPartial approximates extremal eigenpairs of a symmetric operator from a
// Lanczos run of the given depth along v0.
func EigenPartial(op *operator.LinearOperator, v0 []float64, depth int, opts ...Option) (*EigenPair, error) {
	d, err := Lanczos(op, v0, depth, opts...)
	if err != nil {
		return nil, fmt.Errorf("EigenPartial: %w", err)
	}
	values, s, err := Ritz(d)
	if err != nil {
		return nil, fmt.Errorf("EigenPartial: %w", err)
	}

	var (
		k    = d.Achieved
		n    = len(d.Basis[0])
		q    = mat.NewDense(k, n, nil)
		y    mat.Dense
		res  = make([]float64, k)
		i    int
		last float64
	)
	for i = 0; i < k; i++ {
		q.SetRow(i, d.Basis[i])
	}
	// Y = Qᵀ·S
	y.Mul(q.T(), s)
	for i = 0; i < k; i++ {
		last = s.At(k-1, i)
		res[i] = math.Abs(d.ResidualNorm * last)
	}

	return &EigenPair{Values: values, Vectors: &y, Residuals: res, Decomposition: d}, nil
}
