package krylov

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/matfree/operator"
)

const opArnoldi = "Arnoldi"

// Arnoldi reduces a general square operator to upper-Hessenberg form along v0.
// Every new vector is orthogonalized against all previous ones with modified
// Gram–Schmidt; Full adds a second pass, Selective adds it only when the first
// pass leaves an overlap above √ε. None keeps the single pass.
//
// H has size Achieved×Achieved; the coupling h_{k+1,k} is ResidualNorm.
//
// Complexity: depth matvecs + O(depth²·n) flops.
func Arnoldi(op *operator.LinearOperator, v0 []float64, depth int, opts ...Option) (*Decomposition, error) {
	if err := squareDim(op, v0, depth); err != nil {
		return nil, fmt.Errorf("%s: %w", opArnoldi, err)
	}
	q, norm, err := normalized(v0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opArnoldi, err)
	}
	s := gatherSettings(opts)

	var (
		basis  = make([][]float64, 0, depth)
		h      = mat.NewDense(depth, depth, nil)
		w      []float64
		coeffs []float64
		extra  []float64
		beta   float64
		colSum float64
		scale  float64
		i, j   int
	)
	d := &Decomposition{InitialNorm: norm, Requested: depth}

	for j = 0; j < depth; j++ {
		basis = append(basis, q)
		if w, err = op.Apply(q); err != nil {
			return nil, fmt.Errorf("%s: step %d: %w", opArnoldi, j, err)
		}
		if len(w) != len(q) {
			return nil, fmt.Errorf("%s: %w", opArnoldi, ErrNotSquare)
		}

		coeffs = orthogonalize(w, basis)
		if s.reortho == Full || (s.reortho == Selective && maxOverlap(w, basis) > selectiveThreshold) {
			extra = orthogonalize(w, basis)
			floats.Add(coeffs, extra)
		}
		colSum = 0
		for i = range coeffs {
			h.Set(i, j, coeffs[i])
			colSum += coeffs[i] * coeffs[i]
		}

		beta = floats.Norm(w, 2)
		scale = math.Max(scale, math.Sqrt(colSum+beta*beta))
		if j == depth-1 {
			break
		}
		if beta <= s.tol*scale {
			d.Breakdown = true
			break
		}

		h.Set(j+1, j, beta)
		q = make([]float64, len(w))
		floats.ScaleTo(q, 1/beta, w)
	}

	k := len(basis)
	d.Basis = basis
	d.Achieved = k
	d.Hessenberg = mat.DenseCopyOf(h.Slice(0, k, 0, k))
	d.Residual = w
	d.ResidualNorm = beta

	return d, nil
}
