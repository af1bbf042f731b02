// SPDX-License-Identifier: MIT

package krylov

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/matfree/operator"
)

const opLanczos = "Lanczos"

// Lanczos tridiagonalizes a symmetric operator along v0 up to depth steps.
//
// Implementation:
//   - Stage 1: validate symmetry, shape, depth and normalize v0.
//   - Stage 2: for j = 0..depth-1: w = A·qⱼ; αⱼ = qⱼ·w;
//     w -= αⱼ·qⱼ + βⱼ₋₁·qⱼ₋₁; reorthogonalize per policy; βⱼ = ‖w‖.
//   - Stage 3: stop at depth, or earlier when βⱼ falls below tol·‖T‖ estimate
//     (breakdown: the Krylov space is invariant).
//
// Returns a Decomposition whose Achieved may be < depth; check Breakdown or
// Err(). Errors are returned only for misuse (ErrNotSymmetric, ErrNotSquare,
// ErrDepth, ErrZeroVector, operator.ErrShape) or operator failures.
//
// Complexity: depth matvecs + O(depth·n) (None) or O(depth²·n) (Full) flops.
func Lanczos(op *operator.LinearOperator, v0 []float64, depth int, opts ...Option) (*Decomposition, error) {
	// Stage 1 (Validate)
	if !op.Symmetric() {
		return nil, fmt.Errorf("%s: %w", opLanczos, ErrNotSymmetric)
	}
	if err := squareDim(op, v0, depth); err != nil {
		return nil, fmt.Errorf("%s: %w", opLanczos, err)
	}
	q, norm, err := normalized(v0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opLanczos, err)
	}
	s := gatherSettings(opts)

	// Stage 2 (Prepare)
	var (
		basis    = make([][]float64, 0, depth)
		diag     = make([]float64, 0, depth)
		offdiag  = make([]float64, 0, depth)
		w        []float64
		alpha    float64
		beta     float64
		betaPrev float64
		scale    float64
		j        int
	)
	d := &Decomposition{InitialNorm: norm, Requested: depth}

	// Stage 3 (Execute)
	for j = 0; j < depth; j++ {
		basis = append(basis, q)
		if w, err = op.Apply(q); err != nil {
			return nil, fmt.Errorf("%s: step %d: %w", opLanczos, j, err)
		}
		if len(w) != len(q) {
			return nil, fmt.Errorf("%s: %w", opLanczos, ErrNotSquare)
		}

		alpha = floats.Dot(q, w)
		floats.AddScaled(w, -alpha, q)
		if j > 0 {
			floats.AddScaled(w, -betaPrev, basis[j-1])
		}
		switch s.reortho {
		case Full:
			orthogonalize(w, basis)
			orthogonalize(w, basis)
		case Selective:
			if maxOverlap(w, basis) > selectiveThreshold {
				orthogonalize(w, basis)
				orthogonalize(w, basis)
			}
		}

		beta = floats.Norm(w, 2)
		diag = append(diag, alpha)
		scale = math.Max(scale, math.Abs(alpha)+beta+betaPrev)

		if j == depth-1 {
			break
		}
		if beta <= s.tol*scale {
			d.Breakdown = true
			break
		}

		offdiag = append(offdiag, beta)
		q = make([]float64, len(w))
		floats.ScaleTo(q, 1/beta, w)
		betaPrev = beta
	}

	// Stage 4 (Finalize)
	d.Basis = basis
	d.Achieved = len(basis)
	d.Tridiagonal = &Tridiagonal{Diag: diag, Offdiag: offdiag}
	d.Residual = w
	d.ResidualNorm = beta

	return d, nil
}
