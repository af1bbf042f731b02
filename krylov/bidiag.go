package krylov

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/matfree/operator"
)

const opBidiagonalize = "Bidiagonalize"

// Bidiagonalization is the result of Golub–Kahan–Lanczos:
// A·Vᵀ = Uᵀ·B and Aᵀ·Uᵀ = Vᵀ·Bᵀ + r·e_kᵀ, with B upper bidiagonal.
//
// When the recurrence stops because A·vₖ₊₁ already lies in span(U), the
// last right vector and its coupling βₖ are kept: B is then k×(k+1), V holds
// k+1 vectors and the residual is zero.
type Bidiagonalization struct {
	U [][]float64 // Achieved left vectors, length rows
	V [][]float64 // Achieved (or Achieved+1) right vectors, length cols

	Alpha []float64 // diagonal of B, length Achieved
	Beta  []float64 // superdiagonal of B, length len(V)-1

	Residual     []float64 // unnormalized next right vector
	ResidualNorm float64
	InitialNorm  float64

	Requested int
	Achieved  int
	Breakdown bool
}

// Err returns a *BreakdownError when the recurrence stopped early.
func (b *Bidiagonalization) Err() error {
	if !b.Breakdown {
		return nil
	}

	return &BreakdownError{Requested: b.Requested, Achieved: b.Achieved}
}

// Dense materializes B (k×k, or k×(k+1) after a left breakdown).
func (b *Bidiagonalization) Dense() *mat.Dense {
	k, c := len(b.Alpha), len(b.Beta)+1
	m := mat.NewDense(k, c, nil)
	for i := 0; i < k; i++ {
		m.Set(i, i, b.Alpha[i])
		if i+1 < c {
			m.Set(i, i+1, b.Beta[i])
		}
	}

	return m
}

// Bidiagonalize runs Golub–Kahan–Lanczos with full reorthogonalization of both
// bases, starting from the right vector v0 (length cols).
//
// Implementation (per step i):
//   - u = A·vᵢ − βᵢ₋₁·uᵢ₋₁; reorthogonalize against U; αᵢ = ‖u‖; uᵢ = u/αᵢ.
//   - v = Aᵀ·uᵢ − αᵢ·vᵢ; reorthogonalize against V; βᵢ = ‖v‖; vᵢ₊₁ = v/βᵢ.
//
// Breakdown occurs when αᵢ or βᵢ falls below tol·‖B‖ estimate.
// Requires a transpose (operator.WithTranspose or a symmetric operator).
// depth is bounded by min(rows, cols).
//
// Complexity: 2·depth matvecs + O(depth²·(rows+cols)) flops.
func Bidiagonalize(op *operator.LinearOperator, v0 []float64, depth int, opts ...Option) (*Bidiagonalization, error) {
	if !op.HasTranspose() {
		return nil, fmt.Errorf("%s: %w", opBidiagonalize, operator.ErrNoTranspose)
	}
	rows, cols := op.Dims()
	if cols == 0 {
		return nil, fmt.Errorf("%s: shape must be declared: %w", opBidiagonalize, operator.ErrShape)
	}
	if len(v0) != cols {
		return nil, fmt.Errorf("%s: %w", opBidiagonalize, &operator.ShapeError{Op: "start vector", Expected: cols, Actual: len(v0)})
	}
	if depth < 1 || depth > min(rows, cols) {
		return nil, fmt.Errorf("%s: depth=%d, shape %dx%d: %w", opBidiagonalize, depth, rows, cols, ErrDepth)
	}
	v, norm, err := normalized(v0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBidiagonalize, err)
	}
	s := gatherSettings(opts)

	var (
		us, vs     = make([][]float64, 0, depth), make([][]float64, 0, depth)
		alphas     = make([]float64, 0, depth)
		betas      = make([]float64, 0, depth)
		u, r       []float64
		alpha      float64
		beta       float64
		scale      float64
		i          int
		brokenDown bool
	)

	for i = 0; i < depth; i++ {
		vs = append(vs, v)

		if u, err = op.Apply(v); err != nil {
			return nil, fmt.Errorf("%s: step %d: %w", opBidiagonalize, i, err)
		}
		if i > 0 {
			floats.AddScaled(u, -beta, us[i-1])
		}
		orthogonalize(u, us)
		orthogonalize(u, us)
		alpha = floats.Norm(u, 2)
		scale = math.Max(scale, alpha+beta)
		if alpha <= s.tol*scale {
			// A·vᵢ lies in span(U): vᵢ and βᵢ₋₁ stay as the last column of B.
			r, beta = nil, 0
			brokenDown = true
			break
		}
		floats.Scale(1/alpha, u)
		us = append(us, u)
		alphas = append(alphas, alpha)

		if r, err = op.ApplyTranspose(u); err != nil {
			return nil, fmt.Errorf("%s: step %d: %w", opBidiagonalize, i, err)
		}
		floats.AddScaled(r, -alpha, v)
		orthogonalize(r, vs)
		orthogonalize(r, vs)
		beta = floats.Norm(r, 2)
		scale = math.Max(scale, alpha+beta)

		if i == depth-1 {
			break
		}
		if beta <= s.tol*scale {
			brokenDown = true
			break
		}
		betas = append(betas, beta)
		v = make([]float64, len(r))
		floats.ScaleTo(v, 1/beta, r)
	}

	k := len(alphas)
	if k == 0 {
		// A·v₀ = 0: nothing spans the range.
		return nil, fmt.Errorf("%s: %w", opBidiagonalize, ErrZeroVector)
	}

	return &Bidiagonalization{
		U:            us,
		V:            vs,
		Alpha:        alphas,
		Beta:         betas,
		Residual:     r,
		ResidualNorm: beta,
		InitialNorm:  norm,
		Requested:    depth,
		Achieved:     k,
		Breakdown:    brokenDown,
	}, nil
}
