// SPDX-License-Identifier: MIT

package krylov

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Tridiagonal is a symmetric tridiagonal matrix: Diag has length k and
// Offdiag length k-1.
type Tridiagonal struct {
	Diag    []float64
	Offdiag []float64
}

// Order returns k.
func (t *Tridiagonal) Order() int { return len(t.Diag) }

// Sym materializes T as a gonum symmetric matrix (k×k, small).
func (t *Tridiagonal) Sym() *mat.SymDense {
	k := len(t.Diag)
	s := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		s.SetSym(i, i, t.Diag[i])
		if i+1 < k {
			s.SetSym(i, i+1, t.Offdiag[i])
		}
	}

	return s
}

// Decomposition is the result of Lanczos or Arnoldi. It is owned by the caller
// that requested it.
type Decomposition struct {
	// Basis holds Achieved orthonormal vectors q₀…q_{k-1}, each of length n.
	Basis [][]float64

	// Tridiagonal is set by Lanczos, Hessenberg (k×k) by Arnoldi.
	Tridiagonal *Tridiagonal
	Hessenberg  *mat.Dense

	// Residual is the unnormalized next vector r with A·Qᵀ = Qᵀ·P + r·e_kᵀ.
	Residual     []float64
	ResidualNorm float64

	// InitialNorm is ‖v₀‖; f(A)v₀ ≈ ‖v₀‖·Qᵀ·f(P)·e₁.
	InitialNorm float64

	Requested int
	Achieved  int
	Breakdown bool
}

// Err returns a *BreakdownError when the recurrence stopped early, nil otherwise.
func (d *Decomposition) Err() error {
	if !d.Breakdown {
		return nil
	}

	return &BreakdownError{Requested: d.Requested, Achieved: d.Achieved}
}

// Projection returns the projected matrix as a dense k×k matrix.
func (d *Decomposition) Projection() *mat.Dense {
	if d.Hessenberg != nil {
		return mat.DenseCopyOf(d.Hessenberg)
	}
	if d.Tridiagonal != nil {
		return mat.DenseCopyOf(d.Tridiagonal.Sym())
	}

	return nil
}

// Orthogonality returns max |(Q·Qᵀ − I)ᵢⱼ|, a diagnostic of basis quality.
// Complexity: O(k²·n).
func (d *Decomposition) Orthogonality() float64 {
	var (
		worst, v, want float64
		i, j           int
	)
	for i = range d.Basis {
		for j = i; j < len(d.Basis); j++ {
			v = floats.Dot(d.Basis[i], d.Basis[j])
			want = 0
			if i == j {
				want = 1
			}
			worst = math.Max(worst, math.Abs(v-want))
		}
	}

	return worst
}

// Lift returns Qᵀ·y for a coefficient vector y of length Achieved.
func (d *Decomposition) Lift(y []float64) []float64 {
	if len(d.Basis) == 0 {
		return nil
	}
	out := make([]float64, len(d.Basis[0]))
	for i := range d.Basis {
		floats.AddScaled(out, y[i], d.Basis[i])
	}

	return out
}
