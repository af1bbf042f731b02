package funm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/matfree/krylov"
	"github.com/katalvlaran/matfree/operator"
)

// imagTolerance is the relative size of an imaginary part treated as rounding.
const imagTolerance = 1e-12

// Quadrature returns vᵀ f(A) v for the start vector v of a Lanczos
// decomposition: ‖v‖² Σᵢ S₀ᵢ² f(θᵢ).
//
// Errors: krylov.ErrNoProjection for non-Lanczos input, *DomainError.
// Complexity: O(k³) on the projection.
func Quadrature(d *krylov.Decomposition, f Function) (float64, error) {
	nodes, weights, err := Nodes(d)
	if err != nil {
		return 0, fmt.Errorf("Quadrature: %w", err)
	}

	var (
		sum, fx float64
		i       int
	)
	for i = range nodes {
		if fx, err = f.At(nodes[i]); err != nil {
			return 0, fmt.Errorf("Quadrature: %w", err)
		}
		sum += weights[i] * fx
	}

	return d.InitialNorm * d.InitialNorm * sum, nil
}

// Nodes returns the Gauss quadrature nodes (Ritz values) and weights (squared
// first eigenvector components, summing to 1) of a Lanczos decomposition.
func Nodes(d *krylov.Decomposition) (nodes, weights []float64, err error) {
	values, vectors, err := krylov.Ritz(d)
	if err != nil {
		return nil, nil, err
	}
	weights = make([]float64, len(values))
	var s float64
	for i := range values {
		s = vectors.At(0, i)
		weights[i] = s * s
	}

	return values, weights, nil
}

// Apply returns f(A)·x ≈ ‖x‖·Qᵀ·f(P)·e₁ for the decomposition of A along x.
func Apply(d *krylov.Decomposition, f Function) ([]float64, error) {
	var (
		coeffs []float64
		err    error
	)
	switch {
	case d.Tridiagonal != nil:
		coeffs, err = tridiagonalE1(d, f)
	case d.Hessenberg != nil:
		coeffs, err = hessenbergE1(d.Hessenberg, f)
	default:
		err = krylov.ErrNoProjection
	}
	if err != nil {
		return nil, fmt.Errorf("Apply: %w", err)
	}

	out := d.Lift(coeffs)
	floats.Scale(d.InitialNorm, out)

	return out, nil
}

// tridiagonalE1 returns S·f(Θ)·Sᵀ·e₁ for T = S·Θ·Sᵀ.
func tridiagonalE1(d *krylov.Decomposition, f Function) ([]float64, error) {
	values, s, err := krylov.Ritz(d)
	if err != nil {
		return nil, err
	}
	var (
		k    = len(values)
		out  = make([]float64, k)
		fx   float64
		i, j int
	)
	for i = 0; i < k; i++ {
		if fx, err = f.At(values[i]); err != nil {
			return nil, err
		}
		fx *= s.At(0, i)
		for j = 0; j < k; j++ {
			out[j] += s.At(j, i) * fx
		}
	}

	return out, nil
}

// hessenbergE1 returns f(H)·e₁. Functions with a dense evaluation of their own
// use it; the rest go through H = V·Λ·V⁻¹, which requires a real spectrum.
func hessenbergE1(h *mat.Dense, f Function) ([]float64, error) {
	if f.hessenberg != nil {
		return f.hessenberg(h)
	}
	if f.Eval == nil {
		return nil, ErrNilFunction
	}

	var eig mat.Eigen
	if ok := eig.Factorize(h, mat.EigenRight); !ok {
		return nil, krylov.ErrEigenFailed
	}
	var (
		values = eig.Values(nil)
		cv     mat.CDense
		k      = len(values)
		scale  float64
		i, j   int
	)
	for i = range values {
		scale = math.Max(scale, cmplxAbs(values[i]))
	}
	for i = range values {
		if math.Abs(imag(values[i])) > imagTolerance*math.Max(scale, 1) {
			return nil, fmt.Errorf("eigenvalue %v: %w", values[i], ErrComplexSpectrum)
		}
	}
	eig.VectorsTo(&cv)

	v := mat.NewDense(k, k, nil)
	for i = 0; i < k; i++ {
		for j = 0; j < k; j++ {
			v.Set(i, j, real(cv.At(i, j)))
		}
	}
	// c = V⁻¹·e₁, then out = V·f(Λ)·c.
	e1 := mat.NewVecDense(k, nil)
	e1.SetVec(0, 1)
	var c mat.VecDense
	if err := c.SolveVec(v, e1); err != nil {
		return nil, fmt.Errorf("defective projection: %w", krylov.ErrEigenFailed)
	}
	var (
		fx  float64
		err error
	)
	for i = 0; i < k; i++ {
		if fx, err = f.At(real(values[i])); err != nil {
			return nil, err
		}
		c.SetVec(i, c.AtVec(i)*fx)
	}
	var out mat.VecDense
	out.MulVec(v, &c)

	return mat.Col(nil, 0, &out), nil
}

func cmplxAbs(z complex128) float64 { return math.Hypot(real(z), imag(z)) }

// Action computes f(A)·x with one Krylov decomposition of the given depth
// along x: Lanczos for operators declared symmetric, Arnoldi otherwise.
// A zero x yields a zero vector. Breakdown is not an error here: an invariant
// Krylov space makes the result exact.
//
// Complexity: depth matvecs + Krylov work + O(depth³).
func Action(op *operator.LinearOperator, f Function, x []float64, depth int, opts ...krylov.Option) ([]float64, error) {
	if len(x) > 0 && floats.Norm(x, 2) == 0 {
		if c := op.Dim(); c != 0 && c != len(x) {
			return nil, fmt.Errorf("Action: %w", &operator.ShapeError{Op: "Action", Expected: c, Actual: len(x)})
		}
		return make([]float64, len(x)), nil
	}
	depth = min(depth, len(x))

	var (
		d   *krylov.Decomposition
		err error
	)
	if op.Symmetric() {
		d, err = krylov.Lanczos(op, x, depth, opts...)
	} else {
		d, err = krylov.Arnoldi(op, x, depth, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("Action: %w", err)
	}

	out, err := Apply(d, f)
	if err != nil {
		return nil, fmt.Errorf("Action: %w", err)
	}

	return out, nil
}
