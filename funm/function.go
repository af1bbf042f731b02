// SPDX-License-Identifier: MIT

package funm

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDomain matches *DomainError.
	ErrDomain = errors.New("funm: function undefined at eigenvalue")

	// ErrComplexSpectrum is returned when a non-symmetric projection has
	// complex eigenvalues and the function has no dense evaluation of its own.
	ErrComplexSpectrum = errors.New("funm: projection has complex eigenvalues")

	// ErrNilFunction is returned for a Function without Eval.
	ErrNilFunction = errors.New("funm: nil function")

	// ErrSingular is returned when the inverse of a singular or numerically
	// singular Hessenberg projection is requested. It wraps a *DomainError
	// naming the projection eigenvalue closest to zero.
	ErrSingular = errors.New("funm: projection is singular")
)

// DomainError reports the eigenvalue at which a function cannot be evaluated.
type DomainError struct {
	Function   string
	Eigenvalue float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("funm: %s undefined at eigenvalue %g", e.Function, e.Eigenvalue)
}

// Is reports whether target is ErrDomain.
func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// Function is a scalar function applied to the spectrum of an operator.
type Function struct {
	Name string
	Eval func(x float64) float64
	// Domain reports whether Eval is defined at x. nil means every finite x.
	Domain func(x float64) bool

	// hessenberg computes f(H)·e₁ directly; used when eigendecomposition of a
	// non-symmetric projection is not required.
	hessenberg func(h *mat.Dense) ([]float64, error)
}

// New returns a Function evaluated by eval on the points where domain holds.
func New(name string, eval func(float64) float64, domain func(float64) bool) Function {
	return Function{Name: name, Eval: eval, Domain: domain}
}

// At evaluates f at an eigenvalue, reporting a *DomainError outside the
// domain or when the value is not finite.
func (f Function) At(x float64) (float64, error) {
	if f.Eval == nil {
		return 0, ErrNilFunction
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || (f.Domain != nil && !f.Domain(x)) {
		return 0, &DomainError{Function: f.Name, Eigenvalue: x}
	}
	v := f.Eval(x)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &DomainError{Function: f.Name, Eigenvalue: x}
	}

	return v, nil
}

// String returns the function name.
func (f Function) String() string { return f.Name }

func positive(x float64) bool    { return x > 0 }
func nonNegative(x float64) bool { return x >= 0 }
func nonZero(x float64) bool     { return x != 0 }

// Built-in functions.
var (
	// Log is the natural logarithm; vᵀ log(A) v averages to log det A.
	Log = Function{Name: "log", Eval: math.Log, Domain: positive}

	// Sqrt is the principal square root.
	Sqrt = Function{Name: "sqrt", Eval: math.Sqrt, Domain: nonNegative}

	// Inverse is 1/x; its action solves A·y = x.
	Inverse = Function{
		Name:       "inverse",
		Eval:       func(x float64) float64 { return 1 / x },
		Domain:     nonZero,
		hessenberg: inverseE1,
	}

	// Exp is the exponential.
	Exp = Function{Name: "exp", Eval: math.Exp, hessenberg: expE1}

	// Identity is f(x) = x; its quadrature estimates vᵀAv.
	Identity = Function{Name: "identity", Eval: func(x float64) float64 { return x }, hessenberg: identityE1}
)

// Power returns f(x) = x^p. Non-integer or negative p restrict the domain.
func Power(p float64) Function {
	f := Function{
		Name: fmt.Sprintf("power(%g)", p),
		Eval: func(x float64) float64 { return math.Pow(x, p) },
	}
	switch {
	case p != math.Trunc(p):
		f.Domain = nonNegative
		if p < 0 {
			f.Domain = positive
		}
	case p < 0:
		f.Domain = nonZero
	}

	return f
}

// expE1 returns exp(H)·e₁.
func expE1(h *mat.Dense) ([]float64, error) {
	var e mat.Dense
	e.Exp(h)
	return mat.Col(nil, 0, &e), nil
}

// inverseE1 solves H·y = e₁.
func inverseE1(h *mat.Dense) ([]float64, error) {
	k, _ := h.Dims()
	e1 := mat.NewVecDense(k, nil)
	e1.SetVec(0, 1)
	var y mat.VecDense
	if err := y.SolveVec(h, e1); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingular, &DomainError{Function: "inverse", Eigenvalue: nearestToZero(h)})
	}
	return mat.Col(nil, 0, &y), nil
}

// nearestToZero returns the real part of the eigenvalue of h with the smallest
// modulus, or 0 when the eigenvalues cannot be computed.
func nearestToZero(h *mat.Dense) float64 {
	var eig mat.Eigen
	if ok := eig.Factorize(h, mat.EigenNone); !ok {
		return 0
	}
	values := eig.Values(nil)
	best := values[0]
	for _, v := range values[1:] {
		if cmplxAbs(v) < cmplxAbs(best) {
			best = v
		}
	}

	return real(best)
}

// identityE1 returns H·e₁.
func identityE1(h *mat.Dense) ([]float64, error) {
	return mat.Col(nil, 0, h), nil
}
