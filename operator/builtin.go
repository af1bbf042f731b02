package operator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Identity returns the symmetric n×n identity operator.
func Identity(n int) (*LinearOperator, error) {
	if n <= 0 {
		return nil, fmt.Errorf("Identity: n=%d: %w", n, ErrBadShape)
	}
	f := func(x []float64) []float64 {
		y := make([]float64, len(x))
		copy(y, x)
		return y
	}

	return New(f, WithDim(n), WithSymmetric())
}

// Diagonal returns the symmetric operator x -> d ⊙ x. d is copied.
func Diagonal(d []float64) (*LinearOperator, error) {
	if len(d) == 0 {
		return nil, fmt.Errorf("Diagonal: empty diagonal: %w", ErrBadShape)
	}
	for i, v := range d {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("Diagonal: d[%d]=%v: %w", i, v, ErrNaNInf)
		}
	}
	diag := make([]float64, len(d))
	copy(diag, d)
	f := func(x []float64) []float64 {
		y := make([]float64, len(x))
		floats.MulTo(y, diag, x)
		return y
	}

	return New(f, WithDim(len(diag)), WithSymmetric())
}

// Scaled returns c·A. Symmetry and transpose availability carry over.
func Scaled(a *LinearOperator, c float64) (*LinearOperator, error) {
	rows, cols := a.Dims()
	if rows == 0 {
		return nil, fmt.Errorf("Scaled: operand shape unknown: %w", ErrBadShape)
	}
	scale := func(apply func([]float64) ([]float64, error)) errFunc {
		return func(x []float64) ([]float64, error) {
			y, err := apply(x)
			if err != nil {
				return nil, err
			}
			floats.Scale(c, y)
			return y, nil
		}
	}

	return compose(a, rows, cols, scale(a.Apply), scale(a.ApplyTranspose))
}

// Shifted returns A + s·I for a square operand.
func Shifted(a *LinearOperator, s float64) (*LinearOperator, error) {
	rows, cols := a.Dims()
	if rows == 0 || rows != cols {
		return nil, fmt.Errorf("Shifted: operand must be square with known shape, got %dx%d: %w", rows, cols, ErrBadShape)
	}
	shift := func(apply func([]float64) ([]float64, error)) errFunc {
		return func(x []float64) ([]float64, error) {
			y, err := apply(x)
			if err != nil {
				return nil, err
			}
			floats.AddScaled(y, s, x)
			return y, nil
		}
	}

	return compose(a, rows, cols, shift(a.Apply), shift(a.ApplyTranspose))
}

// AsSymmetric returns a view of a square operand declared symmetric. The
// caller asserts symmetry; it is not verified. A symmetric operand is returned
// unchanged.
func AsSymmetric(a *LinearOperator) (*LinearOperator, error) {
	if a.Symmetric() {
		return a, nil
	}
	rows, cols := a.Dims()
	if rows == 0 || rows != cols {
		return nil, fmt.Errorf("AsSymmetric: operand must be square with known shape, got %dx%d: %w", rows, cols, ErrBadShape)
	}

	return newOperator(a.Apply, options{rows: rows, cols: cols, symmetric: true, batch: a.batch})
}

// compose builds an operator derived from a, inheriting its symmetry flag and
// exposing a transpose only when a has one.
func compose(a *LinearOperator, rows, cols int, f, ft errFunc) (*LinearOperator, error) {
	o := options{rows: rows, cols: cols, symmetric: a.Symmetric()}
	if !a.Symmetric() && a.ft != nil {
		o.transposeErr = ft
	}

	return newOperator(f, o)
}
