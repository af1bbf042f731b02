package krylov

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/matfree/operator"
)

// selectiveThreshold is √ε: the overlap beyond which Selective reorthogonalizes.
var selectiveThreshold = math.Sqrt(2.220446049250313e-16)

// normalized returns v/‖v‖ and ‖v‖, rejecting zero and non-finite vectors.
func normalized(v []float64) ([]float64, float64, error) {
	if len(v) == 0 {
		return nil, 0, ErrZeroVector
	}
	norm := floats.Norm(v, 2)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, 0, ErrZeroVector
	}
	q := make([]float64, len(v))
	floats.ScaleTo(q, 1/norm, v)

	return q, norm, nil
}

// orthogonalize removes from w its components along basis (modified
// Gram–Schmidt) and returns the coefficients.
func orthogonalize(w []float64, basis [][]float64) []float64 {
	coeffs := make([]float64, len(basis))
	var (
		i int
		c float64
	)
	for i = range basis {
		c = floats.Dot(basis[i], w)
		floats.AddScaled(w, -c, basis[i])
		coeffs[i] = c
	}

	return coeffs
}

// maxOverlap returns max_i |qᵢ·w| / ‖w‖, the orthogonality loss of w.
func maxOverlap(w []float64, basis [][]float64) float64 {
	norm := floats.Norm(w, 2)
	if norm == 0 {
		return 0
	}
	var m float64
	for i := range basis {
		m = math.Max(m, math.Abs(floats.Dot(basis[i], w))/norm)
	}

	return m
}

// squareDim validates a square operator against the start vector length.
func squareDim(op *operator.LinearOperator, v0 []float64, depth int) error {
	rows, cols := op.Dims()
	if rows != cols {
		return fmt.Errorf("%dx%d: %w", rows, cols, ErrNotSquare)
	}
	if cols != 0 && len(v0) != cols {
		return &operator.ShapeError{Op: "start vector", Expected: cols, Actual: len(v0)}
	}
	if depth < 1 || depth > len(v0) {
		return fmt.Errorf("depth=%d, dimension=%d: %w", depth, len(v0), ErrDepth)
	}

	return nil
}
