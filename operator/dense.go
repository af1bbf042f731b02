// SPDX-License-Identifier: MIT

// Dense is a small explicit matrix stored row-major in a flat slice. It exists
// to feed explicit matrices (test oracles, files read by the CLI) into the
// matrix-free machinery: algorithms only ever see it through Operator().
package operator

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// denseErrorf wraps an underlying error with Dense method context.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a row-major matrix of float64 values.
// r is rows, c is columns, and data holds r*c elements in row-major order.
type Dense struct {
	r, c int       // number of rows and columns
	data []float64 // flat backing storage, length == r*c
}

// NewDense creates an r×c Dense matrix. When data is nil the matrix is zero;
// otherwise data is copied and must hold exactly rows*cols finite values.
// Stage 1 (Validate): ensure rows and cols > 0 and data fits.
// Stage 2 (Prepare): allocate flat backing slice and copy.
// Complexity: O(r*c) time and memory.
func NewDense(rows, cols int, data []float64) (*Dense, error) {
	// Validate dimensions
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewDense: %dx%d: %w", rows, cols, ErrBadShape)
	}
	if data != nil && len(data) != rows*cols {
		return nil, fmt.Errorf("NewDense: %d values for %dx%d: %w", len(data), rows, cols, ErrBadShape)
	}

	// Allocate flat slice
	buf := make([]float64, rows*cols)
	if data != nil {
		var i int
		for i = range data {
			if math.IsNaN(data[i]) || math.IsInf(data[i], 0) {
				return nil, fmt.Errorf("NewDense: data[%d]=%v: %w", i, data[i], ErrNaNInf)
			}
		}
		copy(buf, data)
	}

	return &Dense{r: rows, c: cols, data: buf}, nil
}

// Rows returns the number of rows in the matrix.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns in the matrix.
func (m *Dense) Cols() int { return m.c }

// indexOf computes the flat index for (row, col) or returns ErrOutOfRange.
func (m *Dense) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

// At retrieves the element at (row, col).
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf("At", row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns value v at (row, col). Non-finite values are rejected.
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf("Set", row, col)
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return denseErrorf("Set", row, col, ErrNaNInf)
	}
	m.data[idx] = v

	return nil
}

// MulVecTo computes dst = M·x. Lengths are the caller's responsibility.
// Complexity: O(r*c).
func (m *Dense) MulVecTo(dst, x []float64) {
	var i int
	for i = 0; i < m.r; i++ {
		dst[i] = floats.Dot(m.data[i*m.c:(i+1)*m.c], x)
	}
}

// MulTransVecTo computes dst = Mᵀ·x.
// Complexity: O(r*c).
func (m *Dense) MulTransVecTo(dst, x []float64) {
	var i int
	for i = range dst {
		dst[i] = 0
	}
	for i = 0; i < m.r; i++ {
		floats.AddScaled(dst, x[i], m.data[i*m.c:(i+1)*m.c])
	}
}

// IsSymmetric reports whether M is square and |M[i,j]-M[j,i]| <= eps for all
// i<j. Only the upper triangle is scanned.
// Complexity: O(n²).
func (m *Dense) IsSymmetric(eps float64) bool {
	if m.r != m.c {
		return false
	}
	var i, j int
	for i = 0; i < m.r; i++ {
		for j = i + 1; j < m.c; j++ {
			if math.Abs(m.data[i*m.c+j]-m.data[j*m.c+i]) > eps {
				return false
			}
		}
	}

	return true
}

// Trace returns Σ M[i,i] over the main diagonal.
func (m *Dense) Trace() float64 {
	var (
		s float64
		i int
	)
	for i = 0; i < m.r && i < m.c; i++ {
		s += m.data[i*m.c+i]
	}

	return s
}

// Operator exposes M as a LinearOperator. When symmetric is true the caller
// declares M = Mᵀ; otherwise the transpose callback is attached.
// The matrix is captured by reference: mutate it only while no estimator runs.
func (m *Dense) Operator(symmetric bool) (*LinearOperator, error) {
	f := func(x []float64) []float64 {
		y := make([]float64, m.r)
		m.MulVecTo(y, x)
		return y
	}
	if symmetric {
		if m.r != m.c {
			return nil, fmt.Errorf("Dense.Operator: symmetric requires square, got %dx%d: %w", m.r, m.c, ErrBadShape)
		}
		return New(f, WithDim(m.r), WithSymmetric())
	}
	ft := func(x []float64) []float64 {
		y := make([]float64, m.c)
		m.MulTransVecTo(y, x)
		return y
	}

	return New(f, WithShape(m.r, m.c), WithTranspose(ft))
}

// String implements fmt.Stringer for easy debugging.
func (m *Dense) String() string {
	var (
		sb   strings.Builder
		i, j int
	)
	for i = 0; i < m.r; i++ {
		sb.WriteString("[")
		for j = 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.c+j])
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}
