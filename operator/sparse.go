package operator

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// Triplet is one (row, col, value) entry of a coordinate-format matrix.
type Triplet struct {
	Row, Col int
	Value    float64
}

// Sparse is a compressed sparse row (CSR) matrix. Like Dense it is consumed
// only through Operator().
type Sparse struct {
	r, c   int
	rowPtr []int     // len r+1
	colIdx []int     // len nnz
	values []float64 // len nnz
}

// NewSparse builds a CSR matrix from coordinate entries. Duplicate (row, col)
// entries are summed. The input slice is not modified.
//
// Stage 1 (Validate): shape > 0, indices in range, values finite.
// Stage 2 (Prepare): stable sort by (row, col) on a copy.
// Stage 3 (Execute): merge duplicates and fill the CSR arrays.
//
// Complexity: O(nnz·log nnz) time, O(nnz) memory.
func NewSparse(rows, cols int, entries []Triplet) (*Sparse, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewSparse: %dx%d: %w", rows, cols, ErrBadShape)
	}
	var (
		t Triplet
		i int
	)
	for i, t = range entries {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			return nil, fmt.Errorf("NewSparse: entry %d at (%d,%d): %w", i, t.Row, t.Col, ErrOutOfRange)
		}
		if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) {
			return nil, fmt.Errorf("NewSparse: entry %d value %v: %w", i, t.Value, ErrNaNInf)
		}
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Triplet) int {
		if c := cmp.Compare(a.Row, b.Row); c != 0 {
			return c
		}
		return cmp.Compare(a.Col, b.Col)
	})

	s := &Sparse{
		r:      rows,
		c:      cols,
		rowPtr: make([]int, rows+1),
		colIdx: make([]int, 0, len(sorted)),
		values: make([]float64, 0, len(sorted)),
	}
	var lastRow, lastCol = -1, -1
	for _, t = range sorted {
		if t.Row == lastRow && t.Col == lastCol {
			s.values[len(s.values)-1] += t.Value // duplicate
			continue
		}
		s.colIdx = append(s.colIdx, t.Col)
		s.values = append(s.values, t.Value)
		s.rowPtr[t.Row+1]++
		lastRow, lastCol = t.Row, t.Col
	}
	for i = 0; i < rows; i++ {
		s.rowPtr[i+1] += s.rowPtr[i]
	}

	return s, nil
}

// Dims returns (rows, cols).
func (s *Sparse) Dims() (rows, cols int) { return s.r, s.c }

// NNZ returns the number of stored entries after duplicate merging.
func (s *Sparse) NNZ() int { return len(s.values) }

// MulVecTo computes dst = S·x.
// Complexity: O(nnz).
func (s *Sparse) MulVecTo(dst, x []float64) {
	var (
		i, k int
		sum  float64
	)
	for i = 0; i < s.r; i++ {
		sum = 0
		for k = s.rowPtr[i]; k < s.rowPtr[i+1]; k++ {
			sum += s.values[k] * x[s.colIdx[k]]
		}
		dst[i] = sum
	}
}

// MulTransVecTo computes dst = Sᵀ·x.
// Complexity: O(nnz).
func (s *Sparse) MulTransVecTo(dst, x []float64) {
	var i, k int
	for i = range dst {
		dst[i] = 0
	}
	for i = 0; i < s.r; i++ {
		for k = s.rowPtr[i]; k < s.rowPtr[i+1]; k++ {
			dst[s.colIdx[k]] += s.values[k] * x[i]
		}
	}
}

// Operator exposes S as a LinearOperator; see Dense.Operator.
func (s *Sparse) Operator(symmetric bool) (*LinearOperator, error) {
	f := func(x []float64) []float64 {
		y := make([]float64, s.r)
		s.MulVecTo(y, x)
		return y
	}
	if symmetric {
		if s.r != s.c {
			return nil, fmt.Errorf("Sparse.Operator: symmetric requires square, got %dx%d: %w", s.r, s.c, ErrBadShape)
		}
		return New(f, WithDim(s.r), WithSymmetric())
	}
	ft := func(x []float64) []float64 {
		y := make([]float64, s.c)
		s.MulTransVecTo(y, x)
		return y
	}

	return New(f, WithShape(s.r, s.c), WithTranspose(ft))
}
