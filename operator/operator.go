// SPDX-License-Identifier: MIT

package operator

import (
	"fmt"
	"sync/atomic"
)

// Operation names used in error messages.
const (
	opApply          = "Apply"
	opApplyTranspose = "ApplyTranspose"
	opApplyBatch     = "ApplyBatch"
	opNew            = "New"
)

// Func maps a vector to a vector. It is the single capability of a linear
// operator. Implementations must not retain or mutate x.
type Func func(x []float64) []float64

// BatchFunc maps several vectors at once. It must return len(xs) vectors.
type BatchFunc func(xs [][]float64) [][]float64

// errFunc is the internal form of a callback: composed operators report the
// failures of their operands instead of panicking.
type errFunc func(x []float64) ([]float64, error)

// lift adapts a user callback to errFunc.
func lift(f Func) errFunc {
	if f == nil {
		return nil
	}
	return func(x []float64) ([]float64, error) { return f(x), nil }
}

// shape is the frozen (rows, cols) pair of an operator.
type shape struct {
	rows, cols int
}

// LinearOperator is a matrix-free linear map. It is safe for concurrent use
// provided the wrapped callbacks are.
type LinearOperator struct {
	f         errFunc
	ft        errFunc
	batch     BatchFunc
	symmetric bool

	// dims is nil until the shape is declared or inferred, then never changes.
	dims atomic.Pointer[shape]
}

// New wraps f as a LinearOperator.
//
// Stage 1 (Validate): f must be non-nil; a declared symmetric shape must be square.
// Stage 2 (Prepare): freeze the declared shape, if any.
//
// Errors: ErrNilFunc, ErrBadShape.
func New(f Func, opts ...Option) (*LinearOperator, error) {
	if f == nil {
		return nil, fmt.Errorf("%s: %w", opNew, ErrNilFunc)
	}
	o := gatherOptions(opts)

	return newOperator(lift(f), o)
}

// newOperator builds an operator from an internal callback and resolved options.
func newOperator(f errFunc, o options) (*LinearOperator, error) {
	if o.transpose != nil && o.transposeErr == nil {
		o.transposeErr = lift(o.transpose)
	}
	if o.symmetric && o.rows != o.cols {
		return nil, fmt.Errorf("%s: symmetric operator must be square, got %dx%d: %w", opNew, o.rows, o.cols, ErrBadShape)
	}

	op := &LinearOperator{
		f:         f,
		ft:        o.transposeErr,
		batch:     o.batch,
		symmetric: o.symmetric,
	}
	if o.rows > 0 {
		op.dims.Store(&shape{rows: o.rows, cols: o.cols})
	}

	return op, nil
}

// Must is like New but panics on error. Intended for tests and examples.
func Must(op *LinearOperator, err error) *LinearOperator {
	if err != nil {
		panic(err)
	}

	return op
}

// Dims returns (rows, cols), or (0, 0) while the shape is still unknown.
func (op *LinearOperator) Dims() (rows, cols int) {
	if s := op.dims.Load(); s != nil {
		return s.rows, s.cols
	}

	return 0, 0
}

// Dim returns the input dimension (cols), or 0 when unknown.
func (op *LinearOperator) Dim() int {
	_, c := op.Dims()
	return c
}

// Symmetric reports the caller-declared symmetry flag.
func (op *LinearOperator) Symmetric() bool { return op.symmetric }

// HasTranspose reports whether ApplyTranspose is available.
func (op *LinearOperator) HasTranspose() bool { return op.symmetric || op.ft != nil }

// Apply returns A·x.
// The returned slice is owned by the caller.
func (op *LinearOperator) Apply(x []float64) ([]float64, error) {
	return op.apply(opApply, op.f, x, false)
}

// ApplyTranspose returns Aᵀ·x. Symmetric operators reuse the forward callback.
func (op *LinearOperator) ApplyTranspose(x []float64) ([]float64, error) {
	if op.symmetric {
		return op.apply(opApplyTranspose, op.f, x, false)
	}
	if op.ft == nil {
		return nil, fmt.Errorf("%s: %w", opApplyTranspose, ErrNoTranspose)
	}

	return op.apply(opApplyTranspose, op.ft, x, true)
}

// ApplyBatch returns A·xs[i] for every i. The batch callback is used when
// supplied; otherwise the vectors are applied one by one.
func (op *LinearOperator) ApplyBatch(xs [][]float64) ([][]float64, error) {
	var (
		out [][]float64
		err error
		i   int
	)
	if op.batch == nil || op.dims.Load() == nil {
		out = make([][]float64, len(xs))
		for i = range xs {
			if out[i], err = op.Apply(xs[i]); err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", opApplyBatch, i, err)
			}
		}
		return out, nil
	}

	s := op.dims.Load()
	for i = range xs {
		if len(xs[i]) != s.cols {
			return nil, fmt.Errorf("%s[%d]: %w", opApplyBatch, i, shapeErrorf(opApplyBatch, s.cols, len(xs[i])))
		}
	}
	out = op.batch(xs)
	if len(out) != len(xs) {
		return nil, fmt.Errorf("%s: callback returned %d vectors for %d inputs: %w", opApplyBatch, len(out), len(xs), ErrShape)
	}
	for i = range out {
		if len(out[i]) != s.rows {
			return nil, fmt.Errorf("%s[%d]: %w", opApplyBatch, i, shapeErrorf(opApplyBatch, s.rows, len(out[i])))
		}
		out[i] = unalias(out[i], xs[i])
	}

	return out, nil
}

// apply validates x, calls f and validates (or infers) the output length.
// transposed swaps the roles of rows and cols.
func (op *LinearOperator) apply(name string, f errFunc, x []float64, transposed bool) ([]float64, error) {
	var (
		in, out int
		y       []float64
		err     error
	)
	s := op.dims.Load()
	if s == nil {
		// Inference: only the forward map can define the shape.
		if transposed {
			return nil, fmt.Errorf("%s: shape unknown before first Apply: %w", name, ErrShape)
		}
		if len(x) == 0 {
			return nil, fmt.Errorf("%s: empty input: %w", name, ErrBadShape)
		}
		if y, err = f(x); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if len(y) == 0 {
			return nil, fmt.Errorf("%s: callback returned empty vector: %w", name, ErrBadShape)
		}
		if op.symmetric && len(y) != len(x) {
			return nil, shapeErrorf(name, len(x), len(y))
		}
		// First writer wins; a concurrent loser validates against the winner.
		if op.dims.CompareAndSwap(nil, &shape{rows: len(y), cols: len(x)}) {
			return unalias(y, x), nil
		}
		s = op.dims.Load()
		if len(x) != s.cols {
			return nil, shapeErrorf(name, s.cols, len(x))
		}
		if len(y) != s.rows {
			return nil, shapeErrorf(name, s.rows, len(y))
		}
		return unalias(y, x), nil
	}

	in, out = s.cols, s.rows
	if transposed {
		in, out = s.rows, s.cols
	}
	if len(x) != in {
		return nil, shapeErrorf(name, in, len(x))
	}
	if y, err = f(x); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(y) != out {
		return nil, shapeErrorf(name, out, len(y))
	}

	return unalias(y, x), nil
}

// unalias copies y when the callback handed back its input buffer, so callers
// may mutate the result without corrupting x.
func unalias(y, x []float64) []float64 {
	if len(y) > 0 && len(x) > 0 && &y[0] == &x[0] {
		c := make([]float64, len(y))
		copy(c, y)
		return c
	}

	return y
}
