package operator

import "sync/atomic"

// Counter records how many matrix-vector products an operator performed.
// Estimators are compared by matvec count, the dominant cost of matrix-free
// methods.
type Counter struct {
	Forward   atomic.Int64
	Transpose atomic.Int64
}

// Total returns forward plus transpose products.
func (c *Counter) Total() int64 { return c.Forward.Load() + c.Transpose.Load() }

// Reset zeroes both counters.
func (c *Counter) Reset() {
	c.Forward.Store(0)
	c.Transpose.Store(0)
}

// Counting wraps a so that every successful product is recorded in the
// returned Counter. The wrapper keeps a's shape, symmetry, transpose and
// batch callback; a batch call counts one product per vector.
// Products of a not-yet-shaped operand infer the shape on the wrapper.
func Counting(a *LinearOperator) (*LinearOperator, *Counter) {
	c := new(Counter)
	rows, cols := a.Dims()
	o := options{rows: rows, cols: cols, symmetric: a.Symmetric()}
	f := func(x []float64) ([]float64, error) {
		y, err := a.Apply(x)
		if err == nil {
			c.Forward.Add(1)
		}
		return y, err
	}
	if !a.Symmetric() && a.ft != nil {
		o.transposeErr = func(x []float64) ([]float64, error) {
			y, err := a.ApplyTranspose(x)
			if err == nil {
				c.Transpose.Add(1)
			}
			return y, err
		}
	}
	if a.batch != nil {
		o.batch = func(xs [][]float64) [][]float64 {
			ys := a.batch(xs)
			c.Forward.Add(int64(len(ys)))
			return ys
		}
	}

	// o is consistent with an already valid operator; newOperator cannot fail.
	op, _ := newOperator(f, o)
	return op, c
}
