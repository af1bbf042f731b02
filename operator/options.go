// SPDX-License-Identifier: MIT

package operator

// Internal panic messages (no magic strings).
const (
	panicDimInvalid   = "operator: WithDim: n must be > 0"
	panicShapeInvalid = "operator: WithShape: rows and cols must be > 0"
	panicNilTranspose = "operator: WithTranspose: nil function"
	panicNilBatch     = "operator: WithBatch: nil function"
)

// Option configures a LinearOperator at construction time.
// Constructors panic only on nonsensical values (programmer error).
type Option func(*options)

type options struct {
	rows, cols int // 0 => inferred from the first call
	symmetric  bool
	transpose  Func
	batch      BatchFunc

	// transposeErr is set by composing constructors inside this package.
	transposeErr errFunc
}

// WithDim declares a square n×n operator.
func WithDim(n int) Option {
	if n <= 0 {
		panic(panicDimInvalid)
	}

	return func(o *options) { o.rows, o.cols = n, n }
}

// WithShape declares a rows×cols operator: Apply maps R^cols to R^rows.
func WithShape(rows, cols int) Option {
	if rows <= 0 || cols <= 0 {
		panic(panicShapeInvalid)
	}

	return func(o *options) { o.rows, o.cols = rows, cols }
}

// WithSymmetric declares the operator symmetric (A = Aᵀ).
// Symmetry enables Lanczos and quadrature; it is never verified by probing.
func WithSymmetric() Option {
	return func(o *options) { o.symmetric = true }
}

// WithTranspose supplies x -> Aᵀx, required by Golub–Kahan bidiagonalization
// on non-symmetric operators.
func WithTranspose(ft Func) Option {
	if ft == nil {
		panic(panicNilTranspose)
	}

	return func(o *options) { o.transpose = ft }
}

// WithBatch supplies a vectorized callback used by ApplyBatch.
func WithBatch(fb BatchFunc) Option {
	if fb == nil {
		panic(panicNilBatch)
	}

	return func(o *options) { o.batch = fb }
}

// gatherOptions applies opts over the zero-value defaults.
func gatherOptions(opts []Option) options {
	var (
		o   options
		opt Option
	)
	for _, opt = range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
