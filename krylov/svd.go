package krylov

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/matfree/operator"
)

// SVD is a partial singular value decomposition A ≈ U·diag(Values)·VT.
type SVD struct {
	U      *mat.Dense // rows×k
	Values []float64  // descending
	VT     *mat.Dense // k×cols
}

// SVDPartial combines Golub–Kahan–Lanczos bidiagonalization (full
// reorthogonalization) with a dense SVD of the small bidiagonal B. B may be
// k×(k+1) when the recurrence stopped on a rank-deficient operator.
// Choosing depth = min(rows, cols) reproduces the full SVD up to rounding.
//
// Complexity: 2·depth matvecs + O(depth²·(rows+cols) + depth³).
func SVDPartial(op *operator.LinearOperator, v0 []float64, depth int, opts ...Option) (*SVD, error) {
	b, err := Bidiagonalize(op, v0, depth, opts...)
	if err != nil {
		return nil, fmt.Errorf("SVDPartial: %w", err)
	}

	var svd mat.SVD
	if ok := svd.Factorize(b.Dense(), mat.SVDThin); !ok {
		return nil, fmt.Errorf("SVDPartial: %w", ErrEigenFailed)
	}
	var ub, vb mat.Dense
	svd.UTo(&ub)
	svd.VTo(&vb)

	var (
		k    = b.Achieved
		uk   = mat.NewDense(k, len(b.U[0]), nil)
		vk   = mat.NewDense(len(b.V), len(b.V[0]), nil)
		u, v mat.Dense
		i    int
	)
	for i = 0; i < k; i++ {
		uk.SetRow(i, b.U[i])
	}
	for i = range b.V {
		vk.SetRow(i, b.V[i])
	}
	u.Mul(uk.T(), &ub) // rows×k
	v.Mul(vb.T(), vk)  // k×cols

	return &SVD{U: &u, Values: svd.Values(nil), VT: &v}, nil
}
