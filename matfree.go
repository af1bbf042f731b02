// SPDX-License-Identifier: MIT

package matfree

import (
	"fmt"

	"github.com/katalvlaran/matfree/estimate"
	"github.com/katalvlaran/matfree/funm"
	"github.com/katalvlaran/matfree/krylov"
	"github.com/katalvlaran/matfree/operator"
	"github.com/katalvlaran/matfree/probe"
)

const (
	opTrace          = "Trace"
	opDiagonal       = "Diagonal"
	opLogDet         = "LogDet"
	opFunctionTrace  = "FunctionTrace"
	opFunctionAction = "FunctionAction"
	opEigenvalues    = "Eigenvalues"
	opSingularValues = "SingularValues"
)

// prepare resolves the configuration and the operator's dimension, and
// applies the symmetric declaration of the configuration.
func prepare(op *operator.LinearOperator, opts []Option) (Config, *operator.LinearOperator, int, error) {
	cfg, err := gatherConfig(opts)
	if err != nil {
		return cfg, nil, 0, err
	}
	n := op.Dim()
	if n == 0 {
		return cfg, nil, 0, ErrUnknownDim
	}
	if cfg.Symmetric {
		if op, err = operator.AsSymmetric(op); err != nil {
			return cfg, nil, 0, err
		}
	}

	return cfg, op, n, nil
}

// Trace estimates tr(A). With Tolerance > 0 (and not Hutch++) probes are drawn
// adaptively up to MaxProbes; otherwise one batch of MaxProbes probes is used.
func Trace(op *operator.LinearOperator, opts ...Option) (*estimate.Result, error) {
	cfg, op, n, err := prepare(op, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opTrace, err)
	}

	var res *estimate.Result
	if cfg.Tolerance > 0 && !cfg.HutchPlusPlus {
		res, err = estimate.Adaptive(op, estimate.HutchinsonSampler(), cfg.Tolerance, cfg.MaxProbes, cfg.estimateOptions()...)
	} else {
		res, err = batchRun(cfg, n, func(b *probe.Batch) (*estimate.Result, error) {
			return estimate.Trace(op, b, cfg.estimateOptions()...)
		})
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opTrace, err)
	}

	return res, nil
}

// Diagonal estimates diag(A) from one batch of MaxProbes probes.
func Diagonal(op *operator.LinearOperator, opts ...Option) (*estimate.Result, error) {
	cfg, op, n, err := prepare(op, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opDiagonal, err)
	}
	res, err := batchRun(cfg, n, func(b *probe.Batch) (*estimate.Result, error) {
		return estimate.Diagonal(op, b, cfg.estimateOptions()...)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opDiagonal, err)
	}

	return res, nil
}

// LogDet estimates log det A of a symmetric positive definite operator by
// stochastic Lanczos quadrature of depth min(MaxDepth, n).
//
// As with estimate.SLQ, a Result accompanies a *krylov.BreakdownError when
// every probe broke down.
func LogDet(op *operator.LinearOperator, opts ...Option) (*estimate.Result, error) {
	res, err := FunctionTrace(op, funm.Log, opts...)
	if err != nil {
		return res, fmt.Errorf("%s: %w", opLogDet, err)
	}

	return res, nil
}

// FunctionTrace estimates tr f(A) of a symmetric operator by stochastic
// Lanczos quadrature, adaptively when Tolerance > 0.
func FunctionTrace(op *operator.LinearOperator, f funm.Function, opts ...Option) (*estimate.Result, error) {
	cfg, op, n, err := prepare(op, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opFunctionTrace, err)
	}
	depth := min(cfg.MaxDepth, n)

	var res *estimate.Result
	if cfg.Tolerance > 0 {
		res, err = estimate.Adaptive(op, estimate.SLQSampler(depth, f), cfg.Tolerance, cfg.MaxProbes, cfg.estimateOptions()...)
	} else {
		res, err = batchRun(cfg, n, func(b *probe.Batch) (*estimate.Result, error) {
			return estimate.SLQ(op, b, depth, f, cfg.estimateOptions()...)
		})
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", opFunctionTrace, err)
	}

	return res, nil
}

// FunctionAction returns f(A)·x from one Krylov decomposition of depth
// min(MaxDepth, n) along x: Lanczos for symmetric operators, Arnoldi otherwise.
func FunctionAction(op *operator.LinearOperator, f funm.Function, x []float64, opts ...Option) ([]float64, error) {
	cfg, op, _, err := prepare(op, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opFunctionAction, err)
	}
	y, err := funm.Action(op, f, x, cfg.MaxDepth, cfg.krylovOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opFunctionAction, err)
	}

	return y, nil
}

// Eigenvalues approximates the extremal eigenpairs of a symmetric operator
// with one Lanczos run of depth min(MaxDepth, n) from the first probe of the
// configured stream. Values are ascending; the extremes converge first.
func Eigenvalues(op *operator.LinearOperator, opts ...Option) (*krylov.EigenPair, error) {
	cfg, op, n, err := prepare(op, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opEigenvalues, err)
	}
	b, err := probe.Sample(cfg.Distribution, 1, n, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opEigenvalues, err)
	}
	pair, err := krylov.EigenPartial(op, b.Vectors[0], min(cfg.MaxDepth, n), cfg.krylovOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opEigenvalues, err)
	}

	return pair, nil
}

// SingularValues approximates the largest singular triplets of an operator
// with a transpose by Golub–Kahan bidiagonalization of depth
// min(MaxDepth, rows, cols) from the first probe of the configured stream.
func SingularValues(op *operator.LinearOperator, opts ...Option) (*krylov.SVD, error) {
	cfg, err := gatherConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSingularValues, err)
	}
	rows, cols := op.Dims()
	if cols == 0 {
		return nil, fmt.Errorf("%s: %w", opSingularValues, ErrUnknownDim)
	}
	b, err := probe.Sample(cfg.Distribution, 1, cols, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSingularValues, err)
	}
	svd, err := krylov.SVDPartial(op, b.Vectors[0], min(cfg.MaxDepth, rows, cols), cfg.krylovOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSingularValues, err)
	}

	return svd, nil
}

// batchRun draws one batch of MaxProbes probes and runs est on it.
func batchRun(cfg Config, n int, est func(*probe.Batch) (*estimate.Result, error)) (*estimate.Result, error) {
	b, err := probe.Sample(cfg.Distribution, cfg.MaxProbes, n, cfg.Seed)
	if err != nil {
		return nil, err
	}

	return est(b)
}
