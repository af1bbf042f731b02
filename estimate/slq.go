// SPDX-License-Identifier: MIT

package estimate

import (
	"context"

	"github.com/katalvlaran/matfree/funm"
	"github.com/katalvlaran/matfree/krylov"
	"github.com/katalvlaran/matfree/operator"
	"github.com/katalvlaran/matfree/probe"
)

const (
	opSLQ    = "SLQ"
	opLogDet = "LogDet"
)

// SLQ estimates tr f(A) by stochastic Lanczos quadrature: for every probe v,
// a Lanczos run of the given depth yields Ritz values θⱼ and weights wⱼ, and
// vᵀf(A)v ≈ ‖v‖²·Σ wⱼ·f(θⱼ). The estimate is the mean over probes.
//
// depth is clamped to the probe dimension. Per-probe Achieved/Breakdown are
// reported in Result.Probes; breakdown of a single probe is not an error (its
// quadrature is exact on the invariant subspace). When every probe breaks
// down, the valid Result is returned together with a *krylov.BreakdownError
// carrying the largest achieved depth.
//
// Errors: krylov.ErrNotSymmetric, krylov.ErrDepth, ErrEmptyBatch,
// *operator.ShapeError, *funm.DomainError.
// Complexity: m·depth matvecs + O(m·depth²·n) with full reorthogonalization.
func SLQ(op *operator.LinearOperator, b *probe.Batch, depth int, f funm.Function, opts ...Option) (*Result, error) {
	// Stage 1 (Validate)
	if !op.Symmetric() {
		return nil, estimateErrorf(opSLQ, krylov.ErrNotSymmetric)
	}
	if err := checkBatch(op, b); err != nil {
		return nil, estimateErrorf(opSLQ, err)
	}
	s := gatherSettings(opts)
	depth = min(depth, b.Dim)
	log := s.logger.WithEstimator("slq:" + f.Name).WithDim(b.Dim).WithDepth(depth)

	// Stage 2 (Per-probe quadrature)
	var (
		m       = b.Len()
		samples = make([]float64, m)
		infos   = make([]ProbeInfo, m)
	)
	err := forEachProbe(s.workers, m, func(_ context.Context, i int) error {
		d, err := krylov.Lanczos(op, b.Vectors[i], depth, s.krylov...)
		if err != nil {
			return err
		}
		if samples[i], err = funm.Quadrature(d, f); err != nil {
			return err
		}
		infos[i] = ProbeInfo{Achieved: d.Achieved, Breakdown: d.Breakdown}
		return nil
	})
	if err != nil {
		return nil, estimateErrorf(opSLQ, err)
	}

	// Stage 3 (Reduce)
	res := &Result{Samples: samples, Probes: infos, Termination: FixedBatch}
	res.summarize()

	ctx := context.Background()
	for i := range infos {
		if infos[i].Breakdown {
			log.LogBreakdown(ctx, b.Offset+i, depth, infos[i].Achieved)
		}
	}
	log.LogEstimate(ctx, m, res.Value, res.StdErr, true, res.Termination.String())
	if err = allBreakdown(infos, depth); err != nil {
		log.LogAllBreakdown(ctx, m, err.(*krylov.BreakdownError).Achieved)
		return res, estimateErrorf(opSLQ, err)
	}

	return res, nil
}

// LogDet estimates log det A = tr log(A) of a symmetric positive definite
// operator by SLQ with the natural logarithm.
//
// Errors: as SLQ; a non-positive Ritz value yields *funm.DomainError.
func LogDet(op *operator.LinearOperator, b *probe.Batch, depth int, opts ...Option) (*Result, error) {
	res, err := SLQ(op, b, depth, funm.Log, opts...)
	if err != nil {
		return res, estimateErrorf(opLogDet, err)
	}

	return res, nil
}

// allBreakdown returns a *krylov.BreakdownError when every probe broke down.
func allBreakdown(infos []ProbeInfo, requested int) error {
	if len(infos) == 0 {
		return nil
	}
	achieved := 0
	for i := range infos {
		if !infos[i].Breakdown {
			return nil
		}
		achieved = max(achieved, infos[i].Achieved)
	}

	return &krylov.BreakdownError{Requested: requested, Achieved: achieved}
}
