// SPDX-License-Identifier: MIT

package estimate

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/matfree/funm"
	"github.com/katalvlaran/matfree/krylov"
	"github.com/katalvlaran/matfree/operator"
	"github.com/katalvlaran/matfree/probe"
)

const opAdaptive = "Adaptive"

// Sampler is a scalar batch estimator driven by Adaptive. It must fill
// Result.Samples with one value per probe.
type Sampler func(op *operator.LinearOperator, b *probe.Batch, opts ...Option) (*Result, error)

// HutchinsonSampler samples vᵀA·v (trace).
func HutchinsonSampler() Sampler {
	return func(op *operator.LinearOperator, b *probe.Batch, opts ...Option) (*Result, error) {
		return Trace(op, b, append(opts, WithStrategy(Hutchinson{}))...)
	}
}

// SLQSampler samples vᵀf(A)·v by Lanczos quadrature of the given depth.
func SLQSampler(depth int, f funm.Function) Sampler {
	return func(op *operator.LinearOperator, b *probe.Batch, opts ...Option) (*Result, error) {
		return SLQ(op, b, depth, f, opts...)
	}
}

// Adaptive runs sampler on rounds of fresh probes until the standard error of
// the running mean is at most tol or maxProbes probes have been used.
// The first round has WithInitialRound probes (default 8); every later round
// doubles the total, capped by the budget. Probes come from the stream of
// WithDistribution/WithSeed, so probe i is the same as in probe.Sample.
//
// Stopping on budget is not an error: the Result carries Converged=false and
// Termination=ProbeBudgetExhausted. Rounds holds the running diagnostics.
//
// Errors: ErrTolerance, ErrBudget, ErrUnknownDim, ErrNotSquare, ErrNotScalar,
// and any error of the sampler except breakdown. When every probe of the run
// broke down, the Result comes with a *krylov.BreakdownError.
func Adaptive(op *operator.LinearOperator, sampler Sampler, tol float64, maxProbes int, opts ...Option) (*Result, error) {
	// Stage 1 (Validate)
	if sampler == nil {
		return nil, estimateErrorf(opAdaptive, ErrNotScalar)
	}
	if !(tol > 0) || math.IsInf(tol, 1) {
		return nil, fmt.Errorf("%s: tol=%g: %w", opAdaptive, tol, ErrTolerance)
	}
	if maxProbes < 2 {
		return nil, fmt.Errorf("%s: maxProbes=%d: %w", opAdaptive, maxProbes, ErrBudget)
	}
	rows, n := op.Dims()
	if n == 0 {
		return nil, estimateErrorf(opAdaptive, ErrUnknownDim)
	}
	if rows != n {
		return nil, estimateErrorf(opAdaptive, ErrNotSquare)
	}
	s := gatherSettings(opts)
	log := s.logger.WithEstimator("adaptive").WithDim(n)

	// Stage 2 (Rounds)
	var (
		ctx   = context.Background()
		stats Stats
		res   = &Result{}
		size  = min(s.initialRound, maxProbes)
		total int
		round int
		depth int
		b     *probe.Batch
		r     *Result
		be    *krylov.BreakdownError
		err   error
	)
	for {
		if b, err = probe.SampleFrom(s.kind, total, size, n, s.seed); err != nil {
			return nil, estimateErrorf(opAdaptive, err)
		}
		r, err = sampler(op, b, opts...)
		if err != nil && (r == nil || !errors.Is(err, krylov.ErrBreakdown)) {
			return nil, fmt.Errorf("%s: round %d: %w", opAdaptive, round+1, err)
		}
		if errors.As(err, &be) {
			depth = be.Requested
		}
		if len(r.Samples) != b.Len() {
			return nil, estimateErrorf(opAdaptive, ErrNotScalar)
		}
		for _, x := range r.Samples {
			stats.Push(x)
		}
		res.Samples = append(res.Samples, r.Samples...)
		res.Probes = append(res.Probes, r.Probes...)
		total += size
		round++

		d := Diagnostics{
			Round:    round,
			Probes:   total,
			Mean:     stats.Mean(),
			Variance: stats.Variance(),
			StdErr:   stats.StdErr(),
		}
		res.Rounds = append(res.Rounds, d)
		log.LogRound(ctx, d.Round, d.Probes, d.Mean, d.Variance, d.StdErr)

		if d.StdErr <= tol {
			res.Converged, res.Termination = true, ToleranceMet
			break
		}
		if total >= maxProbes {
			res.Termination = ProbeBudgetExhausted
			break
		}
		size = min(total, maxProbes-total)
	}

	// Stage 3 (Finalize)
	res.Value = stats.Mean()
	res.Variance = stats.Variance()
	res.StdErr = stats.StdErr()
	res.NumProbes = total
	log.LogEstimate(ctx, total, res.Value, res.StdErr, res.Converged, res.Termination.String())

	if len(res.Probes) == total {
		if err = allBreakdown(res.Probes, depth); err != nil {
			return res, estimateErrorf(opAdaptive, err)
		}
	}

	return res, nil
}
