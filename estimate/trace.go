// SPDX-License-Identifier: MIT
// Package: estimate
//
// Purpose:
//   - Estimate tr(A) of a square matrix-free operator from a probe batch.
//
// Exposed API:
//   - Trace(op, batch, opts...) -> (*Result, error)
//   - Hutchinson{}   : mean of vᵀAv, one matvec per probe.
//   - HutchPlusPlus{}: low-rank deflation plus Hutchinson on the remainder.
//
// Determinism:
//   - Per-probe values are stored by index and reduced in index order.

package estimate

import (
	"context"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/matfree/operator"
	"github.com/katalvlaran/matfree/probe"
)

const (
	opTrace         = "Trace"
	opHutchPlusPlus = "HutchPlusPlus"
)

// Strategy is a trace estimation algorithm selectable with WithStrategy.
type Strategy interface {
	// Name returns a stable identifier used in logs.
	Name() string
	trace(op *operator.LinearOperator, b *probe.Batch, s *settings) (*Result, error)
}

// Hutchinson estimates tr(A) as the mean of vᵢᵀA·vᵢ. Unbiased for Rademacher
// and Gaussian probes; Rademacher has the smaller variance. Probes reach the
// operator in contiguous chunks through op.ApplyBatch.
type Hutchinson struct{}

// Name implements Strategy.
func (Hutchinson) Name() string { return "hutchinson" }

// HutchPlusPlus spends one third of the batch on a range sketch Q of A, takes
// tr(QᵀAQ) exactly, and runs Hutchinson on (I−QQᵀ)A(I−QQᵀ) with the remaining
// probes. For matrices with decaying spectra the variance drops sharply.
type HutchPlusPlus struct{}

// Name implements Strategy.
func (HutchPlusPlus) Name() string { return "hutch++" }

// Trace estimates tr(A) with the configured Strategy (default Hutchinson).
//
// Errors: ErrEmptyBatch, ErrNotSquare, ErrTooFewProbes (Hutch++),
// *operator.ShapeError, operator callback errors.
// Complexity: batch.Len() matvecs (Hutch++: about 4/3 of that) + O(m·n).
func Trace(op *operator.LinearOperator, b *probe.Batch, opts ...Option) (*Result, error) {
	if err := checkBatch(op, b); err != nil {
		return nil, estimateErrorf(opTrace, err)
	}
	s := gatherSettings(opts)
	log := s.logger.WithEstimator(s.strategy.Name()).WithDim(b.Dim)

	res, err := s.strategy.trace(op, b, s)
	if err != nil {
		return nil, estimateErrorf(opTrace, err)
	}
	log.LogEstimate(context.Background(), res.NumProbes, res.Value, res.StdErr, res.Termination != ProbeBudgetExhausted, res.Termination.String())

	return res, nil
}

func (Hutchinson) trace(op *operator.LinearOperator, b *probe.Batch, s *settings) (*Result, error) {
	samples := make([]float64, b.Len())
	err := forEachChunk(s.workers, b.Len(), func(_ context.Context, lo, hi int) error {
		ys, err := applySquareBatch(op, b.Vectors[lo:hi])
		if err != nil {
			return err
		}
		for i, y := range ys {
			samples[lo+i] = floats.Dot(b.Vectors[lo+i], y)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &Result{Samples: samples, Termination: FixedBatch}
	res.summarize()

	return res, nil
}

// trace implements Hutch++.
//
// Implementation:
//   - Stage 1: k = ⌊m/3⌋ sketch probes S (clamped to n); Y = A·S.
//
// Every stage applies A through op.ApplyBatch, one call per worker chunk.
//   - Stage 2: Q = thin orthonormal basis of Y (Householder QR).
//   - Stage 3: t₀ = Σ qⱼᵀA·qⱼ (k matvecs).
//   - Stage 4: for the other m−k probes g: p = g − Q·Qᵀg, sample = t₀ + pᵀA·p.
//
// The samples average to the estimate, so Variance/StdErr describe the
// deflated remainder only.
func (HutchPlusPlus) trace(op *operator.LinearOperator, b *probe.Batch, s *settings) (*Result, error) {
	// Stage 1 (Validate & sketch)
	m := b.Len()
	if m < 3 {
		return nil, estimateErrorf(opHutchPlusPlus, ErrTooFewProbes)
	}
	var (
		n = b.Dim
		k = min(m/3, n)
		y = mat.NewDense(n, k, nil)
	)
	cols := make([][]float64, k)
	err := forEachChunk(s.workers, k, func(_ context.Context, lo, hi int) error {
		ys, err := applySquareBatch(op, b.Vectors[lo:hi])
		if err != nil {
			return err
		}
		copy(cols[lo:hi], ys)
		return nil
	})
	if err != nil {
		return nil, estimateErrorf(opHutchPlusPlus, err)
	}
	for j := range cols {
		y.SetCol(j, cols[j])
	}

	// Stage 2 (Range basis)
	var (
		qr   mat.QR
		full mat.Dense
	)
	qr.Factorize(y)
	qr.QTo(&full)
	q := full.Slice(0, n, 0, k)
	basis := make([][]float64, k)
	for j := range basis {
		basis[j] = mat.Col(nil, j, q)
	}

	// Stage 3 (Exact part)
	exact := make([]float64, k)
	err = forEachChunk(s.workers, k, func(_ context.Context, lo, hi int) error {
		aqs, err := applySquareBatch(op, basis[lo:hi])
		if err != nil {
			return err
		}
		for j, aq := range aqs {
			exact[lo+j] = floats.Dot(basis[lo+j], aq)
		}
		return nil
	})
	if err != nil {
		return nil, estimateErrorf(opHutchPlusPlus, err)
	}
	t0 := floats.Sum(exact)

	// Stage 4 (Deflated remainder)
	rest := b.Vectors[k:]
	samples := make([]float64, len(rest))
	err = forEachChunk(s.workers, len(rest), func(_ context.Context, lo, hi int) error {
		ps := make([][]float64, hi-lo)
		for i := range ps {
			g := rest[lo+i]
			ps[i] = append([]float64(nil), g...)
			for j := range basis {
				floats.AddScaled(ps[i], -floats.Dot(basis[j], g), basis[j])
			}
		}
		aps, err := applySquareBatch(op, ps)
		if err != nil {
			return err
		}
		for i, ap := range aps {
			samples[lo+i] = t0 + floats.Dot(ps[i], ap)
		}
		return nil
	})
	if err != nil {
		return nil, estimateErrorf(opHutchPlusPlus, err)
	}

	res := &Result{Samples: samples, Termination: FixedBatch}
	res.summarize()
	res.NumProbes = m

	return res, nil
}
