// SPDX-License-Identifier: MIT

package estimate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Termination explains why an estimator stopped drawing probes.
type Termination int

const (
	// FixedBatch: the caller supplied the batch; no stopping rule applied.
	FixedBatch Termination = iota
	// ToleranceMet: the standard error fell to the requested tolerance.
	ToleranceMet
	// ProbeBudgetExhausted: the probe budget ran out first.
	ProbeBudgetExhausted
)

// String returns a stable name of t.
func (t Termination) String() string {
	switch t {
	case FixedBatch:
		return "fixed-batch"
	case ToleranceMet:
		return "tolerance-met"
	case ProbeBudgetExhausted:
		return "probe-budget-exhausted"
	default:
		return fmt.Sprintf("Termination(%d)", int(t))
	}
}

// Diagnostics is the running state after one adaptive round.
type Diagnostics struct {
	Round    int
	Probes   int
	Mean     float64
	Variance float64
	StdErr   float64
}

// ProbeInfo is per-probe metadata of Krylov-based estimators.
type ProbeInfo struct {
	Achieved  int
	Breakdown bool
}

// Result is the outcome of an estimator.
type Result struct {
	// Value is the scalar estimate (trace, quadrature, log-determinant).
	Value float64
	// Vector is the vector estimate (diagonal); nil for scalar estimators.
	Vector []float64

	// Samples holds the per-probe values whose mean is Value, in probe order.
	Samples []float64

	// Variance is the unbiased sample variance of Samples and StdErr the
	// standard error of Value. Both are +Inf with fewer than two samples.
	Variance float64
	StdErr   float64

	// VectorVariance is the per-entry sample variance of vector estimates.
	VectorVariance []float64

	NumProbes int
	// Converged is true only when an adaptive run met its tolerance.
	Converged   bool
	Termination Termination

	Rounds []Diagnostics
	Probes []ProbeInfo
}

// summarize fills Value, Variance and StdErr from Samples.
func (r *Result) summarize() {
	r.NumProbes = len(r.Samples)
	if len(r.Samples) < 2 {
		r.Variance, r.StdErr = math.Inf(1), math.Inf(1)
		if len(r.Samples) == 1 {
			r.Value = r.Samples[0]
		}
		return
	}
	r.Value, r.Variance = stat.MeanVariance(r.Samples, nil)
	r.StdErr = math.Sqrt(r.Variance / float64(len(r.Samples)))
}

// Stats accumulates a running mean and variance (Welford's algorithm).
// The zero value is ready to use.
type Stats struct {
	n    int
	mean float64
	m2   float64
}

// Push adds one sample.
func (s *Stats) Push(x float64) {
	s.n++
	delta := x - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (x - s.mean)
}

// N returns the number of samples.
func (s *Stats) N() int { return s.n }

// Mean returns the running mean (0 when empty).
func (s *Stats) Mean() float64 { return s.mean }

// Variance returns the unbiased sample variance, +Inf with fewer than two samples.
func (s *Stats) Variance() float64 {
	if s.n < 2 {
		return math.Inf(1)
	}
	return s.m2 / float64(s.n-1)
}

// StdErr returns √(Variance/N).
func (s *Stats) StdErr() float64 {
	if s.n < 2 {
		return math.Inf(1)
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}
