// SPDX-License-Identifier: MIT

package estimate

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBatch is returned for a nil or empty probe batch.
	ErrEmptyBatch = errors.New("estimate: empty probe batch")

	// ErrNotSquare is returned when the operator maps n-vectors to m-vectors, m ≠ n.
	ErrNotSquare = errors.New("estimate: operator is not square")

	// ErrTooFewProbes is returned by Hutch++ for batches with fewer than 3 probes.
	ErrTooFewProbes = errors.New("estimate: too few probes")

	// ErrTolerance is returned for a non-positive or non-finite tolerance.
	ErrTolerance = errors.New("estimate: tolerance must be finite and > 0")

	// ErrBudget is returned when the probe budget is smaller than 2.
	ErrBudget = errors.New("estimate: probe budget must be >= 2")

	// ErrUnknownDim is returned by Adaptive when the operator's dimension is
	// neither declared nor inferred yet.
	ErrUnknownDim = errors.New("estimate: operator dimension unknown")

	// ErrNotScalar is returned by Adaptive for samplers without per-probe samples.
	ErrNotScalar = errors.New("estimate: sampler does not produce scalar samples")
)

// estimateErrorf wraps err with the estimator name.
func estimateErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
