// SPDX-License-Identifier: MIT

package krylov

import (
	"errors"
	"fmt"
)

var (
	// ErrDepth is returned when depth < 1 or depth exceeds the dimension.
	ErrDepth = errors.New("krylov: invalid depth")

	// ErrZeroVector is returned for a zero, empty or non-finite start vector.
	ErrZeroVector = errors.New("krylov: start vector is zero or not finite")

	// ErrNotSymmetric is returned when Lanczos is asked to run on an operator
	// that was not declared symmetric.
	ErrNotSymmetric = errors.New("krylov: operator not declared symmetric")

	// ErrNotSquare is returned when Lanczos/Arnoldi run on a rectangular map.
	ErrNotSquare = errors.New("krylov: operator is not square")

	// ErrBreakdown matches *BreakdownError.
	ErrBreakdown = errors.New("krylov: convergence breakdown")

	// ErrEigenFailed is returned when a small dense factorization fails.
	ErrEigenFailed = errors.New("krylov: dense factorization failed")

	// ErrNoProjection is returned when a decomposition lacks the projection
	// an operation needs (e.g. Ritz on an Arnoldi result).
	ErrNoProjection = errors.New("krylov: decomposition has no suitable projection")
)

// BreakdownError reports that a recurrence terminated before the requested
// depth because the Krylov subspace became invariant. Achieved is the
// dimension of that subspace. It is informational: the decomposition that
// accompanies it is valid.
type BreakdownError struct {
	Requested int
	Achieved  int
}

func (e *BreakdownError) Error() string {
	return fmt.Sprintf("krylov: breakdown at depth %d of %d requested", e.Achieved, e.Requested)
}

// Is reports whether target is ErrBreakdown.
func (e *BreakdownError) Is(target error) bool { return target == ErrBreakdown }
