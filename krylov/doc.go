// Package krylov builds orthonormal Krylov bases and the small dense
// projections of a matrix-free operator onto them.
//
// Algorithms:
//
//   - Lanczos (symmetric operators): three-term recurrence, projection is a
//     symmetric tridiagonal T with A·Qᵀ ≈ Qᵀ·T.
//   - Arnoldi (general operators): modified Gram–Schmidt against every prior
//     vector, projection is an upper-Hessenberg H. Per-step cost grows with the
//     step index.
//   - Golub–Kahan–Lanczos bidiagonalization (any operator with a transpose):
//     two bases and an upper-bidiagonal B, the basis of partial SVDs.
//
// Depth is the number of basis vectors requested; 1 <= depth <= n.
//
// Reorthogonalization (Lanczos and Arnoldi):
//
//   - None: Lanczos orthogonalizes against the previous two vectors only.
//     Cheapest; orthogonality degrades once Ritz values converge, most visibly
//     for clustered spectra (spurious duplicate Ritz values).
//   - Selective: after the local step, the overlap of the new vector with the
//     whole basis is measured and a full two-pass reorthogonalization runs
//     only when it exceeds √ε. Cost O(k·n) per step for the check.
//   - Full: always reorthogonalize twice against the whole basis. O(k·n) per
//     step, orthogonality at working precision.
//
// Breakdown:
//
//	When the residual norm drops below BreakdownTolerance times a running
//	estimate of ‖A‖, the Krylov space is invariant and the recurrence stops.
//	This is a valid outcome: the Decomposition reports Requested vs Achieved
//	depth and Breakdown=true, and Err() returns a *BreakdownError for callers
//	that want to treat it as a condition. Nothing continues with zero vectors.
//
// Small dense work (Ritz pairs, SVD of B) is delegated to gonum/mat; the
// operator itself is never materialized.
package krylov
