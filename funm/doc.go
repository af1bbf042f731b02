// Package funm evaluates scalar functions of a matrix-free operator through
// the small dense projection of a Krylov decomposition.
//
// Two results are available:
//
//   - Quadrature: vᵀ f(A) v ≈ ‖v‖² Σᵢ wᵢ f(θᵢ), where θᵢ are the Ritz values of
//     the Lanczos tridiagonal and wᵢ the squared first components of its
//     eigenvectors (Gauss quadrature). Averaged over probes this is stochastic
//     Lanczos quadrature (see package estimate).
//   - Action: f(A) x ≈ ‖x‖ Qᵀ f(P) e₁ for the projection P (tridiagonal for
//     symmetric operators, Hessenberg otherwise).
//
// A function that is undefined at a projection eigenvalue (log of a
// non-positive Ritz value, inverse of zero, ...) yields *DomainError naming
// the eigenvalue instead of a NaN.
package funm
