// Package operator defines the only representation of a linear map used by
// matfree: a callback that maps a vector to a vector.
//
// What & Why:
//
//	Large (or implicit) matrices are never materialized. A LinearOperator wraps
//	a Func together with its shape and a caller-declared symmetry flag. Every
//	algorithm upstream (krylov, estimate, funm) touches the map only through
//	Apply, ApplyTranspose and ApplyBatch.
//
// Contract:
//
//   - Apply(x) requires len(x) == Cols() and the callback must return Rows()
//     values; violations surface as *ShapeError (errors.Is(err, ErrShape)).
//   - Dimensions are declared with WithDim/WithShape or inferred from the first
//     call. Once fixed they never change.
//   - Symmetry is declared by the caller (WithSymmetric) and never verified by
//     probing. Declaring a non-symmetric map symmetric yields meaningless Lanczos
//     output, not an error.
//   - The callback must be deterministic and safe for concurrent use when the
//     operator is shared across goroutines (estimators evaluate probes in parallel).
//
// Constructors for common maps (Identity, Diagonal, Scaled, Shifted, Dense,
// Sparse, Counting) are closures over captured state, not a hierarchy of matrix
// kinds.
//
// Complexity:
//
//	Apply adds O(1) validation on top of the callback cost.
package operator
