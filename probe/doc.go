// Package probe draws batches of random probe vectors for stochastic
// estimators.
//
// Distributions:
//
//   - Rademacher: entries ±1 with equal probability (zero mean, unit variance).
//     Minimal variance for Hutchinson trace estimation and exact for the
//     diagonal of diagonal operators.
//   - Gaussian: standard normal entries (zero mean, unit variance,
//     rotation invariant).
//
// Determinism:
//
//	Probe i of a batch is drawn from its own stream derived from (seed, i), so
//	the same seed and parameters always give bit-identical vectors, and a
//	batch can be extended later (SampleFrom) without changing earlier probes.
//	There is no package-level random state.
//
// The caller chooses the distribution; the package never substitutes one for
// another.
package probe
