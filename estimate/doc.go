// Package estimate implements stochastic estimators for quantities of a
// matrix-free operator: the trace (Hutchinson and Hutch++), the diagonal,
// vᵀf(A)v by stochastic Lanczos quadrature (SLQ) and the log-determinant.
//
// Every estimator consumes a probe.Batch and returns a *Result with the
// estimate, the sample variance and standard error, and per-probe metadata.
// Probes are processed concurrently (WithWorkers); per-probe values are stored
// by index and reduced in index order, so results do not depend on scheduling.
//
// Adaptive draws probes in geometrically growing rounds from a deterministic
// stream until the standard error falls below a tolerance or the probe budget
// runs out. Running out of budget is reported in the Result
// (Converged=false, Termination=ProbeBudgetExhausted), not as an error.
//
// Errors:
//   - ErrEmptyBatch, ErrNotSquare, ErrTooFewProbes, ErrTolerance, ErrBudget,
//     ErrUnknownDim, ErrNotScalar.
//   - krylov.ErrNotSymmetric from SLQ/LogDet on operators not declared symmetric.
//   - *operator.ShapeError and *funm.DomainError propagate unchanged.
//   - *krylov.BreakdownError accompanies a valid Result when every probe of an
//     SLQ run broke down.
package estimate
