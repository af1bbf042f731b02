// Package matfree estimates quantities of linear operators that are known
// only through matrix-vector products: the trace, the diagonal, the
// log-determinant, the action f(A)·x of a matrix function, and partial
// eigenvalue and singular value spectra.
//
// The library never materializes the operator. Every algorithm is built from
// three primitives:
//
//	operator/:  LinearOperator, a matvec callback plus declared shape and symmetry
//	probe/:     reproducible Rademacher/Gaussian probe batches, one stream per probe
//	krylov/:    Lanczos, Arnoldi and Golub–Kahan bidiagonalization with breakdown reporting
//
// and two layers on top of them:
//
//	estimate/:  Hutchinson, Hutch++, diagonal and SLQ estimators, adaptive stopping
//	funm/:      f(A)·x and vᵀf(A)v from small Krylov projections
//
// This package wires them together behind a single Config, settable through
// functional options or a YAML file:
//
//	cfg, err := matfree.LoadConfig("matfree.yaml")
//	res, err := matfree.LogDet(op, matfree.WithConfig(cfg))
//
// Determinism: identical operator, configuration and seed give bit-identical
// results regardless of the number of workers.
//
// The command in cmd/matfree runs the estimators on Matrix Market files.
package matfree
