// SPDX-License-Identifier: MIT

// Package matrix provides the dense numeric kernels used by the dimscope
// engines: a row-major Dense type, column statistics, and the small set of
// linear-algebra routines that dimensionality reduction and curve fitting
// rely on.
//
// What is inside:
//
//   - Dense: bounds-checked row-major float64 storage (At/Set never panic).
//   - Statistics: CenterColumns, Covariance (sample, divisor r-1).
//   - Algebra: Mul, Transpose, Scale, MatVec.
//   - Spectral: Eigen (Jacobi rotations on symmetric input) and EigenSorted,
//     which orders eigenpairs by descending eigenvalue and fixes eigenvector
//     signs so that repeated runs are bit-for-bit identical.
//   - Solvers: LU (Doolittle, no pivoting) and Solve (Gaussian elimination
//     with partial pivoting and an epsilon singularity guard).
//
// Determinism:
//
//	Every kernel uses fixed loop orders and no randomness, so identical input
//	always produces identical output. Callers (PCA, curve fitting) depend on
//	this for reproducible projections.
//
// Errors:
//
//	All failures are sentinel errors from errors.go, wrapped with an
//	operation tag ("Eigen: matrix: ..."). Match them with errors.Is.
package matrix
