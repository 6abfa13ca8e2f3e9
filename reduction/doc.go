// SPDX-License-Identifier: MIT

// Package reduction fits low-dimensional embeddings of dense datasets and
// projects new points through the fitted model.
//
// Methods:
//   - PCA        : linear; mean-centering, covariance, leading eigenvectors.
//   - KernelPCA  : Gaussian kernel Gram matrix, double-centered, leading eigenvectors.
//   - KernelLLE  : locally linear embedding with kernel-space reconstruction weights.
//
// Backends implement one method each behind the Backend interface. PCA has a
// native backend (package matrix, Jacobi eigen-solver) and a toolkit backend
// (gonum stat.PC); the kernel methods run on the toolkit (gonum mat.EigenSym).
// AvailableMethods and Backends enumerate what one binary supports.
//
// Engine lifecycle:
//
//	Uninitialized → Sized (SetSize) → InputLoaded (SetInputData/LoadTable) → Fitted | Failed (Run)
//
// Every Run is a full refit. Output and projection queries require StatusFitted;
// changing input moves the engine back to InputLoaded. A failed fit zeroes the
// output, reports StatusFailed and returns an error matching ErrFitFailed; the
// engine stays usable for the next Run.
//
// Concurrency: queries may run concurrently; only one fit runs at a time and a
// concurrent Run, SetSize or SetInputData returns ErrFitInProgress.
package reduction
