// SPDX-License-Identifier: MIT

// Package correlation computes Pearson correlation coefficients between
// the dimensions of a dense dataset.
//
// What it provides:
//   - Pearson(a, b): the coefficient of two series, 0 for degenerate (constant) input.
//   - Compute(src): the full D×D table over every dimension pair, diagonal exactly 1.
//   - ComputeContext(ctx, src, opts...): the same table built by a bounded worker pool.
//
// Usage:
//
//	tbl, err := correlation.ComputeContext(ctx, store, correlation.WithWorkers(4))
//	r := tbl.At(0, 3)
//
// The table is symmetric by construction: every unordered pair is evaluated once
// and written to both (i,j) and (j,i).
//
// Performance:
//
//   - Time:   O(D²·N)
//   - Memory: O(D·N) for the column cache + O(D²) for the table
package correlation
