// SPDX-License-Identifier: MIT

// Package dimscope is an in-memory toolkit for exploring high-dimensional
// numeric tables: which dimensions move together, what the data looks like
// squeezed into two or three coordinates, who sits next to whom, and which
// trend runs through a cloud of points.
//
// 🚀 What is in the box?
//
//	• Store: dense element × dimension table, lazy min/max, enable mask & labels
//	• Correlation: parallel Pearson table over every dimension pair
//	• Indirection: visual → real dimension view with correlation-driven ordering
//	• Reduction: PCA (native & gonum), Kernel PCA, Kernel LLE behind one engine
//	• k-NN: brute force and kd-tree neighbor queries on embeddings
//	• Curve fitting: quadratic & cubic least-squares trends
//
// Packages:
//
//	store/        tabular store, whitespace table + ".meta" sidecar loader
//	correlation/  Pearson coefficient and the D×D table
//	indirect/     visible-dimension view (Recompute, SortData, SwapDims)
//	matrix/       dense row-major matrices, covariance, Jacobi eigen, Solve
//	reduction/    Engine, Backend registry, Prometheus metrics
//	knn/          Search / SearchIndex, kd-tree Index
//	curvefit/     Quadratic, Cubic, Fit
//	config/       YAML configuration for the dimscope command
//	cmd/dimscope  CLI: correlate, reduce, neighbors, fit
//
// Quick pipeline:
//
//	table ─▶ store ─▶ indirect view ─▶ reduction ─▶ knn / curvefit
//
//	go install github.com/katalvlaran/dimscope/cmd/dimscope@latest
package dimscope
