// SPDX-License-Identifier: MIT

// Package knn answers k-nearest-neighbor queries over projected points.
//
// Ordering contract (shared by every entry point):
//   - results are sorted by ascending Euclidean distance;
//   - exactly equal distances are ordered by ascending point index;
//   - at most min(k, N) neighbors are returned (min(k, N-1) for SearchIndex).
//
// Self-inclusion: SearchIndex excludes the query point itself. Search takes
// arbitrary coordinates and includes every stored point, so a stored point
// equal to the query appears first at distance 0.
//
// Search and SearchIndex are brute force (O(N log N) per query). Index builds a
// gonum kd-tree once and honors the same contract; use it when N outgrows the
// interactive budget of the brute-force path.
package knn
