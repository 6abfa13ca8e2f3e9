// SPDX-License-Identifier: MIT
package knn

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ErrDimensionMismatch indicates points (or a query) of differing dimension.
var ErrDimensionMismatch = errors.New("knn: dimension mismatch")

// Neighbor is one query result.
type Neighbor struct {
	Distance float64
	Index    int
}

// less orders neighbors by distance, then index.
func less(a, b Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}

	return a.Index < b.Index
}

func sortNeighbors(ns []Neighbor) {
	sort.Slice(ns, func(i, j int) bool { return less(ns[i], ns[j]) })
}

// Validate checks that every point has the same, non-zero dimension and returns it.
// An empty set has dimension 0.
func Validate(points [][]float64) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}
	d := len(points[0])
	if d == 0 {
		return 0, fmt.Errorf("point 0 is empty: %w", ErrDimensionMismatch)
	}
	for i, p := range points {
		if len(p) != d {
			return 0, fmt.Errorf("point %d has %d coords, want %d: %w", i, len(p), d, ErrDimensionMismatch)
		}
	}

	return d, nil
}

// Search returns the k points nearest to query by brute force, including any
// point at distance 0.
//
// Description:
//
//	Euclidean distances from query to every point, ordered by (distance, index).
//	Equal distances therefore resolve to the lower index, and Index.Search
//	returns the same result for the same input.
//
// Algorithm Outline:
//  1. Validate that all points share one non-zero dimension d and len(query) == d.
//  2. k <= 0 or no points returns an empty result.
//  3. Compute floats.Distance(query, p, 2) for every point except the skipped one.
//  4. Sort by (distance, index) and truncate to k.
//
// Complexity:
//   - Time O(n·d + n·log n), Space O(n).
//
// Errors:
//   - ErrDimensionMismatch if points disagree on dimension, a point is empty,
//     or the query has the wrong length.
func Search(points [][]float64, query []float64, k int) ([]Neighbor, error) {
	return search(points, query, k, -1)
}

// SearchIndex returns the k points nearest to points[idx], excluding idx itself.
// An out-of-range idx yields an empty result.
func SearchIndex(points [][]float64, idx, k int) ([]Neighbor, error) {
	if idx < 0 || idx >= len(points) {
		return nil, nil
	}

	return search(points, points[idx], k, idx)
}

// AllNeighbors runs SearchIndex for every point.
func AllNeighbors(points [][]float64, k int) ([][]Neighbor, error) {
	if _, err := Validate(points); err != nil {
		return nil, err
	}
	out := make([][]Neighbor, len(points))
	for i := range points {
		ns, err := search(points, points[i], k, i)
		if err != nil {
			return nil, err
		}
		out[i] = ns
	}

	return out, nil
}

// search is the brute-force scan behind Search, SearchIndex and AllNeighbors.
// skip < 0 keeps every point.
func search(points [][]float64, query []float64, k, skip int) ([]Neighbor, error) {
	d, err := Validate(points)
	if err != nil {
		return nil, err
	}
	if k <= 0 || len(points) == 0 {
		return nil, nil
	}
	if len(query) != d {
		return nil, fmt.Errorf("query has %d coords, want %d: %w", len(query), d, ErrDimensionMismatch)
	}

	ns := make([]Neighbor, 0, len(points))
	for i, p := range points {
		if i == skip {
			continue
		}
		ns = append(ns, Neighbor{Distance: floats.Distance(query, p, 2), Index: i})
	}
	sortNeighbors(ns)
	if len(ns) > k {
		ns = ns[:k]
	}

	return ns, nil
}
