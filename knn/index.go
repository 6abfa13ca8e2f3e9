// SPDX-License-Identifier: MIT
package knn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// point is a kd-tree entry that remembers its position in the input slice.
type point struct {
	coords []float64
	idx    int
}

// Compare implements kdtree.Comparable.
func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(point)

	return p.coords[d] - q.coords[d]
}

// Dims implements kdtree.Comparable.
func (p point) Dims() int { return len(p.coords) }

// Distance implements kdtree.Comparable and returns the squared Euclidean distance.
func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	var s float64
	for i, v := range p.coords {
		dv := v - q.coords[i]
		s += dv * dv
	}

	return s
}

// points satisfies kdtree.Interface.
type points []point

func (p points) Index(i int) kdtree.Comparable         { return p[i] }
func (p points) Len() int                              { return len(p) }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }
func (p points) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(plane{points: p, Dim: d}, kdtree.MedianOfMedians(plane{points: p, Dim: d}))
}

// plane sorts points along one dimension for pivot selection.
type plane struct {
	kdtree.Dim
	points
}

func (p plane) Less(i, j int) bool {
	return p.points[i].coords[p.Dim] < p.points[j].coords[p.Dim]
}
func (p plane) Slice(start, end int) kdtree.SortSlicer { return plane{Dim: p.Dim, points: p.points[start:end]} }
func (p plane) Swap(i, j int)                          { p.points[i], p.points[j] = p.points[j], p.points[i] }

// Index is a kd-tree over a fixed point set. It is safe for concurrent queries.
type Index struct {
	tree *kdtree.Tree
	pts  [][]float64
	dims int
}

// NewIndex copies points and builds the tree.
func NewIndex(pts [][]float64) (*Index, error) {
	d, err := Validate(pts)
	if err != nil {
		return nil, err
	}
	own := make([][]float64, len(pts))
	entries := make(points, len(pts))
	for i, p := range pts {
		own[i] = append([]float64(nil), p...)
		entries[i] = point{coords: own[i], idx: i}
	}
	ix := &Index{pts: own, dims: d}
	if len(entries) > 0 {
		ix.tree = kdtree.New(entries, false)
	}

	return ix, nil
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return len(ix.pts) }

// Point returns a copy of point i, or nil when out of range.
func (ix *Index) Point(i int) []float64 {
	if i < 0 || i >= len(ix.pts) {
		return nil
	}

	return append([]float64(nil), ix.pts[i]...)
}

// Search is the kd-tree counterpart of the package-level Search.
//
// Description:
//
//	Returns the same neighbors, in the same (distance, index) order, as the
//	brute-force Search over the points the Index was built from.
//
// Algorithm Outline:
//  1. Check len(query) against the indexed dimension; k <= 0 or an empty tree
//     returns an empty result.
//  2. NearestSet with an NKeeper of size k (k+1 when a point is skipped) gives
//     the k-th squared distance r².
//  3. NearestSet with a DistKeeper of radius r² gathers every point with
//     distance <= r, so all points tied at the boundary are included.
//  4. Drop the skipped index, take square roots, sort by (distance, index) and
//     truncate to k.
//
// Complexity:
//   - Time O(log n + m) expected per query for m points inside the radius,
//     degrading to O(n) on adversarial layouts. Space O(m).
//
// Errors:
//   - ErrDimensionMismatch if the query length differs from the indexed dimension.
func (ix *Index) Search(query []float64, k int) ([]Neighbor, error) {
	return ix.search(query, k, -1)
}

// SearchIndex is the kd-tree counterpart of the package-level SearchIndex.
func (ix *Index) SearchIndex(i, k int) ([]Neighbor, error) {
	if i < 0 || i >= len(ix.pts) {
		return nil, nil
	}

	return ix.search(ix.pts[i], k, i)
}

// search implements Search and SearchIndex. skip < 0 keeps every point.
func (ix *Index) search(query []float64, k, skip int) ([]Neighbor, error) {
	if k <= 0 || ix.tree == nil {
		return nil, nil
	}
	if len(query) != ix.dims {
		return nil, fmt.Errorf("query has %d coords, want %d: %w", len(query), ix.dims, ErrDimensionMismatch)
	}
	q := point{coords: query, idx: -1}

	want := k
	if skip >= 0 {
		want++
	}
	nk := kdtree.NewNKeeper(want)
	ix.tree.NearestSet(nk, q)
	radius := 0.0
	for _, cd := range nk.Heap {
		if cd.Comparable != nil && cd.Dist > radius {
			radius = cd.Dist
		}
	}

	dk := kdtree.NewDistKeeper(radius)
	ix.tree.NearestSet(dk, q)
	ns := make([]Neighbor, 0, len(dk.Heap))
	for _, cd := range dk.Heap {
		if cd.Comparable == nil {
			continue
		}
		p := cd.Comparable.(point)
		if p.idx == skip {
			continue
		}
		ns = append(ns, Neighbor{Distance: math.Sqrt(cd.Dist), Index: p.idx})
	}
	sortNeighbors(ns)
	if len(ns) > k {
		ns = ns[:k]
	}

	return ns, nil
}
