// SPDX-License-Identifier: MIT
package knn_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/dimscope/knn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenPoints() [][]float64 {
	return [][]float64{
		{0, 0}, {1, 0}, {0, 2}, {3, 3}, {-1, -1},
		{5, 5}, {0.5, 0.5}, {-2, 0}, {4, -4}, {0, -3},
	}
}

func randomPoints(n, d int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	pts := make([][]float64, n)
	for i := range pts {
		pts[i] = make([]float64, d)
		for j := range pts[i] {
			pts[i][j] = rng.Float64()*10 - 5
		}
	}

	return pts
}

func TestSearchIndexExcludesSelf(t *testing.T) {
	ns, err := knn.SearchIndex(tenPoints(), 0, 3)
	require.NoError(t, err)
	require.Len(t, ns, 3)

	assert.Equal(t, 6, ns[0].Index)
	assert.InDelta(t, math.Sqrt(0.5), ns[0].Distance, 1e-12)
	assert.Equal(t, 1, ns[1].Index)
	assert.Equal(t, 4, ns[2].Index)
	for i, n := range ns {
		assert.NotEqual(t, 0, n.Index)
		if i > 0 {
			assert.LessOrEqual(t, ns[i-1].Distance, n.Distance)
		}
	}
}

func TestSearchIncludesCoincidentPoint(t *testing.T) {
	ns, err := knn.Search(tenPoints(), []float64{0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, ns, 2)
	assert.Equal(t, knn.Neighbor{Distance: 0, Index: 0}, ns[0])
	assert.Equal(t, 6, ns[1].Index)
}

func TestTiesBreakByIndex(t *testing.T) {
	pts := [][]float64{{0, 0}, {0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	ns, err := knn.SearchIndex(pts, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []knn.Neighbor{{Distance: 1, Index: 1}, {Distance: 1, Index: 2}, {Distance: 1, Index: 3}}, ns)
}

func TestKLargerThanN(t *testing.T) {
	ns, err := knn.SearchIndex(tenPoints(), 3, 50)
	require.NoError(t, err)
	assert.Len(t, ns, 9)

	ns, err = knn.Search(tenPoints(), []float64{9, 9}, 50)
	require.NoError(t, err)
	assert.Len(t, ns, 10)
}

func TestEdgeCases(t *testing.T) {
	ns, err := knn.SearchIndex(tenPoints(), 10, 3)
	require.NoError(t, err)
	assert.Empty(t, ns)

	ns, err = knn.Search(tenPoints(), []float64{0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, ns)

	_, err = knn.Search(tenPoints(), []float64{0}, 1)
	require.ErrorIs(t, err, knn.ErrDimensionMismatch)

	_, err = knn.AllNeighbors([][]float64{{0, 0}, {1}}, 1)
	require.ErrorIs(t, err, knn.ErrDimensionMismatch)
}

func TestAllNeighbors(t *testing.T) {
	pts := tenPoints()
	all, err := knn.AllNeighbors(pts, 2)
	require.NoError(t, err)
	require.Len(t, all, len(pts))
	for i, ns := range all {
		want, err := knn.SearchIndex(pts, i, 2)
		require.NoError(t, err)
		assert.Equal(t, want, ns)
	}
}

func TestIndexMatchesBruteForce(t *testing.T) {
	for _, d := range []int{2, 3, 7} {
		pts := randomPoints(300, d, int64(d))
		ix, err := knn.NewIndex(pts)
		require.NoError(t, err)
		require.Equal(t, len(pts), ix.Len())

		for q := 0; q < len(pts); q += 17 {
			want, err := knn.SearchIndex(pts, q, 5)
			require.NoError(t, err)
			got, err := ix.SearchIndex(q, 5)
			require.NoError(t, err)
			requireSameNeighbors(t, want, got)

			want, err = knn.Search(pts, pts[q], 4)
			require.NoError(t, err)
			got, err = ix.Search(pts[q], 4)
			require.NoError(t, err)
			requireSameNeighbors(t, want, got)
		}
	}
}

func TestIndexTiesAndDuplicates(t *testing.T) {
	pts := [][]float64{{0, 0}, {0, 1}, {1, 0}, {0, -1}, {-1, 0}, {0, 0}}
	ix, err := knn.NewIndex(pts)
	require.NoError(t, err)

	ns, err := ix.SearchIndex(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []knn.Neighbor{{Distance: 0, Index: 5}, {Distance: 1, Index: 1}, {Distance: 1, Index: 2}}, ns)

	ns, err = ix.Search([]float64{0, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, []knn.Neighbor{{Distance: 0, Index: 0}}, ns)
}

func TestIndexEmptyAndErrors(t *testing.T) {
	ix, err := knn.NewIndex(nil)
	require.NoError(t, err)
	ns, err := ix.Search([]float64{1, 2}, 3)
	require.NoError(t, err)
	assert.Empty(t, ns)

	ix, err = knn.NewIndex(tenPoints())
	require.NoError(t, err)
	_, err = ix.Search([]float64{1, 2, 3}, 3)
	require.ErrorIs(t, err, knn.ErrDimensionMismatch)
	assert.Nil(t, ix.Point(99))
	assert.Equal(t, []float64{3, 3}, ix.Point(3))
}

func requireSameNeighbors(t *testing.T, want, got []knn.Neighbor) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.Equal(t, want[i].Index, got[i].Index, "rank %d", i)
		require.InDelta(t, want[i].Distance, got[i].Distance, 1e-9)
	}
}
