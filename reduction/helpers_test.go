// SPDX-License-Identifier: MIT
package reduction_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/dimscope/reduction"
	"github.com/stretchr/testify/require"
)

const tol = 1e-8

// flatY has a single direction of variance along the first axis.
var flatY = [][]float64{
	{1.2, 0.75},
	{1.1, 0.75},
	{1.0, 0.75},
	{1.3, 0.75},
}

// spiral returns n points on a rising helix.
func spiral(n int) [][]float64 {
	pts := make([][]float64, n)
	for i := range pts {
		t := 0.5 * float64(i)
		pts[i] = []float64{math.Cos(t), math.Sin(t), 0.1 * t}
	}

	return pts
}

// anisotropic returns n seeded points with clearly separated variances per axis.
func anisotropic(n int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	pts := make([][]float64, n)
	for i := range pts {
		a, b, c := rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()
		pts[i] = []float64{3*a + 0.5*b, b - 0.2*c + 4, 0.3 * c}
	}

	return pts
}

// fitted builds an engine over rows and runs it.
func fitted(tb testing.TB, m reduction.Method, k reduction.BackendKind, rows [][]float64, low int, opts ...reduction.Option) *reduction.Engine {
	tb.Helper()
	e := reduction.New(append([]reduction.Option{reduction.WithMethod(m), reduction.WithBackend(k)}, opts...)...)
	require.NoError(tb, e.SetSize(len(rows), low, len(rows[0])))
	for i, r := range rows {
		require.NoError(tb, e.SetInputData(i, r))
	}
	require.NoError(tb, e.Run())
	require.Equal(tb, reduction.StatusFitted, e.Status())

	return e
}

func outputs(tb testing.TB, e *reduction.Engine) [][]float64 {
	tb.Helper()
	pts, err := e.OutputPoints()
	require.NoError(tb, err)

	return pts
}
