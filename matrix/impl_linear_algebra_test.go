// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the linear-algebra kernels.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/dimscope/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMul(t *testing.T) {
	a := mustDenseFrom(t, 2, 2, 1, 2, 3, 4)
	b := mustDenseFrom(t, 2, 2, 5, 6, 7, 8)
	want := mustDenseFrom(t, 2, 2, 19, 22, 43, 50)

	got, err := matrix.Mul(a, b)
	require.NoError(t, err)
	requireDenseClose(t, want, got, 0)

	// generic operands take the materialization path and must agree bitwise
	got, err = matrix.Mul(hide{a}, hide{b})
	require.NoError(t, err)
	requireDenseClose(t, want, got, 0)

	_, err = matrix.Mul(a, mustDenseFrom(t, 3, 1, 1, 2, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestTransposeScaleMatVec(t *testing.T) {
	m := mustDenseFrom(t, 2, 3, 1, 2, 3, 4, 5, 6)

	tr, err := matrix.Transpose(m)
	require.NoError(t, err)
	requireDenseClose(t, mustDenseFrom(t, 3, 2, 1, 4, 2, 5, 3, 6), tr, 0)

	sc, err := matrix.Scale(m, -2)
	require.NoError(t, err)
	requireDenseClose(t, mustDenseFrom(t, 2, 3, -2, -4, -6, -8, -10, -12), sc, 0)

	y, err := matrix.MatVec(m, []float64{1, 0, -1})
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -2}, y)

	_, err = matrix.MatVec(m, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Transpose(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestEigenErrors(t *testing.T) {
	_, _, err := matrix.Eigen(mustDenseFrom(t, 2, 2, 1, 2, 3, 4), 1e-12, 100)
	require.ErrorIs(t, err, matrix.ErrAsymmetry)

	_, _, err = matrix.Eigen(mustDenseFrom(t, 2, 2, 2, 1, 1, 2), 1e-12, 0)
	require.ErrorIs(t, err, matrix.ErrMatrixEigenFailed)
}

func TestEigenSortedTwoByTwo(t *testing.T) {
	vals, vecs, err := matrix.EigenSorted(mustDenseFrom(t, 2, 2, 2, 1, 1, 2), 2)
	require.NoError(t, err)
	require.InDelta(t, 3.0, vals[0], tolTight)
	require.InDelta(t, 1.0, vals[1], tolTight)

	h := 1 / math.Sqrt2
	requireDenseClose(t, mustDenseFrom(t, 2, 2, h, h, h, -h), vecs, tolTight)
}

// TestEigenSortedReconstruction checks A·v = λ·v, orthonormality and descending order
// on a random symmetric matrix with large magnitude entries.
func TestEigenSortedReconstruction(t *testing.T) {
	const n = 6
	r := mustDenseFrom(t, n, n, make([]float64, n*n)...)
	fillDenseRand(t, r, 7)
	rt, err := matrix.Transpose(r)
	require.NoError(t, err)
	a, err := matrix.Mul(rt, r)
	require.NoError(t, err)
	a, err = matrix.Scale(a, 1e7)
	require.NoError(t, err)

	vals, vecs, err := matrix.EigenSorted(a, n)
	require.NoError(t, err)

	for c := 0; c < n; c++ {
		if c > 0 {
			require.GreaterOrEqual(t, vals[c-1], vals[c])
		}
		require.InDelta(t, 1.0, columnNorm(t, vecs, c), 1e-9)

		v, err := matrix.Col(vecs, c, nil)
		require.NoError(t, err)
		av, err := matrix.MatVec(a, v)
		require.NoError(t, err)
		for i := range v {
			require.InDelta(t, vals[c]*v[i], av[i], 1e-6*math.Abs(vals[0]))
		}
	}

	vt, err := matrix.Transpose(vecs)
	require.NoError(t, err)
	gram, err := matrix.Mul(vt, vecs)
	require.NoError(t, err)
	id, err := matrix.NewIdentity(n)
	require.NoError(t, err)
	requireDenseClose(t, id, gram, 1e-9)
}

func TestEigenSortedInvalidK(t *testing.T) {
	m := mustDenseFrom(t, 2, 2, 1, 0, 0, 1)
	_, _, err := matrix.EigenSorted(m, 0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, _, err = matrix.EigenSorted(m, 3)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, _, err = matrix.EigenSorted(nil, 1)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestEigenSortedZeroMatrix(t *testing.T) {
	vals, vecs, err := matrix.EigenSorted(mustDenseFrom(t, 2, 2, 0, 0, 0, 0), 1)
	require.NoError(t, err)
	require.Equal(t, []float64{0}, vals)
	require.InDelta(t, 1.0, columnNorm(t, vecs, 0), tolTight)
}

func TestSolve(t *testing.T) {
	x, err := matrix.Solve(mustDenseFrom(t, 2, 2, 2, 1, 1, 3), []float64{3, 5})
	require.NoError(t, err)
	require.InDelta(t, 0.8, x[0], tolTight)
	require.InDelta(t, 1.4, x[1], tolTight)

	// zero leading pivot is handled by row exchange
	x, err = matrix.Solve(mustDenseFrom(t, 2, 2, 0, 1, 1, 0), []float64{2, 3})
	require.NoError(t, err)
	require.InDelta(t, 3.0, x[0], tolTight)
	require.InDelta(t, 2.0, x[1], tolTight)

	_, err = matrix.Solve(mustDenseFrom(t, 2, 2, 1, 2, 2, 4), []float64{1, 1})
	require.ErrorIs(t, err, matrix.ErrSingular)

	_, err = matrix.Solve(mustDenseFrom(t, 2, 2, 1, 0, 0, 1), []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
