// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the statistics layer.
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/dimscope/matrix"
	"github.com/stretchr/testify/require"
)

func TestCenterColumns(t *testing.T) {
	x := mustDenseFrom(t, 4, 2, 1.2, 0.75, 1.1, 0.75, 1.0, 0.75, 1.3, 0.75)

	xc, means, err := matrix.CenterColumns(x)
	require.NoError(t, err)
	require.InDelta(t, 1.15, means[0], tolTight)
	require.InDelta(t, 0.75, means[1], tolTight)

	after, err := matrix.ColumnMeans(xc)
	require.NoError(t, err)
	require.InDelta(t, 0.0, after[0], tolTight)
	require.InDelta(t, 0.0, after[1], tolTight)

	// input untouched
	v, err := x.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.2, v)
}

func TestCovariance(t *testing.T) {
	x := mustDenseFrom(t, 4, 2, 1.2, 0.75, 1.1, 0.75, 1.0, 0.75, 1.3, 0.75)

	cov, _, err := matrix.Covariance(x)
	require.NoError(t, err)
	requireDenseClose(t, mustDenseFrom(t, 2, 2, 0.05/3, 0, 0, 0), cov, tolTight)

	// generic path agrees
	cov2, _, err := matrix.Covariance(hide{x})
	require.NoError(t, err)
	requireDenseClose(t, cov, cov2, 0)

	_, _, err = matrix.Covariance(mustDenseFrom(t, 1, 2, 1, 2))
	require.ErrorIs(t, err, matrix.ErrBadShape)
	_, _, err = matrix.Covariance(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestCovarianceIsSymmetric(t *testing.T) {
	x := mustDenseFrom(t, 20, 5, make([]float64, 100)...)
	fillDenseRand(t, x, 99)

	cov, _, err := matrix.Covariance(x)
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateSymmetric(cov, 0))
}
