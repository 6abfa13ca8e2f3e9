// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures and utilities for the kernels.
//   - Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/dimscope/matrix"
	"github.com/stretchr/testify/require"
)

const tolTight = 1e-9

// hide wraps any Matrix to hide its concrete type, forcing the asDense materialization path.
type hide struct{ matrix.Matrix }

// mustDenseFrom builds an r×c *Dense from row-major values or fails the test.
func mustDenseFrom(tb testing.TB, r, c int, vals ...float64) *matrix.Dense {
	tb.Helper()
	m, err := matrix.NewDenseFrom(r, c, vals)
	require.NoError(tb, err)

	return m
}

// fillDenseRand fills m with deterministic values in [-1,1).
func fillDenseRand(tb testing.TB, m *matrix.Dense, seed int64) {
	tb.Helper()
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			require.NoError(tb, m.Set(i, j, 2*rng.Float64()-1))
		}
	}
}

// requireDenseClose compares two matrices element-wise within tol.
func requireDenseClose(tb testing.TB, want, got matrix.Matrix, tol float64) {
	tb.Helper()
	require.Equal(tb, want.Rows(), got.Rows())
	require.Equal(tb, want.Cols(), got.Cols())
	for i := 0; i < want.Rows(); i++ {
		for j := 0; j < want.Cols(); j++ {
			w, err := want.At(i, j)
			require.NoError(tb, err)
			g, err := got.At(i, j)
			require.NoError(tb, err)
			require.InDeltaf(tb, w, g, tol, "(%d,%d)", i, j)
		}
	}
}

// columnNorm returns the Euclidean norm of column j.
func columnNorm(tb testing.TB, m *matrix.Dense, j int) float64 {
	tb.Helper()
	col, err := matrix.Col(m, j, nil)
	require.NoError(tb, err)
	var s float64
	for _, v := range col {
		s += v * v
	}

	return math.Sqrt(s)
}
