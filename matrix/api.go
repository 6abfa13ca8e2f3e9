// SPDX-License-Identifier: MIT
// Package matrix - public API facades.
//
// Purpose:
//   - Thin, intention-revealing entry points that delegate to the canonical kernels.
//
// AI-Hints:
//   - Prefer passing *Dense to skip the one-time materialization in asDense.

package matrix

// NewIdentity returns I_n (n×n identity).
// Complexity: O(n^2) zeroing (constructor) + O(n) writes on the diagonal.
func NewIdentity(n int) (*Dense, error) {
	m, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1.0
	}

	return m, nil
}

// Col copies column j of m into dst (grown when too small) and returns it.
func Col(m *Dense, j int, dst []float64) ([]float64, error) {
	if j < 0 || j >= m.c {
		return nil, denseErrorf("Col", 0, j, ErrOutOfRange)
	}
	if cap(dst) < m.r {
		dst = make([]float64, m.r)
	}
	dst = dst[:m.r]
	for i := 0; i < m.r; i++ {
		dst[i] = m.data[i*m.c+j]
	}

	return dst, nil
}

// ColumnMeans returns the per-column mean of X.
func ColumnMeans(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opColumnMeans, err)
	}
	d, err := asDense(X)
	if err != nil {
		return nil, matrixErrorf(opColumnMeans, err)
	}

	return columnMeans(d), nil
}

// CenterColumns subtracts the per-column mean from X and returns the centered copy and the means.
func CenterColumns(X Matrix) (*Dense, []float64, error) { return centerColumns(X) }

// Covariance returns the sample covariance of the columns of X (divisor r-1) and the column means.
func Covariance(X Matrix) (*Dense, []float64, error) { return covariance(X) }
