// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Column statistics used by the linear reduction path: means, centering, covariance.
//
// Exposed API:
//   - ColumnMeans(X)   -> means          // Σ_i X[i,j] / r
//   - CenterColumns(X) -> (Xc, means)    // subtract per-column mean
//   - Covariance(X)    -> (Cov, means)   // sample covariance of columns: (Xcᵀ Xc)/(r-1)
//
// Determinism & Performance:
//   - Fixed i→j traversal; Dense inputs are used in place, others are materialized once.
//   - Zero-size matrices (0×N or N×0) are treated as no-ops for centering.

package matrix

import "fmt"

const (
	opColumnMeans   = "ColumnMeans"
	opCenterColumns = "CenterColumns"
	opCovariance    = "Covariance"
)

func columnMeans(x *Dense) []float64 {
	means := ewColumnSums(x)
	if x.r == 0 {
		return means
	}
	invR := 1.0 / float64(x.r)
	for j := range means {
		means[j] *= invR
	}

	return means
}

// centerColumns subtracts the per-column mean from every element.
//
// Behavior highlights:
//   - Zero-size (0×N or N×0): returns (X copy, zero means, nil).
//   - The input is never mutated.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for output (+ O(c) means).
func centerColumns(x Matrix) (*Dense, []float64, error) {
	if err := ValidateNotNil(x); err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	d, err := asDense(x)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	means := columnMeans(d)
	if d.r == 0 || d.c == 0 {
		return d.Clone().(*Dense), means, nil
	}
	xc, err := ewBroadcastSubCols(d, means)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}

	return xc, means, nil
}

// covariance computes the sample covariance matrix of the columns of X.
//
// Implementation:
//   - Stage 1: Xc = X - mean (centerColumns).
//   - Stage 2: Cov = Xcᵀ·Xc / (r-1), symmetrized against round-off.
//
// Errors:
//   - ErrNilMatrix, ErrBadShape when r < 2 or c == 0.
//
// Complexity:
//   - Time O(r*c^2), Space O(r*c + c^2).
func covariance(x Matrix) (*Dense, []float64, error) {
	if err := ValidateNotNil(x); err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	r, c := x.Rows(), x.Cols()
	if r < 2 || c == 0 {
		return nil, nil, matrixErrorf(opCovariance, fmt.Errorf("%dx%d: %w", r, c, ErrBadShape))
	}
	xc, means, err := centerColumns(x)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	xt, err := Transpose(xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	cov, err := Mul(xt, xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	inv := 1.0 / float64(r-1)
	for idx := range cov.data {
		cov.data[idx] *= inv
	}
	ewSymmetrize(cov)

	return cov, means, nil
}
