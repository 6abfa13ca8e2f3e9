// SPDX-License-Identifier: MIT
// Package matrix - canonical linear-algebra kernels.
//
// Purpose:
//   - Mul/Transpose/Scale/MatVec: the products behind covariance and projection.
//   - Eigen/EigenSorted: Jacobi eigen-decomposition of symmetric matrices (PCA basis).
//   - Solve: Gaussian elimination with partial pivoting for small normal-equation systems.
//
// Notes:
//   - All kernels validate through validators.go and wrap failures via matrixErrorf.
//   - Non-Dense operands are materialized once through asDense; the kernels then run on flat slices.

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// ZeroSum is the initial sum value for accumulation loops.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opMul         = "Mul"
	opTranspose   = "Transpose"
	opScale       = "Scale"
	opEigen       = "Eigen"
	opEigenSorted = "EigenSorted"
	opSolve       = "Solve"
	opMatVec      = "MatVec"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// asDense returns m itself when it is a *Dense, otherwise a Dense copy read through At.
// The returned matrix must be treated as read-only when m was already *Dense.
func asDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	rows, cols := m.Rows(), m.Cols()
	out, err := newDenseZeroOK(rows, cols)
	if err != nil {
		return nil, err
	}
	var v float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, fmt.Errorf("At(%d,%d): %w", i, j, err)
			}
			out.data[i*cols+j] = v
		}
	}

	return out, nil
}

// Mul performs standard matrix multiplication C = A × B.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(A,B).
//   - Stage 2: i→k→j loop over row-major slices, skipping zero A[i,k].
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	rows, inner, cols := da.r, da.c, db.c
	res, err := newDenseZeroOK(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var av float64
	for i := 0; i < rows; i++ {
		rowA, rowR := i*inner, i*cols
		for k := 0; k < inner; k++ {
			av = da.data[rowA+k]
			if av == 0 {
				continue
			}
			rowB := k * cols
			for j := 0; j < cols; j++ {
				res.data[rowR+j] += av * db.data[rowB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns a new Dense holding mᵀ. The input is never mutated.
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res, err := newDenseZeroOK(dm.c, dm.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	for i := 0; i < dm.r; i++ {
		base := i * dm.c
		for j := 0; j < dm.c; j++ {
			res.data[j*dm.r+i] = dm.data[base+j]
		}
	}

	return res, nil
}

// Scale returns a new Dense whose elements are alpha * m[i,j].
// alpha = 0 yields an explicit zero matrix of the same shape.
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res, err := newDenseZeroOK(dm.r, dm.c)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	for idx, v := range dm.data {
		res.data[idx] = v * alpha
	}

	return res, nil
}

// MatVec computes y = m * x for a column vector x.
//
// Contract: m non-nil; len(x) == m.Cols().
// Determinism: fixed i→j loop order.
// Complexity: Time O(r*c), Space O(r) for y.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	y := make([]float64, d.r)
	var acc float64
	for i := 0; i < d.r; i++ {
		acc = ZeroSum
		base := i * d.c
		for j := 0; j < d.c; j++ {
			if x[j] != 0 {
				acc += d.data[base+j] * x[j]
			}
		}
		y[i] = acc
	}

	return y, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via Jacobi rotations.
//
// Implementation:
//   - Stage 1: ValidateSymmetric(m, tol); copy m into a working Dense A; Q = I.
//   - Stage 2: repeatedly pick (p,q) with the largest |A[p,q]| in i→j order and
//     apply a Jacobi rotation to A, accumulating it into Q.
//
// Returns:
//   - []float64: eigenvalues (diagonal of the rotated matrix), unordered.
//   - *Dense   : Q whose columns are the matching unit eigenvectors.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrAsymmetry,
//     ErrMatrixEigenFailed (max off-diagonal ≥ tol after maxIter rotations).
//
// Determinism:
//   - Fixed pivot scan and update order; identical input gives bit-identical output.
//
// Complexity:
//   - Time O(maxIter * n^2), Space O(n^2).
//
// AI-Hints:
//   - tol is absolute; scale-sensitive callers should prefer EigenSorted, which normalizes first.
func Eigen(m Matrix, tol float64, maxIter int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	src, err := asDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	n := src.r
	a := src.Clone().(*Dense)
	q, err := newDenseZeroOK(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	for i := 0; i < n; i++ {
		q.data[i*n+i] = 1.0
	}

	var (
		p, r               int
		maxOff, off        float64
		app, arr, apr      float64
		aip, air, qip, qir float64
		theta, t, c, s     float64
	)
	for iter := 0; iter < maxIter; iter++ {
		maxOff, p, r = maxOffDiagonal(a)
		if maxOff < tol {
			break
		}

		app = a.data[p*n+p]
		arr = a.data[r*n+r]
		apr = a.data[p*n+r]

		theta = (arr - app) / (2 * apr)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		for i := 0; i < n; i++ {
			if i == p || i == r {
				continue
			}
			aip = a.data[i*n+p]
			air = a.data[i*n+r]
			a.data[i*n+p] = c*aip - s*air
			a.data[p*n+i] = a.data[i*n+p]
			a.data[i*n+r] = s*aip + c*air
			a.data[r*n+i] = a.data[i*n+r]
		}
		a.data[p*n+p] = c*c*app - 2*c*s*apr + s*s*arr
		a.data[r*n+r] = s*s*app + 2*c*s*apr + c*c*arr
		a.data[p*n+r], a.data[r*n+p] = 0, 0

		for i := 0; i < n; i++ {
			qip = q.data[i*n+p]
			qir = q.data[i*n+r]
			q.data[i*n+p] = c*qip - s*qir
			q.data[i*n+r] = s*qip + c*qir
		}
	}

	if off, _, _ = maxOffDiagonal(a); off >= tol {
		return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
	}

	eigs := make([]float64, n)
	for i := 0; i < n; i++ {
		eigs[i] = a.data[i*n+i]
	}

	return eigs, q, nil
}

// maxOffDiagonal scans the strict upper triangle of a square Dense in i→j order.
func maxOffDiagonal(a *Dense) (float64, int, int) {
	var (
		n      = a.r
		maxOff float64
		p, q   int
	)
	for i := 0; i < n; i++ {
		base := i * n
		for j := i + 1; j < n; j++ {
			if off := math.Abs(a.data[base+j]); off > maxOff {
				maxOff, p, q = off, i, j
			}
		}
	}

	return maxOff, p, q
}

// EigenSorted returns the k leading eigenpairs of a symmetric matrix,
// eigenvalues in descending order and eigenvectors as the columns of an n×k Dense.
//
// Implementation:
//   - Stage 1: divide m by its largest absolute entry so the tolerance is relative.
//   - Stage 2: Eigen with Options.eigenTol and eigenSweeps·n² rotations.
//   - Stage 3: order pairs by descending value (ties keep the lower original index),
//     flip each vector so its largest-magnitude component is positive.
//
// Inputs:
//   - m: symmetric n×n matrix.
//   - k: number of leading pairs to keep, 1 ≤ k ≤ n.
//
// Errors:
//   - ErrInvalidDimensions (k out of range), plus everything Eigen returns.
//
// Determinism:
//   - Sign canonicalization makes the basis reproducible across equivalent inputs.
func EigenSorted(m Matrix, k int, opts ...Option) ([]float64, *Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, nil, matrixErrorf(opEigenSorted, err)
	}
	n := m.Rows()
	if k < 1 || k > n {
		return nil, nil, matrixErrorf(opEigenSorted, fmt.Errorf("k=%d for n=%d: %w", k, n, ErrInvalidDimensions))
	}
	o := gatherOptions(opts...)

	src, err := asDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigenSorted, err)
	}
	scale := 0.0
	for _, v := range src.data {
		if av := math.Abs(v); av > scale {
			scale = av
		}
	}
	work := src
	if scale > 0 {
		if work, err = Scale(src, 1/scale); err != nil {
			return nil, nil, matrixErrorf(opEigenSorted, err)
		}
	} else {
		scale = 1
	}

	vals, vecs, err := Eigen(work, o.eigenTol, o.eigenSweeps*n*n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigenSorted, err)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return vals[order[x]] > vals[order[y]] })

	outVals := make([]float64, k)
	outVecs, err := newDenseZeroOK(n, k)
	if err != nil {
		return nil, nil, matrixErrorf(opEigenSorted, err)
	}
	for c := 0; c < k; c++ {
		col := order[c]
		outVals[c] = vals[col] * scale

		pivot, sign := 0.0, 1.0
		for i := 0; i < n; i++ {
			v := vecs.data[i*n+col]
			if math.Abs(v) > math.Abs(pivot)+o.eps {
				pivot = v
			}
		}
		if pivot < 0 {
			sign = -1.0
		}
		for i := 0; i < n; i++ {
			outVecs.data[i*k+c] = sign * vecs.data[i*n+col]
		}
	}

	return outVals, outVecs, nil
}

// Solve returns x such that A·x = b using Gaussian elimination with partial pivoting.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (A not square or len(b) != n),
//     ErrSingular when the best available pivot has magnitude below Options.eps.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func Solve(a Matrix, b []float64, opts ...Option) ([]float64, error) {
	if err := ValidateSquare(a); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	n := a.Rows()
	if err := ValidateVecLen(b, n); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	o := gatherOptions(opts...)

	src, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	// augmented n×(n+1) system
	w := n + 1
	aug := make([]float64, n*w)
	for i := 0; i < n; i++ {
		copy(aug[i*w:i*w+n], src.data[i*n:(i+1)*n])
		aug[i*w+n] = b[i]
	}

	for col := 0; col < n; col++ {
		best := col
		for r := col + 1; r < n; r++ {
			if math.Abs(aug[r*w+col]) > math.Abs(aug[best*w+col]) {
				best = r
			}
		}
		if math.Abs(aug[best*w+col]) < o.eps {
			return nil, matrixErrorf(opSolve, fmt.Errorf("column %d: %w", col, ErrSingular))
		}
		if best != col {
			for j := 0; j < w; j++ {
				aug[col*w+j], aug[best*w+j] = aug[best*w+j], aug[col*w+j]
			}
		}
		pivot := aug[col*w+col]
		for r := col + 1; r < n; r++ {
			f := aug[r*w+col] / pivot
			if f == 0 {
				continue
			}
			for j := col; j < w; j++ {
				aug[r*w+j] -= f * aug[col*w+j]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := aug[i*w+n]
		for j := i + 1; j < n; j++ {
			sum -= aug[i*w+j] * x[j]
		}
		x[i] = sum / aug[i*w+i]
	}

	return x, nil
}
