// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Private broadcast and reduction micro-kernels (ew*) shared by the statistics layer.
//
// Determinism & Performance:
//   - Fixed i→j loop orders over the row-major flat buffer.
//   - No allocations beyond the returned Dense/slice.

package matrix

// ewColumnSums returns Σ_i X[i,j] for every column j.
// Time: O(r*c). Space: O(c).
func ewColumnSums(x *Dense) []float64 {
	sums := make([]float64, x.c)
	for i := 0; i < x.r; i++ {
		base := i * x.c
		for j := 0; j < x.c; j++ {
			sums[j] += x.data[base+j]
		}
	}

	return sums
}

// ewBroadcastSubCols computes out[i,j] = X[i,j] - colMeans[j].
// Time: O(r*c). Space: O(r*c).
//
// AI-Hint: Use for column-centering before covariance and projection.
func ewBroadcastSubCols(x *Dense, colMeans []float64) (*Dense, error) {
	if len(colMeans) != x.c {
		return nil, matrixErrorf("broadcastSubCols", ErrDimensionMismatch)
	}
	out, err := newDenseZeroOK(x.r, x.c)
	if err != nil {
		return nil, matrixErrorf("broadcastSubCols", err)
	}
	for i := 0; i < x.r; i++ {
		base := i * x.c
		for j := 0; j < x.c; j++ {
			out.data[base+j] = x.data[base+j] - colMeans[j]
		}
	}

	return out, nil
}

// ewSymmetrize writes (A[i,j]+A[j,i])/2 into both halves in place.
// Used to remove round-off asymmetry before Jacobi sweeps.
func ewSymmetrize(a *Dense) {
	n := a.r
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			avg := 0.5 * (a.data[i*n+j] + a.data[j*n+i])
			a.data[i*n+j], a.data[j*n+i] = avg, avg
		}
	}
}
