// SPDX-License-Identifier: MIT
package correlation

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// Pearson computes the Pearson correlation coefficient of two series.
//
// Description:
//
//	r = Σ(x-x̄)(y-ȳ) / sqrt(Σ(x-x̄)²·Σ(y-ȳ)²), taken over the common prefix of a and b.
//
// Algorithm Outline:
//  1. n = min(len(a), len(b)); n == 0 returns 0.
//  2. First pass: the means x̄ and ȳ.
//  3. Second pass: the cross sum and both sums of squared deviations.
//  4. Either sum of squares below DegenerateThreshold returns 0 (a constant series).
//  5. Divide and clamp to [-1, 1] to absorb round-off.
//
// Complexity:
//   - Time O(n), Space O(1).
//
// Errors:
//   - None. Empty and constant inputs map to 0; NaN inputs propagate into r.
func Pearson(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var meanA, meanB float64
	for i := 0; i < n; i++ {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	var sab, saa, sbb, da, db float64
	for i := 0; i < n; i++ {
		da = a[i] - meanA
		db = b[i] - meanB
		sab += da * db
		saa += da * da
		sbb += db * db
	}
	if saa < DegenerateThreshold || sbb < DegenerateThreshold {
		return 0
	}

	r := sab / math.Sqrt(saa*sbb)
	switch {
	case r > 1:
		return 1
	case r < -1:
		return -1
	}

	return r
}

// NewTable returns a d×d table with an identity diagonal. Negative d yields an empty table.
func NewTable(d int) *Table {
	if d < 0 {
		d = 0
	}
	t := &Table{d: d, data: make([]float64, d*d)}
	for i := 0; i < d; i++ {
		t.data[i*d+i] = 1.0
	}

	return t
}

// Dim returns the number of dimensions covered by the table.
func (t *Table) Dim() int { return t.d }

// At returns the coefficient for (i, j), or 0 when either index is out of range.
func (t *Table) At(i, j int) float64 {
	if i < 0 || j < 0 || i >= t.d || j >= t.d {
		return 0
	}

	return t.data[i*t.d+j]
}

// set writes both halves of an off-diagonal pair.
func (t *Table) set(i, j int, v float64) {
	t.data[i*t.d+j] = v
	t.data[j*t.d+i] = v
}

// Row copies row i into dst and returns it; nil when i is out of range.
func (t *Table) Row(i int, dst []float64) []float64 {
	if i < 0 || i >= t.d {
		return nil
	}
	if cap(dst) < t.d {
		dst = make([]float64, t.d)
	}
	dst = dst[:t.d]
	copy(dst, t.data[i*t.d:(i+1)*t.d])

	return dst
}

// Compute evaluates Pearson for every pair of dimensions in src, sequentially.
func Compute(src ColumnSource) *Table {
	cols := extractColumns(src)
	t := NewTable(len(cols))
	for i := range cols {
		fillRow(t, cols, i)
	}

	return t
}

// ComputeContext is Compute with rows distributed over a bounded errgroup.
// It returns ctx.Err() if the context is cancelled before all rows finish.
func ComputeContext(ctx context.Context, src ColumnSource, opts ...Option) (*Table, error) {
	o := gatherOptions(opts...)
	if o.workers <= 0 {
		return nil, ErrWorkers
	}

	cols := extractColumns(src)
	t := NewTable(len(cols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range cols {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// row i owns cells (i, j>i) and their mirrors; no two rows write the same cell
			fillRow(t, cols, i)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return t, nil
}

func extractColumns(src ColumnSource) [][]float64 {
	d := src.Dimensions()
	if d < 0 {
		d = 0
	}
	cols := make([][]float64, d)
	for j := 0; j < d; j++ {
		cols[j] = src.Column(j, nil)
	}

	return cols
}

func fillRow(t *Table, cols [][]float64, i int) {
	for j := i + 1; j < len(cols); j++ {
		t.set(i, j, Pearson(cols[i], cols[j]))
	}
}
