// SPDX-License-Identifier: MIT
package indirect

import (
	"github.com/katalvlaran/dimscope/store"
)

// Source is the store surface the view needs. *store.Store satisfies it.
type Source interface {
	Elements() int
	Dimensions() int
	IsEnabled(dim int) bool
	Enable(dim int, on bool)
	Element(elem, dim int) float32
	Column(dim int, dst []float64) []float64
	Label(dim int) string
	Min(dim int) float32
	Max(dim int) float32
	Correlation(i, j int) float64
}

var _ Source = (*store.Store)(nil)

// Indirector maps visual dimension indices to real ones.
// It is not safe for concurrent mutation.
type Indirector struct {
	src  Source
	indr []int
}

// New returns a view over src, initialized by Recompute.
func New(src Source) *Indirector {
	in := &Indirector{src: src}
	in.Recompute()

	return in
}

// Recompute rebuilds the view as the ascending list of enabled real dimensions.
// Any previous ordering is discarded.
func (in *Indirector) Recompute() {
	d := in.src.Dimensions()
	in.indr = in.indr[:0]
	for dim := 0; dim < d; dim++ {
		if in.src.IsEnabled(dim) {
			in.indr = append(in.indr, dim)
		}
	}
}

// Enable toggles real dimension dim in the store and recomputes the view.
func (in *Indirector) Enable(dim int, on bool) {
	in.src.Enable(dim, on)
	in.Recompute()
}

// SortData reorders the view by adjacent-pair correlation.
//
// The correlations c[e] = corr(indr[e], indr[e+1]) are taken once, before sorting.
// A bubble sort then walks e over the first n-2 entries and, when c[e] > c[e+1],
// swaps both the two correlation values and the view entries e and e+1.
// The values are not refreshed after a swap, so later comparisons may describe
// pairs that are no longer adjacent. The result is always a permutation of the view.
func (in *Indirector) SortData() {
	n := len(in.indr)
	if n < 3 {
		return
	}
	c := make([]float64, n-1)
	for e := 0; e < n-1; e++ {
		c[e] = in.src.Correlation(in.indr[e], in.indr[e+1])
	}
	for pass := 0; pass < n-1; pass++ {
		for e := 0; e < n-2; e++ {
			if c[e] > c[e+1] {
				c[e], c[e+1] = c[e+1], c[e]
				in.indr[e], in.indr[e+1] = in.indr[e+1], in.indr[e]
			}
		}
	}
}

// SwapDims exchanges two visual positions. Out-of-range positions are ignored.
func (in *Indirector) SwapDims(a, b int) {
	if a < 0 || b < 0 || a >= len(in.indr) || b >= len(in.indr) {
		return
	}
	in.indr[a], in.indr[b] = in.indr[b], in.indr[a]
}

// RealDimension returns the storage index behind visual, or -1 when out of range.
func (in *Indirector) RealDimension(visual int) int {
	if visual < 0 || visual >= len(in.indr) {
		return -1
	}

	return in.indr[visual]
}

// Visible returns a copy of the current visual → real mapping.
func (in *Indirector) Visible() []int {
	out := make([]int, len(in.indr))
	copy(out, in.indr)

	return out
}

// Dimensions returns the number of visible dimensions.
func (in *Indirector) Dimensions() int { return len(in.indr) }

// Elements returns the element count of the underlying store.
func (in *Indirector) Elements() int { return in.src.Elements() }

// Element reads one cell in visual space.
func (in *Indirector) Element(elem, visual int) float32 {
	rd := in.RealDimension(visual)
	if rd < 0 {
		return store.Placeholder
	}

	return in.src.Element(elem, rd)
}

// Column copies visible dimension visual into dst; empty when out of range.
func (in *Indirector) Column(visual int, dst []float64) []float64 {
	rd := in.RealDimension(visual)
	if rd < 0 {
		return dst[:0]
	}

	return in.src.Column(rd, dst)
}

// Label returns the label of a visible dimension.
func (in *Indirector) Label(visual int) string {
	rd := in.RealDimension(visual)
	if rd < 0 {
		return ""
	}

	return in.src.Label(rd)
}

// Min returns the minimum of a visible dimension; store.AllDimensions yields the global minimum.
func (in *Indirector) Min(visual int) float32 {
	if visual == store.AllDimensions {
		return in.src.Min(store.AllDimensions)
	}
	rd := in.RealDimension(visual)
	if rd < 0 {
		return store.Placeholder
	}

	return in.src.Min(rd)
}

// Max returns the maximum of a visible dimension; store.AllDimensions yields the global maximum.
func (in *Indirector) Max(visual int) float32 {
	if visual == store.AllDimensions {
		return in.src.Max(store.AllDimensions)
	}
	rd := in.RealDimension(visual)
	if rd < 0 {
		return store.Placeholder
	}

	return in.src.Max(rd)
}

// Correlation returns the coefficient between two visible dimensions, 0 when either is out of range.
func (in *Indirector) Correlation(a, b int) float64 {
	ra, rb := in.RealDimension(a), in.RealDimension(b)
	if ra < 0 || rb < 0 {
		return 0
	}

	return in.src.Correlation(ra, rb)
}
