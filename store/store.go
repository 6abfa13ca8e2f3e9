// SPDX-License-Identifier: MIT
package store

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/katalvlaran/dimscope/correlation"
	"github.com/rs/zerolog"
)

// Placeholder marks an uninitialized or invalid cell and is returned by out-of-range reads.
const Placeholder float32 = math.MaxFloat32

// AllDimensions selects the global extreme in Min and Max.
const AllDimensions = -1

// Store is the dense element × dimension table. It is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	elems, dims int
	data        []float32 // column-major: data[dim*elems+elem]

	stale                bool // min/max cache needs a recompute
	mins, maxs           []float32
	globalMin, globalMax float32

	enabled []bool
	labels  []string
	corr    *correlation.Table

	opts options
}

// New returns an empty store (0 elements, 0 dimensions).
func New(opts ...Option) *Store {
	return &Store{
		stale: true,
		corr:  correlation.NewTable(0),
		opts:  gatherOptions(opts...),
	}
}

// Resize reallocates storage to elems × dims, fills every cell with Placeholder,
// enables every dimension with a default label and resets the correlation table.
// Negative sizes are ignored.
func (s *Store) Resize(elems, dims int) {
	if elems < 0 || dims < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.elems, s.dims = elems, dims
	s.data = make([]float32, elems*dims)
	for i := range s.data {
		s.data[i] = Placeholder
	}
	s.mins = make([]float32, dims)
	s.maxs = make([]float32, dims)
	s.enabled = make([]bool, dims)
	s.labels = make([]string, dims)
	for d := 0; d < dims; d++ {
		s.enabled[d] = true
		s.labels[d] = DefaultLabel(d)
	}
	s.corr = correlation.NewTable(dims)
	s.stale = true
}

// DefaultLabel is the label given to dimension d when no metadata names it.
func DefaultLabel(d int) string { return fmt.Sprintf("dim %d", d) }

// Elements returns the element count N.
func (s *Store) Elements() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.elems
}

// Dimensions returns the dimension count D.
func (s *Store) Dimensions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dims
}

func (s *Store) inRange(elem, dim int) bool {
	return elem >= 0 && elem < s.elems && dim >= 0 && dim < s.dims
}

func sanitize(v float32) float32 {
	if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
		return Placeholder
	}

	return v
}

// SetElement writes one cell. Out-of-range indices are ignored; NaN and ±Inf are stored as Placeholder.
func (s *Store) SetElement(elem, dim int, v float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inRange(elem, dim) {
		return
	}
	s.data[dim*s.elems+elem] = sanitize(v)
	s.stale = true
}

// SetElementVector writes the first min(len(values), D) dimensions of one element.
// An out-of-range element is ignored.
func (s *Store) SetElementVector(elem int, values []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem < 0 || elem >= s.elems {
		return
	}
	n := len(values)
	if n > s.dims {
		n = s.dims
	}
	for d := 0; d < n; d++ {
		s.data[d*s.elems+elem] = sanitize(values[d])
	}
	s.stale = true
}

// Element returns one cell, or Placeholder when out of range.
func (s *Store) Element(elem, dim int) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inRange(elem, dim) {
		return Placeholder
	}

	return s.data[dim*s.elems+elem]
}

// Column copies dimension dim into dst as float64 and returns it.
// An out-of-range dim yields an empty slice.
func (s *Store) Column(dim int, dst []float64) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst = dst[:0]
	if dim < 0 || dim >= s.dims {
		return dst
	}
	for _, v := range s.data[dim*s.elems : (dim+1)*s.elems] {
		dst = append(dst, float64(v))
	}

	return dst
}

// Min returns the minimum of dimension dim, or the global minimum for AllDimensions.
// Placeholder is returned for an out-of-range dim or a dimension without valid cells.
func (s *Store) Min(dim int) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureMinMax()
	if dim == AllDimensions {
		return s.globalMin
	}
	if dim < 0 || dim >= s.dims {
		return Placeholder
	}

	return s.mins[dim]
}

// Max returns the maximum of dimension dim, or the global maximum for AllDimensions.
// Placeholder is returned for an out-of-range dim or a dimension without valid cells.
func (s *Store) Max(dim int) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureMinMax()
	if dim == AllDimensions {
		return s.globalMax
	}
	if dim < 0 || dim >= s.dims {
		return Placeholder
	}

	return s.maxs[dim]
}

// ensureMinMax recomputes the cache in one pass when stale. Caller holds s.mu.
// Placeholder cells do not take part in the reduction.
func (s *Store) ensureMinMax() {
	if !s.stale {
		return
	}
	s.globalMin, s.globalMax = Placeholder, Placeholder
	found := false
	for d := 0; d < s.dims; d++ {
		lo, hi, ok := float32(0), float32(0), false
		for _, v := range s.data[d*s.elems : (d+1)*s.elems] {
			if v == Placeholder {
				continue
			}
			if !ok {
				lo, hi, ok = v, v, true

				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if !ok {
			s.mins[d], s.maxs[d] = Placeholder, Placeholder

			continue
		}
		s.mins[d], s.maxs[d] = lo, hi
		if !found {
			s.globalMin, s.globalMax, found = lo, hi, true

			continue
		}
		if lo < s.globalMin {
			s.globalMin = lo
		}
		if hi > s.globalMax {
			s.globalMax = hi
		}
	}
	s.stale = false
	s.opts.log.Debug().Int("elements", s.elems).Int("dimensions", s.dims).Msg("min/max recomputed")
}

// Enable sets the visibility flag of dim. Out-of-range dims are ignored.
func (s *Store) Enable(dim int, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dim >= 0 && dim < s.dims {
		s.enabled[dim] = on
	}
}

// IsEnabled reports the visibility flag of dim; false when out of range.
func (s *Store) IsEnabled(dim int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dim >= 0 && dim < s.dims && s.enabled[dim]
}

// EnabledCount returns the number of enabled dimensions.
func (s *Store) EnabledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, on := range s.enabled {
		if on {
			n++
		}
	}

	return n
}

// Label returns the display label of dim; empty when out of range.
func (s *Store) Label(dim int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dim < 0 || dim >= s.dims {
		return ""
	}

	return s.labels[dim]
}

// SetLabel renames dim. Out-of-range dims are ignored.
func (s *Store) SetLabel(dim int, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dim >= 0 && dim < s.dims {
		s.labels[dim] = label
	}
}

// CalculateCorrelation rebuilds the D×D Pearson table from the current data.
func (s *Store) CalculateCorrelation(ctx context.Context) error {
	start := time.Now()
	tbl, err := correlation.ComputeContext(ctx, s, correlation.WithWorkers(s.opts.workers))
	if err != nil {
		return fmt.Errorf("store: correlation: %w", err)
	}

	s.mu.Lock()
	s.corr = tbl
	s.mu.Unlock()

	s.opts.log.Debug().
		Int("dimensions", tbl.Dim()).
		Dur("duration", time.Since(start)).
		Msg("correlation table computed")

	return nil
}

// Correlation returns the Pearson coefficient of dimensions i and j
// from the last CalculateCorrelation, 0 when out of range.
func (s *Store) Correlation(i, j int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.corr.At(i, j)
}

// CorrelationTable returns the last computed table. Callers must treat it as read-only.
func (s *Store) CorrelationTable() *correlation.Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.corr
}

// Logger returns the logger the store was configured with.
func (s *Store) Logger() zerolog.Logger { return s.opts.log }
