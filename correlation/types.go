// SPDX-License-Identifier: MIT
package correlation

import (
	"errors"
	"runtime"
)

// DegenerateThreshold is the smallest sum of squared deviations accepted as non-constant.
// Below it Pearson returns 0.
const DegenerateThreshold = 1e-100

// ErrWorkers is returned by ComputeContext for a non-positive worker count.
var ErrWorkers = errors.New("correlation: workers must be positive")

// ColumnSource is anything that can hand out whole dimensions as float64 columns.
//
// Column copies dimension dim into dst (grown when too small) and returns it.
type ColumnSource interface {
	Dimensions() int
	Column(dim int, dst []float64) []float64
}

// Table is a dense, symmetric D×D correlation table stored row-major.
type Table struct {
	d    int
	data []float64
}

// Option configures ComputeContext.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers bounds the number of goroutines evaluating table rows.
// Values ≤ 0 are rejected by ComputeContext.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func gatherOptions(opts ...Option) options {
	o := options{workers: runtime.GOMAXPROCS(0)}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
