// SPDX-License-Identifier: MIT
package store

import (
	"runtime"

	"github.com/rs/zerolog"
)

// Option configures a Store.
type Option func(*options)

type options struct {
	log     zerolog.Logger
	workers int
}

// WithLogger attaches a logger used for load and recompute events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithCorrelationWorkers bounds the goroutines used by CalculateCorrelation.
// Values ≤ 0 are ignored.
func WithCorrelationWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

func gatherOptions(opts ...Option) options {
	o := options{log: zerolog.Nop(), workers: runtime.GOMAXPROCS(0)}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
