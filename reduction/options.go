// SPDX-License-Identifier: MIT
package reduction

import (
	"math"

	"github.com/rs/zerolog"
)

const (
	// DefaultKernelWidth is the Gaussian kernel width w in exp(-‖x-y‖²/w).
	DefaultKernelWidth = 2.0

	// DefaultLLENeighbors is the neighborhood size of KernelLLE.
	DefaultLLENeighbors = 10

	// DefaultEigenTolerance is passed to the native Jacobi solver.
	DefaultEigenTolerance = 1e-12

	// DefaultLLERegularization scales the trace term added to each local Gram matrix.
	DefaultLLERegularization = 1e-3
)

const (
	panicKernelWidth  = "reduction: WithKernelWidth: width must be finite, positive"
	panicLLENeighbors = "reduction: WithLLENeighbors: k must be positive"
	panicEigenTol     = "reduction: WithEigenTolerance: tol must be finite, positive"
	panicMetricsNil   = "reduction: WithMetrics: collector must not be nil"
)

// Option configures an Engine at construction.
type Option func(*options)

type options struct {
	log     zerolog.Logger
	metrics MetricsCollector
	method  Method
	backend BackendKind
	params  backendConfig
}

// backendConfig carries the numeric knobs every backend factory receives.
type backendConfig struct {
	kernelWidth  float64
	lleNeighbors int
	lleReg       float64
	eigenTol     float64
}

func defaultOptions() options {
	return options{
		log:     zerolog.Nop(),
		metrics: NoopMetricsCollector{},
		method:  PCA,
		backend: BackendAuto,
		params: backendConfig{
			kernelWidth:  DefaultKernelWidth,
			lleNeighbors: DefaultLLENeighbors,
			lleReg:       DefaultLLERegularization,
			eigenTol:     DefaultEigenTolerance,
		},
	}
}

func gatherOptions(opts ...Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger routes fit lifecycle events to l.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics installs a collector observing every completed fit.
// Panics on nil.
func WithMetrics(c MetricsCollector) Option {
	if c == nil {
		panic(panicMetricsNil)
	}

	return func(o *options) { o.metrics = c }
}

// WithMethod sets the initial method (default PCA).
func WithMethod(m Method) Option {
	return func(o *options) { o.method = m }
}

// WithBackend sets the initial backend preference (default BackendAuto).
func WithBackend(k BackendKind) Option {
	return func(o *options) { o.backend = k }
}

// WithKernelWidth sets the Gaussian kernel width. Panics unless finite and > 0.
func WithKernelWidth(w float64) Option {
	if !(w > 0) || math.IsInf(w, 0) {
		panic(panicKernelWidth)
	}

	return func(o *options) { o.params.kernelWidth = w }
}

// WithLLENeighbors sets the KernelLLE neighborhood size. Panics on k < 1.
func WithLLENeighbors(k int) Option {
	if k < 1 {
		panic(panicLLENeighbors)
	}

	return func(o *options) { o.params.lleNeighbors = k }
}

// WithEigenTolerance sets the native Jacobi tolerance. Panics unless finite and > 0.
func WithEigenTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(panicEigenTol)
	}

	return func(o *options) { o.params.eigenTol = tol }
}
