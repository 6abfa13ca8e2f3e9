// SPDX-License-Identifier: MIT

// Package matrix: numeric policy defaults and functional options for the
// spectral and solver kernels.
//
// Design goals:
//   - Deterministic behavior: no global mutable state, no implicit randomness.
//   - No dead switches: each option impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the tolerance used by Solve to reject near-singular pivots.
	DefaultEpsilon = 1e-12

	// DefaultValidateNaNInf toggles strict finite-value validation on Set.
	DefaultValidateNaNInf = true

	// DefaultEigenTolerance is the Jacobi convergence threshold on the largest
	// absolute off-diagonal entry.
	DefaultEigenTolerance = 1e-12

	// DefaultEigenSweeps scales the rotation budget: maxIter = sweeps * n * n.
	// Classical Jacobi annihilates one pivot per rotation, so a budget
	// proportional to n² rotations per sweep is required.
	DefaultEigenSweeps = 50
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicEpsilonInvalid   = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicToleranceInvalid = "matrix: WithEigenTolerance: tol must be finite, positive"
	panicSweepsInvalid    = "matrix: WithEigenSweeps: sweeps must be positive"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	eps         float64 // Solve pivot guard
	eigenTol    float64 // Jacobi convergence threshold
	eigenSweeps int     // Jacobi rotation budget multiplier
}

// WithEpsilon sets the pivot tolerance used by Solve.
// Panics when eps is NaN, ±Inf or negative.
func WithEpsilon(eps float64) Option {
	if isNonFinite(eps) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithEigenTolerance sets the Jacobi convergence threshold used by EigenSorted.
// Panics when tol is not a finite positive number.
func WithEigenTolerance(tol float64) Option {
	if isNonFinite(tol) || tol <= 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.eigenTol = tol }
}

// WithEigenSweeps sets the rotation budget multiplier used by EigenSorted.
// Panics when sweeps <= 0.
func WithEigenSweeps(sweeps int) Option {
	if sweeps <= 0 {
		panic(panicSweepsInvalid)
	}

	return func(o *Options) { o.eigenSweeps = sweeps }
}

// defaultOptions returns Options populated from the documented defaults.
func defaultOptions() Options {
	return Options{
		eps:         DefaultEpsilon,
		eigenTol:    DefaultEigenTolerance,
		eigenSweeps: DefaultEigenSweeps,
	}
}

// gatherOptions applies setters over the defaults in call order (last wins).
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
