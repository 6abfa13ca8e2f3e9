// SPDX-License-Identifier: MIT
package reduction

import "errors"

// Sentinel errors.
var (
	// ErrInvalidSize indicates a bad element/dimension configuration or buffer length.
	ErrInvalidSize = errors.New("reduction: invalid size")

	// ErrUnknownMethod indicates a Method value outside the enumeration.
	ErrUnknownMethod = errors.New("reduction: unknown method")

	// ErrNoBackend indicates that no backend of the requested kind implements the method.
	ErrNoBackend = errors.New("reduction: no backend for method")

	// ErrNoInput indicates Run without any input row loaded.
	ErrNoInput = errors.New("reduction: no input loaded")

	// ErrNotFitted indicates a query before a successful Run.
	ErrNotFitted = errors.New("reduction: model not fitted")

	// ErrFitInProgress indicates a call that would race with a running fit.
	ErrFitInProgress = errors.New("reduction: fit in progress")

	// ErrFitFailed wraps every backend failure (non-convergence, numerical breakdown).
	ErrFitFailed = errors.New("reduction: fit failed")

	// ErrNoLinearBasis indicates a mean/axis query against a non-linear method.
	ErrNoLinearBasis = errors.New("reduction: method has no linear basis")

	// ErrOutOfRange indicates an element or component index outside the fitted model.
	ErrOutOfRange = errors.New("reduction: index out of range")
)
