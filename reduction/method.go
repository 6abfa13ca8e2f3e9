// SPDX-License-Identifier: MIT
package reduction

import "fmt"

// Method selects the reduction algorithm. The numeric values are stable.
type Method int

const (
	PCA       Method = 0
	KernelPCA Method = 1
	KernelLLE Method = 2
)

var methodNames = map[Method]string{
	PCA:       "pca",
	KernelPCA: "kernel_pca",
	KernelLLE: "kernel_lle",
}

// String implements fmt.Stringer.
func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}

	return fmt.Sprintf("method(%d)", int(m))
}

// Valid reports whether m is one of the enumerated methods.
func (m Method) Valid() bool {
	_, ok := methodNames[m]

	return ok
}

// Linear reports whether the method exposes a mean vector and principal axes.
func (m Method) Linear() bool { return m == PCA }

// ParseMethod maps "pca", "kernel_pca" or "kernel_lle" to a Method.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}

	return 0, fmt.Errorf("%q: %w", s, ErrUnknownMethod)
}

// BackendKind selects an implementation family.
type BackendKind int

const (
	// BackendAuto picks the first registered backend for the method.
	BackendAuto BackendKind = iota
	// BackendNative is the in-house implementation on package matrix.
	BackendNative
	// BackendToolkit wraps the gonum numerical toolkit.
	BackendToolkit
)

// String implements fmt.Stringer.
func (k BackendKind) String() string {
	switch k {
	case BackendAuto:
		return "auto"
	case BackendNative:
		return "native"
	case BackendToolkit:
		return "toolkit"
	}

	return fmt.Sprintf("backend(%d)", int(k))
}

// ParseBackend maps "auto", "native" or "toolkit" to a BackendKind.
func ParseBackend(s string) (BackendKind, error) {
	switch s {
	case "auto", "":
		return BackendAuto, nil
	case "native":
		return BackendNative, nil
	case "toolkit":
		return BackendToolkit, nil
	}

	return 0, fmt.Errorf("%q: %w", s, ErrNoBackend)
}

// Status is the engine lifecycle state.
type Status int

const (
	StatusUninitialized Status = iota
	StatusSized
	StatusInputLoaded
	StatusFitted
	StatusFailed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusSized:
		return "sized"
	case StatusInputLoaded:
		return "input-loaded"
	case StatusFitted:
		return "fitted"
	case StatusFailed:
		return "failed"
	}

	return fmt.Sprintf("status(%d)", int(s))
}
