// SPDX-License-Identifier: MIT
package reduction

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/dimscope/matrix"
)

// Backend fits one method. Fit is called at most once per instance;
// Transform must be safe for concurrent use after Fit returns.
type Backend interface {
	// Name is the backend family, "native" or "toolkit".
	Name() string
	// Method is the algorithm this backend implements.
	Method() Method
	// Fit learns the model from x (N×H, owned by the backend) and returns the N×low embedding.
	Fit(x *matrix.Dense, low int) (*matrix.Dense, error)
	// Transform maps one H-vector into the low-dimensional space (len(out) == low).
	Transform(in, out []float64) error
}

// LinearBackend is a Backend with an explicit affine basis.
type LinearBackend interface {
	Backend
	// Mean is the per-dimension training mean (length H).
	Mean() []float64
	// Component returns the i-th principal axis (length H), or nil when out of range.
	Component(i int) []float64
	// ExplainedVariance returns the eigenvalue of each retained component.
	ExplainedVariance() []float64
}

type backendFactory func(cfg backendConfig) Backend

type registration struct {
	kind BackendKind
	new  backendFactory
}

// registry lists backends per method in BackendAuto preference order.
var registry = map[Method][]registration{
	PCA: {
		{kind: BackendNative, new: newNativePCA},
		{kind: BackendToolkit, new: newToolkitPCA},
	},
	KernelPCA: {
		{kind: BackendToolkit, new: newToolkitKernelPCA},
	},
	KernelLLE: {
		{kind: BackendToolkit, new: newToolkitKernelLLE},
	},
}

// AvailableMethods lists every method with at least one backend, in ascending order.
func AvailableMethods() []Method {
	out := make([]Method, 0, len(registry))
	for m, regs := range registry {
		if len(regs) > 0 {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Backends lists the backend kinds implementing m, in BackendAuto preference order.
func Backends(m Method) []BackendKind {
	regs := registry[m]
	out := make([]BackendKind, len(regs))
	for i, r := range regs {
		out[i] = r.kind
	}

	return out
}

// newBackend instantiates the backend of kind for m.
func newBackend(m Method, kind BackendKind, cfg backendConfig) (Backend, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%v: %w", m, ErrUnknownMethod)
	}
	for _, r := range registry[m] {
		if kind == BackendAuto || kind == r.kind {
			return r.new(cfg), nil
		}
	}

	return nil, fmt.Errorf("%v/%v: %w", m, kind, ErrNoBackend)
}
