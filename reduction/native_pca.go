// SPDX-License-Identifier: MIT
package reduction

import (
	"fmt"

	"github.com/katalvlaran/dimscope/matrix"
)

// nativePCA runs PCA on package matrix: covariance, Jacobi eigen-decomposition, projection.
type nativePCA struct {
	cfg   backendConfig
	mean  []float64
	basis *matrix.Dense // H×L, columns are principal axes
	vars  []float64
}

func newNativePCA(cfg backendConfig) Backend { return &nativePCA{cfg: cfg} }

func (*nativePCA) Name() string   { return BackendNative.String() }
func (*nativePCA) Method() Method { return PCA }

func (p *nativePCA) Fit(x *matrix.Dense, low int) (*matrix.Dense, error) {
	cov, mean, err := matrix.Covariance(x)
	if err != nil {
		return nil, fmt.Errorf("covariance: %w", err)
	}
	vals, vecs, err := matrix.EigenSorted(cov, low, matrix.WithEigenTolerance(p.cfg.eigenTol))
	if err != nil {
		return nil, fmt.Errorf("eigen: %w", err)
	}
	xc, _, err := matrix.CenterColumns(x)
	if err != nil {
		return nil, fmt.Errorf("center: %w", err)
	}
	out, err := matrix.Mul(xc, vecs)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	p.mean, p.basis, p.vars = mean, vecs, vals

	return out, nil
}

func (p *nativePCA) Transform(in, out []float64) error {
	h, l := p.basis.Shape()
	if len(in) != h || len(out) != l {
		return ErrInvalidSize
	}
	for c := 0; c < l; c++ {
		sum := 0.0
		for d := 0; d < h; d++ {
			v, _ := p.basis.At(d, c)
			sum += (in[d] - p.mean[d]) * v
		}
		out[c] = sum
	}

	return nil
}

func (p *nativePCA) Mean() []float64 { return append([]float64(nil), p.mean...) }

func (p *nativePCA) Component(i int) []float64 {
	if i < 0 || i >= p.basis.Cols() {
		return nil
	}
	col, _ := matrix.Col(p.basis, i, nil)

	return col
}

func (p *nativePCA) ExplainedVariance() []float64 { return append([]float64(nil), p.vars...) }
