// SPDX-License-Identifier: MIT
package reduction

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/dimscope/matrix"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var errSVD = errors.New("SVD did not converge")

// toolkitPCA runs PCA through gonum stat.PC (thin SVD of the centered data).
type toolkitPCA struct {
	mean  []float64
	basis *mat.Dense // H×L
	vars  []float64
}

func newToolkitPCA(backendConfig) Backend { return &toolkitPCA{} }

func (*toolkitPCA) Name() string   { return BackendToolkit.String() }
func (*toolkitPCA) Method() Method { return PCA }

func (p *toolkitPCA) Fit(x *matrix.Dense, low int) (*matrix.Dense, error) {
	xm := toMat(x)
	n, h := xm.Dims()

	var (
		pc   stat.PC
		vecs mat.Dense
		vars []float64
	)
	err := toolkitCall("pca", func() error {
		if !pc.PrincipalComponents(xm, nil) {
			return errSVD
		}
		pc.VectorsTo(&vecs)
		vars = pc.VarsTo(nil)

		return nil
	})
	if err != nil {
		return nil, err
	}
	if _, k := vecs.Dims(); k < low {
		return nil, fmt.Errorf("%d components for %d requested: %w", k, low, ErrInvalidSize)
	}

	basis := mat.NewDense(h, low, nil)
	for c := 0; c < low; c++ {
		col := mat.Col(nil, c, &vecs)
		canonicalSign(col)
		basis.SetCol(c, col)
	}

	mean := make([]float64, h)
	centered := mat.DenseCopyOf(xm)
	for d := 0; d < h; d++ {
		col := mat.Col(nil, d, xm)
		mean[d] = stat.Mean(col, nil)
		for i := 0; i < n; i++ {
			centered.Set(i, d, col[i]-mean[d])
		}
	}

	var proj mat.Dense
	proj.Mul(centered, basis)
	out, err := fromMat(&proj)
	if err != nil {
		return nil, err
	}
	p.mean, p.basis, p.vars = mean, basis, vars[:low]

	return out, nil
}

func (p *toolkitPCA) Transform(in, out []float64) error {
	h, l := p.basis.Dims()
	if len(in) != h || len(out) != l {
		return ErrInvalidSize
	}
	for c := 0; c < l; c++ {
		sum := 0.0
		for d := 0; d < h; d++ {
			sum += (in[d] - p.mean[d]) * p.basis.At(d, c)
		}
		out[c] = sum
	}

	return nil
}

func (p *toolkitPCA) Mean() []float64 { return append([]float64(nil), p.mean...) }

func (p *toolkitPCA) Component(i int) []float64 {
	if _, l := p.basis.Dims(); i < 0 || i >= l {
		return nil
	}

	return mat.Col(nil, i, p.basis)
}

func (p *toolkitPCA) ExplainedVariance() []float64 { return append([]float64(nil), p.vars...) }
