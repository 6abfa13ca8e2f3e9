// SPDX-License-Identifier: MIT
package reduction

import (
	"errors"
	"math"

	"github.com/katalvlaran/dimscope/matrix"
	"gonum.org/v1/gonum/mat"
)

var errEigenSym = errors.New("symmetric eigen-decomposition did not converge")

// eigenFloor is the relative eigenvalue below which a kernel component is treated as null.
const eigenFloor = 1e-12

// toolkitKernelPCA is Gaussian-kernel PCA on gonum mat.EigenSym.
//
// The N×N Gram matrix K is double-centered, Kc = K - 1K - K1 + 1K1, and its
// leading eigenpairs (λ, v) give the embedding √λ·v. A new point y maps through
// its centered kernel row kc(y) as kc(y)·v/√λ, which reproduces the training
// embedding exactly for training rows.
type toolkitKernelPCA struct {
	width   float64
	train   [][]float64
	rowMean []float64  // mean of each Gram row
	allMean float64    // mean of the whole Gram matrix
	alpha   *mat.Dense // N×L, v/√λ (zero column for null components)
	vals    []float64
}

func newToolkitKernelPCA(cfg backendConfig) Backend {
	return &toolkitKernelPCA{width: cfg.kernelWidth}
}

func (*toolkitKernelPCA) Name() string   { return BackendToolkit.String() }
func (*toolkitKernelPCA) Method() Method { return KernelPCA }

func (p *toolkitKernelPCA) Fit(x *matrix.Dense, low int) (*matrix.Dense, error) {
	train := rowsOf(toMat(x))
	n := len(train)

	gram := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		gram.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			gram.SetSym(i, j, gaussian(train[i], train[j], p.width))
		}
	}

	rowMean := make([]float64, n)
	allMean := 0.0
	for i := 0; i < n; i++ {
		s := 0.0
		for j := 0; j < n; j++ {
			s += gram.At(i, j)
		}
		rowMean[i] = s / float64(n)
		allMean += rowMean[i]
	}
	allMean /= float64(n)

	centered := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			centered.SetSym(i, j, gram.At(i, j)-rowMean[i]-rowMean[j]+allMean)
		}
	}

	var (
		es   mat.EigenSym
		vecs mat.Dense
		vals []float64
	)
	err := toolkitCall("kernel_pca", func() error {
		if !es.Factorize(centered, true) {
			return errEigenSym
		}
		vals = es.Values(nil)
		es.VectorsTo(&vecs)

		return nil
	})
	if err != nil {
		return nil, err
	}

	// EigenSym orders ascending; walk from the top.
	top := math.Max(vals[n-1], 0)
	alpha := mat.NewDense(n, low, nil)
	out := mat.NewDense(n, low, nil)
	kept := make([]float64, low)
	for c := 0; c < low; c++ {
		src := n - 1 - c
		if src < 0 {
			break
		}
		lambda := vals[src]
		if top == 0 || !(lambda > eigenFloor*top) {
			continue
		}
		v := mat.Col(nil, src, &vecs)
		canonicalSign(v)
		root := math.Sqrt(lambda)
		for i, vi := range v {
			alpha.Set(i, c, vi/root)
			out.Set(i, c, vi*root)
		}
		kept[c] = lambda
	}

	res, err := fromMat(out)
	if err != nil {
		return nil, err
	}
	p.train, p.rowMean, p.allMean, p.alpha, p.vals = train, rowMean, allMean, alpha, kept

	return res, nil
}

func (p *toolkitKernelPCA) Transform(in, out []float64) error {
	n, l := p.alpha.Dims()
	if len(out) != l || len(in) != len(p.train[0]) {
		return ErrInvalidSize
	}
	k := make([]float64, n)
	mean := 0.0
	for j, t := range p.train {
		k[j] = gaussian(in, t, p.width)
		mean += k[j]
	}
	mean /= float64(n)
	for j := range k {
		k[j] = k[j] - mean - p.rowMean[j] + p.allMean
	}
	for c := 0; c < l; c++ {
		sum := 0.0
		for j, kj := range k {
			sum += kj * p.alpha.At(j, c)
		}
		out[c] = sum
	}

	return nil
}
