// SPDX-License-Identifier: MIT
package reduction

import (
	"fmt"
	"math"

	"github.com/katalvlaran/dimscope/knn"
	"github.com/katalvlaran/dimscope/matrix"
	"gonum.org/v1/gonum/mat"
)

// exactMatch is the distance under which a query is treated as a training point.
const exactMatch = 1e-12

// toolkitKernelLLE is locally linear embedding with reconstruction weights
// solved in the Gaussian feature space.
//
// The Gaussian kernel is monotone in Euclidean distance, so the k nearest
// neighbors in feature space are the Euclidean ones and come from a kd-tree.
// With K(x,x) = 1 the local Gram of point i over neighbors j, l is
//
//	G_jl = 1 - K(x_i,x_j) - K(x_i,x_l) + K(x_j,x_l)
//
// regularized by reg·trace(G). The embedding is the bottom eigenvectors of
// M = (I-W)ᵀ(I-W), skipping the constant one.
type toolkitKernelLLE struct {
	width float64
	k     int
	reg   float64
	train [][]float64
	index *knn.Index
	out   *mat.Dense // N×L training embedding
}

func newToolkitKernelLLE(cfg backendConfig) Backend {
	return &toolkitKernelLLE{width: cfg.kernelWidth, k: cfg.lleNeighbors, reg: cfg.lleReg}
}

func (*toolkitKernelLLE) Name() string   { return BackendToolkit.String() }
func (*toolkitKernelLLE) Method() Method { return KernelLLE }

func (p *toolkitKernelLLE) Fit(x *matrix.Dense, low int) (*matrix.Dense, error) {
	train := rowsOf(toMat(x))
	n := len(train)
	if p.k > n-1 {
		p.k = n - 1
	}
	index, err := knn.NewIndex(train)
	if err != nil {
		return nil, fmt.Errorf("neighbors: %w", err)
	}
	p.train = train

	iw := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		ns, err := index.SearchIndex(i, p.k)
		if err != nil {
			return nil, fmt.Errorf("neighbors of %d: %w", i, err)
		}
		w := p.weights(train[i], ns)
		iw.Set(i, i, 1)
		for j, nb := range ns {
			iw.Set(i, nb.Index, iw.At(i, nb.Index)-w[j])
		}
	}

	var m mat.Dense
	m.Mul(iw.T(), iw)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}

	var (
		es   mat.EigenSym
		vecs mat.Dense
	)
	err = toolkitCall("kernel_lle", func() error {
		if !es.Factorize(sym, true) {
			return errEigenSym
		}
		es.VectorsTo(&vecs)

		return nil
	})
	if err != nil {
		return nil, err
	}

	// ascending order: column 0 is the constant null vector.
	out := mat.NewDense(n, low, nil)
	for c := 0; c < low; c++ {
		v := mat.Col(nil, c+1, &vecs)
		canonicalSign(v)
		out.SetCol(c, v)
	}

	res, err := fromMat(out)
	if err != nil {
		return nil, err
	}
	p.index, p.out = index, out

	return res, nil
}

// weights solves the regularized local system G·w = 1 and normalizes Σw = 1.
// A singular system falls back to uniform weights.
func (p *toolkitKernelLLE) weights(q []float64, ns []knn.Neighbor) []float64 {
	k := len(ns)
	w := make([]float64, k)
	if k == 0 {
		return w
	}
	kq := make([]float64, k)
	for j, nb := range ns {
		kq[j] = gaussian(q, p.train[nb.Index], p.width)
	}

	g, _ := matrix.NewDense(k, k)
	trace := 0.0
	for j := 0; j < k; j++ {
		pj := p.train[ns[j].Index]
		for l := j; l < k; l++ {
			v := 1 - kq[j] - kq[l] + gaussian(pj, p.train[ns[l].Index], p.width)
			_ = g.Set(j, l, v)
			_ = g.Set(l, j, v)
		}
		v, _ := g.At(j, j)
		trace += v
	}
	ridge := p.reg * trace
	if ridge <= 0 {
		ridge = p.reg
	}
	for j := 0; j < k; j++ {
		v, _ := g.At(j, j)
		_ = g.Set(j, j, v+ridge)
	}

	ones := make([]float64, k)
	for j := range ones {
		ones[j] = 1
	}
	sol, err := matrix.Solve(g, ones)
	sum := 0.0
	if err == nil {
		for _, v := range sol {
			sum += v
		}
	}
	if err != nil || math.Abs(sum) < matrix.DefaultEpsilon {
		for j := range w {
			w[j] = 1 / float64(k)
		}

		return w
	}
	for j, v := range sol {
		w[j] = v / sum
	}

	return w
}

func (p *toolkitKernelLLE) Transform(in, out []float64) error {
	_, l := p.out.Dims()
	if len(out) != l || len(in) != len(p.train[0]) {
		return ErrInvalidSize
	}
	ns, err := p.index.Search(in, p.k)
	if err != nil {
		return err
	}
	if len(ns) > 0 && ns[0].Distance <= exactMatch {
		mat.Row(out, ns[0].Index, p.out)

		return nil
	}
	w := p.weights(in, ns)
	for c := 0; c < l; c++ {
		sum := 0.0
		for j, nb := range ns {
			sum += w[j] * p.out.At(nb.Index, c)
		}
		out[c] = sum
	}

	return nil
}
