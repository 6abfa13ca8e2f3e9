// SPDX-License-Identifier: MIT
package reduction

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/katalvlaran/dimscope/matrix"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

// toolkit holds the process-wide state of the gonum-backed backends.
var toolkit struct {
	once  sync.Once
	ready atomic.Bool

	mu  sync.RWMutex
	log zerolog.Logger
}

// EnsureInitialized prepares the toolkit once per process. It is idempotent,
// safe for concurrent use, and called implicitly before every toolkit fit.
func EnsureInitialized() {
	toolkit.once.Do(func() {
		toolkit.mu.Lock()
		toolkit.log = zerolog.Nop()
		toolkit.mu.Unlock()
		toolkit.ready.Store(true)
	})
}

// ToolkitInitialized reports whether EnsureInitialized has run.
func ToolkitInitialized() bool { return toolkit.ready.Load() }

// SetToolkitLogger routes toolkit diagnostics (recovered solver panics) to l.
func SetToolkitLogger(l zerolog.Logger) {
	EnsureInitialized()
	toolkit.mu.Lock()
	toolkit.log = l
	toolkit.mu.Unlock()
}

func toolkitLogger() zerolog.Logger {
	toolkit.mu.RLock()
	defer toolkit.mu.RUnlock()

	return toolkit.log
}

// toolkitCall runs fn and converts a gonum panic into an error.
func toolkitCall(op string, fn func() error) (err error) {
	EnsureInitialized()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: toolkit panic: %v", op, r)
			l := toolkitLogger()
			l.Error().Str("op", op).Interface("panic", r).Msg("toolkit solver panicked")
		}
	}()

	return fn()
}

// toMat copies a matrix.Dense into a gonum Dense.
func toMat(x *matrix.Dense) *mat.Dense {
	r, c := x.Shape()
	out := mat.NewDense(r, c, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		row, _ = x.Row(i, row)
		out.SetRow(i, row)
	}

	return out
}

// fromMat copies a gonum matrix into a matrix.Dense.
func fromMat(m mat.Matrix) (*matrix.Dense, error) {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}

	return matrix.NewDenseFrom(r, c, data)
}

// canonicalSign flips v so its largest-magnitude component is positive.
// Ties within matrix.DefaultEpsilon resolve to the lowest index.
func canonicalSign(v []float64) {
	pivot := 0.0
	for _, x := range v {
		if math.Abs(x) > math.Abs(pivot)+matrix.DefaultEpsilon {
			pivot = x
		}
	}
	if pivot < 0 {
		for i := range v {
			v[i] = -v[i]
		}
	}
}

// sqDist is the squared Euclidean distance of two equal-length vectors.
func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}

	return s
}

// gaussian is exp(-‖a-b‖²/width).
func gaussian(a, b []float64, width float64) float64 {
	return math.Exp(-sqDist(a, b) / width)
}

// rowsOf returns the rows of m as independent slices.
func rowsOf(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}

	return out
}
