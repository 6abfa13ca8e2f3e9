// SPDX-License-Identifier: MIT
package curvefit

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/dimscope/matrix"
	"gonum.org/v1/gonum/stat"
)

// Sentinel errors.
var (
	ErrNoPoints  = errors.New("curvefit: no points")
	ErrDegree    = errors.New("curvefit: degree must be 2 or 3")
	ErrNonFinite = errors.New("curvefit: non-finite coordinate")
)

// Axis selects which coordinate is modeled as a function of the other.
type Axis int

const (
	// YOfX fits y ≈ p(x).
	YOfX Axis = iota
	// XOfY fits x ≈ p(y).
	XOfY
)

// String implements fmt.Stringer.
func (a Axis) String() string {
	if a == XOfY {
		return "x(y)"
	}

	return "y(x)"
}

// Point is one 2-D sample.
type Point struct {
	X, Y float64
}

// Curve is a fitted polynomial.
type Curve struct {
	// Coeffs holds the coefficients in ascending powers of the original variable:
	// Coeffs[0] + Coeffs[1]·t + Coeffs[2]·t² (+ Coeffs[3]·t³).
	Coeffs []float64
	Axis   Axis
	// Degenerate is set when the fit fell back to a flat line at the mean.
	Degenerate bool

	// standardized form used by Eval: p(u), u = (t-center)/scale
	std           []float64
	center, scale float64
}

// pivotFloor is the per-point minimum pivot accepted in the standardized normal equations.
const pivotFloor = 1e-9

// minSpread is the smallest standard deviation of the independent variable treated as non-constant.
const minSpread = 1e-12

// Quadratic fits y ≈ e + f·x + g·x².
func Quadratic(points []Point) (Curve, error) { return Fit(points, 2, YOfX) }

// Cubic fits y ≈ a + b·x + c·x² + d·x³.
func Cubic(points []Point) (Curve, error) { return Fit(points, 3, YOfX) }

// Fit solves the least-squares polynomial of the given degree along axis.
//
// Description:
//
//	Models the dependent coordinate as p(t) = Σ c_k·t^k, k = 0..degree, where t
//	is X for YOfX and Y for XOfY, minimizing Σ (v_i - p(t_i))².
//
// Algorithm Outline:
//  1. Reject bad degree, empty input and non-finite coordinates.
//  2. Standardize u = (t - mean(t)) / std(t) so the normal equations stay well scaled.
//  3. Accumulate A_rc = Σ u^(r+c) and b_r = Σ v·u^r in a matrix.Dense.
//  4. matrix.Solve with a pivot floor of 1e-9·n.
//  5. Expand the standardized coefficients back to powers of t.
//
// Degenerate input (one point, constant t, singular system) yields a flat curve
// at mean(v) with Degenerate = true instead of an error.
//
// Complexity:
//   - Time O(n·degree² + degree³), Space O(degree²).
//
// Errors:
//   - ErrDegree    if degree is not 2 or 3.
//   - ErrNoPoints  if points is empty.
//   - ErrNonFinite if any coordinate is NaN or ±Inf.
func Fit(points []Point, degree int, axis Axis) (Curve, error) {
	if degree != 2 && degree != 3 {
		return Curve{}, ErrDegree
	}
	if len(points) == 0 {
		return Curve{}, ErrNoPoints
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return Curve{}, fmt.Errorf("point %d (%g, %g): %w", i, p.X, p.Y, ErrNonFinite)
		}
	}

	ts, vs := split(points, axis)
	center, spread := stat.MeanStdDev(ts, nil)
	meanV := stat.Mean(vs, nil)
	if len(points) < 2 || !(spread > minSpread) {
		return flat(meanV, degree, axis), nil
	}

	n := degree + 1
	a, err := matrix.NewDense(n, n)
	if err != nil {
		return Curve{}, err
	}
	b := make([]float64, n)
	pw := make([]float64, 2*n-1)
	for i, t := range ts {
		u := (t - center) / spread
		pw[0] = 1
		for p := 1; p < len(pw); p++ {
			pw[p] = pw[p-1] * u
		}
		for r := 0; r < n; r++ {
			b[r] += vs[i] * pw[r]
			for c := 0; c < n; c++ {
				v, _ := a.At(r, c)
				_ = a.Set(r, c, v+pw[r+c])
			}
		}
	}

	coef, err := matrix.Solve(a, b, matrix.WithEpsilon(pivotFloor*float64(len(points))))
	if err != nil {
		return flat(meanV, degree, axis), nil
	}
	for _, c := range coef {
		if !finite(c) {
			return flat(meanV, degree, axis), nil
		}
	}

	return Curve{
		Coeffs: expand(coef, center, spread),
		Axis:   axis,
		std:    coef,
		center: center,
		scale:  spread,
	}, nil
}

// Eval returns the fitted dependent value at t.
func (c Curve) Eval(t float64) float64 {
	if len(c.std) == 0 {
		return horner(c.Coeffs, t)
	}

	return horner(c.std, (t-c.center)/c.scale)
}

// Sample returns n points of the curve for t evenly spaced over [lo, hi],
// oriented according to Axis. n < 2 yields the single point at lo.
func (c Curve) Sample(n int, lo, hi float64) []Point {
	if n < 1 {
		return nil
	}
	out := make([]Point, n)
	step := 0.0
	if n > 1 {
		step = (hi - lo) / float64(n-1)
	}
	for i := range out {
		t := lo + float64(i)*step
		v := c.Eval(t)
		if c.Axis == XOfY {
			out[i] = Point{X: v, Y: t}
		} else {
			out[i] = Point{X: t, Y: v}
		}
	}

	return out
}

func split(points []Point, axis Axis) (ts, vs []float64) {
	ts = make([]float64, len(points))
	vs = make([]float64, len(points))
	for i, p := range points {
		if axis == XOfY {
			ts[i], vs[i] = p.Y, p.X
		} else {
			ts[i], vs[i] = p.X, p.Y
		}
	}

	return ts, vs
}

func flat(mean float64, degree int, axis Axis) Curve {
	coeffs := make([]float64, degree+1)
	coeffs[0] = mean

	return Curve{Coeffs: coeffs, Axis: axis, Degenerate: true}
}

func horner(coeffs []float64, t float64) float64 {
	var v float64
	for i := len(coeffs) - 1; i >= 0; i-- {
		v = v*t + coeffs[i]
	}

	return v
}

// expand rewrites Σ c_k·((t-m)/s)^k as Σ a_j·t^j.
func expand(c []float64, m, s float64) []float64 {
	out := make([]float64, len(c))
	for k, ck := range c {
		scale := ck / math.Pow(s, float64(k))
		// (t - m)^k = Σ_j C(k,j) t^j (-m)^(k-j)
		for j := 0; j <= k; j++ {
			out[j] += scale * binomial(k, j) * math.Pow(-m, float64(k-j))
		}
	}

	return out
}

func binomial(n, k int) float64 {
	r := 1.0
	for i := 1; i <= k; i++ {
		r = r * float64(n-k+i) / float64(i)
	}

	return r
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
