// SPDX-License-Identifier: MIT

// Package curvefit fits quadratic and cubic trend curves to 2-D point sets by
// least squares, for drawing trend indicators over scatterplots.
//
// The independent variable is standardized ((t-mean)/std) before the normal
// equations are formed and solved with matrix.Solve, which keeps the system
// well conditioned for data far from the origin. Coefficients are reported in
// the original variable.
//
// Degenerate input (all points sharing one abscissa, fewer distinct abscissae
// than coefficients, or a near-singular system) never yields NaN or Inf: the fit
// falls back to a flat line at the mean of the dependent variable and sets
// Curve.Degenerate.
package curvefit
