// SPDX-License-Identifier: MIT
package main

import (
	"fmt"

	"github.com/katalvlaran/dimscope/curvefit"
	"github.com/spf13/cobra"
)

func newFitCmd(a *app, open openFunc) *cobra.Command {
	var (
		xDim, yDim int
		degree     int
		axis       string
		samples    int
		embedded   bool
		applyFlag  func()
	)
	cmd := &cobra.Command{
		Use:   "fit <table>",
		Short: "Fit a quadratic or cubic trend through two dimensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFlag()
			if degree > 0 {
				a.cfg.Curve.Degree = degree
			}
			if axis != "" {
				a.cfg.Curve.Axis = axis
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			_, view, err := open(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var points []curvefit.Point
			if embedded {
				a.cfg.Reduction.LowDim = 2
				pts, _, err := a.reduce(cmd.Context(), view)
				if err != nil {
					return err
				}
				for _, p := range pts {
					points = append(points, curvefit.Point{X: p[0], Y: p[1]})
				}
			} else {
				n := view.Dimensions()
				if xDim < 0 || xDim >= n || yDim < 0 || yDim >= n {
					return fmt.Errorf("--x %d --y %d: %d visible dimensions", xDim, yDim, n)
				}
				xs := view.Column(xDim, nil)
				ys := view.Column(yDim, nil)
				for i := range xs {
					points = append(points, curvefit.Point{X: xs[i], Y: ys[i]})
				}
			}

			ax := curvefit.YOfX
			if a.cfg.Curve.Axis == "x_of_y" {
				ax = curvefit.XOfY
			}
			c, err := curvefit.Fit(points, a.cfg.Curve.Degree, ax)
			if err != nil {
				return err
			}
			if c.Degenerate {
				a.log.Warn().Int("points", len(points)).Msg("degenerate fit, flat curve returned")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s coeffs %s\n", c.Axis, formatRow(c.Coeffs))
			if samples > 1 {
				lo, hi := bounds(points, ax)
				for _, p := range c.Sample(samples, lo, hi) {
					fmt.Fprintf(out, "%.6f %.6f\n", p.X, p.Y)
				}
			}

			return nil
		},
	}
	cmd.Flags().IntVar(&xDim, "x", 0, "visible dimension used as x")
	cmd.Flags().IntVar(&yDim, "y", 1, "visible dimension used as y")
	cmd.Flags().IntVarP(&degree, "degree", "d", 0, "2 or 3 (default from config)")
	cmd.Flags().StringVar(&axis, "axis", "", "y_of_x|x_of_y (default from config)")
	cmd.Flags().IntVar(&samples, "samples", 0, "print this many points along the curve")
	cmd.Flags().BoolVar(&embedded, "embedded", false, "fit the 2-D embedding instead of two table dimensions")
	applyFlag = reductionFlags(cmd, a)

	return cmd
}

// bounds returns the range of the independent variable.
func bounds(points []curvefit.Point, ax curvefit.Axis) (lo, hi float64) {
	for i, p := range points {
		t := p.X
		if ax == curvefit.XOfY {
			t = p.Y
		}
		if i == 0 || t < lo {
			lo = t
		}
		if i == 0 || t > hi {
			hi = t
		}
	}

	return lo, hi
}
