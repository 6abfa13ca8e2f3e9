// SPDX-License-Identifier: MIT
package main

import (
	"fmt"

	"github.com/katalvlaran/dimscope/reduction"
	"github.com/spf13/cobra"
)

// reductionFlags binds the flags that override the reduction section of the config.
func reductionFlags(cmd *cobra.Command, a *app) func() {
	var (
		method, backend string
		low             int
	)
	cmd.Flags().StringVarP(&method, "method", "m", "", "pca|kernel_pca|kernel_lle (default from config)")
	cmd.Flags().StringVar(&backend, "backend", "", "auto|native|toolkit (default from config)")
	cmd.Flags().IntVarP(&low, "low", "l", 0, "output dimensions (default from config)")

	return func() {
		if method != "" {
			a.cfg.Reduction.Method = method
		}
		if backend != "" {
			a.cfg.Reduction.Backend = backend
		}
		if low > 0 {
			a.cfg.Reduction.LowDim = low
		}
	}
}

func newReduceCmd(a *app, open openFunc) *cobra.Command {
	var (
		basis     bool
		listOnly  bool
		applyFlag func()
	)
	cmd := &cobra.Command{
		Use:   "reduce <table>",
		Short: "Embed the visible dimensions into a low-dimensional space",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if listOnly {
				for _, m := range reduction.AvailableMethods() {
					fmt.Fprintf(out, "%s %v\n", m, reduction.Backends(m))
				}

				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("reduce: table path required")
			}
			applyFlag()
			if err := a.cfg.Reduction.Validate(); err != nil {
				return err
			}

			_, view, err := open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			pts, e, err := a.reduce(cmd.Context(), view)
			if err != nil {
				return err
			}
			for _, p := range pts {
				fmt.Fprintln(out, formatRow(p))
			}

			if basis && e.Method().Linear() {
				_, _, high := e.Sizes()
				buf := make([]float64, high)
				if err = e.GetMeanPCA(buf); err != nil {
					return err
				}
				fmt.Fprintf(out, "# mean %s\n", formatRow(buf))
				vars, err := e.ExplainedVariance()
				if err != nil {
					return err
				}
				for c, v := range vars {
					if err = e.GetVectorPCA(c, buf); err != nil {
						return err
					}
					fmt.Fprintf(out, "# axis %d var=%.6f %s\n", c, v, formatRow(buf))
				}
			}
			s := e.Session()
			a.log.Info().
				Str("session", s.ID.String()).
				Str("method", s.Method.String()).
				Str("backend", s.Backend).
				Dur("duration", s.Duration).
				Msg("embedding written")

			return nil
		},
	}
	cmd.Flags().BoolVar(&basis, "basis", false, "also print the mean and principal axes (pca only)")
	cmd.Flags().BoolVar(&listOnly, "list", false, "list available methods and backends")
	applyFlag = reductionFlags(cmd, a)

	return cmd
}
