// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCorrelateCmd(a *app, open openFunc) *cobra.Command {
	var sorted bool
	cmd := &cobra.Command{
		Use:   "correlate <table>",
		Short: "Print the Pearson correlation table of the visible dimensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, view, err := open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if sorted {
				view.SortData()
			}
			a.log.Debug().Ints("order", view.Visible()).Msg("dimension order")

			n := view.Dimensions()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			header := make([]string, n+1)
			for v := 0; v < n; v++ {
				header[v+1] = view.Label(v)
			}
			fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
			for i := 0; i < n; i++ {
				row := make([]string, n+1)
				row[0] = view.Label(i)
				for j := 0; j < n; j++ {
					row[j+1] = fmt.Sprintf("%.3f", view.Correlation(i, j))
				}
				fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
			}

			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&sorted, "sort", false, "order dimensions by adjacent correlation")

	return cmd
}
