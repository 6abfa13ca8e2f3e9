// SPDX-License-Identifier: MIT
package main

import (
	"fmt"

	"github.com/katalvlaran/dimscope/knn"
	"github.com/spf13/cobra"
)

func newNeighborsCmd(a *app, open openFunc) *cobra.Command {
	var (
		elem      int
		k         int
		applyFlag func()
	)
	cmd := &cobra.Command{
		Use:   "neighbors <table>",
		Short: "List the nearest neighbors of one element in the embedding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFlag()
			if k > 0 {
				a.cfg.KNN.K = k
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			_, view, err := open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			pts, _, err := a.reduce(cmd.Context(), view)
			if err != nil {
				return err
			}
			if elem < 0 || elem >= len(pts) {
				return fmt.Errorf("--element %d: table has %d elements", elem, len(pts))
			}

			ns, err := a.neighbors(pts, elem)
			if err != nil {
				return err
			}
			for _, n := range ns {
				fmt.Fprintf(cmd.OutOrStdout(), "%d %.6f\n", n.Index, n.Distance)
			}

			return nil
		},
	}
	cmd.Flags().IntVarP(&elem, "element", "e", 0, "query element index")
	cmd.Flags().IntVarP(&k, "k", "k", 0, "neighbor count (default from config)")
	applyFlag = reductionFlags(cmd, a)

	return cmd
}

// neighbors queries elem against pts, switching to the kd-tree index for large sets.
func (a *app) neighbors(pts [][]float64, elem int) ([]knn.Neighbor, error) {
	kc := a.cfg.KNN
	useTree := kc.KDTreeThreshold > 0 && len(pts) >= kc.KDTreeThreshold
	a.log.Debug().Int("elements", len(pts)).Int("k", kc.K).Bool("kdtree", useTree).Msg("neighbor query")

	switch {
	case useTree && kc.IncludeSelf:
		ix, err := knn.NewIndex(pts)
		if err != nil {
			return nil, err
		}

		return ix.Search(pts[elem], kc.K)
	case useTree:
		ix, err := knn.NewIndex(pts)
		if err != nil {
			return nil, err
		}

		return ix.SearchIndex(elem, kc.K)
	case kc.IncludeSelf:
		return knn.Search(pts, pts[elem], kc.K)
	default:
		return knn.SearchIndex(pts, elem, kc.K)
	}
}
