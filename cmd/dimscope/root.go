// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/dimscope/config"
	"github.com/katalvlaran/dimscope/indirect"
	"github.com/katalvlaran/dimscope/internal/logx"
	"github.com/katalvlaran/dimscope/reduction"
	"github.com/katalvlaran/dimscope/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// app is the state shared by every subcommand after PersistentPreRunE.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	metrics *prometheus.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), log: zerolog.Nop()}
	var (
		cfgPath   string
		logLevel  string
		logFormat string
		disabled  []int
	)

	root := &cobra.Command{
		Use:           "dimscope",
		Short:         "Explore correlations and embeddings of high-dimensional tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgPath != "" {
				cfg, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				a.cfg = *cfg
			}
			if cmd.Flags().Changed("log-level") {
				a.cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				a.cfg.Log.Format = logFormat
			}
			log, err := logx.New(a.cfg.Log.Level, a.cfg.Log.Format, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.log = log
			cmd.Flags().Visit(func(f *pflag.Flag) {
				a.log.Debug().Str("flag", f.Name).Str("value", f.Value.String()).Msg("flag set")
			})
			if a.cfg.Metrics.Enabled {
				a.metrics = prometheus.NewRegistry()
			}

			return nil
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace|debug|info|warn|error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console|json)")
	root.PersistentFlags().IntSliceVar(&disabled, "disable", nil, "real dimension indices to hide")

	open := func(ctx context.Context, path string) (*store.Store, *indirect.Indirector, error) {
		return a.open(ctx, path, disabled)
	}
	root.AddCommand(
		newCorrelateCmd(a, open),
		newReduceCmd(a, open),
		newNeighborsCmd(a, open),
		newFitCmd(a, open),
	)

	return root
}

type openFunc func(ctx context.Context, path string) (*store.Store, *indirect.Indirector, error)

// open loads a table (and its sidecar) and builds the visible-dimension view.
func (a *app) open(ctx context.Context, path string, disabled []int) (*store.Store, *indirect.Indirector, error) {
	s, err := store.LoadFile(ctx, path, store.WithLogger(a.log))
	if err != nil {
		return nil, nil, err
	}
	view := indirect.New(s)
	for _, d := range disabled {
		if d < 0 || d >= s.Dimensions() {
			return nil, nil, fmt.Errorf("--disable %d: table has %d dimensions", d, s.Dimensions())
		}
		view.Enable(d, false)
	}
	if view.Dimensions() == 0 {
		return nil, nil, fmt.Errorf("%s: every dimension is disabled", path)
	}

	return s, view, nil
}

// engine builds a reduction engine from the configuration.
func (a *app) engine() (*reduction.Engine, error) {
	rc := a.cfg.Reduction
	method, err := reduction.ParseMethod(rc.Method)
	if err != nil {
		return nil, err
	}
	backend, err := reduction.ParseBackend(rc.Backend)
	if err != nil {
		return nil, err
	}
	reduction.SetToolkitLogger(a.log)

	opts := []reduction.Option{
		reduction.WithLogger(a.log),
		reduction.WithMethod(method),
		reduction.WithBackend(backend),
		reduction.WithKernelWidth(rc.KernelWidth),
		reduction.WithLLENeighbors(rc.LLENeighbors),
		reduction.WithEigenTolerance(rc.EigenTolerance),
	}
	if a.metrics != nil {
		col, err := reduction.NewPrometheusCollector(a.metrics)
		if err != nil {
			return nil, err
		}
		opts = append(opts, reduction.WithMetrics(col))
	}

	return reduction.New(opts...), nil
}

// reduce fits the configured method on the visible dimensions and returns the embedding.
// Every subcommand that fits goes through here, so metrics are reported once per fit.
func (a *app) reduce(ctx context.Context, view *indirect.Indirector) ([][]float64, *reduction.Engine, error) {
	e, err := a.engine()
	if err != nil {
		return nil, nil, err
	}
	if err = e.LoadTable(view, a.cfg.Reduction.LowDim); err != nil {
		return nil, nil, err
	}
	err = e.RunContext(ctx)
	a.reportMetrics()
	if err != nil {
		return nil, nil, err
	}
	pts, err := e.OutputPoints()
	if err != nil {
		return nil, nil, err
	}

	return pts, e, nil
}

// reportMetrics logs every gathered series at info level. No-op unless metrics are enabled.
func (a *app) reportMetrics() {
	if a.metrics == nil {
		return
	}
	families, err := a.metrics.Gather()
	if err != nil {
		a.log.Warn().Err(err).Msg("metrics gather failed")

		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			ev := a.log.Info().Str("metric", mf.GetName())
			for _, lp := range m.GetLabel() {
				ev = ev.Str(lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				ev = ev.Float64("value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				ev = ev.Uint64("count", m.GetHistogram().GetSampleCount()).
					Float64("sum", m.GetHistogram().GetSampleSum())
			}
			ev.Msg("metric")
		}
	}
}

func formatRow(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}

	return strings.Join(parts, " ")
}
