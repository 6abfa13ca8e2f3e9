// SPDX-License-Identifier: MIT

// Package config loads the YAML configuration of the dimscope command.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration file.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Reduction ReductionConfig `yaml:"reduction"`
	KNN       KNNConfig       `yaml:"knn"`
	Curve     CurveConfig     `yaml:"curve"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// LogConfig selects the logger level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // console|json
}

// ReductionConfig configures the reduction engine.
type ReductionConfig struct {
	Method         string  `yaml:"method"`          // pca|kernel_pca|kernel_lle
	LowDim         int     `yaml:"low_dim"`         // output dimensions
	Backend        string  `yaml:"backend"`         // auto|native|toolkit
	KernelWidth    float64 `yaml:"kernel_width"`    // Gaussian kernel width
	LLENeighbors   int     `yaml:"lle_neighbors"`   // neighborhood size for kernel LLE
	EigenTolerance float64 `yaml:"eigen_tolerance"` // Jacobi convergence threshold (native PCA)
}

// KNNConfig configures neighbor queries over projected points.
type KNNConfig struct {
	K               int  `yaml:"k"`
	IncludeSelf     bool `yaml:"include_self"`
	KDTreeThreshold int  `yaml:"kdtree_threshold"` // switch to the kd-tree index at this many points
}

// CurveConfig configures trend curve fitting.
type CurveConfig struct {
	Degree int    `yaml:"degree"` // 2 or 3
	Axis   string `yaml:"axis"`   // y_of_x|x_of_y
}

// MetricsConfig toggles Prometheus collection.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "console"},
		Reduction: ReductionConfig{
			Method:         "pca",
			LowDim:         2,
			Backend:        "auto",
			KernelWidth:    2.0,
			LLENeighbors:   10,
			EigenTolerance: 1e-12,
		},
		KNN:   KNNConfig{K: 5, KDTreeThreshold: 2048},
		Curve: CurveConfig{Degree: 2, Axis: "y_of_x"},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be trace|debug|info|warn|error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be console|json, got %q", c.Log.Format)
	}
	if err := c.Reduction.Validate(); err != nil {
		return fmt.Errorf("reduction: %w", err)
	}
	if c.KNN.K <= 0 {
		return fmt.Errorf("knn k must be positive, got %d", c.KNN.K)
	}
	if c.KNN.KDTreeThreshold < 0 {
		return fmt.Errorf("knn kdtree_threshold cannot be negative, got %d", c.KNN.KDTreeThreshold)
	}
	if c.Curve.Degree != 2 && c.Curve.Degree != 3 {
		return fmt.Errorf("curve degree must be 2 or 3, got %d", c.Curve.Degree)
	}
	if c.Curve.Axis != "y_of_x" && c.Curve.Axis != "x_of_y" {
		return fmt.Errorf("curve axis must be y_of_x|x_of_y, got %q", c.Curve.Axis)
	}

	return nil
}

// Validate ensures the reduction settings are usable.
func (r *ReductionConfig) Validate() error {
	switch r.Method {
	case "pca", "kernel_pca", "kernel_lle":
	default:
		return fmt.Errorf("method must be pca|kernel_pca|kernel_lle, got %q", r.Method)
	}
	switch r.Backend {
	case "auto", "native", "toolkit":
	default:
		return fmt.Errorf("backend must be auto|native|toolkit, got %q", r.Backend)
	}
	if r.LowDim <= 0 {
		return fmt.Errorf("low_dim must be positive, got %d", r.LowDim)
	}
	if !(r.KernelWidth > 0) {
		return fmt.Errorf("kernel_width must be positive, got %g", r.KernelWidth)
	}
	if r.LLENeighbors <= 0 {
		return fmt.Errorf("lle_neighbors must be positive, got %d", r.LLENeighbors)
	}
	if !(r.EigenTolerance > 0) {
		return fmt.Errorf("eigen_tolerance must be positive, got %g", r.EigenTolerance)
	}

	return nil
}
