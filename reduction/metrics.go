// SPDX-License-Identifier: MIT
package reduction

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector observes completed fits. Implementations must be safe for concurrent use.
type MetricsCollector interface {
	RecordFit(method Method, backend string, elements int, d time.Duration, err error)
}

// NoopMetricsCollector discards every observation.
type NoopMetricsCollector struct{}

// RecordFit implements MetricsCollector.
func (NoopMetricsCollector) RecordFit(Method, string, int, time.Duration, error) {}

// PrometheusCollector exports fit counters and latencies.
type PrometheusCollector struct {
	fits     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	elements *prometheus.HistogramVec
}

// NewPrometheusCollector builds the collector and registers it with reg.
//
// Series:
//   - dimscope_reduction_fits_total{method,backend,result}
//   - dimscope_reduction_fit_duration_seconds{method,backend}
//   - dimscope_reduction_fit_elements{method}
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	c := &PrometheusCollector{
		fits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dimscope",
				Subsystem: "reduction",
				Name:      "fits_total",
				Help:      "Completed reduction fits by outcome.",
			},
			[]string{"method", "backend", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dimscope",
				Subsystem: "reduction",
				Name:      "fit_duration_seconds",
				Help:      "Wall time of reduction fits.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"method", "backend"},
		),
		elements: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dimscope",
				Subsystem: "reduction",
				Name:      "fit_elements",
				Help:      "Element count per fit.",
				Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
			},
			[]string{"method"},
		),
	}
	for _, col := range []prometheus.Collector{c.fits, c.duration, c.elements} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("reduction: register metrics: %w", err)
		}
	}

	return c, nil
}

// RecordFit implements MetricsCollector.
func (c *PrometheusCollector) RecordFit(method Method, backend string, elements int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.fits.WithLabelValues(method.String(), backend, result).Inc()
	c.duration.WithLabelValues(method.String(), backend).Observe(d.Seconds())
	c.elements.WithLabelValues(method.String()).Observe(float64(elements))
}
