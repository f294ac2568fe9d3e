// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package perf

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wtyctl"

// Metrics exports monitor samples as Prometheus collectors.
type Metrics struct {
	durations *prometheus.HistogramVec
	slow      *prometheus.CounterVec
	cacheSize prometheus.Gauge
}

// NewMetrics registers the collectors with reg, or with the default
// registerer when reg is nil. Collectors already registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of engine operations.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		slow: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slow_operations_total",
			Help:      "Count of operations slower than the warning threshold.",
		}, []string{"operation"}),
		cacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "render_cache_entries",
			Help:      "Entries currently held by the render cache.",
		}),
	}

	var err error
	if m.durations, err = register(reg, m.durations); err != nil {
		return nil, fmt.Errorf("register duration histogram: %w", err)
	}
	if m.slow, err = register(reg, m.slow); err != nil {
		return nil, fmt.Errorf("register slow counter: %w", err)
	}
	if m.cacheSize, err = register(reg, m.cacheSize); err != nil {
		return nil, fmt.Errorf("register cache gauge: %w", err)
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, err
}

// SetCacheSize reports the render cache size.
func (m *Metrics) SetCacheSize(n int) {
	if m == nil {
		return
	}
	m.cacheSize.Set(float64(n))
}

func (m *Metrics) observe(op string, d time.Duration, slow bool) {
	if m == nil {
		return
	}
	m.durations.WithLabelValues(op).Observe(d.Seconds())
	if slow {
		m.slow.WithLabelValues(op).Inc()
	}
}
