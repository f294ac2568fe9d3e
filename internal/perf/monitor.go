// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package perf

import (
	"math"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/staranto/wtyctlgo/internal/sched"
)

// Sample is one timed operation.
type Sample struct {
	Operation string
	Duration  time.Duration
	At        time.Time
}

// Stats aggregates the samples currently held by a Monitor.
type Stats struct {
	Average     time.Duration
	Max         time.Duration
	Min         time.Duration
	SampleCount int
	CacheSize   int
}

// Monitor keeps the most recent samples in a fixed size ring. It only
// observes; nothing it does changes control flow.
type Monitor struct {
	mu       sync.Mutex
	clock    sched.Clock
	ring     []Sample
	next     int
	count    int
	slow     time.Duration
	metrics  *Metrics
	slowSeen int
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithMetrics mirrors every sample into m.
func WithMetrics(m *Metrics) Option {
	return func(mon *Monitor) {
		mon.metrics = m
	}
}

// WithClock sets the clock used to stamp and time samples.
func WithClock(c sched.Clock) Option {
	return func(mon *Monitor) {
		mon.clock = c
	}
}

// NewMonitor returns a Monitor holding up to capacity samples and warning
// about any single operation slower than slow.
func NewMonitor(capacity int, slow time.Duration, opts ...Option) *Monitor {
	if capacity < 1 {
		capacity = 1
	}
	m := &Monitor{
		clock: sched.Real(),
		ring:  make([]Sample, capacity),
		slow:  slow,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Record adds a sample, dropping the oldest one when the ring is full.
func (m *Monitor) Record(op string, d time.Duration) {
	m.mu.Lock()
	m.ring[m.next] = Sample{Operation: op, Duration: d, At: m.clock.Now()}
	m.next = (m.next + 1) % len(m.ring)
	if m.count < len(m.ring) {
		m.count++
	}
	slow := m.slow > 0 && d > m.slow
	if slow {
		m.slowSeen++
	}
	m.mu.Unlock()

	if slow {
		log.WithField("operation", op).Warnf("slow operation: %s took %s", op, d.Round(time.Microsecond))
	}
	m.metrics.observe(op, d, slow)
}

// Time starts timing op. Call the returned func when op is done.
func (m *Monitor) Time(op string) func() {
	start := m.clock.Now()
	return func() {
		m.Record(op, m.clock.Now().Sub(start))
	}
}

// Samples returns the held samples, oldest first.
func (m *Monitor) Samples() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Sample, 0, m.count)
	start := (m.next - m.count + len(m.ring)) % len(m.ring)
	for i := 0; i < m.count; i++ {
		out = append(out, m.ring[(start+i)%len(m.ring)])
	}
	return out
}

// SlowCount returns how many recorded samples exceeded the slow threshold.
func (m *Monitor) SlowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slowSeen
}

// Stats aggregates the held samples. It returns false when there are none.
// The average is rounded to the millisecond.
func (m *Monitor) Stats(cacheSize int) (Stats, bool) {
	samples := m.Samples()
	if len(samples) == 0 {
		return Stats{}, false
	}

	s := Stats{
		Max:         samples[0].Duration,
		Min:         samples[0].Duration,
		SampleCount: len(samples),
		CacheSize:   cacheSize,
	}
	var total time.Duration
	for _, sample := range samples {
		total += sample.Duration
		s.Max = max(s.Max, sample.Duration)
		s.Min = min(s.Min, sample.Duration)
	}
	avgMs := float64(total) / float64(len(samples)) / float64(time.Millisecond)
	s.Average = time.Duration(math.Round(avgMs)) * time.Millisecond

	return s, true
}
