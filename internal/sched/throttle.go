// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sched

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttler runs fn at most once per interval. A trigger inside the interval
// schedules one trailing run, and further triggers coalesce into it.
type Throttler struct {
	mu      sync.Mutex
	clock   Clock
	limiter *rate.Limiter
	fn      func()
	timer   Timer
	res     *rate.Reservation
	gen     uint64
	stopped bool
}

// NewThrottler returns a Throttler calling fn on clock.
func NewThrottler(clock Clock, interval time.Duration, fn func()) *Throttler {
	return &Throttler{
		clock:   clock,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		fn:      fn,
	}
}

// Trigger runs fn now if the interval allows it, otherwise makes sure a
// trailing run is scheduled.
func (t *Throttler) Trigger() {
	t.mu.Lock()
	if t.stopped || t.timer != nil {
		t.mu.Unlock()
		return
	}

	now := t.clock.Now()
	if t.limiter.AllowN(now, 1) {
		t.mu.Unlock()
		t.fn()
		return
	}

	t.res = t.limiter.ReserveN(now, 1)
	t.gen++
	gen := t.gen
	t.timer = t.clock.AfterFunc(t.res.DelayFrom(now), func() { t.fire(gen) })
	t.mu.Unlock()
}

// Pending reports whether a trailing run is scheduled.
func (t *Throttler) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Stop drops a pending trailing run and ignores later triggers.
func (t *Throttler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
		t.res.CancelAt(t.clock.Now())
		t.res = nil
	}
	t.gen++
	t.stopped = true
}

func (t *Throttler) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.timer == nil {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.res = nil
	t.mu.Unlock()

	t.fn()
}
