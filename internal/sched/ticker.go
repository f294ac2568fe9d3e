// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sched

import (
	"sync"
	"time"
)

// Ticker calls fn every interval until stopped.
type Ticker struct {
	mu      sync.Mutex
	clock   Clock
	every   time.Duration
	fn      func()
	timer   Timer
	stopped bool
}

// NewTicker starts a Ticker on clock.
func NewTicker(clock Clock, every time.Duration, fn func()) *Ticker {
	t := &Ticker{clock: clock, every: every, fn: fn}
	t.mu.Lock()
	t.schedule()
	t.mu.Unlock()
	return t
}

// Stop releases the scheduled tick. It is safe to call more than once.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Ticker) schedule() {
	t.timer = t.clock.AfterFunc(t.every, t.tick)
}

func (t *Ticker) tick() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.mu.Unlock()

	t.fn()

	t.mu.Lock()
	if !t.stopped {
		t.schedule()
	}
	t.mu.Unlock()
}
