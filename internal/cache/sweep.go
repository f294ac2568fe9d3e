// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"time"

	"github.com/apex/log"
)

// Evicter is the part of a cache a Sweeper works on.
type Evicter interface {
	Len() int
	Evict(n int) int
}

// Policy holds the sweep thresholds.
type Policy struct {
	// SweepAfter is how long after the previous routine sweep the next one
	// becomes due.
	SweepAfter     time.Duration
	RoutineLimit   int
	RoutineBatch   int
	EmergencyLimit int
	EmergencyBatch int
}

// SweepResult describes what one Tick did.
type SweepResult struct {
	Emergency bool
	Routine   bool
	Evicted   int
}

// Sweeper applies Policy to a cache once per tick. It is not safe for
// concurrent use.
type Sweeper struct {
	policy      Policy
	lastRoutine time.Time
}

// NewSweeper returns a Sweeper whose first routine sweep is due SweepAfter
// past start.
func NewSweeper(p Policy, start time.Time) *Sweeper {
	return &Sweeper{policy: p, lastRoutine: start}
}

// Tick runs the emergency check and, when due, the routine sweep. Whenever
// either evicts, the cache ends at or below RoutineLimit.
func (s *Sweeper) Tick(c Evicter, now time.Time) SweepResult {
	var res SweepResult
	p := s.policy

	if n := c.Len(); n > p.EmergencyLimit {
		res.Emergency = true
		res.Evicted += c.Evict(max(p.EmergencyBatch, n-p.RoutineLimit))
		log.Warnf("emergency cache sweep: %d entries, evicted %d", n, res.Evicted)
	}

	if now.Sub(s.lastRoutine) > p.SweepAfter {
		res.Routine = true
		s.lastRoutine = now
		if n := c.Len(); n > p.RoutineLimit {
			evicted := c.Evict(max(p.RoutineBatch, n-p.RoutineLimit))
			res.Evicted += evicted
			log.Debugf("routine cache sweep: %d entries, evicted %d", n, evicted)
		}
	}

	return res
}
