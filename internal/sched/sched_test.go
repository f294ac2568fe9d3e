// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

func TestManualClock(t *testing.T) {
	c := NewManualClock(epoch)
	var order []string

	c.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })
	c.AfterFunc(10*time.Millisecond, func() {
		order = append(order, "a")
		c.AfterFunc(5*time.Millisecond, func() { order = append(order, "a2") })
	})
	stopped := c.AfterFunc(15*time.Millisecond, func() { order = append(order, "never") })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	c.Advance(9 * time.Millisecond)
	assert.Empty(t, order)

	c.Advance(11 * time.Millisecond)
	assert.Equal(t, []string{"a", "a2", "b"}, order)
	assert.Equal(t, epoch.Add(20*time.Millisecond), c.Now())
	assert.Equal(t, 0, c.Pending())
}

func TestDebouncer(t *testing.T) {
	tests := []struct {
		name     string
		triggers []time.Duration // gaps before each trigger
		settle   time.Duration
		want     int
	}{
		{"single", []time.Duration{0}, 300 * time.Millisecond, 1},
		{"burst collapses", []time.Duration{0, 50 * time.Millisecond, 100 * time.Millisecond, 299 * time.Millisecond}, 300 * time.Millisecond, 1},
		{"spaced", []time.Duration{0, 400 * time.Millisecond}, 300 * time.Millisecond, 2},
		{"not yet quiet", []time.Duration{0}, 299 * time.Millisecond, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewManualClock(epoch)
			calls := 0
			d := NewDebouncer(c, 300*time.Millisecond, func() { calls++ })

			for _, gap := range tt.triggers {
				c.Advance(gap)
				d.Trigger()
			}
			c.Advance(tt.settle)
			assert.Equal(t, tt.want, calls)
		})
	}
}

func TestDebouncer_FlushStop(t *testing.T) {
	c := NewManualClock(epoch)
	calls := 0
	d := NewDebouncer(c, 300*time.Millisecond, func() { calls++ })

	assert.False(t, d.Flush())
	d.Trigger()
	assert.True(t, d.Pending())
	assert.True(t, d.Flush())
	assert.Equal(t, 1, calls)
	c.Advance(time.Second)
	assert.Equal(t, 1, calls)

	d.Trigger()
	d.Stop()
	assert.False(t, d.Pending())
	c.Advance(time.Second)
	d.Trigger()
	c.Advance(time.Second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, c.Pending())
}

func TestThrottler(t *testing.T) {
	c := NewManualClock(epoch)
	var at []time.Duration
	th := NewThrottler(c, 16*time.Millisecond, func() { at = append(at, c.Now().Sub(epoch)) })

	th.Trigger()
	assert.Len(t, at, 1)

	// Triggers inside the interval coalesce into one trailing run.
	for i := 0; i < 5; i++ {
		c.Advance(2 * time.Millisecond)
		th.Trigger()
	}
	assert.Len(t, at, 1)
	assert.True(t, th.Pending())

	c.Advance(20 * time.Millisecond)
	assert.Len(t, at, 2)
	assert.False(t, th.Pending())
	assert.GreaterOrEqual(t, at[1]-at[0], 15*time.Millisecond)

	// Well after the interval a trigger runs immediately.
	c.Advance(time.Second)
	th.Trigger()
	assert.Len(t, at, 3)
}

func TestThrottler_Stop(t *testing.T) {
	c := NewManualClock(epoch)
	calls := 0
	th := NewThrottler(c, 16*time.Millisecond, func() { calls++ })

	th.Trigger()
	th.Trigger()
	th.Stop()
	c.Advance(time.Second)
	th.Trigger()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, c.Pending())
}

func TestTicker(t *testing.T) {
	c := NewManualClock(epoch)
	ticks := 0
	tk := NewTicker(c, time.Minute, func() { ticks++ })

	c.Advance(59 * time.Second)
	assert.Equal(t, 0, ticks)
	c.Advance(time.Second)
	assert.Equal(t, 1, ticks)
	c.Advance(5 * time.Minute)
	assert.Equal(t, 6, ticks)

	tk.Stop()
	tk.Stop()
	c.Advance(5 * time.Minute)
	assert.Equal(t, 6, ticks)
	assert.Equal(t, 0, c.Pending())
}

func TestTicker_StopFromCallback(t *testing.T) {
	c := NewManualClock(epoch)
	ticks := 0
	var tk *Ticker
	tk = NewTicker(c, time.Second, func() {
		ticks++
		if ticks == 2 {
			tk.Stop()
		}
	})

	c.Advance(10 * time.Second)
	assert.Equal(t, 2, ticks)
	assert.Equal(t, 0, c.Pending())
}
