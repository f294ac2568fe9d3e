// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings are the engine tunables. They resolve from the built-in defaults,
// then the engine.* keys of the config file, then WTYCTL_* environment
// variables.
type Settings struct {
	ExpiringDays int `envconfig:"EXPIRING_DAYS"`

	SweepInterval  time.Duration `envconfig:"SWEEP_INTERVAL"`
	SweepAfter     time.Duration `envconfig:"SWEEP_AFTER"`
	RoutineLimit   int           `envconfig:"ROUTINE_LIMIT"`
	RoutineBatch   int           `envconfig:"ROUTINE_BATCH"`
	EmergencyLimit int           `envconfig:"EMERGENCY_LIMIT"`
	EmergencyBatch int           `envconfig:"EMERGENCY_BATCH"`
	CacheCapacity  int           `envconfig:"CACHE_CAPACITY"`

	SearchDebounce time.Duration `envconfig:"SEARCH_DEBOUNCE"`
	ScrollThrottle time.Duration `envconfig:"SCROLL_THROTTLE"`

	Virtualize          bool `envconfig:"VIRTUALIZE"`
	VirtualizeThreshold int  `envconfig:"VIRTUALIZE_THRESHOLD"`
	ItemExtent          int  `envconfig:"ITEM_EXTENT"`
	Overscan            int  `envconfig:"OVERSCAN"`
	ViewportHeight      int  `envconfig:"VIEWPORT_HEIGHT"`

	SampleCapacity int           `envconfig:"SAMPLE_CAPACITY"`
	SlowThreshold  time.Duration `envconfig:"SLOW_THRESHOLD"`

	Currency string `envconfig:"CURRENCY"`
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		ExpiringDays:        30,
		SweepInterval:       60 * time.Second,
		SweepAfter:          300 * time.Second,
		RoutineLimit:        100,
		RoutineBatch:        50,
		EmergencyLimit:      200,
		EmergencyBatch:      100,
		CacheCapacity:       1000,
		SearchDebounce:      300 * time.Millisecond,
		ScrollThrottle:      16 * time.Millisecond,
		Virtualize:          false,
		VirtualizeThreshold: 50,
		ItemExtent:          1,
		Overscan:            5,
		ViewportHeight:      20,
		SampleCapacity:      100,
		SlowThreshold:       100 * time.Millisecond,
		Currency:            "RM",
	}
}

// LoadSettings resolves Settings against the loaded Config and the
// environment.
func LoadSettings() (Settings, error) {
	s := DefaultSettings()

	ints := map[string]*int{
		"engine.expiring_days":        &s.ExpiringDays,
		"engine.routine_limit":        &s.RoutineLimit,
		"engine.routine_batch":        &s.RoutineBatch,
		"engine.emergency_limit":      &s.EmergencyLimit,
		"engine.emergency_batch":      &s.EmergencyBatch,
		"engine.cache_capacity":       &s.CacheCapacity,
		"engine.virtualize_threshold": &s.VirtualizeThreshold,
		"engine.item_extent":          &s.ItemExtent,
		"engine.overscan":             &s.Overscan,
		"engine.viewport_height":      &s.ViewportHeight,
		"engine.sample_capacity":      &s.SampleCapacity,
	}
	for key, dst := range ints {
		v, err := GetInt(key, *dst)
		if err != nil {
			return s, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = v
	}

	durations := map[string]*time.Duration{
		"engine.sweep_interval":  &s.SweepInterval,
		"engine.sweep_after":     &s.SweepAfter,
		"engine.search_debounce": &s.SearchDebounce,
		"engine.scroll_throttle": &s.ScrollThrottle,
		"engine.slow_threshold":  &s.SlowThreshold,
	}
	for key, dst := range durations {
		v, err := GetDuration(key, *dst)
		if err != nil {
			return s, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = v
	}

	virtualize, err := GetBool("engine.virtualize", s.Virtualize)
	if err != nil {
		return s, fmt.Errorf("invalid engine.virtualize: %w", err)
	}
	s.Virtualize = virtualize

	currency, err := GetString("engine.currency", s.Currency)
	if err != nil {
		return s, fmt.Errorf("invalid engine.currency: %w", err)
	}
	s.Currency = currency

	if err := envconfig.Process("wtyctl", &s); err != nil {
		return s, fmt.Errorf("failed to read environment: %w", err)
	}

	return s, s.Validate()
}

// Validate rejects tunings the sweep and render code cannot honor.
func (s Settings) Validate() error {
	switch {
	case s.ExpiringDays < 0:
		return fmt.Errorf("expiring days must not be negative: %d", s.ExpiringDays)
	case s.SweepInterval <= 0:
		return fmt.Errorf("sweep interval must be positive: %s", s.SweepInterval)
	case s.RoutineLimit < 0 || s.RoutineBatch < 0:
		return fmt.Errorf("routine limit and batch must not be negative")
	case s.EmergencyLimit < s.RoutineLimit:
		return fmt.Errorf("emergency limit %d is below routine limit %d", s.EmergencyLimit, s.RoutineLimit)
	case s.CacheCapacity <= 0:
		return fmt.Errorf("cache capacity must be positive: %d", s.CacheCapacity)
	case s.ItemExtent <= 0:
		return fmt.Errorf("item extent must be positive: %d", s.ItemExtent)
	case s.Overscan < 0:
		return fmt.Errorf("overscan must not be negative: %d", s.Overscan)
	case s.ViewportHeight <= 0:
		return fmt.Errorf("viewport height must be positive: %d", s.ViewportHeight)
	case s.SampleCapacity <= 0:
		return fmt.Errorf("sample capacity must be positive: %d", s.SampleCapacity)
	}
	return nil
}
