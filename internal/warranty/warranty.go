// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package warranty

import (
	"math"
	"time"

	"github.com/staranto/wtyctlgo/internal/product"
)

// Status is the derived warranty state of a product.
type Status string

const (
	Unknown  Status = "unknown"
	Valid    Status = "valid"
	Expiring Status = "expiring"
	Expired  Status = "expired"
)

// Statuses lists every status in display order.
var Statuses = []Status{Valid, Expiring, Expired, Unknown}

// Text returns the display text of s.
func (s Status) Text() string {
	switch s {
	case Valid:
		return "Valid"
	case Expiring:
		return "Expiring Soon"
	case Expired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// ParseStatus returns the Status named by s.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Info is a warranty status snapshot. Expiry is the zero time when the status
// is Unknown.
type Info struct {
	Status        Status
	Expiry        time.Time
	DaysRemaining int
}

// HasExpiry reports whether an expiry date could be derived.
func (i Info) HasExpiry() bool {
	return !i.Expiry.IsZero()
}

// Calculator derives warranty status. It holds no state beyond its threshold.
type Calculator struct {
	// ExpiringDays is the largest number of remaining days still reported as
	// Expiring rather than Valid.
	ExpiringDays int
}

// Compute derives the warranty status of a purchase made on purchaseDate
// with a warranty of months months, as seen at now.
func (c Calculator) Compute(purchaseDate string, months int, now time.Time) Info {
	if purchaseDate == "" || months <= 0 {
		return Info{Status: Unknown}
	}

	bought, err := product.ParseDate(purchaseDate)
	if err != nil {
		return Info{Status: Unknown}
	}

	expiry := AddMonths(bought, months)
	days := int(math.Ceil(expiry.Sub(now).Hours() / 24))

	info := Info{Expiry: expiry, DaysRemaining: days}
	switch {
	case days < 0:
		info.Status = Expired
	case days <= c.ExpiringDays:
		info.Status = Expiring
	default:
		info.Status = Valid
	}

	return info
}

// AddMonths adds n calendar months to t. When the target month is shorter
// than t's day of month the result is clamped to its last day, so Jan 31
// plus one month is Feb 28 (or 29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
