// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package render

// Viewport describes the visible part of a scrolled list. Offset, ItemExtent
// and Height share one unit (terminal rows for the browser).
type Viewport struct {
	Enabled    bool
	Offset     int
	ItemExtent int
	Height     int
	Overscan   int
	Threshold  int
}

// Window is the half open range [Start, End) of items to materialize.
type Window struct {
	Start   int
	End     int
	Virtual bool
}

// Len returns the number of items in w.
func (w Window) Len() int {
	return w.End - w.Start
}

// Window computes which of n items to materialize. Without virtualization,
// or with n at or below the threshold, that is all of them.
func (v Viewport) Window(n int) Window {
	if !v.Enabled || n <= v.Threshold {
		return Window{Start: 0, End: n}
	}

	extent := max(v.ItemExtent, 1)
	count := (max(v.Height, 1) + extent - 1) / extent
	// Offsets past the end show the last full page.
	first := min(max(v.Offset, 0)/extent, max(n-count, 0))
	overscan := max(v.Overscan, 0)

	start := max(first-overscan, 0)
	end := min(first+count+overscan, n)
	return Window{Start: start, End: end, Virtual: true}
}

// MaxOffset is the largest useful offset for n items.
func (v Viewport) MaxOffset(n int) int {
	extent := max(v.ItemExtent, 1)
	return max(n*extent-max(v.Height, 1), 0)
}
