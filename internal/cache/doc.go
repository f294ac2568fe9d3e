// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache holds rendered view fragments keyed by product content
// version, and the sweep policy that keeps it bounded.
package cache
